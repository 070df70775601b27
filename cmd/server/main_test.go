package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movielist/internal/config"
	"github.com/iliyamo/movielist/internal/testutil"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCommand()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"serve", "migrate", "seed", "activity-log"})
}

func TestNewLoggerFormatAndLevel(t *testing.T) {
	log := newLogger(config.Config{Env: "prod"}, "debug")
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log = newLogger(config.Config{Env: "dev"}, "nonsense")
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestSeedCommand(t *testing.T) {
	fake := testutil.NewFakeTMDB(t)
	fake.TopRated[1] = []testutil.FakeMovie{
		{ID: 1, Title: "The Godfather", ReleaseDate: "1972-03-14", PosterPath: "/g.jpg"},
		{ID: 2, Title: "Parasite", ReleaseDate: "2019-05-30", PosterPath: "/p.jpg"},
	}

	t.Setenv("DB_URI", "sqlite://"+filepath.Join(t.TempDir(), "movies.db"))
	t.Setenv("API_KEY", fake.APIKey)
	t.Setenv("LOOKUP_BASE_URL", fake.URL)
	t.Setenv("SEED_PAGES", "1")

	run := func(args ...string) string {
		root := newRootCommand()
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetArgs(args)
		require.NoError(t, root.Execute())
		return out.String()
	}

	run("migrate", "--log-level", "error")
	assert.Contains(t, run("seed", "--log-level", "error"), "SEEDED: inserted=2")
	assert.Contains(t, run("seed", "--log-level", "error"), "SEEDED: inserted=0")
}

func TestSeedCommandRequiresAPIKey(t *testing.T) {
	t.Setenv("API_KEY", "")
	root := newRootCommand()
	root.SetArgs([]string{"seed"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_KEY")
}
