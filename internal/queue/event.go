// Package queue defines message payloads exchanged over the message broker
// and the consumer that records them.
package queue

// ActivityQueueName is the durable queue movie activity is published to.
const ActivityQueueName = "movie.activity"

// Activity actions.
const (
    ActionAdded    = "added"
    ActionReviewed = "reviewed"
    ActionDeleted  = "deleted"
)

// MovieActivityEvent is published after a personal-list entry is added,
// reviewed or deleted.  It carries enough information for downstream
// consumers to log or notify without querying the primary database.
type MovieActivityEvent struct {
    Action     string  `json:"action"`
    MovieID    uint64  `json:"movie_id"`
    Title      string  `json:"title"`
    Review     *string `json:"review,omitempty"`
    OccurredAt string  `json:"occurred_at"`
}
