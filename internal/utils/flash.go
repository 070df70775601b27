package utils // package utils provides helper functions for signing flash messages

import (
    "crypto/sha256" // SHA‑256 is the HKDF hash
    "errors"        // errors defines sentinel values
    "io"            // io reads the derived key
    "time"          // time utilities for token expiry

    "github.com/golang-jwt/jwt/v5" // JWT library for signing and parsing flash tokens
    "golang.org/x/crypto/hkdf"     // HKDF derives a purpose-bound key from the session secret
)

// ErrInvalidFlash is returned when a flash token fails verification.
var ErrInvalidFlash = errors.New("invalid flash token")

// flashKeyInfo binds the derived key to flash cookies so the session secret
// can be reused for other purposes without key overlap.
const flashKeyInfo = "movielist flash v1"

// FlashSigner signs and verifies one-shot flash messages carried in a
// cookie.  The token is an HS256 JWT whose "msg" claim holds the text.
type FlashSigner struct {
    key []byte
    ttl time.Duration
}

// NewFlashSigner derives a signing key from secret with HKDF-SHA256.
// Messages expire after ttl.
func NewFlashSigner(secret string, ttl time.Duration) (*FlashSigner, error) {
    if secret == "" {
        return nil, errors.New("empty session secret")
    }
    if ttl <= 0 {
        ttl = time.Minute
    }
    key := make([]byte, 32)
    if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(flashKeyInfo)), key); err != nil {
        return nil, err
    }
    return &FlashSigner{key: key, ttl: ttl}, nil
}

// TTL reports how long a signed message stays valid.
func (s *FlashSigner) TTL() time.Duration { return s.ttl }

// Sign returns a signed token carrying msg.
func (s *FlashSigner) Sign(msg string) (string, error) {
    now := time.Now().UTC()
    claims := jwt.MapClaims{
        "msg": msg,
        "iat": now.Unix(),
        "exp": now.Add(s.ttl).Unix(),
    }
    return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}

// Verify checks the signature and expiry of token and returns its message.
func (s *FlashSigner) Verify(token string) (string, error) {
    parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
        return s.key, nil
    }, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
    if err != nil || !parsed.Valid {
        return "", ErrInvalidFlash
    }
    claims, ok := parsed.Claims.(jwt.MapClaims)
    if !ok {
        return "", ErrInvalidFlash
    }
    msg, ok := claims["msg"].(string)
    if !ok {
        return "", ErrInvalidFlash
    }
    return msg, nil
}
