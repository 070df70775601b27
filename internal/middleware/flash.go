package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http" // cookie type and SameSite constants

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/iliyamo/movielist/internal/utils" // flash token signing
)

// FlashCookie is the cookie carrying a signed flash message.
const FlashCookie = "flash"

// FlashKey is the echo.Context key the current flash message is stored under.
const FlashKey = "flash"

// Flash returns middleware that consumes a flash cookie.  A valid message is
// stored in the context under FlashKey and the cookie is cleared so it shows
// exactly once.  Invalid or expired tokens are dropped silently.
func Flash(signer *utils.FlashSigner) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            ck, err := c.Cookie(FlashCookie)
            if err != nil || ck.Value == "" {
                return next(c)
            }
            // Clear first; a handler setting a new flash overwrites this.
            c.SetCookie(&http.Cookie{Name: FlashCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
            if msg, err := signer.Verify(ck.Value); err == nil {
                c.Set(FlashKey, msg)
            }
            return next(c)
        }
    }
}

// SetFlash signs msg and attaches it to the response so the next request
// served through Flash sees it.
func SetFlash(c echo.Context, signer *utils.FlashSigner, msg string) error {
    tok, err := signer.Sign(msg)
    if err != nil {
        return err
    }
    c.SetCookie(&http.Cookie{
        Name:     FlashCookie,
        Value:    tok,
        Path:     "/",
        MaxAge:   int(signer.TTL().Seconds()),
        HttpOnly: true,
        SameSite: http.SameSiteLaxMode,
    })
    return nil
}

// FlashMessage returns the flash message of the current request, if any.
func FlashMessage(c echo.Context) string {
    if s, ok := c.Get(FlashKey).(string); ok {
        return s
    }
    return ""
}
