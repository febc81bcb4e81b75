package auth

import (
	"net/http"
	"time"
)

// CookieName is the session token cookie.
const CookieName = "token"

// NewSessionCookie wraps a signed token in an http-only cookie. Secure is set
// in production only.
func NewSessionCookie(token string, expiry time.Duration, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(expiry),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ExpiredSessionCookie instructs the client to discard its session token.
// There is no server-side revocation list.
func ExpiredSessionCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "none",
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
