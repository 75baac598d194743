package auth

import (
	"net/http"
	"strings"
	"time"
)

// CookieSettings controls the admin session cookie
type CookieSettings struct {
	Name   string
	Secure bool
}

// SetTokenCookie writes the admin token cookie
func (c CookieSettings) SetTokenCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
	})
}

// ClearTokenCookie deletes the admin token cookie
func (c CookieSettings) ClearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// TokenFromRequest extracts a bearer token from the Authorization header or the cookie
func (c CookieSettings) TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if cookie, err := r.Cookie(c.Name); err == nil {
		return cookie.Value
	}
	return ""
}
