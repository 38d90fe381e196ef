package http

import (
	"net/http"
	"time"
)

// DefaultCookieName names the cookie that carries the browser binding
const DefaultCookieName = "bloodlink_browser"

// CookieSettings shapes the browser binding cookie.
// The cookie is always HttpOnly and SameSite=Strict.
type CookieSettings struct {
	Name   string
	Secure bool

	// MaxAge of zero issues a cookie that ends with the browser session
	MaxAge time.Duration
}

func (s CookieSettings) issue(value string) *http.Cookie {
	cookie := s.template()
	cookie.Value = value
	cookie.MaxAge = int(s.MaxAge / time.Second)
	return cookie
}

func (s CookieSettings) expire() *http.Cookie {
	cookie := s.template()
	cookie.MaxAge = -1
	return cookie
}

func (s CookieSettings) template() *http.Cookie {
	return &http.Cookie{
		Name:     s.Name,
		Path:     "/",
		Secure:   s.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}
