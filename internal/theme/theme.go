// Package theme persists the dark/light preference of a visitor.
package theme

import (
	"net/http"
	"time"
)

// Key names the cookie holding the preference
const Key = "theme"

// Preference is the selected color scheme
type Preference string

const (
	Light Preference = "light"
	Dark  Preference = "dark"
)

// Parse maps a stored value to a Preference. Only "dark" selects Dark.
func Parse(s string) Preference {
	if s == string(Dark) {
		return Dark
	}
	return Light
}

// Toggle returns the opposite preference
func (p Preference) Toggle() Preference {
	if p == Dark {
		return Light
	}
	return Dark
}

func (p Preference) IsDark() bool {
	return p == Dark
}

// Class is the CSS class applied to the page body
func (p Preference) Class() string {
	if p.IsDark() {
		return "dark-theme"
	}
	return ""
}

// FromRequest reads the preference stored with the request, Light if none
func FromRequest(r *http.Request) Preference {
	c, err := r.Cookie(Key)
	if err != nil {
		return Light
	}
	return Parse(c.Value)
}

// Cookie builds the cookie that stores p for a year
func Cookie(p Preference) *http.Cookie {
	return &http.Cookie{
		Name:     Key,
		Value:    string(p),
		Path:     "/",
		Expires:  time.Now().Add(365 * 24 * time.Hour),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
