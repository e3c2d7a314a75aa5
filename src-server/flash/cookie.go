package flash

import (
	"log/slog"
	"net/http"
	"time"
)

const CookieName = "flash"

// Set replaces whatever is pending with messages, to be shown by the next Pop.
func Set(w http.ResponseWriter, secret string, messages ...Message) error {
	value, err := Encode(messages, secret, time.Now())
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Pop returns the pending messages once and clears the cookie. A cookie that
// fails verification yields nothing.
func Pop(w http.ResponseWriter, r *http.Request, secret string) []Message {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	messages, err := Decode(cookie.Value, secret, time.Now())
	if err != nil {
		slog.Debug("dropping flash cookie", "error", err)
		return nil
	}
	return messages
}
