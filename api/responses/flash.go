package responses

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

// FlashCookieName carries one-shot messages across a redirect.
const FlashCookieName = "petadopt_flash"

type FlashCategory string

const (
	FlashSuccess FlashCategory = "success"
	FlashDanger  FlashCategory = "danger"
	FlashInfo    FlashCategory = "info"
	FlashWarning FlashCategory = "warning"
)

// Flash is a single user-visible message.
type Flash struct {
	Category FlashCategory `json:"c"`
	Message  string        `json:"m"`
}

func Success(message string) Flash { return Flash{Category: FlashSuccess, Message: message} }
func Danger(message string) Flash  { return Flash{Category: FlashDanger, Message: message} }
func Info(message string) Flash    { return Flash{Category: FlashInfo, Message: message} }
func Warning(message string) Flash { return Flash{Category: FlashWarning, Message: message} }

// PeekFlashes decodes the flashes on r without consuming them. A malformed
// cookie yields no flashes.
func PeekFlashes(r *http.Request) []Flash {
	if r == nil {
		return nil
	}
	cookie, err := r.Cookie(FlashCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	var flashes []Flash
	if err := json.Unmarshal(raw, &flashes); err != nil {
		return nil
	}
	return flashes
}

// PopFlashes returns the pending flashes and expires the cookie.
func PopFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	flashes := PeekFlashes(r)
	if _, err := r.Cookie(FlashCookieName); err == nil {
		http.SetCookie(w, &http.Cookie{
			Name:     FlashCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return flashes
}

func setFlashCookie(w http.ResponseWriter, flashes []Flash) {
	payload, err := json.Marshal(flashes)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(payload),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
