package httpx

import (
	"encoding/json"
	"net/http"
	"strings"
)

// IsHTMX reports whether the request was initiated by htmx (Hx-Request: true).
func IsHTMX(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Hx-Request"), "true")
}

// IsBoosted reports whether the request was initiated by hx-boost (Hx-Boosted: true).
func IsBoosted(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Hx-Boosted"), "true")
}

// IsHistoryRestore reports true when htmx is restoring history (Hx-History-Restore-Request: true).
func IsHistoryRestore(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Hx-History-Restore-Request"), "true")
}

// WantsPartial returns true when the handler should return only the main fragment.
// Boosted navigations and history restores swap the body, so they get the full layout.
func WantsPartial(r *http.Request) bool {
	return IsHTMX(r) && !IsBoosted(r) && !IsHistoryRestore(r)
}

// HXTarget returns the id of the target element being updated.
func HXTarget(r *http.Request) string { return r.Header.Get("Hx-Target") }

// HTMXResponse sets htmx response headers. Methods chain and never write the status
// line, except Redirect which completes the response.
type HTMXResponse struct {
	w http.ResponseWriter
}

// HTMX wraps w for setting htmx response headers.
func HTMX(w http.ResponseWriter) *HTMXResponse { return &HTMXResponse{w: w} }

// Redirect asks htmx to perform a full client-side navigation and ends the response.
func (h *HTMXResponse) Redirect(url string) {
	h.w.Header().Set("Hx-Redirect", url)
	h.w.WriteHeader(http.StatusNoContent)
}

// PushURL pushes url into the browser history for the swapped content.
func (h *HTMXResponse) PushURL(url string) *HTMXResponse {
	h.w.Header().Set("Hx-Push-Url", url)
	return h
}

// Refresh forces a full page reload.
func (h *HTMXResponse) Refresh() *HTMXResponse {
	h.w.Header().Set("Hx-Refresh", "true")
	return h
}

// Reswap overrides the hx-swap of the triggering element ("none" keeps the page as is).
func (h *HTMXResponse) Reswap(strategy string) *HTMXResponse {
	h.w.Header().Set("Hx-Reswap", strategy)
	return h
}

// Retarget overrides the hx-target of the triggering element.
func (h *HTMXResponse) Retarget(selector string) *HTMXResponse {
	h.w.Header().Set("Hx-Retarget", selector)
	return h
}

// Trigger adds a client-side event to the Hx-Trigger header. Events set earlier
// in the same response are kept. A nil payload sends true.
func (h *HTMXResponse) Trigger(event string, payload any) *HTMXResponse {
	events := map[string]any{}
	if existing := h.w.Header().Get("Hx-Trigger"); existing != "" {
		if err := json.Unmarshal([]byte(existing), &events); err != nil {
			events = map[string]any{existing: true}
		}
	}
	if payload == nil {
		payload = true
	}
	events[event] = payload

	b, err := json.Marshal(events)
	if err != nil {
		h.w.Header().Set("Hx-Trigger", `{"`+event+`":true}`)
		return h
	}
	h.w.Header().Set("Hx-Trigger", string(b))
	return h
}

// Toast triggers the showToast event handled by static/js/app.js.
func (h *HTMXResponse) Toast(message, kind string) *HTMXResponse {
	return h.Trigger(toastEvent, toast{Message: message, Type: kind})
}

const toastEvent = "showToast"

type toast struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}
