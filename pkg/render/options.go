package render

// RenderOptions describe per-request data that renderers can use to customise
// their output without touching the session.
type RenderOptions struct {
	// Action is the URL the form posts to. Defaults to "/".
	Action string
	// Theme and ThemeVariant select the visual theme for renderers that
	// support one.
	Theme        string
	ThemeVariant string
	// Errors surfaces validation feedback keyed by field name.
	Errors map[string][]string
	// FormErrors are messages not tied to a single field.
	FormErrors []string
	// HiddenFields are emitted as hidden inputs (CSRF token, session hints).
	HiddenFields map[string]string
}
