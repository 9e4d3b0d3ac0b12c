package vanilla

// ChromeClass is a typed identifier for semantic layout CSS classes.
type ChromeClass string

const (
	ClassBody        ChromeClass = "formpreview"
	ClassLayout      ChromeClass = "formpreview-layout"
	ClassFormPane    ChromeClass = "formpreview-form-pane"
	ClassForm        ChromeClass = "formpreview-form"
	ClassErrors      ChromeClass = "formpreview-errors"
	ClassField       ChromeClass = "formpreview-field"
	ClassInput       ChromeClass = "formpreview-input"
	ClassFieldError  ChromeClass = "formpreview-field-error"
	ClassPreviewPane ChromeClass = "formpreview-preview-pane"
	ClassContainer   ChromeClass = "formpreview-container"
	ClassOverlay     ChromeClass = "formpreview-overlay"
	ClassSurface     ChromeClass = "formpreview-surface"
)

func defaultClasses() map[string]string {
	return map[string]string{
		"body":        string(ClassBody),
		"layout":      string(ClassLayout),
		"formPane":    string(ClassFormPane),
		"form":        string(ClassForm),
		"errors":      string(ClassErrors),
		"field":       string(ClassField),
		"input":       string(ClassInput),
		"fieldError":  string(ClassFieldError),
		"previewPane": string(ClassPreviewPane),
		"container":   string(ClassContainer),
		"overlay":     string(ClassOverlay),
		"surface":     string(ClassSurface),
	}
}
