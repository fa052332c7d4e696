package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
)

// Renderer executes embedded HTML page templates.
// html/template escapes every interpolated value for its output context,
// so user supplied content and search keywords are inert in the markup.
type Renderer struct {
	tmpl *template.Template
}

func New(fsys fs.FS) (*Renderer, error) {
	tmpl, err := template.ParseFS(fsys, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("error while parsing templates. Err: %w", err)
	}

	return &Renderer{tmpl: tmpl}, nil
}

// Page renders the named page template with the given status code.
// The template runs into a buffer first: a rendering failure becomes a
// clean 500 instead of a half-written page.
func (rd *Renderer) Page(w http.ResponseWriter, status int, page string, data any) {
	buf := &bytes.Buffer{}

	if err := rd.tmpl.ExecuteTemplate(buf, page, data); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// ClientError renders the error page for user-correctable mistakes
func (rd *Renderer) ClientError(w http.ResponseWriter, message string, status int) {
	rd.Page(w, status, "error.html", struct {
		Status  int
		Message string
	}{Status: status, Message: message})
}

// ServerError renders a generic 500 page
// Internal error details stay in logs, never in the response
func (rd *Renderer) ServerError(w http.ResponseWriter) {
	rd.ClientError(w, "Something went wrong, please try again later.", http.StatusInternalServerError)
}
