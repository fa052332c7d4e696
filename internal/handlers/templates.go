package handlers

import (
	"embed"

	"github.com/tegarrramadhaaan/timeline/internal/handlers/render"
)

//go:embed templates/*.html
var templatesFS embed.FS

// NewRenderer creates a renderer over the embedded page templates
func NewRenderer() (*render.Renderer, error) {
	return render.New(templatesFS)
}
