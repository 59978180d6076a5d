package render

import (
	"context"

	"github.com/goliatone/go-settingsgen/pkg/model"
)

// Renderer converts resolved descriptors into a byte representation (HTML,
// terminal output, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, descriptors model.Descriptors, options RenderOptions) ([]byte, error)
}
