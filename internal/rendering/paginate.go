package rendering

import (
	"context"
	"math"

	"github.com/jonathan/cv-builder/internal/types"
)

// A4 dimensions at 96 dpi.
const (
	A4WidthPx  = 794
	A4HeightPx = 1123
)

// Measurer reports the laid-out height of a visual document in CSS pixels.
type Measurer interface {
	Measure(ctx context.Context, v *VisualDocument) (float64, error)
}

// MeasurerFunc adapts a function to Measurer.
type MeasurerFunc func(ctx context.Context, v *VisualDocument) (float64, error)

// Measure calls f.
func (f MeasurerFunc) Measure(ctx context.Context, v *VisualDocument) (float64, error) {
	return f(ctx, v)
}

// PageCount is the number of A4 pages needed for height; never less than one.
func PageCount(height float64) int {
	if height <= 0 || math.IsNaN(height) {
		return 1
	}
	return max(1, int(math.Ceil(height/A4HeightPx)))
}

// Preview is a rendered document with its measured pagination.
type Preview struct {
	Visual *VisualDocument
	Height float64
	Pages  int
}

// Paginate measures v and derives its page count.
func Paginate(ctx context.Context, m Measurer, v *VisualDocument) (*Preview, error) {
	if m == nil {
		m = EstimateMeasurer{}
	}
	height, err := m.Measure(ctx, v)
	if err != nil {
		return nil, &MeasureError{Message: "failed to measure " + v.Template, Cause: err}
	}
	return &Preview{Visual: v, Height: height, Pages: PageCount(height)}, nil
}

// RenderPreview renders doc with r and paginates the result.
func RenderPreview(ctx context.Context, r Renderer, m Measurer, doc types.CVDocument, accentColor string, design *types.DesignSettings) (*Preview, error) {
	v, err := r.Render(doc, accentColor, design)
	if err != nil {
		return nil, err
	}
	return Paginate(ctx, m, v)
}
