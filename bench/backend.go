package bench

import (
	"fmt"

	"github.com/gettalong/pdfbench/renderer"
	canvasrenderer "github.com/gettalong/pdfbench/renderer/canvas"
	fpdfrenderer "github.com/gettalong/pdfbench/renderer/fpdf"
)

// NewBackend creates a fresh backend for one render.
func NewBackend(lib Library, compress, deterministic bool) (renderer.Backend, error) {
	switch lib {
	case Canvas:
		// 确定性开关仅作用于 fpdf
		return canvasrenderer.NewRenderer(canvasrenderer.Options{Compress: compress}), nil
	case FPDF:
		return fpdfrenderer.NewRenderer(fpdfrenderer.Options{
			Compress:      compress,
			Deterministic: deterministic,
		}), nil
	default:
		return nil, fmt.Errorf("unknown library %q", lib)
	}
}
