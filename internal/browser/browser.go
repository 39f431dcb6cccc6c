// Package browser drives a headless Chrome to measure rendered CVs and print them to PDF.
// Requires Chrome/Chromium to be installed on the system.
package browser

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/jonathan/cv-builder/internal/logging"
	"github.com/jonathan/cv-builder/internal/rendering"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a single measure or print.
const DefaultTimeout = 30 * time.Second

// A4 paper in inches.
const (
	paperWidthIn  = 8.27
	paperHeightIn = 11.69
)

// Browser holds a headless Chrome allocator shared by every operation.
type Browser struct {
	allocCtx context.Context
	cancel   context.CancelFunc
	timeout  time.Duration
	logger   *zap.Logger
}

// Options configures the browser.
type Options struct {
	// ExecPath overrides the Chrome binary; empty uses chromedp's lookup.
	ExecPath string
	Timeout  time.Duration
	Logger   *zap.Logger
}

// Available reports whether a Chrome binary can be found.
func Available(execPath string) bool {
	if execPath != "" {
		_, err := exec.LookPath(execPath)
		return err == nil
	}
	for _, name := range []string{"google-chrome", "chromium", "chromium-browser", "headless-shell", "chrome"} {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}
	return false
}

// New creates the allocator. Chrome itself starts lazily on the first operation.
func New(ctx context.Context, opts Options) *Browser {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(rendering.A4WidthPx, rendering.A4HeightPx),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}
	allocCtx, cancel := chromedp.NewExecAllocator(ctx, allocOpts...)

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Browser{
		allocCtx: allocCtx,
		cancel:   cancel,
		timeout:  timeout,
		logger:   logging.OrNop(opts.Logger),
	}
}

// Close shuts the browser down.
func (b *Browser) Close() {
	b.cancel()
}

// run loads html into a fresh tab and runs actions against it.
func (b *Browser) run(ctx context.Context, html string, actions ...chromedp.Action) error {
	tabCtx, cancelTab := chromedp.NewContext(b.allocCtx)
	defer cancelTab()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, b.timeout)
	defer cancelTimeout()

	// Propagate cancellation of the caller's context.
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	load := chromedp.Tasks{
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("#cv-root", chromedp.ByID),
	}
	return chromedp.Run(tabCtx, append(load, actions...)...)
}

// Measure returns the scroll height of #cv-root. It satisfies rendering.Measurer.
func (b *Browser) Measure(ctx context.Context, v *rendering.VisualDocument) (float64, error) {
	start := time.Now()
	var height float64
	err := b.run(ctx, v.HTML(),
		chromedp.Evaluate(`document.getElementById("cv-root").scrollHeight`, &height),
	)
	if err != nil {
		return 0, fmt.Errorf("browser measure failed: %w", err)
	}
	b.logger.Debug("measured document",
		zap.String("template", v.Template),
		zap.Float64("height", height),
		zap.Duration("elapsed", time.Since(start)))
	return height, nil
}

// PrintPDF prints html on A4 paper with zero margins, honoring CSS @page rules.
func (b *Browser) PrintPDF(ctx context.Context, html string) ([]byte, error) {
	var pdf []byte
	err := b.run(ctx, html,
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(paperWidthIn).
				WithPaperHeight(paperHeightIn).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				WithPreferCSSPageSize(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = data
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("browser print failed: %w", err)
	}
	b.logger.Debug("printed document", zap.Int("bytes", len(pdf)))
	return pdf, nil
}
