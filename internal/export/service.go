package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/cv-builder/internal/i18n"
	"github.com/jonathan/cv-builder/internal/logging"
	"github.com/jonathan/cv-builder/internal/metrics"
	"github.com/jonathan/cv-builder/internal/notify"
	"github.com/jonathan/cv-builder/internal/rendering"
	"github.com/jonathan/cv-builder/internal/store"
	"github.com/jonathan/cv-builder/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatDOCX = "docx"
	FormatPDF  = "pdf"
)

// ErrNoPrinter is returned by PDF exports when no headless browser is configured.
var ErrNoPrinter = errors.New("no PDF printer configured")

// PDFPrinter turns print-styled HTML into a PDF.
type PDFPrinter interface {
	PrintPDF(ctx context.Context, html string) ([]byte, error)
}

// Artifact is one exported file.
type Artifact struct {
	Format      string
	Filename    string
	ContentType string
	Data        []byte
}

// Options holds the collaborators of a Service. Registry is required.
type Options struct {
	Registry *rendering.Registry
	// Measurer paginates previews; nil uses the estimate measurer.
	Measurer rendering.Measurer
	// Printer produces PDFs; nil disables PDF export.
	Printer  PDFPrinter
	Notifier notify.Notifier
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
	Now      func() time.Time
}

// Service renders and exports the live document. It only reads from the store.
type Service struct {
	store    *store.Store
	registry *rendering.Registry
	measurer rendering.Measurer
	printer  PDFPrinter
	notifier notify.Notifier
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates an export service over st.
func NewService(st *store.Store, opts Options) *Service {
	s := &Service{
		store:    st,
		registry: opts.Registry,
		measurer: opts.Measurer,
		printer:  opts.Printer,
		notifier: opts.Notifier,
		metrics:  opts.Metrics,
		logger:   logging.OrNop(opts.Logger),
		now:      opts.Now,
	}
	if s.registry == nil {
		s.registry = rendering.MustDefault()
	}
	if s.measurer == nil {
		s.measurer = rendering.EstimateMeasurer{}
	}
	if s.notifier == nil {
		s.notifier = notify.Nop{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// CanPrintPDF reports whether PDF export is available.
func (s *Service) CanPrintPDF() bool {
	return s.printer != nil
}

// snapshot is the document and preferences read once per export.
type snapshot struct {
	doc    types.CVDocument
	prefs  types.Preferences
	labels *i18n.Labels
}

func (s *Service) take() snapshot {
	doc, prefs := s.store.Snapshot()
	labels, err := i18n.Get(prefs.Language)
	if err != nil {
		labels = i18n.MustGet(i18n.Default)
	}
	return snapshot{doc: doc, prefs: prefs, labels: labels}
}

// Preview renders the live document with the selected skin and paginates it.
func (s *Service) Preview(ctx context.Context) (*rendering.Preview, error) {
	return s.preview(ctx, s.take())
}

func (s *Service) preview(ctx context.Context, snap snapshot) (*rendering.Preview, error) {
	start := time.Now()
	r, err := s.registry.Renderer(snap.prefs.TemplateID, snap.prefs.Language)
	if err != nil {
		s.metrics.ObserveRender(snap.prefs.TemplateID, time.Since(start), err)
		return nil, err
	}
	design := snap.prefs.Design
	preview, err := rendering.RenderPreview(ctx, r, s.measurer, snap.doc, snap.prefs.AccentColor, &design)
	s.metrics.ObserveRender(snap.prefs.TemplateID, time.Since(start), err)
	if err != nil {
		s.logger.Warn("render failed", zap.String("template", snap.prefs.TemplateID), zap.Error(err))
		return nil, err
	}
	s.metrics.SetPages(snap.prefs.TemplateID, preview.Pages)
	return preview, nil
}

// PrintView returns the paginated print HTML of the live document.
func (s *Service) PrintView(ctx context.Context) (string, error) {
	preview, err := s.Preview(ctx)
	if err != nil {
		return "", err
	}
	return PrintHTML(preview), nil
}

// JSON exports the backup snapshot.
func (s *Service) JSON(ctx context.Context) (*Artifact, error) {
	snap := s.take()
	art, err := s.jsonArtifact(snap)
	return s.finish(snap, FormatJSON, art, err)
}

// DOCX exports the word-processor document.
func (s *Service) DOCX(ctx context.Context) (*Artifact, error) {
	snap := s.take()
	art, err := s.docxArtifact(snap)
	return s.finish(snap, FormatDOCX, art, err)
}

// PDF prints the paginated view through the configured printer.
func (s *Service) PDF(ctx context.Context) (*Artifact, error) {
	snap := s.take()
	art, err := s.pdfArtifact(ctx, snap)
	return s.finish(snap, FormatPDF, art, err)
}

// ExportAll writes the JSON, DOCX and (when a printer is configured) PDF artifacts of one
// snapshot into dir concurrently and returns the written paths.
func (s *Service) ExportAll(ctx context.Context, dir string) ([]string, error) {
	snap := s.take()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		err = &ExportError{Format: "all", Message: "cannot create output directory", Cause: err}
		s.notifier.Error(snap.labels.Notifications.ExportFailed, err)
		return nil, err
	}

	builders := []func(context.Context) (*Artifact, error){
		func(context.Context) (*Artifact, error) { return s.jsonArtifact(snap) },
		func(context.Context) (*Artifact, error) { return s.docxArtifact(snap) },
	}
	if s.printer != nil {
		builders = append(builders, func(ctx context.Context) (*Artifact, error) { return s.pdfArtifact(ctx, snap) })
	}

	paths := make([]string, len(builders))
	g, gctx := errgroup.WithContext(ctx)
	for i, build := range builders {
		g.Go(func() error {
			art, err := build(gctx)
			if art != nil {
				s.metrics.ObserveExport(art.Format, err)
			}
			if err != nil {
				return err
			}
			path := filepath.Join(dir, art.Filename)
			if err := os.WriteFile(path, art.Data, 0o644); err != nil {
				return &ExportError{Format: art.Format, Message: "cannot write " + path, Cause: err}
			}
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Warn("export failed", zap.String("dir", dir), zap.Error(err))
		s.notifier.Error(snap.labels.Notifications.ExportFailed, err)
		return nil, err
	}

	s.logger.Info("exported artifacts", zap.String("dir", dir), zap.Strings("files", paths))
	s.notifier.Info(snap.labels.Notifications.ExportOK)
	return paths, nil
}

// Import validates a backup file and applies every key it sets to the live document.
func (s *Service) Import(data []byte) error {
	labels := s.store.Labels()
	patch, err := ParseSnapshot(data)
	if err == nil {
		if loadErr := s.store.Load(patch); loadErr != nil {
			err = &ImportError{Message: "backup holds invalid values", Cause: loadErr}
		}
	}
	if err != nil {
		s.logger.Warn("import rejected", zap.Error(err))
		s.notifier.Error(labels.Notifications.ImportFailed, err)
		return err
	}
	s.notifier.Info(labels.Notifications.ImportOK)
	return nil
}

func (s *Service) jsonArtifact(snap snapshot) (*Artifact, error) {
	data, err := MarshalSnapshot(snap.doc)
	art := &Artifact{Format: FormatJSON, Filename: JSONFilename(s.now()), ContentType: "application/json", Data: data}
	return art, err
}

func (s *Service) docxArtifact(snap snapshot) (art *Artifact, err error) {
	art = &Artifact{Format: FormatDOCX, Filename: DOCXFilename(snap.doc.Personal.FullName()), ContentType: DOCXContentType}
	defer func() {
		if r := recover(); r != nil {
			err = &ExportError{Format: FormatDOCX, Message: fmt.Sprintf("document generation panicked: %v", r)}
		}
	}()

	var buf bytes.Buffer
	if err := WriteDOCX(&buf, BuildParagraphs(snap.doc, snap.labels)); err != nil {
		return art, err
	}
	art.Data = buf.Bytes()
	return art, nil
}

func (s *Service) pdfArtifact(ctx context.Context, snap snapshot) (*Artifact, error) {
	art := &Artifact{Format: FormatPDF, Filename: pdfFilename(snap.doc.Personal.FullName()), ContentType: "application/pdf"}
	if s.printer == nil {
		return art, &ExportError{Format: FormatPDF, Message: "cannot print", Cause: ErrNoPrinter}
	}
	preview, err := s.preview(ctx, snap)
	if err != nil {
		return art, &ExportError{Format: FormatPDF, Message: "cannot render", Cause: err}
	}
	data, err := s.printer.PrintPDF(ctx, PrintHTML(preview))
	if err != nil {
		return art, &ExportError{Format: FormatPDF, Message: "print failed", Cause: err}
	}
	art.Data = data
	return art, nil
}

// finish records the outcome of a single export and notifies the user.
func (s *Service) finish(snap snapshot, format string, art *Artifact, err error) (*Artifact, error) {
	s.metrics.ObserveExport(format, err)
	if err != nil {
		s.logger.Warn("export failed", zap.String("format", format), zap.Error(err))
		s.notifier.Error(snap.labels.Notifications.ExportFailed, err)
		return nil, err
	}
	s.logger.Debug("exported", zap.String("format", format), zap.String("file", art.Filename), zap.Int("bytes", len(art.Data)))
	s.notifier.Info(snap.labels.Notifications.ExportOK)
	return art, nil
}

func pdfFilename(fullName string) string {
	name := DOCXFilename(fullName)
	return name[:len(name)-len(".docx")] + ".pdf"
}
