// Package notice produces alvará PDFs from case records.
package notice

import (
	"context"
	_ "embed"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/zeebo/blake3"

	"github.com/techttk77-droid/baixadoc-alvara/assets"
	"github.com/techttk77-droid/baixadoc-alvara/dsl"
	"github.com/techttk77-droid/baixadoc-alvara/layout"
	"github.com/techttk77-droid/baixadoc-alvara/record"
	"github.com/techttk77-droid/baixadoc-alvara/register"
	canvasrenderer "github.com/techttk77-droid/baixadoc-alvara/renderer/canvas"
)

//go:embed templates/alvara.notice
var defaultTemplate []byte

// UserMessage is shown when generation fails after validation.
const UserMessage = "Erro ao gerar PDF."

// ErrGeneration is matched by every GenerationError.
var ErrGeneration = errors.New("notice: falha na geração")

// GenerationError wraps any failure after a record passed validation. Stage
// names the step that failed.
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("notice: %s: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Is lets errors.Is match ErrGeneration as well as the cause.
func (e *GenerationError) Is(target error) bool { return target == ErrGeneration }

// Message is the text shown to the user.
func (e *GenerationError) Message() string { return UserMessage }

// DefaultTemplate parses the bundled alvará template.
func DefaultTemplate() (*dsl.Document, error) {
	return dsl.ParseBytes("alvara.notice", defaultTemplate)
}

// LoadTemplate parses the template at path, or the bundled one when path is
// empty.
func LoadTemplate(path string) (*dsl.Document, error) {
	if path == "" {
		return DefaultTemplate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("notice: ler modelo %s: %w", path, err)
	}
	doc, err := dsl.ParseBytes(path, data)
	if err != nil {
		return nil, fmt.Errorf("notice: analisar modelo %s: %w", path, err)
	}
	return doc, nil
}

// Recorder stores issued notices.
type Recorder interface {
	Record(ctx context.Context, e register.Entry) (register.Entry, error)
}

// Document is a generated notice.
type Document struct {
	ID       string // register id, empty without a Recorder
	Filename string
	PDF      []byte
	Digest   string // hex BLAKE3-256 of PDF
	IssuedAt time.Time
	Layout   *layout.Result
}

// Generator turns validated records into PDFs. Its fields are read-only
// once Generate is first called, so one Generator can serve concurrent
// requests.
type Generator struct {
	Template *dsl.Document
	Assets   fs.FS
	Fonts    map[layout.Weight]canvasrenderer.Resource
	Register Recorder
	Now      func() time.Time
	Logger   *slog.Logger
}

// Generate validates rec and renders its notice. A record that fails
// validation returns its *record.ValidationError before any asset is read;
// every later failure is a *GenerationError. No partial document is
// returned.
func (g *Generator) Generate(ctx context.Context, rec record.CaseRecord) (*Document, error) {
	log := g.logger()
	if err := rec.Validate(); err != nil {
		log.InfoContext(ctx, "formulário incompleto", "erro", err)
		return nil, err
	}
	doc, err := g.generate(ctx, rec)
	if err != nil {
		log.ErrorContext(ctx, "falha ao gerar alvará", "processo", rec.CaseNumber, "erro", err)
		return nil, err
	}
	log.InfoContext(ctx, "alvará gerado",
		"processo", rec.CaseNumber,
		"arquivo", doc.Filename,
		"bytes", len(doc.PDF),
		"digest", doc.Digest,
		"id", doc.ID,
	)
	return doc, nil
}

func (g *Generator) generate(ctx context.Context, rec record.CaseRecord) (*Document, error) {
	fail := func(stage string, err error) (*Document, error) {
		return nil, &GenerationError{Stage: stage, Err: err}
	}
	tpl := g.Template
	if tpl == nil {
		var err error
		if tpl, err = DefaultTemplate(); err != nil {
			return fail("modelo", err)
		}
	}
	refs, err := layout.CollectResources(tpl)
	if err != nil {
		return fail("modelo", err)
	}
	bundle, err := assets.Load(ctx, g.Assets, refs)
	if err != nil {
		return fail("imagens", err)
	}
	r, err := canvasrenderer.New(canvasrenderer.Options{Images: bundle, Fonts: g.Fonts})
	if err != nil {
		return fail("fontes", err)
	}
	now := g.now()
	res, err := layout.Build(tpl, rec.Values(now), layout.Env{Measurer: r, Images: bundle})
	if err != nil {
		return fail("layout", err)
	}
	pdf, err := r.Render(res)
	if err != nil {
		return fail("render", err)
	}
	if err := ctx.Err(); err != nil {
		return fail("render", err)
	}
	sum := blake3.Sum256(pdf)
	doc := &Document{
		Filename: rec.Filename(),
		PDF:      pdf,
		Digest:   hex.EncodeToString(sum[:]),
		IssuedAt: now,
		Layout:   res,
	}
	if g.Register != nil {
		entry := register.Entry{
			CaseNumber: rec.CaseNumber,
			Creditor:   rec.Creditor,
			TaxID:      rec.TaxID,
			Amount:     rec.FormattedAmount,
			Digest:     doc.Digest,
			Filename:   doc.Filename,
			CreatedAt:  now,
		}
		if a, ok := rec.AmountValue(); ok {
			entry.Cents = a.Cents()
		}
		stored, err := g.Register.Record(ctx, entry)
		if err != nil {
			return fail("registro", err)
		}
		doc.ID = stored.ID
	}
	return doc, nil
}

func (g *Generator) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

func (g *Generator) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.New(slog.DiscardHandler)
}
