// Package server exposes the notice form and generator over HTTP.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/techttk77-droid/baixadoc-alvara/internal/logging"
	"github.com/techttk77-droid/baixadoc-alvara/money"
	"github.com/techttk77-droid/baixadoc-alvara/notice"
	"github.com/techttk77-droid/baixadoc-alvara/record"
	"github.com/techttk77-droid/baixadoc-alvara/register"
)

//go:embed web/form.html
var webFS embed.FS

var formTemplate = template.Must(template.ParseFS(webFS, "web/form.html"))

// maxFormBytes bounds a POSTed form.
const maxFormBytes = 64 << 10

// Generator produces notices.
type Generator interface {
	Generate(ctx context.Context, rec record.CaseRecord) (*notice.Document, error)
}

// History lists issued notices.
type History interface {
	List(ctx context.Context, caseNumber string, limit int) ([]register.Entry, error)
}

// Server serves the form, the PDF endpoint and the JSON helpers.
type Server struct {
	gen     Generator
	history History
	logger  *slog.Logger
	now     func() time.Time
}

// New returns a server. history may be nil, which disables /api/historico.
func New(gen Generator, history History, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{gen: gen, history: history, logger: logger, now: time.Now}
}

// Handler returns the routed handler wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleForm)
	mux.HandleFunc("POST /alvara", s.handleGenerate)
	mux.HandleFunc("GET /api/valor", s.handleAmount)
	mux.HandleFunc("GET /api/historico", s.handleHistory)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, "ok")
	})
	return logging.Middleware(s.logger, mux)
}

type formView struct {
	Record record.CaseRecord
	Error  string
	Date   string
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	s.renderForm(w, r, http.StatusOK, formView{})
}

func (s *Server) renderForm(w http.ResponseWriter, r *http.Request, status int, view formView) {
	view.Date = record.ShortDate(s.now())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := formTemplate.Execute(w, view); err != nil {
		logging.FromContext(r.Context(), s.logger).ErrorContext(r.Context(), "falha ao renderizar formulário", "erro", err)
	}
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "formulário inválido", http.StatusBadRequest)
		return
	}
	rec := record.FromValues(func(f record.Field) string { return r.PostForm.Get(string(f)) })

	doc, err := s.gen.Generate(r.Context(), rec)
	var ve *record.ValidationError
	switch {
	case errors.As(err, &ve):
		s.renderForm(w, r, http.StatusBadRequest, formView{Record: rec, Error: ve.Message()})
		return
	case err != nil:
		logging.FromContext(r.Context(), s.logger).ErrorContext(r.Context(), "geração falhou", "erro", err)
		s.renderForm(w, r, http.StatusInternalServerError, formView{Record: rec, Error: notice.UserMessage})
		return
	}

	// Every POST issues a notice, so conditional headers are not honoured.
	h := w.Header()
	h.Set("Content-Type", "application/pdf")
	h.Set("Content-Disposition", contentDisposition(doc.Filename))
	h.Set("Content-Length", strconv.Itoa(len(doc.PDF)))
	h.Set("ETag", strconv.Quote(doc.Digest))
	if doc.ID != "" {
		h.Set("X-Alvara-Id", doc.ID)
	}
	w.WriteHeader(http.StatusOK)
	w.Write(doc.PDF)
}

// contentDisposition names the download, using the RFC 2231 form for
// non-ASCII names.
func contentDisposition(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "attachment"
}

// amountPreview mirrors what the form shows while an amount is typed.
type amountPreview struct {
	Valor   string `json:"valor"`
	Extenso string `json:"extenso"`
}

func (s *Server) handleAmount(w http.ResponseWriter, r *http.Request) {
	var out amountPreview
	if a, ok := money.Parse(r.URL.Query().Get("v")); ok {
		out.Valor = money.Format(a)
		// Amounts too large to spell keep their figures and get no words.
		out.Extenso, _ = money.Words(a)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		http.NotFound(w, r)
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limite"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "limite inválido", http.StatusBadRequest)
			return
		}
		limit = n
	}
	entries, err := s.history.List(r.Context(), r.URL.Query().Get("processo"), limit)
	if err != nil {
		logging.FromContext(r.Context(), s.logger).ErrorContext(r.Context(), "falha ao listar histórico", "erro", err)
		http.Error(w, "erro ao consultar histórico", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []register.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
