// CLAUDE:SUMMARY Service layer — runs the extract/parse/enrich/classify pipeline behind HTTP and MCP transports.
package webapi

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/prahastiwi/sdgdoc/biblio"
	"github.com/prahastiwi/sdgdoc/crossref"
	"github.com/prahastiwi/sdgdoc/docpipe"
	"github.com/prahastiwi/sdgdoc/engine"
	"github.com/prahastiwi/sdgdoc/history"
	"github.com/prahastiwi/sdgdoc/rules"
)

const previewLen = 500

// Service wires the document pipeline to the classification engine. All
// dependencies are injected; the enricher and history store are optional.
type Service struct {
	pipeline *docpipe.Pipeline
	engine   *engine.Engine
	store    *rules.Store
	enricher *crossref.Client
	history  *history.Store
	logger   *slog.Logger
}

type Option func(*Service)

// WithEnricher enables bibliographic enrichment via identifier lookup.
func WithEnricher(c *crossref.Client) Option {
	return func(s *Service) { s.enricher = c }
}

// WithHistory enables persistence of classification results.
func WithHistory(h *history.Store) Option {
	return func(s *Service) { s.history = h }
}

func New(pipeline *docpipe.Pipeline, eng *engine.Engine, store *rules.Store, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		pipeline: pipeline,
		engine:   eng,
		store:    store,
		logger:   logger.With("component", "webapi"),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// DocumentResult is the response for a document upload.
type DocumentResult struct {
	Filename    string         `json:"filename"`
	FileKind    string         `json:"file_kind"`
	TextPreview string         `json:"text_preview"`
	TextLength  int            `json:"text_length"`
	Record      biblio.Record  `json:"record"`
	Matches     []engine.Match `json:"matches"`
}

// ProcessDocument runs the full pipeline on one uploaded file: extract,
// parse, detect identifier, enrich, classify, and record history. History
// failures are logged, never returned; a stored log entry is not worth a
// failed upload.
func (s *Service) ProcessDocument(ctx context.Context, data []byte, filename string) (*DocumentResult, error) {
	doc, err := s.pipeline.ExtractBytes(ctx, data, filename)
	if err != nil {
		return nil, err
	}

	rec := biblio.Parse(doc.RawText)
	if id := biblio.DetectIdentifier(doc); id != "" {
		rec.Identifier = id
		if s.enricher != nil {
			rec = s.enricher.Enrich(ctx, id, rec)
		}
	}

	matches := s.engine.Analyze(doc.RawText, rules.FieldAll, 0)

	res := &DocumentResult{
		Filename:    doc.Filename,
		FileKind:    string(doc.Format),
		TextPreview: preview(doc.RawText),
		TextLength:  len(doc.RawText),
		Record:      rec,
		Matches:     matches,
	}

	if s.history != nil {
		entry := &history.Entry{
			Filename:   doc.Filename,
			FileKind:   string(doc.Format),
			Title:      rec.Title,
			Identifier: rec.Identifier,
			Matches:    matches,
		}
		if err := s.history.Record(ctx, entry); err != nil {
			s.logger.Warn("history record failed", "filename", doc.Filename, "error", err)
		}
	}
	return res, nil
}

// AnalyzeRequest classifies raw text without the document pipeline.
type AnalyzeRequest struct {
	Text       string `json:"text"`
	Field      string `json:"field"`
	MinMatches int    `json:"min_matches"`
}

// AnalyzeResult is the response for a text classification.
type AnalyzeResult struct {
	TextPreview string         `json:"text_preview"`
	TextLength  int            `json:"text_length"`
	Matches     []engine.Match `json:"matches"`
}

func (s *Service) AnalyzeText(ctx context.Context, req AnalyzeRequest) (*AnalyzeResult, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, fmt.Errorf("text is required")
	}
	matches := s.engine.Analyze(req.Text, req.Field, req.MinMatches)

	if s.history != nil {
		entry := &history.Entry{
			Filename: "(direct text)",
			FileKind: "text",
			Matches:  matches,
		}
		if err := s.history.Record(ctx, entry); err != nil {
			s.logger.Warn("history record failed", "error", err)
		}
	}
	return &AnalyzeResult{
		TextPreview: preview(req.Text),
		TextLength:  len(req.Text),
		Matches:     matches,
	}, nil
}

// Info describes the loaded system for the info endpoint.
type Info struct {
	Service          string                  `json:"service"`
	Version          string                  `json:"version"`
	SupportedFormats []string                `json:"supported_formats"`
	MaxUploadMB      int                     `json:"max_upload_mb"`
	RuleBased        bool                    `json:"rule_based"`
	MLModel          bool                    `json:"ml_model"`
	Categories       []rules.CategorySummary `json:"categories"`
}

func (s *Service) Info() Info {
	return Info{
		Service:          "sdgdoc",
		Version:          Version,
		SupportedFormats: docpipe.SupportedFormats(),
		RuleBased:        true,
		MLModel:          false,
		Categories:       s.store.Summary(),
	}
}

// History returns recent classification entries, empty when persistence is
// disabled.
func (s *Service) History(ctx context.Context, limit int) ([]history.Entry, error) {
	if s.history == nil {
		return []history.Entry{}, nil
	}
	return s.history.Recent(ctx, limit)
}

func preview(text string) string {
	text = strings.TrimSpace(text)
	if len(text) > previewLen {
		return text[:previewLen]
	}
	return text
}

// Version is stamped at build time via -ldflags.
var Version = "dev"
