// CLAUDE:SUMMARY Core pipeline engine that dispatches text extraction by filename extension (pdf, docx, doc, txt/rtf/md).
// Package docpipe extracts plain text from uploaded document bytes.
//
// Supported formats:
//   - .pdf          — multi-strategy extraction (layout, table, basic), first non-empty wins
//   - .docx         — Microsoft Word (archive/zip → word/document.xml, paragraphs and table cells)
//   - .doc          — legacy Word, best-effort: encoding fallback + short-line filtering
//   - .txt .rtf .md — plain text with an ordered character-encoding fallback chain
//
// Usage:
//
//	pipe := docpipe.New(docpipe.Config{})
//	doc, err := pipe.ExtractBytes(ctx, fileBytes, "paper.pdf")
//	fmt.Println(doc.Format, len(doc.RawText))
package docpipe

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// Config configures the document pipeline.
type Config struct {
	// MaxFileSize is the maximum input size to process (default: 16 MB).
	MaxFileSize int64 `json:"max_file_size" yaml:"max_file_size"`

	// Logger for debug/error messages.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = 16 * 1024 * 1024
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Pipeline is the document extraction engine.
type Pipeline struct {
	cfg    Config
	logger *slog.Logger

	// Ordered PDF strategies, tried until one yields non-empty text.
	pdfStrategies []pdfStrategy
}

// New creates a Pipeline with the given configuration.
func New(cfg Config) *Pipeline {
	cfg.defaults()
	return &Pipeline{
		cfg:           cfg,
		logger:        cfg.Logger,
		pdfStrategies: defaultPDFStrategies(),
	}
}

// Detect returns the document format based on the filename extension.
func (p *Pipeline) Detect(filename string) (Format, error) {
	if strings.TrimSpace(filename) == "" {
		return "", ErrInvalidFilename
	}
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDocx, nil
	case ".doc":
		return FormatDoc, nil
	case ".txt", ".rtf", ".md":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// SupportedFormats returns all supported file extensions.
func SupportedFormats() []string {
	return []string{"pdf", "docx", "doc", "txt", "rtf", "md"}
}

// ExtractBytes extracts plain text from raw file bytes. The filename decides
// which decoder runs; a decoder that produces only whitespace is a failure,
// never an empty success.
func (p *Pipeline) ExtractBytes(ctx context.Context, data []byte, filename string) (*Document, error) {
	format, err := p.Detect(filename)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > p.cfg.MaxFileSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, len(data), p.cfg.MaxFileSize)
	}

	p.logger.Debug("extracting document", "filename", filename, "format", format, "bytes", len(data))

	doc := &Document{Filename: filename, Format: format}

	switch format {
	case FormatPDF:
		err = p.extractPDF(ctx, data, doc)
	case FormatDocx:
		err = extractDocx(data, doc)
	case FormatDoc:
		err = extractLegacyDoc(data, doc)
	case FormatText:
		err = extractPlainText(data, doc)
	}
	if err != nil {
		return nil, fmt.Errorf("extract %s (%s): %w", filename, format, err)
	}

	doc.RawText = strings.TrimSpace(doc.RawText)
	if doc.RawText == "" {
		return nil, fmt.Errorf("extract %s (%s): %w", filename, format, ErrEmptyExtraction)
	}
	return doc, nil
}
