// CLAUDE:SUMMARY Multi-strategy PDF text extraction — layout-aware and table-aware pdfcpu content-stream parsing, basic page text fallback.
// CLAUDE:EXPORTS (internal) pdfStrategy, defaultPDFStrategies
package docpipe

import (
	"bytes"
	"context"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode"

	ltpdf "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// pdfStrategy is one extraction method in the ordered fallback chain.
// Different PDF generators defeat different extractors; the chain is ordered
// by typical fidelity, and the first strategy whose accumulated output is
// non-empty after trimming wins.
type pdfStrategy struct {
	name string
	fn   func(path string) ([]Page, error)
}

func defaultPDFStrategies() []pdfStrategy {
	return []pdfStrategy{
		{name: "layout", fn: extractPDFLayout},
		{name: "table", fn: extractPDFTable},
		{name: "basic", fn: extractPDFBasic},
	}
}

// extractPDF materializes data to a scoped temp file and runs the strategy
// chain against it. The temp file is removed on every exit path.
func (p *Pipeline) extractPDF(ctx context.Context, data []byte, doc *Document) error {
	tmp, err := os.CreateTemp("", "sdgdoc-*.pdf")
	if err != nil {
		return err
	}
	path := tmp.Name()
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil {
			p.logger.Warn("temp file cleanup failed", "path", path, "error", rmErr)
		}
	}()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	doc.Meta = readPDFMeta(path)

	for _, s := range p.pdfStrategies {
		if err := ctx.Err(); err != nil {
			return err
		}
		pages, err := s.fn(path)
		if err != nil {
			p.logger.Debug("pdf strategy failed", "strategy", s.name, "error", err)
			continue
		}
		text := joinPages(pages)
		if strings.TrimSpace(text) == "" {
			p.logger.Debug("pdf strategy yielded no text", "strategy", s.name)
			continue
		}
		p.logger.Debug("pdf strategy succeeded", "strategy", s.name, "pages", len(pages))
		doc.Pages = pages
		doc.RawText = text
		return nil
	}

	// All strategies empty: leave RawText empty, the caller reports the failure.
	return nil
}

// joinPages concatenates per-page text with a blank-line separator.
func joinPages(pages []Page) string {
	var sb strings.Builder
	for _, pg := range pages {
		t := strings.TrimSpace(pg.Text)
		if t == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(t)
	}
	return sb.String()
}

// extractPDFLayout parses page content streams with pdfcpu, honouring text
// positioning operators so line structure survives.
func extractPDFLayout(path string) ([]Page, error) {
	return extractWithPdfcpu(path, extractTextFromStream)
}

// extractPDFTable is the table-aware variant: string segments shown by a
// single TJ array keep a tab separator, so table cells do not fuse into one
// token.
func extractPDFTable(path string) ([]Page, error) {
	return extractWithPdfcpu(path, extractTableTextFromStream)
}

func extractWithPdfcpu(path string, parse func([]byte) string) ([]Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return nil, err
	}

	var pages []Page
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
		if err != nil {
			continue
		}
		data, err := io.ReadAll(r)
		if err != nil || len(data) == 0 {
			continue
		}
		text := parse(data)
		if text == "" {
			continue
		}
		pages = append(pages, Page{Number: pageNr - 1, Text: text})
	}
	return pages, nil
}

// extractPDFBasic is the last-resort strategy: plain per-page text with no
// layout reconstruction.
func extractPDFBasic(path string) ([]Page, error) {
	f, r, err := ltpdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var pages []Page
	for i := 1; i <= r.NumPage(); i++ {
		pg := r.Page(i)
		if pg.V.IsNull() {
			continue
		}
		text, err := pg.GetPlainText(nil)
		if err != nil || strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, Page{Number: i - 1, Text: strings.TrimSpace(text)})
	}
	return pages, nil
}

// readPDFMeta pulls document-level metadata (Info dictionary) out of the PDF.
// Best-effort: a missing or malformed Info dict yields an empty map.
func readPDFMeta(path string) map[string]string {
	defer func() { recover() }() // xref corruption inside the reader must not kill the pipeline

	f, r, err := ltpdf.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	info := r.Trailer().Key("Info")
	if info.IsNull() {
		return nil
	}
	meta := make(map[string]string)
	for _, key := range []string{"Title", "Author", "Subject", "Keywords", "Producer", "Creator", "doi", "DOI"} {
		v := info.Key(key)
		if v.IsNull() {
			continue
		}
		if s := strings.TrimSpace(v.Text()); s != "" {
			meta[strings.ToLower(key)] = s
		}
	}
	if len(meta) == 0 {
		return nil
	}
	return meta
}

// pdfStringRe matches PDF string literals in parentheses: (text here)
var pdfStringRe = regexp.MustCompile(`\(([^)]*)\)`)

// extractTextFromStream parses PDF content stream operators for text.
func extractTextFromStream(data []byte) string {
	var sb strings.Builder

	lines := bytes.Split(data, []byte{'\n'})
	for _, line := range lines {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		// Tj operator: (text) Tj
		// TJ operator: [(text) -100 (more text)] TJ
		if bytes.HasSuffix(line, []byte("Tj")) || bytes.HasSuffix(line, []byte("TJ")) {
			for _, m := range pdfStringRe.FindAllSubmatch(line, -1) {
				if text := decodePDFString(m[1]); text != "" {
					sb.WriteString(text)
				}
			}
		}

		// ' operator (move to next line and show text): (text) '
		if bytes.HasSuffix(line, []byte("'")) && bytes.Contains(line, []byte("(")) {
			for _, m := range pdfStringRe.FindAllSubmatch(line, -1) {
				if text := decodePDFString(m[1]); text != "" {
					sb.WriteByte('\n')
					sb.WriteString(text)
				}
			}
		}

		// Td/TD operator (text positioning — add space).
		if bytes.HasSuffix(line, []byte("Td")) || bytes.HasSuffix(line, []byte("TD")) {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
		}

		// T* operator (move to start of next line).
		if bytes.Equal(line, []byte("T*")) {
			sb.WriteByte('\n')
		}
	}

	return cleanPDFText(sb.String())
}

// extractTableTextFromStream is the table-aware stream parse: every string
// segment in a TJ array is kept as a separate cell (tab-joined) and each
// text-showing operator ends its own line.
func extractTableTextFromStream(data []byte) string {
	var sb strings.Builder

	lines := bytes.Split(data, []byte{'\n'})
	for _, line := range lines {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		isTj := bytes.HasSuffix(line, []byte("Tj"))
		isTJ := bytes.HasSuffix(line, []byte("TJ"))
		isQuote := bytes.HasSuffix(line, []byte("'")) && bytes.Contains(line, []byte("("))
		if !isTj && !isTJ && !isQuote {
			continue
		}

		var cells []string
		for _, m := range pdfStringRe.FindAllSubmatch(line, -1) {
			if text := decodePDFString(m[1]); strings.TrimSpace(text) != "" {
				cells = append(cells, strings.TrimSpace(text))
			}
		}
		if len(cells) == 0 {
			continue
		}
		sb.WriteString(strings.Join(cells, "\t"))
		sb.WriteByte('\n')
	}

	return strings.TrimSpace(sb.String())
}

// decodePDFString handles basic PDF escape sequences.
func decodePDFString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\\' && i+1 < len(raw) {
			i++
			switch raw[i] {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case '\\':
				sb.WriteByte('\\')
			case '(':
				sb.WriteByte('(')
			case ')':
				sb.WriteByte(')')
			default:
				// Octal escape (e.g. \040 for space).
				if raw[i] >= '0' && raw[i] <= '7' {
					val := int(raw[i] - '0')
					if i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7' {
						i++
						val = val*8 + int(raw[i]-'0')
						if i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7' {
							i++
							val = val*8 + int(raw[i]-'0')
						}
					}
					sb.WriteByte(byte(val))
				} else {
					sb.WriteByte(raw[i])
				}
			}
		} else {
			sb.WriteByte(raw[i])
		}
	}
	return sb.String()
}

// cleanPDFText normalises whitespace in extracted PDF text, keeping line
// breaks so downstream heuristics can still see line structure.
func cleanPDFText(text string) string {
	var sb strings.Builder
	prevSpace := false
	for _, r := range text {
		switch {
		case r == '\n':
			sb.WriteByte('\n')
			prevSpace = true
		case unicode.IsSpace(r):
			if !prevSpace && sb.Len() > 0 {
				sb.WriteByte(' ')
				prevSpace = true
			}
		case unicode.IsPrint(r):
			sb.WriteRune(r)
			prevSpace = false
		}
	}
	return strings.TrimSpace(sb.String())
}
