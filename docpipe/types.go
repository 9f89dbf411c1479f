// CLAUDE:SUMMARY Defines Format, Page, and Document types for the docpipe extraction pipeline.
package docpipe

// Format identifies a document type.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDocx Format = "docx"
	FormatDoc  Format = "doc" // legacy Word, best-effort text salvage
	FormatText Format = "text"
)

// Page is the text content of a single page. Only PDF extraction produces
// page boundaries; other formats yield a single synthetic page.
type Page struct {
	Number int    `json:"number"` // 0-based
	Text   string `json:"text"`
}

// Document is the result of extracting text from an uploaded file.
// It is immutable once returned.
type Document struct {
	Filename string            `json:"filename"`
	Format   Format            `json:"format"`
	RawText  string            `json:"raw_text"`
	Pages    []Page            `json:"pages,omitempty"`
	Meta     map[string]string `json:"meta,omitempty"` // document-level metadata (PDF Info dict)
}
