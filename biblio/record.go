// CLAUDE:SUMMARY StructuredRecord type for parsed bibliographic front matter.
// Package biblio infers bibliographic structure from extracted document text.
//
// Research documents carry no enforced structure, so every field is located
// by layout heuristics (case patterns, section headers, positional priors)
// implemented as independent pure functions. A detector that finds nothing
// leaves its field at the zero value; parsing never fails as a whole.
package biblio

// Record is the bibliographic structure inferred from one document.
// The parser leaves Identifier and Publisher empty; they are filled
// downstream by identifier detection and record enrichment.
type Record struct {
	Title      string   `json:"title"`
	Abstract   string   `json:"abstract"`
	Keywords   []string `json:"keywords"`
	Authors    []string `json:"authors"`
	Year       string   `json:"year"`       // 4-digit or empty
	Identifier string   `json:"identifier"` // DOI-style token, empty if none
	Publisher  string   `json:"publisher"`
}

const (
	maxKeywords = 20
	maxAuthors  = 10
)
