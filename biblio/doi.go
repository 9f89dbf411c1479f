package biblio

import (
	"regexp"
	"strings"

	"github.com/prahastiwi/sdgdoc/docpipe"
)

// identifierRe matches DOI-shaped identifiers: the "10." directory prefix,
// a 4-9 digit registrant code, and a suffix of common DOI characters.
var identifierRe = regexp.MustCompile(`(?i)\b10\.\d{4,9}/[-._;()/:A-Za-z0-9]+`)

// refClusterThreshold is the per-page match count above which a page is
// treated as a reference list and skipped during identifier detection.
// Tunable; three is conservative enough to keep front-matter pages.
const refClusterThreshold = 3

// metaIdentifierKeys is the fixed scan order for document metadata. Keys are
// lowercased by the extractor.
var metaIdentifierKeys = []string{"doi", "subject", "keywords", "title", "author", "creator", "producer"}

// DetectIdentifier locates the document's primary identifier. Metadata wins
// over body text. For paged documents, pages dense with identifiers are
// skipped so that bibliography entries do not shadow the document's own DOI.
func DetectIdentifier(doc *docpipe.Document) string {
	if doc == nil {
		return ""
	}
	for _, key := range metaIdentifierKeys {
		if v, ok := doc.Meta[key]; ok {
			if id := FindIdentifier(v); id != "" {
				return id
			}
		}
	}
	if doc.Format == docpipe.FormatPDF {
		for _, page := range doc.Pages {
			matches := identifierRe.FindAllString(page.Text, -1)
			if len(matches) == 0 || len(matches) > refClusterThreshold {
				continue
			}
			return cleanIdentifier(matches[0])
		}
		return ""
	}
	return FindIdentifier(doc.RawText)
}

// FindIdentifier returns the first identifier in text, or "".
func FindIdentifier(text string) string {
	return cleanIdentifier(identifierRe.FindString(text))
}

func cleanIdentifier(id string) string {
	return strings.TrimRight(id, ".,;)")
}
