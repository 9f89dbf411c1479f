package biblio

import (
	"testing"

	"github.com/prahastiwi/sdgdoc/docpipe"
)

func TestFindIdentifier(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain", "see https://doi.org/10.1234/abc.def for details", "10.1234/abc.def"},
		{"trailing period", "cited as 10.5555/journal.2021.", "10.5555/journal.2021"},
		{"long registrant", "10.123456789/x", "10.123456789/x"},
		{"registrant too short", "10.123/x", ""},
		{"none", "no identifiers here", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindIdentifier(tt.text); got != tt.want {
				t.Errorf("FindIdentifier(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestDetectIdentifierMetadataFirst(t *testing.T) {
	doc := &docpipe.Document{
		Format:  docpipe.FormatPDF,
		RawText: "body mentions 10.9999/body.doi",
		Pages:   []docpipe.Page{{Number: 0, Text: "body mentions 10.9999/body.doi"}},
		Meta:    map[string]string{"doi": "10.1234/meta.doi"},
	}
	if got := DetectIdentifier(doc); got != "10.1234/meta.doi" {
		t.Errorf("got %q, want metadata identifier", got)
	}
}

func TestDetectIdentifierDensityFilter(t *testing.T) {
	// A page carrying five identifiers reads as a reference list; none of
	// its matches may be returned.
	refs := "10.1000/a 10.1000/b 10.1000/c 10.1000/d 10.1000/e"
	doc := &docpipe.Document{
		Format: docpipe.FormatPDF,
		Pages:  []docpipe.Page{{Number: 0, Text: refs}},
	}
	if got := DetectIdentifier(doc); got != "" {
		t.Errorf("got %q, want empty for dense page", got)
	}
}

func TestDetectIdentifierSparsePageWins(t *testing.T) {
	refs := "10.1000/a 10.1000/b 10.1000/c 10.1000/d"
	doc := &docpipe.Document{
		Format: docpipe.FormatPDF,
		Pages: []docpipe.Page{
			{Number: 0, Text: "front matter with doi 10.1234/front.page"},
			{Number: 1, Text: "plain prose"},
			{Number: 2, Text: "more prose"},
			{Number: 3, Text: refs},
		},
	}
	if got := DetectIdentifier(doc); got != "10.1234/front.page" {
		t.Errorf("got %q, want first sparse-page identifier", got)
	}
}

func TestDetectIdentifierPlainText(t *testing.T) {
	// Non-paged formats get a single synthetic page; density filtering must
	// not apply to them.
	text := "10.1000/a 10.1000/b 10.1000/c 10.1000/d 10.1000/e"
	doc := &docpipe.Document{
		Format:  docpipe.FormatText,
		RawText: text,
		Pages:   []docpipe.Page{{Number: 0, Text: text}},
	}
	if got := DetectIdentifier(doc); got != "10.1000/a" {
		t.Errorf("got %q, want first match for plain text", got)
	}
}

func TestDetectIdentifierNil(t *testing.T) {
	if got := DetectIdentifier(nil); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}
