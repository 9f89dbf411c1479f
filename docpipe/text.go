// CLAUDE:SUMMARY Plain-text and legacy .doc decoding with an ordered character-encoding fallback chain.
package docpipe

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// textEncodings is the ordered fallback chain for non-UTF-8 input. The first
// encoding that decodes without error and yields non-empty content wins.
var textEncodings = []struct {
	name string
	enc  encoding.Encoding
}{
	{"utf-8", unicode.UTF8},
	{"latin-1", charmap.ISO8859_1},
	{"windows-1252", charmap.Windows1252},
	{"cp850", charmap.CodePage850},
}

// decodeText runs the encoding fallback chain over raw bytes. If every
// attempt fails, it decodes permissively, replacing invalid sequences.
func decodeText(data []byte) string {
	for _, e := range textEncodings {
		if e.enc == unicode.UTF8 {
			if utf8.Valid(data) && len(strings.TrimSpace(string(data))) > 0 {
				return string(data)
			}
			continue
		}
		out, _, err := transform.Bytes(e.enc.NewDecoder(), data)
		if err != nil {
			continue
		}
		if s := string(out); strings.TrimSpace(s) != "" {
			return s
		}
	}
	// Permissive fallback: invalid sequences become U+FFFD.
	return strings.ToValidUTF8(string(data), "�")
}

// extractPlainText decodes a txt/rtf/md upload.
func extractPlainText(data []byte, doc *Document) error {
	text := decodeText(data)
	doc.RawText = text
	doc.Pages = []Page{{Number: 0, Text: text}}
	return nil
}

// extractLegacyDoc salvages text from a legacy .doc binary. This is not a
// binary-format parse: the bytes go through the same encoding chain as plain
// text and lines of length <= 3 are dropped as noise. Best-effort only.
func extractLegacyDoc(data []byte, doc *Document) error {
	text := decodeText(data)

	var kept []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) > 3 {
			kept = append(kept, line)
		}
	}
	joined := strings.Join(kept, "\n")
	doc.RawText = joined
	doc.Pages = []Page{{Number: 0, Text: joined}}
	return nil
}
