// CLAUDE:SUMMARY Heuristic structure parser — title, abstract, keywords, authors, year detection from raw text.
package biblio

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	titleScanLines    = 15
	titleFallbackLines = 5
	yearScanLines     = 25
	minTitleLen       = 10
	maxTitleLen       = 250
	maxAbstractLen    = 2000
	minFallbackAbstract = 100
)

// Parse infers bibliographic structure from plain text. Field detectors are
// independent; a field with no match stays at its zero value. Callers cannot
// distinguish a header-based extraction from a positional fallback — no
// confidence is attached to the chosen value.
func Parse(text string) Record {
	lines := strings.Split(text, "\n")
	title := detectTitle(lines)
	return Record{
		Title:    title,
		Abstract: detectAbstract(text, lines, title),
		Keywords: detectKeywords(lines),
		Authors:  detectAuthors(lines),
		Year:     detectYear(lines),
	}
}

// detectTitle scans the first lines for an upper-case or title-case line of
// plausible length, preferring the earliest. Falls back to the first line of
// plausible length among the leading lines.
func detectTitle(lines []string) string {
	n := min(titleScanLines, len(lines))
	for i := 0; i < n; i++ {
		line := strings.TrimSpace(lines[i])
		if !plausibleTitleLen(line) {
			continue
		}
		if isAllCaps(line) || isTitleCase(line) {
			return line
		}
	}

	n = min(titleFallbackLines, len(lines))
	for i := 0; i < n; i++ {
		line := strings.TrimSpace(lines[i])
		if plausibleTitleLen(line) {
			return line
		}
	}
	return ""
}

func plausibleTitleLen(s string) bool {
	return len(s) > minTitleLen && len(s) < maxTitleLen
}

func isAllCaps(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}

// isTitleCase accepts lines where every word longer than three letters starts
// with an upper-case letter.
func isTitleCase(s string) bool {
	words := strings.Fields(s)
	if len(words) < 2 {
		return false
	}
	significant := 0
	for _, w := range words {
		runes := []rune(w)
		if len(runes) <= 3 || !unicode.IsLetter(runes[0]) {
			continue
		}
		significant++
		if !unicode.IsUpper(runes[0]) {
			return false
		}
	}
	return significant > 0
}

// sectionBoundaryRe terminates header-based captures: a line that starts a
// known section ends the previous one.
var sectionBoundaryRe = regexp.MustCompile(`(?i)^\s*(abstract|summary|overview|keywords?|key\s+words|index\s+terms|introduction|1\.?\s+introduction|authors?|references|acknowledg)`)

var abstractHeaders = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*abstract\b[:.\-—]?\s*(.*)$`),
	regexp.MustCompile(`(?i)^\s*summary\b[:.\-—]?\s*(.*)$`),
	regexp.MustCompile(`(?i)^\s*overview\b[:.\-—]?\s*(.*)$`),
}

// detectAbstract tries section-header patterns in order; the first header
// that captures text wins. With no header it falls back to the span between
// the title and the first keywords/introduction marker, accepted only at a
// plausible length.
func detectAbstract(text string, lines []string, title string) string {
	for _, re := range abstractHeaders {
		if span := captureSection(lines, re); span != "" {
			return truncate(collapseWhitespace(span), maxAbstractLen)
		}
	}
	return fallbackAbstract(text, title)
}

// captureSection finds the first line matching header and captures inline
// content plus following lines, stopping at a blank line (once content has
// accumulated) or at the next known section boundary.
func captureSection(lines []string, header *regexp.Regexp) string {
	for i, raw := range lines {
		m := header.FindStringSubmatch(strings.TrimSpace(raw))
		if m == nil {
			continue
		}
		var parts []string
		if rest := strings.TrimSpace(m[1]); rest != "" {
			parts = append(parts, rest)
		}
		for j := i + 1; j < len(lines); j++ {
			line := strings.TrimSpace(lines[j])
			if line == "" {
				if len(parts) > 0 {
					break
				}
				continue // blank gap between header and body
			}
			if sectionBoundaryRe.MatchString(line) {
				break
			}
			parts = append(parts, line)
		}
		return strings.Join(parts, " ")
	}
	return ""
}

var abstractEndMarkers = []string{"keywords", "keyword", "key words", "introduction", "1. introduction"}

func fallbackAbstract(text, title string) string {
	if title == "" {
		return ""
	}
	lower := strings.ToLower(text)
	start := strings.Index(lower, strings.ToLower(title))
	if start < 0 {
		return ""
	}
	start += len(title)

	end := len(text)
	for _, marker := range abstractEndMarkers {
		if idx := strings.Index(lower[start:], marker); idx >= 0 && start+idx < end {
			end = start + idx
		}
	}

	span := collapseWhitespace(text[start:end])
	if len(span) > minFallbackAbstract && len(span) < maxAbstractLen {
		return span
	}
	return ""
}

var keywordHeaders = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*keywords\b[:.\-—]?\s*(.*)$`),
	regexp.MustCompile(`(?i)^\s*key\s+words\b[:.\-—]?\s*(.*)$`),
	regexp.MustCompile(`(?i)^\s*index\s+terms\b[:.\-—]?\s*(.*)$`),
}

var keywordSplitRe = regexp.MustCompile(`[;,\n•·‣]`)

// enumPrefixRe strips leading enumeration like "1." or "2)".
var enumPrefixRe = regexp.MustCompile(`^\d+[.)]\s*`)

func detectKeywords(lines []string) []string {
	for _, re := range keywordHeaders {
		span := captureSection(lines, re)
		if span == "" {
			continue
		}
		var out []string
		for _, tok := range keywordSplitRe.Split(span, -1) {
			tok = collapseWhitespace(enumPrefixRe.ReplaceAllString(strings.TrimSpace(tok), ""))
			if len(tok) > 2 && len(tok) < 60 {
				out = append(out, tok)
			}
			if len(out) == maxKeywords {
				break
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

var authorHeaders = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*authors?\s*:\s*(.*)$`),
	regexp.MustCompile(`(?i)^\s*by\s*:\s*(.*)$`),
}

var authorSplitRe = regexp.MustCompile(`(?i)\s*(?:,|\band\b|\n)\s*`)

func detectAuthors(lines []string) []string {
	for _, re := range authorHeaders {
		span := captureSection(lines, re)
		if span == "" {
			continue
		}
		var out []string
		for _, tok := range authorSplitRe.Split(span, -1) {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			out = append(out, tok)
			if len(out) == maxAuthors {
				break
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

var yearRe = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// detectYear scans the first non-empty lines for a standalone 19xx/20xx token.
func detectYear(lines []string) string {
	seen := 0
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if m := yearRe.FindString(line); m != "" {
			return m
		}
		seen++
		if seen >= yearScanLines {
			break
		}
	}
	return ""
}

var whitespaceRe = regexp.MustCompile(`\s+`)

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
