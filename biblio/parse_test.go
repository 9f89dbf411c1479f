package biblio

import (
	"reflect"
	"strings"
	"testing"
)

const sampleDoc = `RENEWABLE ENERGY SYSTEMS FOR SUSTAINABLE DEVELOPMENT

Authors: Jane Smith, Carlos Rivera and Amina Diallo

ABSTRACT

This paper explores the role of renewable energy systems in achieving
sustainable development goals. Solar and wind deployments are compared
across three regions, with attention to grid integration costs and
policy incentives observed between 2015 and 2022.

KEYWORDS: renewable energy, sustainable development, solar power

1. INTRODUCTION

The global transition away from fossil fuels has accelerated.
`

func TestParseSample(t *testing.T) {
	rec := Parse(sampleDoc)

	if want := "RENEWABLE ENERGY SYSTEMS FOR SUSTAINABLE DEVELOPMENT"; rec.Title != want {
		t.Errorf("title = %q, want %q", rec.Title, want)
	}
	if !strings.Contains(rec.Abstract, "This paper explores the role of renewable energy systems") {
		t.Errorf("abstract missing lead sentence: %q", rec.Abstract)
	}
	if strings.Contains(rec.Abstract, "KEYWORDS") {
		t.Errorf("abstract ran into keywords section: %q", rec.Abstract)
	}
	wantKw := []string{"renewable energy", "sustainable development", "solar power"}
	if !reflect.DeepEqual(rec.Keywords, wantKw) {
		t.Errorf("keywords = %v, want %v", rec.Keywords, wantKw)
	}
	wantAuthors := []string{"Jane Smith", "Carlos Rivera", "Amina Diallo"}
	if !reflect.DeepEqual(rec.Authors, wantAuthors) {
		t.Errorf("authors = %v, want %v", rec.Authors, wantAuthors)
	}
}

func TestParseIdempotent(t *testing.T) {
	first := Parse(sampleDoc)
	second := Parse(sampleDoc)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("parse not deterministic:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestDetectTitleFallback(t *testing.T) {
	// No all-caps or title-case line; first plausible line wins.
	text := "a study of something quite ordinary\nsecond line here longer\n"
	rec := Parse(text)
	if want := "a study of something quite ordinary"; rec.Title != want {
		t.Errorf("title = %q, want %q", rec.Title, want)
	}
}

func TestDetectTitleRejectsShortAndLong(t *testing.T) {
	long := strings.Repeat("X", 300)
	text := "SHORT\n" + long + "\n"
	if rec := Parse(text); rec.Title != "" {
		t.Errorf("title = %q, want empty", rec.Title)
	}
}

func TestDetectAbstractInlineHeader(t *testing.T) {
	text := "A REASONABLY LONG TITLE LINE\n\nAbstract: methods were applied to data.\n\nIntroduction\n"
	rec := Parse(text)
	if want := "methods were applied to data."; rec.Abstract != want {
		t.Errorf("abstract = %q, want %q", rec.Abstract, want)
	}
}

func TestDetectAbstractTruncated(t *testing.T) {
	body := strings.Repeat("word ", 600)
	rec := Parse("A REASONABLY LONG TITLE LINE\n\nABSTRACT\n" + body + "\n")
	if len(rec.Abstract) != 2000 {
		t.Errorf("abstract length = %d, want 2000", len(rec.Abstract))
	}
}

func TestDetectKeywordsSemicolons(t *testing.T) {
	rec := Parse("A REASONABLY LONG TITLE LINE\n\nIndex Terms: alpha beta; gamma delta; x\n")
	want := []string{"alpha beta", "gamma delta"}
	if !reflect.DeepEqual(rec.Keywords, want) {
		t.Errorf("keywords = %v, want %v (single-char entry must be dropped)", rec.Keywords, want)
	}
}

func TestDetectKeywordsCapped(t *testing.T) {
	var terms []string
	for i := 0; i < 30; i++ {
		terms = append(terms, "term number "+strings.Repeat("x", i%5+1))
	}
	rec := Parse("A REASONABLY LONG TITLE LINE\n\nKEYWORDS: " + strings.Join(terms, ", ") + "\n")
	if len(rec.Keywords) != maxKeywords {
		t.Errorf("keywords count = %d, want %d", len(rec.Keywords), maxKeywords)
	}
}

func TestDetectYear(t *testing.T) {
	rec := Parse("A REASONABLY LONG TITLE LINE\nPublished 2019, revised 2021\n")
	if rec.Year != "2019" {
		t.Errorf("year = %q, want 2019", rec.Year)
	}
}

func TestDetectYearAbsent(t *testing.T) {
	rec := Parse("A REASONABLY LONG TITLE LINE\nno dates here\n")
	if rec.Year != "" {
		t.Errorf("year = %q, want empty", rec.Year)
	}
}
