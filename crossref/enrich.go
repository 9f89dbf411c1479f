package crossref

import (
	"context"

	"github.com/prahastiwi/sdgdoc/biblio"
)

// Enrich fills empty fields of rec from registry metadata for identifier.
// Parsed values always win over fetched ones; only gaps are filled. Lookup
// failures are logged and leave rec untouched, so enrichment can never make
// a record worse.
func (c *Client) Enrich(ctx context.Context, identifier string, rec biblio.Record) biblio.Record {
	if identifier == "" {
		return rec
	}
	work, err := c.Lookup(ctx, identifier)
	if err != nil {
		c.logger.Warn("metadata lookup failed", "identifier", identifier, "error", err)
		return rec
	}
	if rec.Title == "" {
		rec.Title = work.Title
	}
	if rec.Abstract == "" {
		rec.Abstract = work.Abstract
	}
	if len(rec.Authors) == 0 {
		rec.Authors = work.Authors
	}
	if rec.Year == "" {
		rec.Year = work.Year
	}
	if rec.Publisher == "" {
		rec.Publisher = work.Publisher
	}
	if rec.Identifier == "" {
		rec.Identifier = identifier
	}
	return rec
}
