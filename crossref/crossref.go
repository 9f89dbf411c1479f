// CLAUDE:SUMMARY CSL-JSON metadata client — resolves DOIs against doi.org and fills empty record fields.
package crossref

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

var ErrNotFound = errors.New("crossref: identifier not found")

// Config controls the metadata client. Zero values take defaults.
type Config struct {
	BaseURL   string        `yaml:"base_url"`
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`
	Logger    *slog.Logger  `yaml:"-"`
}

func (c *Config) defaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://doi.org"
	}
	if c.UserAgent == "" {
		c.UserAgent = "sdgdoc/1.0 (mailto:ops@sdgdoc.local)"
	}
	if c.Timeout == 0 {
		c.Timeout = 10 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Client resolves identifiers to citation metadata via content negotiation.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func New(cfg Config) *Client {
	cfg.defaults()
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: cfg.Logger.With("component", "crossref"),
	}
}

// Work is the subset of CSL-JSON fields the pipeline consumes.
type Work struct {
	Title          string
	Abstract       string
	Publisher      string
	ContainerTitle string
	Type           string
	URL            string
	Year           string
	Authors        []string
}

// cslWork mirrors the wire shape. Registries disagree on whether title and
// container-title are strings or single-element arrays, so both decode
// through flexString.
type cslWork struct {
	Title          flexString `json:"title"`
	Abstract       string     `json:"abstract"`
	Publisher      string     `json:"publisher"`
	ContainerTitle flexString `json:"container-title"`
	Type           string     `json:"type"`
	URL            string     `json:"URL"`
	Issued         struct {
		DateParts [][]json.Number `json:"date-parts"`
	} `json:"issued"`
	Author []struct {
		Given  string `json:"given"`
		Family string `json:"family"`
		Name   string `json:"name"`
	} `json:"author"`
}

type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var arr []string
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	if len(arr) > 0 {
		*f = flexString(arr[0])
	}
	return nil
}

// Lookup fetches citation metadata for an identifier. Network failures,
// non-2xx responses and malformed bodies all surface as errors; callers
// treat every failure as recoverable.
func (c *Client) Lookup(ctx context.Context, identifier string) (*Work, error) {
	if strings.TrimSpace(identifier) == "" {
		return nil, fmt.Errorf("crossref: empty identifier")
	}
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/" + url.PathEscape(identifier)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("crossref: build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.citationstyles.csl+json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("crossref: lookup %s: %w", identifier, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("crossref: lookup %s: %w", identifier, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("crossref: lookup %s: unexpected status %d", identifier, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("crossref: read response: %w", err)
	}
	var raw cslWork
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("crossref: decode response: %w", err)
	}
	return raw.work(), nil
}

func (w *cslWork) work() *Work {
	out := &Work{
		Title:          string(w.Title),
		Abstract:       stripJATS(w.Abstract),
		Publisher:      w.Publisher,
		ContainerTitle: string(w.ContainerTitle),
		Type:           w.Type,
		URL:            w.URL,
	}
	if len(w.Issued.DateParts) > 0 && len(w.Issued.DateParts[0]) > 0 {
		out.Year = w.Issued.DateParts[0][0].String()
	}
	for _, a := range w.Author {
		name := strings.TrimSpace(a.Given + " " + a.Family)
		if name == "" {
			name = a.Name
		}
		if name != "" {
			out.Authors = append(out.Authors, name)
		}
	}
	return out
}

// jatsTagRe strips JATS markup that registries embed in abstracts.
var jatsTagRe = regexp.MustCompile(`</?jats:[a-zA-Z-]+[^>]*>`)

func stripJATS(s string) string {
	return strings.TrimSpace(jatsTagRe.ReplaceAllString(s, ""))
}
