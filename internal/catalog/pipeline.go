package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"bookify/internal/metrics"
)

// Loader runs the ingestion pipeline: fetch, repair, structural parse,
// extraction, normalization, ordering. No stage failure is fatal: a
// fetch failure falls back to the seed catalog, a parse failure degrades
// to whatever the parser recovered, and a bad entry is skipped.
type Loader struct {
	source  string
	client  *http.Client
	limiter *rate.Limiter
	metrics *metrics.Registry
	log     zerolog.Logger
}

// Report describes what one load did, for diagnostics only. The catalog
// returned alongside it is always well-formed and usable.
type Report struct {
	Source     string `json:"source"`
	UsedSeed   bool   `json:"used_seed"`
	ParseError string `json:"parse_error,omitempty"`
	Skips      []Skip `json:"skips,omitempty"`
}

func NewLoader(source string, reg *metrics.Registry, log zerolog.Logger) *Loader {
	return &Loader{
		source: source,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		metrics: reg,
		log:     log,
	}
}

// Load fetches and ingests the catalog document. It never returns an
// error: the worst outcome is the seed catalog (unreachable document)
// or an empty catalog (document reachable but holding no entries).
func (l *Loader) Load(ctx context.Context) (*Catalog, Report) {
	raw, err := l.fetch(ctx)
	if err != nil {
		l.log.Warn().Err(err).Str("source", l.source).Msg("catalog fetch failed, falling back to seed catalog")
		l.metrics.CatalogFallbacks.Inc()
		return New(SeedBooks()), Report{Source: l.source, UsedSeed: true}
	}
	return l.build(raw)
}

func (l *Loader) build(raw string) (*Catalog, Report) {
	report := Report{Source: l.source}

	root, err := parseDocument(Repair(raw))
	if err != nil {
		// Best-effort policy: a partial tree can still yield entries.
		l.log.Warn().Err(err).Msg("catalog parse error, continuing with recovered tree")
		report.ParseError = err.Error()
	}

	var books []Book
	if root != nil {
		books, report.Skips = extractBooks(root)
	}
	books, dropped := dedupeByID(books)
	report.Skips = append(report.Skips, dropped...)

	sort.SliceStable(books, func(i, j int) bool { return books[i].ID < books[j].ID })

	l.metrics.CatalogEntries.Add(float64(len(books)))
	l.metrics.CatalogSkips.Add(float64(len(report.Skips)))
	l.log.Info().
		Int("entries", len(books)).
		Int("skipped", len(report.Skips)).
		Str("source", l.source).
		Msg("catalog loaded")

	return New(books), report
}

func (l *Loader) fetch(ctx context.Context) (string, error) {
	if strings.HasPrefix(l.source, "http://") || strings.HasPrefix(l.source, "https://") {
		return l.fetchHTTP(ctx)
	}
	data, err := os.ReadFile(l.source)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (l *Loader) fetchHTTP(ctx context.Context) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.source, nil)
	if err != nil {
		return "", err
	}
	res, err := l.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", fmt.Errorf("fetch %s: unexpected status %d", l.source, res.StatusCode)
	}
	data, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// dedupeByID keeps the first entry for each id so the uniqueness
// invariant holds without inventing replacement ids.
func dedupeByID(books []Book) ([]Book, []Skip) {
	seen := make(map[int]bool, len(books))
	kept := books[:0]
	var dropped []Skip
	for i, b := range books {
		if seen[b.ID] {
			dropped = append(dropped, Skip{Position: i, Reason: fmt.Sprintf("duplicate id %d", b.ID)})
			continue
		}
		seen[b.ID] = true
		kept = append(kept, b)
	}
	return kept, dropped
}
