// Package evidence fetches and dissects the external pages backing the
// three prediction signals, with a read-through response cache.
package evidence

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"hqtrivia-bot/internal/domain"
	"hqtrivia-bot/internal/engine"
	"hqtrivia-bot/internal/infra/cache"
)

const (
	// rateLimitMarker shows up in the redirect target when the search
	// engine starts throttling us.
	rateLimitMarker = "/sorry/index?continue="
	// unresolvedMarker in the final URL means the reference lookup landed
	// on a search page instead of a direct article.
	unresolvedMarker = "Special:Search"
)

// response is the cached envelope for one fetched page. The final URL is
// kept because rate-limit and unresolved-reference detection both key off
// where the redirects ended up.
type response struct {
	FinalURL string `json:"finalUrl"`
	Body     []byte `json:"body"`
}

// Fetcher is the live EvidenceSource: it runs the question's query set
// concurrently, reads through the response cache, and reduces the pages
// to per-slot occurrence counts.
type Fetcher struct {
	client        *http.Client
	store         cache.Store
	sf            singleflight.Group
	searchBase    string
	referenceBase string
}

// NewFetcher builds a Fetcher; store may be nil to disable caching and
// client defaults to http.DefaultClient.
func NewFetcher(client *http.Client, store cache.Store, searchBase, referenceBase string) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{
		client:        client,
		store:         store,
		searchBase:    searchBase,
		referenceBase: referenceBase,
	}
}

// FetchEvidence implements app.EvidenceSource. All queries for a question
// run concurrently and are joined before any extraction happens, so a
// partial result is never produced from an incomplete fetch.
func (f *Fetcher) FetchEvidence(ctx context.Context, questionText string, answers map[domain.Slot]string) (*domain.EvidenceBundle, error) {
	searchURLs := SearchQueryURLs(f.searchBase, questionText, answers)
	referenceURLs := ReferenceQueryURLs(f.referenceBase, answers)
	urls := append(append([]string{}, searchURLs...), referenceURLs...)

	responses := make([]*response, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	for i, u := range urls {
		i, u := i, u
		g.Go(func() error {
			resp, err := f.fetch(gctx, u)
			if err != nil {
				return err
			}
			responses[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, resp := range responses[:len(searchURLs)] {
		if strings.Contains(resp.FinalURL, rateLimitMarker) {
			return nil, domain.ErrRateLimited
		}
	}

	snippets := SnippetText(responses[0].Body)
	counts := make(map[domain.Slot]int64, len(domain.Slots))
	for i, slot := range domain.Slots {
		counts[slot] = ResultCount(responses[1+i].Body)
	}
	pages := make(map[domain.Slot]domain.ReferencePage, len(domain.Slots))
	for i, slot := range domain.Slots {
		resp := responses[len(searchURLs)+i]
		page := domain.ReferencePage{Resolved: !strings.Contains(resp.FinalURL, unresolvedMarker)}
		if page.Resolved {
			page.Body = ParagraphText(resp.Body)
		}
		pages[slot] = page
	}

	return &domain.EvidenceBundle{
		AnswerMatches:  engine.AnswerWordMatches(snippets, answers),
		ResultCounts:   engine.ResultCountOccurrences(counts),
		KeywordMatches: engine.ReferenceKeywordMatches(questionText, pages),
	}, nil
}

// Warm fetches one URL into the cache, surfacing rate limiting as
// ErrRateLimited; used by the cache refresh verb.
func (f *Fetcher) Warm(ctx context.Context, url string) error {
	resp, err := f.fetch(ctx, url)
	if err != nil {
		return err
	}
	if strings.Contains(resp.FinalURL, rateLimitMarker) {
		return domain.ErrRateLimited
	}
	return nil
}

// fetch resolves one URL through the cache. Concurrent fetches of the
// same URL collapse into a single upstream request.
func (f *Fetcher) fetch(ctx context.Context, url string) (*response, error) {
	if resp, ok := f.cached(ctx, url); ok {
		return resp, nil
	}

	result, err, _ := f.sf.Do(url, func() (interface{}, error) {
		if resp, ok := f.cached(ctx, url); ok {
			return resp, nil
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		httpResp, err := f.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", url, err)
		}
		defer httpResp.Body.Close()

		body, err := io.ReadAll(httpResp.Body)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", url, err)
		}
		resp := &response{Body: body, FinalURL: url}
		if httpResp.Request != nil && httpResp.Request.URL != nil {
			resp.FinalURL = httpResp.Request.URL.String()
		}

		if f.store != nil {
			encoded, err := json.Marshal(resp)
			if err == nil {
				_ = f.store.Set(ctx, url, encoded)
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*response), nil
}

func (f *Fetcher) cached(ctx context.Context, url string) (*response, bool) {
	if f.store == nil {
		return nil, false
	}
	encoded, ok, err := f.store.Get(ctx, url)
	if err != nil || !ok {
		return nil, false
	}
	var resp response
	if err := json.Unmarshal(encoded, &resp); err != nil {
		// Undecodable entries are treated as misses; vacuum removes them.
		return nil, false
	}
	return &resp, true
}
