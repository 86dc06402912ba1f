package evidence

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"

	"hqtrivia-bot/internal/domain"
	"hqtrivia-bot/internal/infra/cache"
)

const (
	testSearchBase    = "https://search.example/search"
	testReferenceBase = "https://ref.example/wiki/Special:Search"
)

func testAnswers() map[domain.Slot]string {
	return map[domain.Slot]string{
		domain.SlotA: "Nile",
		domain.SlotB: "Amazon",
		domain.SlotC: "Yangtze",
	}
}

func mockClient(t *testing.T) *http.Client {
	t.Helper()
	client := &http.Client{}
	httpmock.ActivateNonDefault(client)
	t.Cleanup(httpmock.DeactivateAndReset)
	return client
}

func redirectResponder(target string) httpmock.Responder {
	return func(req *http.Request) (*http.Response, error) {
		resp := httpmock.NewStringResponse(http.StatusFound, "")
		resp.Header.Set("Location", target)
		return resp, nil
	}
}

func registerHappyPages(question string, answers map[domain.Slot]string) {
	searchURLs := SearchQueryURLs(testSearchBase, question, answers)
	httpmock.RegisterResponder(http.MethodGet, searchURLs[0], httpmock.NewStringResponder(200,
		`<html><body><span class="st">The Amazon is the longest river by some measures. Amazon basin.</span></body></html>`))
	for i, count := range []string{"100", "900", "50"} {
		httpmock.RegisterResponder(http.MethodGet, searchURLs[1+i], httpmock.NewStringResponder(200,
			`<html><body><div id="resultStats">About `+count+` results</div></body></html>`))
	}

	referenceURLs := ReferenceQueryURLs(testReferenceBase, answers)
	articles := []string{
		"https://ref.example/wiki/Nile",
		"https://ref.example/wiki/Amazon_River",
		"https://ref.example/wiki/Yangtze",
	}
	for i, u := range referenceURLs {
		httpmock.RegisterResponder(http.MethodGet, u, redirectResponder(articles[i]))
	}
	for _, u := range articles {
		httpmock.RegisterResponder(http.MethodGet, u, httpmock.NewStringResponder(200,
			`<html><body><p>A river is a natural watercourse. This river is long.</p></body></html>`))
	}
}

func TestFetchEvidenceBuildsBundle(t *testing.T) {
	ctx := context.Background()
	client := mockClient(t)
	question := "Which river is the longest river?"
	answers := testAnswers()
	registerHappyPages(question, answers)

	fetcher := NewFetcher(client, nil, testSearchBase, testReferenceBase)
	bundle, err := fetcher.FetchEvidence(ctx, question, answers)
	if err != nil {
		t.Fatalf("fetch evidence: %v", err)
	}

	// "amazon" appears twice in the snippet text, the others not at all.
	if bundle.AnswerMatches[domain.SlotB] != 2 || bundle.AnswerMatches[domain.SlotA] != 0 {
		t.Fatalf("unexpected answer matches: %v", bundle.AnswerMatches)
	}
	if bundle.ResultCounts[domain.SlotA] != 100 || bundle.ResultCounts[domain.SlotB] != 900 || bundle.ResultCounts[domain.SlotC] != 50 {
		t.Fatalf("unexpected result counts: %v", bundle.ResultCounts)
	}
	// Keywords "river"/"longest" hit every reference page equally.
	if bundle.KeywordMatches[domain.SlotA] == 0 || bundle.KeywordMatches[domain.SlotA] != bundle.KeywordMatches[domain.SlotC] {
		t.Fatalf("unexpected keyword matches: %v", bundle.KeywordMatches)
	}
}

func TestFetchEvidenceRateLimitIsFatal(t *testing.T) {
	ctx := context.Background()
	client := mockClient(t)
	question := "Which river?"
	answers := testAnswers()
	registerHappyPages(question, answers)

	// The second quoted query redirects to the throttling page.
	searchURLs := SearchQueryURLs(testSearchBase, question, answers)
	sorry := "https://search.example/sorry/index?continue=throttled"
	httpmock.RegisterResponder(http.MethodGet, searchURLs[2], redirectResponder(sorry))
	httpmock.RegisterResponder(http.MethodGet, sorry, httpmock.NewStringResponder(200, "slow down"))

	fetcher := NewFetcher(client, nil, testSearchBase, testReferenceBase)
	if _, err := fetcher.FetchEvidence(ctx, question, answers); !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestFetchEvidenceUnresolvedReferenceIsPartial(t *testing.T) {
	ctx := context.Background()
	client := mockClient(t)
	question := "Which river is the longest river?"
	answers := testAnswers()
	registerHappyPages(question, answers)

	// Slot A's reference lookup stays on the search page: no redirect.
	referenceURLs := ReferenceQueryURLs(testReferenceBase, answers)
	httpmock.RegisterResponder(http.MethodGet, referenceURLs[0], httpmock.NewStringResponder(200,
		`<html><body><p>Search results</p></body></html>`))

	fetcher := NewFetcher(client, nil, testSearchBase, testReferenceBase)
	bundle, err := fetcher.FetchEvidence(ctx, question, answers)
	if err != nil {
		t.Fatalf("fetch evidence: %v", err)
	}
	for _, slot := range domain.Slots {
		if bundle.KeywordMatches[slot] != 0 {
			t.Fatalf("unresolved first reference must zero the signal, got %v", bundle.KeywordMatches)
		}
	}
	// The other signals still contribute.
	if bundle.ResultCounts.Total() == 0 {
		t.Fatalf("result counts must survive a partial reference failure")
	}
}

func TestFetchReadsThroughCache(t *testing.T) {
	ctx := context.Background()
	client := mockClient(t)
	question := "Which river is the longest river?"
	answers := testAnswers()
	registerHappyPages(question, answers)

	store := cache.NewMemory(time.Minute)
	fetcher := NewFetcher(client, store, testSearchBase, testReferenceBase)

	first, err := fetcher.FetchEvidence(ctx, question, answers)
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	upstream := httpmock.GetTotalCallCount()

	second, err := fetcher.FetchEvidence(ctx, question, answers)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if httpmock.GetTotalCallCount() != upstream {
		t.Fatalf("second fetch must be served from cache")
	}
	if first.AnswerMatches[domain.SlotB] != second.AnswerMatches[domain.SlotB] {
		t.Fatalf("cached fetch must reproduce the same counts")
	}
}
