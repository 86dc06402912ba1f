package evidence

import (
	"net/url"

	"hqtrivia-bot/internal/domain"
)

// SearchQueryURLs builds the search-engine query set for one question:
// the plain question first, then the question conjoined with each quoted
// answer in slot order.
func SearchQueryURLs(baseURL, question string, answers map[domain.Slot]string) []string {
	queries := []string{question}
	for _, slot := range domain.Slots {
		queries = append(queries, question+` "`+answers[slot]+`"`)
	}
	urls := make([]string, 0, len(queries))
	for _, query := range queries {
		urls = append(urls, baseURL+"?q="+url.QueryEscape(query))
	}
	return urls
}

// ReferenceQueryURLs builds one reference lookup per answer in slot order.
func ReferenceQueryURLs(baseURL string, answers map[domain.Slot]string) []string {
	urls := make([]string, 0, len(domain.Slots))
	for _, slot := range domain.Slots {
		urls = append(urls, baseURL+"?search="+url.QueryEscape(answers[slot]))
	}
	return urls
}

// QueryURLs is every URL a question's evidence needs; the cache admin
// verbs use it to decide which cached responses are still referenced.
func QueryURLs(searchBase, referenceBase, question string, answers map[domain.Slot]string) []string {
	return append(SearchQueryURLs(searchBase, question, answers), ReferenceQueryURLs(referenceBase, answers)...)
}
