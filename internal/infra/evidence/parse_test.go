package evidence

import (
	"strings"
	"testing"
)

func TestSnippetTextCollectsTargetedElements(t *testing.T) {
	page := []byte(`<html><body>
		<div class="g"><span class="st">Jupiter is the largest planet.</span></div>
		<h3 class="r"><a href="#">Planet <b>sizes</b> compared</a></h3>
		<div class="mod">Quick fact: Jupiter.</div>
		<div class="brs_col">Related: gas giants</div>
		<div class="nav">ignore this chrome</div>
	</body></html>`)
	text := SnippetText(page)
	for _, want := range []string{"Jupiter is the largest planet.", "Planet sizes compared", "Quick fact: Jupiter.", "Related: gas giants"} {
		if !contains(text, want) {
			t.Fatalf("expected %q in snippet text %q", want, text)
		}
	}
	if contains(text, "ignore this chrome") {
		t.Fatalf("navigation chrome must not be collected: %q", text)
	}
}

func TestResultCount(t *testing.T) {
	page := []byte(`<html><body><div id="resultStats">About 1,230,000 results (0.42 seconds)</div></body></html>`)
	if got := ResultCount(page); got != 1230000 {
		t.Fatalf("expected 1230000, got %d", got)
	}
}

func TestResultCountMissingStats(t *testing.T) {
	if got := ResultCount([]byte(`<html><body>no stats here</body></html>`)); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestParagraphText(t *testing.T) {
	page := []byte(`<html><body>
		<p>The Amazon is a river in <a href="#">South America</a>.</p>
		<div>not a paragraph</div>
		<p>It is the largest by discharge.</p>
	</body></html>`)
	text := ParagraphText(page)
	if !contains(text, "The Amazon is a river in South America.") || !contains(text, "It is the largest by discharge.") {
		t.Fatalf("unexpected paragraph text %q", text)
	}
	if contains(text, "not a paragraph") {
		t.Fatalf("non-paragraph content must be skipped: %q", text)
	}
}

func TestTextExtractionKeepsLinkText(t *testing.T) {
	page := []byte(`<html><body>
		<h3 class="r"><a href="/url?q=x">Longest rivers ranked</a></h3>
		<p>Flows through <a href="/wiki/Brazil">Brazil</a> and <a href="/wiki/Peru">Peru</a>.</p>
	</body></html>`)
	snippets := SnippetText(page)
	if !contains(snippets, "Longest rivers ranked") {
		t.Fatalf("linked title text must be kept, got %q", snippets)
	}
	paragraphs := ParagraphText(page)
	if !contains(paragraphs, "Flows through Brazil and Peru.") {
		t.Fatalf("linked words must read through, got %q", paragraphs)
	}
	for _, leak := range []string{"/url", "/wiki", "#"} {
		if contains(snippets, leak) || contains(paragraphs, leak) {
			t.Fatalf("href %q must not leak into text: %q / %q", leak, snippets, paragraphs)
		}
	}
}

func contains(haystack, needle string) bool {
	return strings.Contains(haystack, needle)
}
