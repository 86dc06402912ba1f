package engine

import (
	"regexp"
	"strings"
)

// Letters and digits in any script are word characters; ASCII-only \w
// would mangle accented answers like "Beyoncé".
var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_ ]`)

// NormalizeWords reduces free text to a lowercase space-separated word
// soup: punctuation stripped, the connective "and" dropped, doubled
// spaces collapsed.
func NormalizeWords(text string) string {
	cleaned := nonWord.ReplaceAllString(text, "")
	cleaned = strings.ReplaceAll(cleaned, " and ", " ")
	cleaned = strings.ReplaceAll(cleaned, "  ", " ")
	return strings.ToLower(cleaned)
}

// SignificantWords splits normalized text into words and drops stop words.
func SignificantWords(normalized string) []string {
	var words []string
	for _, word := range strings.Fields(normalized) {
		if _, stop := stopWords[word]; !stop {
			words = append(words, word)
		}
	}
	return words
}

// countKeywords sums the occurrences of each distinct keyword longer than
// two characters inside body.
func countKeywords(keywords []string, body string) int64 {
	var total int64
	seen := make(map[string]struct{}, len(keywords))
	for _, keyword := range keywords {
		if len(keyword) <= 2 {
			continue
		}
		if _, dup := seen[keyword]; dup {
			continue
		}
		seen[keyword] = struct{}{}
		total += int64(strings.Count(body, keyword))
	}
	return total
}

// stopWords is a fixed English stop-word list; keeping it embedded keeps
// replay output stable across environments.
var stopWords = func() map[string]struct{} {
	list := []string{
		"a", "about", "above", "after", "again", "against", "all", "am",
		"an", "and", "any", "are", "aren", "as", "at", "be", "because",
		"been", "before", "being", "below", "between", "both", "but", "by",
		"can", "cannot", "could", "couldn", "did", "didn", "do", "does",
		"doesn", "doing", "don", "down", "during", "each", "few", "for",
		"from", "further", "had", "hadn", "has", "hasn", "have", "haven",
		"having", "he", "her", "here", "hers", "herself", "him", "himself",
		"his", "how", "i", "if", "in", "into", "is", "isn", "it", "its",
		"itself", "just", "me", "more", "most", "mustn", "my", "myself",
		"no", "nor", "not", "now", "of", "off", "on", "once", "only", "or",
		"other", "ought", "our", "ours", "ourselves", "out", "over", "own",
		"same", "shan", "she", "should", "shouldn", "so", "some", "such",
		"than", "that", "the", "their", "theirs", "them", "themselves",
		"then", "there", "these", "they", "this", "those", "through", "to",
		"too", "under", "until", "up", "very", "was", "wasn", "we", "were",
		"weren", "what", "when", "where", "which", "while", "who", "whom",
		"why", "will", "with", "won", "would", "wouldn", "you", "your",
		"yours", "yourself", "yourselves",
	}
	set := make(map[string]struct{}, len(list))
	for _, word := range list {
		set[word] = struct{}{}
	}
	return set
}()
