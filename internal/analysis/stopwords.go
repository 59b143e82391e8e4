package analysis

import "strings"

// englishStopwords is the filter list used by keyword extraction. It covers
// the common English function words; tokens of length <= 2 are filtered
// separately so two-letter words are omitted here.
var englishStopwords = buildStopwordSet(
	"the", "and", "for", "are", "but", "not", "you", "all", "any", "can",
	"had", "her", "was", "one", "our", "out", "day", "get", "has", "him",
	"his", "how", "man", "new", "now", "old", "see", "two", "way", "who",
	"boy", "did", "its", "let", "put", "say", "she", "too", "use", "that",
	"with", "have", "this", "will", "your", "from", "they", "know", "want",
	"been", "good", "much", "some", "time", "very", "when", "come", "here",
	"just", "like", "long", "make", "many", "more", "only", "over", "such",
	"take", "than", "them", "well", "were", "what", "does", "each", "into",
	"then", "there", "these", "those", "their", "would", "could", "should",
	"about", "after", "again", "before", "being", "below", "between", "both",
	"during", "further", "having", "itself", "under", "until", "while",
	"above", "against", "because", "most", "other", "same", "through",
	"where", "which", "whom", "why", "yours", "ours", "theirs", "himself",
	"herself", "myself", "yourself", "ourselves", "themselves", "once",
	"down", "off", "own", "few", "nor", "doing", "don", "which",
)

func buildStopwordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}

// isStopword reports whether a lowercase token is in the stopword set.
func isStopword(token string) bool {
	_, ok := englishStopwords[token]
	return ok
}
