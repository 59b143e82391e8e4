package analysis

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/tasksage/tasksage/internal/domain"
)

// Keyword tables for the deterministic task heuristic. Matching is
// case-insensitive substring matching against the title only, first
// matching rule wins.
var (
	highPriorityWords = []string{"urgent", "important", "critical"}
	lowPriorityWords  = []string{"sometime", "maybe", "consider"}

	categoryRules = []struct {
		category string
		words    []string
	}{
		{"Health", []string{"health", "doctor", "exercise"}},
		{"Learning", []string{"learn", "study", "course"}},
		{"Personal", []string{"personal", "family", "home"}},
	}
)

// urgencyTerms drive the standalone urgency scan: each distinct term found
// in the content adds 0.2 to the score, capped at 1.0.
var urgencyTerms = []string{
	"urgent", "asap", "immediately", "emergency", "critical",
	"deadline", "due", "today", "tomorrow", "now",
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	nonWordRe    = regexp.MustCompile(`[^\w\s]`)
)

// HeuristicConfig holds tuning knobs for the fallback engine.
type HeuristicConfig struct {
	// MaxKeywords caps how many keywords extraction returns.
	MaxKeywords int

	// MinTokenLength is the minimum token length kept by extraction;
	// shorter tokens are discarded.
	MinTokenLength int

	// ContextKeywordLimit caps keywords attached to a context insight.
	ContextKeywordLimit int

	// BaseUrgency is the urgency assigned to context content with no
	// urgency markers; HighUrgency replaces it when a marker is present.
	BaseUrgency float64
	HighUrgency float64
}

// DefaultHeuristicConfig returns the default fallback engine configuration.
func DefaultHeuristicConfig() HeuristicConfig {
	return HeuristicConfig{
		MaxKeywords:         10,
		MinTokenLength:      3,
		ContextKeywordLimit: 5,
		BaseUrgency:         0.3,
		HighUrgency:         0.8,
	}
}

// Heuristics is the deterministic fallback engine. It produces usable
// results without any network dependency and supplies the traditional-NLP
// signal that context analysis combines with model output. It holds no
// mutable state and is safe for concurrent use.
type Heuristics struct {
	cfg HeuristicConfig
}

// NewHeuristics creates a fallback engine, substituting defaults for
// non-positive limits.
func NewHeuristics(cfg HeuristicConfig) *Heuristics {
	def := DefaultHeuristicConfig()
	if cfg.MaxKeywords <= 0 {
		cfg.MaxKeywords = def.MaxKeywords
	}
	if cfg.MinTokenLength <= 0 {
		cfg.MinTokenLength = def.MinTokenLength
	}
	if cfg.ContextKeywordLimit <= 0 {
		cfg.ContextKeywordLimit = def.ContextKeywordLimit
	}
	if cfg.BaseUrgency <= 0 {
		cfg.BaseUrgency = def.BaseUrgency
	}
	if cfg.HighUrgency <= 0 {
		cfg.HighUrgency = def.HighUrgency
	}
	return &Heuristics{cfg: cfg}
}

// TaskSuggestion produces a deterministic suggestion from keyword rules:
// priority and category from title keywords, deadline a week out, fixed
// confidence and tags marking the result as mock analysis.
func (h *Heuristics) TaskSuggestion(title, description string, now time.Time) *domain.TaskSuggestion {
	lowerTitle := strings.ToLower(title)

	priority := domain.PriorityMedium
	if containsAny(lowerTitle, highPriorityWords) {
		priority = domain.PriorityHigh
	} else if containsAny(lowerTitle, lowPriorityWords) {
		priority = domain.PriorityLow
	}

	category := "Work"
	for _, rule := range categoryRules {
		if containsAny(lowerTitle, rule.words) {
			category = rule.category
			break
		}
	}

	enhanced := description
	if enhanced == "" {
		enhanced = fmt.Sprintf("Complete the task: %s", title)
	}

	deadline := now.Add(7 * 24 * time.Hour)

	return domain.NewTaskSuggestion(
		category,
		priority,
		&deadline,
		enhanced,
		[]string{"ai-suggested", "mock"},
		"Mock analysis based on simple keyword detection",
		0.6,
		now,
	)
}

// ContextInsight produces a deterministic insight from lexicon sentiment,
// keyword markers for urgency and the top extracted keywords.
func (h *Heuristics) ContextInsight(content string) *domain.ContextInsight {
	urgency := h.cfg.BaseUrgency
	if containsAny(strings.ToLower(content), []string{"urgent", "asap", "deadline"}) {
		urgency = h.cfg.HighUrgency
	}

	keywords := h.ExtractKeywords(content)
	if len(keywords) > h.cfg.ContextKeywordLimit {
		keywords = keywords[:h.cfg.ContextKeywordLimit]
	}

	return domain.NewContextInsight(
		domain.InsightTypeMockAnalysis,
		"Context analyzed using mock AI processor",
		0.5,
		keywords,
		urgency,
		sentimentScore(content),
	)
}

// ProductivityInsights returns the fixed illustrative insight set used when
// the model is disabled.
func (h *Heuristics) ProductivityInsights() []*domain.ProductivityInsight {
	return []*domain.ProductivityInsight{
		domain.NewProductivityInsight(
			domain.ProductivityTypePattern,
			"Peak Performance Hours",
			"Your productivity appears highest in the morning hours",
			0.7,
			true,
		),
		domain.NewProductivityInsight(
			domain.ProductivityTypeWorkloadBalance,
			"Task Distribution",
			"Consider balancing your workload across different categories",
			0.6,
			true,
		),
	}
}

// UrgencyScore scans the content for urgency terms, adding 0.2 per distinct
// matching term, capped at 1.0.
func (h *Heuristics) UrgencyScore(content string) float64 {
	lower := strings.ToLower(content)
	score := 0.0
	for _, term := range urgencyTerms {
		if strings.Contains(lower, term) {
			score += 0.2
		}
	}
	return math.Min(score, 1.0)
}

// ExtractKeywords ranks the most significant terms of a text. The text is
// cleaned and tokenized, tokens that are non-alphabetic, stopwords or too
// short are discarded, and the remaining unigrams and bigrams are scored by
// TF-IDF over the single-document corpus. The ranking is deterministic:
// descending score with first-seen order breaking ties. At most MaxKeywords
// terms with nonzero score are returned; empty input yields an empty slice,
// never an error.
func (h *Heuristics) ExtractKeywords(text string) []string {
	filtered := h.filterTokens(tokenize(cleanText(text)))
	if len(filtered) == 0 {
		return []string{}
	}

	ranked := rankByTFIDF(filtered, h.cfg.MaxKeywords)
	if ranked == nil {
		ranked = rankByFrequency(filtered, h.cfg.MaxKeywords)
	}
	return ranked
}

// filterTokens keeps alphabetic, non-stopword tokens longer than the
// configured minimum.
func (h *Heuristics) filterTokens(tokens []string) []string {
	filtered := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if len(tok) < h.cfg.MinTokenLength {
			continue
		}
		if isStopword(tok) {
			continue
		}
		if !isAlphabetic(tok) {
			continue
		}
		filtered = append(filtered, tok)
	}
	return filtered
}

type scoredTerm struct {
	term  string
	score float64
	seen  int
}

// rankByTFIDF scores unigrams and bigrams of the token sequence and returns
// the top terms with nonzero score, or nil when no features can be built.
func rankByTFIDF(tokens []string, limit int) []string {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)

	record := func(term string) {
		if _, ok := firstSeen[term]; !ok {
			firstSeen[term] = len(firstSeen)
		}
		counts[term]++
	}

	for _, tok := range tokens {
		record(tok)
	}
	for i := 0; i+1 < len(tokens); i++ {
		record(tokens[i] + " " + tokens[i+1])
	}

	if len(counts) == 0 {
		return nil
	}

	// With a single-document corpus the smoothed IDF is constant:
	// ln((1+n)/(1+df)) + 1 with n = df = 1.
	const idf = 1.0

	terms := make([]scoredTerm, 0, len(counts))
	var norm float64
	for term, count := range counts {
		score := float64(count) * idf
		norm += score * score
		terms = append(terms, scoredTerm{term: term, score: score, seen: firstSeen[term]})
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return nil
	}
	for i := range terms {
		terms[i].score /= norm
	}

	sort.SliceStable(terms, func(i, j int) bool {
		if terms[i].score != terms[j].score {
			return terms[i].score > terms[j].score
		}
		return terms[i].seen < terms[j].seen
	})

	result := make([]string, 0, limit)
	for _, t := range terms {
		if t.score <= 0 || len(result) >= limit {
			break
		}
		result = append(result, t.term)
	}
	return result
}

// rankByFrequency is the plain-count fallback ranking.
func rankByFrequency(tokens []string, limit int) []string {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for _, tok := range tokens {
		if _, ok := firstSeen[tok]; !ok {
			firstSeen[tok] = len(firstSeen)
		}
		counts[tok]++
	}

	terms := make([]scoredTerm, 0, len(counts))
	for tok, count := range counts {
		terms = append(terms, scoredTerm{term: tok, score: float64(count), seen: firstSeen[tok]})
	}

	sort.SliceStable(terms, func(i, j int) bool {
		if terms[i].score != terms[j].score {
			return terms[i].score > terms[j].score
		}
		return terms[i].seen < terms[j].seen
	})

	if len(terms) > limit {
		terms = terms[:limit]
	}
	result := make([]string, 0, len(terms))
	for _, t := range terms {
		result = append(result, t.term)
	}
	return result
}

// cleanText collapses whitespace and strips punctuation, leaving word
// characters and spaces.
func cleanText(text string) string {
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = nonWordRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// isAlphabetic reports whether every rune in the token is a letter.
func isAlphabetic(token string) bool {
	for _, r := range token {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return len(token) > 0
}

// containsAny reports whether the (already lowercased) text contains any of
// the given substrings.
func containsAny(lower string, words []string) bool {
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
