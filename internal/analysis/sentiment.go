package analysis

import "strings"

// Polarity lexicon for sentiment scoring. Values are in [-1, 1]; the score
// of a text is the mean polarity of its matching tokens, with simple
// negation flipping the following token's polarity.
var polarityLexicon = map[string]float64{
	// positive
	"good": 0.7, "great": 0.8, "excellent": 1.0, "amazing": 0.9,
	"love": 0.8, "happy": 0.8, "glad": 0.7, "wonderful": 1.0,
	"awesome": 0.9, "fantastic": 0.9, "nice": 0.6, "perfect": 1.0,
	"best": 1.0, "better": 0.5, "success": 0.7, "successful": 0.8,
	"win": 0.7, "easy": 0.4, "helpful": 0.6, "thanks": 0.5,
	"thank": 0.5, "pleased": 0.7, "excited": 0.7, "progress": 0.4,
	"done": 0.3, "resolved": 0.5, "improved": 0.6, "improvement": 0.5,

	// negative
	"bad": -0.7, "terrible": -1.0, "awful": -1.0, "horrible": -1.0,
	"hate": -0.8, "sad": -0.7, "angry": -0.8, "worst": -1.0,
	"worse": -0.6, "fail": -0.7, "failed": -0.7, "failure": -0.8,
	"problem": -0.5, "problems": -0.5, "issue": -0.4, "issues": -0.4,
	"broken": -0.6, "late": -0.4, "delay": -0.4, "delayed": -0.5,
	"difficult": -0.5, "hard": -0.3, "stress": -0.6, "stressed": -0.7,
	"worried": -0.6, "worry": -0.5, "annoying": -0.6, "frustrated": -0.7,
	"blocked": -0.5, "urgent": -0.2, "overdue": -0.6, "missed": -0.5,
	"wrong": -0.5, "error": -0.4, "errors": -0.4, "bug": -0.3,
}

// negations flip the polarity of the token that follows them.
var negations = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "none": {},
	"isn": {}, "don": {}, "doesn": {}, "didn": {}, "won": {}, "can": {},
}

// sentimentScore computes a lexicon-based polarity score in [-1, 1] for the
// given text. Text with no matching tokens scores 0 (neutral).
func sentimentScore(text string) float64 {
	tokens := tokenize(cleanText(text))
	if len(tokens) == 0 {
		return 0
	}

	var total float64
	matches := 0
	negate := false
	for _, tok := range tokens {
		if _, ok := negations[tok]; ok {
			negate = true
			continue
		}

		if polarity, ok := polarityLexicon[tok]; ok {
			if negate {
				polarity = -polarity
			}
			total += polarity
			matches++
		}
		negate = false
	}

	if matches == 0 {
		return 0
	}

	score := total / float64(matches)
	if score > 1 {
		score = 1
	}
	if score < -1 {
		score = -1
	}
	return score
}

// tokenize splits cleaned text into lowercase tokens.
func tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}
