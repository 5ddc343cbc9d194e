// Package sentiment derives a review sentiment summary from raw review
// text. It is a pure enrichment step; the catalog engine treats the
// result as opaque data.
package sentiment

import (
	"regexp"
	"sort"
	"strings"

	"github.com/fairyhunter13/product-catalog-aggregator/internal/model"
)

// MinReviews is the smallest sample considered meaningful; below it a
// neutral-leaning default split is returned.
const MinReviews = 5

const (
	polarityPositive = "positive"
	polarityNeutral  = "neutral"
	polarityNegative = "negative"
)

var positiveWords = []string{
	"great", "excellent", "amazing", "love", "perfect", "best", "awesome",
	"good", "nice", "fantastic",
}

var negativeWords = []string{
	"bad", "terrible", "awful", "hate", "worst", "poor", "disappointing",
	"waste", "broken", "defective",
}

var positivePatterns = compilePatterns(
	`great (\w+)`,
	`excellent (\w+)`,
	`love the (\w+)`,
	`perfect (\w+)`,
	`amazing (\w+)`,
	`good (\w+)`,
	`fast (\w+)`,
	`easy to (\w+)`,
)

var negativePatterns = compilePatterns(
	`poor (\w+)`,
	`terrible (\w+)`,
	`bad (\w+)`,
	`disappointing (\w+)`,
	`slow (\w+)`,
	`difficult to (\w+)`,
	`does not (\w+)`,
	`doesn't (\w+)`,
)

func compilePatterns(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

// AnalyzeReviews classifies each review's polarity, splits the sample
// into percentages, and extracts recurring pros/cons phrases.
func AnalyzeReviews(reviews []string) model.ReviewSentiment {
	if len(reviews) < MinReviews {
		samples := reviews
		if len(samples) > 3 {
			samples = samples[:3]
		}
		return model.ReviewSentiment{
			Positive:      50,
			Neutral:       30,
			Negative:      20,
			TopPros:       []string{},
			TopCons:       []string{},
			SampleReviews: append([]string{}, samples...),
		}
	}

	polarities := make([]string, len(reviews))
	positive, negative := 0, 0
	for i, review := range reviews {
		polarities[i] = classify(review)
		switch polarities[i] {
		case polarityPositive:
			positive++
		case polarityNegative:
			negative++
		}
	}

	total := len(reviews)
	positivePct := positive * 100 / total
	negativePct := negative * 100 / total
	neutralPct := 100 - positivePct - negativePct

	pros := topPhrases(reviews, positivePatterns)
	cons := topPhrases(reviews, negativePatterns)

	return model.ReviewSentiment{
		Positive:      positivePct,
		Neutral:       neutralPct,
		Negative:      negativePct,
		TopPros:       pros,
		TopCons:       cons,
		SampleReviews: sampleReviews(reviews, polarities),
	}
}

// classify scores a single review by counting polarity keywords.
func classify(review string) string {
	lower := strings.ToLower(review)
	positive, negative := 0, 0
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			positive++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			negative++
		}
	}
	switch {
	case positive > negative:
		return polarityPositive
	case negative > positive:
		return polarityNegative
	default:
		return polarityNeutral
	}
}

// topPhrases extracts pattern captures across all reviews and ranks
// them by frequency, first occurrence breaking ties.
func topPhrases(reviews []string, patterns []*regexp.Regexp) []string {
	counts := make(map[string]int)
	var order []string
	for _, review := range reviews {
		lower := strings.ToLower(review)
		for _, re := range patterns {
			for _, m := range re.FindAllStringSubmatch(lower, -1) {
				phrase := m[1]
				if counts[phrase] == 0 {
					order = append(order, phrase)
				}
				counts[phrase]++
			}
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > 10 {
		order = order[:10]
	}
	if order == nil {
		order = []string{}
	}
	return order
}

// sampleReviews picks up to five representative reviews: one per
// polarity first, then the earliest remaining ones. Long reviews are
// truncated to 200 characters.
func sampleReviews(reviews, polarities []string) []string {
	samples := []string{}
	contains := func(s string) bool {
		for _, existing := range samples {
			if existing == s {
				return true
			}
		}
		return false
	}
	for _, want := range []string{polarityPositive, polarityNeutral, polarityNegative} {
		for i, review := range reviews {
			if polarities[i] == want && !contains(truncate(review)) {
				samples = append(samples, truncate(review))
				break
			}
		}
	}
	for _, review := range reviews {
		if len(samples) >= 5 {
			break
		}
		if !contains(truncate(review)) {
			samples = append(samples, truncate(review))
		}
	}
	return samples
}

func truncate(s string) string {
	if len(s) > 200 {
		return s[:200]
	}
	return s
}
