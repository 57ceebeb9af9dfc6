package insights

import "strings"

type ruleKind int

const (
	kindOutlier ruleKind = iota
	kindDominance
	kindMissing
	kindTime
	kindHeadline
)

var questionTemplates = map[ruleKind][]string{
	kindOutlier: {
		"What are the outliers in {col}?",
		"Is {col} skewed?",
		"Explain {col}",
	},
	kindDominance: {
		"What are the top values of {col}?",
		"Explain {col}",
	},
	kindMissing: {
		"Explain {col}",
		"What data should I add?",
	},
	kindTime: {
		"What is the trend over {col}?",
		"Is there seasonality in {col}?",
	},
	kindHeadline: {
		"What is the main metric?",
		"What is the distribution of {col}?",
	},
}

func questionsFor(k ruleKind, col string) []string {
	tpl := questionTemplates[k]
	out := make([]string, len(tpl))
	for i, q := range tpl {
		out[i] = strings.ReplaceAll(q, "{col}", col)
	}
	return out
}
