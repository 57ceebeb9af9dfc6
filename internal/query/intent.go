// Package query answers free-text questions about a profiled dataset with
// deterministic templates.
package query

import (
	"regexp"
	"strings"
)

// Intent is the classified purpose of a question.
type Intent string

const (
	IntentSummary       Intent = "summary"
	IntentStandsOut     Intent = "stands-out"
	IntentMainMetric    Intent = "main-metric"
	IntentOutliers      Intent = "outliers"
	IntentSkew          Intent = "skew"
	IntentExplainColumn Intent = "explain-column"
	IntentDistribution  Intent = "distribution"
	IntentTopValues     Intent = "top-values"
	IntentTime          Intent = "time"
	IntentKPIGaps       Intent = "kpi-gaps"
	IntentNextSteps     Intent = "next-steps"
	IntentNotAnswerable Intent = "not-answerable"
	IntentDataToAdd     Intent = "data-to-add"
	IntentExecutive     Intent = "executive"
	IntentFallback      Intent = "fallback"
)

type rule struct {
	intent Intent
	re     *regexp.Regexp
	// column marks intents whose trailing phrase names a column; the first
	// non-empty capture group is the phrase.
	column bool
}

// rules are tried in order; the first match wins.
var rules = []rule{
	{intent: IntentSummary, re: regexp.MustCompile(`^(give me an? |an? )?(quick |short |brief )?(summary|overview)\b|\bsummari[sz]e\b|\bdescribe (the|this) (data|dataset|file)\b|\bwhat is (this|the) (data|dataset|file)( about)?\b|\bwhat('s| is) in (this|the) (data|dataset|file)\b`)},
	{intent: IntentStandsOut, re: regexp.MustCompile(`\bstands? out\b|\binteresting\b|\bnotable\b|\bsurpris|\bkey (findings|insights)\b|\bhighlights?\b`)},
	{intent: IntentMainMetric, re: regexp.MustCompile(`\bmain metric\b|\bkey metric\b|\bprimary metric\b|\bheadline (number|metric|figure)\b|\bmost important (metric|number|column)\b`)},
	{intent: IntentOutliers, re: regexp.MustCompile(`\boutliers?\b|\banomal|\bextreme values?\b|\bunusual values?\b`)},
	{intent: IntentSkew, re: regexp.MustCompile(`\bskew|\basymmetr|\blong tail\b`)},
	{intent: IntentExplainColumn, column: true, re: regexp.MustCompile(`^(?:please\s+)?(?:explain|describe|tell me about|what about|info on|details (?:on|for|about))\s+(?:the\s+)?(?:column\s+|field\s+)?(.+?)(?:\s+column|\s+field)?$`)},
	{intent: IntentDistribution, column: true, re: regexp.MustCompile(`\bdistribution (?:of|for|in)\s+(?:the\s+)?(?:column\s+)?(.+?)(?:\s+column)?$|\bhow is (?:the\s+)?(.+?) distributed\b|\bspread of\s+(?:the\s+)?(.+?)$`)},
	{intent: IntentTopValues, column: true, re: regexp.MustCompile(`\btop values? (?:of|for|in)\s+(?:the\s+)?(?:column\s+)?(.+?)(?:\s+column)?$|\bmost (?:common|frequent) (?:values? )?(?:of|for|in)\s+(?:the\s+)?(.+?)$|\bmost (?:common|frequent)\s+(.+?)$`)},
	{intent: IntentTime, re: regexp.MustCompile(`\btrends?\b|\bover time\b|\btime series\b|\bseason|\bmonthly\b|\bweekly\b|\bdaily\b|\btimeline\b|\bdates?\b`)},
	{intent: IntentKPIGaps, re: regexp.MustCompile(`\bkpis?\b.*\b(gaps?|missing)\b|\b(gaps?|missing)\b.*\bkpis?\b|\bwhat kpis\b|\bwhich kpis\b|\bmetric gaps?\b`)},
	{intent: IntentNextSteps, re: regexp.MustCompile(`\bnext steps?\b|\bwhat should i do\b|\brecommend|\bactions?\b|\bwhat now\b`)},
	{intent: IntentNotAnswerable, re: regexp.MustCompile(`\bcan'?t (you )?answer\b|\bcannot answer\b|\bnot answerable\b|\blimitations?\b|\bwhat can'?t\b|\bunable to answer\b`)},
	{intent: IntentDataToAdd, re: regexp.MustCompile(`\bdata (should i |to )?add\b|\bwhat data should\b|\badditional data\b|\bmore data\b|\benrich\b|\bmissing data sources?\b`)},
	{intent: IntentExecutive, re: regexp.MustCompile(`\bexecutives?\b|\bleadership\b|\bboard\b|\bstakeholders?\b|\bceo\b|\bmanagement\b|\bexec\b`)},
}

// Normalize trims, lowercases and collapses whitespace.
func Normalize(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(q))), " ")
}

// Classify returns the intent and, for column intents, the trailing phrase.
func Classify(question string) (Intent, string) {
	q := strings.TrimRight(Normalize(question), "?.! ")
	for _, r := range rules {
		m := r.re.FindStringSubmatch(q)
		if m == nil {
			continue
		}
		if !r.column {
			return r.intent, ""
		}
		for _, g := range m[1:] {
			if g = strings.TrimSpace(g); g != "" {
				return r.intent, g
			}
		}
		return r.intent, ""
	}
	return IntentFallback, ""
}
