package charts

import (
	"sort"

	"github.com/KaramelBytes/glance-cli/internal/heuristics"
)

var typeCaps = map[Type]int{
	TypeHistogram:   2,
	TypeBar:         2,
	TypeTime:        2,
	TypeScatter:     1,
	TypeBox:         1,
	TypeCorrelation: 1,
}

// Select orders candidates by score and accepts them greedily under purpose
// and type caps. When fewer than cfg.MinCharts pass, the best rejected
// candidates are added back regardless of caps. At most cfg.MaxCharts are
// returned.
func Select(cands []Candidate, cfg heuristics.Config) []Spec {
	cfg = cfg.Normalize()
	ordered := append([]Candidate(nil), cands...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Score > ordered[j].Score })

	perPurpose := map[Purpose]int{}
	perType := map[Type]int{}
	accepted := make([]bool, len(ordered))
	n := 0
	for i, c := range ordered {
		if n >= cfg.MaxCharts {
			break
		}
		t := c.Spec.ChartType()
		if perPurpose[c.Purpose] >= cfg.PurposeCap || perType[t] >= typeCaps[t] {
			continue
		}
		perPurpose[c.Purpose]++
		perType[t]++
		accepted[i] = true
		n++
	}
	if n < cfg.MinCharts {
		for i := range ordered {
			if n >= cfg.MinCharts {
				break
			}
			if !accepted[i] {
				accepted[i] = true
				n++
			}
		}
	}

	out := make([]Spec, 0, n)
	for i, c := range ordered {
		if accepted[i] && len(out) < cfg.MaxCharts {
			out = append(out, c.Spec)
		}
	}
	return out
}
