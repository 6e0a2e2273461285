package design

import (
	"math"
	"sort"

	"github.com/YHzed/heac-go/pkg/pareto"
)

// Recommendation is one ranked archive entry.
type Recommendation struct {
	Rank  int          `json:"rank"`
	Entry pareto.Entry `json:"entry"`

	// FullySatisfying marks candidates inside both target windows.
	FullySatisfying bool `json:"fully_satisfying"`

	// Distance is the normalized distance to the target centers, the
	// ordering key among fully satisfying candidates.
	Distance float64 `json:"distance"`
}

// RankOptions controls how archive entries are turned into a ranked list.
type RankOptions struct {
	// TopK caps the list length. Zero or negative means no cap.
	TopK int

	// IncludePartial keeps candidates that miss one or both target
	// windows. When false only fully satisfying candidates are ranked.
	IncludePartial bool
}

// Rank orders archive entries for presentation: fully satisfying
// candidates first, closest to the target centers first; then partial
// candidates (when opts.IncludePartial is set) by total score, least bad
// first. Ties break on signature so the ordering is deterministic.
func Rank(entries []pareto.Entry, targets pareto.Targets, opts RankOptions) []Recommendation {
	recs := make([]Recommendation, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.Signature]; dup {
			continue
		}
		seen[e.Signature] = struct{}{}
		if !opts.IncludePartial && !e.Scores.FullySatisfying() {
			continue
		}
		recs = append(recs, Recommendation{
			Entry:           e,
			FullySatisfying: e.Scores.FullySatisfying(),
			Distance:        centerDistance(e.Objectives, targets),
		})
	}

	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.FullySatisfying != b.FullySatisfying {
			return a.FullySatisfying
		}
		if a.FullySatisfying {
			if a.Distance != b.Distance {
				return a.Distance < b.Distance
			}
		} else if a.Entry.Scores.Sum() != b.Entry.Scores.Sum() {
			return a.Entry.Scores.Sum() > b.Entry.Scores.Sum()
		}
		return a.Entry.Signature < b.Entry.Signature
	})

	if opts.TopK > 0 && len(recs) > opts.TopK {
		recs = recs[:opts.TopK]
	}
	for i := range recs {
		recs[i].Rank = i + 1
	}
	return recs
}

// centerDistance measures how far the raw objectives sit from the target
// range centers, each axis normalized by its range width.
func centerDistance(obj pareto.Objectives, targets pareto.Targets) float64 {
	dh := (obj.HV - targets.HV.Center()) / targets.HV.Width()
	dk := (obj.KIC - targets.KIC.Center()) / targets.KIC.Width()
	return math.Hypot(dh, dk)
}
