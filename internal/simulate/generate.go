package simulate

import (
	"math/rand"
	"sort"

	"github.com/trailwatch/gpsdrift/internal/models"
)

// Result is a corrupted trajectory plus the ground-truth markers describing
// exactly what was done to it, for scoring a detector's accept/reject
// decisions against.
type Result struct {
	Fixes   []models.Fix
	Markers []models.Marker
}

// Generate injects anomalies into baseline per cfg, using rng as the sole
// source of randomness. rng is caller-owned and explicitly threaded through
// every call in this package — there is no package-level PRNG state, so two
// calls with the same baseline, cfg and a freshly seeded *rand.Rand produce
// identical output.
func Generate(baseline []models.Fix, cfg Config, rng *rand.Rand) Result {
	if len(baseline) == 0 {
		return Result{}
	}

	ranges := sampleRanges(len(baseline), cfg, rng)

	var out []models.Fix
	var markers []models.Marker
	cursor := 0

	for _, r := range ranges {
		out = append(out, baseline[cursor:r.start]...)

		switch r.kind {
		case kindStaticDrift:
			anchor := baseline[r.start]
			out = append(out, anchor)
			out = append(out, applyStaticDrift(anchor, cfg, rng)...)
			markers = append(markers, models.Marker{
				Kind:        models.KindDrift,
				Position:    anchor,
				Description: "static drift",
				T:           anchor.T,
			})

		case kindMovingDrift:
			segment := baseline[r.start : r.end+1]
			out = append(out, applyMovingDrift(segment, cfg, rng)...)
			markers = append(markers, models.Marker{
				Kind:        models.KindDrift,
				Position:    segment[0],
				Description: "moving drift",
				T:           segment[0].T,
			})

		case kindTunnel:
			markers = append(markers, models.Marker{
				Kind:        models.KindTunnel,
				Position:    baseline[r.start],
				Description: "tunnel",
				T:           baseline[r.start].T,
			})

		case kindSpeedScenario:
			segment := baseline[r.start : r.end+1]
			out = append(out, applySpeedScenario(segment, cfg, rng)...)
			markers = append(markers, models.Marker{
				Kind:        models.KindSpeed,
				Position:    segment[0],
				Description: "speed scenario",
				T:           segment[0].T,
			})
		}

		cursor = r.end + 1
	}
	out = append(out, baseline[cursor:]...)

	sort.Slice(out, func(i, j int) bool { return out[i].T < out[j].T })
	out = dedupFixes(out)

	return Result{Fixes: out, Markers: markers}
}

func dedupFixes(fixes []models.Fix) []models.Fix {
	seen := make(map[models.Fix]bool, len(fixes))
	out := make([]models.Fix, 0, len(fixes))
	for _, f := range fixes {
		if seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}
