// internal/matching/rank.go
package matching

import (
	"runtime"
	"sort"
	"sync"

	"matching-workers/internal/models"
)

// RankedCandidate pairs a property with its breakdown in ranked order.
type RankedCandidate struct {
	Property models.Property       `json:"property"`
	Score    models.ScoreBreakdown `json:"score"`
}

// Rank scores every property against the request and returns them ordered
// best-first. Scoring is spread across a small worker pool since each pair
// is independent; results land by index so the output does not depend on
// worker count. Ties break by location, then price sub-score, then property
// id, so repeated runs over the same input give identical output.
func (e *Engine) Rank(req models.SearchRequest, props []models.Property) []RankedCandidate {
	out := make([]RankedCandidate, len(props))
	if len(props) == 0 {
		return out
	}

	c := NormalizeRequest(req)

	workers := runtime.GOMAXPROCS(0)
	if workers > len(props) {
		workers = len(props)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				p := NormalizeProperty(props[i], req.Contract)
				out[i] = RankedCandidate{
					Property: props[i],
					Score:    e.score(c, p),
				}
			}
		}()
	}
	for i := range props {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Score.Total != b.Score.Total {
			return a.Score.Total > b.Score.Total
		}
		if a.Score.Location != b.Score.Location {
			return a.Score.Location > b.Score.Location
		}
		if a.Score.Price != b.Score.Price {
			return a.Score.Price > b.Score.Price
		}
		return a.Property.ID < b.Property.ID
	})

	return out
}
