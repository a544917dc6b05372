// internal/matching/scorers.go
package matching

import (
	"math"
	"time"
)

// Component scorers. Each is a pure function of the normalized criteria and
// property and returns a raw score in [0,100]. Missing or partial data
// degrades to 0 or a neutral value, never an error, so a ranking can still
// be produced across heterogeneous listings.

// scoreLocation: 100 on a city+zone match, 80 when the city matches but the
// zone constraint fails or the property has no zone, 0 otherwise. A request
// without cities is invalid upstream and scores 0 here.
func scoreLocation(c Criteria, p Comparable) float64 {
	if len(c.Cities) == 0 || p.City == "" {
		return 0
	}
	if _, ok := c.Cities[p.City]; !ok {
		return 0
	}
	if len(c.Zones) == 0 {
		return 100
	}
	if p.Zone != "" {
		if _, ok := c.Zones[p.Zone]; ok {
			return 100
		}
	}
	return 80
}

// scorePrice scores the contract-appropriate price against the requested
// range. Properties over budget are penalized twice as steeply as properties
// suspiciously far below it.
func scorePrice(c Criteria, p Comparable) float64 {
	if p.Price <= 0 {
		return 0
	}
	if !c.HasPriceMax {
		return 100
	}

	min := 0.0
	if c.HasPriceMin {
		min = c.PriceMin
	}
	max := c.PriceMax

	switch {
	case p.Price >= min && p.Price <= max:
		position := 1.0
		if max > min {
			position = (p.Price - min) / (max - min)
		}
		if position >= 0.5 {
			return 100
		}
		return 70 + position*60
	case p.Price < min:
		return math.Max(0, 60-((min-p.Price)/min)*100)
	default:
		return math.Max(0, 50-((p.Price-max)/max)*200)
	}
}

// scoreSurface scores the commercial surface area against the requested
// range. Missing bounds are treated as 0 and +inf; oversized listings are
// penalized gently.
func scoreSurface(c Criteria, p Comparable) float64 {
	if c.HasSqmMin && p.Sqm < c.SqmMin {
		return math.Max(0, 50-((c.SqmMin-p.Sqm)/c.SqmMin)*100)
	}
	if c.HasSqmMax && p.Sqm > c.SqmMax {
		return math.Max(0, 80-((p.Sqm-c.SqmMax)/c.SqmMax)*50)
	}
	return 100
}

// scoreRooms scores the room count with linear penalties: 15 points per
// missing room, 10 points per room over the maximum.
func scoreRooms(c Criteria, p Comparable) float64 {
	if c.HasRoomsMin && p.Rooms < c.RoomsMin {
		return clamp(100-15*float64(c.RoomsMin-p.Rooms), 0, 100)
	}
	if c.HasRoomsMax && p.Rooms > c.RoomsMax {
		return clamp(100-10*float64(p.Rooms-c.RoomsMax), 0, 100)
	}
	return 100
}

// scoreSize combines surface (0.6) and rooms (0.4) into one sub-score.
func scoreSize(c Criteria, p Comparable) float64 {
	return scoreSurface(c, p)*0.6 + scoreRooms(c, p)*0.4
}

// scoreFeatures gives exact proportional credit over the required flags, or
// rewards richer listings when nothing was required.
func scoreFeatures(c Criteria, p Comparable) float64 {
	if len(c.Required) > 0 {
		matched := 0
		for _, feat := range c.Required {
			if p.Features[feat] {
				matched++
			}
		}
		return float64(matched) / float64(len(c.Required)) * 100
	}

	present := 0
	for _, feat := range allFeatures {
		if p.Features[feat] {
			present++
		}
	}
	return math.Min(100, 60+6.67*float64(present))
}

// scoreCondition maps the condition rank through the fixed scale. A rank
// below the request's minimum acceptable condition caps the score at 40: a
// strong penalty, not a hard rejection. Unknown conditions default to 70 and
// are never treated as below the minimum.
func scoreCondition(c Criteria, p Comparable, scale ConditionScale) float64 {
	raw, known := scale[p.Condition]
	if !known {
		raw = 70
	}
	if c.HasMinCondition && known {
		if conditionOrder[p.Condition] < conditionOrder[c.MinCondition] {
			return math.Min(raw, 40)
		}
	}
	return raw
}

// scoreRecency buckets the days since the property's last recorded activity.
// It is reported for display alongside the breakdown but carries no weight
// in the total.
func scoreRecency(last time.Time, now time.Time) float64 {
	if last.IsZero() {
		return 50
	}
	days := math.Round(now.Sub(last).Hours() / 24.0)
	switch {
	case days <= 30:
		return 100
	case days <= 90:
		return 80
	case days <= 180:
		return 60
	case days <= 365:
		return 40
	default:
		return 20
	}
}

// RecencyScore exposes the recency bucket for telemetry and display.
func RecencyScore(last, now time.Time) float64 {
	return scoreRecency(last, now)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
