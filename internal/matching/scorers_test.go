// internal/matching/scorers_test.go
package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func criteriaWithCities(cities ...string) Criteria {
	return Criteria{Cities: normalizeSet(cities)}
}

func TestScoreLocation(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		prop     Comparable
		expected float64
	}{
		{
			name:     "city and zone match",
			criteria: Criteria{Cities: normalizeSet([]string{"milano"}), Zones: normalizeSet([]string{"centro"})},
			prop:     Comparable{City: "milano", Zone: "centro"},
			expected: 100,
		},
		{
			name:     "city matches but zone does not",
			criteria: Criteria{Cities: normalizeSet([]string{"milano"}), Zones: normalizeSet([]string{"centro"})},
			prop:     Comparable{City: "milano", Zone: "navigli"},
			expected: 80,
		},
		{
			name:     "city matches and property has no zone",
			criteria: Criteria{Cities: normalizeSet([]string{"milano"}), Zones: normalizeSet([]string{"centro"})},
			prop:     Comparable{City: "milano"},
			expected: 80,
		},
		{
			name:     "city matches with no zone constraint",
			criteria: criteriaWithCities("milano"),
			prop:     Comparable{City: "milano", Zone: "navigli"},
			expected: 100,
		},
		{
			name:     "city mismatch",
			criteria: criteriaWithCities("milano"),
			prop:     Comparable{City: "torino"},
			expected: 0,
		},
		{
			name:     "request without cities",
			criteria: Criteria{},
			prop:     Comparable{City: "milano"},
			expected: 0,
		},
		{
			name:     "property without city",
			criteria: criteriaWithCities("milano"),
			prop:     Comparable{},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, scoreLocation(tt.criteria, tt.prop))
		})
	}
}

func TestScorePrice(t *testing.T) {
	inRange := Criteria{
		PriceMin: 100000, HasPriceMin: true,
		PriceMax: 200000, HasPriceMax: true,
	}

	tests := []struct {
		name     string
		criteria Criteria
		price    float64
		expected float64
	}{
		{"missing price scores zero", inRange, 0, 0},
		{"no budget cap is a free pass", Criteria{}, 750000, 100},
		{"upper half of the range is a perfect fit", inRange, 160000, 100},
		{"lower half of the range scales up from 70", inRange, 120000, 82},
		{"below the minimum looks suspicious", inRange, 80000, 40},
		{"over budget is penalized twice as steeply", inRange, 220000, 30},
		{"far over budget bottoms out", inRange, 320000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, scorePrice(tt.criteria, Comparable{Price: tt.price}), 0.001)
		})
	}
}

func TestScorePrice_DegenerateRange(t *testing.T) {
	// min == max: any in-range price counts as position 1.0.
	c := Criteria{
		PriceMin: 150000, HasPriceMin: true,
		PriceMax: 150000, HasPriceMax: true,
	}
	assert.InDelta(t, 100.0, scorePrice(c, Comparable{Price: 150000}), 0.001)
}

func TestScoreSize(t *testing.T) {
	t.Run("unconstrained size is perfect", func(t *testing.T) {
		assert.InDelta(t, 100.0, scoreSize(Criteria{}, Comparable{Sqm: 75, Rooms: 2}), 0.001)
	})

	t.Run("undersized surface", func(t *testing.T) {
		c := Criteria{SqmMin: 100, HasSqmMin: true}
		// surface: 50 - 20% * 100 = 30; rooms unconstrained: 100
		assert.InDelta(t, 30*0.6+100*0.4, scoreSize(c, Comparable{Sqm: 80}), 0.001)
	})

	t.Run("oversized surface is penalized gently", func(t *testing.T) {
		c := Criteria{SqmMax: 100, HasSqmMax: true}
		// surface: 80 - 20% * 50 = 70
		assert.InDelta(t, 70*0.6+100*0.4, scoreSize(c, Comparable{Sqm: 120}), 0.001)
	})

	t.Run("missing rooms cost 15 points each", func(t *testing.T) {
		c := Criteria{RoomsMin: 3, HasRoomsMin: true}
		assert.InDelta(t, 100*0.6+85*0.4, scoreSize(c, Comparable{Sqm: 90, Rooms: 2}), 0.001)
		assert.InDelta(t, 100*0.6+70*0.4, scoreSize(c, Comparable{Sqm: 90, Rooms: 1}), 0.001)
	})

	t.Run("extra rooms cost 10 points each", func(t *testing.T) {
		c := Criteria{RoomsMax: 3, HasRoomsMax: true}
		assert.InDelta(t, 100*0.6+80*0.4, scoreSize(c, Comparable{Sqm: 90, Rooms: 5}), 0.001)
	})
}

func TestScoreFeatures(t *testing.T) {
	t.Run("proportional credit over required flags", func(t *testing.T) {
		c := Criteria{Required: []string{featElevator, featGarden}}
		p := Comparable{Features: map[string]bool{featElevator: true}}
		assert.InDelta(t, 50.0, scoreFeatures(c, p), 0.001)
	})

	t.Run("all required present", func(t *testing.T) {
		c := Criteria{Required: []string{featElevator, featGarden}}
		p := Comparable{Features: map[string]bool{featElevator: true, featGarden: true}}
		assert.InDelta(t, 100.0, scoreFeatures(c, p), 0.001)
	})

	t.Run("nothing required rewards richer listings", func(t *testing.T) {
		p := Comparable{Features: map[string]bool{featElevator: true, featTerrace: true, featBalcony: true}}
		assert.InDelta(t, 60+6.67*3, scoreFeatures(Criteria{}, p), 0.001)
	})

	t.Run("nothing required caps at 100", func(t *testing.T) {
		all := map[string]bool{}
		for _, f := range allFeatures {
			all[f] = true
		}
		assert.InDelta(t, 100.0, scoreFeatures(Criteria{}, Comparable{Features: all}), 0.001)
	})
}

func TestScoreCondition(t *testing.T) {
	scale := DefaultConditionScale()

	t.Run("scale lookup without a minimum", func(t *testing.T) {
		assert.InDelta(t, 85.0, scoreCondition(Criteria{}, Comparable{Condition: "good"}, scale), 0.001)
	})

	t.Run("below the minimum caps at 40", func(t *testing.T) {
		c := Criteria{MinCondition: "good", HasMinCondition: true}
		assert.InDelta(t, 40.0, scoreCondition(c, Comparable{Condition: "fair"}, scale), 0.001)
	})

	t.Run("well below the minimum keeps the lower raw score", func(t *testing.T) {
		c := Criteria{MinCondition: "good", HasMinCondition: true}
		assert.InDelta(t, 30.0, scoreCondition(c, Comparable{Condition: "poor"}, scale), 0.001)
	})

	t.Run("unknown condition is neutral and never capped", func(t *testing.T) {
		c := Criteria{MinCondition: "good", HasMinCondition: true}
		assert.InDelta(t, 70.0, scoreCondition(c, Comparable{}, scale), 0.001)
	})
}

func TestScoreRecency(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		daysAgo  int
		expected float64
	}{
		{"within a month", 10, 100},
		{"within a quarter", 60, 80},
		{"within six months", 120, 60},
		{"within a year", 300, 40},
		{"older than a year", 400, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			last := now.AddDate(0, 0, -tt.daysAgo)
			assert.InDelta(t, tt.expected, scoreRecency(last, now), 0.001)
		})
	}

	t.Run("no recorded activity is neutral", func(t *testing.T) {
		assert.InDelta(t, 50.0, scoreRecency(time.Time{}, now), 0.001)
	})
}
