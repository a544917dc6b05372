// internal/matching/weights.go
package matching

import (
	"fmt"
	"math"

	"matching-workers/internal/models"
)

// Weights defines the contribution of each scored dimension to the total.
// The weight set is passed into the engine at construction so alternate sets
// can be exercised in tests without touching process-wide state.
type Weights struct {
	Location  float64 `json:"location" mapstructure:"location"`
	Price     float64 `json:"price" mapstructure:"price"`
	Size      float64 `json:"size" mapstructure:"size"`
	Features  float64 `json:"features" mapstructure:"features"`
	Condition float64 `json:"condition" mapstructure:"condition"`
}

// DefaultWeights returns the production weight vector.
func DefaultWeights() Weights {
	return Weights{
		Location:  0.30,
		Price:     0.25,
		Size:      0.20,
		Features:  0.15,
		Condition: 0.10,
	}
}

// Validate rejects weight sets that do not sum to 1.0 or carry negative
// components.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"location":  w.Location,
		"price":     w.Price,
		"size":      w.Size,
		"features":  w.Features,
		"condition": w.Condition,
	} {
		if v < 0 {
			return fmt.Errorf("weight %s must not be negative, got %v", name, v)
		}
	}
	sum := w.Location + w.Price + w.Size + w.Features + w.Condition
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("weights must sum to 1.0, got %v", sum)
	}
	return nil
}

// ConditionScale maps a condition rank to its raw score.
type ConditionScale map[string]float64

// DefaultConditionScale returns the fixed condition score table.
func DefaultConditionScale() ConditionScale {
	return ConditionScale{
		models.ConditionExcellent:       100,
		models.ConditionGood:            85,
		models.ConditionFair:            70,
		models.ConditionNeedsRenovation: 50,
		models.ConditionPoor:            30,
	}
}

// conditionOrder ranks conditions best (highest) to worst for minimum
// acceptable condition checks. Unknown conditions have no rank.
var conditionOrder = map[string]int{
	models.ConditionExcellent:       5,
	models.ConditionGood:            4,
	models.ConditionFair:            3,
	models.ConditionNeedsRenovation: 2,
	models.ConditionPoor:            1,
}
