// internal/matching/engine.go
package matching

import (
	"math"

	"matching-workers/internal/models"
)

// Engine computes compatibility scores between search requests and property
// listings. It is stateless apart from its immutable configuration and safe
// for concurrent use.
type Engine struct {
	weights Weights
	scale   ConditionScale
}

// NewEngine builds an engine from an explicit weight set and condition
// scale. Returns an error when the weights do not form a valid vector.
func NewEngine(w Weights, scale ConditionScale) (*Engine, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if scale == nil {
		scale = DefaultConditionScale()
	}
	return &Engine{weights: w, scale: scale}, nil
}

// NewDefaultEngine builds an engine with the production configuration.
func NewDefaultEngine() *Engine {
	e, _ := NewEngine(DefaultWeights(), DefaultConditionScale())
	return e
}

// Score computes the breakdown for one request/property pair. Identical
// inputs always produce identical output: no clock, no randomness.
func (e *Engine) Score(req models.SearchRequest, prop models.Property) models.ScoreBreakdown {
	c := NormalizeRequest(req)
	p := NormalizeProperty(prop, req.Contract)
	return e.score(c, p)
}

func (e *Engine) score(c Criteria, p Comparable) models.ScoreBreakdown {
	location := roundHalfUp(scoreLocation(c, p))
	price := roundHalfUp(scorePrice(c, p))
	size := roundHalfUp(scoreSize(c, p))
	features := roundHalfUp(scoreFeatures(c, p))
	condition := roundHalfUp(scoreCondition(c, p, e.scale))

	total := roundHalfUp(
		float64(location)*e.weights.Location +
			float64(price)*e.weights.Price +
			float64(size)*e.weights.Size +
			float64(features)*e.weights.Features +
			float64(condition)*e.weights.Condition)

	return models.ScoreBreakdown{
		Total:     total,
		Location:  location,
		Price:     price,
		Size:      size,
		Features:  features,
		Condition: condition,
	}
}

// roundHalfUp rounds to the nearest integer with .5 going up, clamped to
// [0,100].
func roundHalfUp(v float64) int {
	r := int(math.Floor(v + 0.5))
	if r < 0 {
		return 0
	}
	if r > 100 {
		return 100
	}
	return r
}
