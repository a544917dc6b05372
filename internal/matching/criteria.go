// internal/matching/criteria.go
package matching

import (
	"strings"

	"matching-workers/internal/models"
)

// Criteria is the normalized, directly comparable form of a search request.
// Zero-valued bounds with their Has flag unset mean the dimension is
// unconstrained.
type Criteria struct {
	Contract string
	Cities   map[string]struct{}
	Zones    map[string]struct{}

	PriceMin, PriceMax float64
	HasPriceMin        bool
	HasPriceMax        bool

	SqmMin, SqmMax float64
	HasSqmMin      bool
	HasSqmMax      bool

	RoomsMin, RoomsMax int
	HasRoomsMin        bool
	HasRoomsMax        bool

	Required []string

	MinCondition    string
	HasMinCondition bool
}

// Comparable is the normalized, scoreable view of a property.
type Comparable struct {
	ID        string
	City      string
	Zone      string
	Price     float64
	Sqm       float64
	Rooms     int
	Features  map[string]bool
	Condition string
}

// Feature flag keys shared by requests and properties.
const (
	featElevator = "elevator"
	featParking  = "parking"
	featGarage   = "garage"
	featGarden   = "garden"
	featTerrace  = "terrace"
	featBalcony  = "balcony"
)

var allFeatures = []string{featElevator, featParking, featGarage, featGarden, featTerrace, featBalcony}

func normalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func normalizeSet(in []string) map[string]struct{} {
	out := make(map[string]struct{}, len(in))
	for _, s := range in {
		t := normalizeToken(s)
		if t == "" {
			continue
		}
		out[t] = struct{}{}
	}
	return out
}

// NormalizeRequest extracts the comparable fields of a request. Malformed
// ranges (min > max) are clamped so the narrower bound wins; this is a
// defensive guard, range sanity is enforced at creation by the CRUD layer.
func NormalizeRequest(r models.SearchRequest) Criteria {
	c := Criteria{
		Contract: normalizeToken(r.Contract),
		Cities:   normalizeSet(r.Cities),
		Zones:    normalizeSet(r.Zones),
	}

	if r.PriceMin != nil && *r.PriceMin > 0 {
		c.PriceMin, c.HasPriceMin = *r.PriceMin, true
	}
	if r.PriceMax != nil && *r.PriceMax > 0 {
		c.PriceMax, c.HasPriceMax = *r.PriceMax, true
	}
	if c.HasPriceMin && c.HasPriceMax && c.PriceMin > c.PriceMax {
		c.PriceMax = c.PriceMin
	}

	if r.SqmMin != nil && *r.SqmMin > 0 {
		c.SqmMin, c.HasSqmMin = *r.SqmMin, true
	}
	if r.SqmMax != nil && *r.SqmMax > 0 {
		c.SqmMax, c.HasSqmMax = *r.SqmMax, true
	}
	if c.HasSqmMin && c.HasSqmMax && c.SqmMin > c.SqmMax {
		c.SqmMax = c.SqmMin
	}

	if r.RoomsMin != nil && *r.RoomsMin > 0 {
		c.RoomsMin, c.HasRoomsMin = *r.RoomsMin, true
	}
	if r.RoomsMax != nil && *r.RoomsMax > 0 {
		c.RoomsMax, c.HasRoomsMax = *r.RoomsMax, true
	}
	if c.HasRoomsMin && c.HasRoomsMax && c.RoomsMin > c.RoomsMax {
		c.RoomsMax = c.RoomsMin
	}

	for feat, required := range map[string]bool{
		featElevator: r.RequiresElevator,
		featParking:  r.RequiresParking,
		featGarage:   r.RequiresGarage,
		featGarden:   r.RequiresGarden,
		featTerrace:  r.RequiresTerrace,
		featBalcony:  r.RequiresBalcony,
	} {
		if required {
			c.Required = append(c.Required, feat)
		}
	}

	if cond := normalizeToken(r.MinCondition); cond != "" {
		if _, known := conditionOrder[cond]; known {
			c.MinCondition, c.HasMinCondition = cond, true
		}
	}

	return c
}

// NormalizeProperty extracts the comparable fields of a property for the
// given contract type.
func NormalizeProperty(p models.Property, contract string) Comparable {
	return Comparable{
		ID:    p.ID,
		City:  normalizeToken(p.City),
		Zone:  normalizeToken(p.Zone),
		Price: p.Price(normalizeToken(contract)),
		Sqm:   p.Sqm,
		Rooms: p.Rooms,
		Features: map[string]bool{
			featElevator: p.HasElevator,
			featParking:  p.HasParking,
			featGarage:   p.HasGarage,
			featGarden:   p.HasGarden,
			featTerrace:  p.HasTerrace,
			featBalcony:  p.HasBalcony,
		},
		Condition: normalizeToken(p.Condition),
	}
}
