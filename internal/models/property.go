// internal/models/property.go
package models

import "time"

// Condition ranks, best to worst. An empty string means unknown.
const (
	ConditionExcellent       = "excellent"
	ConditionGood            = "good"
	ConditionFair            = "fair"
	ConditionNeedsRenovation = "needs_renovation"
	ConditionPoor            = "poor"
)

// Activity entry types recorded against a property.
const (
	ActivityCall  = "call"
	ActivityVisit = "visit"
	ActivityEmail = "email"
)

// ActivityEntry is one agent touch on a property.
type ActivityEntry struct {
	Type string    `json:"type"`
	Date time.Time `json:"date"`
}

// Property is a listing as read from the storage layer. PriceSale and
// MonthlyRent are mutually relevant by contract type; zero means missing.
type Property struct {
	ID       string `json:"id"`
	City     string `json:"city"`
	Zone     string `json:"zone,omitempty"`
	Kind     string `json:"kind"`
	Contract string `json:"contract"`

	PriceSale   float64 `json:"priceSale,omitempty"`
	MonthlyRent float64 `json:"monthlyRent,omitempty"`
	Sqm         float64 `json:"sqm,omitempty"`
	Rooms       int     `json:"rooms,omitempty"`
	Bedrooms    int     `json:"bedrooms,omitempty"`

	HasElevator bool `json:"hasElevator,omitempty"`
	HasParking  bool `json:"hasParking,omitempty"`
	HasGarage   bool `json:"hasGarage,omitempty"`
	HasGarden   bool `json:"hasGarden,omitempty"`
	HasTerrace  bool `json:"hasTerrace,omitempty"`
	HasBalcony  bool `json:"hasBalcony,omitempty"`

	Condition string `json:"condition,omitempty"`

	Activity []ActivityEntry `json:"activity,omitempty"`
}

// Price returns the contract-appropriate price field, zero when missing.
func (p Property) Price(contract string) float64 {
	if contract == ContractRent {
		return p.MonthlyRent
	}
	return p.PriceSale
}
