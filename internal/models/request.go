// internal/models/request.go
package models

// Contract types supported by search requests and listings.
const (
	ContractSale = "sale"
	ContractRent = "rent"
)

// SearchRequest is a client's standing search criteria. Nil pointer fields
// mean the dimension is unconstrained.
type SearchRequest struct {
	ID       string   `json:"id"`
	Contract string   `json:"contract"`
	Cities   []string `json:"cities"`
	Zones    []string `json:"zones,omitempty"`
	Kinds    []string `json:"propertyKinds,omitempty"`

	PriceMin *float64 `json:"priceMin,omitempty"`
	PriceMax *float64 `json:"priceMax,omitempty"`
	SqmMin   *float64 `json:"sqmMin,omitempty"`
	SqmMax   *float64 `json:"sqmMax,omitempty"`
	RoomsMin *int     `json:"roomsMin,omitempty"`
	RoomsMax *int     `json:"roomsMax,omitempty"`

	BedroomsMin *int `json:"bedroomsMin,omitempty"`

	RequiresElevator bool `json:"requiresElevator,omitempty"`
	RequiresParking  bool `json:"requiresParking,omitempty"`
	RequiresGarage   bool `json:"requiresGarage,omitempty"`
	RequiresGarden   bool `json:"requiresGarden,omitempty"`
	RequiresTerrace  bool `json:"requiresTerrace,omitempty"`
	RequiresBalcony  bool `json:"requiresBalcony,omitempty"`

	// MinCondition is the lowest acceptable condition rank, empty when the
	// client does not care.
	MinCondition string `json:"minCondition,omitempty"`
}
