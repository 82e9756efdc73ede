package entities

import "fmt"

// DemandOrder sets the demand of one product offering before a simulation
type DemandOrder struct {
	OfferingID EntityID
	Demand     float64
}

// NewDemandOrder creates a validated DemandOrder
func NewDemandOrder(offeringID EntityID, demand float64) (*DemandOrder, error) {
	if err := checkID(offeringID, ProductOfferingNode); err != nil {
		return nil, err
	}
	if demand < 0 {
		return nil, fmt.Errorf("order demand cannot be negative, got %v", demand)
	}
	return &DemandOrder{OfferingID: offeringID, Demand: demand}, nil
}
