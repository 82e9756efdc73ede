package memory

import (
	"github.com/Surya-0/SCM-Builder/pkg/domain/entities"
	"github.com/Surya-0/SCM-Builder/pkg/domain/repositories"
)

// DemandRepository provides in-memory order storage
type DemandRepository struct {
	orders []entities.DemandOrder
}

// NewDemandRepository creates a new in-memory demand repository
func NewDemandRepository() *DemandRepository {
	return &DemandRepository{
		orders: []entities.DemandOrder{},
	}
}

// Verify interface compliance
var _ repositories.DemandRepository = (*DemandRepository)(nil)

// LoadDemands loads orders into the repository. A later order for the same
// offering replaces the earlier one.
func (r *DemandRepository) LoadDemands(orders []*entities.DemandOrder) error {
	for _, order := range orders {
		replaced := false
		for i := range r.orders {
			if r.orders[i].OfferingID == order.OfferingID {
				r.orders[i] = *order
				replaced = true
				break
			}
		}
		if !replaced {
			r.orders = append(r.orders, *order)
		}
	}
	return nil
}

// GetDemands returns all orders in load order
func (r *DemandRepository) GetDemands() ([]*entities.DemandOrder, error) {
	var orders []*entities.DemandOrder
	for i := range r.orders {
		orders = append(orders, &r.orders[i])
	}
	return orders, nil
}
