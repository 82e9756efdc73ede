package repositories

import "github.com/Surya-0/SCM-Builder/pkg/domain/entities"

// DemandRepository provides access to placed offering orders
type DemandRepository interface {
	GetDemands() ([]*entities.DemandOrder, error)
	LoadDemands(orders []*entities.DemandOrder) error
}
