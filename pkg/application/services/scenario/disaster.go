package scenario

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DisasterKind selects the pool a disaster samples from and the attribute it changes
type DisasterKind string

const (
	// CostIncrease multiplies the cost of raw parts
	CostIncrease DisasterKind = "cost_increase"
	// DemandSurge multiplies the demand of product offerings
	DemandSurge DisasterKind = "demand_surge"
	// CapacityReduction divides the max capacity of facilities
	CapacityReduction DisasterKind = "capacity_reduction"
)

// DisasterKinds lists every supported kind
var DisasterKinds = []DisasterKind{CostIncrease, DemandSurge, CapacityReduction}

// ErrInvalidDisaster is returned for a disaster that cannot be applied
var ErrInvalidDisaster = errors.New("invalid disaster")

var validate = validator.New()

// Disaster is a parametrized perturbation of a simulation snapshot
type Disaster struct {
	Kind DisasterKind `json:"kind" validate:"required,oneof=cost_increase demand_surge capacity_reduction"`
	// ImpactFactor multiplies cost and demand, and divides capacity
	ImpactFactor float64 `json:"impact_factor" validate:"gt=0"`
	// Fraction of the pool that is affected
	Fraction float64 `json:"fraction" validate:"gt=0,lte=1"`
}

// ParseDisasterKind maps a name to a DisasterKind
func ParseDisasterKind(name string) (DisasterKind, error) {
	for _, k := range DisasterKinds {
		if strings.EqualFold(name, string(k)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidDisaster, name)
}

// Validate checks the disaster parameters
func (d Disaster) Validate() error {
	if err := validate.Struct(d); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			messages := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				messages = append(messages, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidDisaster, strings.Join(messages, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidDisaster, err)
	}
	return nil
}
