package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned when a configuration cannot produce a consistent network
var ErrInvalid = errors.New("invalid configuration")

var validate = validator.New()

const ratioTolerance = 1e-6

// LoadFromPath reads a YAML file on top of the built-in defaults and validates the result.
// Keys missing from the file keep their default values.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration as YAML
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks struct constraints and the cross-field ratio rules
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			messages := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				messages = append(messages, fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(messages, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	r := c.Ratios
	sums := []struct {
		name  string
		total float64
	}{
		{"node ratios", r.Parts + r.Suppliers + r.Warehouses + r.Facilities},
		{"part ratios", r.RawParts + r.SubassemblyParts},
		{"supplier size ratios", r.SmallSuppliers + r.MediumSuppliers + r.LargeSuppliers},
		{"warehouse type ratios", r.SupplierWarehouses + r.SubassemblyWarehouses + r.LamWarehouses},
		{"facility type ratios", r.ExternalFacilities + r.LamFacilities},
	}
	for _, s := range sums {
		if math.Abs(s.total-1) > ratioTolerance {
			return fmt.Errorf("%w: %s must sum to 1, got %.4f", ErrInvalid, s.name, s.total)
		}
	}

	if c.Ranges.Reliability.Max > 1 {
		return fmt.Errorf("%w: reliability range must stay within [0,1]", ErrInvalid)
	}

	seen := make(map[string]string)
	for _, family := range c.Catalog.ProductFamilies {
		for _, offering := range family.Offerings {
			if owner, exists := seen[offering]; exists {
				return fmt.Errorf("%w: offering %q listed under both %s and %s", ErrInvalid, offering, owner, family.Name)
			}
			seen[offering] = family.Name
		}
	}

	return nil
}
