// Package catalog supplies the static universe of tradable instruments.
// The catalog is loaded once at process start and never mutated afterwards.
package catalog

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/akashsuryawanshi04/invest-simulator/internal/domain"
)

// Catalog is an immutable set of instruments with ID lookup.
type Catalog struct {
	instruments []domain.Instrument
	byID        map[string]domain.Instrument
}

// New builds a catalog, validating that instrument IDs are unique and
// reference prices are positive.
func New(instruments []domain.Instrument) (*Catalog, error) {
	byID := make(map[string]domain.Instrument, len(instruments))
	for _, inst := range instruments {
		if inst.ID == "" {
			return nil, errors.Errorf("instrument %q has no id", inst.Symbol)
		}
		if _, ok := byID[inst.ID]; ok {
			return nil, errors.Errorf("duplicate instrument id %q", inst.ID)
		}
		if !inst.Class.IsValid() {
			return nil, errors.Errorf("instrument %q has invalid asset class %q", inst.ID, inst.Class)
		}
		if !inst.ReferencePrice.IsPositive() {
			return nil, errors.Errorf("instrument %q has non-positive reference price %s", inst.ID, inst.ReferencePrice)
		}
		byID[inst.ID] = inst
	}

	list := make([]domain.Instrument, len(instruments))
	copy(list, instruments)

	return &Catalog{instruments: list, byID: byID}, nil
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read catalog file")
	}

	var instruments []domain.Instrument
	if err := yaml.Unmarshal(payload, &instruments); err != nil {
		return nil, errors.Wrap(err, "decode catalog file")
	}

	return New(instruments)
}

// List returns all instruments in catalog order.
func (c *Catalog) List() []domain.Instrument {
	list := make([]domain.Instrument, len(c.instruments))
	copy(list, c.instruments)
	return list
}

// Get returns the instrument with the given ID.
func (c *Catalog) Get(id string) (domain.Instrument, bool) {
	inst, ok := c.byID[id]
	return inst, ok
}

// Len returns the number of instruments.
func (c *Catalog) Len() int {
	return len(c.instruments)
}
