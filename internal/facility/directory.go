// Package facility holds the static storage facility directory. Available
// capacity is read-only inside the decision engine: computing a recommendation
// never reserves space.
package facility

import "mandimitra/internal/pkg/geo"

// Type is the storage technology of a facility.
type Type string

const (
	TypeOpen                 Type = "open"
	TypeCold                 Type = "cold"
	TypeControlledAtmosphere Type = "controlled_atmosphere"
)

// Facility is one entry in the directory.
type Facility struct {
	ID             string    `yaml:"id" json:"id"`
	Name           string    `yaml:"name" json:"name"`
	Type           Type      `yaml:"type" json:"type"`
	Location       geo.Point `yaml:"location" json:"location"`
	District       string    `yaml:"district" json:"district"`
	CapacityKg     float64   `yaml:"capacity_kg" json:"capacity_kg"`
	AvailableKg    float64   `yaml:"available_kg" json:"available_kg"`
	DailyCostPerKg float64   `yaml:"daily_cost_per_kg" json:"daily_cost_per_kg"`
	Available      bool      `yaml:"available" json:"available"`
}

// Directory is a read-only facility listing.
type Directory interface {
	List() []Facility
}

// StaticDirectory serves a fixed facility slice.
type StaticDirectory struct {
	facilities []Facility
}

var _ Directory = (*StaticDirectory)(nil)

// NewStaticDirectory copies the given facilities into a directory.
func NewStaticDirectory(facilities []Facility) *StaticDirectory {
	return &StaticDirectory{facilities: append([]Facility(nil), facilities...)}
}

// List returns a copy of the directory contents.
func (d *StaticDirectory) List() []Facility {
	out := make([]Facility, len(d.facilities))
	copy(out, d.facilities)
	return out
}
