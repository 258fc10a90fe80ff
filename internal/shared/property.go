package shared

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// RoomTypeSpec describes one sellable room category.
type RoomTypeSpec struct {
	Features     string `toml:"features"`
	MaxOccupancy int    `toml:"max_occupancy"`
}

// Property is the hotel profile the receptionist answers from. It ships with
// defaults and can be overridden by a TOML file (PROPERTY_CONFIG).
type Property struct {
	Name      string                  `toml:"name"`
	Address   string                  `toml:"address"`
	Phone     string                  `toml:"phone"`
	CheckIn   string                  `toml:"check_in"`
	CheckOut  string                  `toml:"check_out"`
	RoomTypes map[string]RoomTypeSpec `toml:"room_types"`
}

func DefaultProperty() Property {
	return Property{
		Name:     "our hotel",
		CheckIn:  "3:00 PM",
		CheckOut: "11:00 AM",
		RoomTypes: map[string]RoomTypeSpec{
			"Single": {Features: "One queen bed, workspace", MaxOccupancy: 1},
			"Double": {Features: "Two queen beds, workspace", MaxOccupancy: 2},
			"Suite":  {Features: "King bed, living area, mini bar, workspace", MaxOccupancy: 4},
		},
	}
}

// LoadProperty overlays the TOML file at path on the defaults. An empty path
// returns the defaults unchanged.
func LoadProperty(path string) (Property, error) {
	p := DefaultProperty()
	if path == "" {
		return p, nil
	}
	if _, err := toml.DecodeFile(path, &p); err != nil {
		return Property{}, fmt.Errorf("load property config %s: %w", path, err)
	}
	if len(p.RoomTypes) == 0 {
		return Property{}, fmt.Errorf("property config %s: no room types defined", path)
	}
	return p, nil
}

// CanonicalType resolves a guest-typed room type ("suite", "SUITE") to its
// catalog key. The bool reports whether the type exists.
func (p Property) CanonicalType(s string) (string, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	for k := range p.RoomTypes {
		if strings.ToLower(k) == s {
			return k, true
		}
	}
	return "", false
}

// TypeSpec returns the catalog entry for a canonical type name.
func (p Property) TypeSpec(t string) (RoomTypeSpec, bool) {
	spec, ok := p.RoomTypes[t]
	return spec, ok
}

// TypeNames returns the catalog types in a stable order for prompts like
// "(Single, Double, or Suite)".
func (p Property) TypeNames() []string {
	names := make([]string, 0, len(p.RoomTypes))
	for k := range p.RoomTypes {
		names = append(names, k)
	}
	// cheapest categories usually sleep fewer guests; order by occupancy, then name
	sort.Slice(names, func(i, j int) bool {
		a, b := p.RoomTypes[names[i]], p.RoomTypes[names[j]]
		if a.MaxOccupancy != b.MaxOccupancy {
			return a.MaxOccupancy < b.MaxOccupancy
		}
		return names[i] < names[j]
	})
	return names
}
