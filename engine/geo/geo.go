// Package geo maps IAM scenario regions onto native inventory locations and
// provides the ordered fallback chain used during supplier resolution.
package geo

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Fallback scopes appended after a region's own locations when looking for
// suppliers: European average, rest-of-world, and finally Switzerland, which
// hosts most imported inventories.
var fallbackScopes = [][]string{{"RER"}, {"RoW"}, {"CH"}}

// Geomap resolves IAM regions to native inventory locations and back.
type Geomap struct {
	toNative map[string][]string
	toRegion map[string]string
	regions  []string
}

// New builds a Geomap from a region → locations table.
func New(table map[string][]string) (*Geomap, error) {
	g := &Geomap{
		toNative: make(map[string][]string, len(table)),
		toRegion: make(map[string]string),
	}
	for region, locs := range table {
		if len(locs) == 0 {
			return nil, fmt.Errorf("geo: region %s maps to no native location", region)
		}
		g.toNative[region] = locs
		g.regions = append(g.regions, region)
		for _, loc := range locs {
			g.toRegion[loc] = region
		}
	}
	sort.Strings(g.regions)
	return g, nil
}

// LoadFile builds a Geomap from a YAML file of the form region: [locations].
func LoadFile(path string) (*Geomap, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("geo: read %s: %w", path, err)
	}
	var table map[string][]string
	if err := yaml.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("geo: parse %s: %w", path, err)
	}
	return New(table)
}

// Regions returns all declared IAM regions in stable order.
func (g *Geomap) Regions() []string { return g.regions }

// NativeLocations returns the ordered native locations contained in a region.
func (g *Geomap) NativeLocations(region string) ([]string, error) {
	locs, ok := g.toNative[region]
	if !ok {
		return nil, fmt.Errorf("geo: unknown region %s", region)
	}
	return locs, nil
}

// RegionOf returns the IAM region containing a native location. Locations
// that belong to no declared region fall back to the location itself, so an
// already-regionalized process keeps its scope.
func (g *Geomap) RegionOf(location string) string {
	if region, ok := g.toRegion[location]; ok {
		return region
	}
	if _, ok := g.toNative[location]; ok {
		return location
	}
	return location
}

// FallbackChain returns the ordered location scopes to try when resolving
// suppliers for a region: the region itself, its native locations, then the
// widening fallback scopes.
func (g *Geomap) FallbackChain(region string) [][]string {
	chain := [][]string{{region}}
	if locs, ok := g.toNative[region]; ok {
		chain = append(chain, locs)
	}
	return append(chain, fallbackScopes...)
}
