// Package techmap holds the declarative classification tables linking IAM
// technology labels to inventory process names and fuel categories. The
// tables are loaded once from YAML and are immutable afterwards; ambiguity is
// resolved first-match-wins over the declared rule order.
package techmap

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Fuel describes a fuel category: the substrings identifying its supplying
// flows and its lower heating value in MJ per native unit.
type Fuel struct {
	Name  string   `yaml:"name"`
	LHV   float64  `yaml:"lhv"`
	Names []string `yaml:"names"`
}

// technology is one ordered classification rule.
type technology struct {
	Name         string   `yaml:"name"`
	ProcessNames []string `yaml:"process_names"`
	Fuels        []string `yaml:"fuels"`
}

type rules struct {
	RenewableKeywords []string     `yaml:"renewable_keywords"`
	CHPCCS            []string     `yaml:"chp_ccs"`
	Duplicate         []string     `yaml:"duplicate"`
	Technologies      []technology `yaml:"technologies"`
	Fuels             []Fuel       `yaml:"fuels"`
}

// defaultRenewableKeywords classify a technology label as renewable when no
// explicit list is configured.
var defaultRenewableKeywords = []string{
	"solar", "wind", "geothermal", "hydro", "biomass", "biogas", "wave",
}

// TechMap is the immutable classification table set.
type TechMap struct {
	order        []string
	processNames map[string][]string
	fuelsByTech  map[string][]Fuel
	renewable    map[string]bool
	chpCCS       map[string]bool
	duplicate    []string
}

// Parse builds a TechMap from YAML rule tables.
func Parse(raw []byte) (*TechMap, error) {
	var r rules
	if err := yaml.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("techmap: parse rules: %w", err)
	}
	if len(r.Technologies) == 0 {
		return nil, fmt.Errorf("techmap: no technology rules declared")
	}

	keywords := r.RenewableKeywords
	if len(keywords) == 0 {
		keywords = defaultRenewableKeywords
	}

	fuelByName := make(map[string]Fuel, len(r.Fuels))
	for _, f := range r.Fuels {
		fuelByName[f.Name] = f
	}

	tm := &TechMap{
		processNames: make(map[string][]string, len(r.Technologies)),
		fuelsByTech:  make(map[string][]Fuel, len(r.Technologies)),
		renewable:    make(map[string]bool, len(r.Technologies)),
		chpCCS:       make(map[string]bool, len(r.CHPCCS)),
		duplicate:    r.Duplicate,
	}
	for _, t := range r.Technologies {
		if _, dup := tm.processNames[t.Name]; dup {
			return nil, fmt.Errorf("techmap: duplicate technology rule %q", t.Name)
		}
		tm.order = append(tm.order, t.Name)
		tm.processNames[t.Name] = t.ProcessNames
		for _, fuelName := range t.Fuels {
			fuel, ok := fuelByName[fuelName]
			if !ok {
				return nil, fmt.Errorf("techmap: technology %q references undeclared fuel %q", t.Name, fuelName)
			}
			tm.fuelsByTech[t.Name] = append(tm.fuelsByTech[t.Name], fuel)
		}
		lower := strings.ToLower(t.Name)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				tm.renewable[t.Name] = true
				break
			}
		}
	}
	for _, name := range r.CHPCCS {
		tm.chpCCS[name] = true
	}
	return tm, nil
}

// LoadFile builds a TechMap from a YAML rule file.
func LoadFile(path string) (*TechMap, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("techmap: read %s: %w", path, err)
	}
	return Parse(raw)
}

// Technologies returns the technology labels in rule order.
func (tm *TechMap) Technologies() []string { return tm.order }

// ProcessNames returns the accepted inventory process names for a technology.
func (tm *TechMap) ProcessNames(tech string) []string { return tm.processNames[tech] }

// Known reports whether a technology label has a classification rule.
func (tm *TechMap) Known(tech string) bool {
	_, ok := tm.processNames[tech]
	return ok
}

// TechnologyOf returns the first technology, in rule order, whose accepted
// process names match the given process name.
func (tm *TechMap) TechnologyOf(processName string) (string, bool) {
	for _, tech := range tm.order {
		for _, accepted := range tm.processNames[tech] {
			if strings.Contains(processName, accepted) {
				return tech, true
			}
		}
	}
	return "", false
}

// Fuels returns the fuel categories feeding a technology.
func (tm *TechMap) Fuels(tech string) []Fuel { return tm.fuelsByTech[tech] }

// IsRenewable reports whether a technology counts toward the renewable share.
func (tm *TechMap) IsRenewable(tech string) bool { return tm.renewable[tech] }

// IsCHPCCS reports whether a technology is combined-heat-and-power with
// carbon capture, whose duplicates need their capture quantities re-derived.
func (tm *TechMap) IsCHPCCS(tech string) bool { return tm.chpCCS[tech] }

// DuplicateTechnologies returns the technologies whose narrowly-located
// template plants are cloned into every consuming region.
func (tm *TechMap) DuplicateTechnologies() []string { return tm.duplicate }
