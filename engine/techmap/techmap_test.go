package techmap

import (
	"reflect"
	"testing"
)

const testRules = `
renewable_keywords: [solar, wind, hydro]
chp_ccs: ["gas chp ccs"]
duplicate: ["gas chp ccs", "oil"]
technologies:
  - name: coal
    process_names: ["electricity production, hard coal", "electricity production, lignite"]
    fuels: [hard coal]
  - name: gas chp ccs
    process_names: ["heat and power co-generation, natural gas, with CCS"]
    fuels: [natural gas]
  - name: gas
    process_names: ["electricity production, natural gas"]
    fuels: [natural gas]
  - name: wind onshore
    process_names: ["electricity production, wind, onshore"]
fuels:
  - name: hard coal
    lhv: 26.7
    names: [hard coal, coal briquettes]
  - name: natural gas
    lhv: 45.0
    names: [natural gas]
`

func testMap(t *testing.T) *TechMap {
	t.Helper()
	tm, err := Parse([]byte(testRules))
	if err != nil {
		t.Fatalf("parse rules: %v", err)
	}
	return tm
}

func TestTechnologies_RuleOrder(t *testing.T) {
	tm := testMap(t)
	want := []string{"coal", "gas chp ccs", "gas", "wind onshore"}
	if got := tm.Technologies(); !reflect.DeepEqual(got, want) {
		t.Fatalf("order = %v", got)
	}
}

func TestTechnologyOf_FirstMatchWins(t *testing.T) {
	tm := testMap(t)

	tech, ok := tm.TechnologyOf("electricity production, lignite, 500MW")
	if !ok || tech != "coal" {
		t.Fatalf("got %q, %v", tech, ok)
	}

	// the CCS rule is declared before the plain gas rule and both
	// substrings match, so the earlier rule wins
	tech, ok = tm.TechnologyOf("heat and power co-generation, natural gas, with CCS, 200kW")
	if !ok || tech != "gas chp ccs" {
		t.Fatalf("got %q, %v", tech, ok)
	}

	if _, ok := tm.TechnologyOf("treatment of municipal solid waste"); ok {
		t.Fatal("expected no match")
	}
}

func TestRenewableClassification(t *testing.T) {
	tm := testMap(t)
	if !tm.IsRenewable("wind onshore") {
		t.Fatal("wind onshore should be renewable")
	}
	if tm.IsRenewable("coal") || tm.IsRenewable("gas") {
		t.Fatal("fossil technologies flagged renewable")
	}
}

func TestFuels(t *testing.T) {
	tm := testMap(t)
	fuels := tm.Fuels("coal")
	if len(fuels) != 1 || fuels[0].LHV != 26.7 {
		t.Fatalf("coal fuels = %+v", fuels)
	}
	if len(tm.Fuels("wind onshore")) != 0 {
		t.Fatal("wind should have no fuels")
	}
}

func TestCHPCCSAndDuplicates(t *testing.T) {
	tm := testMap(t)
	if !tm.IsCHPCCS("gas chp ccs") || tm.IsCHPCCS("gas") {
		t.Fatal("chp ccs classification wrong")
	}
	if got := tm.DuplicateTechnologies(); !reflect.DeepEqual(got, []string{"gas chp ccs", "oil"}) {
		t.Fatalf("duplicates = %v", got)
	}
}

func TestParse_Errors(t *testing.T) {
	if _, err := Parse([]byte("technologies: []")); err == nil {
		t.Fatal("expected error for empty rule set")
	}
	bad := `
technologies:
  - name: coal
    process_names: [x]
    fuels: [missing fuel]
`
	if _, err := Parse([]byte(bad)); err == nil {
		t.Fatal("expected error for undeclared fuel")
	}
	dup := `
technologies:
  - name: coal
    process_names: [a]
  - name: coal
    process_names: [b]
`
	if _, err := Parse([]byte(dup)); err == nil {
		t.Fatal("expected error for duplicate rule")
	}
}

func TestDefaultRenewableKeywords(t *testing.T) {
	raw := `
technologies:
  - name: geothermal deep
    process_names: [x]
  - name: coal
    process_names: [y]
`
	tm, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !tm.IsRenewable("geothermal deep") || tm.IsRenewable("coal") {
		t.Fatal("default keywords not applied")
	}
}
