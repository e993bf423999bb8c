package inventory

import (
	"bytes"
	"testing"
)

func coalPlant(location string) *Process {
	return &Process{
		ID:       "coal-" + location,
		Name:     "electricity production, hard coal",
		Product:  "electricity, high voltage",
		Location: location,
		Unit:     "kilowatt hour",
		Flows: []*Flow{
			{Kind: Production, Name: "electricity production, hard coal", Product: "electricity, high voltage", Location: location, Unit: "kilowatt hour", Amount: 1, ProductionVolume: 100},
			{Kind: Technosphere, Name: "market for hard coal", Product: "hard coal", Location: location, Unit: "kilogram", Amount: 0.4},
			{Kind: Biosphere, Name: "Carbon dioxide, fossil", Unit: "kilogram", Amount: 0.9, Compartments: []string{"air"}},
		},
	}
}

func TestSelect_Filters(t *testing.T) {
	db := NewDatabase(coalPlant("DE"), coalPlant("FR"))

	got := db.Select(NameContains("hard coal"), LocationEquals("DE"))
	if len(got) != 1 || got[0].Location != "DE" {
		t.Fatalf("expected one DE plant, got %d", len(got))
	}

	if got := db.Select(NameContainsAny("lignite", "hard coal")); len(got) != 2 {
		t.Fatalf("expected both plants, got %d", len(got))
	}

	if got := db.Select(NameNotContains("hard coal")); len(got) != 0 {
		t.Fatalf("expected no plants, got %d", len(got))
	}

	if got := db.Select(Either(LocationEquals("FR"), LocationEquals("CH"))); len(got) != 1 {
		t.Fatalf("expected the FR plant, got %d", len(got))
	}
}

func TestOne(t *testing.T) {
	db := NewDatabase(coalPlant("DE"), coalPlant("FR"))

	p, err := db.One(NameEquals("electricity production, hard coal"), LocationEquals("FR"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Location != "FR" {
		t.Fatalf("wrong process: %s", p.Location)
	}

	if _, err := db.One(NameEquals("electricity production, hard coal")); err == nil {
		t.Fatal("expected error on ambiguous match")
	}
	if _, err := db.One(NameEquals("no such process")); err == nil {
		t.Fatal("expected error on no match")
	}
}

func TestEmpty_KeepsProduction(t *testing.T) {
	p := coalPlant("DE")
	Empty(p)

	if len(p.Flows) != 1 {
		t.Fatalf("expected only the production flow, got %d flows", len(p.Flows))
	}
	if p.Flows[0].Kind != Production {
		t.Fatalf("kept flow is %s", p.Flows[0].Kind)
	}
}

func TestDuplicate_RelocatesReferences(t *testing.T) {
	p := coalPlant("DE")
	// self-consuming loop that must follow the new location
	p.Flows = append(p.Flows, &Flow{
		Kind: Technosphere, Name: p.Name, Product: p.Product,
		Location: "DE", Unit: "kilowatt hour", Amount: 0.02,
	})

	clone := Duplicate(p, "EUR", "new-id")

	if clone.ID != "new-id" || clone.Location != "EUR" {
		t.Fatalf("clone identity wrong: %s %s", clone.ID, clone.Location)
	}
	if clone.ReferenceFlow().Location != "EUR" {
		t.Fatal("production flow did not follow the new location")
	}
	var selfLoop *Flow
	for _, f := range clone.Flows {
		if f.Kind == Technosphere && f.Name == p.Name {
			selfLoop = f
		}
	}
	if selfLoop == nil || selfLoop.Location != "EUR" {
		t.Fatal("self-loop did not follow the new location")
	}
	// external input keeps its origin
	for _, f := range clone.Flows {
		if f.Name == "market for hard coal" && f.Location != "DE" {
			t.Fatalf("external input relocated to %s", f.Location)
		}
	}
	// mutation isolation
	clone.Flows[0].Amount = 5
	if p.Flows[0].Amount == 5 {
		t.Fatal("clone shares flow storage with the template")
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	db := NewDatabase(coalPlant("DE"))

	var buf bytes.Buffer
	if err := db.Save(&buf); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(&buf)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Len() != 1 {
		t.Fatalf("expected 1 process, got %d", loaded.Len())
	}
	p := loaded.All()[0]
	if p.Name != "electricity production, hard coal" || len(p.Flows) != 3 {
		t.Fatalf("round trip lost data: %q, %d flows", p.Name, len(p.Flows))
	}
}
