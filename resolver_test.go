package main

import "testing"

func TestResolveSpecialistExactMatchCaseInsensitive(t *testing.T) {
	match, found := ResolveSpecialist("soporte", "acceso", "ti", sampleRules())
	if !found {
		t.Fatal("expected exact match")
	}
	if match.SpecialistName != "Ana Torres" {
		t.Fatalf("specialist = %q, want Ana Torres", match.SpecialistName)
	}
	if match.SpecialistDNI != "22222222" {
		t.Fatalf("specialist DNI = %q, want 22222222", match.SpecialistDNI)
	}
}

func TestResolveSpecialistPartialFallback(t *testing.T) {
	// No exact row matches; the input contains the table values as
	// substrings, so the containment pass should still resolve.
	match, found := ResolveSpecialist("soporte técnico", "problema de acceso", "ti", sampleRules())
	if !found {
		t.Fatal("expected containment fallback to match")
	}
	if match.SpecialistName != "Ana Torres" {
		t.Fatalf("specialist = %q, want Ana Torres", match.SpecialistName)
	}
}

func TestResolveSpecialistFallbackDirectionIsInputContainsRow(t *testing.T) {
	rules := []Record{
		{
			colCategory:       "Soporte Técnico Integral",
			colSubRequirement: "Problemas de Acceso a Plataforma",
			colTeam:           "TI",
			colSpecialistName: "Ana Torres",
		},
	}

	// The row values contain the inputs, not the other way around; the
	// fallback must NOT match in that direction.
	if _, found := ResolveSpecialist("soporte", "acceso", "ti", rules); found {
		t.Fatal("expected no match when only row-contains-input holds")
	}
}

func TestResolveSpecialistFallbackIgnoresTeam(t *testing.T) {
	match, found := ResolveSpecialist("soporte técnico", "problema de acceso", "otro equipo", sampleRules())
	if !found {
		t.Fatal("expected fallback to ignore team mismatch")
	}
	if match.SpecialistName != "Ana Torres" {
		t.Fatalf("specialist = %q, want Ana Torres", match.SpecialistName)
	}
}

func TestResolveSpecialistFirstMatchWins(t *testing.T) {
	rules := []Record{
		{colCategory: "Soporte", colSubRequirement: "Acceso", colTeam: "TI", colSpecialistName: "Primero"},
		{colCategory: "Soporte", colSubRequirement: "Acceso", colTeam: "TI", colSpecialistName: "Segundo"},
	}

	match, found := ResolveSpecialist("Soporte", "Acceso", "TI", rules)
	if !found {
		t.Fatal("expected a match")
	}
	if match.SpecialistName != "Primero" {
		t.Fatalf("specialist = %q, want first row in table order", match.SpecialistName)
	}
}

func TestResolveSpecialistSkipsEmptyRowsInFallback(t *testing.T) {
	rules := []Record{
		{colCategory: "", colSubRequirement: "", colTeam: "", colSpecialistName: "Fantasma"},
	}

	if _, found := ResolveSpecialist("soporte técnico", "acceso", "ti", rules); found {
		t.Fatal("empty rule rows must not match everything via containment")
	}
}

func TestResolveSpecialistNotFound(t *testing.T) {
	if _, found := ResolveSpecialist("facturación", "pagos", "finanzas", sampleRules()); found {
		t.Fatal("expected NotFound for unrelated inputs")
	}
}
