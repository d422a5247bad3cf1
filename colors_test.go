package chartlib

import "testing"

func TestAssignColors_TotalAndInjective(t *testing.T) {
	groups := []string{"a", "b", "c", "d"}
	got, err := assignColors(groups, nil, "")
	if err != nil {
		t.Fatalf("assignColors: %v", err)
	}
	seen := map[string]string{}
	for _, g := range groups {
		color, ok := got[g]
		if !ok {
			t.Fatalf("group %q unassigned", g)
		}
		if prev, dup := seen[color]; dup {
			t.Fatalf("color %q assigned to both %q and %q", color, prev, g)
		}
		seen[color] = g
	}
}

func TestAssignColors_PartialAgreementAndSkip(t *testing.T) {
	partial := map[string]string{"b": ColorScheme[0]}
	got, err := assignColors([]string{"a", "b", "c"}, partial, "")
	if err != nil {
		t.Fatalf("assignColors: %v", err)
	}
	if got["b"] != ColorScheme[0] {
		t.Fatalf("partial mapping not preserved: %q", got["b"])
	}
	// "a" must skip the color "b" already holds, by value.
	if got["a"] != ColorScheme[1] {
		t.Fatalf("expected first free palette entry for a, got %q", got["a"])
	}
	if got["c"] != ColorScheme[2] {
		t.Fatalf("expected forward cursor for c, got %q", got["c"])
	}
}

func TestAssignColors_Deterministic(t *testing.T) {
	groups := []string{"x", "y", "z", "w"}
	partial := map[string]string{"z": "teal"}
	first, err := assignColors(groups, partial, "")
	if err != nil {
		t.Fatalf("assignColors: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := assignColors(groups, partial, "")
		if err != nil {
			t.Fatalf("assignColors: %v", err)
		}
		for g, c := range first {
			if again[g] != c {
				t.Fatalf("run %d: group %q got %q, want %q", i, g, again[g], c)
			}
		}
	}
}

func TestAssignColors_DefaultColor(t *testing.T) {
	got, err := assignColors([]string{"a", "b"}, map[string]string{"a": "black"}, "gray")
	if err != nil {
		t.Fatalf("assignColors: %v", err)
	}
	if got["b"] != "gray" {
		t.Fatalf("expected default color for unmapped group, got %q", got["b"])
	}
}

func TestAssignColors_Exhaustion(t *testing.T) {
	var groups []string
	for i := 0; i < len(ColorScheme)+1; i++ {
		groups = append(groups, string(rune('A'+i/26))+string(rune('a'+i%26)))
	}
	_, err := assignColors(groups, nil, "")
	iss, ok := AsIssues(err)
	if !ok || iss[0].Code != CodePaletteExhausted {
		t.Fatalf("expected palette exhaustion, got %v", err)
	}
}
