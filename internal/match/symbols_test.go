package match

import "testing"

func TestFoundSymbolsDollar(t *testing.T) {
	found := FoundSymbols("Revenue grew to $1,200,000 last year", "", true, false)

	places, ok := found[SymbolDollar]
	if !ok {
		t.Fatalf("expected dollar match, got %v", found)
	}
	if len(places) != 1 || places[0] != LocationResume {
		t.Fatalf("expected pdf location, got %v", places)
	}
}

func TestFoundSymbolsPercentInAnswers(t *testing.T) {
	found := FoundSymbols("no numbers here", "Grew output 42% year over year", false, true)

	places, ok := found[SymbolPercent]
	if !ok {
		t.Fatalf("expected percent match, got %v", found)
	}
	if len(places) != 1 || places[0] != LocationAnswers {
		t.Fatalf("expected answers location, got %v", places)
	}
}

func TestFoundSymbolsBothSources(t *testing.T) {
	found := FoundSymbols("saved $500.25 in costs", "improved margins by $3,000", true, false)

	places := found[SymbolDollar]
	if len(places) != 2 {
		t.Fatalf("expected both sources, got %v", places)
	}
}

func TestFoundSymbolsRejectsBareSigns(t *testing.T) {
	found := FoundSymbols("paid in $ and took a % cut", "", true, true)

	if len(found) != 0 {
		t.Fatalf("expected bare signs not to match, got %v", found)
	}
}

func TestFoundSymbolsDisabledChecks(t *testing.T) {
	found := FoundSymbols("$100 and 50%", "", false, false)

	if len(found) != 0 {
		t.Fatalf("expected disabled checks to find nothing, got %v", found)
	}
}

func TestFoundSymbolsDecimalPercent(t *testing.T) {
	found := FoundSymbols("reduced error rate by 0.5%", "", false, true)

	if _, ok := found[SymbolPercent]; !ok {
		t.Fatalf("expected decimal percent match, got %v", found)
	}
}
