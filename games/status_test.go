package games

import "testing"

func TestParseStatusNormalizesCase(t *testing.T) {
	cases := map[string]MatchStatus{
		"WON":     StatusWon,
		"Won":     StatusWon,
		"win":     StatusWon,
		"lost":    StatusLost,
		"LOSE":    StatusLost,
		"Loss":    StatusLost,
		"pending": StatusPending,
		"PENDING": StatusPending,
		"":        StatusPending,
		"  won ":  StatusWon,
		"garbage": StatusPending,
	}
	for raw, want := range cases {
		if got := ParseStatus(raw); got != want {
			t.Fatalf("ParseStatus(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestCompleted(t *testing.T) {
	if StatusPending.Completed() {
		t.Fatal("pending must not be completed")
	}
	if !StatusWon.Completed() || !StatusLost.Completed() {
		t.Fatal("settled statuses must be completed")
	}
}

func TestTransitionsAreOneWay(t *testing.T) {
	if !CanTransition(StatusPending, StatusWon) || !CanTransition(StatusPending, StatusLost) {
		t.Fatal("pending must settle either way")
	}
	if CanTransition(StatusWon, StatusPending) || CanTransition(StatusLost, StatusWon) {
		t.Fatal("settled games never change")
	}
	if !CanTransition(StatusWon, StatusWon) {
		t.Fatal("re-asserting the same status is allowed")
	}
}

func TestGlyphs(t *testing.T) {
	if StatusWon.Glyph() != "✓" || StatusLost.Glyph() != "✗" || StatusPending.Glyph() != "?" {
		t.Fatal("unexpected glyph mapping")
	}
}
