package visibility

import (
	"testing"

	"suretips/games"
	"suretips/models"
)

func bundle(updated bool, statuses ...games.MatchStatus) models.Bundle {
	b := models.Bundle{Category: "vip1", Price: "20", Updated: updated}
	teams := [][2]string{
		{"Arsenal", "Chelsea"},
		{"Man City", "Napoli"},
		{"Ajax", "Porto"},
	}
	for i, s := range statuses {
		pair := teams[i%len(teams)]
		b.Games = append(b.Games, models.GameRecord{
			GameID:     "g" + string(rune('0'+i)),
			HomeTeam:   pair[0],
			AwayTeam:   pair[1],
			Prediction: "Over 2.5 Goals",
			Odds:       1.85,
			Status:     s,
		})
	}
	return b
}

func TestNotFinalizedHidesEverything(t *testing.T) {
	b := bundle(false, games.StatusPending, games.StatusWon, games.StatusLost)
	for i, v := range Render(b) {
		if v.Detail != MatchNameOnly.String() {
			t.Fatalf("game %d: expected match-name-only, got %s", i, v.Detail)
		}
		if v.Prediction != "" || v.Odds != 0 {
			t.Fatalf("game %d: leaked prediction/odds on unfinalized bundle", i)
		}
	}
}

func TestNotFinalizedHidesEverythingFromOwners(t *testing.T) {
	b := bundle(false, games.StatusPending, games.StatusWon)
	for i, v := range RenderOwned(b) {
		if v.Detail != MatchNameOnly.String() {
			t.Fatalf("game %d: unfinalized bundle must stay match-name-only for owners, got %s", i, v.Detail)
		}
		if v.Prediction != "" || v.Odds != 0 {
			t.Fatalf("game %d: unfinalized bundle leaked prediction/odds to owner view", i)
		}
	}
}

func TestOwnedViewShowsPendingPicksOnceFinalized(t *testing.T) {
	b := bundle(true, games.StatusPending)
	views := RenderOwned(b)
	assertEq(t, views[0].Detail, FullDetail.String())
	assertEq(t, views[0].Prediction, "Over 2.5 Goals")
	assertEq(t, views[0].Glyph, "?")
}

func TestAllPendingHidesDetails(t *testing.T) {
	b := bundle(true, games.StatusPending, games.StatusPending)
	views := Render(b)
	for i, v := range views {
		if v.Detail != MatchNameOnly.String() {
			t.Fatalf("game %d: expected match-name-only, got %s", i, v.Detail)
		}
		if v.Glyph != "?" {
			t.Fatalf("game %d: expected ? glyph, got %s", i, v.Glyph)
		}
	}
	// team names still shown
	assertEq(t, views[0].HomeTeam, "Arsenal")
	assertEq(t, views[0].AwayTeam, "Chelsea")
}

func TestPartiallySettledSlip(t *testing.T) {
	b := bundle(true, games.StatusPending, games.StatusWon)
	views := Render(b)

	// live leg stays hidden with a neutral glyph
	assertEq(t, views[0].Detail, MatchNameOnly.String())
	assertEq(t, views[0].Glyph, "?")
	assertEq(t, views[0].Prediction, "")

	// settled leg is public record
	assertEq(t, views[1].Detail, FullDetail.String())
	assertEq(t, views[1].Glyph, "✓")
	assertEq(t, views[1].Prediction, "Over 2.5 Goals")
	if views[1].Odds != 1.85 {
		t.Fatalf("settled leg odds: got %v want 1.85", views[1].Odds)
	}
}

func TestLostGameGlyph(t *testing.T) {
	b := bundle(true, games.StatusLost)
	views := Render(b)
	assertEq(t, views[0].Detail, FullDetail.String())
	assertEq(t, views[0].Glyph, "✗")
}

func TestEmptyBundleRendersNothing(t *testing.T) {
	b := bundle(true)
	if got := len(Render(b)); got != 0 {
		t.Fatalf("expected no views, got %d", got)
	}
}

func TestPurchaseActionSoldOutWinsOverEverything(t *testing.T) {
	b := bundle(true, games.StatusWon)
	v := PurchaseAction(&b, false)
	assertEq(t, v.Affordance, SoldOut)
	assertEq(t, v.Label, "SOLD OUT")
}

func TestPurchaseActionNoBundle(t *testing.T) {
	v := PurchaseAction(nil, true)
	assertEq(t, v.Affordance, NotAvailable)
}

func TestPurchaseActionEmptyBundleDisablesBuy(t *testing.T) {
	b := bundle(true)
	v := PurchaseAction(&b, true)
	assertEq(t, v.Affordance, NoMatches)
	assertEq(t, v.Label, "No matches available")
}

func TestPurchaseActionStaleAfterAnyResult(t *testing.T) {
	b := bundle(true, games.StatusPending, games.StatusWon)
	v := PurchaseAction(&b, true)
	assertEq(t, v.Affordance, ResultsUploaded)
	assertEq(t, v.Label, "RESULTS UPLOADED")
}

func TestPurchaseActionShowsPrice(t *testing.T) {
	b := bundle(true, games.StatusPending, games.StatusPending)
	v := PurchaseAction(&b, true)
	assertEq(t, v.Affordance, Buy)
	assertEq(t, v.Price, "20")
}

// Scenario: a two-leg VIP1 slip moves from fully pending to partially
// settled; the purchase control follows it from priced to stale.
func TestSlipLifecycle(t *testing.T) {
	b := bundle(true, games.StatusPending, games.StatusPending)

	for _, v := range Render(b) {
		assertEq(t, v.Detail, MatchNameOnly.String())
	}
	assertEq(t, PurchaseAction(&b, true).Affordance, Buy)

	b.Games[1].Status = games.StatusWon

	views := Render(b)
	assertEq(t, views[0].Detail, MatchNameOnly.String())
	assertEq(t, views[0].Glyph, "?")
	assertEq(t, views[1].Detail, FullDetail.String())
	assertEq(t, views[1].Glyph, "✓")
	assertEq(t, PurchaseAction(&b, true).Affordance, ResultsUploaded)
}

// --- small helpers ---
func assertEq[T comparable](t *testing.T, got, want T) {
	t.Helper()
	if got != want {
		t.Fatalf("got %v want %v", got, want)
	}
}
