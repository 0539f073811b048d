package viewer

import (
	"testing"

	"suretips/games"
	"suretips/models"
	"suretips/visibility"
)

func pendingBundle() models.Bundle {
	return models.Bundle{
		BundleID: "b1",
		Category: "vip1",
		Price:    "20",
		Updated:  true,
		Games: []models.GameRecord{
			{GameID: "g1", HomeTeam: "Arsenal", AwayTeam: "Chelsea", Prediction: "Over 2.5", Odds: 1.85, Status: games.StatusPending},
		},
	}
}

func TestBuildViewGatesNonOwners(t *testing.T) {
	v := buildView(pendingBundle(), false, true)

	if v.Games[0].Prediction != "" || v.Games[0].Odds != 0 {
		t.Fatalf("public view leaked the pick: %+v", v.Games[0])
	}
	if v.Purchase.Affordance != visibility.Buy || v.Purchase.Price != "20" {
		t.Fatalf("expected buy control with price, got %+v", v.Purchase)
	}
}

func TestBuildViewShowsOwnersEverything(t *testing.T) {
	v := buildView(pendingBundle(), true, true)

	if v.Games[0].Prediction != "Over 2.5" || v.Games[0].Odds != 1.85 {
		t.Fatalf("owner must see the pick: %+v", v.Games[0])
	}
	if !v.Owned {
		t.Fatal("owned flag must be set")
	}
}

func TestBuildViewSoldOutWinsOverContent(t *testing.T) {
	v := buildView(pendingBundle(), false, false)
	if v.Purchase.Affordance != visibility.SoldOut {
		t.Fatalf("sold out must win, got %+v", v.Purchase)
	}
}

func TestMissingViewDistinguishesSoldOut(t *testing.T) {
	if got := missingView("vip2", true).Purchase.Affordance; got != visibility.NotAvailable {
		t.Fatalf("available but absent must read NOT AVAILABLE, got %v", got)
	}
	if got := missingView("vip2", false).Purchase.Affordance; got != visibility.SoldOut {
		t.Fatalf("unavailable must read SOLD OUT, got %v", got)
	}
}
