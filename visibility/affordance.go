package visibility

import "suretips/models"

// Affordance is the state of the purchase control for a package, decided
// separately from the per-game detail gating.
type Affordance string

const (
	Buy             Affordance = "buy"
	SoldOut         Affordance = "sold-out"
	NotAvailable    Affordance = "not-available"
	ResultsUploaded Affordance = "results-uploaded"
	NoMatches       Affordance = "no-matches"
)

// PurchaseView is what the pricing control renders for one package.
type PurchaseView struct {
	Affordance Affordance `json:"affordance"`
	Price      string     `json:"price,omitempty"`
	Label      string     `json:"label"`
}

// PurchaseAction decides the purchase control. The availability flag wins
// over everything; a settled bundle is stale product and cannot be bought.
func PurchaseAction(b *models.Bundle, available bool) PurchaseView {
	if !available {
		return PurchaseView{Affordance: SoldOut, Label: "SOLD OUT"}
	}
	if b == nil {
		return PurchaseView{Affordance: NotAvailable, Label: "NOT AVAILABLE"}
	}
	if len(b.Games) == 0 {
		return PurchaseView{Affordance: NoMatches, Label: "No matches available"}
	}
	for _, g := range b.Games {
		if g.Status.Completed() {
			return PurchaseView{Affordance: ResultsUploaded, Label: "RESULTS UPLOADED"}
		}
	}
	return PurchaseView{Affordance: Buy, Price: b.Price, Label: "BUY NOW"}
}
