package viewer

import (
	"suretips/models"
	"suretips/visibility"
)

// BundleView is one package as the site renders it: gated games plus the
// purchase control state.
type BundleView struct {
	BundleID string                  `json:"bundleId"`
	Category string                  `json:"category"`
	Games    []visibility.GameView   `json:"games"`
	Purchase visibility.PurchaseView `json:"purchase"`
	Deadline string                  `json:"deadline,omitempty"`
	Owned    bool                    `json:"owned"`
}

// buildView applies the detail policy. Verified buyers bypass the public
// gating; everyone else gets the tri-state preview.
func buildView(b models.Bundle, owned, available bool) BundleView {
	v := BundleView{
		BundleID: b.BundleID,
		Category: b.Category,
		Purchase: visibility.PurchaseAction(&b, available),
		Owned:    owned,
	}
	if !b.Deadline.IsZero() {
		v.Deadline = b.Deadline.Format("2006-01-02 15:04")
	}
	if owned {
		v.Games = visibility.RenderOwned(b)
	} else {
		v.Games = visibility.Render(b)
	}
	return v
}

// missingView renders a category with no active bundle. Availability still
// decides between SOLD OUT and NOT AVAILABLE.
func missingView(category string, available bool) BundleView {
	return BundleView{
		Category: category,
		Games:    []visibility.GameView{},
		Purchase: visibility.PurchaseAction(nil, available),
	}
}
