// Package viewer serves the public site: today's packages, history pages and
// the pricing list, all rendered through the visibility policy.
package viewer

import (
	"context"
	"log"
	"net/http"
	"time"

	"suretips/availability"
	"suretips/db"
	"suretips/models"
	"suretips/pay"
	"suretips/utils"
	"suretips/visibility"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var vipCategories = []string{"vip1", "vip2", "vip3"}

func activeBundle(ctx context.Context, category string) (*models.Bundle, error) {
	var b models.Bundle
	err := db.BundlesCollection.FindOne(ctx, bson.M{
		"category": category,
		"archived": false,
	}, options.FindOne().SetSort(bson.M{"uploadedAt": -1})).Decode(&b)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// VIPToday lists the current VIP packages. Signed-in buyers with a verified
// purchase see full picks; everyone else sees the gated preview.
func VIPToday(reg *availability.Registry) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		userID := utils.GetUserIDFromRequest(r)
		avail := reg.Availability(ctx)

		views := make([]BundleView, 0, len(vipCategories))
		for _, cat := range vipCategories {
			b, err := activeBundle(ctx, cat)
			if err != nil {
				views = append(views, missingView(cat, avail[cat]))
				continue
			}
			owned := pay.HasEntitlement(ctx, userID, b.BundleID) ||
				pay.HasCategoryEntitlement(ctx, userID, cat)
			views = append(views, buildView(*b, owned, avail[cat]))
		}
		utils.RespondWithJSON(w, http.StatusOK, views)
	}
}

// FreeTips serves the free package; always available, never gated on purchase.
func FreeTips(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	b, err := activeBundle(ctx, "free")
	if err != nil {
		utils.RespondWithJSON(w, http.StatusOK, missingView("free", true))
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, buildView(*b, true, true))
}

// History lists archived bundles for a date (YYYY-MM-DD). Settled picks are
// public record; the same visibility policy opens them up once results exist.
func History(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	day := r.URL.Query().Get("date")
	if day == "" {
		day = time.Now().Format("2006-01-02")
	}
	start, err := time.Parse("2006-01-02", day)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
		return
	}
	end := start.Add(24 * time.Hour)

	cursor, err := db.BundlesCollection.Find(ctx, bson.M{
		"uploadedAt": bson.M{"$gte": start, "$lt": end},
	}, options.Find().SetSort(bson.M{"uploadedAt": -1}))
	if err != nil {
		log.Println("viewer: history query:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "could not load history")
		return
	}
	var bundles []models.Bundle
	if err := cursor.All(ctx, &bundles); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "could not load history")
		return
	}

	views := make([]BundleView, 0, len(bundles))
	for _, b := range bundles {
		views = append(views, buildView(b, false, false))
	}
	utils.RespondWithJSON(w, http.StatusOK, views)
}

// Plans serves the pricing page: every plan with its live availability and
// the purchase control for its current bundle.
func Plans(reg *availability.Registry) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		plans, err := reg.Refresh(ctx)
		if err != nil {
			log.Println("viewer: plan refresh:", err)
			plans = reg.Snapshot()
		}

		// one fetch is enough; each plan already carries its own flag
		type planView struct {
			models.Plan
			Purchase visibility.PurchaseView `json:"purchase"`
		}
		out := make([]planView, 0, len(plans))
		for _, p := range plans {
			b, err := activeBundle(ctx, p.Name)
			if err != nil {
				b = nil
			}
			out = append(out, planView{
				Plan:     p,
				Purchase: visibility.PurchaseAction(b, p.Available),
			})
		}
		utils.RespondWithJSON(w, http.StatusOK, out)
	}
}
