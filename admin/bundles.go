package admin

import (
	"net/http"
	"strconv"
	"time"

	"suretips/assembler"
	"suretips/db"
	"suretips/errs"
	"suretips/models"
	"suretips/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func planID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, errs.Newf(errs.Validation, "invalid plan id %q", s)
	}
	return id, nil
}

// Finalize marks a bundle's details as complete, which lets the visibility
// policy start evaluating its settlement state.
func (c *Console) Finalize(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	res, err := db.BundlesCollection.UpdateOne(r.Context(),
		bson.M{"bundleId": ps.ByName("id")},
		bson.M{"$set": bson.M{"updated": true}})
	if err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "could not finalize bundle")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "bundle not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}

// Archive retires a bundle from the active lists. Archived bundles stay in
// storage for the history pages.
func (c *Console) Archive(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	res, err := db.BundlesCollection.UpdateOne(r.Context(),
		bson.M{"bundleId": ps.ByName("id")},
		bson.M{"$set": bson.M{"archived": true}})
	if err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "could not archive bundle")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "bundle not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}

// SlipHistory groups the stored slips by deadline for the console's review
// screen, most recent upload day first.
func (c *Console) SlipHistory(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	days := 7
	if d := r.URL.Query().Get("days"); d != "" {
		if n, err := strconv.Atoi(d); err == nil && n > 0 {
			days = n
		}
	}
	since := time.Now().AddDate(0, 0, -days)

	cursor, err := db.BundlesCollection.Find(r.Context(), bson.M{
		"category":   "slips",
		"uploadedAt": bson.M{"$gte": since},
	}, options.Find().SetSort(bson.M{"uploadedAt": -1}))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "could not load slips")
		return
	}
	var bundles []models.Bundle
	if err := cursor.All(r.Context(), &bundles); err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "could not load slips")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, assembler.GroupSlips(bundles))
}
