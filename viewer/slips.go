package viewer

import (
	"context"
	"log"
	"net/http"
	"time"

	"suretips/assembler"
	"suretips/db"
	"suretips/models"
	"suretips/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// slipView is one deadline bucket with its games gated per bundle.
type slipView struct {
	Deadline string      `json:"deadline"`
	Games    []gatedGame `json:"games"`
}

type gatedGame struct {
	HomeTeam string `json:"homeTeam"`
	AwayTeam string `json:"awayTeam"`
	Glyph    string `json:"glyph"`
}

// Others serves the correct-score / draw / other-market slips for a date,
// grouped by kickoff deadline. Slips are sold as whole tickets, so the
// public page only ever shows fixture names and result glyphs.
func Others(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
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
		"category":   "slips",
		"uploadedAt": bson.M{"$gte": start, "$lt": end},
	}, options.Find().SetSort(bson.M{"deadline": 1}))
	if err != nil {
		log.Println("viewer: slips query:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "could not load slips")
		return
	}
	var bundles []models.Bundle
	if err := cursor.All(ctx, &bundles); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "could not load slips")
		return
	}

	slips := assembler.GroupSlips(bundles)
	out := make([]slipView, 0, len(slips))
	for _, s := range slips {
		sv := slipView{
			Deadline: s.Deadline.Format("2006-01-02 15:04"),
			Games:    make([]gatedGame, 0, len(s.Games)),
		}
		for _, g := range s.Games {
			sv.Games = append(sv.Games, gatedGame{
				HomeTeam: g.HomeTeam,
				AwayTeam: g.AwayTeam,
				Glyph:    g.Status.Glyph(),
			})
		}
		out = append(out, sv)
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}
