// Package admin is the console backend: booking assembly, result entry, plan
// toggles and bundle lifecycle. Every route here sits behind the admin role
// gate in middleware.
package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"suretips/assembler"
	"suretips/availability"
	"suretips/db"
	"suretips/errs"
	"suretips/livewire"
	"suretips/models"
	"suretips/mq"
	"suretips/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

type Console struct {
	Assembler *assembler.Assembler
	Registry  *availability.Registry
	Hub       *livewire.Hub
}

func NewConsole(a *assembler.Assembler, r *availability.Registry, hub *livewire.Hub) *Console {
	return &Console{Assembler: a, Registry: r, Hub: hub}
}

func respondErr(w http.ResponseWriter, err error) {
	utils.RespondWithError(w, errs.HTTPStatus(err), err.Error())
}

// LoadBooking pulls a booking code's games from the odds platform into the
// category's working batch.
func (c *Console) LoadBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		Category string `json:"category"`
		Code     string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	games, err := c.Assembler.LoadByCode(r.Context(), req.Category, req.Code)
	if err != nil {
		respondErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"category": req.Category, "games": games})
}

func (c *Console) AttachCodes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		Category  string `json:"category"`
		ShareCode string `json:"shareCode"`
		AltCode   string `json:"altCode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := c.Assembler.AttachCodes(req.Category, req.ShareCode, req.AltCode); err != nil {
		respondErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}

func (c *Console) SetPrice(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		Category string `json:"category"`
		Price    string `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := c.Assembler.SetPrice(req.Category, req.Price); err != nil {
		respondErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}

func (c *Console) SetDeadline(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		Category string `json:"category"`
		Deadline string `json:"deadline"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	when, err := parseDeadline(req.Deadline)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := c.Assembler.SetDeadline(req.Category, when); err != nil {
		respondErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}

func parseDeadline(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errs.Newf(errs.Validation, "unrecognized deadline %q", s)
}

// Batch shows the current working batch for a category.
func (c *Console) Batch(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	category := ps.ByName("category")
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"category": category,
		"games":    c.Assembler.Games(category),
		"price":    c.Assembler.Price(category),
	})
}

func (c *Console) RemoveGame(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	if err := c.Assembler.RemoveGame(ps.ByName("category"), ps.ByName("gameId")); err != nil {
		respondErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}

func (c *Console) ClearAll(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	c.Assembler.ClearAll()
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}

// Upload publishes the category's working batch as the live bundle.
func (c *Console) Upload(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	category := ps.ByName("category")

	bundle, err := c.Assembler.Upload(r.Context(), category)
	if err != nil {
		respondErr(w, err)
		return
	}

	mq.Emit("bundle-uploaded", models.Index{EntityType: "bundle", EntityId: bundle.BundleID, ItemType: category})
	if c.Hub != nil {
		c.Hub.Broadcast(livewire.Update{Action: "upload", Category: category})
	}
	utils.RespondWithJSON(w, http.StatusCreated, bundle)
}

// UpdateResult settles one game. The assembler pushes the whole booking's
// status set atomically; viewers watching the category get the update live.
func (c *Console) UpdateResult(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		GameID string `json:"gameId"`
		Result string `json:"result"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := c.Assembler.UpdateGameResult(r.Context(), req.GameID, req.Result); err != nil {
		respondErr(w, err)
		return
	}

	if category := categoryOfGame(r.Context(), req.GameID); category != "" {
		mq.Emit("results-updated", models.Index{EntityType: "game", EntityId: req.GameID, ItemType: category})
		if c.Hub != nil {
			c.Hub.Broadcast(livewire.Update{Action: "result", Category: category, GameID: req.GameID, Status: req.Result})
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}

func categoryOfGame(ctx context.Context, gameID string) string {
	var b models.Bundle
	err := db.BundlesCollection.FindOne(ctx, bson.M{"games.gameId": gameID}).Decode(&b)
	if err != nil {
		return ""
	}
	return b.Category
}

// TogglePlan flips a plan between purchasable and sold out.
func (c *Console) TogglePlan(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := planID(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	plan, err := c.Registry.Toggle(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	if c.Hub != nil {
		c.Hub.Broadcast(livewire.Update{Action: "availability", Category: plan.Name})
	}
	utils.RespondWithJSON(w, http.StatusOK, plan)
}
