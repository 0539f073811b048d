package admin

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"suretips/db"
	"suretips/models"
	"suretips/sms"
	"suretips/utils"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// BroadcastSMS sends a message to an audience: every registered user, or the
// verified purchasers of one plan. Every broadcast is logged.
func BroadcastSMS(sender sms.Sender) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var req struct {
			Message  string `json:"message"`
			Audience string `json:"audience"` // "all" or a plan name
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Message == "" {
			utils.RespondWithError(w, http.StatusBadRequest, "message is required")
			return
		}
		if req.Audience == "" {
			req.Audience = "all"
		}

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		phones, err := audiencePhones(ctx, req.Audience)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadGateway, "could not resolve audience")
			return
		}
		if len(phones) == 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "audience has no reachable numbers")
			return
		}

		if err := sender.Send(ctx, phones, req.Message); err != nil {
			log.Println("admin: sms broadcast:", err)
			utils.RespondWithError(w, http.StatusBadGateway, "sms gateway rejected the broadcast")
			return
		}

		record := models.SMSRecord{
			ID:         uuid.NewString(),
			Message:    req.Message,
			Audience:   req.Audience,
			Recipients: len(phones),
			SentBy:     utils.GetUserIDFromRequest(r),
			SentAt:     time.Now(),
		}
		if _, err := db.SMSLogCollection.InsertOne(ctx, record); err != nil {
			log.Println("admin: sms log:", err)
		}
		utils.RespondWithJSON(w, http.StatusOK, record)
	}
}

func audiencePhones(ctx context.Context, audience string) ([]string, error) {
	filter := bson.M{"phone": bson.M{"$ne": ""}}

	if audience != "all" {
		cursor, err := db.PurchasesCollection.Find(ctx, bson.M{"category": audience})
		if err != nil {
			return nil, err
		}
		var purchases []models.Purchase
		if err := cursor.All(ctx, &purchases); err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(purchases))
		for _, p := range purchases {
			ids = append(ids, p.UserID)
		}
		filter["userid"] = bson.M{"$in": ids}
	}

	cursor, err := db.UserCollection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(users))
	phones := make([]string, 0, len(users))
	for _, u := range users {
		if u.Phone == "" || seen[u.Phone] {
			continue
		}
		seen[u.Phone] = true
		phones = append(phones, u.Phone)
	}
	return phones, nil
}

// SMSHistory lists recent broadcasts for the console.
func SMSHistory(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	cursor, err := db.SMSLogCollection.Find(r.Context(), bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "could not load sms log")
		return
	}
	var records []models.SMSRecord
	if err := cursor.All(r.Context(), &records); err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "could not load sms log")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, records)
}
