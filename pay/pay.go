package pay

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"suretips/db"
	"suretips/errs"
	"suretips/models"
	"suretips/mq"
	"suretips/rdx"
	"suretips/utils"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// lockTTL is how long the per-user verify lock is held
const lockTTL = 5 * time.Second

// PaymentService owns checkout sessions and verification. The record hook
// persists a verified purchase; tests swap it out.
type PaymentService struct {
	verifier Verifier
	record   func(ctx context.Context, p models.Purchase) error
	now      func() time.Time
}

func NewPaymentService(verifier Verifier) *PaymentService {
	return &PaymentService{
		verifier: verifier,
		record:   recordPurchase,
		now:      time.Now,
	}
}

// CreateSession hands the checkout widget what it needs: amount, currency
// and metadata, under a fresh reference. The widget itself is opaque.
func (p *PaymentService) CreateSession(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	var body struct {
		Category string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Category == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "category is required")
		return
	}

	var bundle models.Bundle
	err := db.BundlesCollection.FindOne(r.Context(),
		bson.M{"category": body.Category, "archived": false},
	).Decode(&bundle)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "no package for category")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "package lookup failed")
		return
	}

	reference := uuid.NewString()
	txn := models.Transaction{
		Reference: reference,
		UserID:    userID,
		Type:      "checkout",
		Amount:    bundle.Price,
		Status:    "initiated",
		CreatedAt: p.now(),
	}
	if _, err := db.TransactionCollection.InsertOne(r.Context(), txn); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "checkout failed")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"reference": reference,
		"amount":    bundle.Price,
		"currency":  "GHS",
		"metadata": utils.M{
			"booking_id": bundle.BundleID,
			"category":   bundle.Category,
			"user_id":    userID,
		},
	})
}

// VerifyPayment is the checkout callback target. Entitlement is granted
// strictly on provider confirmation; the callback reaching us proves
// nothing.
func (p *PaymentService) VerifyPayment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	var body struct {
		Reference string `json:"reference"`
		Email     string `json:"email"`
		BookingID string `json:"booking_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil ||
		body.Reference == "" || body.Email == "" || body.BookingID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "reference, email and booking_id are required")
		return
	}

	acquired, err := rdx.AcquireLock("verify:"+userID, lockTTL)
	if err != nil || !acquired {
		utils.RespondWithError(w, http.StatusTooManyRequests, "verification already running, please retry")
		return
	}
	defer rdx.ReleaseLock("verify:" + userID)

	purchase, err := p.Confirm(r.Context(), userID, body.Reference, body.Email, body.BookingID)
	if err != nil {
		if errs.Is(err, errs.Network) {
			utils.RespondWithError(w, http.StatusBadGateway, "payment provider unreachable, try again")
			return
		}
		utils.RespondWithError(w, http.StatusPaymentRequired, "payment could not be verified")
		return
	}

	utils.SendResponse(w, http.StatusOK, purchase, "Payment verified", nil)
}

// Confirm runs the strict verification flow: ask the provider, and only on
// a confirmed paid answer record the purchase and grant entitlement.
func (p *PaymentService) Confirm(ctx context.Context, userID, reference, email, bundleID string) (*models.Purchase, error) {
	vp, err := p.verifier.Verify(ctx, reference, email, bundleID)
	if err != nil {
		return nil, err
	}
	if !vp.Paid {
		return nil, errs.Newf(errs.Service, "reference %s not paid", reference)
	}

	purchase := models.Purchase{
		Reference:  reference,
		UserID:     userID,
		Email:      email,
		BundleID:   bundleID,
		Amount:     vp.Amount,
		Currency:   vp.Currency,
		VerifiedAt: p.now(),
	}

	if err := p.record(ctx, purchase); err != nil {
		return nil, err
	}
	return &purchase, nil
}

func recordPurchase(ctx context.Context, purchase models.Purchase) error {
	var bundle models.Bundle
	if err := db.BundlesCollection.FindOne(ctx, bson.M{"bundleId": purchase.BundleID}).Decode(&bundle); err == nil {
		purchase.Category = bundle.Category
	}

	if _, err := db.PurchasesCollection.InsertOne(ctx, purchase); err != nil {
		return errs.Wrap(errs.Service, "purchase insert failed", err)
	}

	txn := models.Transaction{
		Reference: purchase.Reference,
		UserID:    purchase.UserID,
		Type:      "verify",
		Amount:    purchase.Amount,
		Status:    "success",
		CreatedAt: time.Now(),
	}
	if _, err := db.TransactionCollection.InsertOne(ctx, txn); err != nil {
		log.Printf("pay: transaction log failed for %s: %v", purchase.Reference, err)
	}

	if err := CacheEntitlement(purchase.UserID, purchase.BundleID, purchase.Category); err != nil {
		log.Printf("pay: entitlement cache failed for %s: %v", purchase.UserID, err)
	}

	mq.Emit("purchase-verified", models.Index{
		EntityType: "purchase",
		EntityId:   purchase.Reference,
		ItemId:     purchase.BundleID,
		ItemType:   purchase.Category,
	})
	return nil
}

// ListTransactions returns the payment ledger for the admin console.
func (p *PaymentService) ListTransactions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	cur, err := db.TransactionCollection.Find(r.Context(), bson.M{})
	if err != nil {
		log.Printf("ListTransactions: DB error, err=%v\n", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "internal error")
		return
	}
	defer cur.Close(r.Context())

	var txns []models.Transaction
	if err = cur.All(r.Context(), &txns); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "internal error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"transactions": txns})
}
