package viewer

import (
	"context"
	"net/http"
	"time"

	"suretips/db"
	"suretips/models"
	"suretips/utils"

	"github.com/julienschmidt/httprouter"
	qrcode "github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
)

// ShareCodeQR renders a bundle's booking code as a QR image so viewers can
// scan it straight into the odds platform's app.
func ShareCodeQR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var b models.Bundle
	err := db.BundlesCollection.FindOne(ctx, bson.M{"bundleId": ps.ByName("id")}).Decode(&b)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "bundle not found")
		return
	}
	if b.ShareCode == "" {
		utils.RespondWithError(w, http.StatusNotFound, "bundle has no share code")
		return
	}

	png, err := qrcode.Encode(b.ShareCode, qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "could not render code")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
