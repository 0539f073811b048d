package pay

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"suretips/db"
	"suretips/models"
	"suretips/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
)

// DownloadReceipt renders a PDF receipt for a verified purchase. Only the
// buyer may fetch it.
func DownloadReceipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	reference := ps.ByName("reference")
	userID := utils.GetUserIDFromRequest(r)

	var purchase models.Purchase
	err := db.PurchasesCollection.FindOne(context.TODO(), bson.M{
		"reference": reference,
		"userId":    userID,
	}).Decode(&purchase)
	if err != nil {
		http.Error(w, "Receipt not found", http.StatusNotFound)
		return
	}

	qrPNG, err := qrcode.Encode(purchase.Reference, qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Purchase Receipt")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Reference: %s", purchase.Reference))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Package: %s", purchase.Category))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Amount: %s %s", purchase.Amount, purchase.Currency))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Verified: %s", purchase.VerifiedAt.Format("2006-01-02 15:04")))
	pdf.Ln(12)

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 40, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=receipt-"+reference+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
