package pay

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"suretips/errs"
)

// VerifiedPayment is the provider's answer for one charge reference.
type VerifiedPayment struct {
	Reference string `json:"reference"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	Paid      bool   `json:"paid"`
}

// Verifier confirms a checkout callback against the payment provider.
// The callback alone never grants anything.
type Verifier interface {
	Verify(ctx context.Context, reference, email, bundleID string) (*VerifiedPayment, error)
}

// HTTPVerifier talks to the provider's verification endpoint.
type HTTPVerifier struct {
	baseURL string
	secret  string
	http    *http.Client
}

func NewHTTPVerifier(baseURL, secret string) *HTTPVerifier {
	return &HTTPVerifier{
		baseURL: baseURL,
		secret:  secret,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func NewVerifierFromEnv() *HTTPVerifier {
	base := os.Getenv("PAY_API_URL")
	if base == "" {
		base = "http://localhost:9200"
	}
	return NewHTTPVerifier(base, os.Getenv("PAY_SECRET"))
}

func (v *HTTPVerifier) Verify(ctx context.Context, reference, email, bundleID string) (*VerifiedPayment, error) {
	payload, _ := json.Marshal(map[string]string{
		"reference":  reference,
		"email":      email,
		"booking_id": bundleID,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+"/payment/verify", bytes.NewReader(payload))
	if err != nil {
		return nil, errs.Wrap(errs.Service, "build verify request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+v.secret)

	resp, err := v.http.Do(req)
	if err != nil {
		return nil, errs.Wrap(errs.Network, "payment provider unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errs.Newf(errs.Service, "payment provider returned %d", resp.StatusCode)
	}

	var out VerifiedPayment
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errs.Wrap(errs.Service, "malformed verify payload", err)
	}
	return &out, nil
}
