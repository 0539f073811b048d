package pay

import (
	"context"
	"errors"
	"testing"
	"time"

	"suretips/errs"
	"suretips/models"
)

type fakeVerifier struct {
	payment *VerifiedPayment
	err     error
	calls   int
}

func (f *fakeVerifier) Verify(ctx context.Context, reference, email, bundleID string) (*VerifiedPayment, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.payment, nil
}

func service(v Verifier, record func(context.Context, models.Purchase) error) *PaymentService {
	return &PaymentService{
		verifier: v,
		record:   record,
		now:      func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func TestConfirmGrantsOnPaid(t *testing.T) {
	var recorded []models.Purchase
	v := &fakeVerifier{payment: &VerifiedPayment{Reference: "ref1", Amount: "20", Currency: "GHS", Paid: true}}
	s := service(v, func(ctx context.Context, p models.Purchase) error {
		recorded = append(recorded, p)
		return nil
	})

	purchase, err := s.Confirm(context.Background(), "u1", "ref1", "a@b.com", "b1")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if purchase.Amount != "20" || purchase.BundleID != "b1" || purchase.UserID != "u1" {
		t.Fatalf("purchase fields wrong: %+v", purchase)
	}
	if len(recorded) != 1 {
		t.Fatalf("expected 1 recorded purchase, got %d", len(recorded))
	}
}

func TestConfirmRejectsUnpaid(t *testing.T) {
	recorded := 0
	v := &fakeVerifier{payment: &VerifiedPayment{Reference: "ref1", Paid: false}}
	s := service(v, func(ctx context.Context, p models.Purchase) error {
		recorded++
		return nil
	})

	if _, err := s.Confirm(context.Background(), "u1", "ref1", "a@b.com", "b1"); err == nil {
		t.Fatal("unpaid reference must not grant entitlement")
	}
	if recorded != 0 {
		t.Fatal("nothing may be recorded for an unpaid reference")
	}
}

func TestConfirmSurfacesProviderFailure(t *testing.T) {
	recorded := 0
	v := &fakeVerifier{err: errs.Wrap(errs.Network, "provider unreachable", errors.New("dial tcp"))}
	s := service(v, func(ctx context.Context, p models.Purchase) error {
		recorded++
		return nil
	})

	_, err := s.Confirm(context.Background(), "u1", "ref1", "a@b.com", "b1")
	if !errs.Is(err, errs.Network) {
		t.Fatalf("expected network error, got %v", err)
	}
	if recorded != 0 {
		t.Fatal("provider failure must not silently grant access")
	}
}
