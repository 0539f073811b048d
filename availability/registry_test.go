package availability

import (
	"context"
	"errors"
	"testing"

	"suretips/errs"
	"suretips/models"
)

type fakeEndpoints struct {
	plans        []models.Plan
	fetchErr     error
	soldOutCalls []int
	availCalls   []int
	markErr      error
}

func (f *fakeEndpoints) FetchPlans(ctx context.Context) ([]models.Plan, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.plans, nil
}

func (f *fakeEndpoints) MarkSoldOut(ctx context.Context, planID int) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.soldOutCalls = append(f.soldOutCalls, planID)
	return nil
}

func (f *fakeEndpoints) MarkAvailable(ctx context.Context, planID int) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.availCalls = append(f.availCalls, planID)
	return nil
}

type fakeCache struct {
	mirrored map[string]bool
	stored   map[string]bool
	err      error
}

func (f *fakeCache) Mirror(m map[string]bool) error {
	if f.err != nil {
		return f.err
	}
	f.mirrored = m
	return nil
}

func (f *fakeCache) Fallback() (map[string]bool, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.stored, nil
}

func seeded(t *testing.T, eps *fakeEndpoints, cache *fakeCache) *Registry {
	t.Helper()
	r := New(eps, cache)
	if _, err := r.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	return r
}

func vipPlans() []models.Plan {
	return []models.Plan{
		{PlanID: 1, Name: "vip1", Price: "20", Available: true},
		{PlanID: 2, Name: "vip2", Price: "35", Available: false},
	}
}

func TestToggleCallsDirectionalEndpoint(t *testing.T) {
	eps := &fakeEndpoints{plans: vipPlans()}
	r := seeded(t, eps, &fakeCache{})

	p, err := r.Toggle(context.Background(), 1)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if p.Available {
		t.Fatal("available plan must flip to sold out")
	}
	if len(eps.soldOutCalls) != 1 || eps.soldOutCalls[0] != 1 {
		t.Fatalf("expected one sold-out call for plan 1, got %v", eps.soldOutCalls)
	}
	if len(eps.availCalls) != 0 {
		t.Fatal("wrong endpoint called for sold-out direction")
	}

	p, err = r.Toggle(context.Background(), 2)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !p.Available {
		t.Fatal("sold-out plan must flip to available")
	}
	if len(eps.availCalls) != 1 || eps.availCalls[0] != 2 {
		t.Fatalf("expected one mark-available call for plan 2, got %v", eps.availCalls)
	}
}

func TestToggleTwiceRestoresOriginal(t *testing.T) {
	eps := &fakeEndpoints{plans: vipPlans()}
	r := seeded(t, eps, &fakeCache{})

	if _, err := r.Toggle(context.Background(), 1); err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	p, err := r.Toggle(context.Background(), 1)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if !p.Available {
		t.Fatal("two toggles must restore the original value")
	}
}

func TestToggleFailureLeavesStateUntouched(t *testing.T) {
	eps := &fakeEndpoints{plans: vipPlans(), markErr: errors.New("down")}
	cache := &fakeCache{}
	r := seeded(t, eps, cache)
	mirrorBefore := cache.mirrored["vip1"]

	if _, err := r.Toggle(context.Background(), 1); err == nil {
		t.Fatal("expected toggle failure")
	}

	if got := r.Availability(context.Background())["vip1"]; !got {
		t.Fatal("failed toggle must not change availability")
	}
	if cache.mirrored["vip1"] != mirrorBefore {
		t.Fatal("failed toggle must not touch the mirror")
	}
}

func TestToggleUnknownPlan(t *testing.T) {
	r := seeded(t, &fakeEndpoints{plans: vipPlans()}, &fakeCache{})
	if _, err := r.Toggle(context.Background(), 99); !errs.Is(err, errs.NotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestToggleMirrorsAfterSuccess(t *testing.T) {
	cache := &fakeCache{}
	r := seeded(t, &fakeEndpoints{plans: vipPlans()}, cache)

	if _, err := r.Toggle(context.Background(), 1); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if cache.mirrored == nil || cache.mirrored["vip1"] {
		t.Fatalf("mirror must reflect the flipped state: %v", cache.mirrored)
	}
}

func TestAvailabilityFallsBackToCache(t *testing.T) {
	eps := &fakeEndpoints{plans: vipPlans()}
	cache := &fakeCache{stored: map[string]bool{"vip1": true, "vip2": false}}
	r := seeded(t, eps, cache)

	eps.fetchErr = errors.New("store down")
	m := r.Availability(context.Background())
	if !m["vip1"] || m["vip2"] {
		t.Fatalf("fallback cache not used: %v", m)
	}
}

func TestAvailabilityDefaultsToSoldOut(t *testing.T) {
	eps := &fakeEndpoints{fetchErr: errors.New("store down")}
	cache := &fakeCache{err: errors.New("redis down")}
	r := New(eps, cache)

	m := r.Availability(context.Background())
	if len(m) != 0 {
		t.Fatalf("expected empty map, got %v", m)
	}
	if m["vip1"] {
		t.Fatal("absent entries must read as sold out")
	}
}

func TestLiveFetchOverwritesFallback(t *testing.T) {
	eps := &fakeEndpoints{plans: vipPlans()}
	cache := &fakeCache{stored: map[string]bool{"vip1": false}}
	r := New(eps, cache)

	m := r.Availability(context.Background())
	if !m["vip1"] {
		t.Fatal("live fetch must win over stale cache")
	}
	if cache.mirrored == nil || !cache.mirrored["vip1"] {
		t.Fatalf("live fetch must overwrite the mirror: %v", cache.mirrored)
	}
}
