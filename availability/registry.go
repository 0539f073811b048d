// Package availability tracks which packages are currently purchasable and
// lets the admin flip them. The live plan store is authoritative; a Redis
// mirror gives viewer pages a best-effort answer when the store is down.
package availability

import (
	"context"
	"log"
	"sort"
	"sync"

	"suretips/errs"
	"suretips/models"
)

// Endpoints is the external plan service. Marking sold out and marking
// available are distinct operations with different bookkeeping on the
// backend, not one idempotent PATCH.
type Endpoints interface {
	FetchPlans(ctx context.Context) ([]models.Plan, error)
	MarkSoldOut(ctx context.Context, planID int) error
	MarkAvailable(ctx context.Context, planID int) error
}

// Cache is the fallback mirror. A live fetch always overwrites it, never
// the reverse.
type Cache interface {
	Mirror(m map[string]bool) error
	Fallback() (map[string]bool, error)
}

type Registry struct {
	endpoints Endpoints
	cache     Cache

	mu       sync.Mutex
	plans    map[int]models.Plan
	inflight map[int]bool
}

func New(endpoints Endpoints, cache Cache) *Registry {
	return &Registry{
		endpoints: endpoints,
		cache:     cache,
		plans:     make(map[int]models.Plan),
		inflight:  make(map[int]bool),
	}
}

// Refresh pulls the live plan list, replacing local state and the mirror.
func (r *Registry) Refresh(ctx context.Context) ([]models.Plan, error) {
	plans, err := r.endpoints.FetchPlans(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.plans = make(map[int]models.Plan, len(plans))
	for _, p := range plans {
		r.plans[p.PlanID] = p
	}
	r.mu.Unlock()

	r.mirror(plans)
	return plans, nil
}

func (r *Registry) mirror(plans []models.Plan) {
	if r.cache == nil {
		return
	}
	m := make(map[string]bool, len(plans))
	for _, p := range plans {
		m[p.Name] = p.Available
	}
	if err := r.cache.Mirror(m); err != nil {
		log.Printf("availability: mirror update failed: %v", err)
	}
}

// Snapshot returns the locally held plans in id order, without touching the
// external store. Used when a live refresh has just failed.
func (r *Registry) Snapshot() []models.Plan {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Plan, 0, len(r.plans))
	for _, p := range r.plans {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlanID < out[j].PlanID })
	return out
}

// Toggle flips one plan's purchasable flag. The direction picks which of the
// two endpoints is called; local state and the mirror change only after the
// call succeeds, so a failure leaves everything as it was.
func (r *Registry) Toggle(ctx context.Context, planID int) (models.Plan, error) {
	r.mu.Lock()
	plan, ok := r.plans[planID]
	if !ok {
		r.mu.Unlock()
		return models.Plan{}, errs.Newf(errs.NotFound, "no plan %d", planID)
	}
	if r.inflight[planID] {
		r.mu.Unlock()
		return models.Plan{}, errs.Newf(errs.Validation, "toggle for plan %d already in flight", planID)
	}
	r.inflight[planID] = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.inflight[planID] = false
		r.mu.Unlock()
	}()

	var err error
	if plan.Available {
		err = r.endpoints.MarkSoldOut(ctx, planID)
	} else {
		err = r.endpoints.MarkAvailable(ctx, planID)
	}
	if err != nil {
		return models.Plan{}, errs.Wrap(errs.KindOf(err), "toggle failed", err)
	}

	plan.Available = !plan.Available

	r.mu.Lock()
	r.plans[planID] = plan
	snapshot := make([]models.Plan, 0, len(r.plans))
	for _, p := range r.plans {
		snapshot = append(snapshot, p)
	}
	r.mu.Unlock()

	r.mirror(snapshot)
	return plan, nil
}

// Availability returns package-name -> purchasable for the viewer pages.
// Live fetch first; on failure the mirror; with neither, an empty map, which
// readers treat as everything sold out.
func (r *Registry) Availability(ctx context.Context) map[string]bool {
	plans, err := r.Refresh(ctx)
	if err == nil {
		m := make(map[string]bool, len(plans))
		for _, p := range plans {
			m[p.Name] = p.Available
		}
		return m
	}
	log.Printf("availability: live fetch failed, trying fallback: %v", err)

	if r.cache != nil {
		if m, cerr := r.cache.Fallback(); cerr == nil && len(m) > 0 {
			return m
		}
	}
	return map[string]bool{}
}
