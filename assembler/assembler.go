// Package assembler holds the admin console's in-progress booking batches:
// games pulled from the odds platform by code, annotated with price and
// share codes, then uploaded as immutable bundles.
package assembler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"suretips/errs"
	"suretips/games"
	"suretips/globals"
	"suretips/models"
)

// BookingSource resolves a booking code into fixtures. The HTTP client in
// the odds package is the production implementation.
type BookingSource interface {
	LoadBooking(ctx context.Context, code string) ([]models.ExternalGame, error)
}

// StatusUpdate is one game's status inside a whole-booking result push.
type StatusUpdate struct {
	GameID string            `json:"id" bson:"gameId"`
	Status games.MatchStatus `json:"status" bson:"status"`
}

// Store is the persistence collaborator for uploaded bundles. The backing
// API updates a whole booking's results in one atomic call, which is why
// UpdateStatuses takes the full set rather than a single game.
type Store interface {
	SaveBundle(ctx context.Context, b models.Bundle) error
	BundleByGame(ctx context.Context, gameID string) (*models.Bundle, error)
	UpdateStatuses(ctx context.Context, bundleID string, statuses []StatusUpdate) error
}

// batch is one category's in-progress booking.
type batch struct {
	sourceCode string
	games      []models.GameRecord
	price      string
	shareCode  string
	altCode    string
	deadline   time.Time
	loadedAt   time.Time
}

type Assembler struct {
	source BookingSource
	store  Store

	mu      sync.Mutex
	batches map[string]*batch

	// duplicate-submission guard, one slot per category
	inflight map[string]bool

	// serializes upload vs result pushes touching the same booking
	bookingMu sync.Map // bundleID -> *sync.Mutex

	now   func() time.Time
	newID func() string
}

func New(source BookingSource, store Store) *Assembler {
	return &Assembler{
		source:   source,
		store:    store,
		batches:  make(map[string]*batch),
		inflight: make(map[string]bool),
		now:      time.Now,
		newID:    func() string { return fmt.Sprintf("%d", time.Now().UnixNano()) },
	}
}

func validCategory(category string) error {
	if !globals.IsValidCategory(category) {
		return errs.Newf(errs.Validation, "unknown category %q", category)
	}
	return nil
}

// acquire marks a category as having a mutating call outstanding. A second
// call for the same category while one is in flight is a duplicate
// double-click, not a retry, and is rejected.
func (a *Assembler) acquire(category string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.inflight[category] {
		return errs.Newf(errs.Validation, "another request for %s is still in flight", category)
	}
	a.inflight[category] = true
	return nil
}

func (a *Assembler) release(category string) {
	a.mu.Lock()
	a.inflight[category] = false
	a.mu.Unlock()
}

func (a *Assembler) lockBooking(bundleID string) *sync.Mutex {
	m, _ := a.bookingMu.LoadOrStore(bundleID, &sync.Mutex{})
	return m.(*sync.Mutex)
}

// LoadByCode pulls the booking behind code into the category's batch.
// One active batch per category: if games are already loaded the call is a
// no-op returning the existing batch, matching the console hiding the load
// control once a batch exists.
func (a *Assembler) LoadByCode(ctx context.Context, category, code string) ([]models.GameRecord, error) {
	if err := validCategory(category); err != nil {
		return nil, err
	}
	if strings.TrimSpace(code) == "" {
		return nil, errs.New(errs.Validation, "booking code is required")
	}

	a.mu.Lock()
	if b, ok := a.batches[category]; ok && len(b.games) > 0 {
		existing := append([]models.GameRecord(nil), b.games...)
		a.mu.Unlock()
		return existing, nil
	}
	a.mu.Unlock()

	if err := a.acquire(category); err != nil {
		return nil, err
	}
	defer a.release(category)

	loaded, err := a.source.LoadBooking(ctx, code)
	if err != nil {
		return nil, err
	}

	// Synthetic per-session identifiers: category + load timestamp + index.
	// Not stable across restarts, which is accepted for in-progress batches.
	stamp := a.now()
	records := make([]models.GameRecord, 0, len(loaded))
	for i, g := range loaded {
		records = append(records, models.GameRecord{
			GameID:     fmt.Sprintf("%s-%d-%d", category, stamp.UnixMilli(), i),
			HomeTeam:   g.Home,
			AwayTeam:   g.Away,
			Prediction: g.Prediction,
			Odds:       g.Odd,
			Status:     games.StatusPending,
		})
	}

	a.mu.Lock()
	nb := &batch{sourceCode: code, games: records, loadedAt: stamp}
	if prev, ok := a.batches[category]; ok {
		// a price set before the load survives it
		nb.price = prev.price
	}
	a.batches[category] = nb
	a.mu.Unlock()

	return append([]models.GameRecord(nil), records...), nil
}

// AttachCodes stamps the category's loaded games with the share code and the
// alternate-platform code. Both are required.
func (a *Assembler) AttachCodes(category, primaryCode, secondaryCode string) error {
	if err := validCategory(category); err != nil {
		return err
	}
	if strings.TrimSpace(primaryCode) == "" || strings.TrimSpace(secondaryCode) == "" {
		return errs.New(errs.Validation, "both share codes are required")
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	b, ok := a.batches[category]
	if !ok || len(b.games) == 0 {
		return errs.Newf(errs.NotFound, "no games loaded for %s", category)
	}
	b.shareCode = primaryCode
	b.altCode = secondaryCode
	return nil
}

// SetPrice stores the category's price. Prices are per category, not per game.
func (a *Assembler) SetPrice(category, price string) error {
	if err := validCategory(category); err != nil {
		return err
	}
	if strings.TrimSpace(price) == "" {
		return errs.New(errs.Validation, "price is required")
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	b, ok := a.batches[category]
	if !ok {
		b = &batch{}
		a.batches[category] = b
	}
	b.price = price
	return nil
}

// Price reads back the category's current price.
func (a *Assembler) Price(category string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if b, ok := a.batches[category]; ok {
		return b.price
	}
	return ""
}

// SetDeadline stamps the batch's kickoff deadline. Upload defaults it to the
// upload time when unset.
func (a *Assembler) SetDeadline(category string, deadline time.Time) error {
	if err := validCategory(category); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	b, ok := a.batches[category]
	if !ok {
		return errs.Newf(errs.NotFound, "no batch for %s", category)
	}
	b.deadline = deadline
	return nil
}

// RemoveGame drops a single game from the in-progress batch.
func (a *Assembler) RemoveGame(category, gameID string) error {
	if err := validCategory(category); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	b, ok := a.batches[category]
	if !ok {
		return errs.Newf(errs.NotFound, "no batch for %s", category)
	}
	for i, g := range b.games {
		if g.GameID == gameID {
			b.games = append(b.games[:i], b.games[i+1:]...)
			return nil
		}
	}
	return errs.Newf(errs.NotFound, "no game %s in %s batch", gameID, category)
}

// Games returns a copy of the category's in-progress games.
func (a *Assembler) Games(category string) []models.GameRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	if b, ok := a.batches[category]; ok {
		return append([]models.GameRecord(nil), b.games...)
	}
	return nil
}

// ClearAll wipes every category's in-progress state. Destructive; any
// confirmation belongs to the caller.
func (a *Assembler) ClearAll() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.batches = make(map[string]*batch)
}

// Upload serializes the category's batch to the persistence collaborator and
// clears the batch only on confirmed success, so a failed upload can be
// retried without re-entering anything.
func (a *Assembler) Upload(ctx context.Context, category string) (*models.Bundle, error) {
	if err := validCategory(category); err != nil {
		return nil, err
	}

	// the guard must bracket the whole read-check-save sequence, or two
	// interleaved uploads could snapshot the same batch
	if err := a.acquire(category); err != nil {
		return nil, err
	}
	defer a.release(category)

	a.mu.Lock()
	b, ok := a.batches[category]
	if !ok || len(b.games) == 0 {
		a.mu.Unlock()
		return nil, errs.Newf(errs.NotFound, "no games loaded for %s", category)
	}
	bundle := models.Bundle{
		BundleID:   a.newID(),
		Category:   category,
		Games:      append([]models.GameRecord(nil), b.games...),
		Price:      b.price,
		ShareCode:  b.shareCode,
		AltCode:    b.altCode,
		Deadline:   b.deadline,
		UploadedAt: a.now(),
	}
	a.mu.Unlock()

	if bundle.Deadline.IsZero() {
		bundle.Deadline = bundle.UploadedAt
	}

	mu := a.lockBooking(bundle.BundleID)
	mu.Lock()
	defer mu.Unlock()

	if err := a.store.SaveBundle(ctx, bundle); err != nil {
		// batch stays intact for retry
		return nil, errs.Wrap(errs.KindOf(err), "upload failed", err)
	}

	a.mu.Lock()
	delete(a.batches, category)
	a.mu.Unlock()

	return &bundle, nil
}
