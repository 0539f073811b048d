package assembler

import (
	"context"
	"errors"
	"testing"
	"time"

	"suretips/errs"
	"suretips/games"
	"suretips/models"
)

type fakeSource struct {
	games []models.ExternalGame
	err   error
	calls int
}

func (f *fakeSource) LoadBooking(ctx context.Context, code string) ([]models.ExternalGame, error) {
	f.calls++
	return f.games, f.err
}

type fakeStore struct {
	saved      []models.Bundle
	saveErr    error
	bundle     *models.Bundle
	pushed     [][]StatusUpdate
	pushErr    error
	saveCalls  int
	blockSave  chan struct{} // when set, SaveBundle waits on it
	saveGate   chan struct{} // closed once SaveBundle has been entered
}

func (f *fakeStore) SaveBundle(ctx context.Context, b models.Bundle) error {
	f.saveCalls++
	if f.saveGate != nil {
		close(f.saveGate)
		f.saveGate = nil
	}
	if f.blockSave != nil {
		<-f.blockSave
	}
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, b)
	return nil
}

func (f *fakeStore) BundleByGame(ctx context.Context, gameID string) (*models.Bundle, error) {
	return f.bundle, nil
}

func (f *fakeStore) UpdateStatuses(ctx context.Context, bundleID string, statuses []StatusUpdate) error {
	if f.pushErr != nil {
		return f.pushErr
	}
	f.pushed = append(f.pushed, statuses)
	return nil
}

func twoGames() []models.ExternalGame {
	return []models.ExternalGame{
		{Home: "Arsenal", Away: "Chelsea", Prediction: "Over 2.5 Goals", Odd: 1.85},
		{Home: "Man City", Away: "Napoli", Prediction: "Home Win", Odd: 1.45},
	}
}

func newLoaded(t *testing.T, store *fakeStore) *Assembler {
	t.Helper()
	a := New(&fakeSource{games: twoGames()}, store)
	if _, err := a.LoadByCode(context.Background(), "vip1", "BK123"); err != nil {
		t.Fatalf("load: %v", err)
	}
	return a
}

func TestLoadByCodeAssignsSessionIDs(t *testing.T) {
	a := newLoaded(t, &fakeStore{})
	got := a.Games("vip1")
	if len(got) != 2 {
		t.Fatalf("expected 2 games, got %d", len(got))
	}
	for _, g := range got {
		if g.GameID == "" {
			t.Fatal("game missing session id")
		}
		if g.Status != games.StatusPending {
			t.Fatalf("fresh game not pending: %v", g.Status)
		}
	}
	if got[0].GameID == got[1].GameID {
		t.Fatal("session ids must differ within a batch")
	}
}

func TestLoadByCodeSecondCallIsNoop(t *testing.T) {
	src := &fakeSource{games: twoGames()}
	a := New(src, &fakeStore{})
	first, _ := a.LoadByCode(context.Background(), "vip1", "BK123")
	second, err := a.LoadByCode(context.Background(), "vip1", "BK999")
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if src.calls != 1 {
		t.Fatalf("expected 1 source call, got %d", src.calls)
	}
	if len(second) != len(first) || second[0].GameID != first[0].GameID {
		t.Fatal("second load must return the existing batch")
	}
}

func TestAttachCodesRejectsBlank(t *testing.T) {
	a := newLoaded(t, &fakeStore{})
	before := a.Games("vip1")

	err := a.AttachCodes("vip1", "", "msp1")
	if !errs.Is(err, errs.Validation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	after := a.Games("vip1")
	if len(after) != len(before) {
		t.Fatal("failed attach must not mutate games")
	}
}

func TestSetPriceRoundTrip(t *testing.T) {
	a := newLoaded(t, &fakeStore{})
	if err := a.SetPrice("vip1", "20"); err != nil {
		t.Fatalf("set price: %v", err)
	}
	if got := a.Price("vip1"); got != "20" {
		t.Fatalf("price round trip: got %q want %q", got, "20")
	}
	if got := a.Price("vip2"); got != "" {
		t.Fatalf("unrelated category price changed: %q", got)
	}
	if err := a.SetPrice("vip1", "  "); !errs.Is(err, errs.Validation) {
		t.Fatalf("blank price must fail validation, got %v", err)
	}
}

func TestRemoveGame(t *testing.T) {
	a := newLoaded(t, &fakeStore{})
	target := a.Games("vip1")[0].GameID
	if err := a.RemoveGame("vip1", target); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if got := len(a.Games("vip1")); got != 1 {
		t.Fatalf("expected 1 game left, got %d", got)
	}
	if err := a.RemoveGame("vip1", target); !errs.Is(err, errs.NotFound) {
		t.Fatalf("second remove must be not-found, got %v", err)
	}
}

func TestUploadWithoutBatch(t *testing.T) {
	store := &fakeStore{}
	a := New(&fakeSource{}, store)
	_, err := a.Upload(context.Background(), "vip2")
	if !errs.Is(err, errs.NotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
	if store.saveCalls != 0 {
		t.Fatal("upload without a batch must not touch the store")
	}
}

func TestUploadFailureKeepsBatch(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("boom")}
	a := newLoaded(t, store)
	if _, err := a.Upload(context.Background(), "vip1"); err == nil {
		t.Fatal("expected upload error")
	}
	if got := len(a.Games("vip1")); got != 2 {
		t.Fatalf("failed upload must keep the batch, got %d games", got)
	}

	// retry succeeds and clears
	store.saveErr = nil
	bundle, err := a.Upload(context.Background(), "vip1")
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if bundle.Deadline.IsZero() {
		t.Fatal("deadline must default to upload time")
	}
	if a.Games("vip1") != nil {
		t.Fatal("successful upload must clear the batch")
	}
}

func TestUploadCarriesAnnotations(t *testing.T) {
	store := &fakeStore{}
	a := newLoaded(t, store)
	a.SetPrice("vip1", "35")
	a.AttachCodes("vip1", "SC77", "msp1")
	deadline := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	a.SetDeadline("vip1", deadline)

	bundle, err := a.Upload(context.Background(), "vip1")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if bundle.Price != "35" || bundle.ShareCode != "SC77" || bundle.AltCode != "msp1" {
		t.Fatalf("annotations lost: %+v", bundle)
	}
	if !bundle.Deadline.Equal(deadline) {
		t.Fatalf("deadline: got %v want %v", bundle.Deadline, deadline)
	}
	if len(store.saved) != 1 || len(store.saved[0].Games) != 2 {
		t.Fatalf("stored bundle wrong: %+v", store.saved)
	}
}

func TestUploadInFlightGuard(t *testing.T) {
	store := &fakeStore{
		blockSave: make(chan struct{}),
		saveGate:  make(chan struct{}),
	}
	gate := store.saveGate
	a := newLoaded(t, store)

	done := make(chan error, 1)
	go func() {
		_, err := a.Upload(context.Background(), "vip1")
		done <- err
	}()

	select {
	case <-gate:
	case <-time.After(time.Second):
		t.Fatal("first upload never reached the store")
	}

	// double-click while the first upload is outstanding
	if _, err := a.Upload(context.Background(), "vip1"); !errs.Is(err, errs.Validation) {
		t.Fatalf("duplicate upload must be rejected, got %v", err)
	}

	close(store.blockSave)
	if err := <-done; err != nil {
		t.Fatalf("first upload: %v", err)
	}

	// only the first submission may have reached the store, and the batch is
	// gone, so a late duplicate cannot persist the same games again
	if store.saveCalls != 1 {
		t.Fatalf("expected exactly 1 save, got %d", store.saveCalls)
	}
	if _, err := a.Upload(context.Background(), "vip1"); !errs.Is(err, errs.NotFound) {
		t.Fatalf("post-completion duplicate must be not-found, got %v", err)
	}
	if len(store.saved) != 1 {
		t.Fatalf("duplicate submission persisted twice: %d bundles", len(store.saved))
	}
}

func TestSetPriceSurvivesLoad(t *testing.T) {
	src := &fakeSource{games: twoGames()}
	a := New(src, &fakeStore{})

	if err := a.SetPrice("vip1", "25"); err != nil {
		t.Fatalf("set price: %v", err)
	}
	if _, err := a.LoadByCode(context.Background(), "vip1", "BK123"); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := a.Price("vip1"); got != "25" {
		t.Fatalf("price discarded by load: got %q want %q", got, "25")
	}
}

func TestClearAll(t *testing.T) {
	a := newLoaded(t, &fakeStore{})
	a.SetPrice("vip1", "20")
	a.ClearAll()
	if a.Games("vip1") != nil || a.Price("vip1") != "" {
		t.Fatal("clear all must reset every category")
	}
}

func settledBundle() *models.Bundle {
	return &models.Bundle{
		BundleID: "b1",
		Category: "vip1",
		Games: []models.GameRecord{
			{GameID: "g1", HomeTeam: "Arsenal", AwayTeam: "Chelsea", Status: games.StatusPending},
			{GameID: "g2", HomeTeam: "Man City", AwayTeam: "Napoli", Status: games.StatusWon},
		},
	}
}

func TestUpdateGameResultPushesWholeBooking(t *testing.T) {
	store := &fakeStore{bundle: settledBundle()}
	a := New(&fakeSource{}, store)

	if err := a.UpdateGameResult(context.Background(), "g1", "WON"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(store.pushed) != 1 {
		t.Fatalf("expected 1 push, got %d", len(store.pushed))
	}
	set := store.pushed[0]
	if len(set) != 2 {
		t.Fatalf("push must carry the whole booking, got %d entries", len(set))
	}
	assertEq(t, set[0].GameID, "g1")
	assertEq(t, set[0].Status, games.StatusWon)
	assertEq(t, set[1].GameID, "g2")
	assertEq(t, set[1].Status, games.StatusWon)
}

func TestUpdateGameResultFailureRollsBack(t *testing.T) {
	store := &fakeStore{bundle: settledBundle(), pushErr: errors.New("down")}
	a := New(&fakeSource{}, store)

	if err := a.UpdateGameResult(context.Background(), "g1", "lost"); err == nil {
		t.Fatal("expected push failure to surface")
	}
	if store.bundle.Games[0].Status != games.StatusPending {
		t.Fatal("failed push must leave the booking untouched")
	}
	if len(store.pushed) != 0 {
		t.Fatal("nothing may be persisted on failure")
	}
}

func TestUpdateGameResultRejectsReversal(t *testing.T) {
	store := &fakeStore{bundle: settledBundle()}
	a := New(&fakeSource{}, store)
	if err := a.UpdateGameResult(context.Background(), "g2", "pending"); !errs.Is(err, errs.Validation) {
		t.Fatalf("settled game must not revert, got %v", err)
	}
}

func TestUpdateGameResultUnknownGame(t *testing.T) {
	store := &fakeStore{bundle: nil}
	a := New(&fakeSource{}, store)
	if err := a.UpdateGameResult(context.Background(), "nope", "won"); !errs.Is(err, errs.NotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func assertEq[T comparable](t *testing.T, got, want T) {
	t.Helper()
	if got != want {
		t.Fatalf("got %v want %v", got, want)
	}
}
