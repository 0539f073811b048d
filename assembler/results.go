package assembler

import (
	"context"

	"suretips/errs"
	"suretips/games"
)

// UpdateGameResult settles one game, then pushes the full status set of its
// originating booking in a single call, because the backing API updates a
// whole booking's results atomically. Nothing is persisted unless that call
// succeeds, so a failed push leaves the booking exactly as it was and the
// console keeps edit mode open for a retry.
func (a *Assembler) UpdateGameResult(ctx context.Context, gameID, result string) error {
	status := games.ParseStatus(result)

	bundle, err := a.store.BundleByGame(ctx, gameID)
	if err != nil {
		return err
	}
	if bundle == nil {
		return errs.Newf(errs.NotFound, "no booking holds game %s", gameID)
	}

	mu := a.lockBooking(bundle.BundleID)
	mu.Lock()
	defer mu.Unlock()

	statuses := make([]StatusUpdate, 0, len(bundle.Games))
	found := false
	for _, g := range bundle.Games {
		s := g.Status
		if g.GameID == gameID {
			found = true
			if !games.CanTransition(g.Status, status) {
				return errs.Newf(errs.Validation, "game %s already settled as %s", gameID, g.Status)
			}
			s = status
		}
		statuses = append(statuses, StatusUpdate{GameID: g.GameID, Status: s})
	}
	if !found {
		return errs.Newf(errs.NotFound, "no game %s in booking %s", gameID, bundle.BundleID)
	}

	if err := a.store.UpdateStatuses(ctx, bundle.BundleID, statuses); err != nil {
		return errs.Wrap(errs.KindOf(err), "result push failed", err)
	}
	return nil
}
