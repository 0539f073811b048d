// Package visibility decides what each game in a bundle may reveal to a
// viewer. Settled legs are public record and safe to show; a pending leg's
// pick is the paid product and must never leak on the shared preview, even
// once sibling legs in the same slip have settled.
package visibility

import (
	"suretips/models"
)

// Detail is the per-game render decision.
type Detail int

const (
	MatchNameOnly Detail = iota
	FullDetail
)

func (d Detail) String() string {
	if d == FullDetail {
		return "full-detail"
	}
	return "match-name-only"
}

// bundle-wide state, evaluated once and reused for every game
type bundleState int

const (
	stateNotFinalized bundleState = iota // admin has not finished the batch
	stateAllPending                      // pre-result, protect every pick
	stateAnySettled                      // partially or fully settled
	stateMixed                           // fallback, show everything
)

func classify(b models.Bundle) bundleState {
	if !b.Updated {
		return stateNotFinalized
	}
	allPending := true
	anySettled := false
	for _, g := range b.Games {
		if g.Status.Completed() {
			anySettled = true
			allPending = false
		}
	}
	if allPending {
		return stateAllPending
	}
	if anySettled {
		return stateAnySettled
	}
	return stateMixed
}

// GameView is one game as the viewer is allowed to see it. Prediction and
// odds are zeroed when the decision is MatchNameOnly; the glyph is always
// present regardless of the detail decision.
type GameView struct {
	GameID     string  `json:"gameId"`
	HomeTeam   string  `json:"homeTeam"`
	AwayTeam   string  `json:"awayTeam"`
	Prediction string  `json:"prediction,omitempty"`
	Odds       float64 `json:"odds,omitempty"`
	Detail     string  `json:"detail"`
	Glyph      string  `json:"glyph"`
}

// Render maps a bundle to the per-game views a public viewer receives.
func Render(b models.Bundle) []GameView {
	state := classify(b)
	views := make([]GameView, 0, len(b.Games))
	for _, g := range b.Games {
		views = append(views, renderGame(g, state))
	}
	return views
}

// RenderOwned is the purchaser view: a verified buyer sees every pick and
// odd regardless of the bundle's settlement state. An unfinalized bundle is
// the one exception; nothing is released to anyone until the admin marks the
// details complete.
func RenderOwned(b models.Bundle) []GameView {
	if !b.Updated {
		return Render(b)
	}
	views := make([]GameView, 0, len(b.Games))
	for _, g := range b.Games {
		views = append(views, GameView{
			GameID:     g.GameID,
			HomeTeam:   g.HomeTeam,
			AwayTeam:   g.AwayTeam,
			Prediction: g.Prediction,
			Odds:       g.Odds,
			Detail:     FullDetail.String(),
			Glyph:      g.Status.Glyph(),
		})
	}
	return views
}

func renderGame(g models.GameRecord, state bundleState) GameView {
	v := GameView{
		GameID:   g.GameID,
		HomeTeam: g.HomeTeam,
		AwayTeam: g.AwayTeam,
		Glyph:    g.Status.Glyph(),
	}

	decision := MatchNameOnly
	switch state {
	case stateNotFinalized, stateAllPending:
		decision = MatchNameOnly
	case stateAnySettled:
		if g.Status.Completed() {
			decision = FullDetail
		}
	default:
		decision = FullDetail
	}

	v.Detail = decision.String()
	if decision == FullDetail {
		v.Prediction = g.Prediction
		v.Odds = g.Odds
	}
	return v
}
