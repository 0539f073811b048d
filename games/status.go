package games

import "strings"

// MatchStatus is the lifecycle state of a single game. Source feeds carry it
// as free-cased strings ("WON", "won", "Won", ""), so everything entering the
// system goes through ParseStatus.
type MatchStatus string

const (
	StatusPending MatchStatus = "pending"
	StatusWon     MatchStatus = "won"
	StatusLost    MatchStatus = "lost"
)

// ParseStatus normalizes a raw status string. Unknown or blank values are
// treated as pending, never as an error.
func ParseStatus(raw string) MatchStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "won", "win":
		return StatusWon
	case "lost", "lose", "loss":
		return StatusLost
	default:
		return StatusPending
	}
}

// Completed reports whether the game has settled.
func (s MatchStatus) Completed() bool {
	return s == StatusWon || s == StatusLost
}

// CanTransition enforces the one-way lifecycle: a pending game may settle,
// a settled game never changes again.
func CanTransition(from, to MatchStatus) bool {
	if from == to {
		return true
	}
	return from == StatusPending
}

// Glyph is the result marker shown next to a game, independent of whether
// the game's details are visible.
func (s MatchStatus) Glyph() string {
	switch s {
	case StatusWon:
		return "✓"
	case StatusLost:
		return "✗"
	default:
		return "?"
	}
}
