package assembler

import (
	"time"

	"suretips/models"
)

// Slip is the aggregate view of one uploaded batch: every game sharing an
// upload/deadline timestamp, in first-seen order.
type Slip struct {
	Deadline time.Time           `json:"deadline"`
	Games    []models.GameRecord `json:"games"`
	Bundles  []string            `json:"bundleIds"`
}

// GroupSlips buckets bundles by deadline timestamp for the historical view.
// Archived bundles are excluded from the active list but stay in storage.
func GroupSlips(bundles []models.Bundle) []Slip {
	order := make([]int64, 0)
	buckets := make(map[int64]*Slip)

	for _, b := range bundles {
		if b.Archived {
			continue
		}
		key := b.Deadline.Unix()
		s, ok := buckets[key]
		if !ok {
			s = &Slip{Deadline: b.Deadline}
			buckets[key] = s
			order = append(order, key)
		}
		s.Games = append(s.Games, b.Games...)
		s.Bundles = append(s.Bundles, b.BundleID)
	}

	out := make([]Slip, 0, len(order))
	for _, key := range order {
		out = append(out, *buckets[key])
	}
	return out
}
