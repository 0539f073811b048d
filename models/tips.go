package models

import (
	"time"

	"suretips/games"
)

// GameRecord is one scheduled match inside a bundle.
type GameRecord struct {
	GameID     string            `json:"gameId" bson:"gameId"`
	HomeTeam   string            `json:"homeTeam" bson:"homeTeam"`
	AwayTeam   string            `json:"awayTeam" bson:"awayTeam"`
	Prediction string            `json:"prediction" bson:"prediction"`
	Odds       float64           `json:"odds" bson:"odds"`
	Status     games.MatchStatus `json:"status" bson:"status"`
}

// Bundle is a priced, named group of games sold as one unit.
// Once uploaded it is immutable; superseded bundles are archived, not deleted.
type Bundle struct {
	BundleID   string       `json:"bundleId" bson:"bundleId"`
	Category   string       `json:"category" bson:"category"` // free, vip1, vip2, vip3, slips
	Games      []GameRecord `json:"games" bson:"games"`
	Price      string       `json:"price" bson:"price"`
	ShareCode  string       `json:"shareCode" bson:"shareCode"`
	AltCode    string       `json:"altCode,omitempty" bson:"altCode,omitempty"`
	Updated    bool         `json:"updated" bson:"updated"` // admin finalized detail visibility
	Archived   bool         `json:"archived" bson:"archived"`
	Deadline   time.Time    `json:"deadline" bson:"deadline"`
	UploadedAt time.Time    `json:"uploadedAt" bson:"uploadedAt"`
}

// Plan is a purchasable package as listed on the pricing page.
type Plan struct {
	PlanID    int    `json:"id" bson:"planId"`
	Name      string `json:"name" bson:"name"` // matches a bundle category
	Price     string `json:"price" bson:"price"`
	Available bool   `json:"available" bson:"available"`
}

// Purchase is a verified entitlement: the buyer may see FullDetail for the
// bundle in their private dashboard.
type Purchase struct {
	Reference  string    `json:"reference" bson:"reference"`
	UserID     string    `json:"userId" bson:"userId"`
	Email      string    `json:"email" bson:"email"`
	BundleID   string    `json:"bundleId" bson:"bundleId"`
	Category   string    `json:"category" bson:"category"`
	Amount     string    `json:"amount" bson:"amount"`
	Currency   string    `json:"currency" bson:"currency"`
	VerifiedAt time.Time `json:"verifiedAt" bson:"verifiedAt"`
}

// Transaction mirrors a payment provider event for the admin ledger.
type Transaction struct {
	Reference string    `json:"reference" bson:"reference"`
	UserID    string    `json:"userId" bson:"userid"`
	Type      string    `json:"type" bson:"type"` // checkout, verify, refund
	Amount    string    `json:"amount" bson:"amount"`
	Status    string    `json:"status" bson:"status"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

// SMSRecord logs one broadcast from the admin console.
type SMSRecord struct {
	ID         string    `json:"id" bson:"id"`
	Message    string    `json:"message" bson:"message"`
	Audience   string    `json:"audience" bson:"audience"` // all or a plan name
	Recipients int       `json:"recipients" bson:"recipients"`
	SentBy     string    `json:"sentBy" bson:"sentBy"`
	SentAt     time.Time `json:"sentAt" bson:"sentAt"`
}

// Index represents an indexing/notification message published on the bus.
type Index struct {
	EntityType string `json:"entity_type"`
	Method     string `json:"method"`
	EntityId   string `json:"entity_id"`
	ItemId     string `json:"item_id"`
	ItemType   string `json:"item_type"`
}

// ExternalGame is the raw shape the odds platform returns for one fixture
// when a booking code is loaded. Validated on ingress before it becomes a
// GameRecord.
type ExternalGame struct {
	Home       string  `json:"home"`
	Away       string  `json:"away"`
	Prediction string  `json:"prediction"`
	Odd        float64 `json:"odd"`
}
