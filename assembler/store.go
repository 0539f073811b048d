package assembler

import (
	"context"
	"time"

	"suretips/db"
	"suretips/errs"
	"suretips/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoStore persists uploaded bundles in the bundles collection.
type MongoStore struct{}

func NewMongoStore() *MongoStore { return &MongoStore{} }

func (s *MongoStore) SaveBundle(ctx context.Context, b models.Bundle) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := db.BundlesCollection.InsertOne(ctx, b); err != nil {
		return errs.Wrap(errs.Service, "bundle insert failed", err)
	}
	return nil
}

func (s *MongoStore) BundleByGame(ctx context.Context, gameID string) (*models.Bundle, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var b models.Bundle
	err := db.BundlesCollection.FindOne(ctx, bson.M{"games.gameId": gameID}).Decode(&b)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Wrap(errs.Service, "bundle lookup failed", err)
	}
	return &b, nil
}

// UpdateStatuses writes the whole booking's status set in one update.
func (s *MongoStore) UpdateStatuses(ctx context.Context, bundleID string, statuses []StatusUpdate) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var b models.Bundle
	if err := db.BundlesCollection.FindOne(ctx, bson.M{"bundleId": bundleID}).Decode(&b); err != nil {
		if err == mongo.ErrNoDocuments {
			return errs.Newf(errs.NotFound, "no bundle %s", bundleID)
		}
		return errs.Wrap(errs.Service, "bundle lookup failed", err)
	}

	byID := make(map[string]int, len(statuses))
	for i, u := range statuses {
		byID[u.GameID] = i
	}
	for i := range b.Games {
		if j, ok := byID[b.Games[i].GameID]; ok {
			b.Games[i].Status = statuses[j].Status
		}
	}

	_, err := db.BundlesCollection.UpdateOne(ctx,
		bson.M{"bundleId": bundleID},
		bson.M{"$set": bson.M{"games": b.Games}},
	)
	if err != nil {
		return errs.Wrap(errs.Service, "status update failed", err)
	}
	return nil
}
