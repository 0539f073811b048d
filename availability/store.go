package availability

import (
	"context"
	"time"

	"suretips/db"
	"suretips/errs"
	"suretips/models"
	"suretips/rdx"

	"go.mongodb.org/mongo-driver/bson"
)

// MongoEndpoints backs the plan service with the plans collection. Sold-out
// and available are separate updates on purpose: sold-out also stamps
// soldOutAt for the sales ledger.
type MongoEndpoints struct{}

func NewMongoEndpoints() *MongoEndpoints { return &MongoEndpoints{} }

func (e *MongoEndpoints) FetchPlans(ctx context.Context) ([]models.Plan, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cur, err := db.PlansCollection.Find(ctx, bson.M{})
	if err != nil {
		return nil, errs.Wrap(errs.Service, "plan fetch failed", err)
	}
	defer cur.Close(ctx)

	var plans []models.Plan
	if err := cur.All(ctx, &plans); err != nil {
		return nil, errs.Wrap(errs.Service, "plan decode failed", err)
	}
	return plans, nil
}

func (e *MongoEndpoints) MarkSoldOut(ctx context.Context, planID int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := db.PlansCollection.UpdateOne(ctx,
		bson.M{"planId": planID},
		bson.M{"$set": bson.M{"available": false, "soldOutAt": time.Now()}},
	)
	if err != nil {
		return errs.Wrap(errs.Service, "mark sold out failed", err)
	}
	return nil
}

func (e *MongoEndpoints) MarkAvailable(ctx context.Context, planID int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := db.PlansCollection.UpdateOne(ctx,
		bson.M{"planId": planID},
		bson.M{"$set": bson.M{"available": true}, "$unset": bson.M{"soldOutAt": ""}},
	)
	if err != nil {
		return errs.Wrap(errs.Service, "mark available failed", err)
	}
	return nil
}

// RedisCache adapts the rdx fallback mirror to the Cache interface.
type RedisCache struct{}

func NewRedisCache() *RedisCache { return &RedisCache{} }

func (c *RedisCache) Mirror(m map[string]bool) error {
	return rdx.MirrorAvailability(m)
}

func (c *RedisCache) Fallback() (map[string]bool, error) {
	return rdx.FallbackAvailability()
}
