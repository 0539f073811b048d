package pay

import (
	"context"
	"log"

	"suretips/db"
	"suretips/rdx"

	"go.mongodb.org/mongo-driver/bson"
)

// Entitlement lives in Mongo (authoritative) with a Redis hash in front so
// viewer pages don't hit the purchases collection on every render.

func CacheEntitlement(userID, bundleID, category string) error {
	if err := rdx.RdxHset("entitlements:"+userID, bundleID, category); err != nil {
		return err
	}
	if category != "" {
		return rdx.RdxHset("entitlements:"+userID, "cat:"+category, bundleID)
	}
	return nil
}

// HasEntitlement reports whether the user holds a verified purchase for the
// bundle. Cache first, Mongo on miss; a cache error falls through to Mongo.
func HasEntitlement(ctx context.Context, userID, bundleID string) bool {
	if userID == "" {
		return false
	}

	if _, err := rdx.RdxHget("entitlements:"+userID, bundleID); err == nil {
		return true
	}

	count, err := db.PurchasesCollection.CountDocuments(ctx, bson.M{
		"userId":   userID,
		"bundleId": bundleID,
	})
	if err != nil {
		log.Printf("pay: entitlement lookup failed for %s: %v", userID, err)
		return false
	}
	return count > 0
}

// HasCategoryEntitlement is the coarser check used by the package pages: any
// verified purchase for the category's current bundle counts.
func HasCategoryEntitlement(ctx context.Context, userID, category string) bool {
	if userID == "" {
		return false
	}

	if _, err := rdx.RdxHget("entitlements:"+userID, "cat:"+category); err == nil {
		return true
	}

	count, err := db.PurchasesCollection.CountDocuments(ctx, bson.M{
		"userId":   userID,
		"category": category,
	})
	if err != nil {
		log.Printf("pay: entitlement lookup failed for %s: %v", userID, err)
		return false
	}
	return count > 0
}
