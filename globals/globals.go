package globals

import (
	"context"
	"os"
)

var (
	JwtSecret = []byte(secretFromEnv())
)

func secretFromEnv() string {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return s
	}
	return "dev_secret_change_me"
}

// Context keys
type ContextKey string

const RoleKey ContextKey = "role"
const UserIDKey ContextKey = "userId"

var Ctx = context.Background()

// Package categories sold on the site. Order is display order.
var Categories = []string{"free", "vip1", "vip2", "vip3", "slips"}

func IsValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}
