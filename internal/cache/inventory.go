package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix   = "user:%d"
	DesignKeyPrefix = "design:%d"
	FeedFirstPage   = "feed:page0"
)

const (
	UserTTL     = 5 * time.Minute
	DesignTTL   = 30 * time.Minute
	FeedPageTTL = 2 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func DesignKey(designID uint) string {
	return fmt.Sprintf(DesignKeyPrefix, designID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateDesign(ctx context.Context, designID uint) {
	Invalidate(ctx, DesignKey(designID))
}

// InvalidateFeed drops the cached first feed page. Called whenever a design
// is created or deleted so the feed never serves a stale page zero.
func InvalidateFeed(ctx context.Context) {
	Invalidate(ctx, FeedFirstPage)
}
