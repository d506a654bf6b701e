package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix        = "user:%d"
	InstitutionKeyPrefix = "institution:%d"
	HierarchyKeyPrefix   = "user:%d:hierarchy"
)

const (
	UserTTL        = 5 * time.Minute
	InstitutionTTL = 10 * time.Minute
	HierarchyTTL   = 2 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func InstitutionKey(institutionID uint) string {
	return fmt.Sprintf(InstitutionKeyPrefix, institutionID)
}

func HierarchyKey(userID uint) string {
	return fmt.Sprintf(HierarchyKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
	Invalidate(ctx, HierarchyKey(userID))
}

func InvalidateInstitution(ctx context.Context, institutionID uint) {
	Invalidate(ctx, InstitutionKey(institutionID))
}
