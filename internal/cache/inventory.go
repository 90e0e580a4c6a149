package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix     = "user:%d"
	ScriptKeyPrefix   = "script:%d"
	ProjectKeyPrefix  = "project:%d"
	FestivalsKey      = "festivals:catalog"
	CreditsKeyPrefix  = "credits:%d"
	BlacklistPrefix   = "blacklist:%s"
)

const (
	UserTTL      = 5 * time.Minute
	ScriptTTL    = 10 * time.Minute
	ProjectTTL   = 10 * time.Minute
	FestivalsTTL = time.Hour
	CreditsTTL   = time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func ScriptKey(scriptID uint) string {
	return fmt.Sprintf(ScriptKeyPrefix, scriptID)
}

func ProjectKey(projectID uint) string {
	return fmt.Sprintf(ProjectKeyPrefix, projectID)
}

func CreditsKey(userID uint) string {
	return fmt.Sprintf(CreditsKeyPrefix, userID)
}

func BlacklistKey(jti string) string {
	return fmt.Sprintf(BlacklistPrefix, jti)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
	Invalidate(ctx, CreditsKey(userID))
}

func InvalidateScript(ctx context.Context, scriptID uint) {
	Invalidate(ctx, ScriptKey(scriptID))
}

func InvalidateProject(ctx context.Context, projectID uint) {
	Invalidate(ctx, ProjectKey(projectID))
}
