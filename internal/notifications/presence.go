package notifications

import (
	"context"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	presenceOnlineSetKey  = "presence:online"
	presenceLastSeenKeyNS = "presence:last_seen:"
	presenceTTL           = 90 * time.Second
	presenceReapInterval  = 60 * time.Second
)

// Presence mirrors who is connected into Redis so online status works across
// instances. Local counts are the fallback when Redis is down. The last-seen
// TTL bounds staleness: a crashed instance's members age out within the TTL.
type Presence struct {
	rdb *redis.Client

	mu         sync.RWMutex
	localConns map[uint]int

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewPresence creates a presence tracker and starts the Redis reaper when
// Redis is available.
func NewPresence(rdb *redis.Client) *Presence {
	p := &Presence{
		rdb:        rdb,
		localConns: make(map[uint]int),
		stopCh:     make(chan struct{}),
	}
	if p.rdb != nil {
		go p.reaperLoop()
	}
	return p
}

// Stop terminates the reaper.
func (p *Presence) Stop() {
	p.stopOnce.Do(func() { close(p.stopCh) })
}

// Register records one new connection for a member.
func (p *Presence) Register(ctx context.Context, userID uint) {
	p.mu.Lock()
	p.localConns[userID]++
	p.mu.Unlock()
	p.touch(ctx, userID)
}

// Unregister records one dropped connection for a member.
func (p *Presence) Unregister(ctx context.Context, userID uint) {
	p.mu.Lock()
	if n := p.localConns[userID]; n > 1 {
		p.localConns[userID] = n - 1
		p.mu.Unlock()
		return
	}
	delete(p.localConns, userID)
	p.mu.Unlock()

	if p.rdb != nil {
		uid := strconv.FormatUint(uint64(userID), 10)
		_ = p.rdb.SRem(ctx, presenceOnlineSetKey, uid).Err()
		_ = p.rdb.Del(ctx, lastSeenKey(userID)).Err()
	}
}

// IsOnline reports whether the member has a live connection anywhere.
func (p *Presence) IsOnline(ctx context.Context, userID uint) bool {
	p.mu.RLock()
	if p.localConns[userID] > 0 {
		p.mu.RUnlock()
		return true
	}
	p.mu.RUnlock()

	if p.rdb == nil {
		return false
	}
	exists, err := p.rdb.Exists(ctx, lastSeenKey(userID)).Result()
	return err == nil && exists > 0
}

// OnlineUserIDs returns online members from Redis, filtered for staleness and
// unioned with local connections.
func (p *Presence) OnlineUserIDs(ctx context.Context) []uint {
	local := p.localUserIDs()
	if p.rdb == nil {
		return local
	}

	members, err := p.rdb.SMembers(ctx, presenceOnlineSetKey).Result()
	if err != nil {
		return local
	}

	seen := make(map[uint]struct{}, len(members)+len(local))
	result := make([]uint, 0, len(members)+len(local))

	for _, raw := range members {
		id64, parseErr := strconv.ParseUint(raw, 10, 32)
		if parseErr != nil {
			continue
		}
		userID := uint(id64)
		exists, existsErr := p.rdb.Exists(ctx, lastSeenKey(userID)).Result()
		if existsErr != nil {
			continue
		}
		if exists == 0 {
			_ = p.rdb.SRem(ctx, presenceOnlineSetKey, raw).Err()
			continue
		}
		seen[userID] = struct{}{}
		result = append(result, userID)
	}

	for _, userID := range local {
		if _, ok := seen[userID]; ok {
			continue
		}
		result = append(result, userID)
	}

	return result
}

func (p *Presence) touch(ctx context.Context, userID uint) {
	if p.rdb == nil {
		return
	}
	uid := strconv.FormatUint(uint64(userID), 10)
	if err := p.rdb.SAdd(ctx, presenceOnlineSetKey, uid).Err(); err != nil {
		log.Printf("presence SADD failed for user %d: %v", userID, err)
	}
	if err := p.rdb.SetEx(ctx, lastSeenKey(userID), strconv.FormatInt(time.Now().Unix(), 10), presenceTTL).Err(); err != nil {
		log.Printf("presence SETEX failed for user %d: %v", userID, err)
	}
}

// reapOnce drops set members whose last-seen key has expired.
func (p *Presence) reapOnce(ctx context.Context) {
	if p.rdb == nil {
		return
	}
	members, err := p.rdb.SMembers(ctx, presenceOnlineSetKey).Result()
	if err != nil {
		return
	}
	for _, raw := range members {
		id64, parseErr := strconv.ParseUint(raw, 10, 32)
		if parseErr != nil {
			continue
		}
		exists, existsErr := p.rdb.Exists(ctx, lastSeenKey(uint(id64))).Result()
		if existsErr != nil || exists > 0 {
			continue
		}
		_ = p.rdb.SRem(ctx, presenceOnlineSetKey, raw).Err()
	}
}

func (p *Presence) reaperLoop() {
	ticker := time.NewTicker(presenceReapInterval)
	defer ticker.Stop()
	ctx := context.Background()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.reapOnce(ctx)
		}
	}
}

func (p *Presence) localUserIDs() []uint {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ids := make([]uint, 0, len(p.localConns))
	for userID, count := range p.localConns {
		if count > 0 {
			ids = append(ids, userID)
		}
	}
	return ids
}

func lastSeenKey(userID uint) string {
	return presenceLastSeenKeyNS + strconv.FormatUint(uint64(userID), 10)
}
