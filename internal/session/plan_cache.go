package session

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"

	"github.com/mauriantolin/tu-carrera/internal/curriculum"
	"github.com/mauriantolin/tu-carrera/internal/planner"
	"github.com/mauriantolin/tu-carrera/internal/platform/cache"
)

const defaultPlanTTL = 10 * time.Minute

// PlanCache stores computed plans keyed by a fingerprint of their inputs.
type PlanCache interface {
	Get(ctx context.Context, fingerprint string) (*planner.Plan, bool)
	Set(ctx context.Context, fingerprint string, plan *planner.Plan) error
}

// Fingerprint hashes everything a plan depends on. version is the
// curriculum's catalog version, so editing a catalog under the same ID
// invalidates its cached plans. Equal inputs always give equal fingerprints
// since the completion set is hashed in sorted order.
func Fingerprint(curriculumID, version string, w planner.Weights, excludeElectives bool, set curriculum.CompletionSet) string {
	h, _ := blake2b.New256(nil)
	write := func(s string) {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	write(curriculumID)
	write(version)
	for _, f := range []float64{w.Impact, w.Proximity, w.YearWeight, w.FirstTermBonus, w.LaterTermBonus} {
		write(strconv.FormatFloat(f, 'g', -1, 64))
	}
	write(strconv.FormatBool(excludeElectives))
	for _, id := range set.Strings() {
		write(id)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// RedisPlanCache is a Redis-backed PlanCache.
type RedisPlanCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisPlanCache creates a plan cache. A zero ttl uses the default.
func NewRedisPlanCache(client *redis.Client, ttl time.Duration) *RedisPlanCache {
	if ttl <= 0 {
		ttl = defaultPlanTTL
	}
	return &RedisPlanCache{client: client, ttl: ttl}
}

func (c *RedisPlanCache) Get(ctx context.Context, fingerprint string) (*planner.Plan, bool) {
	data, err := c.client.Get(ctx, cache.Key("plan", fingerprint)).Bytes()
	if err != nil {
		return nil, false
	}
	var plan planner.Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, false
	}
	return &plan, true
}

func (c *RedisPlanCache) Set(ctx context.Context, fingerprint string, plan *planner.Plan) error {
	if plan == nil {
		return errors.New("plan is nil")
	}
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}
	if err := c.client.Set(ctx, cache.Key("plan", fingerprint), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache plan: %w", err)
	}
	return nil
}
