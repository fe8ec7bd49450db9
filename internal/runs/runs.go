// Package runs tracks extraction-run status in redis so the web layer can
// poll a task id instead of blocking on the run.
package runs

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"go-jobscout-automation/internal/telemetry"
)

type Status string

const (
	StatusPending Status = "PENDING"
	StatusStarted Status = "STARTED"
	StatusSuccess Status = "SUCCESS"
	StatusFailure Status = "FAILURE"
)

// State is what the status endpoint returns to polling callers. A SUCCESS
// with zero offers is a normal empty result, never an error.
type State struct {
	ID        string                          `json:"id"`
	Status    Status                          `json:"status"`
	Message   string                          `json:"message,omitempty"`
	Offers    int                             `json:"offers"`
	PerSite   map[string]telemetry.SiteCounts `json:"per_site,omitempty"`
	UpdatedAt time.Time                       `json:"updated_at"`
}

var ErrNotFound = errors.New("run not found")

const (
	keyPrefix = "jobscout:run:"
	stateTTL  = 24 * time.Hour
)

// NewClient parses redisURL and verifies connectivity.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

type Tracker struct {
	rdb *redis.Client
}

func NewTracker(rdb *redis.Client) *Tracker {
	return &Tracker{rdb: rdb}
}

// NewRunID returns a sortable, collision-resistant run identifier.
func NewRunID() string {
	buf := make([]byte, 4)
	rand.Read(buf)
	return time.Now().UTC().Format("20060102T150405") + "-" + hex.EncodeToString(buf)
}

// Put writes the run state with a 24h expiry.
func (t *Tracker) Put(ctx context.Context, state State) error {
	state.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal run state: %w", err)
	}
	if err := t.rdb.Set(ctx, keyPrefix+state.ID, data, stateTTL).Err(); err != nil {
		return fmt.Errorf("store run state: %w", err)
	}
	return nil
}

// Get reads the state for one run id.
func (t *Tracker) Get(ctx context.Context, id string) (*State, error) {
	data, err := t.rdb.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read run state: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse run state: %w", err)
	}
	return &state, nil
}
