// Package redis stores the activity directory in Redis: one JSON document per
// activity plus a list holding activity names in seed order.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"activitysignup/internal/domain"
)

const (
	namesKey         = "activities:names"
	activityPrefix   = "activity:"
	maxUpdateRetries = 16
)

// Config holds connection settings for the Redis store.
type Config struct {
	Address  string
	Password string
	DB       int
}

// NewClient creates a Redis client with the store's timeouts.
func NewClient(cfg Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}

// activityDoc is the stored form of an activity.
type activityDoc struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

func toDoc(a *domain.Activity) activityDoc {
	participants := a.Participants
	if participants == nil {
		participants = []string{}
	}
	return activityDoc{
		Name:            a.Name,
		Description:     a.Description,
		Schedule:        a.Schedule,
		MaxParticipants: a.MaxParticipants,
		Participants:    participants,
	}
}

func (d activityDoc) toDomain() *domain.Activity {
	return domain.NewActivity(d.Name, d.Description, d.Schedule, d.MaxParticipants, d.Participants...)
}

func activityKey(name string) string {
	return activityPrefix + name
}

type activityRepository struct {
	client *redis.Client
}

func NewActivityRepository(client *redis.Client) domain.ActivityRepository {
	return &activityRepository{client: client}
}

func (r *activityRepository) List(ctx context.Context) ([]*domain.Activity, error) {
	names, err := r.client.LRange(ctx, namesKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list activity names: %w", err)
	}
	if len(names) == 0 {
		return []*domain.Activity{}, nil
	}

	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = activityKey(name)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load activities: %w", err)
	}

	activities := make([]*domain.Activity, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// name listed without a document; skip it
			continue
		}
		var doc activityDoc
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return nil, fmt.Errorf("decode activity %q: %w", names[i], err)
		}
		activities = append(activities, doc.toDomain())
	}
	return activities, nil
}

// Update retries the optimistic WATCH/MULTI transaction while other writers
// keep changing the same key.
func (r *activityRepository) Update(ctx context.Context, name string, fn func(*domain.Activity) error) (*domain.Activity, error) {
	key := activityKey(name)

	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		var updated *domain.Activity
		err := r.client.Watch(ctx, func(tx *redis.Tx) error {
			raw, err := tx.Get(ctx, key).Bytes()
			if errors.Is(err, redis.Nil) {
				return domain.ErrNotFound
			}
			if err != nil {
				return fmt.Errorf("load activity: %w", err)
			}
			var doc activityDoc
			if err := json.Unmarshal(raw, &doc); err != nil {
				return fmt.Errorf("decode activity: %w", err)
			}

			a := doc.toDomain()
			if err := fn(a); err != nil {
				return err
			}
			a.Name = name

			data, err := json.Marshal(toDoc(a))
			if err != nil {
				return fmt.Errorf("encode activity: %w", err)
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, data, 0)
				return nil
			})
			if err != nil {
				return err
			}
			updated = a
			return nil
		}, key)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, fmt.Errorf("update activity %q: gave up after %d conflicting attempts", name, maxUpdateRetries)
}

// seedScript creates the activity document if it is missing and makes sure
// its name is on the ordered list. Both writes happen in one script, so a
// document can never exist without its list entry.
var seedScript = redis.NewScript(`
local created = redis.call('SETNX', KEYS[1], ARGV[1])
local names = redis.call('LRANGE', KEYS[2], 0, -1)
for _, n in ipairs(names) do
	if n == ARGV[2] then
		return created
	end
end
redis.call('RPUSH', KEYS[2], ARGV[2])
return created
`)

// Seed stores every seed activity that does not exist yet and appends any
// missing name to the ordered name list. Existing rosters are kept.
func Seed(ctx context.Context, client *redis.Client, seed []*domain.Activity) error {
	for _, a := range seed {
		data, err := json.Marshal(toDoc(a))
		if err != nil {
			return fmt.Errorf("encode activity %q: %w", a.Name, err)
		}
		keys := []string{activityKey(a.Name), namesKey}
		if err := seedScript.Run(ctx, client, keys, data, a.Name).Err(); err != nil {
			return fmt.Errorf("seed activity %q: %w", a.Name, err)
		}
	}
	return nil
}
