package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "tm:"

// Redis is a translation memory shared across processes, with one
// JSON-encoded entry per key. Same key scheme as the in-memory store.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// NewRedisFromURL dials a Redis URL (redis://host:port/db).
func NewRedisFromURL(rawURL string) (*Redis, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return NewRedis(redis.NewClient(opts)), nil
}

func (m *Redis) Lookup(ctx context.Context, text, sourceLang, targetLang string) (string, bool, error) {
	if m == nil || m.client == nil {
		return "", false, fmt.Errorf("redis memory is not initialized")
	}

	key := redisKeyPrefix + Key(text, sourceLang, targetLang)
	raw, err := m.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis lookup: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return "", false, fmt.Errorf("decode memory entry: %w", err)
	}

	entry.UsageCount++
	entry.LastUsed = time.Now().UTC()
	if encoded, err := json.Marshal(entry); err == nil {
		// Counter bumps are advisory; a lost update is acceptable.
		_ = m.client.Set(ctx, key, encoded, 0).Err()
	}
	return entry.TranslatedText, true, nil
}

func (m *Redis) Store(ctx context.Context, sourceTexts, translatedTexts []string, sourceLang, targetLang string) error {
	if m == nil || m.client == nil {
		return fmt.Errorf("redis memory is not initialized")
	}
	if len(sourceTexts) != len(translatedTexts) {
		return fmt.Errorf("memory store: %d source texts but %d translations", len(sourceTexts), len(translatedTexts))
	}

	now := time.Now().UTC()
	pipe := m.client.Pipeline()
	for i, text := range sourceTexts {
		entry := Entry{
			SourceText:     text,
			TranslatedText: translatedTexts[i],
			SourceLang:     sourceLang,
			TargetLang:     targetLang,
			LastUsed:       now,
			CreatedAt:      now,
		}
		encoded, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("encode memory entry: %w", err)
		}
		pipe.Set(ctx, redisKeyPrefix+Key(text, sourceLang, targetLang), encoded, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis store: %w", err)
	}
	return nil
}

func (m *Redis) Clear(ctx context.Context) error {
	keys, err := m.scanKeys(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	if err := m.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis clear: %w", err)
	}
	return nil
}

func (m *Redis) Export(ctx context.Context) ([]Entry, error) {
	keys, err := m.scanKeys(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(keys))
	for _, key := range keys {
		raw, err := m.client.Get(ctx, key).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("redis export: %w", err)
		}
		var entry Entry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			return nil, fmt.Errorf("decode memory entry %s: %w", key, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (m *Redis) Import(ctx context.Context, entries []Entry) error {
	if m == nil || m.client == nil {
		return fmt.Errorf("redis memory is not initialized")
	}

	pipe := m.client.Pipeline()
	for _, entry := range entries {
		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = time.Now().UTC()
		}
		encoded, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("encode memory entry: %w", err)
		}
		pipe.Set(ctx, redisKeyPrefix+Key(entry.SourceText, entry.SourceLang, entry.TargetLang), encoded, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis import: %w", err)
	}
	return nil
}

func (m *Redis) Stats(ctx context.Context) (Stats, error) {
	entries, err := m.Export(ctx)
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{Entries: len(entries)}
	for _, entry := range entries {
		stats.TotalHits += entry.UsageCount
	}
	return stats, nil
}

func (m *Redis) scanKeys(ctx context.Context) ([]string, error) {
	if m == nil || m.client == nil {
		return nil, fmt.Errorf("redis memory is not initialized")
	}

	var keys []string
	var cursor uint64
	for {
		batch, next, err := m.client.Scan(ctx, cursor, redisKeyPrefix+"*", 256).Result()
		if err != nil {
			return nil, fmt.Errorf("redis scan: %w", err)
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			return keys, nil
		}
	}
}
