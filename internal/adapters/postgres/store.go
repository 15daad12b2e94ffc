package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// Cache port. Rows past expires_at read as misses; the sweeper deletes them.

func (db *DB) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := db.Pool.QueryRow(ctx, `
        SELECT value FROM cache_entries
        WHERE key = $1 AND expires_at > now()
    `, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (db *DB) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := db.Pool.Exec(ctx, `
        INSERT INTO cache_entries (key, value, expires_at)
        VALUES ($1, $2, now() + $3)
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at
    `, key, value, ttl)
	return err
}

// RateLimiter port. One row per (key, window index); the increment is a
// single upsert so concurrent requests count exactly. Rows expire two
// windows after creation so a rolled-over window cannot be resurrected.

func (db *DB) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	windowKey := fmt.Sprintf("rl:%s:%d", key, time.Now().Unix()/int64(window.Seconds()))
	var count int
	err := db.Pool.QueryRow(ctx, `
        INSERT INTO rate_counters (key, count, expires_at)
        VALUES ($1, 1, now() + $2)
        ON CONFLICT (key) DO UPDATE SET count = rate_counters.count + 1
        RETURNING count
    `, windowKey, 2*window).Scan(&count)
	if err != nil {
		return false, err
	}
	return count <= limit, nil
}

func (db *DB) PurgeExpired(ctx context.Context) (int, error) {
	removed := 0
	tag, err := db.Pool.Exec(ctx, `DELETE FROM cache_entries WHERE expires_at <= now()`)
	if err != nil {
		return removed, err
	}
	removed += int(tag.RowsAffected())
	tag, err = db.Pool.Exec(ctx, `DELETE FROM rate_counters WHERE expires_at <= now()`)
	if err != nil {
		return removed, err
	}
	removed += int(tag.RowsAffected())
	return removed, nil
}
