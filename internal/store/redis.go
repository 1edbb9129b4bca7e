package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"amartaka-bot/internal/model"
)

// DefaultRedisKey is the key holding the ledger document.
const DefaultRedisKey = "amartaka:document"

const defaultRedisRetries = 64

// Redis keeps the document under one key. Updates use WATCH/MULTI and are
// retried when another writer commits first.
type Redis struct {
	client     *redis.Client
	key        string
	maxRetries int
}

// NewRedis creates a store over key.
func NewRedis(client *redis.Client, key string) *Redis {
	if key == "" {
		key = DefaultRedisKey
	}
	return &Redis{client: client, key: key, maxRetries: defaultRedisRetries}
}

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *Redis) load(ctx context.Context, g getter) (*model.Document, error) {
	b, err := g.Get(ctx, r.key).Bytes()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	return Decode(b)
}

func (r *Redis) View(ctx context.Context, fn func(doc *model.Document) error) error {
	doc, err := r.load(ctx, r.client)
	if err != nil {
		return err
	}
	return fn(doc)
}

func (r *Redis) Update(ctx context.Context, fn func(doc *model.Document) error) error {
	txf := func(tx *redis.Tx) error {
		doc, err := r.load(ctx, tx)
		if err != nil {
			return err
		}
		if err := fn(doc); err != nil {
			return err
		}
		out, err := Encode(doc)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, r.key, out, 0)
			return nil
		})
		return err
	}

	for i := 0; i < r.maxRetries; i++ {
		err := r.client.Watch(ctx, txf, r.key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return ErrConflict
}

// Close is a no-op: the client is owned by the caller.
func (r *Redis) Close() error { return nil }
