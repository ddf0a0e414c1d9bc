package store

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures the Redis-backed store.
type RedisOptions struct {
	// URL is the Redis connection string (e.g. "redis://localhost:6379").
	URL string

	// Namespace prefixes every key so several catalogs can share one Redis.
	// Defaults to "agentcat".
	Namespace string

	// TLS configuration for secure connections.
	TLS *tls.Config

	// ConnectTimeout is the maximum time to wait for connection
	// establishment. Defaults to 5s.
	ConnectTimeout time.Duration

	// ReadTimeout is the maximum time to wait for read operations.
	// Defaults to 3s.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait for write operations.
	// Defaults to 3s.
	WriteTimeout time.Duration
}

// NewRedis creates a catalog store backed by Redis. Connectivity is verified
// with a Ping before the store is returned.
func NewRedis(opts RedisOptions, storeOpts ...Option) (*Store, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}
	if opts.Namespace == "" {
		opts.Namespace = "agentcat"
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 3 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 3 * time.Second
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	redisOpts.TLSConfig = opts.TLS
	redisOpts.DialTimeout = opts.ConnectTimeout
	redisOpts.ReadTimeout = opts.ReadTimeout
	redisOpts.WriteTimeout = opts.WriteTimeout

	client := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	docs := &redisStore{client: client, namespace: opts.Namespace}
	return newStore(docs, storeOpts...), nil
}

// redisStore keeps each document as a JSON string under
// <namespace>:<collection>:<name>.
type redisStore struct {
	client    *redis.Client
	namespace string
}

func (r *redisStore) key(collection, name string) string {
	return fmt.Sprintf("%s:%s:%s", r.namespace, collection, name)
}

func (r *redisStore) get(ctx context.Context, collection, name string) (*document, error) {
	data, err := r.client.Get(ctx, r.key(collection, name)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s %q: %w", collection, name, err)
	}

	var doc document
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return nil, fmt.Errorf("failed to decode %s %q: %w", collection, name, err)
	}
	return &doc, nil
}

func (r *redisStore) put(ctx context.Context, collection, name string, doc *document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s %q: %w", collection, name, err)
	}
	if err := r.client.Set(ctx, r.key(collection, name), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s %q: %w", collection, name, err)
	}
	return nil
}

func (r *redisStore) delete(ctx context.Context, collection, name string) error {
	if err := r.client.Del(ctx, r.key(collection, name)).Err(); err != nil {
		return fmt.Errorf("failed to delete %s %q: %w", collection, name, err)
	}
	return nil
}

func (r *redisStore) scan(ctx context.Context, collection string) ([]*document, error) {
	pattern := fmt.Sprintf("%s:%s:*", r.namespace, collection)

	var docs []*document
	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		data, err := r.client.Get(ctx, iter.Val()).Result()
		if err != nil {
			if err == redis.Nil {
				// Deleted between SCAN and GET.
				continue
			}
			return nil, fmt.Errorf("failed to read %s: %w", iter.Val(), err)
		}

		var doc document
		if err := json.Unmarshal([]byte(data), &doc); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", iter.Val(), err)
		}
		docs = append(docs, &doc)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", collection, err)
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs, nil
}

func (r *redisStore) close() error {
	return r.client.Close()
}
