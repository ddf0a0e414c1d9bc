package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// EtcdOptions configures the etcd-backed store.
type EtcdOptions struct {
	// Endpoints lists the etcd cluster endpoints. Required.
	Endpoints []string

	// Namespace prefixes every key so several catalogs can share one
	// cluster. Defaults to "agentcat".
	Namespace string

	// DialTimeout bounds connection establishment. Defaults to 5s.
	DialTimeout time.Duration

	// TLS enables mutual TLS against the cluster.
	TLS *TLSConfig
}

// NewEtcd creates a catalog store backed by etcd. Connectivity is verified
// with a read before the store is returned.
func NewEtcd(opts EtcdOptions, storeOpts ...Option) (*Store, error) {
	if len(opts.Endpoints) == 0 {
		return nil, fmt.Errorf("etcd endpoints cannot be empty")
	}
	if opts.Namespace == "" {
		opts.Namespace = "agentcat"
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = 5 * time.Second
	}

	clientCfg := clientv3.Config{
		Endpoints:   opts.Endpoints,
		DialTimeout: opts.DialTimeout,
	}

	if opts.TLS != nil && opts.TLS.Enabled {
		tlsConfig, err := opts.TLS.clientConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to configure TLS: %w", err)
		}
		clientCfg.TLS = tlsConfig
	}

	cli, err := clientv3.New(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create etcd client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.DialTimeout)
	defer cancel()

	if _, err := cli.Get(ctx, "health-check"); err != nil && err != context.DeadlineExceeded {
		cli.Close()
		return nil, fmt.Errorf("etcd health check failed: %w", err)
	}

	docs := &etcdStore{client: cli, namespace: opts.Namespace}
	return newStore(docs, storeOpts...), nil
}

// etcdStore keeps each document as a JSON value under
// /<namespace>/<collection>/<name>.
type etcdStore struct {
	client    *clientv3.Client
	namespace string
}

func (e *etcdStore) key(collection, name string) string {
	return fmt.Sprintf("/%s/%s/%s", e.namespace, collection, name)
}

func (e *etcdStore) get(ctx context.Context, collection, name string) (*document, error) {
	resp, err := e.client.Get(ctx, e.key(collection, name))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s %q: %w", collection, name, err)
	}
	if len(resp.Kvs) == 0 {
		return nil, nil
	}

	var doc document
	if err := json.Unmarshal(resp.Kvs[0].Value, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode %s %q: %w", collection, name, err)
	}
	return &doc, nil
}

func (e *etcdStore) put(ctx context.Context, collection, name string, doc *document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s %q: %w", collection, name, err)
	}
	if _, err := e.client.Put(ctx, e.key(collection, name), string(data)); err != nil {
		return fmt.Errorf("failed to write %s %q: %w", collection, name, err)
	}
	return nil
}

func (e *etcdStore) delete(ctx context.Context, collection, name string) error {
	if _, err := e.client.Delete(ctx, e.key(collection, name)); err != nil {
		return fmt.Errorf("failed to delete %s %q: %w", collection, name, err)
	}
	return nil
}

func (e *etcdStore) scan(ctx context.Context, collection string) ([]*document, error) {
	prefix := fmt.Sprintf("/%s/%s/", e.namespace, collection)

	// Keys come back sorted by etcd; that is already name order under one
	// prefix.
	resp, err := e.client.Get(ctx, prefix, clientv3.WithPrefix(), clientv3.WithSort(clientv3.SortByKey, clientv3.SortAscend))
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", collection, err)
	}

	docs := make([]*document, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		var doc document
		if err := json.Unmarshal(kv.Value, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", string(kv.Key), err)
		}
		docs = append(docs, &doc)
	}
	return docs, nil
}

func (e *etcdStore) close() error {
	return e.client.Close()
}
