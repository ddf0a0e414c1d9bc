package sdk

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/agentcat/sdk/catalog"
	"github.com/agentcat/sdk/config"
	"github.com/agentcat/sdk/store"
)

// Catalog bundles the per-kind entity clients over a single backend.
// All clients share the backend connection, logger, and telemetry.
type Catalog struct {
	backend catalog.Backend
	logger  *slog.Logger

	profiles    *catalog.ProfileClient
	tools       *catalog.ToolClient
	tasks       *catalog.TaskClient
	agents      *catalog.AgentClient
	teams       *catalog.TeamClient
	credentials *catalog.CredentialClient
}

// New creates a Catalog over an existing backend.
//
// Example:
//
//	st, err := store.NewRedis(store.RedisOptions{URL: "redis://localhost:6379"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cat := sdk.New(st, sdk.WithLogger(logger))
//	defer cat.Close()
func New(backend catalog.Backend, opts ...Option) *Catalog {
	cfg := &catalogConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	clientOpts := []catalog.ClientOption{catalog.WithLogger(cfg.logger)}
	if cfg.tracer != nil {
		clientOpts = append(clientOpts, catalog.WithTracer(cfg.tracer))
	}
	if cfg.meter != nil {
		clientOpts = append(clientOpts, catalog.WithMeter(cfg.meter))
	}

	return &Catalog{
		backend:     backend,
		logger:      cfg.logger,
		profiles:    catalog.NewProfiles(backend, clientOpts...),
		tools:       catalog.NewTools(backend, clientOpts...),
		tasks:       catalog.NewTasks(backend, clientOpts...),
		agents:      catalog.NewAgents(backend, clientOpts...),
		teams:       catalog.NewTeams(backend, clientOpts...),
		credentials: catalog.NewCredentials(backend, clientOpts...),
	}
}

// Open loads a catalog.yaml configuration from path, connects the configured
// store, and returns a Catalog over it. The path may be a file or a directory
// containing catalog.yaml.
func Open(path string, opts ...Option) (*Catalog, error) {
	cfg := &catalogConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	fileCfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog config: %w", err)
	}

	storeOpts := []store.Option{}
	if cfg.logger != nil {
		storeOpts = append(storeOpts, store.WithStoreLogger(cfg.logger))
	}
	if cfg.runner != nil {
		storeOpts = append(storeOpts, store.WithRunner(cfg.runner))
	}

	backend, err := openStore(fileCfg.Store, storeOpts)
	if err != nil {
		return nil, err
	}

	return New(backend, opts...), nil
}

func openStore(sc *config.StoreConfig, storeOpts []store.Option) (catalog.Backend, error) {
	switch sc.Driver {
	case config.DriverRedis:
		return store.NewRedis(store.RedisOptions{
			URL:            sc.Redis.URL,
			Namespace:      sc.GetNamespace(),
			ConnectTimeout: sc.Redis.GetConnectTimeout(),
			ReadTimeout:    sc.Redis.GetReadTimeout(),
			WriteTimeout:   sc.Redis.GetWriteTimeout(),
		}, storeOpts...)
	case config.DriverEtcd:
		eo := store.EtcdOptions{
			Endpoints:   sc.Etcd.Endpoints,
			Namespace:   sc.GetNamespace(),
			DialTimeout: sc.Etcd.GetDialTimeout(),
		}
		if t := sc.Etcd.TLS; t != nil {
			eo.TLS = &store.TLSConfig{
				Enabled:  t.Enabled,
				CertFile: t.CertFile,
				KeyFile:  t.KeyFile,
				CAFile:   t.CAFile,
			}
		}
		return store.NewEtcd(eo, storeOpts...)
	default:
		return nil, fmt.Errorf("unknown store driver %q", sc.Driver)
	}
}

// Profiles returns the client for LLM profile entities.
func (c *Catalog) Profiles() *catalog.ProfileClient { return c.profiles }

// Tools returns the client for tool entities.
func (c *Catalog) Tools() *catalog.ToolClient { return c.tools }

// Tasks returns the client for task entities.
func (c *Catalog) Tasks() *catalog.TaskClient { return c.tasks }

// Agents returns the client for agent entities.
func (c *Catalog) Agents() *catalog.AgentClient { return c.agents }

// Teams returns the client for team entities.
func (c *Catalog) Teams() *catalog.TeamClient { return c.teams }

// Credentials returns the client for store credentials.
func (c *Catalog) Credentials() *catalog.CredentialClient { return c.credentials }

// Backend exposes the underlying backend, mainly for tests and advanced use.
func (c *Catalog) Backend() catalog.Backend { return c.backend }

// Close releases the backend connection. The Catalog must not be used after
// Close returns.
func (c *Catalog) Close() error {
	return c.backend.Close()
}
