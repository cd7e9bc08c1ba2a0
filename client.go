package chromago

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/blueberrycongee/chromago/internal/api"
	"github.com/blueberrycongee/chromago/internal/cache"
	"github.com/blueberrycongee/chromago/pkg/types"
)

// Client is a session scoped to one (tenant, database) pair on a Chroma
// server. It translates collection lifecycle operations into REST calls and
// keeps a per-session cache of collections it has already resolved, so that
// repeated get-or-create calls for the same name skip the network.
//
// Client is safe for concurrent use by multiple goroutines. The cache is
// only ever touched under its own lock, and never while a request is in
// flight, so concurrent operations do not serialize on network I/O.
type Client struct {
	api         *api.Client
	collections *cache.Store
	logger      *slog.Logger
}

// New creates a client with the given options.
//
// Example:
//
//	client, err := chromago.New(
//	    chromago.WithURL("http://localhost:8000"),
//	    chromago.WithTokenAuth(os.Getenv("CHROMA_TOKEN")),
//	    chromago.WithDatabase("recipes"),
//	)
func New(opts ...Option) (*Client, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return &Client{
		api: api.NewClient(api.Config{
			Endpoint:    resolveEndpoint(cfg.URL),
			Auth:        cfg.Auth,
			Tenant:      cfg.Tenant,
			Database:    cfg.Database,
			Connections: cfg.Connections,
			Timeout:     cfg.Timeout,
			Logger:      cfg.Logger,
		}),
		collections: cache.New(),
		logger:      cfg.Logger,
	}, nil
}

// Tenant returns the tenant this client is scoped to.
func (c *Client) Tenant() string { return c.api.Tenant() }

// Database returns the database this client is scoped to.
func (c *Client) Database() string { return c.api.Database() }

// Endpoint returns the resolved server endpoint.
func (c *Client) Endpoint() string { return c.api.Endpoint() }

// CreateCollection creates a collection with the given name.
//
// Metadata values must be numbers, strings, or booleans. When getOrCreate is
// true the existing collection is returned instead of an error, and a name
// this session has already resolved is answered from the cache without a
// network call: the session trusts its own resolutions for its lifetime.
//
// Fails with a conflict error if the collection exists and getOrCreate is
// false, with a validation error for an invalid name or metadata, and with a
// configuration error if the index configuration cannot be translated.
func (c *Client) CreateCollection(ctx context.Context, name string, metadata types.Metadata, configuration *CollectionConfiguration, getOrCreate bool) (*Collection, error) {
	if getOrCreate {
		if model, ok := c.collections.Lookup(name); ok {
			c.logger.DebugContext(ctx, "collection cache hit", "collection", name)
			return newCollection(model, c.api), nil
		}
	}

	if err := metadata.Validate(); err != nil {
		return nil, fmt.Errorf("create collection %q: %w", name, err)
	}
	config, err := configuration.toWire()
	if err != nil {
		return nil, fmt.Errorf("create collection %q: %w", name, err)
	}

	resp, err := c.api.PostDatabase(ctx, "/collections", map[string]any{
		"name":          name,
		"metadata":      metadata,
		"get_or_create": getOrCreate,
		"configuration": config,
	})
	if err != nil {
		return nil, fmt.Errorf("create collection %q: %w", name, err)
	}

	var model types.CollectionModel
	if err := resp.Decode(&model); err != nil {
		return nil, fmt.Errorf("create collection %q: %w", name, err)
	}

	// First writer wins: if a concurrent creator raced ahead, its entry
	// stays. The caller still gets the handle it personally created; both
	// are copies of the same server-side entity.
	c.collections.InsertIfAbsent(name, model)
	return newCollection(model, c.api), nil
}

// GetOrCreateCollection returns the collection with the given name, creating
// it if it does not exist. Equivalent to CreateCollection with getOrCreate
// set, including its caching behavior.
func (c *Client) GetOrCreateCollection(ctx context.Context, name string, metadata types.Metadata, configuration *CollectionConfiguration) (*Collection, error) {
	return c.CreateCollection(ctx, name, metadata, configuration, true)
}

// ListCollections returns all collections in the session's database. It
// always hits the network and neither consults nor populates the cache.
func (c *Client) ListCollections(ctx context.Context) ([]*Collection, error) {
	resp, err := c.api.GetDatabase(ctx, "/collections")
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}

	var models []types.CollectionModel
	if err := resp.Decode(&models); err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}

	collections := make([]*Collection, 0, len(models))
	for _, model := range models {
		collections = append(collections, newCollection(model, c.api))
	}
	return collections, nil
}

// GetCollection returns the collection with the given name. It always
// reflects live server state: unlike CreateCollection, a plain read has no
// creation race to short-circuit, so the cache is not consulted.
//
// Fails with a not found error if no such collection exists.
func (c *Client) GetCollection(ctx context.Context, name string) (*Collection, error) {
	resp, err := c.api.GetDatabase(ctx, "/collections/"+url.PathEscape(name))
	if err != nil {
		return nil, fmt.Errorf("get collection %q: %w", name, err)
	}

	var model types.CollectionModel
	if err := resp.Decode(&model); err != nil {
		return nil, fmt.Errorf("get collection %q: %w", name, err)
	}
	return newCollection(model, c.api), nil
}

// DeleteCollection deletes the collection with the given name and evicts any
// cached entry for it, so a later get-or-create re-detects the deletion
// instead of returning a stale handle.
//
// Fails with a not found error if no such collection exists.
func (c *Client) DeleteCollection(ctx context.Context, name string) error {
	_, err := c.api.DeleteDatabase(ctx, "/collections/"+url.PathEscape(name))
	if err != nil {
		return fmt.Errorf("delete collection %q: %w", name, err)
	}
	c.collections.Evict(name)
	return nil
}

// Version returns the server's version string.
func (c *Client) Version(ctx context.Context) (string, error) {
	resp, err := c.api.Get(ctx, "/version")
	if err != nil {
		return "", fmt.Errorf("version: %w", err)
	}

	var version string
	if err := resp.Decode(&version); err != nil {
		return "", fmt.Errorf("version: %w", err)
	}
	return version, nil
}

// Heartbeat returns the server's current time in nanoseconds since the
// epoch. Used to check that the server is alive.
func (c *Client) Heartbeat(ctx context.Context) (int64, error) {
	resp, err := c.api.Get(ctx, "/heartbeat")
	if err != nil {
		return 0, fmt.Errorf("heartbeat: %w", err)
	}

	var heartbeat types.HeartbeatResponse
	if err := resp.Decode(&heartbeat); err != nil {
		return 0, fmt.Errorf("heartbeat: %w", err)
	}
	return heartbeat.NanosecondHeartbeat, nil
}
