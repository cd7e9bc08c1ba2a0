package chromago

import (
	"log/slog"
	"os"
	"time"

	"github.com/blueberrycongee/chromago/pkg/types"
)

const (
	// DefaultEndpoint is the Chroma server URL used when nothing else is
	// configured.
	DefaultEndpoint = "http://localhost:8000"

	// DefaultTenant is the sentinel tenant every fresh server exposes.
	DefaultTenant = "default_tenant"

	// DefaultDatabase is the sentinel database every fresh server exposes.
	DefaultDatabase = "default_database"

	// DefaultConnections sizes the transport's connection pool.
	DefaultConnections = 4
)

// Environment variables consulted when no explicit URL is configured,
// in priority order.
const (
	envHost = "CHROMA_HOST"
	envURL  = "CHROMA_URL"
)

// ClientConfig holds all configuration for the client. Once the client is
// constructed, its (tenant, database, endpoint, auth) tuple is immutable.
type ClientConfig struct {
	// URL is the Chroma server URL. When empty, CHROMA_HOST, then
	// CHROMA_URL, then DefaultEndpoint are used.
	URL string

	// Auth is the authentication method for every request.
	Auth types.AuthMethod

	// Tenant and Database scope all collection operations on the server.
	Tenant   string
	Database string

	// Connections sizes the transport's connection pool.
	Connections int

	// Timeout bounds each HTTP request. Zero means no client-side timeout.
	Timeout time.Duration

	// Logger receives debug logs for every request.
	Logger *slog.Logger
}

// Option is a function that configures the Client.
type Option func(*ClientConfig)

// defaultConfig returns sensible defaults.
func defaultConfig() *ClientConfig {
	return &ClientConfig{
		Tenant:      DefaultTenant,
		Database:    DefaultDatabase,
		Connections: DefaultConnections,
		Timeout:     30 * time.Second,
		Logger:      slog.Default(),
	}
}

// resolveEndpoint picks the server URL: explicit value, then CHROMA_HOST,
// then CHROMA_URL, then the local default.
func resolveEndpoint(url string) string {
	if url != "" {
		return url
	}
	if host := os.Getenv(envHost); host != "" {
		return host
	}
	if host := os.Getenv(envURL); host != "" {
		return host
	}
	return DefaultEndpoint
}

// WithURL sets the Chroma server URL.
func WithURL(url string) Option {
	return func(c *ClientConfig) {
		c.URL = url
	}
}

// WithAuth sets the authentication method.
func WithAuth(auth types.AuthMethod) Option {
	return func(c *ClientConfig) {
		c.Auth = auth
	}
}

// WithTokenAuth authenticates with a bearer token in the Authorization header.
func WithTokenAuth(token string) Option {
	return WithAuth(types.AuthMethod{
		Token:  token,
		Header: types.TokenHeaderAuthorization,
	})
}

// WithXChromaToken authenticates with a token in the X-Chroma-Token header.
func WithXChromaToken(token string) Option {
	return WithAuth(types.AuthMethod{
		Token:  token,
		Header: types.TokenHeaderXChromaToken,
	})
}

// WithTenant sets the tenant to scope all operations to.
func WithTenant(tenant string) Option {
	return func(c *ClientConfig) {
		c.Tenant = tenant
	}
}

// WithDatabase sets the database to scope all operations to. It must exist
// and match the authorization.
func WithDatabase(database string) Option {
	return func(c *ClientConfig) {
		c.Database = database
	}
}

// WithConnections sets the number of pooled connections to the server.
func WithConnections(n int) Option {
	return func(c *ClientConfig) {
		c.Connections = n
	}
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *ClientConfig) {
		c.Timeout = d
	}
}

// WithLogger sets the logger for the client.
func WithLogger(logger *slog.Logger) Option {
	return func(c *ClientConfig) {
		c.Logger = logger
	}
}
