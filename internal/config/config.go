// Package config loads the console's YAML configuration and turns it into
// the per-subsystem configs the rest of the module consumes.
//
// ${VAR} and $VAR references are expanded from the environment before
// parsing, so secrets can stay out of the file:
//
//	database: "postgres://trac:${TRAC_DB_PASSWORD}@db/trac"
package config

import (
	"os"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/koustreak/sqlconsole/internal/console"
	"github.com/koustreak/sqlconsole/internal/database"
	"github.com/koustreak/sqlconsole/internal/dialect"
	"github.com/koustreak/sqlconsole/internal/errs"
	"github.com/koustreak/sqlconsole/internal/filestore"
	"github.com/koustreak/sqlconsole/internal/format"
	"github.com/koustreak/sqlconsole/internal/logger"
	"github.com/koustreak/sqlconsole/internal/server"
)

// Config mirrors the YAML file.
type Config struct {
	Database string `yaml:"database"`
	BaseDir  string `yaml:"base_dir"`

	Pool   Pool   `yaml:"pool"`
	Query  Query  `yaml:"query"`
	Server Server `yaml:"server"`
	Log    Log    `yaml:"log"`
	Export Export `yaml:"export"`
}

type Pool struct {
	MaxConns        int32         `yaml:"max_conns"`
	MinConns        int32         `yaml:"min_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout"`
}

type Query struct {
	Limit    int    `yaml:"limit"`
	ReadOnly bool   `yaml:"read_only"`
	TimeUnit string `yaml:"time_unit"` // seconds, microseconds
	Location string `yaml:"location"`  // IANA name or "Local"
}

type Server struct {
	Addr       string        `yaml:"addr"`
	BaseURL    string        `yaml:"base_url"`
	Permission string        `yaml:"permission"`
	UserHeader string        `yaml:"user_header"`
	Admins     []string      `yaml:"admins"`
	ReadHeader time.Duration `yaml:"read_header_timeout"`
}

type Log struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	TimeFormat string `yaml:"time_format"`
}

type Export struct {
	Enabled   bool          `yaml:"enabled"`
	Endpoint  string        `yaml:"endpoint"`
	AccessKey string        `yaml:"access_key"`
	SecretKey string        `yaml:"secret_key"`
	UseSSL    bool          `yaml:"use_ssl"`
	Region    string        `yaml:"region"`
	Bucket    string        `yaml:"bucket"`
	Prefix    string        `yaml:"prefix"`
	TTL       time.Duration `yaml:"ttl"`
}

// Default returns the configuration used for any key the file leaves out.
func Default() *Config {
	return &Config{
		Database: "sqlite:db/trac.db",
		Pool: Pool{
			MaxConns:        10,
			MinConns:        2,
			ConnMaxLifetime: 30 * time.Minute,
			ConnMaxIdleTime: 5 * time.Minute,
			ConnectTimeout:  10 * time.Second,
		},
		Query: Query{
			Limit:    1000,
			ReadOnly: true,
			TimeUnit: string(format.Microseconds),
			Location: "Local",
		},
		Server: Server{
			Addr:       ":8080",
			Permission: server.DefaultPermission,
			UserHeader: server.DefaultUserHeader,
			ReadHeader: 10 * time.Second,
		},
		Log: Log{
			Level:      "info",
			Format:     "json",
			TimeFormat: "rfc3339",
		},
		Export: Export{
			Prefix: "sql-exports/",
			TTL:    15 * time.Minute,
		},
	}
}

// Load reads and validates the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "failed to read config", err)
	}
	return Parse(data)
}

// Parse expands environment references in data, decodes it over Default
// and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "failed to parse config", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database) == "" {
		return errs.New(errs.ErrKindInvalidInput, "database connection string is required")
	}
	if _, err := dialect.Parse(c.Database); err != nil {
		return err
	}
	if c.Query.Limit < 0 {
		return errs.Newf(errs.ErrKindInvalidInput, "query.limit must not be negative, got %d", c.Query.Limit)
	}
	switch format.TimeUnit(c.Query.TimeUnit) {
	case format.Seconds, format.Microseconds:
	default:
		return errs.Newf(errs.ErrKindInvalidInput, "query.time_unit must be seconds or microseconds, got %q", c.Query.TimeUnit)
	}
	if _, err := c.location(); err != nil {
		return err
	}
	if c.Pool.MinConns > c.Pool.MaxConns && c.Pool.MaxConns > 0 {
		return errs.Newf(errs.ErrKindInvalidInput, "pool.min_conns (%d) exceeds pool.max_conns (%d)", c.Pool.MinConns, c.Pool.MaxConns)
	}
	if c.Export.Enabled && (c.Export.Endpoint == "" || c.Export.Bucket == "") {
		return errs.New(errs.ErrKindInvalidInput, "export.endpoint and export.bucket are required when export is enabled")
	}
	return nil
}

// DatabaseConfig returns the connection and pool settings.
func (c *Config) DatabaseConfig() (*database.Config, error) {
	conn, err := dialect.Parse(c.Database)
	if err != nil {
		return nil, err
	}
	cfg := database.DefaultConfig(conn)
	cfg.BaseDir = c.BaseDir
	cfg.ReadOnly = c.Query.ReadOnly
	if c.Pool.MaxConns > 0 {
		cfg.MaxConns = c.Pool.MaxConns
	}
	if c.Pool.MinConns > 0 {
		cfg.MinConns = c.Pool.MinConns
	}
	if c.Pool.ConnMaxLifetime > 0 {
		cfg.MaxConnLifetime = c.Pool.ConnMaxLifetime
	}
	if c.Pool.ConnMaxIdleTime > 0 {
		cfg.MaxConnIdleTime = c.Pool.ConnMaxIdleTime
	}
	if c.Pool.ConnectTimeout > 0 {
		cfg.ConnectTimeout = c.Pool.ConnectTimeout
	}
	return cfg, nil
}

// ConsoleConfig returns the execution policy.
func (c *Config) ConsoleConfig() console.Config {
	return console.Config{Limit: c.Query.Limit, ReadOnly: c.Query.ReadOnly}
}

// FormatConfig returns the formatter settings. Links resolve under the
// server's base URL.
func (c *Config) FormatConfig() (format.Config, error) {
	loc, err := c.location()
	if err != nil {
		return format.Config{}, err
	}
	return format.Config{
		Links:    format.PathLinks{Base: c.Server.BaseURL},
		TimeUnit: format.TimeUnit(c.Query.TimeUnit),
		Location: loc,
	}, nil
}

// LoggerConfig returns the logger settings writing to stdout.
func (c *Config) LoggerConfig() *logger.Config {
	cfg := logger.DefaultConfig()
	cfg.Level = c.Log.Level
	cfg.Format = c.Log.Format
	cfg.TimeFormat = c.Log.TimeFormat
	return cfg
}

// ServerConfig returns the HTTP adapter settings.
func (c *Config) ServerConfig() server.Config {
	return server.Config{
		Addr:              c.Server.Addr,
		Permission:        c.Server.Permission,
		UserHeader:        c.Server.UserHeader,
		Admins:            append([]string(nil), c.Server.Admins...),
		ReadHeaderTimeout: c.Server.ReadHeader,
	}
}

// ExportConfig returns the object store settings, or nil when publishing
// is disabled.
func (c *Config) ExportConfig() *filestore.Config {
	if !c.Export.Enabled {
		return nil
	}
	return &filestore.Config{
		Provider:  filestore.ProviderMinIO,
		Endpoint:  c.Export.Endpoint,
		AccessKey: c.Export.AccessKey,
		SecretKey: c.Export.SecretKey,
		UseSSL:    c.Export.UseSSL,
		Region:    c.Export.Region,
		Bucket:    c.Export.Bucket,
		Prefix:    c.Export.Prefix,
		TTL:       c.Export.TTL,
	}
}

func (c *Config) location() (*time.Location, error) {
	switch c.Query.Location {
	case "", "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Query.Location)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "invalid query.location", err)
	}
	return loc, nil
}
