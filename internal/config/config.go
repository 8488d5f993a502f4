// Package config loads huffviz settings.
//
// Values are layered: built-in defaults, then an optional TOML file, then
// HUFFVIZ_* environment variables. Command-line flags are applied last by
// the CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"

	"github.com/matzehuels/huffviz/pkg/huffman/layout"
	"github.com/matzehuels/huffviz/pkg/pipeline"
)

const appName = "huffviz"

// Backend names.
const (
	BackendFile  = "file"
	BackendMongo = "mongo"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config holds all huffviz configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
	Cache   CacheConfig   `toml:"cache"`
	Layout  LayoutConfig  `toml:"layout"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	MaxUploadBytes int64    `toml:"max_upload_bytes"`
	ReadTimeout    Duration `toml:"read_timeout"`
	WriteTimeout   Duration `toml:"write_timeout"`
}

// StorageConfig selects where compressed and decompressed files are kept.
type StorageConfig struct {
	Backend         string `toml:"backend"` // "file" or "mongo"
	Dir             string `toml:"dir"`
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// CacheConfig selects the result cache.
type CacheConfig struct {
	Backend       string   `toml:"backend"` // "file", "redis" or "none"
	Dir           string   `toml:"dir"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisDB       int      `toml:"redis_db"`
	RedisPassword string   `toml:"redis_password"`
	Prefix        string   `toml:"prefix"`
	TTL           Duration `toml:"ttl"`
}

// LayoutConfig holds default layout geometry.
type LayoutConfig struct {
	Policy       string  `toml:"policy"`
	InitialSpan  float64 `toml:"initial_span"`
	Scale        float64 `toml:"scale"`
	LevelHeight  float64 `toml:"level_height"`
	MarginX      float64 `toml:"margin_x"`
	MarginY      float64 `toml:"margin_y"`
	AnchorOffset float64 `toml:"anchor_offset"`
}

// Duration is a time.Duration written as a string ("30s") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:           ":5000",
			MaxUploadBytes: 16 << 20,
			ReadTimeout:    Duration{30 * time.Second},
			WriteTimeout:   Duration{60 * time.Second},
		},
		Storage: StorageConfig{
			Backend:         BackendFile,
			MongoDatabase:   appName,
			MongoCollection: "artifacts",
		},
		Cache: CacheConfig{
			Backend:   BackendFile,
			RedisAddr: "localhost:6379",
			Prefix:    appName + ":",
		},
		Layout: LayoutConfig{
			Policy:       layout.PolicyHalving,
			InitialSpan:  layout.DefaultInitialSpan,
			Scale:        layout.DefaultScale,
			LevelHeight:  layout.DefaultLevelHeight,
			MarginX:      layout.DefaultMarginX,
			MarginY:      layout.DefaultMarginY,
			AnchorOffset: layout.DefaultAnchorOffset,
		},
	}
}

// Load reads configuration. An explicit path must exist; with an empty path
// the file at DefaultPath is read when present. Environment overrides are
// applied on top and the result is validated.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if explicit || !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("load config %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var err error
	if c.Server.Addr == "" {
		err = multierr.Append(err, fmt.Errorf("server.addr must not be empty"))
	}
	if c.Server.MaxUploadBytes <= 0 {
		err = multierr.Append(err, fmt.Errorf("server.max_upload_bytes must be positive, got %d", c.Server.MaxUploadBytes))
	}
	switch c.Storage.Backend {
	case BackendFile:
	case BackendMongo:
		if c.Storage.MongoURI == "" {
			err = multierr.Append(err, fmt.Errorf("storage.mongo_uri is required for the mongo backend"))
		}
	default:
		err = multierr.Append(err, fmt.Errorf("storage.backend must be %q or %q, got %q", BackendFile, BackendMongo, c.Storage.Backend))
	}
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			err = multierr.Append(err, fmt.Errorf("cache.redis_addr is required for the redis backend"))
		}
	default:
		err = multierr.Append(err, fmt.Errorf("cache.backend must be %q, %q or %q, got %q", BackendFile, BackendRedis, BackendNone, c.Cache.Backend))
	}
	if c.Layout.Policy != layout.PolicyHalving && c.Layout.Policy != layout.PolicyLeafSlots {
		err = multierr.Append(err, fmt.Errorf("layout.policy must be %q or %q, got %q", layout.PolicyHalving, layout.PolicyLeafSlots, c.Layout.Policy))
	}
	for name, v := range map[string]float64{
		"layout.scale":        c.Layout.Scale,
		"layout.level_height": c.Layout.LevelHeight,
	} {
		if v <= 0 {
			err = multierr.Append(err, fmt.Errorf("%s must be positive, got %v", name, v))
		}
	}
	return err
}

// Apply fills the layout fields of opts that are still unset.
func (l LayoutConfig) Apply(opts *pipeline.Options) {
	if opts.Policy == "" {
		opts.Policy = l.Policy
	}
	if opts.Span == 0 {
		opts.Span = l.InitialSpan
	}
	if opts.Scale == 0 {
		opts.Scale = l.Scale
	}
	if opts.LevelHeight == 0 {
		opts.LevelHeight = l.LevelHeight
	}
	if opts.MarginX == nil {
		opts.MarginX = pipeline.Margin(l.MarginX)
	}
	if opts.MarginY == nil {
		opts.MarginY = pipeline.Margin(l.MarginY)
	}
	if opts.AnchorOffset == 0 {
		opts.AnchorOffset = l.AnchorOffset
	}
}

func applyEnv(c *Config) {
	c.Server.Addr = getenv("HUFFVIZ_ADDR", c.Server.Addr)
	c.Server.MaxUploadBytes = int64(getenvInt("HUFFVIZ_MAX_UPLOAD_BYTES", int(c.Server.MaxUploadBytes)))

	c.Storage.Backend = getenv("HUFFVIZ_STORAGE", c.Storage.Backend)
	c.Storage.Dir = getenv("HUFFVIZ_STORAGE_DIR", c.Storage.Dir)
	c.Storage.MongoURI = getenv("HUFFVIZ_MONGO_URI", c.Storage.MongoURI)
	c.Storage.MongoDatabase = getenv("HUFFVIZ_MONGO_DATABASE", c.Storage.MongoDatabase)
	c.Storage.MongoCollection = getenv("HUFFVIZ_MONGO_COLLECTION", c.Storage.MongoCollection)

	c.Cache.Backend = getenv("HUFFVIZ_CACHE", c.Cache.Backend)
	c.Cache.Dir = getenv("HUFFVIZ_CACHE_DIR", c.Cache.Dir)
	c.Cache.RedisAddr = getenv("HUFFVIZ_REDIS_ADDR", c.Cache.RedisAddr)
	c.Cache.RedisDB = getenvInt("HUFFVIZ_REDIS_DB", c.Cache.RedisDB)
	c.Cache.RedisPassword = getenv("HUFFVIZ_REDIS_PASSWORD", c.Cache.RedisPassword)

	c.Layout.Policy = getenv("HUFFVIZ_LAYOUT_POLICY", c.Layout.Policy)
	c.Layout.InitialSpan = getenvFloat("HUFFVIZ_LAYOUT_SPAN", c.Layout.InitialSpan)
	c.Layout.Scale = getenvFloat("HUFFVIZ_LAYOUT_SCALE", c.Layout.Scale)
	c.Layout.LevelHeight = getenvFloat("HUFFVIZ_LAYOUT_LEVEL_HEIGHT", c.Layout.LevelHeight)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

// =============================================================================
// Paths
// =============================================================================

// DefaultPath returns the config file location (~/.config/huffviz/config.toml),
// honoring XDG_CONFIG_HOME. It returns "" when no home directory is known.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

// CacheDir returns the cache directory using XDG standard (~/.cache/huffviz/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// DataDir returns the directory for stored artifacts (~/.local/share/huffviz/).
func DataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

// ResolvedCacheDir returns Cache.Dir, falling back to CacheDir.
func (c Config) ResolvedCacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	return CacheDir()
}

// ResolvedStorageDir returns Storage.Dir, falling back to DataDir/artifacts.
func (c Config) ResolvedStorageDir() (string, error) {
	if c.Storage.Dir != "" {
		return c.Storage.Dir, nil
	}
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "artifacts"), nil
}
