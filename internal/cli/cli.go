package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/matzehuels/huffviz/internal/config"
	"github.com/matzehuels/huffviz/pkg/artifact"
	"github.com/matzehuels/huffviz/pkg/buildinfo"
	"github.com/matzehuels/huffviz/pkg/cache"
	"github.com/matzehuels/huffviz/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "huffviz"

	// cacheScope prefixes every cache key. Bump it when a cached format changes.
	cacheScope = "v1:"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath is set by the --config flag. Empty means the default location.
	ConfigPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "huffviz builds and draws Huffman prefix-code trees",
		Long: `huffviz counts symbol frequencies, builds the optimal prefix-code tree,
lays it out deterministically and renders it. It also compresses files with
the resulting codes and serves everything over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default ~/.config/huffviz/config.toml)")

	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.compressCommand())
	root.AddCommand(c.decompressCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	ch, err := newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, cache.NewScopedKeyer(nil, cacheScope), c.Logger)
	r.TTL = cfg.Cache.TTL.Duration
	return r, nil
}

func newCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, error) {
	if noCache || cfg.Cache.Backend == config.BackendNone {
		return cache.NewNullCache(), nil
	}
	if cfg.Cache.Backend == config.BackendRedis {
		rc := cache.NewRedisCache(&redis.Options{
			Addr:     cfg.Cache.RedisAddr,
			DB:       cfg.Cache.RedisDB,
			Password: cfg.Cache.RedisPassword,
		}, cfg.Cache.Prefix)
		if err := cache.RetryWithBackoff(ctx, func() error { return rc.Ping(ctx) }); err != nil {
			rc.Close()
			return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Cache.RedisAddr, err)
		}
		return rc, nil
	}
	dir, err := cfg.ResolvedCacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

func newStore(ctx context.Context, cfg config.Config) (artifact.Store, error) {
	if cfg.Storage.Backend == config.BackendMongo {
		return artifact.NewMongoStore(ctx, cfg.Storage.MongoURI, cfg.Storage.MongoDatabase, cfg.Storage.MongoCollection)
	}
	dir, err := cfg.ResolvedStorageDir()
	if err != nil {
		return nil, fmt.Errorf("storage dir: %w", err)
	}
	return artifact.NewFileStore(dir)
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// addLayoutFlags registers the layout knobs shared by visualize and explore.
// Zero values fall through to the config file and then to built-in defaults.
func addLayoutFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().StringVarP(&opts.VizType, "type", "t", "", "visualization type: tree (default), nodelink")
	cmd.Flags().StringVar(&opts.Policy, "policy", "", "horizontal spacing: halving (default), leaf-slots")
	cmd.Flags().Float64Var(&opts.Span, "span", 0, "root child offset in unit positions (halving)")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 0, "pixels per unit position")
	cmd.Flags().Float64Var(&opts.LevelHeight, "level-height", 0, "pixels between depths")
	cmd.Flags().Var(marginFlag{&opts.MarginX}, "margin-x", "left margin in pixels (0 allowed)")
	cmd.Flags().Var(marginFlag{&opts.MarginY}, "margin-y", "top margin in pixels (0 allowed)")
}

// marginFlag sets an optional margin only when the flag is given.
type marginFlag struct{ p **float64 }

func (f marginFlag) String() string {
	if f.p == nil || *f.p == nil {
		return ""
	}
	return strconv.FormatFloat(**f.p, 'g', -1, 64)
}

func (f marginFlag) Set(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	if v < 0 {
		return fmt.Errorf("margin must not be negative, got %v", v)
	}
	*f.p = pipeline.Margin(v)
	return nil
}

func (f marginFlag) Type() string { return "float" }
