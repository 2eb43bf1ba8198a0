package cli

import (
	"context"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/labelforge/labelforge/internal/config"
	"github.com/labelforge/labelforge/internal/server"
	"github.com/labelforge/labelforge/pkg/auth"
	"github.com/labelforge/labelforge/pkg/session"
	"github.com/labelforge/labelforge/pkg/store"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	configPath string // TOML config file path
	addr       string // listen address override
}

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the labelforge HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "TOML config file path")
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (overrides config)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.addr != "" {
		cfg.Addr = opts.addr
	}

	users, batches, cleanup, err := c.newStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	sessions, err := c.newSessionStore(ctx, cfg)
	if err != nil {
		return err
	}

	logger := loggerFromContext(ctx)
	srv := server.New(cfg, users, sessions, batches, server.WithLogger(logger))
	logger.Info("Starting server", "addr", cfg.Addr, "output", cfg.OutputDir)
	return srv.Run(ctx)
}

// newStores builds the user and batch stores, backed by MongoDB when
// configured and in-memory otherwise.
func (c *CLI) newStores(ctx context.Context, cfg *config.Config) (auth.Store, store.Store, func(), error) {
	if cfg.Mongo.URI == "" {
		c.Logger.Debug("Mongo not configured, using in-memory stores")
		return auth.NewMemoryStore(), store.NewMemoryStore(), func() {}, nil
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, nil, nil, err
	}
	cleanup := func() {
		_ = client.Disconnect(context.Background())
	}

	db := client.Database(cfg.Mongo.Database)
	users, err := auth.NewMongoStore(ctx, db)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	batches, err := store.NewMongoStore(ctx, db)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	c.Logger.Info("Connected to MongoDB", "database", cfg.Mongo.Database)
	return users, batches, cleanup, nil
}

// newSessionStore builds the session store, backed by Redis when
// configured and in-memory otherwise.
func (c *CLI) newSessionStore(ctx context.Context, cfg *config.Config) (session.Store, error) {
	if cfg.Redis.Addr == "" {
		c.Logger.Debug("Redis not configured, using in-memory sessions")
		return session.NewMemoryStore(), nil
	}

	s, err := session.NewRedisStore(ctx, session.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, err
	}
	c.Logger.Info("Connected to Redis", "addr", cfg.Redis.Addr)
	return s, nil
}
