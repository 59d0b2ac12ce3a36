package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/vsinha/planviz/pkg/application/visualizer"
	"github.com/vsinha/planviz/pkg/infrastructure/host"
	"github.com/vsinha/planviz/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/planviz/pkg/interfaces/serve"
)

// ServeConfig holds configuration for the serve command. Empty fields fall
// back to the loaded configuration.
type ServeConfig struct {
	Addr       string
	WebhookURL string
	Title      string
}

// ServeCommand runs the HTTP surface until the context ends
type ServeCommand struct {
	config ServeConfig
	env    *Env
}

// NewServeCommand creates a new serve command
func NewServeCommand(config ServeConfig, env *Env) *ServeCommand {
	return &ServeCommand{config: config, env: env}
}

// Build assembles the event store, the session repository and the server
func (cmd *ServeCommand) Build() (*serve.Server, *memory.SessionRepository, error) {
	store, err := cmd.env.NewCallbackStore(cmd.config.WebhookURL)
	if err != nil {
		return nil, nil, err
	}

	repo := memory.NewSessionRepository(func(id string) *visualizer.Controller {
		return cmd.env.NewController(host.NewEventBridge(store, id))
	})

	server := serve.New(serve.Config{
		Sessions: repo,
		Events:   store,
		Logger:   cmd.env.Logger,
		Title:    cmd.config.Title,
	})
	return server, repo, nil
}

// Execute runs the serve command
func (cmd *ServeCommand) Execute(ctx context.Context) error {
	server, repo, err := cmd.Build()
	if err != nil {
		return err
	}

	sc := cmd.env.Config.Server
	addr := cmd.config.Addr
	if addr == "" {
		addr = sc.Addr
	}

	if sc.SessionTTL > 0 {
		go cmd.expireSessions(ctx, repo, sc.SessionTTL)
	}

	cmd.env.Logger.Info("serving planviz", "addr", addr)
	return server.ListenAndServe(ctx, addr, sc.ReadTimeout, sc.WriteTimeout, sc.ShutdownTimeout)
}

// expireSessions drops idle sessions every ttl/2 until ctx ends
func (cmd *ServeCommand) expireSessions(ctx context.Context, repo *memory.SessionRepository, ttl time.Duration) {
	ticker := time.NewTicker(ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := repo.Expire(ttl); n > 0 {
				cmd.env.Logger.Info("expired idle sessions", "count", n)
			}
		}
	}
}

func newServeCmd(env *Env) *cobra.Command {
	var config ServeConfig

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve charts over HTTP, one session per host view",
		Long: `Serve the chart API. Each session owns one chart; callbacks raised by
clicks and horizon changes are recorded and, when a webhook is configured,
forwarded to the host.

Examples:
  planviz serve
  planviz serve --addr :9090 --webhook http://localhost:3000/planviz`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return NewServeCommand(config, env).Execute(c.Context())
		},
	}

	cmd.Flags().StringVar(&config.Addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVar(&config.WebhookURL, "webhook", "", "host URL that receives callbacks")
	cmd.Flags().StringVar(&config.Title, "title", "", "page title for HTML views")

	return cmd
}
