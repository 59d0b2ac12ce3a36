// Package commands wires the planviz command line: each subcommand is a
// Config plus an Execute(ctx) command, exposed through cobra.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vsinha/planviz/pkg/application/visualizer"
	"github.com/vsinha/planviz/pkg/domain/entities"
	"github.com/vsinha/planviz/pkg/infrastructure/config"
	"github.com/vsinha/planviz/pkg/infrastructure/events"
	"github.com/vsinha/planviz/pkg/infrastructure/host"
	"github.com/vsinha/planviz/pkg/infrastructure/logging"
	"github.com/vsinha/planviz/pkg/infrastructure/render/text"
)

// Env carries what every subcommand shares once the root has loaded the
// configuration
type Env struct {
	Config config.Config
	Logger *slog.Logger
	Stdout io.Writer
	Stderr io.Writer
}

// NewController builds a controller styled and sized from the configuration
func (e *Env) NewController(bridge visualizer.HostBridge) *visualizer.Controller {
	c := visualizer.NewController(e.Config.Visualizer(), bridge, e.Logger)
	c.SetMeasurer(text.NewMeasurer())
	c.SetStyle(e.Config.ApplyStyle(visualizer.DefaultStyle()))
	return c
}

// NewCallbackStore creates the store host callbacks are appended to. When a
// webhook URL is given (or configured) every callback is also posted there.
func (e *Env) NewCallbackStore(webhookURL string) (*events.InMemoryEventStore, error) {
	store := events.NewInMemoryEventStore(e.Logger)
	if webhookURL == "" {
		webhookURL = e.Config.Host.WebhookURL
	}
	if webhookURL == "" {
		return store, nil
	}
	forwarder := host.NewWebhookForwarder(webhookURL, e.Config.Host.Timeout)
	if err := store.Subscribe(events.CallbackEventTypes, forwarder); err != nil {
		return nil, fmt.Errorf("failed to subscribe webhook: %w", err)
	}
	e.Logger.Info("forwarding callbacks", "url", webhookURL)
	return store, nil
}

// EchoCallbacks prints every callback appended to store on stdout
func (e *Env) EchoCallbacks(store events.EventStore) error {
	return store.Subscribe(events.CallbackEventTypes, events.HandlerFunc(func(event events.Event) error {
		data, err := json.Marshal(event.Data())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(e.Stdout, "📣 %s %s\n", event.Type(), data)
		return err
	}))
}

// ApplyOverlays sets the overlay toggles from the configuration. Toggles need
// a loaded chart.
func (e *Env) ApplyOverlays(c *visualizer.Controller) {
	c.ShowCoverageBars(e.Config.Overlay.ShowCoverage)
	c.ShowTrackingLines(e.Config.Overlay.ShowTracking)
}

// NewRootCmd builds the planviz command tree writing to stdout and stderr
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var (
		configPath string
		logLevel   string
	)
	env := &Env{Stdout: stdout, Stderr: stderr, Logger: slog.Default()}

	root := &cobra.Command{
		Use:   "planviz",
		Short: "Inventory projection charts for planning worksheets",
		Long: `planviz renders the projected inventory of one item: the before, after and
forecasted balance series, planning thresholds, supply and demand events,
tracking lines, coverage bars and the planner's explanation cards.

Examples:
  planviz render chart.json --format svg -o chart.svg
  planviz watch chart.json --explanations explain.json -o chart.html
  planviz serve --addr :8080
  planviz inspect chart.json --x 320 --y 210
  planviz explain explain.json --interactive`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Logging.Level = logLevel
			}
			logger, err := logging.New(cfg.Logging, env.Stderr)
			if err != nil {
				return err
			}
			env.Config = cfg
			env.Logger = logger
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML or TOML config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newRenderCmd(env),
		newServeCmd(env),
		newWatchCmd(env),
		newInspectCmd(env),
		newExplainCmd(env),
	)
	return root
}

// Execute runs the command line against os.Args
func Execute(ctx context.Context) error {
	root := NewRootCmd(os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// loadInputs reads the chart payload and, when a path is given, the
// explanation payload into c
func loadInputs(c *visualizer.Controller, chartPath, explanationsPath string) error {
	data, err := os.ReadFile(chartPath)
	if err != nil {
		return fmt.Errorf("error reading chart data: %w", err)
	}
	if err := c.LoadChartData(string(data)); err != nil {
		return err
	}
	if explanationsPath == "" {
		return nil
	}
	data, err = os.ReadFile(explanationsPath)
	if err != nil {
		return fmt.Errorf("error reading explanations: %w", err)
	}
	return c.LoadExplanations(string(data))
}

// hideSeries hides projections and event categories by key
func hideSeries(c *visualizer.Controller, keys []string) error {
	for _, key := range keys {
		if v, ok := entities.ParseVariant(key); ok {
			c.SetProjectionVisible(v, false)
			continue
		}
		if category, ok := entities.ParseCategory(key); ok {
			c.SetCategoryVisible(category, false)
			continue
		}
		return fmt.Errorf("unknown series %q", key)
	}
	return nil
}
