package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vsinha/planviz/pkg/application/visualizer"
	"github.com/vsinha/planviz/pkg/infrastructure/watch"
	"github.com/vsinha/planviz/pkg/interfaces/cli/output"
)

// WatchConfig holds configuration for the watch command
type WatchConfig struct {
	ChartPath        string
	ExplanationsPath string
	Format           string
	OutputPath       string
	Title            string
	Debounce         time.Duration
	Verbose          bool
}

// WatchCommand re-renders the output every time a payload file changes
type WatchCommand struct {
	config WatchConfig
	env    *Env
}

// NewWatchCommand creates a new watch command
func NewWatchCommand(config WatchConfig, env *Env) *WatchCommand {
	return &WatchCommand{config: config, env: env}
}

// Watcher builds the file watcher without starting it
func (cmd *WatchCommand) Watcher() (*watch.Watcher, error) {
	if cmd.config.OutputPath == "" {
		return nil, fmt.Errorf("validation error: watch needs an output path")
	}

	c := cmd.env.NewController(nil)
	overlaysApplied := false
	render := func(c *visualizer.Controller) error {
		if !overlaysApplied {
			cmd.env.ApplyOverlays(c)
			overlaysApplied = true
		}
		return output.Generate(c, output.Config{
			Format:     cmd.config.Format,
			OutputPath: cmd.config.OutputPath,
			Title:      cmd.config.Title,
			Verbose:    cmd.config.Verbose,
		}, cmd.env.Stdout)
	}

	opts := []watch.Option{watch.WithLogger(cmd.env.Logger)}
	if cmd.config.ExplanationsPath != "" {
		opts = append(opts, watch.WithExplanations(cmd.config.ExplanationsPath))
	}
	if cmd.config.Debounce > 0 {
		opts = append(opts, watch.WithDebounce(cmd.config.Debounce))
	}
	return watch.New(c, cmd.config.ChartPath, render, opts...)
}

// Execute runs the watch command until ctx is done
func (cmd *WatchCommand) Execute(ctx context.Context) error {
	w, err := cmd.Watcher()
	if err != nil {
		return err
	}
	cmd.env.Logger.Info("watching payload", "chart", cmd.config.ChartPath, "output", cmd.config.OutputPath)
	return w.Run(ctx)
}

func newWatchCmd(env *Env) *cobra.Command {
	var config WatchConfig

	cmd := &cobra.Command{
		Use:   "watch <chart.json>",
		Short: "Re-render whenever the payload files change",
		Long: `Watch the chart payload (and optionally the explanation payload) and
rewrite the output after every change. A payload that fails to parse keeps
the last good output.

Examples:
  planviz watch chart.json -o chart.html --format html
  planviz watch chart.json --explanations explain.json -o chart.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			config.ChartPath = args[0]
			return NewWatchCommand(config, env).Execute(c.Context())
		},
	}

	cmd.Flags().StringVar(&config.ExplanationsPath, "explanations", "", "explanation payload to watch")
	cmd.Flags().StringVarP(&config.Format, "format", "f", "svg", "output format")
	cmd.Flags().StringVarP(&config.OutputPath, "output", "o", "", "output file")
	cmd.Flags().StringVar(&config.Title, "title", "", "document title")
	cmd.Flags().DurationVar(&config.Debounce, "debounce", 0, "delay before reloading after a change")
	cmd.Flags().BoolVarP(&config.Verbose, "verbose", "v", false, "report every write")

	return cmd
}
