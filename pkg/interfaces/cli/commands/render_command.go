package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vsinha/planviz/pkg/application/visualizer"
	"github.com/vsinha/planviz/pkg/interfaces/cli/output"
)

// RenderConfig holds configuration for the render command
type RenderConfig struct {
	ChartPath        string
	ExplanationsPath string
	Format           string
	OutputPath       string
	Title            string
	HorizonDays      int      // 0 keeps the configured horizon
	Tracking         bool     // show tracking lines
	NoCoverage       bool     // hide coverage bars
	Hide             []string // projection or category keys to hide
	Highlight        int      // entry number to mark
	Verbose          bool
}

// RenderCommand loads one chart and writes it in a single output format
type RenderCommand struct {
	config RenderConfig
	env    *Env
}

// NewRenderCommand creates a new render command
func NewRenderCommand(config RenderConfig, env *Env) *RenderCommand {
	return &RenderCommand{config: config, env: env}
}

// Execute runs the render command
func (cmd *RenderCommand) Execute(ctx context.Context) error {
	if err := cmd.validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	c := cmd.env.NewController(nil)
	if err := loadInputs(c, cmd.config.ChartPath, cmd.config.ExplanationsPath); err != nil {
		return err
	}
	if err := cmd.applyToggles(ctx, c); err != nil {
		return err
	}

	return output.Generate(c, output.Config{
		Format:     cmd.config.Format,
		OutputPath: cmd.config.OutputPath,
		Title:      cmd.config.Title,
		Verbose:    cmd.config.Verbose,
	}, cmd.env.Stdout)
}

func (cmd *RenderCommand) validate() error {
	if cmd.config.ChartPath == "" {
		return fmt.Errorf("chart data path is required")
	}
	for _, f := range output.Formats {
		if f == cmd.config.Format {
			return nil
		}
	}
	return fmt.Errorf("unsupported format %q (use %s)", cmd.config.Format, strings.Join(output.Formats, ", "))
}

func (cmd *RenderCommand) applyToggles(ctx context.Context, c *visualizer.Controller) error {
	cmd.env.ApplyOverlays(c)
	if cmd.config.Tracking {
		c.ShowTrackingLines(true)
	}
	if cmd.config.NoCoverage {
		c.ShowCoverageBars(false)
	}
	if err := hideSeries(c, cmd.config.Hide); err != nil {
		return err
	}
	if cmd.config.Highlight != 0 && !c.HighlightEvent(cmd.config.Highlight) {
		cmd.env.Logger.Warn("highlighted entry is not plotted", "entryNo", cmd.config.Highlight)
	}

	days := cmd.config.HorizonDays
	if days == 0 {
		days = cmd.env.Config.Layout.HorizonDays
	}
	if days != c.State().HorizonDays {
		return c.ChangeHorizon(ctx, days)
	}
	return nil
}

func newRenderCmd(env *Env) *cobra.Command {
	var config RenderConfig

	cmd := &cobra.Command{
		Use:   "render <chart.json>",
		Short: "Render a chart payload to SVG, HTML, ECharts, PNG, JSON or text",
		Long: `Render the inventory projection chart of one item.

Examples:
  planviz render chart.json -o chart.svg
  planviz render chart.json --explanations explain.json --format html -o chart.html
  planviz render chart.json --format text --hide forecast,before`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			config.ChartPath = args[0]
			return NewRenderCommand(config, env).Execute(c.Context())
		},
	}

	cmd.Flags().StringVar(&config.ExplanationsPath, "explanations", "", "explanation payload to include")
	cmd.Flags().StringVarP(&config.Format, "format", "f", "svg", "output format: "+strings.Join(output.Formats, ", "))
	cmd.Flags().StringVarP(&config.OutputPath, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&config.Title, "title", "", "document title")
	cmd.Flags().IntVar(&config.HorizonDays, "horizon", 0, "planning horizon in days")
	cmd.Flags().BoolVar(&config.Tracking, "tracking", false, "show tracking lines")
	cmd.Flags().BoolVar(&config.NoCoverage, "no-coverage", false, "hide coverage bars")
	cmd.Flags().StringSliceVar(&config.Hide, "hide", nil, "projections or event categories to hide")
	cmd.Flags().IntVar(&config.Highlight, "highlight", 0, "entry number to highlight")
	cmd.Flags().BoolVarP(&config.Verbose, "verbose", "v", false, "report where the output was written")

	return cmd
}
