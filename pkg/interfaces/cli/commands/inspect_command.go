package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vsinha/planviz/pkg/infrastructure/host"
	"github.com/vsinha/planviz/pkg/interfaces/cli/output"
)

// InspectConfig holds configuration for the inspect command
type InspectConfig struct {
	ChartPath string
	Title     string
	Tracking  bool
	Hide      []string
	X, Y      float64
	Probe     bool // X and Y were given
	Click     bool // also click at X, Y
}

// InspectCommand prints a terminal summary of a chart and, optionally, what
// the pointer hits at one canvas position
type InspectCommand struct {
	config InspectConfig
	env    *Env
}

// NewInspectCommand creates a new inspect command
func NewInspectCommand(config InspectConfig, env *Env) *InspectCommand {
	return &InspectCommand{config: config, env: env}
}

// Execute runs the inspect command
func (cmd *InspectCommand) Execute(ctx context.Context) error {
	store, err := cmd.env.NewCallbackStore("")
	if err != nil {
		return err
	}
	if err := cmd.env.EchoCallbacks(store); err != nil {
		return err
	}

	c := cmd.env.NewController(host.NewEventBridge(store, "inspect"))
	if err := loadInputs(c, cmd.config.ChartPath, ""); err != nil {
		return err
	}
	cmd.env.ApplyOverlays(c)
	if cmd.config.Tracking {
		c.ShowTrackingLines(true)
	}
	if err := hideSeries(c, cmd.config.Hide); err != nil {
		return err
	}

	if err := output.RenderSummary(cmd.env.Stdout, c, cmd.config.Title); err != nil {
		return err
	}
	if !cmd.config.Probe {
		return nil
	}

	h, hit := c.PointerMove(cmd.config.X, cmd.config.Y)
	fmt.Fprint(cmd.env.Stdout, "\n"+output.HoverSummary(h, hit))

	if cmd.config.Click {
		entryNo, notified, err := c.Click(ctx, cmd.config.X, cmd.config.Y)
		if err != nil {
			return err
		}
		if entryNo != 0 && !notified {
			fmt.Fprintf(cmd.env.Stdout, "entry %d has no source document\n", entryNo)
		}
	}
	return nil
}

func newInspectCmd(env *Env) *cobra.Command {
	var config InspectConfig

	cmd := &cobra.Command{
		Use:   "inspect <chart.json>",
		Short: "Summarise a chart in the terminal and probe canvas positions",
		Long: `Print the events, projections, thresholds and coverage of a chart. With
--x and --y, also report what the pointer hits at that canvas position, as
the hover tooltip would show it.

Examples:
  planviz inspect chart.json
  planviz inspect chart.json --x 320 --y 210 --click`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			config.ChartPath = args[0]
			config.Probe = c.Flags().Changed("x") || c.Flags().Changed("y")
			if config.Click && !config.Probe {
				return fmt.Errorf("--click needs --x and --y")
			}
			return NewInspectCommand(config, env).Execute(c.Context())
		},
	}

	cmd.Flags().StringVar(&config.Title, "title", "", "summary title")
	cmd.Flags().BoolVar(&config.Tracking, "tracking", false, "show tracking lines")
	cmd.Flags().StringSliceVar(&config.Hide, "hide", nil, "projections or event categories to hide")
	cmd.Flags().Float64Var(&config.X, "x", 0, "pointer x in canvas pixels")
	cmd.Flags().Float64Var(&config.Y, "y", 0, "pointer y in canvas pixels")
	cmd.Flags().BoolVar(&config.Click, "click", false, "click at the probed position")

	return cmd
}
