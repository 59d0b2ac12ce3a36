package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vsinha/planviz/pkg/infrastructure/host"
	"github.com/vsinha/planviz/pkg/interfaces/cli/tui"
)

// ExplainConfig holds configuration for the explain command
type ExplainConfig struct {
	ExplanationsPath string
	Interactive      bool
	ExpandAll        bool
	HTML             bool
	Open             int // worksheet line to open, 0 for none
	WebhookURL       string
}

// ExplainCommand shows the planner's explanation cards
type ExplainCommand struct {
	config ExplainConfig
	env    *Env
}

// NewExplainCommand creates a new explain command
func NewExplainCommand(config ExplainConfig, env *Env) *ExplainCommand {
	return &ExplainCommand{config: config, env: env}
}

// Execute runs the explain command
func (cmd *ExplainCommand) Execute(ctx context.Context) error {
	store, err := cmd.env.NewCallbackStore(cmd.config.WebhookURL)
	if err != nil {
		return err
	}
	if !cmd.config.Interactive {
		if err := cmd.env.EchoCallbacks(store); err != nil {
			return err
		}
	}

	c := cmd.env.NewController(host.NewEventBridge(store, "explain"))
	data, err := os.ReadFile(cmd.config.ExplanationsPath)
	if err != nil {
		return fmt.Errorf("error reading explanations: %w", err)
	}
	if err := c.LoadExplanations(string(data)); err != nil {
		return err
	}

	if cmd.config.Interactive {
		return tui.Run(ctx, c)
	}

	if cmd.config.ExpandAll {
		for i := 0; i < c.Panel().Len(); i++ {
			if _, err := c.ToggleExplanation(i); err != nil {
				return err
			}
		}
	}

	if cmd.config.HTML {
		if err := c.Panel().Render(cmd.env.Stdout); err != nil {
			return err
		}
	} else {
		fmt.Fprint(cmd.env.Stdout, c.Panel().PlainText())
	}

	if cmd.config.Open != 0 {
		opened, err := c.ActivateExplanation(ctx, cmd.config.Open)
		if err != nil {
			return err
		}
		if !opened {
			return fmt.Errorf("worksheet line %d cannot be opened", cmd.config.Open)
		}
	}
	return nil
}

func newExplainCmd(env *Env) *cobra.Command {
	var config ExplainConfig

	cmd := &cobra.Command{
		Use:   "explain <explanations.json>",
		Short: "Show why each planning suggestion was made",
		Long: `List the explanation cards of an item's planning suggestions, or browse
them interactively and open the worksheet line behind a card.

Examples:
  planviz explain explain.json --expand-all
  planviz explain explain.json --interactive
  planviz explain explain.json --open 10000 --webhook http://localhost:3000/planviz`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			config.ExplanationsPath = args[0]
			return NewExplainCommand(config, env).Execute(c.Context())
		},
	}

	cmd.Flags().BoolVarP(&config.Interactive, "interactive", "i", false, "browse the cards in a terminal UI")
	cmd.Flags().BoolVar(&config.ExpandAll, "expand-all", false, "show every card's details")
	cmd.Flags().BoolVar(&config.HTML, "html", false, "write the panel as an HTML fragment")
	cmd.Flags().IntVar(&config.Open, "open", 0, "worksheet line to open")
	cmd.Flags().StringVar(&config.WebhookURL, "webhook", "", "host URL that receives callbacks")

	return cmd
}
