package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vsinha/planviz/pkg/application/visualizer"
	"github.com/vsinha/planviz/pkg/infrastructure/render/echarts"
	pngrender "github.com/vsinha/planviz/pkg/infrastructure/render/png"
	"github.com/vsinha/planviz/pkg/infrastructure/render/svg"
)

// Formats lists every supported output format
var Formats = []string{"svg", "html", "echarts", "png", "json", "text"}

// Config holds configuration for output generation
type Config struct {
	Format     string
	OutputPath string
	Title      string
	Verbose    bool
}

// Generate renders the controller's chart in the configured format, to
// OutputPath when set and to stdout otherwise
func Generate(c *visualizer.Controller, config Config, stdout io.Writer) error {
	if config.OutputPath == "" {
		if config.Format == "png" {
			return fmt.Errorf("output path required for PNG format")
		}
		return Write(c, config, stdout)
	}

	if dir := filepath.Dir(config.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// render to a temporary file first so a failed render keeps the last output
	tmp, err := os.CreateTemp(filepath.Dir(config.OutputPath), ".planviz-*")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Write(c, config, tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := os.Rename(tmp.Name(), config.OutputPath); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(stdout, "💾 %s output saved to: %s\n", strings.ToUpper(config.Format), config.OutputPath)
	}
	return nil
}

// Write renders the chart in the configured format to w
func Write(c *visualizer.Controller, config Config, w io.Writer) error {
	switch config.Format {
	case "svg":
		return generateSVG(c, config, w)
	case "html":
		return NewHTMLPage(config.Title).Render(w, c)
	case "echarts":
		return echarts.NewExporter(config.Title).Render(w, c)
	case "png":
		return pngrender.NewPreview(c.Config()).Render(w, c)
	case "json":
		return generateJSON(c, w)
	case "text":
		return RenderSummary(w, c, config.Title)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

func generateSVG(c *visualizer.Controller, config Config, w io.Writer) error {
	cfg := c.Config()
	cv := svg.New(cfg.Width, cfg.Height)
	cv.Title = config.Title
	if err := c.Render(cv); err != nil {
		return err
	}
	_, err := cv.WriteTo(w)
	return err
}

func generateJSON(c *visualizer.Controller, w io.Writer) error {
	snap, err := BuildSnapshot(c)
	if err != nil {
		return err
	}
	jsonData, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	jsonData = append(jsonData, '\n')
	_, err = w.Write(jsonData)
	return err
}
