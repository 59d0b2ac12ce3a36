package output

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/vsinha/planviz/pkg/application/visualizer"
	"github.com/vsinha/planviz/pkg/infrastructure/render/svg"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

// HTMLPage renders the chart and the explanation panel as one document
type HTMLPage struct {
	Title string
}

// TemplateData contains all data for rendering the page template
type TemplateData struct {
	Title        string
	Chart        template.HTML
	Explanations template.HTML
	DataJSON     template.JS
	Width        float64
	Height       float64
	GeneratedAt  string
}

// NewHTMLPage creates a page generator
func NewHTMLPage(title string) *HTMLPage {
	if title == "" {
		title = "Planning Visualizer"
	}
	return &HTMLPage{Title: title}
}

// Render writes the page for the controller's current chart and panel
func (p *HTMLPage) Render(w io.Writer, c *visualizer.Controller) error {
	cfg := c.Config()
	cv := svg.New(cfg.Width, cfg.Height)
	cv.Title = p.Title
	if err := c.Render(cv); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	panel, err := c.Panel().HTML()
	if err != nil {
		return fmt.Errorf("failed to render explanations: %w", err)
	}

	snap, err := BuildSnapshot(c)
	if err != nil {
		return err
	}
	jsonData, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal chart data: %w", err)
	}

	data := &TemplateData{
		Title:        p.Title,
		Chart:        template.HTML(cv.String()),
		Explanations: template.HTML(panel),
		DataJSON:     template.JS(jsonData),
		Width:        cfg.Width,
		Height:       cfg.Height,
		GeneratedAt:  time.Now().Format("2006-01-02 15:04:05"),
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	_, err = buf.WriteTo(w)
	return err
}
