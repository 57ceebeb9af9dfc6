package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/glance-cli/internal/utils"
)

// ErrUnknownFormat is returned by Render for an unsupported output format.
var ErrUnknownFormat = errors.New("unknown report format")

// HTML renders the Markdown report as a standalone page.
func (r *Report) HTML() []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	title := "Data profile"
	if r.Name != "" {
		title += ": " + r.Name
	}
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.CompletePage, Title: title})
	return markdown.ToHTML([]byte(r.Markdown()), p, renderer)
}

// Render encodes the report as markdown, html, json or yaml.
func (r *Report) Render(kind string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "markdown", "md":
		return []byte(r.Markdown()), nil
	case "html":
		return r.HTML(), nil
	case "json":
		out, err := utils.PrettyJSON(r)
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	case "yaml", "yml":
		out, err := yaml.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("encode report: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, kind)
	}
}
