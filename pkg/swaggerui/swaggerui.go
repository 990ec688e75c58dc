// Package swaggerui serves an OpenAPI document and a Swagger UI page for it.
package swaggerui

import (
	"errors"
	"fmt"
	"html"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	"gopkg.in/yaml.v3"
)

// Doc is a parsed OpenAPI document.
type Doc struct {
	Title       string
	Version     string
	Description string
	yaml    []byte
	json    []byte
}

type header struct {
	OpenAPI string `yaml:"openapi"`
	Info    struct {
		Title       string `yaml:"title"`
		Version     string `yaml:"version"`
		Description string `yaml:"description"`
	} `yaml:"info"`
}

// Load reads and parses an OpenAPI YAML file.
func Load(path string) (*Doc, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// Parse checks that raw is an OpenAPI document and renders a JSON copy.
func Parse(raw []byte) (*Doc, error) {
	var h header
	if err := yaml.Unmarshal(raw, &h); err != nil {
		return nil, fmt.Errorf("parse openapi document: %w", err)
	}
	if h.OpenAPI == "" {
		return nil, errors.New("parse openapi document: missing openapi version")
	}

	var tree map[string]any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("parse openapi document: %w", err)
	}
	asJSON, err := json.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("render openapi document: %w", err)
	}

	return &Doc{
		Title:       h.Info.Title,
		Version:     h.Info.Version,
		Description: strings.TrimSpace(h.Info.Description),
		yaml:        raw,
		json:        asJSON,
	}, nil
}

// Register mounts /swagger/doc.yaml, /swagger/doc.json and the UI page.
func Register(r fiber.Router, doc *Doc) {
	title := doc.Title
	if title == "" {
		title = "API"
	}
	page := strings.NewReplacer(
		"{{title}}", html.EscapeString(title),
		"{{description}}", html.EscapeString(firstLine(doc.Description)),
	).Replace(pageTemplate)

	r.Get("/swagger/doc.yaml", func(c fiber.Ctx) error {
		c.Set("Content-Type", "application/yaml")
		return c.Send(doc.yaml)
	})

	r.Get("/swagger/doc.json", func(c fiber.Ctx) error {
		c.Set("Content-Type", fiber.MIMEApplicationJSON)
		return c.Send(doc.json)
	})

	r.Get("/swagger/*", func(c fiber.Ctx) error {
		c.Set("Content-Type", fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString(page)
	})
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>{{title}} - Swagger UI</title>
    <meta name="description" content="{{description}}">
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
    SwaggerUIBundle({
        url: "/swagger/doc.yaml",
        dom_id: "#swagger-ui",
        presets: [SwaggerUIBundle.presets.apis, SwaggerUIBundle.SwaggerUIStandalonePreset],
        layout: "BaseLayout"
    });
    </script>
</body>
</html>`
