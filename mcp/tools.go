package mcp

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/lvillar/nameplate"
	"github.com/lvillar/nameplate/fontcache"
	"github.com/lvillar/nameplate/preset"
	"github.com/lvillar/nameplate/reader"
)

// fonts is shared across tool calls so a font file is loaded at most once
// per server process.
var fonts = fontcache.New()

// RegisterDefaultTools adds the built-in stamping tools to the server.
func RegisterDefaultTools(s *Server) {
	s.AddTool(stampNameTool())
	s.AddTool(previewLayoutTool())
	s.AddTool(templateInfoTool())
}

func stampNameTool() Tool {
	return Tool{
		Name:        "stamp_name",
		Description: "Stamp a name onto a PDF template at its configured slot using a custom TrueType font. Returns the stamped PDF as base64 unless outputPath is given.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"template": map[string]interface{}{
					"type":        "string",
					"description": "Path to the template PDF",
				},
				"font": map[string]interface{}{
					"type":        "string",
					"description": "Path to the TrueType font file",
				},
				"name": map[string]interface{}{
					"type":        "string",
					"description": "The name to stamp",
				},
				"outputPath": map[string]interface{}{
					"type":        "string",
					"description": "Optional file path for the stamped PDF. If omitted, returns base64.",
				},
				"preset": map[string]interface{}{
					"type":        "string",
					"description": "Optional path to a JSON preset with slot geometry and colors",
				},
				"fontSize": map[string]interface{}{
					"type":        "number",
					"description": "Font size in points (default: 120)",
				},
			},
			"required": []string{"template", "font", "name"},
		},
		Handler: handleStampName,
	}
}

func handleStampName(args map[string]interface{}) (ToolResult, error) {
	template, err := argString(args, "template")
	if err != nil {
		return ToolResult{}, err
	}
	fontPath, err := argString(args, "font")
	if err != nil {
		return ToolResult{}, err
	}
	name, err := argString(args, "name")
	if err != nil {
		return ToolResult{}, err
	}

	opts, err := stamperOptions(args, fontPath)
	if err != nil {
		return ToolResult{}, err
	}
	stamper := nameplate.New(opts...)

	if out, ok := args["outputPath"].(string); ok && out != "" {
		if err := stamper.StampFile(out, template, name); err != nil {
			return ToolResult{}, err
		}
		return textResult(fmt.Sprintf("Stamped %q onto %s, saved to %s", name, template, out)), nil
	}

	var buf bytes.Buffer
	if err := stamper.Stamp(&buf, template, name); err != nil {
		return ToolResult{}, err
	}
	return ToolResult{Content: []ContentBlock{{
		Type:     "resource",
		MIMEType: "application/pdf",
		Data:     base64.StdEncoding.EncodeToString(buf.Bytes()),
	}}}, nil
}

func previewLayoutTool() Tool {
	return Tool{
		Name:        "preview_layout",
		Description: "Compute the line placement a stamp would use without producing a PDF. Returns one (line, x, y) entry per broken line as JSON.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"template": map[string]interface{}{
					"type":        "string",
					"description": "Path to the template PDF",
				},
				"font": map[string]interface{}{
					"type":        "string",
					"description": "Path to the TrueType font file",
				},
				"name": map[string]interface{}{
					"type":        "string",
					"description": "The name to lay out",
				},
				"preset": map[string]interface{}{
					"type":        "string",
					"description": "Optional path to a JSON preset",
				},
				"fontSize": map[string]interface{}{
					"type":        "number",
					"description": "Font size in points (default: 120)",
				},
			},
			"required": []string{"template", "font", "name"},
		},
		Handler: handlePreviewLayout,
	}
}

func handlePreviewLayout(args map[string]interface{}) (ToolResult, error) {
	template, err := argString(args, "template")
	if err != nil {
		return ToolResult{}, err
	}
	fontPath, err := argString(args, "font")
	if err != nil {
		return ToolResult{}, err
	}
	name, err := argString(args, "name")
	if err != nil {
		return ToolResult{}, err
	}

	opts, err := stamperOptions(args, fontPath)
	if err != nil {
		return ToolResult{}, err
	}
	placed, err := nameplate.New(opts...).Preview(template, name)
	if err != nil {
		return ToolResult{}, err
	}

	type placement struct {
		Text  string  `json:"text"`
		X     float64 `json:"x"`
		Y     float64 `json:"y"`
		Width float64 `json:"width"`
	}
	out := make([]placement, len(placed))
	for i, pl := range placed {
		out[i] = placement{Text: pl.Text, X: pl.X, Y: pl.Y, Width: pl.Width}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return ToolResult{}, err
	}
	return textResult(string(data)), nil
}

func templateInfoTool() Tool {
	return Tool{
		Name:        "template_info",
		Description: "Inspect a template PDF: version, page count, and page dimensions in points.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"template": map[string]interface{}{
					"type":        "string",
					"description": "Path to the template PDF",
				},
			},
			"required": []string{"template"},
		},
		Handler: handleTemplateInfo,
	}
}

func handleTemplateInfo(args map[string]interface{}) (ToolResult, error) {
	template, err := argString(args, "template")
	if err != nil {
		return ToolResult{}, err
	}
	doc, err := reader.Open(template)
	if err != nil {
		return ToolResult{}, err
	}

	var sb bytes.Buffer
	fmt.Fprintf(&sb, "PDF version: %s\n", doc.Version)
	fmt.Fprintf(&sb, "Pages: %d\n", doc.NumPages())
	for _, page := range doc.Pages() {
		fmt.Fprintf(&sb, "  page %d: %.2f x %.2f pt", page.Number, page.MediaBox.Width(), page.MediaBox.Height())
		if page.Rotate != 0 {
			fmt.Fprintf(&sb, " (rotated %d)", page.Rotate)
		}
		sb.WriteByte('\n')
	}
	return textResult(sb.String()), nil
}

// stamperOptions builds nameplate options from tool arguments, merging an
// optional preset file with per-call overrides.
func stamperOptions(args map[string]interface{}, fontPath string) ([]nameplate.Option, error) {
	opts := []nameplate.Option{
		nameplate.WithFontFile(fontPath),
		nameplate.WithFontCache(fonts),
	}

	if path, ok := args["preset"].(string); ok && path != "" {
		p, err := preset.LoadFile(path)
		if err != nil {
			return nil, err
		}
		barcode, err := p.BarcodeSpec()
		if err != nil {
			return nil, err
		}
		opts = append(opts,
			nameplate.WithFontSize(p.FontSize),
			nameplate.WithLineHeight(p.LineHeight),
			nameplate.WithTopMargin(p.TopMargin),
			nameplate.WithHorizontalMargin(p.HorizontalMargin),
			nameplate.WithTextColor(p.Color.R, p.Color.G, p.Color.B),
			nameplate.WithPage(p.Page),
			nameplate.WithFontFamily(p.FontFamily),
		)
		if barcode != nil {
			opts = append(opts, nameplate.WithBarcode(*barcode))
		}
	}

	if size, ok := args["fontSize"].(float64); ok && size > 0 {
		opts = append(opts, nameplate.WithFontSize(size))
	}
	return opts, nil
}

func argString(args map[string]interface{}, key string) (string, error) {
	v, ok := args[key].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("missing %q argument", key)
	}
	return v, nil
}

func textResult(text string) ToolResult {
	return ToolResult{Content: []ContentBlock{{Type: "text", Text: text}}}
}
