// Command nameplate-mcp is an MCP (Model Context Protocol) server that
// exposes name stamping to AI assistants.
//
// # Installation
//
//	go install github.com/lvillar/nameplate/cmd/nameplate-mcp@latest
//
// # Configuration for Claude Desktop
//
// Add to ~/.config/claude/claude_desktop_config.json:
//
//	{
//	  "mcpServers": {
//	    "nameplate": {
//	      "command": "nameplate-mcp"
//	    }
//	  }
//	}
//
// # Available Tools
//
//   - stamp_name: Stamp a name onto a PDF template
//   - preview_layout: Compute line placement without producing a PDF
//   - template_info: Inspect a template's pages and dimensions
package main

import (
	"fmt"
	"os"

	"github.com/lvillar/nameplate/mcp"
)

func main() {
	server := mcp.NewServer()
	mcp.RegisterDefaultTools(server)

	if err := server.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "nameplate-mcp: %v\n", err)
		os.Exit(1)
	}
}
