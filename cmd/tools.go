package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crystaldolphin/toogle/internal/tools"
)

var toolsJSON bool

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools advertised to MCP clients",
	RunE:  runTools,
}

func init() {
	toolsCmd.Flags().BoolVar(&toolsJSON, "json", false, "Print descriptors as JSON")
}

func runTools(_ *cobra.Command, _ []string) error {
	descs := tools.Descriptors()

	if toolsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"tools": descs})
	}

	for _, d := range descs {
		fmt.Printf("%s\n  %s\n", d.Name, d.Description)
		for _, f := range d.InputSchema.Fields {
			req := ""
			if f.Required {
				req = " (required)"
			}
			fmt.Printf("    %-12s %-8s%s %s\n", f.Name, f.Type, req, f.Description)
		}
		fmt.Println(strings.Repeat("-", 40))
	}
	return nil
}
