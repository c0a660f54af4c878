package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crystaldolphin/toogle/internal/dependency"
	"github.com/crystaldolphin/toogle/internal/schema"
)

var callCmd = &cobra.Command{
	Use:   "call <tool> [json-arguments]",
	Short: "Call one tool and print the response envelope",
	Long: `Call one tool through the dispatcher and print the response envelope as JSON.
Omitting json-arguments sends the call without an argument object.`,
	Example: `  toogle call search-notes '{"query":"weekly goals"}'
  toogle call list-events '{"maxResults":5}'`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runCall,
}

func runCall(cmd *cobra.Command, args []string) error {
	req := schema.ToolCallRequest{Name: args[0]}
	if len(args) == 2 {
		if err := json.Unmarshal([]byte(args[1]), &req.Arguments); err != nil {
			return fmt.Errorf("parse arguments: %w", err)
		}
	}
	cmd.SilenceUsage = true

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := dependency.New(cfg, newLogger(cfg), version)
	if err != nil {
		return fmt.Errorf("wire services: %w", err)
	}

	resp := c.Registry().CallTool(context.Background(), req)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(resp); err != nil {
		return err
	}
	if resp.IsError {
		return errors.New("tool returned an error")
	}
	return nil
}
