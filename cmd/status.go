package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/crystaldolphin/toogle/internal/config"
	"github.com/crystaldolphin/toogle/internal/dependency"
	"github.com/crystaldolphin/toogle/internal/shared/stringutils"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show toogle status",
	RunE:  runStatus,
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfgPath := configPath()

	fmt.Printf("%s toogle Status\n\n", logo)

	_, statErr := os.Stat(cfgPath)
	cfgMark := mark(statErr == nil)
	fmt.Printf("Config:    %s %s\n", cfgPath, cfgMark)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("  (could not load config: %v)\n", err)
		return nil
	}

	c, err := dependency.New(cfg, nil, version)
	if err != nil {
		fmt.Printf("  (could not wire services: %v)\n", err)
		return nil
	}

	notesCmd := c.Notes().Command()
	if path, err := exec.LookPath(notesCmd); err == nil {
		fmt.Printf("Notes CLI: %s %s %s\n", notesCmd, mark(true), path)
	} else {
		fmt.Printf("Notes CLI: %s %s (not found on PATH)\n", notesCmd, mark(false))
	}

	cal := c.Calendar()
	if err := cal.Configured(); err == nil {
		fmt.Printf("Calendar:  %s %s (%s)\n", cal.CalendarID(), mark(true), credentialSource(cfg.Calendar))
	} else {
		fmt.Printf("Calendar:  %s %s (%v)\n", cal.CalendarID(), mark(false), err)
	}

	fmt.Println("\nServer:")
	fmt.Printf("  %-10s %v\n", "stdio", cfg.Server.Stdio)
	if cfg.Server.HTTPAddr != "" {
		fmt.Printf("  %-10s %s\n", "http", cfg.Server.HTTPAddr)
	} else {
		fmt.Printf("  %-10s (disabled)\n", "http")
	}
	if cfg.Server.Token != "" {
		fmt.Printf("  %-10s %s\n", "token", stringutils.Mask(cfg.Server.Token))
	} else {
		fmt.Printf("  %-10s (not set)\n", "token")
	}

	fmt.Printf("\nTools:     %d registered\n", c.Registry().Len())
	return nil
}

// mark renders a check or cross; color is dropped when stdout is not a terminal.
func mark(ok bool) string {
	if ok {
		return color.GreenString("✓")
	}
	return color.RedString("✗")
}

func credentialSource(c config.CalendarConfig) string {
	switch {
	case c.AccessToken != "":
		return "access token " + stringutils.Mask(c.AccessToken)
	case c.RefreshToken != "" && c.ClientID != "":
		return "refresh token for client " + stringutils.Mask(c.ClientID)
	default:
		return "token file " + c.TokenFile
	}
}
