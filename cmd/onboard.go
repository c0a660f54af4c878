package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/crystaldolphin/toogle/internal/config"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Initialize configuration",
	RunE:  runOnboard,
}

func runOnboard(_ *cobra.Command, _ []string) error {
	cfgPath := configPath()

	if _, err := os.Stat(cfgPath); err == nil {
		fmt.Printf("Config already exists at %s\n", cfgPath)
		fmt.Printf("Press Enter to refresh (keep existing values) or Ctrl+C to cancel: ")
		fmt.Scanln()
		existing, loadErr := config.Load(cfgPath)
		if loadErr != nil {
			def := config.DefaultConfig()
			existing = &def
		}
		if err := config.Save(existing, cfgPath); err != nil {
			return err
		}
		fmt.Printf("%s Config refreshed at %s\n", mark(true), cfgPath)
	} else {
		cfg := config.DefaultConfig()
		if err := config.Save(&cfg, cfgPath); err != nil {
			return err
		}
		fmt.Printf("%s Created config at %s\n", mark(true), cfgPath)
	}

	fmt.Printf("\n%s toogle is ready!\n\n", logo)
	color.New(color.Bold).Println("Next steps:")
	fmt.Printf("  1. Install the notes CLI or set notes.command in %s\n", cfgPath)
	fmt.Println("  2. Add Google Calendar credentials (calendar.accessToken, or clientId/clientSecret/refreshToken)")
	fmt.Println("  3. Register `toogle serve` as a stdio MCP server in your agent")
	return nil
}
