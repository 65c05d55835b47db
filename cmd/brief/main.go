package main

import (
	"fmt"
	"os"

	"github.com/prepdeck/brief/internal/cli"
	"github.com/prepdeck/brief/internal/cli/client"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "brief",
		Short: "Brief CLI - interview preparation research",
		Long: `Brief CLI asks questions about company interview processes.

Environment variables:
  BRIEF_API_KEY   API key for authentication (optional if server auth is disabled)
  BRIEF_API_URL   API base URL (default: http://localhost:8080)`,
		Version: version,
	}

	rootCmd.PersistentFlags().Bool("output", false, "Output as JSON")
	rootCmd.PersistentFlags().String("api-key", "", "API key for authentication (overrides env)")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env)")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.AskCmd())
	rootCmd.AddCommand(client.CompanyCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
