package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/meshare/meshare/internal/tui"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Open a live status dashboard for the running peer",
	Run: func(cmd *cobra.Command, args []string) {
		baseURL := readAdminAddr()
		if baseURL == "" {
			fmt.Fprintln(os.Stderr, "Error: no meshare peer appears to be running")
			os.Exit(1)
		}

		if _, err := tea.NewProgram(tui.New(baseURL)).Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
