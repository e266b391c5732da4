package cmd

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

var quitCmd = &cobra.Command{
	Use:   "quit",
	Short: "Ask the running peer to shut down gracefully",
	Run: func(cmd *cobra.Command, args []string) {
		resp, err := adminRequest(http.MethodPost, "/quit", nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = resp.Body.Close() }()
		fmt.Println("shutdown requested")
	},
}

func init() {
	rootCmd.AddCommand(quitCmd)
}
