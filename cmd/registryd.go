package cmd

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/meshare/meshare/internal/registry"
)

var registrydCmd = &cobra.Command{
	Use:   "registryd",
	Short: "Run the standalone name registry peers discover each other through",
	Long:  `registryd runs the name registry spec.md's cohort treats as an external service, standing in for whatever real name service a deployment would otherwise point peers' --registry flag (registry.url in settings.json) at.`,
	Run: func(cmd *cobra.Command, args []string) {
		addr, _ := cmd.Flags().GetString("listen")

		ln, err := net.Listen("tcp", addr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error binding %s: %v\n", addr, err)
			os.Exit(1)
		}

		server := registry.NewServer()
		go func() { _ = http.Serve(ln, server.Handler()) }()

		color.Green("meshare registry listening on %s", ln.Addr().String())

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh
		color.Yellow("shutting down")
	},
}

func init() {
	rootCmd.AddCommand(registrydCmd)
	registrydCmd.Flags().String("listen", "127.0.0.1:9090", "address the registry listens on")
}
