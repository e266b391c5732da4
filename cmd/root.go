package cmd

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/meshare/meshare/internal/config"
	"github.com/meshare/meshare/internal/download"
	"github.com/meshare/meshare/internal/election"
	"github.com/meshare/meshare/internal/epoch"
	"github.com/meshare/meshare/internal/failuredetector"
	"github.com/meshare/meshare/internal/heartbeat"
	"github.com/meshare/meshare/internal/localfiles"
	"github.com/meshare/meshare/internal/registry"
	"github.com/meshare/meshare/internal/rpc"
	"github.com/meshare/meshare/internal/utils"
)

// Version is set via ldflags at build time.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:     "meshare",
	Short:   "A fault-tolerant peer-to-peer file sharing daemon",
	Long:    `meshare runs one peer of a cohort that elects a tracker among itself and shares files through it.`,
	Version: Version,
	Run:     runDaemon,
}

func init() {
	rootCmd.Flags().Bool("bootstrap", false, "start as the cohort's bootstrap peer")
	rootCmd.Flags().Int("peers", 0, "expected cohort size (overrides settings.json)")
	rootCmd.Flags().String("shared-dir", "", "directory to share with the cohort (overrides settings.json)")
	rootCmd.Flags().String("registry", "", "name registry base URL (overrides settings.json)")
	rootCmd.Flags().String("listen", "127.0.0.1:0", "address this peer's RPC server listens on")
	rootCmd.Flags().Bool("verbose", false, "write a per-run debug log under the logs directory")
	rootCmd.SetVersionTemplate("meshare version {{.Version}}\n")
}

// Execute runs the meshare CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runDaemon(cmd *cobra.Command, _ []string) {
	if err := config.EnsureDirs(); err != nil {
		fmt.Fprintf(os.Stderr, "error preparing meshare directories: %v\n", err)
		os.Exit(1)
	}

	settings, err := config.LoadSettings()
	if err != nil {
		settings = config.DefaultSettings()
	}
	applyFlagOverrides(cmd, settings)

	utils.ConfigureDebug(config.GetLogsDir())
	utils.SetVerbose(settings.General.Verbose)
	utils.CleanupLogs(settings.General.LogRetentionCount)

	isMaster, err := AcquireLock()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error acquiring lock: %v\n", err)
		os.Exit(1)
	}
	if !isMaster {
		fmt.Fprintln(os.Stderr, "a meshare peer is already running in this runtime directory.")
		os.Exit(1)
	}
	defer func() {
		if err := ReleaseLock(); err != nil {
			utils.Debug("cmd", "error releasing lock: %v", err)
		}
	}()

	if settings.General.PeerID == "" {
		settings.General.PeerID = uuid.NewString()
	}
	if err := os.MkdirAll(settings.General.SharedDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error creating shared directory: %v\n", err)
		os.Exit(1)
	}

	peerListener, peerAddr := mustListen(settings.General.ListenAddr)
	adminListener, adminAddr := mustListen("127.0.0.1:0")

	reg := registry.NewHTTPClient(settings.Registry.URL)
	client := rpc.NewClient()
	actor := election.New(epoch.Endpoint(peerAddr), settings.General.PeerID, settings, reg, client)

	if err := reg.Register(registry.PeerName(settings.General.PeerID), peerAddr); err != nil {
		utils.Debug("cmd", "failed to register peer name: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The peer listener answers both the inter-peer RPC surface and chunk
	// transfer requests from other peers; the admin listener is
	// loopback-only and exists for this peer's own CLI invocations.
	chunkHandler := download.NewServer(settings.General.SharedDir).Handler()
	peerMux := http.NewServeMux()
	peerMux.Handle("/", rpc.NewServer(actor).Handler())
	peerMux.Handle("/size", chunkHandler)
	peerMux.Handle("/chunk", chunkHandler)
	go func() { _ = http.Serve(peerListener, peerMux) }()

	watcher := localfiles.New(settings.General.SharedDir, actor, settings)
	go watcher.Run(ctx)
	go failuredetector.New(actor, settings).Run(ctx)
	go heartbeat.NewEmitter(actor, reg, client, settings).Run(ctx)
	go actor.Run(ctx)

	shutdownCh := make(chan struct{}, 1)
	adminMux := http.NewServeMux()
	adminMux.Handle("/", newAdminServer(actor, watcher, shutdownCh).Handler())
	adminMux.Handle("/size", chunkHandler)
	adminMux.Handle("/chunk", chunkHandler)
	go func() { _ = http.Serve(adminListener, adminMux) }()

	saveAdminAddr(adminAddr)
	defer removeAdminAddr()

	color.Green("meshare peer %s listening for peers on %s, admin API on %s", settings.General.PeerID, peerAddr, adminAddr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sigCh:
	case <-shutdownCh:
	}

	color.Yellow("shutting down")
	_ = reg.Unregister(registry.PeerName(settings.General.PeerID))
}

func applyFlagOverrides(cmd *cobra.Command, settings *config.Settings) {
	if bootstrap, _ := cmd.Flags().GetBool("bootstrap"); bootstrap {
		settings.Cohort.Bootstrap = true
	}
	if peers, _ := cmd.Flags().GetInt("peers"); peers > 0 {
		settings.Cohort.TotalPeersExpected = peers
	}
	if dir, _ := cmd.Flags().GetString("shared-dir"); dir != "" {
		settings.General.SharedDir = utils.EnsureAbsPath(dir)
	}
	if url, _ := cmd.Flags().GetString("registry"); url != "" {
		settings.Registry.URL = url
	}
	if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
		settings.General.ListenAddr = listen
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		settings.General.Verbose = true
	}
}

func mustListen(addr string) (net.Listener, string) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error binding %s: %v\n", addr, err)
		os.Exit(1)
	}
	return ln, ln.Addr().String()
}
