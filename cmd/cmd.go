package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/gaze-network/mintgate/internal/config"
	"github.com/gaze-network/mintgate/pkg/logger"
	"github.com/gaze-network/mintgate/pkg/logger/slogx"
	"github.com/spf13/cobra"
)

var cmd = &cobra.Command{
	Use:   "mintgate",
	Short: "Access-controlled NFT minting ledger",
	Long: `mintgate runs an NFT collection ledger with an allowlist phase gated by a merkle root,
a public sale, per-wallet and supply caps, and a revenue splitter for the proceeds.`,
	SilenceUsage: true,
}

func init() {
	var configFile string

	// Add global flags
	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file, E.g. `./config.yaml`")

	// Initialize configuration and logger on start command
	cobra.OnInitialize(func() {
		// Initialize configuration
		config := config.Parse(configFile)

		// Initialize logger
		if err := logger.Init(config.Logger); err != nil {
			logger.Panic("Failed to initialize logger", slogx.Error(err), slog.Any("config", config.Logger))
		}
	})
}

func Execute(ctx context.Context) {
	// Register sub-commands
	cmd.AddCommand(
		NewVersionCommand(),
		NewRunCommand(),
		NewMigrateCommand(),
		NewAllowlistCommand(),
	)

	// Execute command
	if err := cmd.ExecuteContext(ctx); err != nil {
		logger.ErrorContext(ctx, "Failed to execute command", err)
		os.Exit(1)
	}
}
