// Command sessionctl is the operator tool for guest sessions: it derives sessions offline,
// inspects the room catalog, hashes bootstrap passwords and tails check-in events.
package main

import (
	"os"

	"niseko/config"
	"niseko/shared/logger"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "sessionctl",
		Short:         "Operate guest sessions for The 1898 Niseko",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newDeriveCmd(cfg),
		newRoomsCmd(),
		newHashPasswordCmd(),
		newWatchCmd(cfg),
	)

	return root
}

func main() {
	cfg := config.Get()
	logger.InitLogger(cfg)

	if err := newRootCmd(cfg).Execute(); err != nil {
		log.Error().Err(err).Msg("sessionctl failed")
		os.Exit(1)
	}
}
