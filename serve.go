package main

import (
	"strconv"

	"github.com/consensys/gnark/logger"
	"github.com/spf13/cobra"

	"ExpanderExec/modules/config"
	"ExpanderExec/modules/fields"
)

var serveCmd = &cobra.Command{
	Use:   "serve <circuit_file> <host> <port>",
	Short: "Serve prove and verify for one circuit over HTTP",
	Args:  cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 3 {
			cmd.HelpFunc()(cmd, args)
			return
		}
		port, err := strconv.ParseUint(args[2], 10, 16)
		if err != nil {
			log := logger.Logger()
			log.Fatal().Str("port", args[2]).Msg("port must be a 16-bit integer")
		}
		ServeImpl(args[0], args[1], uint16(port))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func ServeImpl(circuitFile, host string, port uint16) {
	log := logger.Logger()
	mpi := config.NewMPIConfig()
	defer mpi.Finalize()

	fieldType, err := fields.DetectFieldTypeFromCircuitFile(circuitFile)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to detect circuit field")
	}
	log.Info().Str("field", fieldType.String()).Msg("field detected")

	p, err := newPipeline(fieldType, mpi)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to build pipeline")
	}

	if err := p.Serve(circuitFile, host, port); err != nil {
		log.Fatal().Err(err).Msg("service stopped")
	}
}
