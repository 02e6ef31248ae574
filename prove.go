package main

import (
	"github.com/consensys/gnark/logger"
	"github.com/spf13/cobra"

	"ExpanderExec/modules/config"
	"ExpanderExec/modules/fields"
)

var proveCmd = &cobra.Command{
	Use:   "prove <circuit_file> <witness_file> <output_proof_file>",
	Short: "Generate a proof for a witness and write the artifact to a file",
	Args:  cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 3 {
			cmd.HelpFunc()(cmd, args)
			return
		}
		ProveImpl(args[0], args[1], args[2])
	},
}

func init() {
	rootCmd.AddCommand(proveCmd)
}

func ProveImpl(circuitFile, witnessFile, outputFile string) {
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

	if err := p.Prove(circuitFile, witnessFile, outputFile); err != nil {
		log.Fatal().Err(err).Msg("prove failed")
	}
	log.Info().Str("proof", outputFile).Msg("proof generated")
}
