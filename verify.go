package main

import (
	"fmt"
	"strconv"

	"github.com/consensys/gnark/logger"
	"github.com/spf13/cobra"

	"ExpanderExec/modules/config"
	"ExpanderExec/modules/fields"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <circuit_file> <witness_file> <proof_file> [replication]",
	Short: "Check a proof artifact against a circuit and witness",
	Args:  cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) < 3 || len(args) > 4 {
			cmd.HelpFunc()(cmd, args)
			return
		}
		replication := uint(1)
		if len(args) == 4 {
			n, err := strconv.ParseUint(args[3], 10, 32)
			if err != nil {
				log := logger.Logger()
				log.Fatal().Str("replication", args[3]).Msg("replication must be an unsigned integer")
			}
			// 0 and 1 both mean no replication.
			replication = uint(n)
		}
		VerifyImpl(args[0], args[1], args[2], replication)
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func VerifyImpl(circuitFile, witnessFile, proofFile string, replication uint) {
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

	verified, err := p.Verify(circuitFile, witnessFile, proofFile, replication)
	if err != nil {
		log.Fatal().Err(err).Msg("verify failed")
	}
	if verified {
		fmt.Println("success")
	} else {
		fmt.Println("failure")
	}
}
