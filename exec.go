package main

import (
	"fmt"
	"net"
	"os"

	"ExpanderExec/modules/circuit"
	"ExpanderExec/modules/config"
	"ExpanderExec/modules/fields"
	"ExpanderExec/modules/gkr"
	"ExpanderExec/modules/server"
)

// pipeline is the field-erased surface the commands dispatch through.
// Everything below it is generic over one field element type.
type pipeline interface {
	Prove(circuitFile, witnessFile, outputFile string) error
	Verify(circuitFile, witnessFile, proofFile string, replication uint) (bool, error)
	Serve(circuitFile, host string, port uint16) error
}

type fieldPipeline[E any] struct {
	cfg *config.Config[E]
}

// newPipeline instantiates the pipeline for a detected field type. The
// switch is closed: a circuit over any other field is unusable here.
func newPipeline(fieldType fields.FieldType, mpi *config.MPIConfig) (pipeline, error) {
	switch fieldType {
	case fields.FieldTypeM31:
		return &fieldPipeline[fields.M31]{cfg: config.M31ExtConfigSha2(config.Vanilla, mpi)}, nil
	case fields.FieldTypeBN254:
		return &fieldPipeline[fields.BN254]{cfg: config.BN254ConfigMIMC5(config.Vanilla, mpi)}, nil
	case fields.FieldTypeGF2:
		return &fieldPipeline[fields.GF2Ext128]{cfg: config.GF2ExtConfigSha2(config.Vanilla, mpi)}, nil
	default:
		return nil, fmt.Errorf("unsupported field type %s", fieldType)
	}
}

func (p *fieldPipeline[E]) Prove(circuitFile, witnessFile, outputFile string) error {
	c, err := circuit.LoadCircuitFile(p.cfg.Field, circuitFile)
	if err != nil {
		return err
	}
	if err := c.LoadWitnessFile(witnessFile); err != nil {
		return err
	}

	prover := gkr.NewProver(p.cfg)
	prover.PrepareMem(c)
	claimedV, proof, err := prover.Prove(c)
	if err != nil {
		return err
	}

	artifact, err := gkr.DumpProofAndClaimedV(p.cfg.Field, proof, claimedV)
	if err != nil {
		return err
	}

	// Only the root rank writes the artifact.
	if p.cfg.MPI.IsRoot() {
		if err := os.WriteFile(outputFile, artifact, 0o644); err != nil {
			return fmt.Errorf("unable to write proof file: %w", err)
		}
	}
	return nil
}

func (p *fieldPipeline[E]) Verify(circuitFile, witnessFile, proofFile string, replication uint) (bool, error) {
	c, err := circuit.LoadCircuitFile(p.cfg.Field, circuitFile)
	if err != nil {
		return false, err
	}
	if err := c.LoadWitnessFile(witnessFile); err != nil {
		return false, err
	}

	data, err := os.ReadFile(proofFile)
	if err != nil {
		return false, fmt.Errorf("unable to read proof file: %w", err)
	}
	proof, claimedV, err := gkr.LoadProofAndClaimedV(p.cfg.Field, data)
	if err != nil {
		return false, err
	}

	if replication > 1 {
		c.ReplicatePublicInput(replication)
	}

	verifier := gkr.NewVerifier(p.cfg)
	return verifier.Verify(c, c.PublicInput, claimedV, proof), nil
}

func (p *fieldPipeline[E]) Serve(circuitFile, host string, port uint16) error {
	ip := net.ParseIP(host)
	if ip == nil || ip.To4() == nil {
		return fmt.Errorf("host %q is not a dotted ipv4 address", host)
	}

	s, err := server.New(p.cfg, circuitFile)
	if err != nil {
		return err
	}
	return s.ListenAndServe(fmt.Sprintf("%s:%d", host, port))
}
