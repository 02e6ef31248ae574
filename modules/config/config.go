// Package config bundles the compile-time-fixed parameters a process
// run is instantiated over: the field arithmetic, the transcript hash,
// the proof scheme variant and the distributed-run parameters. One
// configuration is selected per process and never swapped.
package config

import (
	"ExpanderExec/modules/fields"
	"ExpanderExec/modules/transcript"
)

// GKRScheme selects the proof scheme variant.
type GKRScheme uint

const (
	Vanilla GKRScheme = iota
	GKRSquare
)

// Config is immutable after construction.
type Config[E any] struct {
	FieldType fields.FieldType
	Field     fields.Field[E]
	Scheme    GKRScheme
	MPI       *MPIConfig

	newHasher func() transcript.Hasher
}

// NewTranscript constructs a transcript over this configuration's field
// and hash choice.
func (c *Config[E]) NewTranscript() *transcript.Transcript[E] {
	return transcript.NewTranscript(c.Field, c.newHasher())
}

// M31ExtConfigSha2 is the Mersenne31 configuration with a SHA-256
// transcript.
func M31ExtConfigSha2(scheme GKRScheme, mpi *MPIConfig) *Config[fields.M31] {
	return &Config[fields.M31]{
		FieldType: fields.FieldTypeM31,
		Field:     fields.M31Field{},
		Scheme:    scheme,
		MPI:       mpi,
		newHasher: func() transcript.Hasher { return transcript.SHA256Hasher{} },
	}
}

// BN254ConfigMIMC5 is the BN254 configuration with a MiMC transcript.
func BN254ConfigMIMC5(scheme GKRScheme, mpi *MPIConfig) *Config[fields.BN254] {
	return &Config[fields.BN254]{
		FieldType: fields.FieldTypeBN254,
		Field:     fields.BN254Field{},
		Scheme:    scheme,
		MPI:       mpi,
		newHasher: func() transcript.Hasher { return transcript.MiMCHasher{} },
	}
}

// GF2ExtConfigSha2 is the GF2 extension configuration with a SHA-256
// transcript.
func GF2ExtConfigSha2(scheme GKRScheme, mpi *MPIConfig) *Config[fields.GF2Ext128] {
	return &Config[fields.GF2Ext128]{
		FieldType: fields.FieldTypeGF2,
		Field:     fields.GF2Field{},
		Scheme:    scheme,
		MPI:       mpi,
		newHasher: func() transcript.Hasher { return transcript.SHA256Hasher{} },
	}
}
