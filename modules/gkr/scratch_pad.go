// Package gkr holds the prover and verifier engines the executor
// dispatches to, their precomputed scratch memory, and the proof /
// claimed-value codec.
package gkr

import (
	"ExpanderExec/modules/circuit"
	"ExpanderExec/modules/fields"
)

// ScratchPad is the evaluation memory an engine reuses across calls,
// sized once to the largest layer io of a circuit topology.
type ScratchPad[E any] struct {
	LayerIn  []E
	LayerOut []E

	MaxIOSize uint
}

func NewScratchPad[E any](field fields.Field[E], c *circuit.Circuit[E]) ScratchPad[E] {
	maxNumVars := uint(0)
	for _, layer := range c.Layers {
		maxNumVars = max(maxNumVars, layer.InputLenLog, layer.OutputLenLog)
	}
	maxIOSize := uint(1) << maxNumVars

	return ScratchPad[E]{
		LayerIn:   make([]E, maxIOSize),
		LayerOut:  make([]E, maxIOSize),
		MaxIOSize: maxIOSize,
	}
}

func (sp *ScratchPad[E]) fits(c *circuit.Circuit[E]) bool {
	for _, layer := range c.Layers {
		if uint(1)<<layer.InputLenLog > sp.MaxIOSize || uint(1)<<layer.OutputLenLog > sp.MaxIOSize {
			return false
		}
	}
	return sp.MaxIOSize > 0
}
