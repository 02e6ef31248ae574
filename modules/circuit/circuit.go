// Package circuit holds the layered arithmetic circuit the executor
// proves and verifies over: the static topology loaded once from a
// circuit file, plus the witness assignment and public-input sequence
// that mutate per invocation.
package circuit

import (
	"ExpanderExec/modules/fields"
	"ExpanderExec/modules/transcript"
)

type CoefType uint

const (
	Constant CoefType = iota
	Random
	PublicInput
)

type Coef[E any] struct {
	CoefType    CoefType
	Value       E    // CoefType == Constant
	RandomValue E    // CoefType == Random
	InputIdx    uint // CoefType == PublicInput
}

func (c *Coef[E]) ActualLocalValue() E {
	switch c.CoefType {
	case Constant:
		return c.Value
	case Random:
		return c.RandomValue
	default:
		panic("do not use this function for public input")
	}
}

type Gate[E any] struct {
	IIds []uint
	OId  uint

	Coef Coef[E]
}

type StructureInfo struct {
	MaxDegreeOne bool
}

type Layer[E any] struct {
	InputLenLog  uint
	OutputLenLog uint

	Cst []Gate[E]
	Add []Gate[E]
	Mul []Gate[E]

	StructureInfo StructureInfo
}

// Circuit is the static topology plus the mutable per-request state.
// The topology never changes after load; only PublicInput and
// PrivateInput are rewritten as witnesses come and go.
type Circuit[E any] struct {
	Field fields.Field[E]

	Layers       []Layer[E]
	PublicInput  [][]E
	PrivateInput [][]E

	NumPublicInputs        uint
	ExpectedNumOutputZeros uint
}

func (l *Layer[E]) FillRndCoef(t *transcript.Transcript[E]) {
	for i := 0; i < len(l.Mul); i++ {
		if l.Mul[i].Coef.CoefType == Random {
			l.Mul[i].Coef.RandomValue = t.ChallengeF()
		}
	}

	for i := 0; i < len(l.Add); i++ {
		if l.Add[i].Coef.CoefType == Random {
			l.Add[i].Coef.RandomValue = t.ChallengeF()
		}
	}

	for i := 0; i < len(l.Cst); i++ {
		if l.Cst[i].Coef.CoefType == Random {
			l.Cst[i].Coef.RandomValue = t.ChallengeF()
		}
	}
}

// FillRndCoef draws every random gate coefficient from the transcript.
// Prover and verifier run this at the same transcript position, so both
// see the same coefficients.
func (c *Circuit[E]) FillRndCoef(t *transcript.Transcript[E]) {
	for i := 0; i < len(c.Layers); i++ {
		c.Layers[i].FillRndCoef(t)
	}
}

// InputSize is the width of the first layer's input vector.
func (c *Circuit[E]) InputSize() uint {
	if len(c.Layers) == 0 {
		return 0
	}
	return uint(1) << c.Layers[0].InputLenLog
}

// ReplicatePublicInput appends n-1 copies of the original public-input
// block, approximating a multi-participant run where every participant
// contributed identical public input.
func (c *Circuit[E]) ReplicatePublicInput(n uint) {
	original := c.PublicInput[:len(c.PublicInput):len(c.PublicInput)]
	for i := uint(1); i < n; i++ {
		for _, block := range original {
			replica := make([]E, len(block))
			copy(replica, block)
			c.PublicInput = append(c.PublicInput, replica)
		}
	}
}
