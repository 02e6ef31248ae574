package gkr

import (
	"fmt"

	"ExpanderExec/modules/circuit"
	"ExpanderExec/modules/config"
	"ExpanderExec/modules/transcript"
)

// Prover runs the layered evaluate-and-fold protocol over a witness
// assignment: every layer's output vector is folded into one claim at a
// transcript challenge, appended to the proof, and re-absorbed so the
// verifier's challenge stream stays aligned.
type Prover[E any] struct {
	Config *config.Config[E]

	sp       ScratchPad[E]
	prepared bool
}

func NewProver[E any](cfg *config.Config[E]) *Prover[E] {
	return &Prover[E]{Config: cfg}
}

// PrepareMem sizes the scratch pad for a circuit topology. Prove calls
// it on demand when the pad is missing or too small.
func (p *Prover[E]) PrepareMem(c *circuit.Circuit[E]) {
	p.sp = NewScratchPad(p.Config.Field, c)
	p.prepared = true
}

// Prove produces the claimed output value and the proof for the witness
// currently loaded into the circuit.
func (p *Prover[E]) Prove(c *circuit.Circuit[E]) (E, *transcript.Proof, error) {
	field := p.Config.Field
	var zero E

	if len(c.PrivateInput) == 0 {
		return zero, nil, fmt.Errorf("no witness loaded into circuit")
	}
	if len(c.PublicInput) < len(c.PrivateInput) {
		return zero, nil, fmt.Errorf("circuit has %d public input blocks for %d witnesses",
			len(c.PublicInput), len(c.PrivateInput))
	}
	inputSize := c.InputSize()
	for i := range c.PrivateInput {
		if uint(len(c.PrivateInput[i])) != inputSize {
			return zero, nil, fmt.Errorf("witness %d has %d inputs, circuit wants %d",
				i, len(c.PrivateInput[i]), inputSize)
		}
	}
	if !p.prepared || !p.sp.fits(c) {
		p.PrepareMem(c)
	}

	t := p.Config.NewTranscript()
	for _, block := range c.PublicInput {
		t.AppendFs(block...)
	}
	c.FillRndCoef(t)

	proof := &transcript.Proof{}
	outputClaims := make([]E, 0, len(c.PrivateInput))

	for w := range c.PrivateInput {
		in, out := p.sp.LayerIn, p.sp.LayerOut
		copy(in, c.PrivateInput[w])

		var claim E
		for l := range c.Layers {
			layer := &c.Layers[l]
			evalLayer(field, layer, in, out, c.PublicInput[w])

			alpha := t.ChallengeF()
			claim = foldVals(field, out[:uint(1)<<layer.OutputLenLog], alpha)
			t.AppendF(claim)
			proof.Append(field.Serialize(claim))

			in, out = out, in
		}
		outputClaims = append(outputClaims, claim)
	}

	gamma := t.ChallengeF()
	claimedV := foldVals(field, outputClaims, gamma)
	return claimedV, proof, nil
}
