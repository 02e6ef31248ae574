package gkr

import (
	"ExpanderExec/modules/circuit"
	"ExpanderExec/modules/config"
	"ExpanderExec/modules/transcript"
)

// Verifier replays the prover's transcript: it re-evaluates every layer
// from the witness, folds at the same challenges, and compares each
// expected claim against the one recorded in the proof. The proof's
// claim is what gets re-absorbed, so a tampered proof derails every
// later challenge as well.
type Verifier[E any] struct {
	Config *config.Config[E]

	sp       ScratchPad[E]
	prepared bool
}

func NewVerifier[E any](cfg *config.Config[E]) *Verifier[E] {
	return &Verifier[E]{Config: cfg}
}

// Verify checks a proof and its claimed value against the circuit's
// loaded witness and the given public-input blocks. It returns false
// both for a claim mismatch and for a structurally short or long proof.
func (v *Verifier[E]) Verify(
	c *circuit.Circuit[E],
	publicInput [][]E,
	claimedV E,
	proof *transcript.Proof,
) bool {
	field := v.Config.Field

	if len(c.PrivateInput) == 0 || len(publicInput) < len(c.PrivateInput) {
		return false
	}
	inputSize := c.InputSize()
	for i := range c.PrivateInput {
		if uint(len(c.PrivateInput[i])) != inputSize {
			return false
		}
	}
	if !v.prepared || !v.sp.fits(c) {
		v.sp = NewScratchPad(v.Config.Field, c)
		v.prepared = true
	}

	proof.Reset()
	t := v.Config.NewTranscript()
	for _, block := range publicInput {
		t.AppendFs(block...)
	}
	c.FillRndCoef(t)

	width := field.SerializedLen()
	outputClaims := make([]E, 0, len(c.PrivateInput))
	verified := true

	for w := range c.PrivateInput {
		in, out := v.sp.LayerIn, v.sp.LayerOut
		copy(in, c.PrivateInput[w])

		var proofClaim E
		for l := range c.Layers {
			layer := &c.Layers[l]
			evalLayer(field, layer, in, out, publicInput[w])

			alpha := t.ChallengeF()
			expected := foldVals(field, out[:uint(1)<<layer.OutputLenLog], alpha)

			raw, err := proof.Next(width)
			if err != nil {
				return false
			}
			proofClaim, err = field.Deserialize(raw)
			if err != nil {
				return false
			}
			t.AppendF(proofClaim)
			verified = verified && field.Equal(expected, proofClaim)

			in, out = out, in
		}
		outputClaims = append(outputClaims, proofClaim)
	}

	if proof.Remaining() != 0 {
		return false
	}

	gamma := t.ChallengeF()
	expectedV := foldVals(field, outputClaims, gamma)
	return verified && field.Equal(expectedV, claimedV)
}
