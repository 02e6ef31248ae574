// Package transcript implements the Fiat-Shamir transcript shared by
// prover and verifier, plus the opaque Proof byte sequence a prove call
// produces.
package transcript

import (
	"ExpanderExec/modules/fields"
)

// StateLen is the byte width of the transcript hash state.
const StateLen = 32

// Transcript absorbs prover messages and squeezes field challenges. The
// same append/challenge sequence on both sides of the protocol yields
// the same challenges; any divergence in absorbed bytes diverges every
// challenge after it.
type Transcript[E any] struct {
	field  fields.Field[E]
	hasher Hasher

	// The values to feed the hash function
	dataPool []byte

	// The hash state
	hashState []byte

	// helper field: counting, irrelevant to the protocol
	count uint
}

func NewTranscript[E any](field fields.Field[E], hasher Hasher) *Transcript[E] {
	return &Transcript[E]{
		field:     field,
		hasher:    hasher,
		hashState: make([]byte, StateLen),
	}
}

func (t *Transcript[E]) AppendBytes(data []byte) {
	t.dataPool = append(t.dataPool, data...)
}

func (t *Transcript[E]) AppendF(e E) {
	t.AppendBytes(t.field.Serialize(e))
}

func (t *Transcript[E]) AppendFs(es ...E) {
	for _, e := range es {
		t.AppendF(e)
	}
}

// ChallengeF squeezes one field element out of the current state.
func (t *Transcript[E]) ChallengeF() E {
	return t.field.FromChallengeBytes(t.HashAndReturnState())
}

func (t *Transcript[E]) ChallengeFs(n uint) []E {
	cs := make([]E, n)
	for i := uint(0); i < n; i++ {
		cs[i] = t.ChallengeF()
	}
	return cs
}

func (t *Transcript[E]) HashAndReturnState() []byte {
	if len(t.dataPool) != 0 {
		buf := make([]byte, 0, len(t.hashState)+len(t.dataPool))
		buf = append(buf, t.hashState...)
		buf = append(buf, t.dataPool...)
		t.hashState = t.hasher.HashToState(buf)
		t.dataPool = nil
	} else {
		t.hashState = t.hasher.HashToState(t.hashState)
	}
	t.count++
	return t.hashState
}

func (t *Transcript[E]) GetCount() uint {
	return t.count
}

func (t *Transcript[E]) ResetCount() {
	t.count = 0
}
