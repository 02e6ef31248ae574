package gkr

import (
	"bytes"
	"fmt"

	"ExpanderExec/modules/fields"
	"ExpanderExec/modules/transcript"
)

// The proof artifact written by prove and consumed by verify is the
// self-delimiting proof followed immediately by the fixed-width claimed
// output value. There is no outer envelope.

// DumpProofAndClaimedV serializes a proof artifact.
func DumpProofAndClaimedV[E any](field fields.Field[E], proof *transcript.Proof, claimedV E) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("unable to serialize proof: %w", err)
	}
	buf.Write(field.Serialize(claimedV))
	return buf.Bytes(), nil
}

// LoadProofAndClaimedV parses a proof artifact. The bytes remaining
// after the proof must be exactly one field element.
func LoadProofAndClaimedV[E any](field fields.Field[E], data []byte) (*transcript.Proof, E, error) {
	var zero E

	r := bytes.NewReader(data)
	proof := &transcript.Proof{}
	if _, err := proof.ReadFrom(r); err != nil {
		return nil, zero, fmt.Errorf("unable to parse proof: %w", err)
	}

	width := field.SerializedLen()
	if uint(r.Len()) != width {
		return nil, zero, fmt.Errorf("claimed value is %d bytes, want %d", r.Len(), width)
	}
	raw := make([]byte, width)
	if _, err := r.Read(raw); err != nil {
		return nil, zero, fmt.Errorf("unable to read claimed value: %w", err)
	}
	claimedV, err := field.Deserialize(raw)
	if err != nil {
		return nil, zero, fmt.Errorf("invalid claimed value: %w", err)
	}
	return proof, claimedV, nil
}
