package circuit

import (
	"encoding/binary"
	"fmt"
	"os"

	"ExpanderExec/modules/fields"
)

// Witness stands for one or more instances of circuit inputs: per
// instance, the private input assignment followed by the public inputs.
type Witness[E any] struct {
	NumWitnesses               uint
	NumPrivateInputsPerWitness uint
	NumPublicInputsPerWitness  uint
	Values                     []E
}

// ToPubPrivInputs separates the witness into per-instance public and
// private input vectors.
func (w *Witness[E]) ToPubPrivInputs() (pubInputs [][]E, privInputs [][]E) {
	pubInputs = make([][]E, w.NumWitnesses)
	privInputs = make([][]E, w.NumWitnesses)

	witnessSize := w.NumPrivateInputsPerWitness + w.NumPublicInputsPerWitness

	for ithWitness := uint(0); ithWitness < w.NumWitnesses; ithWitness++ {
		startIndex := ithWitness * witnessSize
		privInputs[ithWitness] = make([]E, w.NumPrivateInputsPerWitness)
		for i := uint(0); i < w.NumPrivateInputsPerWitness; i++ {
			privInputs[ithWitness][i] = w.Values[startIndex+i]
		}

		startIndex += w.NumPrivateInputsPerWitness
		pubInputs[ithWitness] = make([]E, w.NumPublicInputsPerWitness)
		for i := uint(0); i < w.NumPublicInputsPerWitness; i++ {
			pubInputs[ithWitness][i] = w.Values[startIndex+i]
		}
	}

	return
}

// ParseWitness decodes a witness container: three u64 counts, the
// 32-byte field sentinel, then fixed-width field elements.
func ParseWitness[E any](field fields.Field[E], data []byte) (*Witness[E], error) {
	const header = 24 + LeadingFieldBytes
	if len(data) < header {
		return nil, fmt.Errorf("witness truncated: %d bytes", len(data))
	}

	w := &Witness[E]{
		NumWitnesses:               uint(binary.LittleEndian.Uint64(data[0:8])),
		NumPrivateInputsPerWitness: uint(binary.LittleEndian.Uint64(data[8:16])),
		NumPublicInputsPerWitness:  uint(binary.LittleEndian.Uint64(data[16:24])),
	}

	sentinel := field.FieldType().Sentinel()
	if string(data[24:header]) != string(sentinel[:]) {
		return nil, fmt.Errorf("witness field sentinel does not match %s", field.FieldType())
	}

	if w.NumWitnesses > maxGateCount || w.NumPrivateInputsPerWitness > maxGateCount ||
		w.NumPublicInputsPerWitness > maxGateCount {
		return nil, fmt.Errorf("witness counts out of range")
	}

	width := field.SerializedLen()
	numValues := w.NumWitnesses * (w.NumPrivateInputsPerWitness + w.NumPublicInputsPerWitness)
	body := data[header:]
	if uint(len(body)) != numValues*width {
		return nil, fmt.Errorf("witness body is %d bytes, want %d", len(body), numValues*width)
	}

	w.Values = make([]E, numValues)
	for i := uint(0); i < numValues; i++ {
		v, err := field.Deserialize(body[i*width : (i+1)*width])
		if err != nil {
			return nil, fmt.Errorf("witness value %d: %w", i, err)
		}
		w.Values[i] = v
	}
	return w, nil
}

// DumpWitness serializes a witness container, the inverse of
// ParseWitness.
func DumpWitness[E any](field fields.Field[E], w *Witness[E]) []byte {
	out := make([]byte, 0, 24+LeadingFieldBytes+uint(len(w.Values))*field.SerializedLen())
	out = binary.LittleEndian.AppendUint64(out, uint64(w.NumWitnesses))
	out = binary.LittleEndian.AppendUint64(out, uint64(w.NumPrivateInputsPerWitness))
	out = binary.LittleEndian.AppendUint64(out, uint64(w.NumPublicInputsPerWitness))
	sentinel := field.FieldType().Sentinel()
	out = append(out, sentinel[:]...)
	for _, v := range w.Values {
		out = append(out, field.Serialize(v)...)
	}
	return out
}

// LoadWitnessBytes installs an in-memory witness into the circuit,
// replacing any previous assignment.
func (c *Circuit[E]) LoadWitnessBytes(data []byte) error {
	w, err := ParseWitness(c.Field, data)
	if err != nil {
		return err
	}
	if w.NumPrivateInputsPerWitness != c.InputSize() {
		return fmt.Errorf("witness private width %d does not match circuit input size %d",
			w.NumPrivateInputsPerWitness, c.InputSize())
	}
	if w.NumPublicInputsPerWitness != c.NumPublicInputs {
		return fmt.Errorf("witness public width %d does not match circuit public inputs %d",
			w.NumPublicInputsPerWitness, c.NumPublicInputs)
	}
	if w.NumWitnesses == 0 {
		return fmt.Errorf("witness holds no instances")
	}

	c.PublicInput, c.PrivateInput = w.ToPubPrivInputs()
	return nil
}

// LoadWitnessFile reads a witness file and installs it into the circuit.
func (c *Circuit[E]) LoadWitnessFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("unable to read witness file: %w", err)
	}
	if err := c.LoadWitnessBytes(data); err != nil {
		return fmt.Errorf("witness file %s: %w", path, err)
	}
	return nil
}
