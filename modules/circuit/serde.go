package circuit

import (
	"encoding/binary"
	"fmt"
	"os"

	"ExpanderExec/modules/fields"
)

// VersionNum is the circuit file magic, the u64 little-endian reading
// of b'CIRCUIT6'.
const VersionNum uint64 = 3914834606642317635

// LeadingFieldBytes is the width of the sentinel field element placed
// right after the version magic: the modulus of the field the circuit
// runs over.
const LeadingFieldBytes = 32

// maxGateCount bounds any count read from a circuit file so a corrupt
// header cannot drive allocation.
const maxGateCount = 1 << 28

type decoder struct {
	data []byte
	off  int
}

func (d *decoder) u64() (uint64, error) {
	if d.off+8 > len(d.data) {
		return 0, fmt.Errorf("circuit file truncated at offset %d", d.off)
	}
	v := binary.LittleEndian.Uint64(d.data[d.off:])
	d.off += 8
	return v, nil
}

func (d *decoder) count() (uint, error) {
	v, err := d.u64()
	if err != nil {
		return 0, err
	}
	if v > maxGateCount {
		return 0, fmt.Errorf("circuit file count %d exceeds limit", v)
	}
	return uint(v), nil
}

func (d *decoder) u8() (uint8, error) {
	if d.off >= len(d.data) {
		return 0, fmt.Errorf("circuit file truncated at offset %d", d.off)
	}
	v := d.data[d.off]
	d.off++
	return v, nil
}

func (d *decoder) bytes(n uint) ([]byte, error) {
	if d.off+int(n) > len(d.data) {
		return nil, fmt.Errorf("circuit file truncated at offset %d", d.off)
	}
	out := d.data[d.off : d.off+int(n)]
	d.off += int(n)
	return out, nil
}

type encoder struct {
	data []byte
}

func (e *encoder) u64(v uint64) {
	e.data = binary.LittleEndian.AppendUint64(e.data, v)
}

func (e *encoder) u8(v uint8) {
	e.data = append(e.data, v)
}

func (e *encoder) bytes(b []byte) {
	e.data = append(e.data, b...)
}

func decodeCoef[E any](d *decoder, field fields.Field[E], allowPublicInput bool) (Coef[E], error) {
	var coef Coef[E]
	kind, err := d.u8()
	if err != nil {
		return coef, err
	}
	switch CoefType(kind) {
	case Constant:
		raw, err := d.bytes(field.SerializedLen())
		if err != nil {
			return coef, err
		}
		value, err := field.Deserialize(raw)
		if err != nil {
			return coef, fmt.Errorf("invalid constant coefficient: %w", err)
		}
		coef = Coef[E]{CoefType: Constant, Value: value}
	case Random:
		coef = Coef[E]{CoefType: Random}
	case PublicInput:
		idx, err := d.u64()
		if err != nil {
			return coef, err
		}
		if !allowPublicInput {
			return coef, fmt.Errorf("public-input coefficient only allowed on cst gates")
		}
		coef = Coef[E]{CoefType: PublicInput, InputIdx: uint(idx)}
	default:
		return coef, fmt.Errorf("unknown coefficient type %d", kind)
	}
	return coef, nil
}

func encodeCoef[E any](e *encoder, field fields.Field[E], coef *Coef[E]) {
	e.u8(uint8(coef.CoefType))
	switch coef.CoefType {
	case Constant:
		e.bytes(field.Serialize(coef.Value))
	case PublicInput:
		e.u64(uint64(coef.InputIdx))
	}
}

func decodeGates[E any](d *decoder, field fields.Field[E], arity uint, allowPublicInput bool) ([]Gate[E], error) {
	n, err := d.count()
	if err != nil {
		return nil, err
	}
	gates := make([]Gate[E], 0, n)
	for i := uint(0); i < n; i++ {
		var gate Gate[E]
		gate.IIds = make([]uint, arity)
		for j := uint(0); j < arity; j++ {
			id, err := d.u64()
			if err != nil {
				return nil, err
			}
			gate.IIds[j] = uint(id)
		}
		o, err := d.u64()
		if err != nil {
			return nil, err
		}
		gate.OId = uint(o)
		gate.Coef, err = decodeCoef(d, field, allowPublicInput)
		if err != nil {
			return nil, err
		}
		gates = append(gates, gate)
	}
	return gates, nil
}

func encodeGates[E any](e *encoder, field fields.Field[E], gates []Gate[E]) {
	e.u64(uint64(len(gates)))
	for i := range gates {
		for _, id := range gates[i].IIds {
			e.u64(uint64(id))
		}
		e.u64(uint64(gates[i].OId))
		encodeCoef(e, field, &gates[i].Coef)
	}
}

// LoadCircuit parses a serialized circuit, checks its version magic and
// field sentinel against the active field, flattens the segment table
// and validates every gate reference.
func LoadCircuit[E any](field fields.Field[E], data []byte) (*Circuit[E], error) {
	d := &decoder{data: data}

	version, err := d.u64()
	if err != nil {
		return nil, err
	}
	if version != VersionNum {
		return nil, fmt.Errorf("unexpected circuit version magic %d", version)
	}

	sentinelBytes, err := d.bytes(LeadingFieldBytes)
	if err != nil {
		return nil, err
	}
	sentinel := field.FieldType().Sentinel()
	if string(sentinelBytes) != string(sentinel[:]) {
		return nil, fmt.Errorf("circuit field sentinel does not match %s", field.FieldType())
	}

	var ecc ECCCircuit[E]
	numPublicInputs, err := d.u64()
	if err != nil {
		return nil, err
	}
	ecc.NumPublicInputs = uint(numPublicInputs)
	expectedZeros, err := d.u64()
	if err != nil {
		return nil, err
	}
	ecc.ExpectedNumOutputZeros = uint(expectedZeros)

	nSegments, err := d.count()
	if err != nil {
		return nil, err
	}
	ecc.Segments = make([]Segment[E], nSegments)
	for i := uint(0); i < nSegments; i++ {
		seg := &ecc.Segments[i]
		iVarNum, err := d.u64()
		if err != nil {
			return nil, err
		}
		oVarNum, err := d.u64()
		if err != nil {
			return nil, err
		}
		seg.IVarNum = uint(iVarNum)
		seg.OVarNum = uint(oVarNum)
		if seg.IVarNum > 30 || seg.OVarNum > 30 {
			return nil, fmt.Errorf("segment %d io size out of range", i)
		}

		nChild, err := d.count()
		if err != nil {
			return nil, err
		}
		seg.ChildSegs = make([]ChildSegInfo, 0, nChild)
		for j := uint(0); j < nChild; j++ {
			id, err := d.u64()
			if err != nil {
				return nil, err
			}
			if uint(id) >= i {
				return nil, fmt.Errorf("segment %d references non-prior child %d", i, id)
			}
			nAlloc, err := d.count()
			if err != nil {
				return nil, err
			}
			allocs := make([]Allocation, 0, nAlloc)
			for k := uint(0); k < nAlloc; k++ {
				iOffset, err := d.u64()
				if err != nil {
					return nil, err
				}
				oOffset, err := d.u64()
				if err != nil {
					return nil, err
				}
				allocs = append(allocs, Allocation{IOffset: uint(iOffset), OOffset: uint(oOffset)})
			}
			seg.ChildSegs = append(seg.ChildSegs, ChildSegInfo{Id: uint(id), Allocation: allocs})
		}

		if seg.GateMuls, err = decodeGates(d, field, 2, false); err != nil {
			return nil, err
		}
		if seg.GateAdds, err = decodeGates(d, field, 1, false); err != nil {
			return nil, err
		}
		if seg.GateConsts, err = decodeGates(d, field, 0, true); err != nil {
			return nil, err
		}
	}

	nLayerIds, err := d.count()
	if err != nil {
		return nil, err
	}
	ecc.LayerIds = make([]uint, 0, nLayerIds)
	for i := uint(0); i < nLayerIds; i++ {
		id, err := d.u64()
		if err != nil {
			return nil, err
		}
		if uint(id) >= nSegments {
			return nil, fmt.Errorf("layer id %d out of range", id)
		}
		ecc.LayerIds = append(ecc.LayerIds, uint(id))
	}
	if d.off != len(data) {
		return nil, fmt.Errorf("trailing bytes after circuit body")
	}

	c := ecc.Flatten()
	c.Field = field
	if err := validateTopology(c); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadCircuitFile reads and parses a circuit file.
func LoadCircuitFile[E any](field fields.Field[E], path string) (*Circuit[E], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read circuit file: %w", err)
	}
	c, err := LoadCircuit(field, data)
	if err != nil {
		return nil, fmt.Errorf("circuit file %s: %w", path, err)
	}
	return c, nil
}

func validateTopology[E any](c *Circuit[E]) error {
	if len(c.Layers) == 0 {
		return fmt.Errorf("circuit has no layers")
	}
	for i := range c.Layers {
		layer := &c.Layers[i]
		if i > 0 && layer.InputLenLog != c.Layers[i-1].OutputLenLog {
			return fmt.Errorf("layer %d input size does not chain from layer %d output", i, i-1)
		}
		inputSize := uint(1) << layer.InputLenLog
		outputSize := uint(1) << layer.OutputLenLog
		for _, gates := range [][]Gate[E]{layer.Mul, layer.Add, layer.Cst} {
			for j := range gates {
				gate := &gates[j]
				if gate.OId >= outputSize {
					return fmt.Errorf("layer %d gate output %d out of range", i, gate.OId)
				}
				for _, id := range gate.IIds {
					if id >= inputSize {
						return fmt.Errorf("layer %d gate input %d out of range", i, id)
					}
				}
				if gate.Coef.CoefType == PublicInput && gate.Coef.InputIdx >= c.NumPublicInputs {
					return fmt.Errorf("layer %d gate public input %d out of range", i, gate.Coef.InputIdx)
				}
			}
		}
	}
	return nil
}

// DumpCircuit serializes a circuit as a single-segment-per-layer
// segment table, the inverse of LoadCircuit.
func DumpCircuit[E any](field fields.Field[E], c *Circuit[E]) []byte {
	e := &encoder{}
	e.u64(VersionNum)
	sentinel := field.FieldType().Sentinel()
	e.bytes(sentinel[:])
	e.u64(uint64(c.NumPublicInputs))
	e.u64(uint64(c.ExpectedNumOutputZeros))

	e.u64(uint64(len(c.Layers)))
	for i := range c.Layers {
		layer := &c.Layers[i]
		e.u64(uint64(layer.InputLenLog))
		e.u64(uint64(layer.OutputLenLog))
		e.u64(0) // no child segments
		encodeGates(e, field, layer.Mul)
		encodeGates(e, field, layer.Add)
		encodeGates(e, field, layer.Cst)
	}

	e.u64(uint64(len(c.Layers)))
	for i := range c.Layers {
		e.u64(uint64(i))
	}
	return e.data
}
