package fields

import (
	"bytes"
	"fmt"
	"math/big"
	"os"
)

// SentinelOffset is where the 32-byte field sentinel starts in a
// circuit file, right after the u64 version magic.
const SentinelOffset = 8

// SentinelLen is the byte width of the field sentinel: the field
// modulus encoded little-endian, zero padded.
const SentinelLen = 32

var (
	SentinelM31   = mustSentinel(FieldTypeM31)
	SentinelBN254 = mustSentinel(FieldTypeBN254)
	SentinelGF2   = mustSentinel(FieldTypeGF2)
)

// Sentinel returns the 32-byte sentinel a circuit file carries for this
// field type.
func (f FieldType) Sentinel() [SentinelLen]byte {
	switch f {
	case FieldTypeM31:
		return SentinelM31
	case FieldTypeBN254:
		return SentinelBN254
	case FieldTypeGF2:
		return SentinelGF2
	default:
		panic("unknown field type")
	}
}

func mustSentinel(f FieldType) [SentinelLen]byte {
	modulus, err := f.FieldModulus()
	if err != nil {
		panic(err)
	}
	return sentinelFromModulus(modulus)
}

func sentinelFromModulus(modulus *big.Int) [SentinelLen]byte {
	var sentinel [SentinelLen]byte
	be := modulus.FillBytes(make([]byte, SentinelLen))
	for i := 0; i < SentinelLen; i++ {
		sentinel[i] = be[SentinelLen-1-i]
	}
	return sentinel
}

// DetectFieldTypeFromCircuitFile reads the sentinel field element bytes
// of the circuit file header to determine the field type. Callers treat
// a failure here as fatal: format detection is a precondition for every
// downstream step.
func DetectFieldTypeFromCircuitFile(circuitFile string) (FieldType, error) {
	data, err := os.ReadFile(circuitFile)
	if err != nil {
		return 0, fmt.Errorf("unable to read circuit file: %w", err)
	}
	if len(data) < SentinelOffset+SentinelLen {
		return 0, fmt.Errorf("circuit file %s too short for a field sentinel", circuitFile)
	}

	fieldBytes := data[SentinelOffset : SentinelOffset+SentinelLen]
	for _, f := range []FieldType{FieldTypeM31, FieldTypeBN254, FieldTypeGF2} {
		sentinel := f.Sentinel()
		if bytes.Equal(fieldBytes, sentinel[:]) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown field type, sentinel bytes: %x", fieldBytes)
}
