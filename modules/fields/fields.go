// Package fields provides the closed set of finite fields an expander
// circuit can be compiled against, native arithmetic over each of them,
// and the sentinel-based detection of the field type from a circuit file.
package fields

import (
	"fmt"
	"math/big"

	ecc_bn254 "github.com/PolyhedraZK/ExpanderCompilerCollection/ecgo/field/bn254"
	ecc_gf2 "github.com/PolyhedraZK/ExpanderCompilerCollection/ecgo/field/gf2"
	ecc_m31 "github.com/PolyhedraZK/ExpanderCompilerCollection/ecgo/field/m31"
)

// FieldType is the enum value indicating the field a circuit runs over.
type FieldType uint

const (
	FieldTypeM31 FieldType = iota
	FieldTypeBN254
	FieldTypeGF2
)

func (f FieldType) String() string {
	switch f {
	case FieldTypeM31:
		return "M31"
	case FieldTypeBN254:
		return "BN254"
	case FieldTypeGF2:
		return "GF2"
	default:
		return fmt.Sprintf("FieldType(%d)", uint(f))
	}
}

// FieldModulus finds the modulus of the base field tied to the field type.
func (f FieldType) FieldModulus() (modulus *big.Int, err error) {
	switch f {
	case FieldTypeBN254:
		modulus = ecc_bn254.ScalarField
	case FieldTypeM31:
		modulus = ecc_m31.Pbig
	case FieldTypeGF2:
		modulus = ecc_gf2.Pbig
	default:
		err = fmt.Errorf(`unknown field type "%d"`, f)
	}
	return
}

// Field is the arithmetic a generic pipeline is instantiated over. One
// implementation exists per FieldType; elements serialize to a fixed
// width so that a claimed value can trail a proof without framing.
type Field[E any] interface {
	FieldType() FieldType

	Zero() E
	One() E
	FromUint64(v uint64) E

	Add(a, b E) E
	Mul(a, b E) E
	Equal(a, b E) bool
	IsZero(e E) bool

	// SerializedLen is the fixed byte width of a serialized element.
	SerializedLen() uint
	Serialize(e E) []byte
	Deserialize(data []byte) (E, error)

	// FromChallengeBytes maps a transcript hash state to an element.
	FromChallengeBytes(state []byte) E
}
