package fields

import (
	"encoding/binary"
	"fmt"
)

// M31Modulus is the Mersenne prime 2^31 - 1.
const M31Modulus uint32 = 2147483647

// M31 is an element of the Mersenne31 base field.
type M31 uint32

// M31Field implements Field over Mersenne31.
type M31Field struct{}

func (M31Field) FieldType() FieldType { return FieldTypeM31 }

func (M31Field) Zero() M31 { return 0 }

func (M31Field) One() M31 { return 1 }

func (M31Field) FromUint64(v uint64) M31 {
	return M31(v % uint64(M31Modulus))
}

func (M31Field) Add(a, b M31) M31 {
	s := uint64(a) + uint64(b)
	if s >= uint64(M31Modulus) {
		s -= uint64(M31Modulus)
	}
	return M31(s)
}

func (M31Field) Mul(a, b M31) M31 {
	return M31(uint64(a) * uint64(b) % uint64(M31Modulus))
}

func (M31Field) Equal(a, b M31) bool { return a == b }

func (M31Field) IsZero(e M31) bool { return e == 0 }

func (M31Field) SerializedLen() uint { return 4 }

func (M31Field) Serialize(e M31) []byte {
	out := make([]byte, 4)
	binary.LittleEndian.PutUint32(out, uint32(e))
	return out
}

func (M31Field) Deserialize(data []byte) (M31, error) {
	if len(data) != 4 {
		return 0, fmt.Errorf("m31 element expects 4 bytes, got %d", len(data))
	}
	v := binary.LittleEndian.Uint32(data)
	if v >= M31Modulus {
		return 0, fmt.Errorf("m31 element out of range: %d", v)
	}
	return M31(v), nil
}

func (f M31Field) FromChallengeBytes(state []byte) M31 {
	return f.FromUint64(binary.LittleEndian.Uint64(state[:8]))
}
