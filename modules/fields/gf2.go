package fields

import (
	"encoding/binary"
	"fmt"
)

// GF2Ext128 is an element of GF(2^128), the challenge extension of the
// GF2 base field, reduced modulo x^128 + x^7 + x^2 + x + 1.
type GF2Ext128 struct {
	Lo, Hi uint64
}

// GF2Field implements Field over GF(2^128).
type GF2Field struct{}

func (GF2Field) FieldType() FieldType { return FieldTypeGF2 }

func (GF2Field) Zero() GF2Ext128 { return GF2Ext128{} }

func (GF2Field) One() GF2Ext128 { return GF2Ext128{Lo: 1} }

func (GF2Field) FromUint64(v uint64) GF2Ext128 { return GF2Ext128{Lo: v} }

// Add in characteristic two is xor.
func (GF2Field) Add(a, b GF2Ext128) GF2Ext128 {
	return GF2Ext128{Lo: a.Lo ^ b.Lo, Hi: a.Hi ^ b.Hi}
}

// Mul is the carryless shift-and-xor product, reducing x^128 to
// x^7 + x^2 + x + 1 (0x87) as the overflow bit falls out.
func (GF2Field) Mul(a, b GF2Ext128) GF2Ext128 {
	var res GF2Ext128
	for i := 0; i < 128; i++ {
		var bit uint64
		if i < 64 {
			bit = (b.Lo >> uint(i)) & 1
		} else {
			bit = (b.Hi >> uint(i-64)) & 1
		}
		if bit == 1 {
			res.Lo ^= a.Lo
			res.Hi ^= a.Hi
		}

		carry := a.Hi >> 63
		a.Hi = a.Hi<<1 | a.Lo>>63
		a.Lo <<= 1
		if carry == 1 {
			a.Lo ^= 0x87
		}
	}
	return res
}

func (GF2Field) Equal(a, b GF2Ext128) bool { return a == b }

func (GF2Field) IsZero(e GF2Ext128) bool { return e == GF2Ext128{} }

func (GF2Field) SerializedLen() uint { return 16 }

func (GF2Field) Serialize(e GF2Ext128) []byte {
	out := make([]byte, 16)
	binary.LittleEndian.PutUint64(out[:8], e.Lo)
	binary.LittleEndian.PutUint64(out[8:], e.Hi)
	return out
}

func (GF2Field) Deserialize(data []byte) (GF2Ext128, error) {
	if len(data) != 16 {
		return GF2Ext128{}, fmt.Errorf("gf2 element expects 16 bytes, got %d", len(data))
	}
	return GF2Ext128{
		Lo: binary.LittleEndian.Uint64(data[:8]),
		Hi: binary.LittleEndian.Uint64(data[8:]),
	}, nil
}

func (GF2Field) FromChallengeBytes(state []byte) GF2Ext128 {
	return GF2Ext128{
		Lo: binary.LittleEndian.Uint64(state[:8]),
		Hi: binary.LittleEndian.Uint64(state[8:16]),
	}
}
