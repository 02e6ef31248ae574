package fields

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// BN254 is an element of the BN254 scalar field, backed by gnark-crypto.
type BN254 = fr.Element

// BN254Field implements Field over the BN254 scalar field.
type BN254Field struct{}

func (BN254Field) FieldType() FieldType { return FieldTypeBN254 }

func (BN254Field) Zero() BN254 { return BN254{} }

func (BN254Field) One() BN254 {
	var e BN254
	e.SetOne()
	return e
}

func (BN254Field) FromUint64(v uint64) BN254 {
	var e BN254
	e.SetUint64(v)
	return e
}

func (BN254Field) Add(a, b BN254) BN254 {
	var res BN254
	res.Add(&a, &b)
	return res
}

func (BN254Field) Mul(a, b BN254) BN254 {
	var res BN254
	res.Mul(&a, &b)
	return res
}

func (BN254Field) Equal(a, b BN254) bool { return a.Equal(&b) }

func (BN254Field) IsZero(e BN254) bool { return e.IsZero() }

func (BN254Field) SerializedLen() uint { return fr.Bytes }

func (BN254Field) Serialize(e BN254) []byte {
	out := e.Bytes()
	return out[:]
}

func (BN254Field) Deserialize(data []byte) (BN254, error) {
	var e BN254
	if len(data) != fr.Bytes {
		return e, fmt.Errorf("bn254 element expects %d bytes, got %d", fr.Bytes, len(data))
	}
	if err := e.SetBytesCanonical(data); err != nil {
		return e, fmt.Errorf("bn254 element: %w", err)
	}
	return e, nil
}

func (BN254Field) FromChallengeBytes(state []byte) BN254 {
	var e BN254
	e.SetBytes(state)
	return e
}
