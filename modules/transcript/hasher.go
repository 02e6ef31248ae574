package transcript

import (
	"crypto/sha256"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
)

// Hasher hashes an arbitrary byte string into a fresh 32-byte hash
// state. Implementations are stateless; the sponge bookkeeping lives in
// the Transcript.
type Hasher interface {
	HashToState(data []byte) []byte
}

// SHA256Hasher backs the M31 and GF2 configurations.
type SHA256Hasher struct{}

func (SHA256Hasher) HashToState(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

// MiMCHasher backs the BN254 configuration, absorbing data as BN254
// scalars through gnark-crypto's native MiMC.
type MiMCHasher struct{}

func (MiMCHasher) HashToState(data []byte) []byte {
	h := mimc.NewMiMC()

	// 31-byte chunks left-padded to a block keep every absorbed block
	// below the field modulus.
	const chunk = mimc.BlockSize - 1
	var block [mimc.BlockSize]byte
	for start := 0; start < len(data); start += chunk {
		end := min(start+chunk, len(data))
		clear(block[:])
		copy(block[mimc.BlockSize-(end-start):], data[start:end])
		h.Write(block[:])
	}
	if len(data) == 0 {
		var e fr.Element
		b := e.Bytes()
		h.Write(b[:])
	}
	return h.Sum(nil)
}
