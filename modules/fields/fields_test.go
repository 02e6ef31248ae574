package fields

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func writeCircuitHeader(t *testing.T, sentinel []byte) string {
	t.Helper()

	header := make([]byte, SentinelOffset+SentinelLen)
	binary.LittleEndian.PutUint64(header[:8], 12345)
	copy(header[SentinelOffset:], sentinel)

	path := filepath.Join(t.TempDir(), "circuit.txt")
	require.NoError(t, os.WriteFile(path, header, 0o644))
	return path
}

func TestDetectFieldTypeFromCircuitFile(t *testing.T) {
	for _, fieldType := range []FieldType{FieldTypeM31, FieldTypeBN254, FieldTypeGF2} {
		sentinel := fieldType.Sentinel()
		path := writeCircuitHeader(t, sentinel[:])

		detected, err := DetectFieldTypeFromCircuitFile(path)
		require.NoError(t, err)
		require.Equal(t, fieldType, detected)
	}
}

func TestDetectFieldTypeUnknownSentinel(t *testing.T) {
	sentinel := make([]byte, SentinelLen)
	for i := range sentinel {
		sentinel[i] = 0xab
	}
	path := writeCircuitHeader(t, sentinel)

	_, err := DetectFieldTypeFromCircuitFile(path)
	require.Error(t, err, "an unrecognized sentinel must not map to any field")
}

func TestDetectFieldTypeShortFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "circuit.txt")
	require.NoError(t, os.WriteFile(path, make([]byte, SentinelOffset+SentinelLen-1), 0o644))

	_, err := DetectFieldTypeFromCircuitFile(path)
	require.Error(t, err)
}

func TestSentinelsAreDistinct(t *testing.T) {
	require.NotEqual(t, SentinelM31, SentinelBN254)
	require.NotEqual(t, SentinelM31, SentinelGF2)
	require.NotEqual(t, SentinelBN254, SentinelGF2)
}

func TestM31SentinelEncoding(t *testing.T) {
	// 2^31 - 1 little-endian, zero padded to 32 bytes.
	var expected [SentinelLen]byte
	binary.LittleEndian.PutUint32(expected[:4], M31Modulus)
	require.Equal(t, expected, SentinelM31)
}

func testSerializeRoundtrip[E any](t *testing.T, field Field[E]) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 100; i++ {
		e := field.FromUint64(rng.Uint64())
		raw := field.Serialize(e)
		require.Equal(t, field.SerializedLen(), uint(len(raw)))

		back, err := field.Deserialize(raw)
		require.NoError(t, err)
		require.True(t, field.Equal(e, back))
	}

	_, err := field.Deserialize(make([]byte, field.SerializedLen()+1))
	require.Error(t, err)
}

func TestSerializeRoundtrip(t *testing.T) {
	testSerializeRoundtrip[M31](t, M31Field{})
	testSerializeRoundtrip[BN254](t, BN254Field{})
	testSerializeRoundtrip[GF2Ext128](t, GF2Field{})
}

func TestM31DeserializeRejectsNonCanonical(t *testing.T) {
	raw := make([]byte, 4)
	binary.LittleEndian.PutUint32(raw, M31Modulus)
	_, err := M31Field{}.Deserialize(raw)
	require.Error(t, err)
}

func TestM31Arithmetic(t *testing.T) {
	f := M31Field{}
	require.Equal(t, f.Zero(), f.Add(f.FromUint64(uint64(M31Modulus)-1), f.One()))
	require.Equal(t, f.FromUint64(6), f.Mul(f.FromUint64(2), f.FromUint64(3)))
	require.True(t, f.IsZero(f.Mul(f.FromUint64(12345), f.Zero())))
}

func TestGF2Arithmetic(t *testing.T) {
	f := GF2Field{}
	rng := rand.New(rand.NewSource(7))

	a := GF2Ext128{Lo: rng.Uint64(), Hi: rng.Uint64()}
	b := GF2Ext128{Lo: rng.Uint64(), Hi: rng.Uint64()}
	c := GF2Ext128{Lo: rng.Uint64(), Hi: rng.Uint64()}

	// Characteristic two: every element is its own negation.
	require.True(t, f.IsZero(f.Add(a, a)))

	require.Equal(t, a, f.Mul(a, f.One()))
	require.True(t, f.IsZero(f.Mul(a, f.Zero())))

	require.Equal(t, f.Mul(a, b), f.Mul(b, a))
	require.Equal(t,
		f.Mul(a, f.Add(b, c)),
		f.Add(f.Mul(a, b), f.Mul(a, c)),
	)
	require.Equal(t, f.Mul(f.Mul(a, b), c), f.Mul(a, f.Mul(b, c)))
}

func TestFromChallengeBytesInRange(t *testing.T) {
	state := make([]byte, 32)
	for i := range state {
		state[i] = 0xff
	}
	e := M31Field{}.FromChallengeBytes(state)
	require.Less(t, uint32(e), M31Modulus)
}
