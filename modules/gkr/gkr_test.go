package gkr

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"ExpanderExec/modules/circuit"
	"ExpanderExec/modules/config"
	"ExpanderExec/modules/fields"
	"ExpanderExec/modules/transcript"
)

func installRandomWitness[E any](
	t *testing.T,
	field fields.Field[E],
	c *circuit.Circuit[E],
	nWitnesses uint,
	seed uint64,
) {
	t.Helper()

	rng := rand.New(rand.NewSource(seed))
	w := &circuit.Witness[E]{
		NumWitnesses:               nWitnesses,
		NumPrivateInputsPerWitness: c.InputSize(),
		NumPublicInputsPerWitness:  c.NumPublicInputs,
	}
	numValues := nWitnesses * (w.NumPrivateInputsPerWitness + w.NumPublicInputsPerWitness)
	w.Values = make([]E, numValues)
	for i := range w.Values {
		w.Values[i] = field.FromUint64(rng.Uint64())
	}
	require.NoError(t, c.LoadWitnessBytes(circuit.DumpWitness(field, w)))
}

func loadedRandomCircuit[E any](
	t *testing.T,
	field fields.Field[E],
	nLayers, nWitnesses uint,
	seed uint64,
) *circuit.Circuit[E] {
	t.Helper()

	c := circuit.NewRandomCircuit(field, nLayers, nWitnesses, true)
	installRandomWitness(t, field, c, nWitnesses, seed)
	return c
}

func testProveThenVerify[E any](t *testing.T, cfg *config.Config[E], nWitnesses uint) {
	c := loadedRandomCircuit(t, cfg.Field, 3, nWitnesses, 1000+uint64(nWitnesses))

	prover := NewProver(cfg)
	prover.PrepareMem(c)
	claimedV, proof, err := prover.Prove(c)
	require.NoError(t, err)
	require.NotZero(t, len(proof.Bytes))

	verifier := NewVerifier(cfg)
	require.True(t, verifier.Verify(c, c.PublicInput, claimedV, proof))
}

func TestProveThenVerify(t *testing.T) {
	mpi := config.NewMPIConfig()
	testProveThenVerify(t, config.M31ExtConfigSha2(config.Vanilla, mpi), 1)
	testProveThenVerify(t, config.M31ExtConfigSha2(config.Vanilla, mpi), 4)
	testProveThenVerify(t, config.BN254ConfigMIMC5(config.Vanilla, mpi), 2)
	testProveThenVerify(t, config.GF2ExtConfigSha2(config.Vanilla, mpi), 2)
}

func TestProveThenVerifyWithRandomCoefGates(t *testing.T) {
	cfg := config.M31ExtConfigSha2(config.Vanilla, config.NewMPIConfig())
	field := cfg.Field

	// One transcript-drawn coefficient on each gate kind.
	c := circuit.NewRandomCircuit(field, 3, 2, true)
	c.Layers[0].Mul[0].Coef = circuit.Coef[fields.M31]{CoefType: circuit.Random}
	c.Layers[1].Add[0].Coef = circuit.Coef[fields.M31]{CoefType: circuit.Random}
	c.Layers[2].Cst[0].Coef = circuit.Coef[fields.M31]{CoefType: circuit.Random}

	back, err := circuit.LoadCircuit(field, circuit.DumpCircuit(field, c))
	require.NoError(t, err)
	require.Equal(t, circuit.Random, back.Layers[0].Mul[0].Coef.CoefType)
	require.Equal(t, circuit.Random, back.Layers[1].Add[0].Coef.CoefType)
	require.Equal(t, circuit.Random, back.Layers[2].Cst[0].Coef.CoefType)

	installRandomWitness(t, field, back, 2, 85)

	prover := NewProver(cfg)
	claimedV, proof, err := prover.Prove(back)
	require.NoError(t, err)

	// Prover and verifier draw the same coefficients at the same
	// transcript position, so the proof checks out.
	verifier := NewVerifier(cfg)
	require.True(t, verifier.Verify(back, back.PublicInput, claimedV, proof))

	proof.Bytes[len(proof.Bytes)/2] ^= 1
	require.False(t, verifier.Verify(back, back.PublicInput, claimedV, proof))
}

func TestProveIsDeterministic(t *testing.T) {
	cfg := config.M31ExtConfigSha2(config.Vanilla, config.NewMPIConfig())
	c := loadedRandomCircuit(t, cfg.Field, 3, 2, 77)

	prover := NewProver(cfg)
	v1, p1, err := prover.Prove(c)
	require.NoError(t, err)
	v2, p2, err := prover.Prove(c)
	require.NoError(t, err)

	require.Equal(t, v1, v2)
	require.Equal(t, p1.Bytes, p2.Bytes)
}

func TestVerifyRejectsTamperedProof(t *testing.T) {
	cfg := config.M31ExtConfigSha2(config.Vanilla, config.NewMPIConfig())
	c := loadedRandomCircuit(t, cfg.Field, 3, 2, 13)

	prover := NewProver(cfg)
	claimedV, proof, err := prover.Prove(c)
	require.NoError(t, err)

	verifier := NewVerifier(cfg)
	for _, idx := range []int{0, len(proof.Bytes) / 2, len(proof.Bytes) - 1} {
		proof.Bytes[idx] ^= 1
		require.False(t, verifier.Verify(c, c.PublicInput, claimedV, proof),
			"flipping proof byte %d must not verify", idx)
		proof.Bytes[idx] ^= 1
	}
	require.True(t, verifier.Verify(c, c.PublicInput, claimedV, proof),
		"the restored proof must verify again")
}

func TestVerifyRejectsWrongClaimedValue(t *testing.T) {
	cfg := config.M31ExtConfigSha2(config.Vanilla, config.NewMPIConfig())
	c := loadedRandomCircuit(t, cfg.Field, 3, 1, 21)

	prover := NewProver(cfg)
	claimedV, proof, err := prover.Prove(c)
	require.NoError(t, err)

	wrong := cfg.Field.Add(claimedV, cfg.Field.One())
	verifier := NewVerifier(cfg)
	require.False(t, verifier.Verify(c, c.PublicInput, wrong, proof))
}

func TestVerifyRejectsWrongWitness(t *testing.T) {
	cfg := config.M31ExtConfigSha2(config.Vanilla, config.NewMPIConfig())
	c := loadedRandomCircuit(t, cfg.Field, 3, 1, 31)

	prover := NewProver(cfg)
	claimedV, proof, err := prover.Prove(c)
	require.NoError(t, err)

	c.PrivateInput[0][0] = cfg.Field.Add(c.PrivateInput[0][0], cfg.Field.One())
	verifier := NewVerifier(cfg)
	require.False(t, verifier.Verify(c, c.PublicInput, claimedV, proof))
}

func TestVerifyRejectsProofLengthMismatch(t *testing.T) {
	cfg := config.M31ExtConfigSha2(config.Vanilla, config.NewMPIConfig())
	c := loadedRandomCircuit(t, cfg.Field, 3, 1, 41)

	prover := NewProver(cfg)
	claimedV, proof, err := prover.Prove(c)
	require.NoError(t, err)

	verifier := NewVerifier(cfg)

	short := &transcript.Proof{Bytes: append([]byte(nil), proof.Bytes[:len(proof.Bytes)-4]...)}
	require.False(t, verifier.Verify(c, c.PublicInput, claimedV, short))

	long := &transcript.Proof{Bytes: append(append([]byte(nil), proof.Bytes...), 0, 0, 0, 0)}
	require.False(t, verifier.Verify(c, c.PublicInput, claimedV, long))
}

func TestProofArtifactRoundtrip(t *testing.T) {
	cfg := config.GF2ExtConfigSha2(config.Vanilla, config.NewMPIConfig())
	c := loadedRandomCircuit(t, cfg.Field, 2, 1, 55)

	prover := NewProver(cfg)
	claimedV, proof, err := prover.Prove(c)
	require.NoError(t, err)

	artifact, err := DumpProofAndClaimedV(cfg.Field, proof, claimedV)
	require.NoError(t, err)

	backProof, backV, err := LoadProofAndClaimedV(cfg.Field, artifact)
	require.NoError(t, err)
	require.Equal(t, proof.Bytes, backProof.Bytes)
	require.True(t, cfg.Field.Equal(claimedV, backV))
}

func TestProofArtifactTruncated(t *testing.T) {
	cfg := config.M31ExtConfigSha2(config.Vanilla, config.NewMPIConfig())
	c := loadedRandomCircuit(t, cfg.Field, 2, 1, 65)

	prover := NewProver(cfg)
	claimedV, proof, err := prover.Prove(c)
	require.NoError(t, err)

	artifact, err := DumpProofAndClaimedV(cfg.Field, proof, claimedV)
	require.NoError(t, err)

	for _, n := range []int{0, 7, len(artifact) - 1} {
		_, _, err := LoadProofAndClaimedV(cfg.Field, artifact[:n])
		require.Error(t, err, "truncation to %d bytes must fail", n)
	}

	_, _, err = LoadProofAndClaimedV(cfg.Field, append(artifact, 0))
	require.Error(t, err, "trailing bytes after the claimed value must fail")
}
