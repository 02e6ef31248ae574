package server

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"ExpanderExec/modules/circuit"
	"ExpanderExec/modules/config"
	"ExpanderExec/modules/fields"
)

func newTestService(t *testing.T) (*Server[fields.M31], *httptest.Server, []byte) {
	t.Helper()

	field := fields.M31Field{}
	c := circuit.NewRandomCircuit[fields.M31](field, 3, 1, true)

	circuitFile := filepath.Join(t.TempDir(), "circuit.txt")
	require.NoError(t, os.WriteFile(circuitFile, circuit.DumpCircuit(field, c), 0o644))

	cfg := config.M31ExtConfigSha2(config.Vanilla, config.NewMPIConfig())
	s, err := New(cfg, circuitFile)
	require.NoError(t, err)

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	rng := rand.New(rand.NewSource(99))
	w := &circuit.Witness[fields.M31]{
		NumWitnesses:               1,
		NumPrivateInputsPerWitness: c.InputSize(),
		NumPublicInputsPerWitness:  c.NumPublicInputs,
	}
	w.Values = make([]fields.M31, w.NumPrivateInputsPerWitness+w.NumPublicInputsPerWitness)
	for i := range w.Values {
		w.Values[i] = field.FromUint64(rng.Uint64())
	}
	return s, ts, circuit.DumpWitness[fields.M31](field, w)
}

func postBytes(t *testing.T, url string, body []byte) (int, []byte) {
	t.Helper()
	resp, err := http.Post(url, "application/octet-stream", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	got, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, got
}

func TestReadyEndpoint(t *testing.T) {
	_, ts, _ := newTestService(t)

	resp, err := http.Get(ts.URL + "/ready")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "Ready since")
}

func TestProveThenVerifyOverHTTP(t *testing.T) {
	_, ts, witnessBytes := newTestService(t)

	status, artifact := postBytes(t, ts.URL+"/prove", witnessBytes)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, artifact)

	status, verdict := postBytes(t, ts.URL+"/verify", EncodeVerifyPayload(witnessBytes, artifact))
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "success", string(verdict))
}

func TestVerifyCorruptedProofFails(t *testing.T) {
	_, ts, witnessBytes := newTestService(t)

	status, artifact := postBytes(t, ts.URL+"/prove", witnessBytes)
	require.Equal(t, http.StatusOK, status)

	// Flip a byte inside the proof body, past the length prefix.
	artifact[len(artifact)/2] ^= 1
	status, verdict := postBytes(t, ts.URL+"/verify", EncodeVerifyPayload(witnessBytes, artifact))
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "failure", string(verdict))
}

func TestMalformedRequestsAnswer400AndServiceSurvives(t *testing.T) {
	_, ts, witnessBytes := newTestService(t)

	status, _ := postBytes(t, ts.URL+"/prove", []byte("not a witness"))
	require.Equal(t, http.StatusBadRequest, status)

	status, _ = postBytes(t, ts.URL+"/verify", []byte("short"))
	require.Equal(t, http.StatusBadRequest, status)

	// Declared lengths that do not match the body.
	bad := EncodeVerifyPayload(witnessBytes, []byte{1, 2, 3})
	status, _ = postBytes(t, ts.URL+"/verify", bad[:len(bad)-2])
	require.Equal(t, http.StatusBadRequest, status)

	// The process keeps serving after every rejection.
	status, artifact := postBytes(t, ts.URL+"/prove", witnessBytes)
	require.Equal(t, http.StatusOK, status)
	status, verdict := postBytes(t, ts.URL+"/verify", EncodeVerifyPayload(witnessBytes, artifact))
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "success", string(verdict))
}

func TestConcurrentProveAndVerify(t *testing.T) {
	_, ts, witnessBytes := newTestService(t)

	status, artifact := postBytes(t, ts.URL+"/prove", witnessBytes)
	require.Equal(t, http.StatusOK, status)
	verifyPayload := EncodeVerifyPayload(witnessBytes, artifact)

	post := func(path string, body []byte) (int, []byte, error) {
		resp, err := http.Post(ts.URL+path, "application/octet-stream", bytes.NewReader(body))
		if err != nil {
			return 0, nil, err
		}
		defer resp.Body.Close()
		got, err := io.ReadAll(resp.Body)
		return resp.StatusCode, got, err
	}

	var wg sync.WaitGroup
	errs := make(chan string, 32)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				status, got, err := post("/prove", witnessBytes)
				if err != nil || status != http.StatusOK || !bytes.Equal(got, artifact) {
					errs <- "prove mismatch"
				}
			} else {
				status, got, err := post("/verify", verifyPayload)
				if err != nil || status != http.StatusOK || string(got) != "success" {
					errs <- "verify mismatch"
				}
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Fatal(e)
	}
}

func TestVerifyPayloadFraming(t *testing.T) {
	witness := []byte{1, 2, 3}
	proof := []byte{4, 5}

	w, p, err := DecodeVerifyPayload(EncodeVerifyPayload(witness, proof))
	require.NoError(t, err)
	require.Equal(t, witness, w)
	require.Equal(t, proof, p)

	_, _, err = DecodeVerifyPayload(nil)
	require.Error(t, err)

	huge := EncodeVerifyPayload(nil, nil)
	huge[7] = 0xff
	_, _, err = DecodeVerifyPayload(huge)
	require.Error(t, err, "a section length beyond the cap must be rejected")
}
