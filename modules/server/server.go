// Package server exposes prove and verify over HTTP. One circuit is
// loaded at startup and shared by both endpoints behind a mutex, since
// installing a witness mutates the circuit in place.
package server

import (
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/consensys/gnark/logger"
	"github.com/rs/zerolog"

	"ExpanderExec/modules/circuit"
	"ExpanderExec/modules/config"
	"ExpanderExec/modules/gkr"
)

// maxRequestBytes caps request bodies before any parsing happens.
const maxRequestBytes = 1 << 30

// Server serves one circuit. The lock order is circuitMu first, then
// the engine's own mutex; both endpoints follow it.
type Server[E any] struct {
	cfg *config.Config[E]
	log zerolog.Logger

	circuitMu sync.Mutex
	circuit   *circuit.Circuit[E]

	proverMu sync.Mutex
	prover   *gkr.Prover[E]

	verifierMu sync.Mutex
	verifier   *gkr.Verifier[E]

	readySince time.Time
}

// New loads the circuit file and prepares both engines. The prover's
// scratch memory is sized once here, not per request.
func New[E any](cfg *config.Config[E], circuitFile string) (*Server[E], error) {
	c, err := circuit.LoadCircuitFile(cfg.Field, circuitFile)
	if err != nil {
		return nil, err
	}

	prover := gkr.NewProver(cfg)
	prover.PrepareMem(c)

	log := logger.Logger().With().Str("component", "server").Logger()
	log.Info().Str("field", cfg.FieldType.String()).Msg("circuit loaded")

	return &Server[E]{
		cfg:        cfg,
		log:        log,
		circuit:    c,
		prover:     prover,
		verifier:   gkr.NewVerifier(cfg),
		readySince: time.Now(),
	}, nil
}

// Handler builds the service routes.
func (s *Server[E]) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.HandleFunc("POST /prove", s.handleProve)
	mux.HandleFunc("POST /verify", s.handleVerify)
	return mux
}

// ListenAndServe blocks serving the routes on addr.
func (s *Server[E]) ListenAndServe(addr string) error {
	s.log.Info().Str("addr", addr).Msg("listening")
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server[E]) handleReady(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, "Ready since %s", s.readySince.Format(time.RFC3339))
}

// handleProve takes the raw witness bytes as the request body and
// answers with the proof artifact. Malformed witnesses are the
// client's fault and answered with 400; the process keeps serving.
func (s *Server[E]) handleProve(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		http.Error(w, "unable to read request body", http.StatusBadRequest)
		return
	}

	s.circuitMu.Lock()
	defer s.circuitMu.Unlock()
	s.proverMu.Lock()
	defer s.proverMu.Unlock()

	if err := s.circuit.LoadWitnessBytes(body); err != nil {
		s.log.Warn().Err(err).Msg("prove request rejected")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	claimedV, proof, err := s.prover.Prove(s.circuit)
	if err != nil {
		s.log.Error().Err(err).Msg("prove failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	artifact, err := gkr.DumpProofAndClaimedV(s.cfg.Field, proof, claimedV)
	if err != nil {
		s.log.Error().Err(err).Msg("proof serialization failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write(artifact)
}

// handleVerify takes a framed witness and proof artifact and answers
// "success" or "failure". Only framing and decoding problems are 400s;
// a proof that simply does not check out is a 200 "failure".
func (s *Server[E]) handleVerify(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		http.Error(w, "unable to read request body", http.StatusBadRequest)
		return
	}

	witnessBytes, proofBytes, err := DecodeVerifyPayload(body)
	if err != nil {
		s.log.Warn().Err(err).Msg("verify request rejected")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	proof, claimedV, err := gkr.LoadProofAndClaimedV(s.cfg.Field, proofBytes)
	if err != nil {
		s.log.Warn().Err(err).Msg("verify request rejected")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.circuitMu.Lock()
	defer s.circuitMu.Unlock()
	s.verifierMu.Lock()
	defer s.verifierMu.Unlock()

	if err := s.circuit.LoadWitnessBytes(witnessBytes); err != nil {
		s.log.Warn().Err(err).Msg("verify request rejected")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if s.verifier.Verify(s.circuit, s.circuit.PublicInput, claimedV, proof) {
		io.WriteString(w, "success")
	} else {
		io.WriteString(w, "failure")
	}
}
