package server

import (
	"encoding/binary"
	"fmt"
)

// maxFrameBytes bounds each declared section length of a verify request
// so a malformed frame cannot drive allocation.
const maxFrameBytes = 1 << 30

// A verify request frames two byte sections: a u64 little-endian length
// for the witness, a u64 little-endian length for the proof artifact,
// then the two sections back to back.

// EncodeVerifyPayload frames a witness and proof artifact into one
// verify request body.
func EncodeVerifyPayload(witness, proof []byte) []byte {
	out := make([]byte, 0, 16+len(witness)+len(proof))
	out = binary.LittleEndian.AppendUint64(out, uint64(len(witness)))
	out = binary.LittleEndian.AppendUint64(out, uint64(len(proof)))
	out = append(out, witness...)
	out = append(out, proof...)
	return out
}

// DecodeVerifyPayload splits a verify request body into its witness and
// proof sections. The body must hold exactly the two declared sections.
func DecodeVerifyPayload(data []byte) (witness, proof []byte, err error) {
	if len(data) < 16 {
		return nil, nil, fmt.Errorf("verify payload truncated: %d bytes", len(data))
	}
	witnessLen := binary.LittleEndian.Uint64(data[0:8])
	proofLen := binary.LittleEndian.Uint64(data[8:16])
	if witnessLen > maxFrameBytes || proofLen > maxFrameBytes {
		return nil, nil, fmt.Errorf("verify payload section length out of range")
	}
	body := data[16:]
	if uint64(len(body)) != witnessLen+proofLen {
		return nil, nil, fmt.Errorf("verify payload body is %d bytes, want %d",
			len(body), witnessLen+proofLen)
	}
	return body[:witnessLen], body[witnessLen:], nil
}
