package transcript

import (
	"encoding/binary"
	"fmt"
	"io"
)

// MaxProofBytes bounds the declared length accepted when deserializing
// a proof, so a malformed length prefix cannot drive allocation.
const MaxProofBytes = 1 << 30

// Proof is the flat recording of the prover's transcript messages. It
// is read destructively from the front, mirroring the prover's append
// order.
type Proof struct {
	Idx   uint
	Bytes []byte
}

func (p *Proof) Append(data []byte) {
	p.Bytes = append(p.Bytes, data...)
}

// Next consumes the next n bytes of the proof.
func (p *Proof) Next(n uint) ([]byte, error) {
	if p.Idx+n > uint(len(p.Bytes)) {
		return nil, fmt.Errorf("proof exhausted: want %d bytes at offset %d of %d", n, p.Idx, len(p.Bytes))
	}
	out := p.Bytes[p.Idx : p.Idx+n]
	p.Idx += n
	return out, nil
}

func (p *Proof) Reset() {
	p.Idx = 0
}

func (p *Proof) Remaining() uint {
	return uint(len(p.Bytes)) - p.Idx
}

// WriteTo emits the self-delimiting serialization: a u64 little-endian
// length prefix followed by the proof bytes.
func (p *Proof) WriteTo(w io.Writer) (int64, error) {
	var lenPrefix [8]byte
	binary.LittleEndian.PutUint64(lenPrefix[:], uint64(len(p.Bytes)))
	n, err := w.Write(lenPrefix[:])
	written := int64(n)
	if err != nil {
		return written, err
	}
	n, err = w.Write(p.Bytes)
	return written + int64(n), err
}

// ReadFrom consumes exactly one serialized proof from r.
func (p *Proof) ReadFrom(r io.Reader) (int64, error) {
	var lenPrefix [8]byte
	n, err := io.ReadFull(r, lenPrefix[:])
	read := int64(n)
	if err != nil {
		return read, fmt.Errorf("unable to read proof length: %w", err)
	}
	length := binary.LittleEndian.Uint64(lenPrefix[:])
	if length > MaxProofBytes {
		return read, fmt.Errorf("proof length %d exceeds limit", length)
	}
	p.Bytes = make([]byte, length)
	p.Idx = 0
	n, err = io.ReadFull(r, p.Bytes)
	read += int64(n)
	if err != nil {
		return read, fmt.Errorf("unable to read proof body: %w", err)
	}
	return read, nil
}
