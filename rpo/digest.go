// SPDX-License-Identifier: Apache-2.0

package rpo

import (
	"encoding/binary"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
)

// DigestElements is the number of field elements in a Digest.
const DigestElements = 4

// DigestSize is the serialized size of a Digest in bytes.
const DigestSize = DigestElements * 8

// ErrInvalidDigest a serialized digest had the wrong length or encoding.
var ErrInvalidDigest = errors.New("invalid digest encoding")

// Digest is a word of four field elements, the output of HashElements.
type Digest [DigestElements]uint64

// Bytes serializes every element as a little endian uint64.
func (d Digest) Bytes() []byte {
	out := make([]byte, DigestSize)
	for i, e := range d {
		binary.LittleEndian.PutUint64(out[i*8:], e)
	}
	return out
}

// Hex returns the 0x prefixed hex encoding of Bytes.
func (d Digest) Hex() string {
	return "0x" + hex.EncodeToString(d.Bytes())
}

func (d Digest) String() string {
	return d.Hex()
}

// DigestFromBytes is the inverse of Digest.Bytes. Every element must be a
// canonical field element.
func DigestFromBytes(b []byte) (Digest, error) {
	var d Digest
	if len(b) != DigestSize {
		return d, errors.WithMessagef(ErrInvalidDigest, "length %d/%d", len(b), DigestSize)
	}
	for i := range d {
		d[i] = binary.LittleEndian.Uint64(b[i*8:])
		if d[i] >= Modulus {
			return Digest{}, errors.WithMessagef(ErrElementOutOfRange, "digest element %d", i)
		}
	}
	return d, nil
}

// DigestFromHex parses the output of Digest.Hex. The 0x prefix is optional.
func DigestFromHex(s string) (Digest, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return Digest{}, errors.WithMessage(ErrInvalidDigest, err.Error())
	}
	return DigestFromBytes(b)
}
