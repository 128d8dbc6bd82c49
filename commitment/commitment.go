// SPDX-License-Identifier: Apache-2.0

package commitment

import (
	"encoding/binary"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"

	"github.com/miden-para/miden-para-go/rpo"
)

const (
	// PublicKeySize is the length of an uncompressed secp256k1 key.
	PublicKeySize = 65
	// CoordSize is the length of one affine coordinate.
	CoordSize = 32
	// NumFelts is the number of field elements the tagged X coordinate is
	// split into.
	NumFelts = 9

	uncompressedPrefix = 0x04
	tagEven            = 0x02
	tagOdd             = 0x03
	bytesPerFelt       = 4
)

// ErrInvalidPublicKeyFormat the key was not a 65 byte uncompressed point.
var ErrInvalidPublicKeyFormat = errors.New("invalid public key format")

// Hasher hashes a sequence of field elements into a digest.
type Hasher interface {
	HashElements(elements []uint64) (rpo.Digest, error)
}

// Default returns the RPO-256 hasher used by Miden.
func Default() Hasher {
	return rpo.Hasher{}
}

// PublicKey is an uncompressed secp256k1 public key, 0x04 || X || Y.
type PublicKey [PublicKeySize]byte

// Felts is the field element representation of a tagged X coordinate.
type Felts [NumFelts]uint64

// ParsePublicKey checks the length and the prefix of an uncompressed key.
// The point is not checked to be on the curve.
func ParsePublicKey(b []byte) (PublicKey, error) {
	var pk PublicKey
	if len(b) != PublicKeySize {
		return pk, errors.WithMessagef(ErrInvalidPublicKeyFormat, "length %d/%d", len(b), PublicKeySize)
	}
	if b[0] != uncompressedPrefix {
		return pk, errors.WithMessagef(ErrInvalidPublicKeyFormat, "prefix %#02x", b[0])
	}
	copy(pk[:], b)
	return pk, nil
}

// ParsePublicKeyHex parses a hex encoded uncompressed key, with or without
// a 0x prefix, as returned by Para.
func ParsePublicKeyHex(s string) (PublicKey, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return PublicKey{}, errors.WithMessage(ErrInvalidPublicKeyFormat, err.Error())
	}
	return ParsePublicKey(b)
}

// X returns the big endian X coordinate.
func (pk PublicKey) X() []byte {
	return pk[1 : 1+CoordSize]
}

// Y returns the big endian Y coordinate.
func (pk PublicKey) Y() []byte {
	return pk[1+CoordSize:]
}

// Tag returns the point compression tag, 2 for an even Y and 3 for an odd Y.
func (pk PublicKey) Tag() byte {
	if pk[PublicKeySize-1]&1 == 0 {
		return tagEven
	}
	return tagOdd
}

// TaggedX returns the compressed encoding of the key, Tag() || X.
func (pk PublicKey) TaggedX() [1 + CoordSize]byte {
	var out [1 + CoordSize]byte
	out[0] = pk.Tag()
	copy(out[1:], pk.X())
	return out
}

// Felts splits TaggedX into eight little endian 4 byte groups followed by the
// remaining 33rd byte.
func (pk PublicKey) Felts() Felts {
	tagged := pk.TaggedX()

	var f Felts
	for i := 0; i < NumFelts-1; i++ {
		f[i] = uint64(binary.LittleEndian.Uint32(tagged[i*bytesPerFelt:]))
	}
	f[NumFelts-1] = uint64(tagged[len(tagged)-1])
	return f
}

// String returns the 0x prefixed hex encoding of the key.
func (pk PublicKey) String() string {
	return "0x" + hex.EncodeToString(pk[:])
}

// Derive computes the commitment of a public key with the given hasher.
func Derive(pk PublicKey, h Hasher) (rpo.Digest, error) {
	if pk[0] != uncompressedPrefix {
		return rpo.Digest{}, errors.WithMessagef(ErrInvalidPublicKeyFormat, "prefix %#02x", pk[0])
	}
	// Felts are below 2^32 and thus canonical field elements. The hasher
	// range checks its input anyway.
	felts := pk.Felts()
	d, err := h.HashElements(felts[:])
	return d, errors.WithMessage(err, "hashing public key felts")
}

// DeriveBytes parses b as an uncompressed key and derives its commitment.
func DeriveBytes(b []byte, h Hasher) (rpo.Digest, error) {
	pk, err := ParsePublicKey(b)
	if err != nil {
		return rpo.Digest{}, err
	}
	return Derive(pk, h)
}

// DeriveHex parses s as a hex encoded uncompressed key and derives its
// commitment.
func DeriveHex(s string, h Hasher) (rpo.Digest, error) {
	pk, err := ParsePublicKeyHex(s)
	if err != nil {
		return rpo.Digest{}, err
	}
	return Derive(pk, h)
}
