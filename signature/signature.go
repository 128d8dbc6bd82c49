// SPDX-License-Identifier: Apache-2.0

// Package signature converts ECDSA signatures returned by Para into the
// serialized form the Miden signature deserializer reads.
package signature // import "github.com/miden-para/miden-para-go/signature"

import (
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
)

const (
	// SchemeECDSA is the Miden auth scheme tag of ECDSA over secp256k1.
	SchemeECDSA byte = 1

	// trailingPad is an extra byte the Miden deserializer currently reads
	// past the end of an ECDSA signature. It must stay until the
	// deserializer no longer expects it.
	trailingPad byte = 0

	// Overhead is the number of bytes FromHex adds around the raw signature.
	Overhead = 2
)

// ErrInvalidSignatureEncoding the signature was not valid hex, or an adapted
// signature had a malformed envelope.
var ErrInvalidSignatureEncoding = errors.New("invalid signature encoding")

// FromHex decodes a hex signature without 0x prefix and wraps it as
// SchemeECDSA || raw || trailingPad.
func FromHex(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, errors.WithMessagef(ErrInvalidSignatureEncoding, "odd length %d", len(s))
	}

	out := make([]byte, 1+len(s)/2+1)
	out[0] = SchemeECDSA
	if _, err := hex.Decode(out[1:len(out)-1], []byte(s)); err != nil {
		return nil, errors.WithMessage(ErrInvalidSignatureEncoding, err.Error())
	}
	out[len(out)-1] = trailingPad
	return out, nil
}

// FromHexPrefixed is FromHex for signatures carrying a 0x prefix.
func FromHexPrefixed(s string) ([]byte, error) {
	return FromHex(strings.TrimPrefix(s, "0x"))
}

// Raw strips the scheme tag and the trailing pad from an adapted signature.
func Raw(adapted []byte) ([]byte, error) {
	if len(adapted) < Overhead {
		return nil, errors.WithMessagef(ErrInvalidSignatureEncoding, "length %d", len(adapted))
	}
	if adapted[0] != SchemeECDSA {
		return nil, errors.WithMessagef(ErrInvalidSignatureEncoding, "scheme %d", adapted[0])
	}
	if adapted[len(adapted)-1] != trailingPad {
		return nil, errors.WithMessage(ErrInvalidSignatureEncoding, "missing trailing pad")
	}
	return adapted[1 : len(adapted)-1], nil
}
