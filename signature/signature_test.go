// SPDX-License-Identifier: Apache-2.0

package signature_test

import (
	"encoding/hex"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	ptest "polycry.pt/poly-go/test"

	"github.com/miden-para/miden-para-go/signature"
)

func TestFromHex(t *testing.T) {
	got, err := signature.FromHex("aabb")
	require.NoError(t, err)
	require.Equal(t, []byte{1, 0xaa, 0xbb, 0}, got)

	got, err = signature.FromHex("")
	require.NoError(t, err)
	require.Equal(t, []byte{1, 0}, got)

	got, err = signature.FromHexPrefixed("0xAABB")
	require.NoError(t, err)
	require.Equal(t, []byte{1, 0xaa, 0xbb, 0}, got)
}

func TestFromHexInvalid(t *testing.T) {
	for _, in := range []string{"abc", "a", "zz", "0xaabb", "aa bb "} {
		_, err := signature.FromHex(in)
		require.True(t, errors.Is(err, signature.ErrInvalidSignatureEncoding), in)
	}
}

func TestFromHexLength(t *testing.T) {
	rng := ptest.Prng(t)
	for i := 0; i < 64; i++ {
		raw := make([]byte, 32)
		rng.Read(raw)

		got, err := signature.FromHex(hex.EncodeToString(raw))
		require.NoError(t, err)
		require.Len(t, got, 34)
		require.Equal(t, signature.SchemeECDSA, got[0])
		require.Equal(t, byte(0), got[33])

		back, err := signature.Raw(got)
		require.NoError(t, err)
		require.Equal(t, raw, back)
	}
}

func TestRawInvalid(t *testing.T) {
	for _, in := range [][]byte{nil, {1}, {2, 0xaa, 0}, {1, 0xaa, 1}} {
		_, err := signature.Raw(in)
		require.True(t, errors.Is(err, signature.ErrInvalidSignatureEncoding))
	}
}
