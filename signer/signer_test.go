// SPDX-License-Identifier: Apache-2.0

package signer_test

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"testing"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	ptest "polycry.pt/poly-go/test"

	"github.com/miden-para/miden-para-go/para"
	"github.com/miden-para/miden-para-go/rpo"
	"github.com/miden-para/miden-para-go/signature"
	"github.com/miden-para/miden-para-go/signer"
	"github.com/miden-para/miden-para-go/wallet"
	wtest "github.com/miden-para/miden-para-go/wallet/test"
)

type stubSigner struct {
	res      *para.SignatureResult
	err      error
	walletID string
	message  string
	calls    int
}

func (s *stubSigner) SignMessage(_ context.Context, walletID, messageBase64 string) (*para.SignatureResult, error) {
	s.calls++
	s.walletID = walletID
	s.message = messageBase64
	return s.res, s.err
}

var inputs = rpo.Digest{1, 2, 3, 4}

func TestMessageDigest(t *testing.T) {
	// keccak-256 of the 32 serialized bytes of the word [1, 2, 3, 4]
	d := signer.MessageDigest(inputs)
	require.Equal(t, "640b0b078ab53ad25f8931012f23575a81fe30c9ebe09cfe7d88be469afc1065", hex.EncodeToString(d[:]))
	require.NotEqual(t, d, signer.MessageDigest(rpo.Digest{1, 2, 3, 5}))
}

func TestSignCallback(t *testing.T) {
	s := &stubSigner{res: &para.SignatureResult{Signature: "aabb"}}
	w := para.Wallet{ID: "wallet-1", Type: para.WalletTypeEVM}
	cb := signer.NewSignCallback(s, w)

	sig, err := cb(context.Background(), []byte{9}, inputs)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 0xaa, 0xbb, 0}, sig)

	digest := signer.MessageDigest(inputs)
	require.Equal(t, "wallet-1", s.walletID)
	require.Equal(t, base64.StdEncoding.EncodeToString(digest[:]), s.message)
}

func TestSignCallbackPropagatesFailure(t *testing.T) {
	failure := errors.New("para unavailable")
	s := &stubSigner{err: failure}
	cb := signer.NewSignCallback(s, para.Wallet{ID: "w"})

	_, err := cb(context.Background(), nil, inputs)
	require.Equal(t, failure, err)
	require.Equal(t, 1, s.calls, "no retries")
}

func TestSignCallbackDenied(t *testing.T) {
	s := &stubSigner{res: &para.SignatureResult{PendingTransactionID: "p", TransactionReviewURL: "https://review"}}
	cb := signer.NewSignCallback(s, para.Wallet{ID: "w"})
	_, err := cb(context.Background(), nil, inputs)
	require.True(t, errors.Is(err, signer.ErrSignatureDenied))

	s.res = nil
	_, err = cb(context.Background(), nil, inputs)
	require.True(t, errors.Is(err, signer.ErrSignatureDenied))
}

func TestSignCallbackInvalidSignature(t *testing.T) {
	s := &stubSigner{res: &para.SignatureResult{Signature: "abc"}}
	cb := signer.NewSignCallback(s, para.Wallet{ID: "w"})
	_, err := cb(context.Background(), nil, inputs)
	require.True(t, errors.Is(err, signature.ErrInvalidSignatureEncoding))
}

func TestConfirmStep(t *testing.T) {
	s := &stubSigner{res: &para.SignatureResult{Signature: "aabb"}}
	var seen signer.Request
	confirm := func(_ context.Context, req signer.Request) error {
		seen = req
		return signer.ErrConfirmRejected
	}
	cb := signer.NewSignCallback(s, para.Wallet{ID: "w"}, signer.WithConfirmStep(confirm))

	_, err := cb(context.Background(), []byte{7}, inputs)
	require.Equal(t, signer.ErrConfirmRejected, err)
	require.Zero(t, s.calls)
	require.Equal(t, "w", seen.WalletID)
	require.Equal(t, []byte{7}, seen.PubKeyCommitment)
	require.Equal(t, inputs, seen.SigningInputs)
	require.Equal(t, signer.MessageDigest(inputs), seen.Digest)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := signer.NewMetrics(reg)
	require.NoError(t, err)

	s := &stubSigner{res: &para.SignatureResult{Signature: "aabb"}}
	cb := signer.NewSignCallback(s, para.Wallet{ID: "w"}, signer.WithMetrics(m))
	_, err = cb(context.Background(), nil, inputs)
	require.NoError(t, err)

	s.err = errors.New("down")
	_, err = cb(context.Background(), nil, inputs)
	require.Error(t, err)

	require.Equal(t, float64(1), testutil.ToFloat64(m.Requests("ok")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.Requests("failed")))

	_, err = signer.NewMetrics(reg)
	require.Error(t, err, "registering twice must fail")
}

func TestSignWithLocalWallet(t *testing.T) {
	rng := ptest.Prng(t)
	r := wtest.NewRandomizer(rng)
	w := r.NewRandomWallet()
	cb := signer.NewSignCallback(r.Signer(), w)

	sig, err := cb(context.Background(), nil, inputs)
	require.NoError(t, err)
	require.Len(t, sig, 1+wallet.SigLen+1)

	raw, err := signature.Raw(sig)
	require.NoError(t, err)

	digest := signer.MessageDigest(inputs)
	pub, err := wallet.RecoverPublicKey(digest[:], raw)
	require.NoError(t, err)
	require.Equal(t, w.PublicKey, "0x"+hex.EncodeToString(pub))
}
