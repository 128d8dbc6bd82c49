// SPDX-License-Identifier: Apache-2.0

// Package signer wires Para's remote signing into the Miden signing
// callback. The transaction's signing inputs commitment is hashed with
// keccak-256, signed by the Para wallet, and the returned signature is
// adapted to the Miden serialization.
package signer // import "github.com/miden-para/miden-para-go/signer"

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
	"perun.network/go-perun/log"

	"github.com/miden-para/miden-para-go/miden"
	"github.com/miden-para/miden-para-go/para"
	"github.com/miden-para/miden-para-go/rpo"
	"github.com/miden-para/miden-para-go/signature"
)

var (
	// ErrSignatureDenied Para answered without a signature, e.g. because the
	// request is waiting for review or was declined by the user.
	ErrSignatureDenied = errors.New("signature request denied")
	// ErrConfirmRejected can be returned by a ConfirmFunc to decline signing.
	ErrConfirmRejected = errors.New("signing rejected by confirm step")
)

// MessageSigner signs base64 encoded messages with a Para wallet. It is
// implemented by para.Client.
type MessageSigner interface {
	SignMessage(ctx context.Context, walletID, messageBase64 string) (*para.SignatureResult, error)
}

// Request describes a pending signature.
type Request struct {
	WalletID         string
	PubKeyCommitment []byte
	SigningInputs    rpo.Digest
	Digest           [32]byte
}

// ConfirmFunc runs before a signature is requested from Para. A non-nil
// error aborts signing and is returned to the Miden client unchanged.
type ConfirmFunc func(ctx context.Context, req Request) error

// Option configures the sign callback.
type Option func(*callback)

// WithConfirmStep installs a confirmation hook.
func WithConfirmStep(f ConfirmFunc) Option {
	return func(c *callback) { c.confirm = f }
}

// WithMetrics records requests and latencies in m.
func WithMetrics(m *Metrics) Option {
	return func(c *callback) { c.metrics = m }
}

// WithLogger replaces the default logger.
func WithLogger(l log.Logger) Option {
	return func(c *callback) { c.Embedding = log.MakeEmbedding(l) }
}

type callback struct {
	log.Embedding

	signer  MessageSigner
	wallet  para.Wallet
	confirm ConfirmFunc
	metrics *Metrics
}

// MessageDigest is the keccak-256 hash of the serialized signing inputs
// commitment. This is the message Para signs.
func MessageDigest(signingInputs rpo.Digest) [32]byte {
	var out [32]byte
	h := sha3.NewLegacyKeccak256()
	h.Write(signingInputs.Bytes())
	copy(out[:], h.Sum(nil))
	return out
}

// NewSignCallback returns the callback a Miden client uses to sign with the
// given Para wallet. Errors of the signer are returned as they are; nothing
// is retried.
func NewSignCallback(s MessageSigner, w para.Wallet, opts ...Option) miden.SignCallback {
	c := &callback{
		Embedding: log.MakeEmbedding(log.WithField("wallet", w.ID)),
		signer:    s,
		wallet:    w,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c.sign
}

func (c *callback) sign(ctx context.Context, pubKeyCommitment []byte, signingInputs rpo.Digest) ([]byte, error) {
	start := time.Now()
	req := Request{
		WalletID:         c.wallet.ID,
		PubKeyCommitment: pubKeyCommitment,
		SigningInputs:    signingInputs,
		Digest:           MessageDigest(signingInputs),
	}

	if c.confirm != nil {
		if err := c.confirm(ctx, req); err != nil {
			c.metrics.observe(resultRejected, time.Since(start))
			return nil, err
		}
	}

	c.Log().Debugf("signing inputs %v", signingInputs)
	res, err := c.signer.SignMessage(ctx, c.wallet.ID, base64.StdEncoding.EncodeToString(req.Digest[:]))
	if err != nil {
		c.metrics.observe(resultFailed, time.Since(start))
		return nil, err
	}
	if !res.Success() {
		c.metrics.observe(resultDenied, time.Since(start))
		if res != nil && res.TransactionReviewURL != "" {
			return nil, errors.WithMessagef(ErrSignatureDenied, "review at %s", res.TransactionReviewURL)
		}
		return nil, ErrSignatureDenied
	}

	sig, err := signature.FromHexPrefixed(res.Signature)
	if err != nil {
		c.metrics.observe(resultInvalid, time.Since(start))
		return nil, err
	}
	c.metrics.observe(resultOK, time.Since(start))
	return sig, nil
}
