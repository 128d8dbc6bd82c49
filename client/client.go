// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"

	"github.com/pkg/errors"
	"perun.network/go-perun/log"

	"github.com/miden-para/miden-para-go/commitment"
	"github.com/miden-para/miden-para-go/miden"
	"github.com/miden-para/miden-para-go/para"
	"github.com/miden-para/miden-para-go/signer"
)

// RemoteWallet is the part of a Para session needed to sign with a wallet.
type RemoteWallet interface {
	signer.MessageSigner
	para.JWTIssuer
}

// Opts configures NewParaMidenClient.
type Opts struct {
	miden.ClientOpts

	AccountSeed string
	AccountType miden.AccountType
	StorageMode miden.StorageMode
}

// ParaMidenClient is a Miden client whose account is controlled by a Para
// wallet.
type ParaMidenClient struct {
	Client    miden.Client        // The Miden client, signing through Para.
	AccountID miden.AccountID     // The account created for the wallet.
	Account   miden.AccountConfig // The configuration the account was built from.
	Wallet    para.Wallet         // The Para wallet controlling the account.
}

// NewParaMidenClient creates a Miden client that signs through Para and
// registers the account of the wallet with it.
func NewParaMidenClient(
	ctx context.Context,
	session RemoteWallet, // session signs and issues JWTs for the wallet.
	w para.Wallet, // w is the Para EVM wallet controlling the account.
	factory miden.ClientFactory, // factory creates the external Miden client.
	opts Opts,
	signOpts ...signer.Option,
) (*ParaMidenClient, error) {
	logger := log.WithField("wallet", w.ID)

	publicKey, err := para.UncompressedPublicKey(ctx, session, w)
	if err != nil {
		return nil, errors.WithMessage(err, "resolving public key")
	}

	mc, err := factory(ctx, opts.ClientOpts, signer.NewSignCallback(session, w, signOpts...))
	if err != nil {
		return nil, errors.WithMessage(err, "creating miden client")
	}

	cfg, err := NewAccountConfig(publicKey, opts)
	if err != nil {
		return nil, err
	}

	id, err := mc.NewAccount(ctx, cfg)
	if err != nil {
		return nil, errors.WithMessage(err, "creating account")
	}
	if err := mc.SyncState(ctx); err != nil {
		return nil, errors.WithMessage(err, "syncing state")
	}
	logger.Infof("created account %s", id)

	return &ParaMidenClient{
		Client:    mc,
		AccountID: id,
		Account:   cfg,
		Wallet:    w,
	}, nil
}

// NewAccountConfig builds the account of the wallet with the given public
// key. Without a configured seed the all zero seed is used.
func NewAccountConfig(publicKey string, opts Opts) (miden.AccountConfig, error) {
	pkc, err := commitment.DeriveHex(publicKey, commitment.Default())
	if err != nil {
		return miden.AccountConfig{}, errors.WithMessage(err, "deriving commitment")
	}

	seed := miden.AccountSeedFromString(opts.AccountSeed)
	if seed == nil {
		seed = new([miden.AccountSeedSize]byte)
	}

	return miden.AccountConfig{
		PublicKeyCommitment: pkc,
		AccountType:         opts.AccountType,
		StorageMode:         opts.StorageMode,
		AccountSeed:         seed,
	}, nil
}
