// SPDX-License-Identifier: Apache-2.0

// Package test provides Para wallets backed by local keys for tests.
package test

import (
	"math/rand"

	pwallet "perun.network/go-perun/wallet"

	"github.com/miden-para/miden-para-go/para"
	"github.com/miden-para/miden-para-go/wallet"
)

// Randomizer creates random Para wallets and accounts.
type Randomizer struct {
	signer *wallet.LocalSigner
}

// NewRandomizer returns a Randomizer whose signer is seeded from rng.
func NewRandomizer(rng *rand.Rand) *Randomizer {
	return &Randomizer{NewSigner(rng)}
}

// NewSigner creates a LocalSigner seeded from rng.
func NewSigner(rng *rand.Rand) *wallet.LocalSigner {
	s, err := wallet.NewLocalSigner(rng)
	if err != nil {
		panic("NewSigner: failed to create signer: " + err.Error())
	}
	return s
}

// Signer returns the signer holding the keys of all generated wallets.
func (r *Randomizer) Signer() *wallet.LocalSigner {
	return r.signer
}

// NewRandomWallet creates a new EVM wallet.
func (r *Randomizer) NewRandomWallet() para.Wallet {
	return r.signer.NewWallet()
}

// NewRandomAccount creates a new account signing through the randomizer's
// signer.
func (r *Randomizer) NewRandomAccount() pwallet.Account {
	acc, err := wallet.NewAccount(r.signer.NewWallet(), r.signer)
	if err != nil {
		panic(err)
	}
	return acc
}

// NewRandomAddress creates a new random address.
func (r *Randomizer) NewRandomAddress() pwallet.Address {
	return r.NewRandomAccount().Address()
}
