// SPDX-License-Identifier: Apache-2.0

// Package wire identifies Para wallets as go-perun peers.
package wire // import "github.com/miden-para/miden-para-go/wire"

import (
	"math/rand"

	"github.com/pkg/errors"
	"perun.network/go-perun/wire"

	"github.com/miden-para/miden-para-go/para"
	"github.com/miden-para/miden-para-go/wallet"
	"github.com/miden-para/miden-para-go/wallet/test"
)

// Address is a peer address backed by the public key of a Para wallet.
type Address struct {
	*wallet.Address
}

// NewAddress returns a new address.
func NewAddress() *Address {
	return &Address{new(wallet.Address)}
}

// FromWallet returns the peer address of a Para wallet. The wallet must
// carry its public key.
func FromWallet(w para.Wallet) (*Address, error) {
	if w.PublicKey == "" {
		return nil, errors.WithMessagef(para.ErrWalletNotFound, "wallet %s has no public key", w.ID)
	}
	addr, err := wallet.ParseAddress(w.PublicKey)
	if err != nil {
		return nil, err
	}
	return &Address{addr}, nil
}

// Equal returns whether the two addresses are equal.
func (a Address) Equal(b wire.Address) bool {
	bTyped, ok := b.(*Address)
	if !ok {
		panic("wrong type")
	}
	return a.Address.Equal(bTyped.Address)
}

// Cmp compares the byte representation of two addresses. For `a.Cmp(b)`
// returns -1 if a < b, 0 if a == b, 1 if a > b.
func (a Address) Cmp(b wire.Address) int {
	bTyped, ok := b.(*Address)
	if !ok {
		panic("wrong type")
	}
	return a.Address.Cmp(bTyped.Address)
}

// NewRandomAddress returns a new random peer address.
func NewRandomAddress(rng *rand.Rand) *Address {
	return &Address{wallet.AsAddr(test.NewRandomizer(rng).NewRandomAddress())}
}
