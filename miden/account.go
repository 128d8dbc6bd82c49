// SPDX-License-Identifier: Apache-2.0

// Package miden holds the Miden side contracts of the Para binding: account
// configuration, the external client and the signing callback the client
// calls for every transaction.
package miden // import "github.com/miden-para/miden-para-go/miden"

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/miden-para/miden-para-go/rpo"
)

// AccountSeedSize is the size of the seed an account id is derived from.
const AccountSeedSize = 32

var (
	// ErrUnknownAccountType the account type name is not supported.
	ErrUnknownAccountType = errors.New("unknown account type")
	// ErrUnknownStorageMode the storage mode name is not supported.
	ErrUnknownStorageMode = errors.New("unknown storage mode")
)

// AccountType is the kind of account created for a Para wallet.
type AccountType int

// Account types, numbered like the Miden client.
const (
	FungibleFaucet AccountType = iota
	NonFungibleFaucet
	RegularAccountImmutableCode
	RegularAccountUpdatableCode
)

var accountTypeNames = map[AccountType]string{
	FungibleFaucet:              "FungibleFaucet",
	NonFungibleFaucet:           "NonFungibleFaucet",
	RegularAccountImmutableCode: "RegularAccountImmutableCode",
	RegularAccountUpdatableCode: "RegularAccountUpdatableCode",
}

func (t AccountType) String() string {
	if n, ok := accountTypeNames[t]; ok {
		return n
	}
	return "AccountType(invalid)"
}

// ParseAccountType parses the name of an account type.
func ParseAccountType(s string) (AccountType, error) {
	for t, n := range accountTypeNames {
		if strings.EqualFold(n, s) {
			return t, nil
		}
	}
	return 0, errors.WithMessagef(ErrUnknownAccountType, "%q", s)
}

// StorageMode decides where account state lives.
type StorageMode string

// Storage modes.
const (
	StoragePublic  StorageMode = "public"
	StoragePrivate StorageMode = "private"
	StorageNetwork StorageMode = "network"
)

// ParseStorageMode parses a storage mode name.
func ParseStorageMode(s string) (StorageMode, error) {
	switch m := StorageMode(strings.ToLower(s)); m {
	case StoragePublic, StoragePrivate, StorageNetwork:
		return m, nil
	default:
		return "", errors.WithMessagef(ErrUnknownStorageMode, "%q", s)
	}
}

// AccountConfig describes the account that is created for a signer. The auth
// component of the account checks ECDSA signatures against
// PublicKeyCommitment.
type AccountConfig struct {
	PublicKeyCommitment rpo.Digest
	AccountType         AccountType
	StorageMode         StorageMode
	AccountSeed         *[AccountSeedSize]byte
}

// AccountSeedFromString derives a seed from the UTF-8 bytes of s, truncated or
// zero padded to AccountSeedSize. An empty string yields no seed.
func AccountSeedFromString(s string) *[AccountSeedSize]byte {
	if s == "" {
		return nil
	}
	var seed [AccountSeedSize]byte
	copy(seed[:], s)
	return &seed
}
