// SPDX-License-Identifier: Apache-2.0

package para

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// WalletType is the chain family of a Para wallet.
type WalletType string

// Wallet types reported by Para.
const (
	WalletTypeEVM    WalletType = "EVM"
	WalletTypeSolana WalletType = "SOLANA"
	WalletTypeCosmos WalletType = "COSMOS"
)

// Wallet is a Para managed wallet. PublicKey is the hex encoded uncompressed
// secp256k1 key for EVM wallets and may be empty, in which case it has to be
// looked up in the session JWT.
type Wallet struct {
	ID        string     `json:"id"`
	Type      WalletType `json:"type"`
	PublicKey string     `json:"publicKey,omitempty"`
	Address   string     `json:"address,omitempty"`
	Scheme    string     `json:"scheme,omitempty"`
}

// SignatureResult is the answer to a signing request. Signature is empty when
// the request is pending user review or was denied.
type SignatureResult struct {
	Signature            string `json:"signature,omitempty"`
	PendingTransactionID string `json:"pendingTransactionId,omitempty"`
	TransactionReviewURL string `json:"transactionReviewUrl,omitempty"`
}

// Success returns whether the result carries a signature.
func (r *SignatureResult) Success() bool {
	return r != nil && r.Signature != ""
}

// EVMWallets filters the EVM wallets, keeping their order.
func EVMWallets(ws []Wallet) []Wallet {
	var evm []Wallet
	for _, w := range ws {
		if w.Type == WalletTypeEVM {
			evm = append(evm, w)
		}
	}
	return evm
}

// ValidateWalletID checks that id is a UUID, the format of Para wallet ids.
func ValidateWalletID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.WithMessagef(ErrInvalidWalletID, "%q", id)
	}
	return nil
}
