// SPDX-License-Identifier: Apache-2.0

// Package wallet exposes Para EVM wallets as go-perun off-chain identities.
// Addresses are uncompressed secp256k1 keys and signatures are recoverable
// ECDSA signatures over the keccak-256 hash of the signed data, produced
// remotely by Para. Anonymously import the package from your application to
// inject the backend into go-perun.
package wallet // import "github.com/miden-para/miden-para-go/wallet"
