// SPDX-License-Identifier: Apache-2.0

// Package commitment derives the Miden public key commitment of a Para EVM
// wallet. The commitment is the RPO-256 hash of the compressed form of the
// wallet's secp256k1 key, split into nine field elements.
package commitment // import "github.com/miden-para/miden-para-go/commitment"
