// SPDX-License-Identifier: Apache-2.0

// Package rpo implements the Rescue-Prime Optimized sponge hash over the
// Goldilocks field, the element hash Miden uses for account commitments and
// other words. Only element hashing is provided; byte hashing and merging of
// digests are handled by the Miden client.
package rpo // import "github.com/miden-para/miden-para-go/rpo"
