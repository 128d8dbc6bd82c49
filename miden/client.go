// SPDX-License-Identifier: Apache-2.0

package miden

import (
	"context"

	"github.com/miden-para/miden-para-go/rpo"
)

// AccountID is the string form of a Miden account id.
type AccountID string

// SignCallback signs a transaction for the account whose auth component
// holds pubKeyCommitment. signingInputs is the commitment of the
// transaction's signing inputs. The returned bytes are a serialized
// signature, scheme tag included.
type SignCallback func(ctx context.Context, pubKeyCommitment []byte, signingInputs rpo.Digest) ([]byte, error)

// Client is the part of a Miden client used to register a Para account.
type Client interface {
	// NewAccount builds and stores the account described by cfg.
	NewAccount(ctx context.Context, cfg AccountConfig) (AccountID, error)
	// SyncState synchronizes the local store with the node.
	SyncState(ctx context.Context) error
}

// ClientOpts configures the Miden client.
type ClientOpts struct {
	Endpoint         string
	NodeTransportURL string
	Seed             string
}

// ClientFactory creates a Miden client whose keystore signs through sign.
type ClientFactory func(ctx context.Context, opts ClientOpts, sign SignCallback) (Client, error)
