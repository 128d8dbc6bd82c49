// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"perun.network/go-perun/log"

	"github.com/miden-para/miden-para-go/miden"
	"github.com/miden-para/miden-para-go/para"
	"github.com/miden-para/miden-para-go/rpo"
	"github.com/miden-para/miden-para-go/signer"
)

const (
	// SignerName is the name the provider reports to the Miden client.
	SignerName = "Para"

	storePrefix = "para_"
)

// Session is the Para session the provider observes. It is implemented by
// para.Client.
type Session interface {
	RemoteWallet

	IsFullyLoggedIn(ctx context.Context) (bool, error)
	Wallets(ctx context.Context) ([]para.Wallet, error)
	Logout(ctx context.Context) error
}

// SignerState is a snapshot of the provider. Wallet carries the resolved
// public key when connected.
type SignerState struct {
	Name          string
	StoreName     string
	Connected     bool
	Wallet        para.Wallet
	AccountConfig miden.AccountConfig

	sign miden.SignCallback
}

// ProviderOption configures a SignerProvider.
type ProviderOption func(*SignerProvider)

// WithSignOptions passes options to every sign callback the provider builds.
func WithSignOptions(opts ...signer.Option) ProviderOption {
	return func(p *SignerProvider) { p.signOpts = append(p.signOpts, opts...) }
}

// WithAccount overrides the account type and storage mode of the account
// config. Defaults are RegularAccountImmutableCode and public storage.
func WithAccount(t miden.AccountType, m miden.StorageMode) ProviderOption {
	return func(p *SignerProvider) {
		p.opts.AccountType = t
		p.opts.StorageMode = m
	}
}

// SignerProvider tracks a Para session and exposes the signer a Miden client
// needs for the session's first EVM wallet.
type SignerProvider struct {
	log.Embedding

	session  Session
	opts     Opts
	signOpts []signer.Option

	mu    sync.Mutex
	state SignerState
	gen   uint64 // bumped by Disconnect, invalidates refreshes in flight
	subs  map[int]chan SignerState
	next  int
}

// NewSignerProvider creates a disconnected provider for session. Call
// Refresh or Watch to pick up the session state.
func NewSignerProvider(session Session, opts ...ProviderOption) *SignerProvider {
	p := &SignerProvider{
		Embedding: log.MakeEmbedding(log.WithField("component", "provider")),
		session:   session,
		opts: Opts{
			AccountType: miden.RegularAccountImmutableCode,
			StorageMode: miden.StoragePublic,
		},
		state: disconnected(),
		subs:  make(map[int]chan SignerState),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func disconnected() SignerState {
	return SignerState{Name: SignerName}
}

// State returns the current state.
func (p *SignerProvider) State() SignerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// SignCallback returns a callback that signs with whatever wallet is
// connected when it is called. Without a connected wallet it fails with
// ErrNotConnected.
func (p *SignerProvider) SignCallback() miden.SignCallback {
	return func(ctx context.Context, pubKeyCommitment []byte, signingInputs rpo.Digest) ([]byte, error) {
		st := p.State()
		if !st.Connected || st.sign == nil {
			return nil, ErrNotConnected
		}
		return st.sign(ctx, pubKeyCommitment, signingInputs)
	}
}

// Refresh reads the session and updates the state. Any failure leaves the
// provider disconnected; the error is returned for the caller to report.
// A refresh that overlaps with Disconnect is discarded.
func (p *SignerProvider) Refresh(ctx context.Context) error {
	p.mu.Lock()
	gen := p.gen
	p.mu.Unlock()

	st, err := p.load(ctx)
	if err != nil {
		st = disconnected()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		p.Log().Debug("discarding refresh overlapping a disconnect")
		return err
	}
	p.setLocked(st)
	return err
}

func (p *SignerProvider) load(ctx context.Context) (SignerState, error) {
	loggedIn, err := p.session.IsFullyLoggedIn(ctx)
	if err != nil {
		return SignerState{}, errors.WithMessage(err, "checking login")
	}
	if !loggedIn {
		return disconnected(), nil
	}

	wallets, err := p.session.Wallets(ctx)
	if err != nil {
		return SignerState{}, errors.WithMessage(err, "listing wallets")
	}
	evm := para.EVMWallets(wallets)
	if len(evm) == 0 {
		return disconnected(), nil
	}
	w := evm[0]

	publicKey, err := para.UncompressedPublicKey(ctx, p.session, w)
	if err != nil {
		return SignerState{}, errors.WithMessage(err, "resolving public key")
	}
	cfg, err := NewAccountConfig(publicKey, p.opts)
	if err != nil {
		return SignerState{}, err
	}
	w.PublicKey = publicKey

	return SignerState{
		Name:          SignerName,
		StoreName:     storePrefix + w.ID,
		Connected:     true,
		Wallet:        w,
		AccountConfig: cfg,
		sign:          signer.NewSignCallback(p.session, w, p.signOpts...),
	}, nil
}

// Connect refreshes the state and fails with ErrNotConnected if the session
// has no usable wallet. Logging in is done through Para itself.
func (p *SignerProvider) Connect(ctx context.Context) error {
	if err := p.Refresh(ctx); err != nil {
		return err
	}
	if !p.State().Connected {
		return ErrNotConnected
	}
	return nil
}

// Disconnect logs out of the session and clears the state.
func (p *SignerProvider) Disconnect(ctx context.Context) error {
	p.mu.Lock()
	p.gen++
	p.mu.Unlock()

	err := p.session.Logout(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	p.setLocked(disconnected())
	return errors.WithMessage(err, "logging out")
}

// Subscribe returns a channel receiving every state change. Slow readers
// only see the latest state. The returned func stops the subscription and
// closes the channel.
func (p *SignerProvider) Subscribe() (<-chan SignerState, func()) {
	ch := make(chan SignerState, 1)

	p.mu.Lock()
	id := p.next
	p.next++
	p.subs[id] = ch
	p.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			delete(p.subs, id)
			close(ch)
		})
	}
}

func (p *SignerProvider) setLocked(st SignerState) {
	changed := st.Connected != p.state.Connected || st.Wallet.ID != p.state.Wallet.ID
	p.state = st
	if !changed {
		return
	}
	if st.Connected {
		p.Log().WithField("wallet", st.Wallet.ID).Info("connected")
	} else {
		p.Log().Info("disconnected")
	}

	for _, ch := range p.subs {
		select {
		case <-ch:
		default:
		}
		ch <- st
	}
}
