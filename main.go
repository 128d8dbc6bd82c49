// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	plogrus "perun.network/go-perun/log/logrus"

	"github.com/miden-para/miden-para-go/client"
	"github.com/miden-para/miden-para-go/commitment"
	"github.com/miden-para/miden-para-go/config"
	"github.com/miden-para/miden-para-go/para"
	"github.com/miden-para/miden-para-go/rpo"
	"github.com/miden-para/miden-para-go/signature"
	"github.com/miden-para/miden-para-go/signer"
	"github.com/miden-para/miden-para-go/wallet"
	pwire "github.com/miden-para/miden-para-go/wire"
)

type cli struct {
	out        io.Writer
	configPath string
	watchCount int
	cfg        *config.Config
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{out: out}

	root := &cobra.Command{
		Use:           "miden-para",
		Short:         "Use Para wallets as Miden account signers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			level, err := logrus.ParseLevel(cfg.LogLevel)
			if err != nil {
				return errors.WithMessage(config.ErrInvalidConfig, err.Error())
			}
			plogrus.Set(level, &logrus.TextFormatter{})
			c.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file, settings can also be given as "+config.EnvPrefix+"_* variables")

	root.AddCommand(
		&cobra.Command{
			Use:   "commitment <public-key>",
			Short: "Derive the Miden public key commitment of an uncompressed secp256k1 key",
			Args:  cobra.ExactArgs(1),
			RunE:  c.commitment,
		},
		&cobra.Command{
			Use:   "adapt-signature <signature>",
			Short: "Convert a hex encoded Para signature into the Miden serialization",
			Args:  cobra.ExactArgs(1),
			RunE:  c.adaptSignature,
		},
		&cobra.Command{
			Use:   "account-config <public-key>",
			Short: "Print the account configuration created for a public key",
			Args:  cobra.ExactArgs(1),
			RunE:  c.accountConfig,
		},
		&cobra.Command{
			Use:   "sign <signing-inputs>",
			Short: "Sign a transaction's signing inputs commitment with the configured Para wallet",
			Args:  cobra.ExactArgs(1),
			RunE:  c.sign,
		},
		&cobra.Command{
			Use:   "sign-data <data>",
			Short: "Sign the keccak-256 hash of hex encoded data with the configured Para wallet",
			Args:  cobra.ExactArgs(1),
			RunE:  c.signData,
		},
		&cobra.Command{
			Use:   "verify <public-key> <message> <signature>",
			Short: "Verify a signature over a hex encoded message, adapted or r||s||v",
			Args:  cobra.ExactArgs(3),
			RunE:  c.verify,
		},
		c.watchCmd(),
	)
	return root
}

func (c *cli) commitment(_ *cobra.Command, args []string) error {
	d, err := commitment.DeriveHex(args[0], commitment.Default())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.out, d.Hex())
	return err
}

func (c *cli) adaptSignature(_ *cobra.Command, args []string) error {
	sig, err := signature.FromHexPrefixed(args[0])
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.out, hex.EncodeToString(sig))
	return err
}

type accountConfigJSON struct {
	PublicKeyCommitment string `json:"publicKeyCommitment"`
	AccountType         string `json:"accountType"`
	StorageMode         string `json:"storageMode"`
	AccountSeed         string `json:"accountSeed"`
}

func (c *cli) accountConfig(_ *cobra.Command, args []string) error {
	opts, err := c.cfg.ClientOpts()
	if err != nil {
		return err
	}
	ac, err := client.NewAccountConfig(args[0], opts)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(accountConfigJSON{
		PublicKeyCommitment: ac.PublicKeyCommitment.Hex(),
		AccountType:         ac.AccountType.String(),
		StorageMode:         string(ac.StorageMode),
		AccountSeed:         hex.EncodeToString(ac.AccountSeed[:]),
	})
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func (c *cli) sign(cmd *cobra.Command, args []string) error {
	inputs, err := rpo.DigestFromHex(args[0])
	if err != nil {
		return err
	}
	sess, err := c.cfg.Session()
	if err != nil {
		return err
	}

	ctx := cmdContext(cmd)
	w, err := selectWallet(ctx, sess, c.cfg.Para.WalletID)
	if err != nil {
		return err
	}

	sig, err := signer.NewSignCallback(sess, w)(ctx, nil, inputs)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.out, hex.EncodeToString(sig))
	return err
}

func (c *cli) signData(cmd *cobra.Command, args []string) error {
	data, err := hex.DecodeString(strings.TrimPrefix(args[0], "0x"))
	if err != nil {
		return errors.Wrap(err, "decoding data")
	}
	sess, err := c.cfg.Session()
	if err != nil {
		return err
	}

	ctx := cmdContext(cmd)
	w, err := selectWallet(ctx, sess, c.cfg.Para.WalletID)
	if err != nil {
		return err
	}
	if w.PublicKey, err = para.UncompressedPublicKey(ctx, sess, w); err != nil {
		return err
	}
	acc, err := wallet.NewAccount(w, sess)
	if err != nil {
		return err
	}

	sig, err := acc.SignDataContext(ctx, data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.out, hex.EncodeToString(sig))
	return err
}

func (c *cli) verify(_ *cobra.Command, args []string) error {
	addr, err := wallet.ParseAddress(args[0])
	if err != nil {
		return err
	}
	msg, err := hex.DecodeString(strings.TrimPrefix(args[1], "0x"))
	if err != nil {
		return errors.Wrap(err, "decoding message")
	}
	sig, err := hex.DecodeString(strings.TrimPrefix(args[2], "0x"))
	if err != nil {
		return errors.WithMessage(signature.ErrInvalidSignatureEncoding, err.Error())
	}
	if len(sig) == wallet.SigLen+signature.Overhead {
		if sig, err = signature.Raw(sig); err != nil {
			return err
		}
	}

	ok, err := wallet.Backend{}.VerifySignature(msg, sig, addr)
	if err != nil {
		return err
	}
	if !ok {
		return errors.WithMessage(wallet.ErrInvalidSignature, "signed by a different key")
	}
	_, err = fmt.Fprintln(c.out, "ok")
	return err
}

func (c *cli) watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll the Para session and print signer state changes",
		Args:  cobra.NoArgs,
		RunE:  c.watch,
	}
	cmd.Flags().IntVar(&c.watchCount, "count", 0, "stop after this many state changes, 0 runs until interrupted")
	return cmd
}

func (c *cli) watch(cmd *cobra.Command, _ []string) error {
	sess, err := c.cfg.Session()
	if err != nil {
		return err
	}
	opts, err := c.cfg.ClientOpts()
	if err != nil {
		return err
	}
	p := client.NewSignerProvider(sess, client.WithAccount(opts.AccountType, opts.StorageMode))
	states, unsubscribe := p.Subscribe()
	defer unsubscribe()

	ctx, cancel := context.WithCancel(cmdContext(cmd))
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- p.Watch(ctx, c.cfg.PollInterval) }()

	for seen := 0; ; {
		select {
		case st := <-states:
			if err := c.printState(st); err != nil {
				cancel()
				<-done
				return err
			}
			seen++
			if c.watchCount > 0 && seen >= c.watchCount {
				cancel()
				<-done
				return nil
			}
		case err := <-done:
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
	}
}

func (c *cli) printState(st client.SignerState) error {
	if !st.Connected {
		_, err := fmt.Fprintln(c.out, "disconnected")
		return err
	}
	peer, err := pwire.FromWallet(st.Wallet)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.out, "connected wallet=%s peer=%s commitment=%s store=%s\n",
		st.Wallet.ID, peer, st.AccountConfig.PublicKeyCommitment.Hex(), st.StoreName)
	return err
}

// selectWallet returns the EVM wallet with the given id, or the first EVM
// wallet of the session if id is empty.
func selectWallet(ctx context.Context, sess client.Session, id string) (para.Wallet, error) {
	wallets, err := sess.Wallets(ctx)
	if err != nil {
		return para.Wallet{}, errors.WithMessage(err, "listing wallets")
	}
	for _, w := range para.EVMWallets(wallets) {
		if id == "" || w.ID == id {
			return w, nil
		}
	}
	if id == "" {
		return para.Wallet{}, client.ErrNotConnected
	}
	return para.Wallet{}, errors.WithMessagef(para.ErrWalletNotFound, "wallet %s", id)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd(os.Stdout).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
