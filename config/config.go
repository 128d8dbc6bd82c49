// SPDX-License-Identifier: Apache-2.0

// Package config loads the settings of the miden-para tools from a config
// file and MIDEN_PARA_* environment variables.
package config // import "github.com/miden-para/miden-para-go/config"

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/miden-para/miden-para-go/client"
	"github.com/miden-para/miden-para-go/miden"
	"github.com/miden-para/miden-para-go/para"
	"github.com/miden-para/miden-para-go/wallet"
)

// EnvPrefix prefixes every environment variable read by Load. Nested keys
// are joined with an underscore, e.g. MIDEN_PARA_PARA_API_KEY.
const EnvPrefix = "MIDEN_PARA"

// LocalEnvironment selects an in-process signer instead of the Para API.
// Its keys are derived from para.local_seed and are meant for development.
const LocalEnvironment = "LOCAL"

// ErrInvalidConfig the loaded settings failed validation.
var ErrInvalidConfig = errors.New("invalid config")

// ParaConfig selects the Para API and session.
type ParaConfig struct {
	Environment  string        `mapstructure:"environment" validate:"required"`
	APIKey       string        `mapstructure:"api_key"`
	BaseURL      string        `mapstructure:"base_url" validate:"omitempty,url"`
	SessionToken string        `mapstructure:"session_token"`
	WalletID     string        `mapstructure:"wallet_id" validate:"omitempty,uuid"`
	LocalSeed    string        `mapstructure:"local_seed"`
	Timeout      time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// MidenConfig configures the Miden client and the Para account.
type MidenConfig struct {
	Endpoint         string `mapstructure:"endpoint" validate:"omitempty,url"`
	NodeTransportURL string `mapstructure:"node_transport_url" validate:"omitempty,url"`
	Seed             string `mapstructure:"seed"`
	AccountSeed      string `mapstructure:"account_seed"`
	AccountType      string `mapstructure:"account_type" validate:"required"`
	StorageMode      string `mapstructure:"storage_mode" validate:"required"`
}

// Config holds all settings.
type Config struct {
	Para         ParaConfig    `mapstructure:"para"`
	Miden        MidenConfig   `mapstructure:"miden"`
	LogLevel     string        `mapstructure:"log_level" validate:"oneof=trace debug info warn error"`
	PollInterval time.Duration `mapstructure:"poll_interval" validate:"gt=0"`
}

var validate = validator.New()

func setDefaults(v *viper.Viper) {
	v.SetDefault("para.environment", string(para.EnvBeta))
	v.SetDefault("para.api_key", "")
	v.SetDefault("para.base_url", "")
	v.SetDefault("para.session_token", "")
	v.SetDefault("para.wallet_id", "")
	v.SetDefault("para.local_seed", "")
	v.SetDefault("para.timeout", para.DefaultTimeout)
	v.SetDefault("miden.endpoint", "")
	v.SetDefault("miden.node_transport_url", "")
	v.SetDefault("miden.seed", "")
	v.SetDefault("miden.account_seed", "")
	v.SetDefault("miden.account_type", miden.RegularAccountImmutableCode.String())
	v.SetDefault("miden.storage_mode", string(miden.StoragePublic))
	v.SetDefault("log_level", "info")
	v.SetDefault("poll_interval", client.DefaultPollInterval)
}

// Load reads the config file at path, if not empty, and overlays the
// environment. The result is validated.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config %s", path)
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the field constraints and the names of the environment,
// account type and storage mode.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.WithMessage(ErrInvalidConfig, err.Error())
	}
	if c.IsLocal() {
		if c.Para.LocalSeed == "" {
			return errors.WithMessage(ErrInvalidConfig, "para.local_seed is required in the LOCAL environment")
		}
	} else if _, err := para.ParseEnvironment(c.Para.Environment); err != nil {
		return errors.WithMessage(ErrInvalidConfig, err.Error())
	}
	if _, err := miden.ParseAccountType(c.Miden.AccountType); err != nil {
		return errors.WithMessage(ErrInvalidConfig, err.Error())
	}
	if _, err := miden.ParseStorageMode(c.Miden.StorageMode); err != nil {
		return errors.WithMessage(ErrInvalidConfig, err.Error())
	}
	return nil
}

// IsLocal reports whether the in-process signer is configured.
func (c *Config) IsLocal() bool {
	return strings.EqualFold(strings.TrimSpace(c.Para.Environment), LocalEnvironment)
}

// Session returns the configured Para session: the API client, or in the
// LOCAL environment a local session holding one wallet.
func (c *Config) Session() (client.Session, error) {
	if !c.IsLocal() {
		return c.ParaClient()
	}
	s, err := wallet.NewLocalSignerFromSeed(c.Para.LocalSeed)
	if err != nil {
		return nil, err
	}
	s.NewWallet()
	return wallet.NewLocalSession(s), nil
}

// ParaClient creates a Para API client from the settings.
func (c *Config) ParaClient() (*para.Client, error) {
	env, err := para.ParseEnvironment(c.Para.Environment)
	if err != nil {
		return nil, err
	}
	opts := []para.ClientOption{
		para.WithHTTPClient(&http.Client{Timeout: c.Para.Timeout}),
		para.WithSessionToken(c.Para.SessionToken),
	}
	if c.Para.BaseURL != "" {
		opts = append(opts, para.WithBaseURL(c.Para.BaseURL))
	}
	return para.NewClient(env, c.Para.APIKey, opts...)
}

// ClientOpts returns the options of the Para backed Miden client.
func (c *Config) ClientOpts() (client.Opts, error) {
	t, err := miden.ParseAccountType(c.Miden.AccountType)
	if err != nil {
		return client.Opts{}, err
	}
	m, err := miden.ParseStorageMode(c.Miden.StorageMode)
	if err != nil {
		return client.Opts{}, err
	}
	return client.Opts{
		ClientOpts: miden.ClientOpts{
			Endpoint:         c.Miden.Endpoint,
			NodeTransportURL: c.Miden.NodeTransportURL,
			Seed:             c.Miden.Seed,
		},
		AccountSeed: c.Miden.AccountSeed,
		AccountType: t,
		StorageMode: m,
	}, nil
}
