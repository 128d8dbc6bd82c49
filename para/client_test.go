// SPDX-License-Identifier: Apache-2.0

package para_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/miden-para/miden-para-go/para"
)

const testWalletID = "3f1d2b9e-5c1a-4e0b-9d6f-8a7c2e4b1f00"

func newTestClient(t *testing.T, h http.Handler) *para.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := para.NewClient(para.EnvBeta, "test-key",
		para.WithBaseURL(srv.URL),
		para.WithSessionToken("session"),
		para.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return c
}

func TestClientSignMessage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/wallets/"+testWalletID+"/sign-message", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "test-key", r.Header.Get("X-API-KEY"))
		require.Equal(t, "Bearer session", r.Header.Get("Authorization"))

		var req struct {
			MessageBase64 string `json:"messageBase64"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "3q2+7w==", req.MessageBase64)

		_, _ = w.Write([]byte(`{"signature":"aabb"}`))
	})
	c := newTestClient(t, mux)

	res, err := c.SignMessage(context.Background(), testWalletID, "3q2+7w==")
	require.NoError(t, err)
	require.True(t, res.Success())
	require.Equal(t, "aabb", res.Signature)
}

func TestClientBaseURLPrefix(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/para/v1/wallets", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"wallets":[{"id":"` + testWalletID + `","type":"EVM"}]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, err := para.NewClient(para.EnvBeta, "test-key", para.WithBaseURL(srv.URL+"/para"))
	require.NoError(t, err)

	wallets, err := c.Wallets(context.Background())
	require.NoError(t, err)
	require.Len(t, wallets, 1)
	require.Equal(t, testWalletID, wallets[0].ID)
}

func TestClientSignMessageInvalidWallet(t *testing.T) {
	c := newTestClient(t, http.NotFoundHandler())
	_, err := c.SignMessage(context.Background(), "not-a-uuid", "AA==")
	require.True(t, errors.Is(err, para.ErrInvalidWalletID))
}

func TestClientStatusError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := c.Wallets(context.Background())
	require.True(t, errors.Is(err, para.ErrUnexpectedStatus))

	var se *para.StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusInternalServerError, se.Code)
	require.Equal(t, "boom", se.Body)
}

func TestClientSession(t *testing.T) {
	loggedIn := true
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/users/me/session", func(w http.ResponseWriter, r *http.Request) {
		if !loggedIn {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"fullyLoggedIn":true}`))
	})
	mux.HandleFunc("/v1/wallets", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"wallets":[{"id":"a","type":"SOLANA"},{"id":"b","type":"EVM","publicKey":"0x04"}]}`))
	})
	mux.HandleFunc("/v1/users/me/logout", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		loggedIn = false
		w.WriteHeader(http.StatusNoContent)
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	ok, err := c.IsFullyLoggedIn(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	ws, err := c.Wallets(ctx)
	require.NoError(t, err)
	require.Len(t, ws, 2)
	evm := para.EVMWallets(ws)
	require.Len(t, evm, 1)
	require.Equal(t, "b", evm[0].ID)

	require.NoError(t, c.Logout(ctx))
	ok, err = c.IsFullyLoggedIn(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestNewClient(t *testing.T) {
	_, err := para.NewClient(para.EnvProd, "")
	require.True(t, errors.Is(err, para.ErrMissingAPIKey))

	_, err = para.NewClient(para.Environment("MOON"), "key")
	require.True(t, errors.Is(err, para.ErrUnknownEnvironment))
}

func TestParseEnvironment(t *testing.T) {
	tests := map[string]para.Environment{
		"BETA":        para.EnvBeta,
		"development": para.EnvBeta,
		"PRODUCTION":  para.EnvProd,
		"prod":        para.EnvProd,
		" sandbox ":   para.EnvSandbox,
		"DEV":         para.EnvDev,
	}
	for in, want := range tests {
		got, err := para.ParseEnvironment(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got)

		_, err = got.BaseURL()
		require.NoError(t, err)
	}

	_, err := para.ParseEnvironment("staging")
	require.True(t, errors.Is(err, para.ErrUnknownEnvironment))
}
