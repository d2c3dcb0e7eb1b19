package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/banksim-dev/banksim/internal/accounts"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T) (*httptest.Server, *fixture) {
	t.Helper()
	f := newFixture(t)
	handler := NewHandler(newTestLogger(), f.svc)
	r := chi.NewRouter()
	handler.MountRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, f
}

func postJSON(t *testing.T, client *http.Client, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	require.NoError(t, err)
	return resp
}

func TestCreateAccountEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	body := fmt.Sprintf(`{"holder_name":"Ada Brooks","holder_public_id":%q,"kind":"savings"}`, uuid.New())
	resp := postJSON(t, srv.Client(), http.MethodPost, srv.URL+"/accounts", body)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var account accounts.Account
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&account))
	require.NotEqual(t, uuid.Nil, account.ID)
	require.True(t, account.Balance.IsZero())
}

func TestCreateAccountEndpointRejectsBadInput(t *testing.T) {
	srv, _ := newTestServer(t)

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"holder_name":`},
		{"missing holder", fmt.Sprintf(`{"holder_public_id":%q,"kind":"savings"}`, uuid.New())},
		{"bad kind", fmt.Sprintf(`{"holder_name":"Ada","holder_public_id":%q,"kind":"bond"}`, uuid.New())},
		{"bad uuid", `{"holder_name":"Ada","holder_public_id":"nope","kind":"savings"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postJSON(t, srv.Client(), http.MethodPost, srv.URL+"/accounts", tc.body)
			defer resp.Body.Close()
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			require.Equal(t, "application/json", resp.Header.Get("Content-Type"))
		})
	}
}

func TestMoneyEndpoints(t *testing.T) {
	srv, f := newTestServer(t)
	source := f.openSavings(t, uuid.New())
	dest := f.openSavings(t, uuid.New())

	deposit := fmt.Sprintf(`{"account_id":%q,"amount":"100"}`, source.ID)
	resp := postJSON(t, srv.Client(), http.MethodPut, srv.URL+"/money/deposit", deposit)
	resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	withdraw := fmt.Sprintf(`{"account_id":%q,"amount":"30"}`, source.ID)
	resp = postJSON(t, srv.Client(), http.MethodPut, srv.URL+"/money/withdraw", withdraw)
	resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	transfer := fmt.Sprintf(`{"from_account_id":%q,"to_account_id":%q,"amount":"50"}`, source.ID, dest.ID)
	resp = postJSON(t, srv.Client(), http.MethodPut, srv.URL+"/money/transfer", transfer)
	defer resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var destination accounts.Account
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&destination))
	require.True(t, destination.Balance.Equal(decimal.NewFromInt(50)))

	current, err := f.accounts.Get(context.Background(), source.ID)
	require.NoError(t, err)
	require.True(t, current.Balance.Equal(decimal.NewFromInt(20)))
}

func TestMoneyEndpointErrorMapping(t *testing.T) {
	srv, f := newTestServer(t)
	account := f.openSavings(t, uuid.New())

	// Unknown account maps to 404.
	missing := fmt.Sprintf(`{"account_id":%q,"amount":"10"}`, uuid.New())
	resp := postJSON(t, srv.Client(), http.MethodPut, srv.URL+"/money/deposit", missing)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Overdraft maps to 422.
	overdraft := fmt.Sprintf(`{"account_id":%q,"amount":"10"}`, account.ID)
	resp = postJSON(t, srv.Client(), http.MethodPut, srv.URL+"/money/withdraw", overdraft)
	resp.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}
