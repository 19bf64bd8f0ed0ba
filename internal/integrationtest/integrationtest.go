// Package integrationtest provides server helpers used in integration tests.
package integrationtest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/cmd/httpserver"
	"github.com/go-petr/pet-ledger/internal/ledger"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
)

// SetupServer returns a test server backed by a fresh in-memory account store.
func SetupServer(t *testing.T) *httpserver.Server {
	config, err := configpkg.Load("../../configs")
	if err != nil {
		t.Fatalf(`configpkg.Load("../../configs") returned error: %v`, err)
	}

	zerolog.SetGlobalLevel(zerolog.FatalLevel)

	logger := middleware.CreateLogger(config)

	gin.SetMode(gin.ReleaseMode)

	return httpserver.New(logger, config)
}

// SeedAccount creates an account with the given holder name through the API.
func SeedAccount(t *testing.T, server *httpserver.Server, name string) ledger.Snapshot {
	t.Helper()

	body, err := json.Marshal(gin.H{"name": name})
	if err != nil {
		t.Fatalf("Encoding request body error: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("Creating request error: %v", err)
	}

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Seeding account %v: status %v, body %v", name, recorder.Code, recorder.Body)
	}

	res := struct {
		Data struct {
			Account ledger.Snapshot `json:"account"`
		} `json:"data"`
	}{}

	if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
		t.Fatalf("Decoding response body error: %v", err)
	}

	return res.Data.Account
}

// SeedAccountWithBalance creates an account and deposits the given amount through the API.
func SeedAccountWithBalance(t *testing.T, server *httpserver.Server, name, amount string) ledger.Snapshot {
	t.Helper()

	account := SeedAccount(t, server, name)

	body, err := json.Marshal(gin.H{"amount": amount})
	if err != nil {
		t.Fatalf("Encoding request body error: %v", err)
	}

	url := fmt.Sprintf("/accounts/%s/deposit", account.ID)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("Creating request error: %v", err)
	}

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Seeding balance %v for account %v: status %v, body %v", amount, name, recorder.Code, recorder.Body)
	}

	return GetAccount(t, server, account.ID)
}

// FreezeAccount freezes the account through the API.
func FreezeAccount(t *testing.T, server *httpserver.Server, id uuid.UUID) ledger.Snapshot {
	t.Helper()

	return postAccountAction(t, server, id, "freeze")
}

// UnfreezeAccount unfreezes the account through the API.
func UnfreezeAccount(t *testing.T, server *httpserver.Server, id uuid.UUID) ledger.Snapshot {
	t.Helper()

	return postAccountAction(t, server, id, "unfreeze")
}

func postAccountAction(t *testing.T, server *httpserver.Server, id uuid.UUID, action string) ledger.Snapshot {
	t.Helper()

	url := fmt.Sprintf("/accounts/%s/%s", id, action)

	req, err := http.NewRequest(http.MethodPost, url, nil)
	if err != nil {
		t.Fatalf("Creating request error: %v", err)
	}

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Posting %v for account %v: status %v, body %v", action, id, recorder.Code, recorder.Body)
	}

	res := struct {
		Data struct {
			Account ledger.Snapshot `json:"account"`
		} `json:"data"`
	}{}

	if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
		t.Fatalf("Decoding response body error: %v", err)
	}

	return res.Data.Account
}

// GetAccount fetches the account state through the API.
func GetAccount(t *testing.T, server *httpserver.Server, id uuid.UUID) ledger.Snapshot {
	t.Helper()

	url := fmt.Sprintf("/accounts/%s", id)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("Creating request error: %v", err)
	}

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Getting account %v: status %v, body %v", id, recorder.Code, recorder.Body)
	}

	res := struct {
		Data struct {
			Account ledger.Snapshot `json:"account"`
		} `json:"data"`
	}{}

	if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
		t.Fatalf("Decoding response body error: %v", err)
	}

	return res.Data.Account
}
