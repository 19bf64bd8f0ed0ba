package httpserver_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/accountrepo"
	"github.com/go-petr/pet-ledger/internal/integrationtest"
	"github.com/go-petr/pet-ledger/internal/ledger"
	"github.com/go-petr/pet-ledger/pkg/jsonresponse"
)

func TestCreateTranferAPI(t *testing.T) {
	server := integrationtest.SetupServer(t)

	from := integrationtest.SeedAccountWithBalance(t, server, "alice", "1000")
	to := integrationtest.SeedAccountWithBalance(t, server, "bob", "1000")

	frozen := integrationtest.SeedAccount(t, server, "carol")
	integrationtest.FreezeAccount(t, server, frozen.ID)

	amount := "100"

	type requestBody struct {
		FromAccountID string `json:"from_account_id"`
		ToAccountID   string `json:"to_account_id"`
		Amount        string `json:"amount"`
	}

	testCases := []struct {
		name           string
		requestBody    requestBody
		wantStatusCode int
		checkData      func(req requestBody, data any)
		wantError      string
	}{
		{
			name: "OK",
			requestBody: requestBody{
				FromAccountID: from.ID.String(),
				ToAccountID:   to.ID.String(),
				Amount:        amount,
			},
			wantStatusCode: http.StatusOK,
			checkData: func(req requestBody, data any) {
				got, ok := data.(*struct {
					Transfer ledger.TransferResult `json:"transfer"`
				})
				if !ok {
					t.Errorf(`res.Data=%#v, failed type conversion`, data)
				}

				want := ledger.TransferResult{
					FromAccount: ledger.Snapshot{
						ID:        from.ID,
						Name:      from.Name,
						Balance:   decimal.RequireFromString("900"),
						CreatedAt: from.CreatedAt,
					},
					ToAccount: ledger.Snapshot{
						ID:        to.ID,
						Name:      to.Name,
						Balance:   decimal.RequireFromString("1100"),
						CreatedAt: to.CreatedAt,
					},
					FromEntry: ledger.Record{
						Kind:         ledger.KindTransferOut,
						Amount:       decimal.RequireFromString(amount),
						BalanceAfter: decimal.RequireFromString("900"),
						Note:         "Transferred to " + to.Name,
						CreatedAt:    time.Now(),
					},
					ToEntry: ledger.Record{
						Kind:         ledger.KindTransferIn,
						Amount:       decimal.RequireFromString(amount),
						BalanceAfter: decimal.RequireFromString("1100"),
						Note:         "Received from " + from.Name,
						CreatedAt:    time.Now(),
					},
				}

				compareCreatedAt := cmpopts.EquateApproxTime(time.Second)
				if diff := cmp.Diff(want, got.Transfer, compareCreatedAt); diff != "" {
					t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
				}
			},
		},
		{
			name: "RequiredFromAccountID",
			requestBody: requestBody{
				FromAccountID: "",
				ToAccountID:   to.ID.String(),
				Amount:        amount,
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Key: 'request.FromAccountID' Error:Field validation for 'FromAccountID' failed on the 'required' tag",
		},
		{
			name: "InvalidToAccountID",
			requestBody: requestBody{
				FromAccountID: from.ID.String(),
				ToAccountID:   "42",
				Amount:        amount,
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Key: 'request.ToAccountID' Error:Field validation for 'ToAccountID' failed on the 'uuid' tag",
		},
		{
			name: "RequiredAmount",
			requestBody: requestBody{
				FromAccountID: from.ID.String(),
				ToAccountID:   to.ID.String(),
				Amount:        "",
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Key: 'request.Amount' Error:Field validation for 'Amount' failed on the 'required' tag",
		},
		{
			name: "ErrSelfTransfer",
			requestBody: requestBody{
				FromAccountID: from.ID.String(),
				ToAccountID:   from.ID.String(),
				Amount:        amount,
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      ledger.ErrSelfTransfer.Error(),
		},
		{
			name: "ErrInvalidAmount",
			requestBody: requestBody{
				FromAccountID: from.ID.String(),
				ToAccountID:   to.ID.String(),
				Amount:        "-100",
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      ledger.ErrInvalidAmount.Error(),
		},
		{
			name: "ErrInsufficientBalance",
			requestBody: requestBody{
				FromAccountID: from.ID.String(),
				ToAccountID:   to.ID.String(),
				Amount:        "100000",
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      ledger.ErrInsufficientBalance.Error(),
		},
		{
			name: "ErrAccountNotFound",
			requestBody: requestBody{
				FromAccountID: uuid.New().String(),
				ToAccountID:   to.ID.String(),
				Amount:        amount,
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      accountrepo.ErrAccountNotFound.Error(),
		},
		{
			name: "ErrAccountFrozen",
			requestBody: requestBody{
				FromAccountID: frozen.ID.String(),
				ToAccountID:   to.ID.String(),
				Amount:        amount,
			},
			wantStatusCode: http.StatusConflict,
			wantError:      ledger.ErrAccountFrozen.Error(),
		},
		{
			name: "ErrCounterpartyFrozen",
			requestBody: requestBody{
				FromAccountID: from.ID.String(),
				ToAccountID:   frozen.ID.String(),
				Amount:        amount,
			},
			wantStatusCode: http.StatusConflict,
			wantError:      ledger.ErrCounterpartyFrozen.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {

			// Send request
			body, err := json.Marshal(tc.requestBody)
			if err != nil {
				t.Fatalf("Encoding request body error: %v", err)
			}

			req, err := http.NewRequest(http.MethodPost, "/transfers", bytes.NewReader(body))
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			w := httptest.NewRecorder()
			server.ServeHTTP(w, req)

			// Test response
			if got := w.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			res := jsonresponse.Response{
				Data: &struct {
					Transfer ledger.TransferResult `json:"transfer"`
				}{},
			}

			if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
				t.Errorf("Decoding response body error: %v", err)
			}

			if tc.wantStatusCode != http.StatusOK {
				if res.Error != tc.wantError {
					t.Errorf(`res.Error=%q, want %q`, res.Error, tc.wantError)
				}
			} else {
				tc.checkData(tc.requestBody, res.Data)
			}
		})
	}
}

func TestTransferHistoryAPI(t *testing.T) {
	server := integrationtest.SetupServer(t)

	from := integrationtest.SeedAccountWithBalance(t, server, "alice", "1000")
	to := integrationtest.SeedAccount(t, server, "bob")

	body, err := json.Marshal(map[string]string{
		"from_account_id": from.ID.String(),
		"to_account_id":   to.ID.String(),
		"amount":          "250",
	})
	if err != nil {
		t.Fatalf("Encoding request body error: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, "/transfers", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("Creating request error: %v", err)
	}

	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Transferring 250 from %v to %v: status %v, body %v", from.ID, to.ID, w.Code, w.Body)
	}

	// Both account balances reflect the transfer.
	if got := integrationtest.GetAccount(t, server, from.ID); got.Balance.String() != "750" {
		t.Errorf("from balance=%v, want 750", got.Balance)
	}

	if got := integrationtest.GetAccount(t, server, to.ID); got.Balance.String() != "250" {
		t.Errorf("to balance=%v, want 250", got.Balance)
	}

	// Each side logged its own record of the transfer.
	testCases := []struct {
		name       string
		id         uuid.UUID
		wantRecord ledger.Record
	}{
		{
			name: "FromAccountHistory",
			id:   from.ID,
			wantRecord: ledger.Record{
				Kind:         ledger.KindTransferOut,
				Amount:       decimal.RequireFromString("250"),
				BalanceAfter: decimal.RequireFromString("750"),
				Note:         "Transferred to " + to.Name,
				CreatedAt:    time.Now(),
			},
		},
		{
			name: "ToAccountHistory",
			id:   to.ID,
			wantRecord: ledger.Record{
				Kind:         ledger.KindTransferIn,
				Amount:       decimal.RequireFromString("250"),
				BalanceAfter: decimal.RequireFromString("250"),
				Note:         "Received from " + from.Name,
				CreatedAt:    time.Now(),
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {

			// Send request
			url := "/accounts/" + tc.id.String() + "/history"

			req, err := http.NewRequest(http.MethodGet, url, nil)
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			w := httptest.NewRecorder()
			server.ServeHTTP(w, req)

			// Test response
			if got := w.Code; got != http.StatusOK {
				t.Errorf("Status code: got %v, want %v", got, http.StatusOK)
			}

			res := jsonresponse.Response{
				Data: &struct {
					History []ledger.Record `json:"history"`
				}{},
			}

			if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
				t.Errorf("Decoding response body error: %v", err)
			}

			got, ok := res.Data.(*struct {
				History []ledger.Record `json:"history"`
			})
			if !ok {
				t.Errorf(`res.Data=%#v, failed type conversion`, res.Data)
			}

			if len(got.History) == 0 {
				t.Fatalf("got.History is empty, want the transfer record last")
			}

			compareCreatedAt := cmpopts.EquateApproxTime(time.Second)
			if diff := cmp.Diff(tc.wantRecord, got.History[len(got.History)-1], compareCreatedAt); diff != "" {
				t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
