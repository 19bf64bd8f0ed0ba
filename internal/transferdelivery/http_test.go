package transferdelivery

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/pet-ledger/internal/accountrepo"
	"github.com/go-petr/pet-ledger/internal/ledger"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/randompkg"
)

func seedAccount(t *testing.T, balance string) *ledger.Account {
	t.Helper()

	account := ledger.NewAccount(randompkg.Name())

	amount, err := decimal.NewFromString(balance)
	require.NoError(t, err)

	if !amount.IsZero() {
		_, err = account.Deposit(context.Background(), amount)
		require.NoError(t, err)
	}

	return account
}

func TestCreateTranferAPI(t *testing.T) {
	testAccount1 := seedAccount(t, randompkg.MoneyAmountBetween(1000, 10_000))
	testAccount2 := seedAccount(t, randompkg.MoneyAmountBetween(1000, 10_000))
	amount := "100"

	testResult, err := testAccount1.TransferTo(context.Background(), testAccount2, decimal.NewFromInt(100))
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transferService := NewMockService(ctrl)
	transferHandler := NewHandler(transferService)

	server := gin.Default()
	url := "/transfers"

	server.POST(url, transferHandler.Create)

	testCases := []struct {
		name          string
		requestBody   gin.H
		buildStubs    func(transferService *MockService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name: "InvalidBindFromAccountID",
			requestBody: gin.H{
				"from_account_id": "not-an-id",
				"to_account_id":   testAccount2.ID().String(),
				"amount":          amount,
			},
			buildStubs: func(transferService *MockService) {
				transferService.EXPECT().
					Transfer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "InvalidBindToAccountID",
			requestBody: gin.H{
				"from_account_id": testAccount1.ID().String(),
				"to_account_id":   "42",
				"amount":          amount,
			},
			buildStubs: func(transferService *MockService) {
				transferService.EXPECT().
					Transfer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "MissingAmount",
			requestBody: gin.H{
				"from_account_id": testAccount1.ID().String(),
				"to_account_id":   testAccount2.ID().String(),
				"amount":          "",
			},
			buildStubs: func(transferService *MockService) {
				transferService.EXPECT().
					Transfer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "SelfTransfer",
			requestBody: gin.H{
				"from_account_id": testAccount1.ID().String(),
				"to_account_id":   testAccount1.ID().String(),
				"amount":          amount,
			},
			buildStubs: func(transferService *MockService) {
				transferService.EXPECT().
					Transfer(gomock.Any(), gomock.Eq(testAccount1.ID()), gomock.Eq(testAccount1.ID()), gomock.Eq(amount)).
					Times(1).
					Return(ledger.TransferResult{}, ledger.ErrSelfTransfer)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "AccountNotFound",
			requestBody: gin.H{
				"from_account_id": testAccount1.ID().String(),
				"to_account_id":   testAccount2.ID().String(),
				"amount":          amount,
			},
			buildStubs: func(transferService *MockService) {
				transferService.EXPECT().
					Transfer(gomock.Any(), gomock.Eq(testAccount1.ID()), gomock.Eq(testAccount2.ID()), gomock.Eq(amount)).
					Times(1).
					Return(ledger.TransferResult{}, accountrepo.ErrAccountNotFound)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusNotFound, recorder.Code)
			},
		},
		{
			name: "AccountFrozen",
			requestBody: gin.H{
				"from_account_id": testAccount1.ID().String(),
				"to_account_id":   testAccount2.ID().String(),
				"amount":          amount,
			},
			buildStubs: func(transferService *MockService) {
				transferService.EXPECT().
					Transfer(gomock.Any(), gomock.Eq(testAccount1.ID()), gomock.Eq(testAccount2.ID()), gomock.Eq(amount)).
					Times(1).
					Return(ledger.TransferResult{}, ledger.ErrAccountFrozen)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusConflict, recorder.Code)
			},
		},
		{
			name: "CounterpartyFrozen",
			requestBody: gin.H{
				"from_account_id": testAccount1.ID().String(),
				"to_account_id":   testAccount2.ID().String(),
				"amount":          amount,
			},
			buildStubs: func(transferService *MockService) {
				transferService.EXPECT().
					Transfer(gomock.Any(), gomock.Eq(testAccount1.ID()), gomock.Eq(testAccount2.ID()), gomock.Eq(amount)).
					Times(1).
					Return(ledger.TransferResult{}, ledger.ErrCounterpartyFrozen)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusConflict, recorder.Code)
			},
		},
		{
			name: "InsufficientBalance",
			requestBody: gin.H{
				"from_account_id": testAccount1.ID().String(),
				"to_account_id":   testAccount2.ID().String(),
				"amount":          amount,
			},
			buildStubs: func(transferService *MockService) {
				transferService.EXPECT().
					Transfer(gomock.Any(), gomock.Eq(testAccount1.ID()), gomock.Eq(testAccount2.ID()), gomock.Eq(amount)).
					Times(1).
					Return(ledger.TransferResult{}, ledger.ErrInsufficientBalance)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "LockTimeout",
			requestBody: gin.H{
				"from_account_id": testAccount1.ID().String(),
				"to_account_id":   testAccount2.ID().String(),
				"amount":          amount,
			},
			buildStubs: func(transferService *MockService) {
				transferService.EXPECT().
					Transfer(gomock.Any(), gomock.Eq(testAccount1.ID()), gomock.Eq(testAccount2.ID()), gomock.Eq(amount)).
					Times(1).
					Return(ledger.TransferResult{}, ledger.ErrLockTimeout)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusServiceUnavailable, recorder.Code)
			},
		},
		{
			name: "InternalError",
			requestBody: gin.H{
				"from_account_id": testAccount1.ID().String(),
				"to_account_id":   testAccount2.ID().String(),
				"amount":          amount,
			},
			buildStubs: func(transferService *MockService) {
				transferService.EXPECT().
					Transfer(gomock.Any(), gomock.Eq(testAccount1.ID()), gomock.Eq(testAccount2.ID()), gomock.Eq(amount)).
					Times(1).
					Return(ledger.TransferResult{}, errorspkg.ErrInternal)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusInternalServerError, recorder.Code)
			},
		},
		{
			name: "OK",
			requestBody: gin.H{
				"from_account_id": testAccount1.ID().String(),
				"to_account_id":   testAccount2.ID().String(),
				"amount":          amount,
			},
			buildStubs: func(transferService *MockService) {
				transferService.EXPECT().
					Transfer(gomock.Any(), gomock.Eq(testAccount1.ID()), gomock.Eq(testAccount2.ID()), gomock.Eq(amount)).
					Times(1).
					Return(testResult, nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)

				res := struct {
					Data struct {
						Transfer ledger.TransferResult `json:"transfer"`
					} `json:"data"`
				}{}

				err := json.NewDecoder(recorder.Body).Decode(&res)
				require.NoError(t, err)

				require.Equal(t, testResult.FromAccount.ID, res.Data.Transfer.FromAccount.ID)
				require.Equal(t, testResult.ToAccount.ID, res.Data.Transfer.ToAccount.ID)
				require.True(t, testResult.FromAccount.Balance.Equal(res.Data.Transfer.FromAccount.Balance))
				require.True(t, testResult.ToAccount.Balance.Equal(res.Data.Transfer.ToAccount.Balance))
				require.Equal(t, testResult.FromEntry.Note, res.Data.Transfer.FromEntry.Note)
				require.Equal(t, testResult.ToEntry.Note, res.Data.Transfer.ToEntry.Note)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			tc.buildStubs(transferService)

			recorder := httptest.NewRecorder()

			body, err := json.Marshal(tc.requestBody)
			require.NoError(t, err)

			req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
			require.NoError(t, err)

			server.ServeHTTP(recorder, req)
			tc.checkResponse(recorder)
		})
	}
}
