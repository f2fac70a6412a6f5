package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/bnema/fin/internal/domain"
	"github.com/bnema/fin/internal/ports"
	portmocks "github.com/bnema/fin/internal/ports/mocks"
	"github.com/bnema/fin/internal/ports/portstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestClient(tr ports.Transport) *Client {
	return NewClient("http://api.local/", tr, nil)
}

func TestAccountListDecodesData(t *testing.T) {
	t.Parallel()

	tr := portstest.NewTransport().Reply("/account/list", `{"success":true,"data":[{"id":1,"name":"Cash","sum":"120.50"},{"id":"2","name":"Card","sum":-3}]}`)
	var got []domain.Account
	newTestClient(tr).Accounts().List(context.Background(), func(accounts []domain.Account, err error) {
		require.NoError(t, err)
		got = accounts
	})

	require.Len(t, got, 2)
	assert.Equal(t, domain.ID("1"), got[0].ID)
	assert.Equal(t, int64(12050), got[0].Balance.Cents)
	assert.Equal(t, int64(-300), got[1].Balance.Cents)

	calls := tr.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "http://api.local/account/list", calls[0].Request.URL)
	assert.Equal(t, http.MethodGet, calls[0].Request.Method)
	assert.Equal(t, ports.ResponseJSON, calls[0].Request.ResponseKind)
}

func TestAccountListFailureFlagIsSemanticError(t *testing.T) {
	t.Parallel()

	tr := portstest.NewTransport().Reply("/account/list", `{"success":false,"error":"Необходима авторизация"}`)
	var gotErr error
	newTestClient(tr).Accounts().List(context.Background(), func(_ []domain.Account, err error) {
		gotErr = err
	})

	require.Error(t, gotErr)
	assert.True(t, domain.IsKind(gotErr, domain.ErrorKindSemantic))
	assert.ErrorContains(t, gotErr, "Необходима авторизация")
}

func TestTransportFailureIsTransportError(t *testing.T) {
	t.Parallel()

	tr := portstest.NewTransport()
	var gotErr error
	newTestClient(tr).Accounts().Get(context.Background(), "5", func(_ domain.Account, err error) {
		gotErr = err
	})
	tr.Fail(0, errors.New("connection reset"))

	assert.True(t, domain.IsKind(gotErr, domain.ErrorKindTransport))
	assert.Equal(t, "5", tr.Calls()[0].Request.Data.Get("id"))
}

func TestAccountCreateRejectsEmptyNameWithoutRequest(t *testing.T) {
	t.Parallel()

	tr := portmocks.NewMockTransport(t)
	var gotErr error
	newTestClient(tr).Accounts().Create(context.Background(), "  ", func(_ domain.Account, err error) {
		gotErr = err
	})

	assert.True(t, domain.IsKind(gotErr, domain.ErrorKindValidation))
	tr.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestAccountRemovePostsID(t *testing.T) {
	t.Parallel()

	tr := portmocks.NewMockTransport(t)
	tr.EXPECT().Send(mock.Anything, mock.MatchedBy(func(req ports.Request) bool {
		return req.Method == http.MethodPost &&
			req.URL == "http://api.local/account/remove" &&
			req.Data.Get("id") == "5"
	}), mock.Anything).Run(func(_ context.Context, _ ports.Request, cb ports.Callback) {
		cb(&ports.Response{Status: http.StatusOK, Body: []byte(`{"success":true}`)}, nil)
	}).Return().Once()

	called := false
	newTestClient(tr).Accounts().Remove(context.Background(), "5", func(err error) {
		called = true
		require.NoError(t, err)
	})
	assert.True(t, called)
}

func TestTransactionCreateSendsFormFields(t *testing.T) {
	t.Parallel()

	tr := portstest.NewTransport().Reply("/transaction/create", `{"success":true,"data":{"id":11,"account_id":5,"type":"expense","name":"Coffee","sum":3.5,"created_at":"2019-03-10 03:20:00"}}`)
	in := TransactionInput{AccountID: "5", Kind: domain.TransactionExpense, Name: " Coffee ", Amount: domain.NewMoney(350)}

	var created domain.Transaction
	newTestClient(tr).Transactions().Create(context.Background(), in, func(tx domain.Transaction, err error) {
		require.NoError(t, err)
		created = tx
	})

	req := tr.Calls()[0].Request
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, ports.Values{
		{Key: "account_id", Value: "5"},
		{Key: "type", Value: "expense"},
		{Key: "name", Value: "Coffee"},
		{Key: "sum", Value: "3.50"},
	}, req.Data)
	assert.Equal(t, domain.ID("11"), created.ID)
	assert.Equal(t, domain.TransactionExpense, created.Kind)
}

func TestTransactionInputValidate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		in   TransactionInput
		ok   bool
	}{
		{name: "valid", in: TransactionInput{AccountID: "1", Kind: domain.TransactionIncome, Name: "Salary", Amount: domain.NewMoney(100)}, ok: true},
		{name: "missing account", in: TransactionInput{Kind: domain.TransactionIncome, Name: "Salary", Amount: domain.NewMoney(100)}},
		{name: "bad kind", in: TransactionInput{AccountID: "1", Kind: "transfer", Name: "Salary", Amount: domain.NewMoney(100)}},
		{name: "zero amount", in: TransactionInput{AccountID: "1", Kind: domain.TransactionIncome, Name: "Salary"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.in.Validate()
			if tc.ok {
				require.NoError(t, err)
				return
			}
			assert.True(t, domain.IsKind(err, domain.ErrorKindValidation))
		})
	}
}

func TestTransactionListFiltersByAccount(t *testing.T) {
	t.Parallel()

	tr := portstest.NewTransport().Reply("/transaction/list", `{"success":true,"data":[]}`)
	var got []domain.Transaction
	newTestClient(tr).Transactions().List(context.Background(), "7", func(items []domain.Transaction, err error) {
		require.NoError(t, err)
		got = items
	})

	assert.Empty(t, got)
	assert.Equal(t, "7", tr.Calls()[0].Request.Data.Get("account_id"))
}

func TestUserLoginReturnsSession(t *testing.T) {
	t.Parallel()

	tr := portstest.NewTransport().Reply("/user/login", `{"success":true,"user":{"id":2,"name":"Vlad","email":"test@test.ru"}}`)
	var reply ports.AuthReply
	newTestClient(tr).Users().Login(context.Background(), domain.Credentials{Email: "test@test.ru", Password: "abracadabra"}, func(r ports.AuthReply, err error) {
		require.NoError(t, err)
		reply = r
	})

	require.True(t, reply.Success)
	require.NotNil(t, reply.Session)
	assert.Equal(t, domain.Session{ID: "2", Name: "Vlad", Email: "test@test.ru"}, *reply.Session)
	assert.Equal(t, "abracadabra", tr.Calls()[0].Request.Data.Get("password"))
	assert.Equal(t, http.MethodPost, tr.Calls()[0].Request.Method)
}

func TestUserCurrentWithoutSuccessFlag(t *testing.T) {
	t.Parallel()

	tr := portstest.NewTransport().Reply("/user/current", `{"success":false,"error":"Необходима авторизация"}`)
	var reply ports.AuthReply
	newTestClient(tr).Users().Current(context.Background(), func(r ports.AuthReply, err error) {
		require.NoError(t, err)
		reply = r
	})

	assert.False(t, reply.Success)
	assert.Nil(t, reply.Session)
	assert.Equal(t, "Необходима авторизация", reply.Error)
}

func TestUserLogoutTransportError(t *testing.T) {
	t.Parallel()

	tr := portstest.NewTransport()
	var gotErr error
	newTestClient(tr).Users().Logout(context.Background(), func(_ ports.AuthReply, err error) {
		gotErr = err
	})
	tr.Fail(0, errors.New("dial tcp: refused"))

	assert.True(t, domain.IsKind(gotErr, domain.ErrorKindTransport))
}

func TestEnvelopeErrorObjectIsFlattened(t *testing.T) {
	t.Parallel()

	env := parseEnvelope(&ports.Response{Status: 400, Body: []byte(`{"success":false,"error":{"email":["E-Mail адрес уже существует"],"name":"required"}}`)})
	assert.Equal(t, "E-Mail адрес уже существует; required", env.Error)
	assert.True(t, domain.IsKind(env.Err("register"), domain.ErrorKindSemantic))
}

func TestEnvelopeSessionWithoutUser(t *testing.T) {
	t.Parallel()

	env := parseEnvelope(&ports.Response{Status: 200, Body: []byte(`{"success":true}`)})
	_, err := env.Session("current user")
	assert.True(t, domain.IsKind(err, domain.ErrorKindSemantic))
}

func TestAccountGetFindsItemInListReply(t *testing.T) {
	t.Parallel()

	tr := portstest.NewTransport().Reply("/account/get", `{"success":true,"data":[{"id":4,"name":"Cash","sum":0},{"id":5,"name":"Card","sum":10}]}`)
	var got domain.Account
	newTestClient(tr).Accounts().Get(context.Background(), "5", func(account domain.Account, err error) {
		require.NoError(t, err)
		got = account
	})

	assert.Equal(t, "Card", got.Name)
}

func TestTransactionGetSendsIDAndDecodes(t *testing.T) {
	t.Parallel()

	tr := portstest.NewTransport().Reply("/transaction/get", `{"success":true,"data":{"id":11,"account_id":5,"type":"income","name":"Salary","sum":"1200.50","created_at":"2019-03-10 03:20:00"}}`)
	var got domain.Transaction
	newTestClient(tr).Transactions().Get(context.Background(), "11", func(tx domain.Transaction, err error) {
		require.NoError(t, err)
		got = tx
	})

	calls := tr.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodGet, calls[0].Request.Method)
	assert.Equal(t, "11", calls[0].Request.Data.Get("id"))
	assert.Equal(t, domain.ID("11"), got.ID)
	assert.Equal(t, domain.TransactionIncome, got.Kind)
	assert.Equal(t, int64(120050), got.Amount.Cents)
}

func TestTransactionGetMissingItemIsSemanticError(t *testing.T) {
	t.Parallel()

	tr := portstest.NewTransport().Reply("/transaction/get", `{"success":true,"data":[{"id":12,"account_id":5,"type":"expense","name":"Tea","sum":2}]}`)
	var gotErr error
	newTestClient(tr).Transactions().Get(context.Background(), "11", func(_ domain.Transaction, err error) {
		gotErr = err
	})

	assert.True(t, domain.IsKind(gotErr, domain.ErrorKindSemantic))
}
