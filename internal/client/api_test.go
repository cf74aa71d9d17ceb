package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gusgusz/projeto14-mywallet-back/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundTripperFunc lets a test stand in for the server.
type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(fn roundTripperFunc) *Client {
	return New("http://wallet.test/", &http.Client{Transport: fn, Timeout: time.Second})
}

func respond(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestClient_SignIn_StoresToken(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "POST", req.Method)
		assert.Equal(t, "http://wallet.test/sign-in", req.URL.String())
		assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
		assert.Empty(t, req.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		assert.Equal(t, map[string]string{"email": "ana@x.com", "password": "123456"}, body)
		return respond(http.StatusOK, `{"token":"tok","name":"Ana"}`), nil
	})

	name, err := c.SignIn(context.Background(), "ana@x.com", "123456")
	require.NoError(t, err)
	assert.Equal(t, "Ana", name)
	assert.Equal(t, "tok", c.Token)
}

func TestClient_SignUp_RepeatsPassword(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		assert.Equal(t, body["password"], body["repeatPassword"])
		return respond(http.StatusCreated, ""), nil
	})
	require.NoError(t, c.SignUp(context.Background(), "Ana", "ana@x.com", "123456"))
}

func TestClient_ValidationError(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		return respond(http.StatusBadRequest, `["\"name\" is required"]`), nil
	})

	err := c.SignUp(context.Background(), "", "ana@x.com", "123456")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, []string{`"name" is required`}, apiErr.Messages)
	assert.Contains(t, err.Error(), `"name" is required`)
}

func TestClient_ServerError(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		return respond(http.StatusConflict, "Email already registered\n"), nil
	})
	err := c.SignUp(context.Background(), "Ana", "ana@x.com", "123456")
	if err == nil || !strings.Contains(err.Error(), "server error 409: Email already registered") {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestClient_NetworkError(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("network down")
	})
	err := c.SignUp(context.Background(), "Ana", "ana@x.com", "123456")
	if err == nil || !strings.Contains(err.Error(), "POST /sign-up failed") {
		t.Errorf("expected network failure, got %v", err)
	}
}

func TestClient_LedgerCallsNeedToken(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		t.Fatal("no request expected")
		return nil, nil
	})
	_, err := c.List(context.Background())
	assert.ErrorIs(t, err, ErrNotSignedIn)
	assert.ErrorIs(t, c.Delete(context.Background(), "x"), ErrNotSignedIn)
}

func TestClient_Ledger(t *testing.T) {
	var seen []string
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "Bearer tok", req.Header.Get("Authorization"))
		seen = append(seen, req.Method+" "+req.URL.EscapedPath())
		switch req.Method + " " + req.URL.Path {
		case "POST /accounts":
			var body map[string]any
			require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
			assert.Equal(t, map[string]any{
				"value": 12.5, "titleDescription": "Lunch", "description": "Tuesday", "type": "out",
			}, body)
			return respond(http.StatusCreated, ""), nil
		case "GET /accounts":
			return respond(http.StatusOK, `[{"titleDescription":"Lunch","description":"Tuesday","value":12.5,"type":"out","date":"14/10/2026"}]`), nil
		case "GET /accounts/balance":
			return respond(http.StatusOK, `{"total":-12.5}`), nil
		case "PUT /accounts/rent/june":
			return respond(http.StatusOK, `{"message":"transaction updated"}`), nil
		case "DELETE /accounts/Lunch":
			return respond(http.StatusOK, `{"message":"transaction deleted"}`), nil
		}
		return respond(http.StatusNotFound, "not found"), nil
	})
	c.Token = "tok"
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, NewTransaction{
		Value: decimal.RequireFromString("12.5"), TitleDescription: "Lunch", Description: "Tuesday", Type: models.TypeOut,
	}))

	txs, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "14/10/2026", txs[0].Date)

	total, err := c.Balance(ctx)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("-12.5")))

	require.NoError(t, c.Update(ctx, "rent/june", "Rent", decimal.NewFromInt(900)))
	require.NoError(t, c.Delete(ctx, "Lunch"))

	assert.Equal(t, []string{
		"POST /accounts",
		"GET /accounts",
		"GET /accounts/balance",
		"PUT /accounts/rent%2Fjune",
		"DELETE /accounts/Lunch",
	}, seen)
}

func TestClient_SignOut_ForgetsToken(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		return respond(http.StatusOK, `{"message":"signed out"}`), nil
	})
	c.Token = "tok"
	require.NoError(t, c.SignOut(context.Background()))
	assert.Empty(t, c.Token)
}
