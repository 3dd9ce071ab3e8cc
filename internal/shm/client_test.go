package shm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second)
}

func TestLogin(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/user/auth", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice", body["login"])
		assert.Equal(t, "secret", body["password"])

		_, _ = w.Write([]byte(`{"data":{"session_id":"tok123"}}`))
	})

	token, err := client.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok123", token)
}

func TestLogin_Unauthorized(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.Login(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCurrentUser_AttachesSessionCookie(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(CookieName)
		require.NoError(t, err)
		assert.Equal(t, "tok123", cookie.Value)

		_, _ = w.Write([]byte(`{"data":{"user_id":7,"login":"alice","balance":150}}`))
	})

	user, err := client.CurrentUser(context.Background(), "tok123")
	require.NoError(t, err)
	assert.Equal(t, 7, user.UserID)
	assert.Equal(t, "alice", user.Login)
	assert.Equal(t, 150.0, user.Balance)
}

func TestCurrentUser_DataAsArray(t *testing.T) {
	// Бэкенд местами заворачивает одиночный объект в массив из одного элемента.
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"user_id":7,"login":"alice"}]}`))
	})

	user, err := client.CurrentUser(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Login)
}

func TestCurrentUser_RejectedSession(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"session expired"}`))
	})

	_, err := client.CurrentUser(context.Background(), "stale")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestListOrderable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/service/order", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[
			{"service_id":5,"name":"VPN Basic","category":"vpn","cost":100,"period":1},
			{"service_id":6,"name":"Hosting S","category":"web","cost":50,"period":1}
		]}`))
	})

	services, err := client.ListOrderable(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, services, 2)
	assert.Equal(t, 5, services[0].ServiceID)
	assert.Equal(t, 100.0, services[0].Cost)
}

func TestListOrderable_NullData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":null}`))
	})

	services, err := client.ListOrderable(context.Background(), "tok")
	require.NoError(t, err)
	assert.Empty(t, services)
}

func TestOrder(t *testing.T) {
	var gotServiceID int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/user/service/order", r.URL.Path)

		var body map[string]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotServiceID = body["service_id"]

		_, _ = w.Write([]byte(`{"data":{}}`))
	})

	require.NoError(t, client.Order(context.Background(), "tok", 5))
	assert.Equal(t, 5, gotServiceID)
}

func TestApplyPromo_BackendErrorMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"promo code already used"}`))
	})

	err := client.ApplyPromo(context.Background(), "tok", "WELCOME")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "promo code already used", apiErr.Message)
}

func TestDeleteService(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "17", r.URL.Query().Get("user_service_id"))
		_, _ = w.Write([]byte(`{"data":{}}`))
	})

	require.NoError(t, client.DeleteService(context.Background(), "tok", 17))
}

func TestPaySystems(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[
			{"name":"YooKassa","shm_url":"https://pay.example.com/yk?amount=","recurring":true},
			{"name":"Card *4242","shm_url":"https://pay.example.com/saved?amount=","allow_delete":true}
		]}`))
	})

	systems, err := client.PaySystems(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, systems, 2)
	assert.True(t, systems[1].AllowDelete)
}
