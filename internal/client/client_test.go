package client

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

func TestSignupAndLogin(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		got = nil
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok-" + r.URL.Path})
	}))
	defer srv.Close()

	c := New(srv.URL + "/")

	token, err := c.Signup(context.Background(), "a@b.com", "pw", "Asha")
	require.NoError(t, err)
	assert.Equal(t, "tok-/api/auth/signup", token)
	assert.Equal(t, map[string]string{"email": "a@b.com", "password": "pw", "name": "Asha"}, got)

	token, err = c.Login(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok-/api/auth/login", token)
	assert.NotContains(t, got, "name")
}

func TestAPIErrorCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"conflict","message":"User exists"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Signup(context.Background(), "a@b.com", "pw", "")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "conflict", apiErr.Type)
	assert.Equal(t, "User exists", apiErr.Error())
}

func TestAPIErrorWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := New(srv.URL).SubmitFeedback(context.Background(), map[string]int{"websiteRating": 5}, "")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "request failed with status 502", apiErr.Error())
}

func TestSubmitFeedback(t *testing.T) {
	var got map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		got = nil
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := New(srv.URL)

	require.NoError(t, c.SubmitFeedback(context.Background(), map[string]any{"aiRating": 4}, "t@x.com"))
	assert.JSONEq(t, `{"aiRating":4}`, string(got["payload"]))
	assert.JSONEq(t, `"t@x.com"`, string(got["email"]))

	require.NoError(t, c.SubmitFeedback(context.Background(), map[string]any{"aiRating": 4}, ""))
	_, hasEmail := got["email"]
	assert.False(t, hasEmail)
}

func TestListFeedback_SendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer owner-token" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"unauthorized","message":"Invalid token"}`))
			return
		}
		_, _ = w.Write([]byte(`{"feedback":[
			{"id":2,"userEmail":null,"data":{"n":2},"createdAt":"2026-10-15T10:00:00.005Z"},
			{"id":1,"userEmail":"t@x.com","data":"x","createdAt":"2026-10-14T09:00:00.000Z"}
		]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithHTTPClient(srv.Client()))

	items, err := c.ListFeedback(context.Background(), "owner-token")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(2), items[0].ID)
	assert.Nil(t, items[0].UserEmail)
	assert.True(t, items[0].CreatedAt.Equal(time.Date(2026, 10, 15, 10, 0, 0, 5_000_000, time.UTC)))
	require.NotNil(t, items[1].UserEmail)
	assert.Equal(t, "t@x.com", *items[1].UserEmail)

	_, err = c.ListFeedback(context.Background(), "stale")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid token", apiErr.Message)
}

func TestListFeedback_NoToken(t *testing.T) {
	_, err := New("http://unused").ListFeedback(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoToken)
}
