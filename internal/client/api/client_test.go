package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avolkovs/tillpoint/internal/client/models"
	"github.com/avolkovs/tillpoint/internal/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListProducts_DecodesAndSendsBearer(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.Equal(t, "/products", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"products": []map[string]any{
				{"id": "p1", "name": "Coffee", "sellingPrice": "3.50"},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	c.SetTokens("token-123", "")

	products, err := c.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "p1", products[0].ID)
	assert.True(t, products[0].SellingPrice.Equal(decimal.RequireFromString("3.50")))
	assert.Equal(t, "Bearer token-123", gotAuth)
}

func TestDo_MapsTransportErrorToUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refused from here on

	c := New(srv.URL, time.Second)
	_, err := c.ListProducts(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrRemoteUnreachable)
	assert.NotErrorIs(t, err, common.ErrRemoteRejected)
}

func TestDo_Maps5xxToUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "db down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.ListProducts(context.Background())
	assert.ErrorIs(t, err, common.ErrRemoteUnreachable)
}

func TestDo_Maps4xxToRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad price", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.CreateProduct(context.Background(), models.Product{Name: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrRemoteRejected)
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.NotErrorIs(t, err, common.ErrRemoteUnreachable)
}

func TestDo_MapsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.GetProduct(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.ErrorIs(t, err, common.ErrRemoteRejected)
}

func TestDo_RefreshesOnceOn401(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh":
			var body struct {
				RefreshToken string `json:"refreshToken"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "refresh-1", body.RefreshToken)
			_ = json.NewEncoder(w).Encode(TokenPair{AccessToken: "access-2", RefreshToken: "refresh-2"})
		case "/products":
			calls++
			if r.Header.Get("Authorization") != "Bearer access-2" {
				http.Error(w, "expired", http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"products": []any{}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	c.SetTokens("access-1", "refresh-1")

	_, err := c.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "expected one failed call and one retried call")

	access, refresh := c.tokenPair()
	assert.Equal(t, "access-2", access)
	assert.Equal(t, "refresh-2", refresh)
}

func TestDo_No401RetryWithoutRefreshToken(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "expired", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	c.SetTokens("access-1", "")

	_, err := c.ListProducts(context.Background())
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Equal(t, 1, calls)
}

func TestLogin_InstallsTokens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		_ = json.NewEncoder(w).Encode(TokenPair{AccessToken: "a", RefreshToken: "r"})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	require.NoError(t, c.Login(context.Background(), "alice", "pw"))

	access, refresh := c.tokenPair()
	assert.Equal(t, "a", access)
	assert.Equal(t, "r", refresh)

	c.Logout()
	access, refresh = c.tokenPair()
	assert.Empty(t, access)
	assert.Empty(t, refresh)
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ping", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	assert.NoError(t, c.Ping(context.Background()))

	srv.Close()
	assert.ErrorIs(t, c.Ping(context.Background()), common.ErrRemoteUnreachable)
}
