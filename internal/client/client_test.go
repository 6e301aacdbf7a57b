package client

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alphabot-ai/remarks/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth":
			var creds dto.Credentials
			require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			assert.Equal(t, "alice@example.com", creds.Email)
			_ = json.NewEncoder(w).Encode(dto.TokenResponse{Token: "tok-1"})
		case "/api/me":
			assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
			_ = json.NewEncoder(w).Encode(dto.UserDetails{ID: 1, Name: "Alice", Email: "alice@example.com"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(srv.URL + "/")
	assert.False(t, c.IsAuthenticated())
	require.NoError(t, c.Login("alice@example.com", "password1"))
	assert.True(t, c.IsAuthenticated())

	me, err := c.Me()
	require.NoError(t, err)
	assert.Equal(t, "Alice", me.Name)
}

func TestAPIErrorDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"validation failed","kind":"validation","fields":{"comment":"the comment field is required"}}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).PostComment("")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, "validation", apiErr.Kind)
	assert.Contains(t, apiErr.Fields, "comment")
	assert.Contains(t, apiErr.Error(), "validation failed")
}

func TestAPIErrorPlainBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := New(srv.URL).DeleteComment(3)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "bad gateway", apiErr.Msg)
}

func TestListCommentsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "5", r.URL.Query().Get("perPage"))
		assert.Equal(t, "bob", r.URL.Query().Get("filter"))
		_ = json.NewEncoder(w).Encode(dto.NewPage([]dto.CommentDetails{{ID: 6}}, 6, 2, 5))
	}))
	defer srv.Close()

	page, err := New(srv.URL).ListComments(2, 5, "bob")
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.True(t, page.Meta.IsLastPage)
}
