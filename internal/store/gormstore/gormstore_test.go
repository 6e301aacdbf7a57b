package gormstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"github.com/alphabot-ai/remarks/internal/model"
	"github.com/alphabot-ai/remarks/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore connects to the MySQL database named by
// REMARKS_TEST_MYSQL_DSN and empties it.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("REMARKS_TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("REMARKS_TEST_MYSQL_DSN not set")
	}
	log := logrus.New()
	log.SetOutput(io.Discard)

	st, err := Open(dsn, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	for _, table := range []string{"comment_history", "auth_tokens", "comments", "users"} {
		require.NoError(t, st.db.Exec("DELETE FROM "+table).Error)
	}
	return st
}

func TestCommentsRoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	userID, err := st.CreateUser(ctx, &model.User{Name: "Alice", Email: "alice@example.com", PasswordHash: "x", CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)

	_, err = st.CreateUser(ctx, &model.User{Name: "Again", Email: "alice@example.com", PasswordHash: "x", CreatedAt: now, UpdatedAt: now})
	assert.ErrorIs(t, err, store.ErrDuplicateEmail)

	var ids []int64
	for i := 1; i <= 3; i++ {
		id, err := st.CreateComment(ctx, &model.Comment{UserID: userID, Text: fmt.Sprintf("note %d", i), CreatedAt: now, UpdatedAt: now})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	got, err := st.GetComment(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.AuthorName)

	page, total, err := st.ListComments(ctx, store.CommentListOpts{Page: 2, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 1)
	assert.Equal(t, "note 3", page[0].Text)

	_, total, err = st.ListComments(ctx, store.CommentListOpts{Page: 1, PerPage: 10, Filter: "alice"})
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	_, err = st.AppendHistory(ctx, &model.CommentHistory{CommentID: ids[0], Text: "note 1", CreatedAt: now})
	require.NoError(t, err)
	require.NoError(t, st.DeleteComment(ctx, ids[0]))
	history, err := st.ListHistory(ctx, ids[0])
	require.NoError(t, err)
	assert.Empty(t, history)

	// Same values touch no rows in MySQL and must not read as missing.
	require.NoError(t, st.SetAdmin(ctx, userID, false))
	assert.ErrorIs(t, st.SetAdmin(ctx, userID+1000, true), store.ErrNotFound)

	require.NoError(t, st.DeleteAllComments(ctx))
	_, total, err = st.ListComments(ctx, store.CommentListOpts{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestTokens(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	userID, err := st.CreateUser(ctx, &model.User{Name: "Alice", Email: "alice@example.com", PasswordHash: "x", CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)
	require.NoError(t, st.CreateToken(ctx, model.Token{ID: "jti-1", UserID: userID, ExpiresAt: now.Add(time.Hour), CreatedAt: now}))

	tok, err := st.GetToken(ctx, "jti-1")
	require.NoError(t, err)
	assert.Equal(t, userID, tok.UserID)

	require.NoError(t, st.DeleteUserTokens(ctx, userID))
	_, err = st.GetToken(ctx, "jti-1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, `%a\%b\_c%`, likePattern("a%b_c"))
}
