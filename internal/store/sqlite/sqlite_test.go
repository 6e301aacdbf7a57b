package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alphabot-ai/remarks/internal/model"
	"github.com/alphabot-ai/remarks/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	st, err := Open(path)
	require.NoError(t, err, "open store")
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func createUser(t *testing.T, st *Store, name, email string) int64 {
	t.Helper()
	now := time.Now()
	id, err := st.CreateUser(context.Background(), &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: "hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.NoError(t, err, "create user")
	return id
}

func createComment(t *testing.T, st *Store, userID int64, text string) int64 {
	t.Helper()
	now := time.Now()
	id, err := st.CreateComment(context.Background(), &model.Comment{
		UserID:    userID,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err, "create comment")
	return id
}

func TestCommentLifecycle(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	userID := createUser(t, st, "Alice", "alice@example.com")
	id := createComment(t, st, userID, "Hello")

	got, err := st.GetComment(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Text)
	assert.Equal(t, userID, got.UserID)
	assert.Equal(t, "Alice", got.AuthorName)

	later := time.Now().Add(time.Hour)
	require.NoError(t, st.UpdateCommentText(ctx, id, "Hello again", later))
	got, err = st.GetComment(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Hello again", got.Text)
	assert.Equal(t, later.Unix(), got.UpdatedAt.Unix())

	require.NoError(t, st.DeleteComment(ctx, id))
	_, err = st.GetComment(ctx, id)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, st.DeleteComment(ctx, id), store.ErrNotFound)
	assert.ErrorIs(t, st.UpdateCommentText(ctx, id, "x", later), store.ErrNotFound)
}

func TestListCommentsPaging(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	userID := createUser(t, st, "Alice", "alice@example.com")
	for i := 1; i <= 5; i++ {
		createComment(t, st, userID, fmt.Sprintf("comment %d", i))
	}

	page, total, err := st.ListComments(ctx, store.CommentListOpts{Page: 2, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 2)
	assert.Equal(t, "comment 3", page[0].Text)
	assert.Equal(t, "comment 4", page[1].Text)

	page, total, err = st.ListComments(ctx, store.CommentListOpts{Page: 9, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Empty(t, page)
}

func TestListCommentsFilter(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, st, "Alice", "alice@example.com")
	bob := createUser(t, st, "Bob", "bob@example.com")
	createComment(t, st, alice, "first post")
	createComment(t, st, bob, "nothing to see")
	createComment(t, st, bob, "100% sure")

	page, total, err := st.ListComments(ctx, store.CommentListOpts{Page: 1, PerPage: 10, Filter: "bob"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, page, 2)

	page, total, err = st.ListComments(ctx, store.CommentListOpts{Page: 1, PerPage: 10, Filter: "first"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, page, 1)
	assert.Equal(t, "Alice", page[0].AuthorName)

	// Wildcards in the filter match literally.
	_, total, err = st.ListComments(ctx, store.CommentListOpts{Page: 1, PerPage: 10, Filter: "%"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	_, total, err = st.ListComments(ctx, store.CommentListOpts{Page: 1, PerPage: 10, Filter: "_"})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestHistoryCascadesOnDelete(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	userID := createUser(t, st, "Alice", "alice@example.com")
	id := createComment(t, st, userID, "v1")
	other := createComment(t, st, userID, "other")

	for _, text := range []string{"v1", "v2"} {
		_, err := st.AppendHistory(ctx, &model.CommentHistory{CommentID: id, Text: text, CreatedAt: time.Now()})
		require.NoError(t, err)
	}
	_, err := st.AppendHistory(ctx, &model.CommentHistory{CommentID: other, Text: "other", CreatedAt: time.Now()})
	require.NoError(t, err)

	history, err := st.ListHistory(ctx, id)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "v1", history[0].Text)
	assert.Equal(t, "v2", history[1].Text)

	require.NoError(t, st.DeleteComment(ctx, id))
	history, err = st.ListHistory(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, history)

	require.NoError(t, st.DeleteAllComments(ctx))
	history, err = st.ListHistory(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, history)

	_, total, err := st.ListComments(ctx, store.CommentListOpts{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, `%abc%`, likePattern("abc"))
	assert.Equal(t, `%50\%%`, likePattern("50%"))
	assert.Equal(t, `%a\_b%`, likePattern("a_b"))
	assert.Equal(t, `%a\\b%`, likePattern(`a\b`))
}
