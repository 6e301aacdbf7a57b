package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/alphabot-ai/remarks/internal/model"
	"github.com/alphabot-ai/remarks/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsers(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	id := createUser(t, st, "Alice", "alice@example.com")

	u, err := st.FindUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.False(t, u.IsAdmin)

	_, err = st.CreateUser(ctx, &model.User{Name: "Other", Email: "alice@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, store.ErrDuplicateEmail)

	bob := createUser(t, st, "Bob", "bob@example.com")
	assert.ErrorIs(t, st.UpdateUser(ctx, bob, "Bob", "alice@example.com", time.Now()), store.ErrDuplicateEmail)

	require.NoError(t, st.UpdateUser(ctx, id, "Alicia", "alicia@example.com", time.Now()))
	require.NoError(t, st.UpdatePassword(ctx, id, "new-hash", time.Now()))
	require.NoError(t, st.SetAdmin(ctx, id, true))

	u, err = st.GetUser(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Alicia", u.Name)
	assert.Equal(t, "alicia@example.com", u.Email)
	assert.Equal(t, "new-hash", u.PasswordHash)
	assert.True(t, u.IsAdmin)

	_, err = st.GetUser(ctx, 999)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, st.SetAdmin(ctx, 999, true), store.ErrNotFound)
}

func TestTokens(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	userID := createUser(t, st, "Alice", "alice@example.com")
	now := time.Now()
	for _, id := range []string{"t1", "t2"} {
		require.NoError(t, st.CreateToken(ctx, model.Token{ID: id, UserID: userID, ExpiresAt: now.Add(time.Hour), CreatedAt: now}))
	}

	tok, err := st.GetToken(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, userID, tok.UserID)
	assert.Equal(t, now.Add(time.Hour).Unix(), tok.ExpiresAt.Unix())

	require.NoError(t, st.DeleteUserTokens(ctx, userID))
	_, err = st.GetToken(ctx, "t1")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.GetToken(ctx, "t2")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSchemaVersion(t *testing.T) {
	st := newTestStore(t)
	v, err := st.SchemaVersion()
	require.NoError(t, err)
	assert.EqualValues(t, 1, v)
}
