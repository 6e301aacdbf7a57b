package comment

import (
	"testing"

	"github.com/alphabot-ai/remarks/internal/apperr"
	"github.com/alphabot-ai/remarks/internal/model"
	"github.com/alphabot-ai/remarks/internal/policy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignOwnerIfAbsent(t *testing.T) {
	p := &model.Principal{UserID: 5}

	var c model.Comment
	require.NoError(t, assignOwnerIfAbsent(&c, p))
	assert.EqualValues(t, 5, c.UserID)
	assert.True(t, policy.IsOwner(p.UserID, c.UserID))

	c = model.Comment{UserID: 9}
	require.NoError(t, assignOwnerIfAbsent(&c, p))
	assert.EqualValues(t, 9, c.UserID)

	require.NoError(t, assignOwnerIfAbsent(&c, nil))

	c = model.Comment{}
	err := assignOwnerIfAbsent(&c, nil)
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))
}
