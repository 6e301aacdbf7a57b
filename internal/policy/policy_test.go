package policy

import (
	"testing"

	"github.com/alphabot-ai/remarks/internal/apperr"
	"github.com/alphabot-ai/remarks/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestIsOwner(t *testing.T) {
	assert.True(t, IsOwner(1, 1))
	assert.False(t, IsOwner(1, 2))
	assert.False(t, IsOwner(0, 0))
}

func TestPolicies(t *testing.T) {
	owner := &model.Principal{UserID: 1}
	other := &model.Principal{UserID: 2}
	admin := &model.Principal{UserID: 3, IsAdmin: true}

	tests := []struct {
		name string
		err  error
		kind apperr.Kind
	}{
		{"owner only allows owner", OwnerOnly(owner, 1), ""},
		{"owner only denies other", OwnerOnly(other, 1), apperr.KindNotOwner},
		{"owner only ignores admin", OwnerOnly(admin, 1), apperr.KindNotOwner},
		{"owner only denies anonymous", OwnerOnly(nil, 1), apperr.KindNotOwner},
		{"owner or admin allows owner", OwnerOrAdmin(owner, 1), ""},
		{"owner or admin allows admin", OwnerOrAdmin(admin, 1), ""},
		{"owner or admin denies other", OwnerOrAdmin(other, 1), apperr.KindNotOwner},
		{"admin only allows admin", AdminOnly(admin), ""},
		{"admin only denies owner", AdminOnly(owner), apperr.KindNotAdmin},
		{"admin only denies anonymous", AdminOnly(nil), apperr.KindNotAdmin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.kind == "" {
				assert.NoError(t, tt.err)
				return
			}
			assert.Equal(t, tt.kind, apperr.KindOf(tt.err))
		})
	}
}
