package comment

import (
	"context"
	"time"

	"github.com/alphabot-ai/remarks/internal/apperr"
	"github.com/alphabot-ai/remarks/internal/model"
	"github.com/alphabot-ai/remarks/internal/store"

	"github.com/pkg/errors"
)

// assignOwnerIfAbsent runs before a comment is first persisted. An owner
// already set on the comment is kept.
func assignOwnerIfAbsent(c *model.Comment, p *model.Principal) error {
	if c.UserID != 0 {
		return nil
	}
	if p == nil || p.UserID == 0 {
		return apperr.Unauthenticated("authentication required")
	}
	c.UserID = p.UserID
	return nil
}

// appendHistory records the persisted text of c. It runs after every create
// and after updates that changed the text.
func appendHistory(ctx context.Context, st store.CommentStore, c model.Comment, at time.Time) error {
	_, err := st.AppendHistory(ctx, &model.CommentHistory{
		CommentID: c.ID,
		Text:      c.Text,
		CreatedAt: at,
	})
	return errors.Wrapf(err, "append history for comment %d", c.ID)
}
