// Package comment implements comment CRUD with ownership checks and an
// append-only edit history.
package comment

import (
	"context"
	"time"

	"github.com/alphabot-ai/remarks/internal/apperr"
	"github.com/alphabot-ai/remarks/internal/dto"
	"github.com/alphabot-ai/remarks/internal/model"
	"github.com/alphabot-ai/remarks/internal/policy"
	"github.com/alphabot-ai/remarks/internal/store"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Service struct {
	store store.CommentStore
	log   logrus.FieldLogger
	now   func() time.Time
}

func NewService(st store.CommentStore, log logrus.FieldLogger) *Service {
	return &Service{store: st, log: log, now: time.Now}
}

func (s *Service) List(ctx context.Context, q dto.ListQuery) (dto.Page[dto.CommentDetails], error) {
	if err := q.Normalize(); err != nil {
		return dto.Page[dto.CommentDetails]{}, err
	}
	comments, total, err := s.store.ListComments(ctx, store.CommentListOpts{
		Page:    q.Page,
		PerPage: q.PerPage,
		Filter:  q.Filter,
	})
	if err != nil {
		return dto.Page[dto.CommentDetails]{}, errors.Wrap(err, "list comments")
	}
	items := make([]dto.CommentDetails, 0, len(comments))
	for _, c := range comments {
		items = append(items, dto.NewCommentDetails(c))
	}
	return dto.NewPage(items, total, q.Page, q.PerPage), nil
}

func (s *Service) Get(ctx context.Context, id int64) (dto.CommentDetails, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return dto.CommentDetails{}, err
	}
	return dto.NewCommentDetails(c), nil
}

func (s *Service) Create(ctx context.Context, p *model.Principal, in dto.CommentInput) (dto.CommentDetails, error) {
	if err := in.Normalize(); err != nil {
		return dto.CommentDetails{}, err
	}
	now := s.now()
	c := model.Comment{Text: in.Comment, CreatedAt: now, UpdatedAt: now}
	if err := assignOwnerIfAbsent(&c, p); err != nil {
		return dto.CommentDetails{}, err
	}

	id, err := s.store.CreateComment(ctx, &c)
	if err != nil {
		return dto.CommentDetails{}, errors.Wrap(err, "create comment")
	}
	c.ID = id
	if err := appendHistory(ctx, s.store, c, now); err != nil {
		return dto.CommentDetails{}, err
	}
	s.log.WithFields(logrus.Fields{"comment_id": id, "user_id": c.UserID}).Info("comment created")

	return s.Get(ctx, id)
}

// Update replaces the comment text. Submitting the current text is a no-op
// that writes nothing.
func (s *Service) Update(ctx context.Context, p *model.Principal, id int64, in dto.CommentInput) (dto.CommentDetails, error) {
	if err := in.Normalize(); err != nil {
		return dto.CommentDetails{}, err
	}
	c, err := s.load(ctx, id)
	if err != nil {
		return dto.CommentDetails{}, err
	}
	if err := policy.OwnerOnly(p, c.UserID); err != nil {
		return dto.CommentDetails{}, err
	}
	if c.Text == in.Comment {
		return dto.NewCommentDetails(c), nil
	}

	now := s.now()
	if err := s.store.UpdateCommentText(ctx, id, in.Comment, now); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return dto.CommentDetails{}, notFound(id)
		}
		return dto.CommentDetails{}, errors.Wrap(err, "update comment")
	}
	c.Text = in.Comment
	c.UpdatedAt = now
	if err := appendHistory(ctx, s.store, c, now); err != nil {
		return dto.CommentDetails{}, err
	}
	s.log.WithFields(logrus.Fields{"comment_id": id, "user_id": p.UserID}).Info("comment updated")

	return dto.NewCommentDetails(c), nil
}

func (s *Service) Delete(ctx context.Context, p *model.Principal, id int64) error {
	c, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.OwnerOrAdmin(p, c.UserID); err != nil {
		return err
	}
	if err := s.store.DeleteComment(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(id)
		}
		return errors.Wrap(err, "delete comment")
	}
	s.log.WithFields(logrus.Fields{"comment_id": id, "user_id": p.UserID}).Info("comment deleted")
	return nil
}

func (s *Service) DeleteAll(ctx context.Context, p *model.Principal) error {
	if err := policy.AdminOnly(p); err != nil {
		return err
	}
	if err := s.store.DeleteAllComments(ctx); err != nil {
		return errors.Wrap(err, "delete all comments")
	}
	s.log.WithField("user_id", p.UserID).Warn("all comments deleted")
	return nil
}

// History lists the recorded versions of a comment, oldest first. Only the
// owner may read it.
func (s *Service) History(ctx context.Context, p *model.Principal, id int64) ([]dto.HistoryEntry, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.OwnerOnly(p, c.UserID); err != nil {
		return nil, err
	}
	history, err := s.store.ListHistory(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "list history")
	}
	entries := make([]dto.HistoryEntry, 0, len(history))
	for _, h := range history {
		entries = append(entries, dto.NewHistoryEntry(h))
	}
	return entries, nil
}

func (s *Service) load(ctx context.Context, id int64) (model.Comment, error) {
	c, err := s.store.GetComment(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Comment{}, notFound(id)
		}
		return model.Comment{}, errors.Wrap(err, "get comment")
	}
	return c, nil
}

func notFound(id int64) error {
	return apperr.NotFound("comment %d not found", id)
}
