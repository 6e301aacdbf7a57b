package store

import (
	"context"
	"errors"
	"time"

	"github.com/alphabot-ai/remarks/internal/model"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("duplicate email")
)

// CommentListOpts selects one page of comments. Page is 1-based.
type CommentListOpts struct {
	Page    int
	PerPage int
	// Filter matches comments whose text or author name contains it.
	Filter string
}

func (o CommentListOpts) Offset() int {
	if o.Page < 1 {
		return 0
	}
	return (o.Page - 1) * o.PerPage
}

type Store interface {
	UserStore
	CommentStore
	TokenStore
	Close() error
}

type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) (int64, error)
	GetUser(ctx context.Context, id int64) (model.User, error)
	FindUserByEmail(ctx context.Context, email string) (model.User, error)
	UpdateUser(ctx context.Context, id int64, name, email string, updatedAt time.Time) error
	UpdatePassword(ctx context.Context, id int64, hash string, updatedAt time.Time) error
	SetAdmin(ctx context.Context, id int64, admin bool) error
}

type CommentStore interface {
	CreateComment(ctx context.Context, comment *model.Comment) (int64, error)
	GetComment(ctx context.Context, id int64) (model.Comment, error)
	ListComments(ctx context.Context, opts CommentListOpts) ([]model.Comment, int, error)
	UpdateCommentText(ctx context.Context, id int64, text string, updatedAt time.Time) error
	DeleteComment(ctx context.Context, id int64) error
	DeleteAllComments(ctx context.Context) error
	AppendHistory(ctx context.Context, entry *model.CommentHistory) (int64, error)
	ListHistory(ctx context.Context, commentID int64) ([]model.CommentHistory, error)
}

type TokenStore interface {
	CreateToken(ctx context.Context, token model.Token) error
	GetToken(ctx context.Context, id string) (model.Token, error)
	DeleteUserTokens(ctx context.Context, userID int64) error
}
