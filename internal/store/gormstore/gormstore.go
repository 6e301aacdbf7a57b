// Package gormstore is the MySQL backend, built on gorm. It keeps the same
// table layout as the sqlite store so either can serve the API.
package gormstore

import (
	"context"
	"strings"
	"time"

	"github.com/alphabot-ai/remarks/internal/model"
	"github.com/alphabot-ai/remarks/internal/store"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type userRecord struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"size:255;not null"`
	Email     string `gorm:"size:255;not null;uniqueIndex:idx_users_email"`
	Password  string `gorm:"size:255;not null"`
	IsAdmin   bool   `gorm:"not null;default:false"`
	CreatedAt int64  `gorm:"not null;autoCreateTime:false"`
	UpdatedAt int64  `gorm:"not null;autoUpdateTime:false"`
}

func (userRecord) TableName() string { return "users" }

type commentRecord struct {
	ID        int64       `gorm:"primaryKey;autoIncrement"`
	UserID    int64       `gorm:"not null;index:idx_comments_user_id"`
	User      *userRecord `gorm:"foreignKey:UserID"`
	Comment   string      `gorm:"type:text;not null"`
	CreatedAt int64       `gorm:"not null;autoCreateTime:false"`
	UpdatedAt int64       `gorm:"not null;autoUpdateTime:false"`
}

func (commentRecord) TableName() string { return "comments" }

type historyRecord struct {
	ID        int64          `gorm:"primaryKey;autoIncrement"`
	CommentID int64          `gorm:"not null;index:idx_comment_history_comment_id"`
	Parent    *commentRecord `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE"`
	Comment   string         `gorm:"type:text;not null"`
	CreatedAt int64          `gorm:"not null;autoCreateTime:false"`
}

func (historyRecord) TableName() string { return "comment_history" }

type tokenRecord struct {
	ID        string      `gorm:"primaryKey;size:64"`
	UserID    int64       `gorm:"not null;index:idx_auth_tokens_user_id"`
	User      *userRecord `gorm:"foreignKey:UserID"`
	ExpiresAt int64       `gorm:"not null"`
	CreatedAt int64       `gorm:"not null;autoCreateTime:false"`
}

func (tokenRecord) TableName() string { return "auth_tokens" }

// commentRow is the shape of a comment joined with its author.
type commentRow struct {
	ID         int64
	UserID     int64
	Comment    string
	CreatedAt  int64
	UpdatedAt  int64
	AuthorName *string
}

type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

// Open connects to MySQL and migrates the schema. SQL statements slower
// than 200ms are logged through log.
func Open(dsn string, log logrus.FieldLogger) (*Store, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger: logger.New(log, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, errors.Wrap(err, "connect to mysql")
	}
	st := &Store{db: db}
	if err := st.Migrate(); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

func (s *Store) Migrate() error {
	return errors.Wrap(
		s.db.AutoMigrate(&userRecord{}, &commentRecord{}, &historyRecord{}, &tokenRecord{}),
		"auto migrate",
	)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) CreateUser(ctx context.Context, user *model.User) (int64, error) {
	rec := userRecord{
		Name:      user.Name,
		Email:     user.Email,
		Password:  user.PasswordHash,
		IsAdmin:   user.IsAdmin,
		CreatedAt: user.CreatedAt.Unix(),
		UpdatedAt: user.UpdatedAt.Unix(),
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, store.ErrDuplicateEmail
		}
		return 0, errors.Wrap(err, "insert user")
	}
	return rec.ID, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (model.User, error) {
	var rec userRecord
	if err := s.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		return model.User{}, notFound(err)
	}
	return rec.toModel(), nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (model.User, error) {
	var rec userRecord
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&rec).Error; err != nil {
		return model.User{}, notFound(err)
	}
	return rec.toModel(), nil
}

func (s *Store) UpdateUser(ctx context.Context, id int64, name, email string, updatedAt time.Time) error {
	res := s.db.WithContext(ctx).Model(&userRecord{}).Where("id = ?", id).Updates(map[string]any{
		"name":       name,
		"email":      email,
		"updated_at": updatedAt.Unix(),
	})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return store.ErrDuplicateEmail
		}
		return errors.Wrap(res.Error, "update user")
	}
	return s.requireRow(ctx, &userRecord{}, id, res)
}

func (s *Store) UpdatePassword(ctx context.Context, id int64, hash string, updatedAt time.Time) error {
	res := s.db.WithContext(ctx).Model(&userRecord{}).Where("id = ?", id).Updates(map[string]any{
		"password":   hash,
		"updated_at": updatedAt.Unix(),
	})
	if res.Error != nil {
		return errors.Wrap(res.Error, "update password")
	}
	return s.requireRow(ctx, &userRecord{}, id, res)
}

func (s *Store) SetAdmin(ctx context.Context, id int64, admin bool) error {
	res := s.db.WithContext(ctx).Model(&userRecord{}).Where("id = ?", id).Update("is_admin", admin)
	if res.Error != nil {
		return errors.Wrap(res.Error, "set admin")
	}
	return s.requireRow(ctx, &userRecord{}, id, res)
}

func (s *Store) CreateComment(ctx context.Context, comment *model.Comment) (int64, error) {
	rec := commentRecord{
		UserID:    comment.UserID,
		Comment:   comment.Text,
		CreatedAt: comment.CreatedAt.Unix(),
		UpdatedAt: comment.UpdatedAt.Unix(),
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return 0, errors.Wrap(err, "insert comment")
	}
	return rec.ID, nil
}

func (s *Store) comments(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("comments AS c").
		Joins("LEFT JOIN users u ON u.id = c.user_id")
}

const commentColumns = "c.id, c.user_id, c.comment, c.created_at, c.updated_at, u.name AS author_name"

func (s *Store) GetComment(ctx context.Context, id int64) (model.Comment, error) {
	var rows []commentRow
	err := s.comments(ctx).Select(commentColumns).Where("c.id = ?", id).Limit(1).Scan(&rows).Error
	if err != nil {
		return model.Comment{}, errors.Wrap(err, "get comment")
	}
	if len(rows) == 0 {
		return model.Comment{}, store.ErrNotFound
	}
	return rows[0].toModel(), nil
}

func (s *Store) ListComments(ctx context.Context, opts store.CommentListOpts) ([]model.Comment, int, error) {
	opts.PerPage = clamp(opts.PerPage, 1, 50)
	if opts.Page < 1 {
		opts.Page = 1
	}

	filtered := func() *gorm.DB {
		q := s.comments(ctx)
		if opts.Filter != "" {
			// MySQL escapes LIKE wildcards with a backslash by default.
			pattern := likePattern(opts.Filter)
			q = q.Where("c.comment LIKE ? OR u.name LIKE ?", pattern, pattern)
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count comments")
	}

	var rows []commentRow
	err := filtered().
		Select(commentColumns).
		Order("c.id ASC").
		Limit(opts.PerPage).
		Offset(opts.Offset()).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "list comments")
	}

	comments := make([]model.Comment, 0, len(rows))
	for _, r := range rows {
		comments = append(comments, r.toModel())
	}
	return comments, int(total), nil
}

func (s *Store) UpdateCommentText(ctx context.Context, id int64, text string, updatedAt time.Time) error {
	res := s.db.WithContext(ctx).Model(&commentRecord{}).Where("id = ?", id).Updates(map[string]any{
		"comment":    text,
		"updated_at": updatedAt.Unix(),
	})
	if res.Error != nil {
		return errors.Wrap(res.Error, "update comment")
	}
	return s.requireRow(ctx, &commentRecord{}, id, res)
}

func (s *Store) DeleteComment(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&commentRecord{}, id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete comment")
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteAllComments(ctx context.Context) error {
	err := s.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&commentRecord{}).Error
	return errors.Wrap(err, "delete comments")
}

func (s *Store) AppendHistory(ctx context.Context, entry *model.CommentHistory) (int64, error) {
	rec := historyRecord{
		CommentID: entry.CommentID,
		Comment:   entry.Text,
		CreatedAt: entry.CreatedAt.Unix(),
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return 0, errors.Wrap(err, "insert comment history")
	}
	return rec.ID, nil
}

func (s *Store) ListHistory(ctx context.Context, commentID int64) ([]model.CommentHistory, error) {
	var recs []historyRecord
	err := s.db.WithContext(ctx).Where("comment_id = ?", commentID).Order("id ASC").Find(&recs).Error
	if err != nil {
		return nil, errors.Wrap(err, "list comment history")
	}
	history := make([]model.CommentHistory, 0, len(recs))
	for _, r := range recs {
		history = append(history, model.CommentHistory{
			ID:        r.ID,
			CommentID: r.CommentID,
			Text:      r.Comment,
			CreatedAt: time.Unix(r.CreatedAt, 0),
		})
	}
	return history, nil
}

func (s *Store) CreateToken(ctx context.Context, token model.Token) error {
	rec := tokenRecord{
		ID:        token.ID,
		UserID:    token.UserID,
		ExpiresAt: token.ExpiresAt.Unix(),
		CreatedAt: token.CreatedAt.Unix(),
	}
	return errors.Wrap(s.db.WithContext(ctx).Create(&rec).Error, "insert token")
}

func (s *Store) GetToken(ctx context.Context, id string) (model.Token, error) {
	var rec tokenRecord
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return model.Token{}, notFound(err)
	}
	return model.Token{
		ID:        rec.ID,
		UserID:    rec.UserID,
		ExpiresAt: time.Unix(rec.ExpiresAt, 0),
		CreatedAt: time.Unix(rec.CreatedAt, 0),
	}, nil
}

func (s *Store) DeleteUserTokens(ctx context.Context, userID int64) error {
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&tokenRecord{}).Error
	return errors.Wrap(err, "delete tokens")
}

// requireRow maps an update that touched nothing to ErrNotFound. MySQL
// reports zero affected rows when the values did not change, so existence
// is checked before giving up.
func (s *Store) requireRow(ctx context.Context, table any, id int64, res *gorm.DB) error {
	if res.RowsAffected > 0 {
		return nil
	}
	var n int64
	if err := s.db.WithContext(ctx).Model(table).Where("id = ?", id).Count(&n).Error; err != nil {
		return errors.Wrap(err, "check row")
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return err
}

func (r userRecord) toModel() model.User {
	return model.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.Password,
		IsAdmin:      r.IsAdmin,
		CreatedAt:    time.Unix(r.CreatedAt, 0),
		UpdatedAt:    time.Unix(r.UpdatedAt, 0),
	}
}

func (r commentRow) toModel() model.Comment {
	c := model.Comment{
		ID:        r.ID,
		UserID:    r.UserID,
		Text:      r.Comment,
		CreatedAt: time.Unix(r.CreatedAt, 0),
		UpdatedAt: time.Unix(r.UpdatedAt, 0),
	}
	if r.AuthorName != nil {
		c.AuthorName = *r.AuthorName
	}
	return c
}

func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
