package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/alphabot-ai/remarks/internal/model"
	"github.com/alphabot-ai/remarks/internal/store"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", withPragmas(path))
	if err != nil {
		return nil, err
	}
	// A single connection keeps shared in-memory databases alive and
	// serializes writers.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Migrate applies all pending goose migrations.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

func (s *Store) SchemaVersion() (int64, error) {
	return goose.GetDBVersion(s.db)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func withPragmas(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func (s *Store) CreateUser(ctx context.Context, user *model.User) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
INSERT INTO users (name, email, password, is_admin, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
`, user.Name, user.Email, user.PasswordHash, boolToInt(user.IsAdmin), user.CreatedAt.Unix(), user.UpdatedAt.Unix())
	if err != nil {
		if isUniqueViolation(err) {
			return 0, store.ErrDuplicateEmail
		}
		return 0, errors.Wrap(err, "insert user")
	}
	return res.LastInsertId()
}

func (s *Store) GetUser(ctx context.Context, id int64) (model.User, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, name, email, password, is_admin, created_at, updated_at
FROM users
WHERE id = ?
`, id)
	return scanUser(row)
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (model.User, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, name, email, password, is_admin, created_at, updated_at
FROM users
WHERE email = ?
LIMIT 1
`, email)
	return scanUser(row)
}

func (s *Store) UpdateUser(ctx context.Context, id int64, name, email string, updatedAt time.Time) error {
	res, err := s.db.ExecContext(ctx, `
UPDATE users SET name = ?, email = ?, updated_at = ? WHERE id = ?
`, name, email, updatedAt.Unix(), id)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicateEmail
		}
		return errors.Wrap(err, "update user")
	}
	return requireAffected(res)
}

func (s *Store) UpdatePassword(ctx context.Context, id int64, hash string, updatedAt time.Time) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET password = ?, updated_at = ? WHERE id = ?`, hash, updatedAt.Unix(), id)
	if err != nil {
		return errors.Wrap(err, "update password")
	}
	return requireAffected(res)
}

func (s *Store) SetAdmin(ctx context.Context, id int64, admin bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET is_admin = ? WHERE id = ?`, boolToInt(admin), id)
	if err != nil {
		return errors.Wrap(err, "set admin")
	}
	return requireAffected(res)
}

func (s *Store) CreateComment(ctx context.Context, comment *model.Comment) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
INSERT INTO comments (user_id, comment, created_at, updated_at)
VALUES (?, ?, ?, ?)
`, comment.UserID, comment.Text, comment.CreatedAt.Unix(), comment.UpdatedAt.Unix())
	if err != nil {
		return 0, errors.Wrap(err, "insert comment")
	}
	return res.LastInsertId()
}

func (s *Store) GetComment(ctx context.Context, id int64) (model.Comment, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT c.id, c.user_id, c.comment, c.created_at, c.updated_at, u.name
FROM comments c
LEFT JOIN users u ON u.id = c.user_id
WHERE c.id = ?
`, id)
	return scanComment(row)
}

func (s *Store) ListComments(ctx context.Context, opts store.CommentListOpts) ([]model.Comment, int, error) {
	opts.PerPage = clamp(opts.PerPage, 1, 50)
	if opts.Page < 1 {
		opts.Page = 1
	}

	where := ""
	var args []any
	if opts.Filter != "" {
		pattern := likePattern(opts.Filter)
		where = `WHERE c.comment LIKE ? ESCAPE '\' OR u.name LIKE ? ESCAPE '\'`
		args = append(args, pattern, pattern)
	}

	var total int
	row := s.db.QueryRowContext(ctx, `
SELECT COUNT(*)
FROM comments c
LEFT JOIN users u ON u.id = c.user_id
`+where, args...)
	if err := row.Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "count comments")
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT c.id, c.user_id, c.comment, c.created_at, c.updated_at, u.name
FROM comments c
LEFT JOIN users u ON u.id = c.user_id
`+where+`
ORDER BY c.id ASC
LIMIT ? OFFSET ?
`, append(args, opts.PerPage, opts.Offset())...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list comments")
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, 0, err
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

func (s *Store) UpdateCommentText(ctx context.Context, id int64, text string, updatedAt time.Time) error {
	res, err := s.db.ExecContext(ctx, `UPDATE comments SET comment = ?, updated_at = ? WHERE id = ?`, text, updatedAt.Unix(), id)
	if err != nil {
		return errors.Wrap(err, "update comment")
	}
	return requireAffected(res)
}

func (s *Store) DeleteComment(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "delete comment")
	}
	return requireAffected(res)
}

func (s *Store) DeleteAllComments(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM comments`)
	return errors.Wrap(err, "delete comments")
}

func (s *Store) AppendHistory(ctx context.Context, entry *model.CommentHistory) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
INSERT INTO comment_history (comment_id, comment, created_at)
VALUES (?, ?, ?)
`, entry.CommentID, entry.Text, entry.CreatedAt.Unix())
	if err != nil {
		return 0, errors.Wrap(err, "insert comment history")
	}
	return res.LastInsertId()
}

func (s *Store) ListHistory(ctx context.Context, commentID int64) ([]model.CommentHistory, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, comment_id, comment, created_at
FROM comment_history
WHERE comment_id = ?
ORDER BY id ASC
`, commentID)
	if err != nil {
		return nil, errors.Wrap(err, "list comment history")
	}
	defer rows.Close()

	var history []model.CommentHistory
	for rows.Next() {
		var h model.CommentHistory
		var created int64
		if err := rows.Scan(&h.ID, &h.CommentID, &h.Text, &created); err != nil {
			return nil, err
		}
		h.CreatedAt = time.Unix(created, 0)
		history = append(history, h)
	}
	return history, rows.Err()
}

func (s *Store) CreateToken(ctx context.Context, token model.Token) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO auth_tokens (id, user_id, expires_at, created_at)
VALUES (?, ?, ?, ?)
`, token.ID, token.UserID, token.ExpiresAt.Unix(), token.CreatedAt.Unix())
	return errors.Wrap(err, "insert token")
}

func (s *Store) GetToken(ctx context.Context, id string) (model.Token, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, user_id, expires_at, created_at
FROM auth_tokens
WHERE id = ?
`, id)
	var t model.Token
	var expires, created int64
	if err := row.Scan(&t.ID, &t.UserID, &expires, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Token{}, store.ErrNotFound
		}
		return model.Token{}, err
	}
	t.ExpiresAt = time.Unix(expires, 0)
	t.CreatedAt = time.Unix(created, 0)
	return t, nil
}

func (s *Store) DeleteUserTokens(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM auth_tokens WHERE user_id = ?`, userID)
	return errors.Wrap(err, "delete tokens")
}

func scanUser(scanner interface{ Scan(dest ...any) error }) (model.User, error) {
	var u model.User
	var admin int
	var created, updated int64
	if err := scanner.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &admin, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, store.ErrNotFound
		}
		return model.User{}, err
	}
	u.IsAdmin = admin == 1
	u.CreatedAt = time.Unix(created, 0)
	u.UpdatedAt = time.Unix(updated, 0)
	return u, nil
}

func scanComment(scanner interface{ Scan(dest ...any) error }) (model.Comment, error) {
	var c model.Comment
	var created, updated int64
	var authorName sql.NullString
	if err := scanner.Scan(&c.ID, &c.UserID, &c.Text, &created, &updated, &authorName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Comment{}, store.ErrNotFound
		}
		return model.Comment{}, err
	}
	if authorName.Valid {
		c.AuthorName = authorName.String
	}
	c.CreatedAt = time.Unix(created, 0)
	c.UpdatedAt = time.Unix(updated, 0)
	return c, nil
}

func requireAffected(res sql.Result) error {
	if rows, _ := res.RowsAffected(); rows == 0 {
		return store.ErrNotFound
	}
	return nil
}

// likePattern turns s into a LIKE pattern matching it as a literal substring.
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

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "PRIMARY KEY")
}
