// Package dto holds the request and response shapes of the API together
// with their validation rules.
package dto

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/alphabot-ai/remarks/internal/apperr"
	"github.com/alphabot-ai/remarks/internal/model"
)

// TimeLayout is the wire format of every timestamp, always in UTC.
const TimeLayout = "2006-01-02 15:04:05"

const (
	MinPasswordLength = 8
	MaxNameLength     = 255
	MaxCommentLength  = 10000
)

func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

type CommentDetails struct {
	ID             int64  `json:"id"`
	Comment        string `json:"comment"`
	Author         string `json:"author"`
	PostedAt       string `json:"posted_at"`
	LastModifiedAt string `json:"last_modified_at"`
}

func NewCommentDetails(c model.Comment) CommentDetails {
	return CommentDetails{
		ID:             c.ID,
		Comment:        c.Text,
		Author:         c.AuthorName,
		PostedAt:       FormatTime(c.CreatedAt),
		LastModifiedAt: FormatTime(c.UpdatedAt),
	}
}

type HistoryEntry struct {
	Comment   string `json:"comment"`
	CreatedAt string `json:"created_at"`
}

func NewHistoryEntry(h model.CommentHistory) HistoryEntry {
	return HistoryEntry{Comment: h.Text, CreatedAt: FormatTime(h.CreatedAt)}
}

type UserDetails struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func NewUserDetails(u model.User) UserDetails {
	return UserDetails{ID: u.ID, Name: u.Name, Email: u.Email}
}

type CommentInput struct {
	Comment string `json:"comment"`
}

// Normalize trims the comment text and rejects it when empty.
func (in *CommentInput) Normalize() error {
	in.Comment = strings.TrimSpace(in.Comment)
	var v apperr.Validation
	v.Check(in.Comment != "", "comment", "the comment field is required")
	v.Check(utf8.RuneCountInString(in.Comment) <= MaxCommentLength, "comment", "the comment is too long")
	return v.Err()
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in *RegisterInput) Normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	var v apperr.Validation
	checkName(&v, in.Name)
	checkEmail(&v, in.Email)
	checkPassword(&v, "password", in.Password)
	return v.Err()
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in *Credentials) Normalize() error {
	in.Email = normalizeEmail(in.Email)
	var v apperr.Validation
	v.Check(in.Email != "", "email", "the email field is required")
	v.Check(in.Password != "", "password", "the password field is required")
	return v.Err()
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (in *ChangePasswordInput) Normalize() error {
	var v apperr.Validation
	v.Check(in.CurrentPassword != "", "current_password", "the current password field is required")
	checkPassword(&v, "new_password", in.NewPassword)
	return v.Err()
}

type UpdateUserInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (in *UpdateUserInput) Normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	var v apperr.Validation
	checkName(&v, in.Name)
	checkEmail(&v, in.Email)
	return v.Err()
}

type TokenResponse struct {
	Token string `json:"token"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// DeleteAllInput must carry an explicit confirmation. Accepted values are
// true, 1, "1", "yes", "on" and "true".
type DeleteAllInput struct {
	Confirm any `json:"confirm"`
}

func (in DeleteAllInput) Accepted() bool {
	switch v := in.Confirm.(type) {
	case bool:
		return v
	case float64:
		return v == 1
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "yes", "on", "true":
			return true
		}
	}
	return false
}

func (in DeleteAllInput) Validate() error {
	if !in.Accepted() {
		return apperr.Invalid("confirm", "the confirm field must be accepted")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func checkName(v *apperr.Validation, name string) {
	v.Check(name != "", "name", "the name field is required")
	v.Check(utf8.RuneCountInString(name) <= MaxNameLength, "name", "the name is too long")
}

func checkEmail(v *apperr.Validation, email string) {
	if email == "" {
		v.Add("email", "the email field is required")
		return
	}
	addr, err := mail.ParseAddress(email)
	v.Check(err == nil && addr.Address == email, "email", "the email must be a valid email address")
}

func checkPassword(v *apperr.Validation, field, password string) {
	v.Check(password != "", field, "the password field is required")
	v.Check(utf8.RuneCountInString(password) >= MinPasswordLength, field, "the password must be at least 8 characters")
}
