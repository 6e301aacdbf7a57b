// Package auth registers users, checks their passwords and issues the
// bearer tokens that identify them on later requests.
//
// Tokens are HS256-signed JWTs whose jti is also stored server side, so a
// token stops working as soon as its record is deleted.
package auth

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/alphabot-ai/remarks/internal/apperr"
	"github.com/alphabot-ai/remarks/internal/dto"
	"github.com/alphabot-ai/remarks/internal/model"
	"github.com/alphabot-ai/remarks/internal/policy"
	"github.com/alphabot-ai/remarks/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type Store interface {
	store.UserStore
	store.TokenStore
}

type Options struct {
	Secret     string
	TokenTTL   time.Duration
	BcryptCost int
}

type Service struct {
	store    Store
	secret   []byte
	tokenTTL time.Duration
	cost     int
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewService(st Store, opts Options, log logrus.FieldLogger) *Service {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		store:    st,
		secret:   []byte(opts.Secret),
		tokenTTL: opts.TokenTTL,
		cost:     opts.BcryptCost,
		log:      log,
		now:      time.Now,
	}
}

func (s *Service) Register(ctx context.Context, in dto.RegisterInput) (dto.UserDetails, error) {
	if err := in.Normalize(); err != nil {
		return dto.UserDetails{}, err
	}
	hash, err := s.hash(in.Password)
	if err != nil {
		return dto.UserDetails{}, err
	}
	now := s.now()
	u := model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	id, err := s.store.CreateUser(ctx, &u)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return dto.UserDetails{}, emailTaken()
		}
		return dto.UserDetails{}, errors.Wrap(err, "create user")
	}
	u.ID = id
	s.log.WithField("user_id", id).Info("user registered")
	return dto.NewUserDetails(u), nil
}

// Authenticate checks the credentials and returns a fresh bearer token.
// Every token the user held before is revoked first. A failed attempt
// changes nothing.
func (s *Service) Authenticate(ctx context.Context, in dto.Credentials) (string, error) {
	if err := in.Normalize(); err != nil {
		return "", err
	}
	u, err := s.store.FindUserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", apperr.InvalidCredentials("email")
		}
		return "", errors.Wrap(err, "find user")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		return "", apperr.InvalidCredentials("email")
	}

	if err := s.store.DeleteUserTokens(ctx, u.ID); err != nil {
		return "", errors.Wrap(err, "revoke tokens")
	}
	token, err := s.issue(ctx, u.ID)
	if err != nil {
		return "", err
	}
	s.log.WithField("user_id", u.ID).Info("user authenticated")
	return token, nil
}

// Verify resolves a bearer token to the principal it was issued for.
func (s *Service) Verify(ctx context.Context, bearer string) (*model.Principal, error) {
	raw := strings.TrimSpace(strings.TrimPrefix(bearer, "Bearer "))
	if raw == "" {
		return nil, apperr.Unauthenticated("missing token")
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, apperr.Unauthenticated("invalid token")
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || claims.ID == "" {
		return nil, apperr.Unauthenticated("invalid token")
	}

	rec, err := s.store.GetToken(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.Unauthenticated("token revoked")
		}
		return nil, errors.Wrap(err, "load token")
	}
	if rec.UserID != userID || s.now().After(rec.ExpiresAt) {
		return nil, apperr.Unauthenticated("token expired")
	}

	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.Unauthenticated("unknown user")
		}
		return nil, errors.Wrap(err, "load user")
	}
	return &model.Principal{UserID: u.ID, Name: u.Name, IsAdmin: u.IsAdmin}, nil
}

func (s *Service) Logout(ctx context.Context, p *model.Principal) error {
	if p == nil {
		return apperr.Unauthenticated("authentication required")
	}
	if err := s.store.DeleteUserTokens(ctx, p.UserID); err != nil {
		return errors.Wrap(err, "revoke tokens")
	}
	s.log.WithField("user_id", p.UserID).Info("user logged out")
	return nil
}

func (s *Service) ChangePassword(ctx context.Context, p *model.Principal, in dto.ChangePasswordInput) error {
	if err := in.Normalize(); err != nil {
		return err
	}
	u, err := s.user(ctx, p)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.CurrentPassword)) != nil {
		return apperr.InvalidCredentials("current_password")
	}
	hash, err := s.hash(in.NewPassword)
	if err != nil {
		return err
	}
	if err := s.store.UpdatePassword(ctx, u.ID, hash, s.now()); err != nil {
		return errors.Wrap(err, "update password")
	}
	s.log.WithField("user_id", u.ID).Info("password changed")
	return nil
}

func (s *Service) Me(ctx context.Context, p *model.Principal) (dto.UserDetails, error) {
	u, err := s.user(ctx, p)
	if err != nil {
		return dto.UserDetails{}, err
	}
	return dto.NewUserDetails(u), nil
}

func (s *Service) UpdateMe(ctx context.Context, p *model.Principal, in dto.UpdateUserInput) (dto.UserDetails, error) {
	if err := in.Normalize(); err != nil {
		return dto.UserDetails{}, err
	}
	u, err := s.user(ctx, p)
	if err != nil {
		return dto.UserDetails{}, err
	}
	now := s.now()
	if err := s.store.UpdateUser(ctx, u.ID, in.Name, in.Email, now); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return dto.UserDetails{}, emailTaken()
		}
		return dto.UserDetails{}, errors.Wrap(err, "update user")
	}
	u.Name, u.Email, u.UpdatedAt = in.Name, in.Email, now
	return dto.NewUserDetails(u), nil
}

func (s *Service) IsAdmin(p *model.Principal) bool {
	return policy.IsAdmin(p)
}

func (s *Service) AssertAdmin(p *model.Principal) error {
	return policy.AdminOnly(p)
}

// Promote grants the admin flag to the user with the given email.
func (s *Service) Promote(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("user %s not found", email)
		}
		return errors.Wrap(err, "find user")
	}
	if err := s.store.SetAdmin(ctx, u.ID, true); err != nil {
		return errors.Wrap(err, "set admin")
	}
	s.log.WithField("user_id", u.ID).Warn("user promoted to admin")
	return nil
}

func (s *Service) issue(ctx context.Context, userID int64) (string, error) {
	now := s.now()
	expires := now.Add(s.tokenTTL)
	jti := uuid.NewString()

	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		ID:        jti,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	if err := s.store.CreateToken(ctx, model.Token{ID: jti, UserID: userID, ExpiresAt: expires, CreatedAt: now}); err != nil {
		return "", errors.Wrap(err, "store token")
	}
	return signed, nil
}

func (s *Service) user(ctx context.Context, p *model.Principal) (model.User, error) {
	if p == nil {
		return model.User{}, apperr.Unauthenticated("authentication required")
	}
	u, err := s.store.GetUser(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.User{}, apperr.NotFound("user %d not found", p.UserID)
		}
		return model.User{}, errors.Wrap(err, "load user")
	}
	return u, nil
}

func (s *Service) hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}
	return string(b), nil
}

func emailTaken() error {
	err := apperr.Conflict("the email has already been taken")
	err.Fields = map[string]string{"email": err.Message}
	return err
}
