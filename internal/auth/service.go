package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/suPer8Hu/mindguide/internal/activity"
	"github.com/suPer8Hu/mindguide/internal/common"
	"github.com/suPer8Hu/mindguide/internal/models"
	"gorm.io/gorm"
)

const (
	tokenTTL         = 24 * time.Hour
	maxPasswordBytes = 72
)

type Service struct {
	repo      *Repo
	activity  *activity.Logger
	jwtSecret string
	log       *log.Logger
}

func NewService(repo *Repo, act *activity.Logger, jwtSecret string, lg *log.Logger) *Service {
	return &Service{repo: repo, activity: act, jwtSecret: jwtSecret, log: lg}
}

// Session is what signup and login hand back to the client.
type Session struct {
	User  models.User
	Token string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup creates the user and records SIGNUP in one transaction. A second
// signup with the same email fails with common.ErrConflict.
func (s *Service) Signup(ctx context.Context, email, password, name string) (*Session, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if email == "" || password == "" || name == "" {
		return nil, common.Invalid("Invalid input")
	}
	// bcrypt only accepts this many bytes
	if len(password) > maxPasswordBytes {
		return nil, common.Invalid("Password is too long")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{Email: email, Name: name, PasswordHash: hash}
	var logged bool
	err = s.repo.Transaction(ctx, func(tx *gorm.DB, r *Repo) error {
		exists, err := r.EmailExists(ctx, email)
		if err != nil {
			return err
		}
		if exists {
			return common.ErrConflict
		}
		if err := r.CreateUser(ctx, &user); err != nil {
			return err
		}
		logged = s.activity.RecordTx(ctx, tx, user.ID, activity.ActionSignup) == nil
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, err
		}
		// lost a race on the unique index
		if exists, getErr := s.repo.EmailExists(ctx, email); getErr == nil && exists {
			return nil, common.ErrConflict
		}
		s.log.Error("signup failed", "email", email, "err", err)
		return nil, fmt.Errorf("signup: %w", err)
	}
	if logged {
		s.activity.Committed(ctx, user.ID)
	}

	return s.session(user)
}

// Login checks the password against the stored hash and records LOGIN.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, common.Invalid("Email is required")
	}
	if password == "" {
		return nil, common.Invalid("Password is required")
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	if !CheckPassword(user.PasswordHash, password) {
		return nil, common.ErrInvalidCredentials
	}

	// audit failure does not block login
	_ = s.activity.Record(ctx, user.ID, activity.ActionLogin)

	return s.session(*user)
}

// Logout records LOGOUT. Here the audit write is the whole operation, so
// its failure is returned.
func (s *Service) Logout(ctx context.Context, userID uint64) error {
	if userID == 0 {
		return common.Invalid("user_id is required")
	}
	if err := s.activity.Record(ctx, userID, activity.ActionLogout); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (s *Service) session(u models.User) (*Session, error) {
	token, err := SignJWT(u.ID, s.jwtSecret, tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Session{User: u, Token: token}, nil
}
