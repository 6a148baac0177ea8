package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ayush/rv-checklist/backend/internal/apperr"
	"github.com/ayush/rv-checklist/backend/internal/models"
)

// UserStore defines the interface for user persistence. Lookups return
// (nil, nil) when no user matches. CreateUser fails with a Conflict error
// when the email is taken.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

// Service owns credentials: it hashes and verifies passwords, issues tokens
// and resolves bearer tokens back to active users.
type Service struct {
	users  UserStore
	tokens *TokenIssuer
	cost   int
	log    *slog.Logger
	now    func() time.Time

	dummyOnce sync.Once
	dummyHash []byte
}

func NewService(users UserStore, tokens *TokenIssuer, bcryptCost int, log *slog.Logger) *Service {
	return &Service{users: users, tokens: tokens, cost: bcryptCost, log: log, now: time.Now}
}

// FindByEmail returns the user with exactly this email, or nil.
func (s *Service) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.users.GetUserByEmail(ctx, email)
}

// FindByID returns the user with this id, or nil.
func (s *Service) FindByID(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetUserByID(ctx, id)
}

// Create hashes the password and stores a new active user. Role defaults to
// user.
func (s *Service) Create(ctx context.Context, nu models.NewUser) (*models.User, error) {
	existing, err := s.users.GetUserByEmail(ctx, nu.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.New(apperr.KindConflict, "Email already in use")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(nu.Password), s.cost)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "hash password", err)
	}

	role := nu.Role
	if role == "" {
		role = models.RoleUser
	}
	now := s.now().UTC()
	return s.users.CreateUser(ctx, &models.User{
		Email:        nu.Email,
		PasswordHash: string(hashed),
		FirstName:    nu.FirstName,
		LastName:     nu.LastName,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// UpdateLastLogin stamps the user's last-login time.
func (s *Service) UpdateLastLogin(ctx context.Context, userID string) error {
	return s.users.UpdateLastLogin(ctx, userID, s.now().UTC())
}

// Register creates a user account and returns a token for it.
func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (string, *models.User, error) {
	user, err := s.Create(ctx, models.NewUser{
		Email:     cmd.Email,
		Password:  cmd.Password,
		FirstName: cmd.FirstName,
		LastName:  cmd.LastName,
		Role:      models.RoleUser,
	})
	if err != nil {
		return "", nil, err
	}
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Login verifies credentials and returns a token. Unknown emails and wrong
// passwords fail identically.
func (s *Service) Login(ctx context.Context, cmd LoginCommand) (string, *models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, cmd.Email)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		// Spend the same hashing time as a real comparison.
		bcrypt.CompareHashAndPassword(s.dummy(), []byte(cmd.Password))
		return "", nil, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(cmd.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return "", nil, errInvalidCredentials
		}
		return "", nil, apperr.Wrap(apperr.KindInternal, "compare password", err)
	}
	if !user.IsActive {
		return "", nil, apperr.New(apperr.KindUnauthenticated, "Account is disabled")
	}

	if err := s.UpdateLastLogin(ctx, user.ID); err != nil {
		s.log.WarnContext(ctx, "update last login", "user_id", user.ID, "err", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Authenticate resolves a bearer token to an active user. The returned
// identity carries no password hash.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.User, error) {
	subject, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetUserByID(ctx, subject)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, apperr.New(apperr.KindUnauthenticated, "unauthenticated")
	}
	identity := user.Identity()
	return &identity, nil
}

// TokenTTL is the lifetime of tokens returned by Register and Login.
func (s *Service) TokenTTL() time.Duration { return s.tokens.TTL() }

var errInvalidCredentials = apperr.New(apperr.KindUnauthenticated, "Invalid email or password")

func (s *Service) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.cost)
	})
	return s.dummyHash
}
