package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/andikar-ai/gateway/domain/account"
	"github.com/andikar-ai/gateway/domain/plan"
	"github.com/andikar-ai/gateway/ports"
)

// Account service errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("username or email already registered")
	ErrInvalidToken       = errors.New("invalid token")
)

// AccountService handles registration, login, and JWT issuance.
type AccountService struct {
	users  ports.UserStore
	plans  ports.PlanStore
	hasher ports.Hasher
	clock  ports.Clock
	idGen  ports.IDGenerator

	secret   []byte
	tokenTTL time.Duration
}

// AccountDeps contains dependencies for AccountService.
type AccountDeps struct {
	Users  ports.UserStore
	Plans  ports.PlanStore
	Hasher ports.Hasher
	Clock  ports.Clock
	IDGen  ports.IDGenerator
}

// AccountConfig contains settings for AccountService.
type AccountConfig struct {
	Secret   string
	TokenTTL time.Duration
}

// NewAccountService creates a new account service.
func NewAccountService(deps AccountDeps, cfg AccountConfig) *AccountService {
	ttl := cfg.TokenTTL
	if ttl == 0 {
		ttl = 30 * time.Minute
	}
	return &AccountService{
		users:    deps.Users,
		plans:    deps.Plans,
		hasher:   deps.Hasher,
		clock:    deps.Clock,
		idGen:    deps.IDGen,
		secret:   []byte(cfg.Secret),
		tokenTTL: ttl,
	}
}

// RegisterInput is the payload for creating an account.
type RegisterInput struct {
	Username string
	Email    string
	FullName string
	Password string
	PlanID   string
}

// Register creates a new user on the requested plan, defaulting to the
// free tier.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (ports.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if username == "" || email == "" || in.Password == "" {
		return ports.User{}, fmt.Errorf("username, email and password are required")
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return ports.User{}, ErrUserExists
	} else if !errors.Is(err, ports.ErrNotFound) {
		return ports.User{}, fmt.Errorf("check username: %w", err)
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return ports.User{}, ErrUserExists
	} else if !errors.Is(err, ports.ErrNotFound) {
		return ports.User{}, fmt.Errorf("check email: %w", err)
	}

	planID := in.PlanID
	if planID == "" {
		planID = plan.FreeID
	}
	if _, err := s.plans.Get(ctx, planID); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return ports.User{}, fmt.Errorf("unknown plan %q", planID)
		}
		return ports.User{}, fmt.Errorf("check plan: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return ports.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := ports.User{
		ID:            s.idGen.New(),
		Username:      username,
		Email:         email,
		FullName:      strings.TrimSpace(in.FullName),
		PasswordHash:  hash,
		PlanID:        planID,
		PaymentStatus: account.PaymentPending,
		IsActive:      true,
		JoinedAt:      s.clock.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return ports.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Authenticate verifies credentials and returns the user.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (ports.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, ports.ErrNotFound) {
		return ports.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return ports.User{}, fmt.Errorf("load user: %w", err)
	}

	if !s.hasher.Compare(user.PasswordHash, password) {
		return ports.User{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return ports.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// IssueToken creates a signed JWT for the user.
func (s *AccountService) IssueToken(user ports.User) (string, time.Time, error) {
	now := s.clock.Now().UTC()
	expires := now.Add(s.tokenTTL)

	claims := jwt.MapClaims{
		"sub": user.Username,
		"uid": user.ID,
		"iat": now.Unix(),
		"exp": expires.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expires, nil
}

// VerifyToken parses a JWT and returns the authenticated user.
func (s *AccountService) VerifyToken(ctx context.Context, tokenString string) (ports.User, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.clock.Now() }))
	if err != nil || !token.Valid {
		return ports.User{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ports.User{}, ErrInvalidToken
	}
	uid, _ := claims["uid"].(string)
	if uid == "" {
		return ports.User{}, ErrInvalidToken
	}

	user, err := s.users.Get(ctx, uid)
	if errors.Is(err, ports.ErrNotFound) {
		return ports.User{}, ErrInvalidToken
	}
	if err != nil {
		return ports.User{}, fmt.Errorf("load user: %w", err)
	}
	if !user.IsActive {
		return ports.User{}, ErrInvalidToken
	}
	return user, nil
}

// UpdateProfileInput carries the mutable profile fields.
type UpdateProfileInput struct {
	Email    string
	FullName string
	Password string
}

// UpdateProfile modifies the caller's own account.
func (s *AccountService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (ports.User, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return ports.User{}, fmt.Errorf("load user: %w", err)
	}

	if email := strings.TrimSpace(strings.ToLower(in.Email)); email != "" && email != user.Email {
		if _, err := s.users.GetByEmail(ctx, email); err == nil {
			return ports.User{}, ErrUserExists
		} else if !errors.Is(err, ports.ErrNotFound) {
			return ports.User{}, fmt.Errorf("check email: %w", err)
		}
		user.Email = email
	}
	if name := strings.TrimSpace(in.FullName); name != "" {
		user.FullName = name
	}
	if in.Password != "" {
		hash, err := s.hasher.Hash(in.Password)
		if err != nil {
			return ports.User{}, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return ports.User{}, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}
