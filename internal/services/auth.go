package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/galactus-p2p/galactus/internal/auth"
	"github.com/galactus-p2p/galactus/internal/cache"
	"github.com/galactus-p2p/galactus/internal/models"
	"github.com/galactus-p2p/galactus/internal/repositories"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService unifies login and first-time registration: any unused username
// becomes a new account on its first successful login.
type AuthService struct {
	users     repositories.UserRepository
	addresses cache.AddressCache
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(users repositories.UserRepository, addresses cache.AddressCache, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		users:     users,
		addresses: addresses,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// Authenticate looks up or creates the user, returning the signed token and
// whether the account was created on this call. The creation branch relies on
// the unique username constraint: a duplicate-key insert means a concurrent
// login just created the account, so it retries as a plain login.
func (s *AuthService) Authenticate(ctx context.Context, username, password, multiaddr string) (*models.User, string, bool, error) {
	if username == "" || password == "" {
		return nil, "", false, ErrValidation
	}

	created := false
	user, err := s.users.GetByUsername(ctx, username)
	switch {
	case err == nil:
		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
			return nil, "", false, ErrInvalidCredentials
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		user, created, err = s.register(ctx, username, password)
		if err != nil {
			return nil, "", false, err
		}
		if !created {
			// Lost the creation race; verify against the winner's hash.
			if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
				return nil, "", false, ErrInvalidCredentials
			}
		}
	default:
		return nil, "", false, fmt.Errorf("looking up user: %w", err)
	}

	if multiaddr != "" {
		if err := s.users.UpdateMultiaddr(ctx, username, multiaddr); err != nil {
			return nil, "", false, fmt.Errorf("updating multiaddr: %w", err)
		}
		if err := s.addresses.Set(ctx, username, multiaddr); err != nil {
			return nil, "", false, fmt.Errorf("caching multiaddr: %w", err)
		}
		user.Multiaddr = multiaddr
	}

	token, err := auth.GenerateToken(user.Username, user.Multiaddr, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, "", false, fmt.Errorf("signing token: %w", err)
	}
	return user, token, created, nil
}

func (s *AuthService) register(ctx context.Context, username, password string) (*models.User, bool, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, fmt.Errorf("hashing password: %w", err)
	}

	user := &models.User{
		ID:       uuid.New(),
		Username: username,
		Password: string(hash),
	}
	err = s.users.Create(ctx, user)
	if err == nil {
		return user, true, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, false, fmt.Errorf("creating user: %w", err)
	}

	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, false, fmt.Errorf("reloading user after create conflict: %w", err)
	}
	return existing, false, nil
}
