package repositories

import (
	"context"
	"sort"
	"sync"

	"github.com/galactus-p2p/galactus/internal/models"
	"gorm.io/gorm"
)

// UserRepository persists user credentials and last-known multiaddrs.
// Implementations signal duplicates with gorm.ErrDuplicatedKey and misses
// with gorm.ErrRecordNotFound so callers can branch uniformly.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateMultiaddr(ctx context.Context, username, multiaddr string) error
	ListUsernames(ctx context.Context) ([]string, error)
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *GormUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) UpdateMultiaddr(ctx context.Context, username, multiaddr string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ?", username).
		Update("multiaddr", multiaddr)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormUserRepository) ListUsernames(ctx context.Context) ([]string, error) {
	var usernames []string
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Order("username").
		Pluck("username", &usernames).Error
	if err != nil {
		return nil, err
	}
	return usernames, nil
}

// InMemoryUserRepository backs tests and Redis-less development runs.
type InMemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{users: make(map[string]models.User)}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.Username]; exists {
		return gorm.ErrDuplicatedKey
	}
	r.users[user.Username] = *user
	return nil
}

func (r *InMemoryUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, exists := r.users[username]
	if !exists {
		return nil, gorm.ErrRecordNotFound
	}
	return &user, nil
}

func (r *InMemoryUserRepository) UpdateMultiaddr(ctx context.Context, username, multiaddr string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, exists := r.users[username]
	if !exists {
		return gorm.ErrRecordNotFound
	}
	user.Multiaddr = multiaddr
	r.users[username] = user
	return nil
}

func (r *InMemoryUserRepository) ListUsernames(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	usernames := make([]string, 0, len(r.users))
	for name := range r.users {
		usernames = append(usernames, name)
	}
	sort.Strings(usernames)
	return usernames, nil
}
