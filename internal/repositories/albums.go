package repositories

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/galactus-p2p/galactus/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AlbumRepository persists albums and their authorized-user lists. Error
// conventions match UserRepository: gorm.ErrDuplicatedKey for the per-owner
// name clash, gorm.ErrRecordNotFound for misses.
type AlbumRepository interface {
	Create(ctx context.Context, album *models.Album) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Album, error)
	GetByOwnerAndName(ctx context.Context, owner, name string) (*models.Album, error)
	ListByMember(ctx context.Context, username string) ([]models.Album, error)
	UpdateAuthorizedUsers(ctx context.Context, id uuid.UUID, users []string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type GormAlbumRepository struct {
	db *gorm.DB
}

func NewGormAlbumRepository(db *gorm.DB) *GormAlbumRepository {
	return &GormAlbumRepository{db: db}
}

func (r *GormAlbumRepository) Create(ctx context.Context, album *models.Album) error {
	return r.db.WithContext(ctx).Create(album).Error
}

func (r *GormAlbumRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Album, error) {
	var album models.Album
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&album).Error; err != nil {
		return nil, err
	}
	return &album, nil
}

func (r *GormAlbumRepository) GetByOwnerAndName(ctx context.Context, owner, name string) (*models.Album, error) {
	var album models.Album
	err := r.db.WithContext(ctx).
		Where("created_by = ? AND name = ?", owner, name).
		First(&album).Error
	if err != nil {
		return nil, err
	}
	return &album, nil
}

func (r *GormAlbumRepository) ListByMember(ctx context.Context, username string) ([]models.Album, error) {
	// jsonb containment keeps the membership check in the database.
	member, err := json.Marshal([]string{username})
	if err != nil {
		return nil, err
	}
	var albums []models.Album
	err = r.db.WithContext(ctx).
		Where("authorized_users @> ?", string(member)).
		Order("created_at").
		Find(&albums).Error
	if err != nil {
		return nil, err
	}
	return albums, nil
}

func (r *GormAlbumRepository) UpdateAuthorizedUsers(ctx context.Context, id uuid.UUID, users []string) error {
	res := r.db.WithContext(ctx).Model(&models.Album{}).
		Where("id = ?", id).
		Update("authorized_users", users)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormAlbumRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Album{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// InMemoryAlbumRepository mirrors the gorm implementation for tests.
type InMemoryAlbumRepository struct {
	mu     sync.RWMutex
	albums map[uuid.UUID]models.Album
	order  []uuid.UUID
}

func NewInMemoryAlbumRepository() *InMemoryAlbumRepository {
	return &InMemoryAlbumRepository{albums: make(map[uuid.UUID]models.Album)}
}

func (r *InMemoryAlbumRepository) Create(ctx context.Context, album *models.Album) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.albums {
		if existing.CreatedBy == album.CreatedBy && existing.Name == album.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	r.albums[album.ID] = *album
	r.order = append(r.order, album.ID)
	return nil
}

func (r *InMemoryAlbumRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Album, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	album, exists := r.albums[id]
	if !exists {
		return nil, gorm.ErrRecordNotFound
	}
	return &album, nil
}

func (r *InMemoryAlbumRepository) GetByOwnerAndName(ctx context.Context, owner, name string) (*models.Album, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.order {
		album := r.albums[id]
		if album.CreatedBy == owner && album.Name == name {
			return &album, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *InMemoryAlbumRepository) ListByMember(ctx context.Context, username string) ([]models.Album, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []models.Album
	for _, id := range r.order {
		album := r.albums[id]
		for _, member := range album.AuthorizedUsers {
			if member == username {
				result = append(result, album)
				break
			}
		}
	}
	return result, nil
}

func (r *InMemoryAlbumRepository) UpdateAuthorizedUsers(ctx context.Context, id uuid.UUID, users []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	album, exists := r.albums[id]
	if !exists {
		return gorm.ErrRecordNotFound
	}
	album.AuthorizedUsers = users
	r.albums[id] = album
	return nil
}

func (r *InMemoryAlbumRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.albums[id]; !exists {
		return gorm.ErrRecordNotFound
	}
	delete(r.albums, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
