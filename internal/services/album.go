package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/galactus-p2p/galactus/internal/models"
	"github.com/galactus-p2p/galactus/internal/repositories"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AlbumService owns album lifecycle and membership. Album ids are generated
// server-side; clients never supply them.
type AlbumService struct {
	albums repositories.AlbumRepository
}

func NewAlbumService(albums repositories.AlbumRepository) *AlbumService {
	return &AlbumService{albums: albums}
}

// Create rejects a duplicate name under the same owner; the same name under
// a different owner is fine.
func (s *AlbumService) Create(ctx context.Context, name, owner string, authorizedUsers []string) (*models.Album, error) {
	if name == "" {
		return nil, ErrValidation
	}
	album := &models.Album{
		ID:              uuid.New(),
		Name:            name,
		CreatedBy:       owner,
		AuthorizedUsers: authorizedUsers,
	}
	if err := s.albums.Create(ctx, album); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlbumExists
		}
		return nil, fmt.Errorf("creating album: %w", err)
	}
	return album, nil
}

// Update replaces the authorized-user list wholesale for the owner's album
// with the given name.
func (s *AlbumService) Update(ctx context.Context, name, owner string, authorizedUsers []string) error {
	if name == "" {
		return ErrValidation
	}
	album, err := s.albums.GetByOwnerAndName(ctx, owner, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAlbumNotFound
		}
		return fmt.Errorf("looking up album: %w", err)
	}
	if err := s.albums.UpdateAuthorizedUsers(ctx, album.ID, authorizedUsers); err != nil {
		return fmt.Errorf("updating album: %w", err)
	}
	return nil
}

// Leave removes exactly one occurrence of username from the album's
// authorized list. An absent username is a no-op, not an error.
func (s *AlbumService) Leave(ctx context.Context, albumID uuid.UUID, username string) error {
	album, err := s.albums.GetByID(ctx, albumID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAlbumNotFound
		}
		return fmt.Errorf("looking up album: %w", err)
	}

	for i, member := range album.AuthorizedUsers {
		if member != username {
			continue
		}
		updated := make([]string, 0, len(album.AuthorizedUsers)-1)
		updated = append(updated, album.AuthorizedUsers[:i]...)
		updated = append(updated, album.AuthorizedUsers[i+1:]...)
		if err := s.albums.UpdateAuthorizedUsers(ctx, album.ID, updated); err != nil {
			return fmt.Errorf("updating album: %w", err)
		}
		return nil
	}
	return nil
}

// Delete is owner-only.
func (s *AlbumService) Delete(ctx context.Context, albumID uuid.UUID, requester string) error {
	album, err := s.albums.GetByID(ctx, albumID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAlbumNotFound
		}
		return fmt.Errorf("looking up album: %w", err)
	}
	if album.CreatedBy != requester {
		return ErrForbidden
	}
	if err := s.albums.Delete(ctx, albumID); err != nil {
		return fmt.Errorf("deleting album: %w", err)
	}
	return nil
}
