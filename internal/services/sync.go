package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/galactus-p2p/galactus/internal/cache"
	"github.com/galactus-p2p/galactus/internal/repositories"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Member pairs an authorized username with its resolved multiaddr so clients
// keep the address-to-user association.
type Member struct {
	Username  string `json:"username"`
	Multiaddr string `json:"multiaddr"`
}

// AlbumSync is one album a caller may sync, with every member whose address
// could be resolved. Members keep the album's stored order; unresolvable
// members are omitted rather than emitted as placeholders.
type AlbumSync struct {
	AlbumID   uuid.UUID `json:"albumId"`
	AlbumName string    `json:"albumName"`
	CreatedBy string    `json:"createdBy"`
	Members   []Member  `json:"members"`
}

// SyncService resolves the albums a user is authorized on and each member's
// current multiaddr, checking the short-TTL cache before the durable store.
type SyncService struct {
	albums    repositories.AlbumRepository
	users     repositories.UserRepository
	addresses cache.AddressCache
}

func NewSyncService(albums repositories.AlbumRepository, users repositories.UserRepository, addresses cache.AddressCache) *SyncService {
	return &SyncService{albums: albums, users: users, addresses: addresses}
}

// Resolve returns every album username is authorized on, with resolved member
// addresses. When the caller supplies a fresh multiaddr it is persisted and
// cached before resolution, so the caller's own entries reflect it. Member
// resolution fans out per album and per member; the first storage failure
// aborts the whole call.
func (s *SyncService) Resolve(ctx context.Context, username, multiaddr string) ([]AlbumSync, error) {
	if multiaddr != "" {
		if err := s.users.UpdateMultiaddr(ctx, username, multiaddr); err != nil {
			return nil, fmt.Errorf("updating caller multiaddr: %w", err)
		}
		if err := s.addresses.Set(ctx, username, multiaddr); err != nil {
			return nil, fmt.Errorf("caching caller multiaddr: %w", err)
		}
	}

	albums, err := s.albums.ListByMember(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("listing albums: %w", err)
	}

	results := make([]AlbumSync, len(albums))
	g, gctx := errgroup.WithContext(ctx)
	for i, album := range albums {
		i, album := i, album
		g.Go(func() error {
			members, err := s.resolveMembers(gctx, album.AuthorizedUsers)
			if err != nil {
				return err
			}
			results[i] = AlbumSync{
				AlbumID:   album.ID,
				AlbumName: album.Name,
				CreatedBy: album.CreatedBy,
				Members:   members,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// resolveMembers looks up each username concurrently but keeps the stored
// list order in the result.
func (s *SyncService) resolveMembers(ctx context.Context, usernames []string) ([]Member, error) {
	resolved := make([]*Member, len(usernames))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range usernames {
		i, name := i, name
		g.Go(func() error {
			addr, ok, err := s.resolveAddress(gctx, name)
			if err != nil {
				return err
			}
			if ok {
				resolved[i] = &Member{Username: name, Multiaddr: addr}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	members := make([]Member, 0, len(resolved))
	for _, m := range resolved {
		if m != nil {
			members = append(members, *m)
		}
	}
	return members, nil
}

// resolveAddress is the two-tier lookup: cache first, then the durable user
// record. A member that does not exist or has no known address resolves to
// ok=false, never an error.
func (s *SyncService) resolveAddress(ctx context.Context, username string) (string, bool, error) {
	addr, hit, err := s.addresses.Get(ctx, username)
	if err != nil {
		return "", false, fmt.Errorf("reading address cache: %w", err)
	}
	if hit {
		return addr, true, nil
	}

	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("looking up user %q: %w", username, err)
	}
	if user.Multiaddr == "" {
		return "", false, nil
	}
	return user.Multiaddr, true, nil
}
