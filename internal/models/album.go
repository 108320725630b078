package models

import (
	"time"

	"github.com/google/uuid"
)

type Album struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"albumName" gorm:"index:uniq_owner_album_name,unique,priority:2;not null"`
	CreatedBy string    `json:"createdBy" gorm:"index:uniq_owner_album_name,unique,priority:1;not null"`
	// Ordered authorized usernames; duplicates are kept as stored and the
	// owner is not implicitly a member.
	AuthorizedUsers []string  `json:"authorizedUsers" gorm:"type:jsonb;serializer:json"`
	CreatedAt       time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}
