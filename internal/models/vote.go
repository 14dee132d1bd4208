package models

import "time"

// Vote links one peserta to one kandidat. The unique index on VoterID is
// the source of truth for the one-vote rule: concurrent casts race past
// any existence check, and the second insert must fail here.
type Vote struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	VoterID uint `gorm:"uniqueIndex;not null"`
	Voter   User `gorm:"constraint:OnDelete:CASCADE"`

	KandidatID uint `gorm:"not null;index"`
}
