package models

import "time"

type Kandidat struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	AdminOwnerID uint `gorm:"not null;index"`
	AdminOwner   User `gorm:"constraint:OnDelete:CASCADE"`

	Nama    string `gorm:"size:100;not null"`
	Visi    string `gorm:"type:text"`
	Misi    string `gorm:"type:text"`
	FotoURL string `gorm:"size:255"`

	Votes []Vote `gorm:"constraint:OnDelete:CASCADE"`
}
