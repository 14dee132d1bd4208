package models

import "time"

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RolePeserta UserRole = "peserta"
)

type User struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Username     string   `gorm:"uniqueIndex;size:150;not null"`
	PasswordHash string   `gorm:"not null"`
	Role         UserRole `gorm:"type:varchar(20);not null"`

	// peserta must reset the generated password on first login
	MustChangePassword bool `gorm:"not null;default:false"`

	// set only for peserta: the admin whose room they belong to.
	// Deleting the admin detaches the peserta instead of removing it.
	AdminOwnerID *uint
	AdminOwner   *User `gorm:"constraint:OnDelete:SET NULL"`
}

func (u *User) IsAppAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsPeserta() bool {
	return u.Role == RolePeserta
}

func NewAdmin(username, passwordHash string) User {
	return User{
		Username:     username,
		PasswordHash: passwordHash,
		Role:         RoleAdmin,
	}
}

func NewPeserta(username, passwordHash string, ownerID uint) User {
	return User{
		Username:           username,
		PasswordHash:       passwordHash,
		Role:               RolePeserta,
		MustChangePassword: true,
		AdminOwnerID:       &ownerID,
	}
}
