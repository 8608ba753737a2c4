package model

import (
	"time"
)

// User is any actor of the system: a student, a teacher or a staff member.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Username     string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"` // Never expose password in JSON
	Role         Role      `gorm:"type:varchar(20);not null;default:'student';index" json:"role"`
	FullName     string    `gorm:"type:varchar(100)" json:"full_name"`
	GroupID      *uint     `gorm:"index" json:"group_id"`
	TokenVersion int       `gorm:"default:0" json:"-"` // Increment to invalidate all user tokens

	// Detach-on-delete: removing a group clears the reference, never the user.
	Group *Group `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL" json:"group,omitempty"`
}

func (u *User) IsStudent() bool {
	return u != nil && u.Role == RoleStudent
}

func (u *User) IsStaff() bool {
	return u != nil && u.Role == RoleStaff
}

// InGroup reports whether the user currently belongs to the given group.
func (u *User) InGroup(groupID uint) bool {
	return u != nil && u.GroupID != nil && *u.GroupID == groupID
}
