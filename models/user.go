package models

import "time"

// Role rôle utilisateur
type Role string

const (
	RoleAdmin   Role = "admin"   // administrateur
	RoleTelepro Role = "telepro" // télé-prospecteur
)

// IsValid indique si le rôle est connu
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleTelepro
}

// User compte utilisateur
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:100;uniqueIndex;not null" json:"username"`
	FullName     string    `gorm:"size:200" json:"full_name"`
	PasswordHash string    `gorm:"not null" json:"-"` // jamais renvoyé
	Role         Role      `gorm:"size:20;not null;index" json:"role"`
	AllowedIP    string    `gorm:"size:500" json:"allowed_ip"` // liste IP/CIDR séparée par des virgules, vide = aucune restriction
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin raccourci
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
