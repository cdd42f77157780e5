package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles ordered by privilege. OWNER manages users; ADMIN manages catalog and
// inventory; EMP operates the counter (sales, bookings).
const (
	RoleOwner = "OWNER"
	RoleAdmin = "ADMIN"
	RoleEmp   = "EMP"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"not null;default:'EMP'"` // OWNER | ADMIN | EMP
	// RefreshHash holds the bcrypt hash of the last issued refresh token.
	// Cleared on logout so stolen refresh tokens stop working.
	RefreshHash *string
	CreatedAt   time.Time
}
