// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/forgeworks/makerspace-backend/internal/role"
)

type User struct {
	ID             string     `db:"id"`
	CampusID       string     `db:"campus_id"`
	StudentID      *string    `db:"student_id"`
	FirstName      string     `db:"first_name"`
	LastName       string     `db:"last_name"`
	Major          *string    `db:"major"`
	GenderIdentity *string    `db:"gender_identity"`
	Pronouns       *string    `db:"pronouns"`
	PasswordHash   *string    `db:"password_hash"`
	IsStaff        bool       `db:"is_staff"`
	IsGraduating   bool       `db:"is_graduating"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`

	Roles []role.Role `db:"-"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// ShortName is the public display form used on the machine status
// board: first name plus last initial.
func (u *User) ShortName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName[:1] + "."
}

// DisplayRole returns the name of the highest-priority role flagged
// display_role, or nil when the user has none.
func (u *User) DisplayRole() *string {
	var best *role.Role
	for i := range u.Roles {
		r := &u.Roles[i]
		if !r.DisplayRole {
			continue
		}
		if best == nil || r.Priority > best.Priority {
			best = r
		}
	}
	if best == nil {
		return nil
	}
	return &best.Name
}
