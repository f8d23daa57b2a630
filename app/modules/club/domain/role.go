package clubdomain

import (
	"strings"

	"github.com/google/uuid"
)

// Role is a member's organizational rank inside a club.
type Role string

const (
	RolePathfinder Role = "PATHFINDER"
	RoleCounselor  Role = "COUNSELOR"
	RoleInstructor Role = "INSTRUCTOR"
	RoleAdmin      Role = "ADMIN"
	RoleOwner      Role = "OWNER"
)

var roleRank = map[Role]int{
	RolePathfinder: 1,
	RoleCounselor:  2,
	RoleInstructor: 3,
	RoleAdmin:      4,
	RoleOwner:      5,
}

// ParseRole accepts any casing.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.IsValid()
}

// IsValid checks if the role is a valid value.
func (r Role) IsValid() bool {
	_, ok := roleRank[r]
	return ok
}

// Rank orders roles, lowest first. Unknown roles rank zero.
func (r Role) Rank() int {
	return roleRank[r]
}

// IsStaff reports whether the role reviews submissions and awards specialties.
func (r Role) IsStaff() bool {
	return r == RoleInstructor || r == RoleAdmin || r == RoleOwner
}

// CanManageMembers reports whether the role may add members and change roles.
func (r Role) CanManageMembers() bool {
	return r == RoleAdmin || r == RoleOwner
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// Actor is the authenticated caller as seen by application services.
type Actor struct {
	UserID uuid.UUID
	ClubID uuid.UUID
	Role   Role
}

// HasClub reports whether the actor belongs to a club.
func (a Actor) HasClub() bool {
	return a.ClubID != uuid.Nil
}

// InClub reports whether the actor belongs to clubID.
func (a Actor) InClub(clubID uuid.UUID) bool {
	return a.HasClub() && a.ClubID == clubID
}

// IsStaffOf reports whether the actor holds a staff role in clubID.
func (a Actor) IsStaffOf(clubID uuid.UUID) bool {
	return a.InClub(clubID) && a.Role.IsStaff()
}

// CanManage reports whether the actor may administer members of clubID.
func (a Actor) CanManage(clubID uuid.UUID) bool {
	return a.InClub(clubID) && a.Role.CanManageMembers()
}
