package domain

import "time"

// Role is a member's access level within a project.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

// Valid reports whether r is a known role value.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

const (
	MaxProjectNameLen        = 100
	MaxProjectDescriptionLen = 500
)

// Member pairs a user with their role inside one project.
type Member struct {
	User UserRef `json:"user" bson:"user"`
	Role Role    `json:"role" bson:"role"`
}

// Project is the authorization boundary for every nested resource.
// Invariant: the owner always appears in Members with RoleAdmin.
type Project struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	Owner       UserRef   `json:"owner" bson:"owner"`
	Members     []Member  `json:"members" bson:"members"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// IsMember reports whether userID belongs to the project's member set.
// Membership gates every read and write on the project's tasks and comments.
func (p *Project) IsMember(userID string) bool {
	for _, m := range p.Members {
		if m.User.ID == userID {
			return true
		}
	}
	return false
}

// RoleOf returns the member's role and whether the user is a member at all.
func (p *Project) RoleOf(userID string) (Role, bool) {
	for _, m := range p.Members {
		if m.User.ID == userID {
			return m.Role, true
		}
	}
	return "", false
}

// IsAdmin reports whether userID is a member with the ADMIN role.
func (p *Project) IsAdmin(userID string) bool {
	role, ok := p.RoleOf(userID)
	return ok && role == RoleAdmin
}

// IsOwner reports whether userID is the project owner.
func (p *Project) IsOwner(userID string) bool {
	return p.Owner.ID == userID
}

// EnsureOwnerMember inserts the owner into the member set with RoleAdmin if
// absent, and promotes an existing owner entry to RoleAdmin. Called before
// every save that could violate the owner-is-admin invariant.
func (p *Project) EnsureOwnerMember() {
	for i, m := range p.Members {
		if m.User.ID == p.Owner.ID {
			p.Members[i].Role = RoleAdmin
			return
		}
	}
	p.Members = append(p.Members, Member{User: p.Owner, Role: RoleAdmin})
}

// RemoveMember drops userID from the member set. Returns false when the user
// was not a member.
func (p *Project) RemoveMember(userID string) bool {
	for i, m := range p.Members {
		if m.User.ID == userID {
			p.Members = append(p.Members[:i], p.Members[i+1:]...)
			return true
		}
	}
	return false
}
