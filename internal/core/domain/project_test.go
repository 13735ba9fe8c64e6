package domain

import "testing"

func member(id string, role Role) Member {
	return Member{User: UserRef{ID: id, Username: id}, Role: role}
}

func TestProjectGuards(t *testing.T) {
	p := &Project{
		Owner: UserRef{ID: "owner"},
		Members: []Member{
			member("owner", RoleAdmin),
			member("admin", RoleAdmin),
			member("dev", RoleMember),
		},
	}

	if !p.IsMember("dev") || p.IsMember("stranger") {
		t.Error("IsMember misclassifies")
	}
	if !p.IsAdmin("admin") || p.IsAdmin("dev") || p.IsAdmin("stranger") {
		t.Error("IsAdmin misclassifies")
	}
	if !p.IsOwner("owner") || p.IsOwner("admin") {
		t.Error("IsOwner misclassifies")
	}

	role, ok := p.RoleOf("dev")
	if !ok || role != RoleMember {
		t.Errorf("RoleOf(dev) = (%q, %v), want (MEMBER, true)", role, ok)
	}
	if _, ok := p.RoleOf("stranger"); ok {
		t.Error("RoleOf(stranger) should report no membership")
	}
}

func TestEnsureOwnerMemberInserts(t *testing.T) {
	p := &Project{Owner: UserRef{ID: "owner"}}
	p.EnsureOwnerMember()

	role, ok := p.RoleOf("owner")
	if !ok || role != RoleAdmin {
		t.Fatalf("owner role = (%q, %v), want (ADMIN, true)", role, ok)
	}
}

func TestEnsureOwnerMemberPromotes(t *testing.T) {
	p := &Project{
		Owner:   UserRef{ID: "owner"},
		Members: []Member{member("owner", RoleMember)},
	}
	p.EnsureOwnerMember()

	if len(p.Members) != 1 {
		t.Fatalf("members = %d, want owner entry reused, not duplicated", len(p.Members))
	}
	if p.Members[0].Role != RoleAdmin {
		t.Errorf("owner role = %q, want promoted to ADMIN", p.Members[0].Role)
	}
}

func TestRemoveMember(t *testing.T) {
	p := &Project{Members: []Member{member("a", RoleAdmin), member("b", RoleMember)}}

	if !p.RemoveMember("b") {
		t.Error("RemoveMember(b) = false, want true")
	}
	if p.IsMember("b") {
		t.Error("b still present after removal")
	}
	if p.RemoveMember("ghost") {
		t.Error("RemoveMember(ghost) = true, want false")
	}
}

func TestRoleValid(t *testing.T) {
	if !RoleAdmin.Valid() || !RoleMember.Valid() {
		t.Error("known roles must be valid")
	}
	if Role("SUPERUSER").Valid() {
		t.Error("unknown role must be invalid")
	}
}
