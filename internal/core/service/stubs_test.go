package service

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/teamflow/teamflow-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
	nextID  int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User), byEmail: make(map[string]*domain.User)}
}

func (r *stubUserRepo) add(id, username, email string) *domain.User {
	u := &domain.User{ID: id, Username: username, Email: email, AvatarURL: domain.DefaultAvatarURL(username)}
	r.byID[id] = u
	r.byEmail[email] = u
	return u
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, taken := r.byEmail[user.Email]; taken {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	clone := *user
	clone.ID = "user-" + strconv.Itoa(r.nextID)
	r.byID[clone.ID] = &clone
	r.byEmail[clone.Email] = &clone
	return &clone, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		clone := *u
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.byID[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	clone := *user
	r.byID[user.ID] = &clone
	r.byEmail[user.Email] = &clone
	return nil
}

type stubProjectRepo struct {
	byID   map[string]*domain.Project
	nextID int
}

func newStubProjectRepo() *stubProjectRepo {
	return &stubProjectRepo{byID: make(map[string]*domain.Project)}
}

func (r *stubProjectRepo) add(p *domain.Project) *domain.Project {
	clone := cloneProject(p)
	r.byID[p.ID] = clone
	return clone
}

func (r *stubProjectRepo) Create(_ context.Context, p *domain.Project) (*domain.Project, error) {
	r.nextID++
	clone := cloneProject(p)
	clone.ID = "project-" + strconv.Itoa(r.nextID)
	r.byID[clone.ID] = clone
	return cloneProject(clone), nil
}

func (r *stubProjectRepo) FindByID(_ context.Context, id string) (*domain.Project, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	return cloneProject(p), nil
}

func (r *stubProjectRepo) ListByMember(_ context.Context, userID string) ([]*domain.Project, error) {
	var out []*domain.Project
	for _, p := range r.byID {
		if p.IsMember(userID) {
			out = append(out, cloneProject(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubProjectRepo) Update(_ context.Context, p *domain.Project) error {
	if _, ok := r.byID[p.ID]; !ok {
		return domain.ErrProjectNotFound
	}
	r.byID[p.ID] = cloneProject(p)
	return nil
}

func (r *stubProjectRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrProjectNotFound
	}
	delete(r.byID, id)
	return nil
}

func cloneProject(p *domain.Project) *domain.Project {
	clone := *p
	clone.Members = append([]domain.Member(nil), p.Members...)
	return &clone
}

// stubTaskRepo keeps tasks in a map and applies bucket shifts the same way
// the Mongo repository's bulk updates do, so reindexing behaviour is
// observable end to end.
type stubTaskRepo struct {
	byID   map[string]*domain.Task
	nextID int
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{byID: make(map[string]*domain.Task)}
}

func (r *stubTaskRepo) add(t *domain.Task) *domain.Task {
	clone := cloneTask(t)
	r.byID[t.ID] = clone
	return clone
}

func (r *stubTaskRepo) Create(_ context.Context, t *domain.Task) (*domain.Task, error) {
	r.nextID++
	clone := cloneTask(t)
	clone.ID = "task-" + strconv.Itoa(r.nextID)
	r.byID[clone.ID] = clone
	return cloneTask(clone), nil
}

func (r *stubTaskRepo) FindByID(_ context.Context, id string) (*domain.Task, error) {
	t, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return cloneTask(t), nil
}

func (r *stubTaskRepo) ListByProject(_ context.Context, projectID string) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, t := range r.byID {
		if t.ProjectID == projectID {
			out = append(out, cloneTask(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Status != out[j].Status {
			return out[i].Status < out[j].Status
		}
		return out[i].Position < out[j].Position
	})
	return out, nil
}

func (r *stubTaskRepo) ListAssigned(_ context.Context, userID string) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, t := range r.byID {
		if t.Status == domain.StatusDone {
			continue
		}
		for _, a := range t.Assignees {
			if a.ID == userID {
				out = append(out, cloneTask(t))
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubTaskRepo) Update(_ context.Context, t *domain.Task) error {
	stored, ok := r.byID[t.ID]
	if !ok {
		return domain.ErrTaskNotFound
	}
	clone := cloneTask(t)
	// Placement is owned by UpdatePlacement.
	clone.Status = stored.Status
	clone.Position = stored.Position
	r.byID[t.ID] = clone
	return nil
}

func (r *stubTaskRepo) UpdatePlacement(_ context.Context, taskID string, status domain.TaskStatus, position int) error {
	t, ok := r.byID[taskID]
	if !ok {
		return domain.ErrTaskNotFound
	}
	t.Status = status
	t.Position = position
	return nil
}

func (r *stubTaskRepo) ShiftPositions(_ context.Context, projectID string, shift domain.BucketShift) error {
	for _, t := range r.byID {
		if t.ProjectID != projectID {
			continue
		}
		t.Position = domain.ApplyShift(shift, t.Status, t.Position)
	}
	return nil
}

func (r *stubTaskRepo) MaxPosition(_ context.Context, projectID string, status domain.TaskStatus) (int, error) {
	max := -1
	for _, t := range r.byID {
		if t.ProjectID == projectID && t.Status == status && t.Position > max {
			max = t.Position
		}
	}
	return max, nil
}

func (r *stubTaskRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubTaskRepo) DeleteByProject(_ context.Context, projectID string) error {
	for id, t := range r.byID {
		if t.ProjectID == projectID {
			delete(r.byID, id)
		}
	}
	return nil
}

func (r *stubTaskRepo) AppendComment(_ context.Context, taskID string, c domain.Comment) error {
	t, ok := r.byID[taskID]
	if !ok {
		return domain.ErrTaskNotFound
	}
	r.nextID++
	c.ID = "comment-" + strconv.Itoa(r.nextID)
	t.Comments = append(t.Comments, c)
	return nil
}

func (r *stubTaskRepo) PullAssignee(_ context.Context, projectID, userID string) error {
	for _, t := range r.byID {
		if t.ProjectID != projectID {
			continue
		}
		kept := t.Assignees[:0]
		for _, a := range t.Assignees {
			if a.ID != userID {
				kept = append(kept, a)
			}
		}
		t.Assignees = kept
	}
	return nil
}

// positions returns the bucket's task ids ordered by position, for asserting
// dense ordering after moves.
func (r *stubTaskRepo) positions(projectID string, status domain.TaskStatus) []string {
	type entry struct {
		id  string
		pos int
	}
	var entries []entry
	for _, t := range r.byID {
		if t.ProjectID == projectID && t.Status == status {
			entries = append(entries, entry{t.ID, t.Position})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].pos < entries[j].pos })
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.id
	}
	return out
}

func cloneTask(t *domain.Task) *domain.Task {
	clone := *t
	clone.Tags = append([]domain.Tag(nil), t.Tags...)
	clone.Assignees = append([]domain.UserRef(nil), t.Assignees...)
	clone.Comments = append([]domain.Comment(nil), t.Comments...)
	return &clone
}

// ---------------------------------------------------------------------------
// Fakes for the broadcaster and the session denylist
// ---------------------------------------------------------------------------

type fakeBroadcaster struct {
	mu     sync.Mutex
	events []domain.Event
}

func (b *fakeBroadcaster) Broadcast(event domain.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *fakeBroadcaster) all() []domain.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.Event(nil), b.events...)
}

func (b *fakeBroadcaster) last() (domain.Event, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.events) == 0 {
		return domain.Event{}, false
	}
	return b.events[len(b.events)-1], true
}

type stubRevoker struct {
	revoked map[string]bool
}

func newStubRevoker() *stubRevoker {
	return &stubRevoker{revoked: make(map[string]bool)}
}

func (r *stubRevoker) Revoke(_ context.Context, jti string, _ time.Duration) error {
	r.revoked[jti] = true
	return nil
}

func (r *stubRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	return r.revoked[jti], nil
}
