package domain

import (
	"errors"
	"reflect"
	"sort"
	"testing"
)

// board is a tiny in-memory column model used to verify that the planned
// shifts keep every bucket densely ordered.
type board map[string]struct {
	status TaskStatus
	pos    int
}

func (b board) apply(plan MovePlan, taskID string) {
	for _, shift := range plan.Shifts {
		for id, t := range b {
			if id == taskID {
				continue
			}
			t.pos = ApplyShift(shift, t.status, t.pos)
			b[id] = t
		}
	}
	b[taskID] = struct {
		status TaskStatus
		pos    int
	}{plan.Status, plan.Position}
}

func (b board) column(status TaskStatus) []string {
	type entry struct {
		id  string
		pos int
	}
	var entries []entry
	for id, t := range b {
		if t.status == status {
			entries = append(entries, entry{id, t.pos})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].pos < entries[j].pos })
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.id
	}
	return out
}

func (b board) dense(t *testing.T, status TaskStatus) {
	t.Helper()
	seen := map[int]bool{}
	count := 0
	for id, task := range b {
		if task.status != status {
			continue
		}
		if seen[task.pos] {
			t.Fatalf("duplicate position %d (%s) in %s", task.pos, id, status)
		}
		seen[task.pos] = true
		count++
	}
	for i := 0; i < count; i++ {
		if !seen[i] {
			t.Fatalf("missing position %d in %s bucket of size %d", i, status, count)
		}
	}
}

func newBoard(columns map[TaskStatus][]string) board {
	b := board{}
	for status, ids := range columns {
		for i, id := range ids {
			b[id] = struct {
				status TaskStatus
				pos    int
			}{status, i}
		}
	}
	return b
}

func TestPlanMoveNoOp(t *testing.T) {
	plan, err := PlanMove(StatusTodo, 2, StatusTodo, 2)
	if err != nil {
		t.Fatalf("PlanMove returned error: %v", err)
	}
	if !plan.NoOp || len(plan.Shifts) != 0 {
		t.Errorf("plan = %+v, want no-op with no shifts", plan)
	}
}

func TestPlanMoveValidation(t *testing.T) {
	if _, err := PlanMove(StatusTodo, 0, "BOGUS", 0); !errors.Is(err, ErrValidation) {
		t.Errorf("invalid status: error = %v, want validation error", err)
	}
	if _, err := PlanMove(StatusTodo, 0, StatusTodo, -1); !errors.Is(err, ErrValidation) {
		t.Errorf("negative position: error = %v, want validation error", err)
	}
}

func TestClampMovePosition(t *testing.T) {
	// Same bucket: a bucket of 3 (maxPos 2) cannot place past its last slot.
	if got := ClampMovePosition(StatusTodo, StatusTodo, 2, 99); got != 2 {
		t.Errorf("same-bucket overflow clamped to %d, want 2", got)
	}
	if got := ClampMovePosition(StatusTodo, StatusTodo, 2, 1); got != 1 {
		t.Errorf("in-range position changed to %d, want 1", got)
	}

	// Cross bucket: the destination grows by one, so maxPos+1 is the limit.
	if got := ClampMovePosition(StatusTodo, StatusInProgress, 1, 10); got != 2 {
		t.Errorf("cross-bucket overflow clamped to %d, want 2", got)
	}
	if got := ClampMovePosition(StatusTodo, StatusDone, -1, 5); got != 0 {
		t.Errorf("empty destination clamped to %d, want 0", got)
	}
}

func TestMoveUpWithinColumn(t *testing.T) {
	b := newBoard(map[TaskStatus][]string{
		StatusTodo: {"A", "B", "C"},
	})

	plan, err := PlanMove(StatusTodo, 1, StatusTodo, 0)
	if err != nil {
		t.Fatalf("PlanMove returned error: %v", err)
	}
	b.apply(plan, "B")

	got := b.column(StatusTodo)
	if !reflect.DeepEqual(got, []string{"B", "A", "C"}) {
		t.Errorf("column = %v, want [B A C]", got)
	}
	b.dense(t, StatusTodo)
}

func TestMoveDownWithinColumn(t *testing.T) {
	b := newBoard(map[TaskStatus][]string{
		StatusTodo: {"A", "B", "C", "D"},
	})

	plan, err := PlanMove(StatusTodo, 0, StatusTodo, 2)
	if err != nil {
		t.Fatalf("PlanMove returned error: %v", err)
	}
	b.apply(plan, "A")

	got := b.column(StatusTodo)
	if !reflect.DeepEqual(got, []string{"B", "C", "A", "D"}) {
		t.Errorf("column = %v, want [B C A D]", got)
	}
	b.dense(t, StatusTodo)
}

func TestMoveAcrossColumns(t *testing.T) {
	b := newBoard(map[TaskStatus][]string{
		StatusTodo:       {"A", "B", "C"},
		StatusInProgress: {"X", "Y"},
	})

	plan, err := PlanMove(StatusTodo, 2, StatusInProgress, 0)
	if err != nil {
		t.Fatalf("PlanMove returned error: %v", err)
	}
	b.apply(plan, "C")

	if got := b.column(StatusTodo); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("source column = %v, want [A B]", got)
	}
	if got := b.column(StatusInProgress); !reflect.DeepEqual(got, []string{"C", "X", "Y"}) {
		t.Errorf("destination column = %v, want [C X Y]", got)
	}
	b.dense(t, StatusTodo)
	b.dense(t, StatusInProgress)
}

func TestMoveToEndOfOtherColumn(t *testing.T) {
	b := newBoard(map[TaskStatus][]string{
		StatusTodo: {"A", "B"},
		StatusDone: {"X"},
	})

	plan, err := PlanMove(StatusTodo, 0, StatusDone, 1)
	if err != nil {
		t.Fatalf("PlanMove returned error: %v", err)
	}
	b.apply(plan, "A")

	if got := b.column(StatusDone); !reflect.DeepEqual(got, []string{"X", "A"}) {
		t.Errorf("destination column = %v, want [X A]", got)
	}
	b.dense(t, StatusTodo)
	b.dense(t, StatusDone)
}

func TestMoveRoundTripRestoresOrder(t *testing.T) {
	b := newBoard(map[TaskStatus][]string{
		StatusTodo: {"A", "B", "C"},
	})

	plan, _ := PlanMove(StatusTodo, 0, StatusTodo, 2)
	b.apply(plan, "A")
	plan, _ = PlanMove(StatusTodo, 2, StatusTodo, 0)
	b.apply(plan, "A")

	if got := b.column(StatusTodo); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Errorf("column = %v, want original [A B C]", got)
	}
	b.dense(t, StatusTodo)
}

func TestPlanRemovalClosesGap(t *testing.T) {
	b := newBoard(map[TaskStatus][]string{
		StatusTodo: {"A", "B", "C"},
	})

	shift := PlanRemoval(StatusTodo, 1)
	delete(b, "B")
	for id, task := range b {
		task.pos = ApplyShift(shift, task.status, task.pos)
		b[id] = task
	}

	if got := b.column(StatusTodo); !reflect.DeepEqual(got, []string{"A", "C"}) {
		t.Errorf("column = %v, want [A C]", got)
	}
	b.dense(t, StatusTodo)
}

func TestAppendPosition(t *testing.T) {
	if got := AppendPosition(-1); got != 0 {
		t.Errorf("AppendPosition(-1) = %d, want 0 for an empty bucket", got)
	}
	if got := AppendPosition(4); got != 5 {
		t.Errorf("AppendPosition(4) = %d, want 5", got)
	}
}

func TestApplyShiftBounds(t *testing.T) {
	shift := BucketShift{Status: StatusTodo, MinPos: 2, MaxPos: 4, Delta: -1}

	if got := ApplyShift(shift, StatusDone, 3); got != 3 {
		t.Errorf("other bucket shifted: got %d", got)
	}
	if got := ApplyShift(shift, StatusTodo, 1); got != 1 {
		t.Errorf("below range shifted: got %d", got)
	}
	if got := ApplyShift(shift, StatusTodo, 5); got != 5 {
		t.Errorf("above range shifted: got %d", got)
	}
	if got := ApplyShift(shift, StatusTodo, 4); got != 3 {
		t.Errorf("in range not shifted: got %d", got)
	}

	open := BucketShift{Status: StatusTodo, MinPos: 2, MaxPos: NoUpperBound, Delta: 1}
	if got := ApplyShift(open, StatusTodo, 100); got != 101 {
		t.Errorf("open-ended range must shift everything above MinPos: got %d", got)
	}
}
