package domain

// Position reindexing keeps every (project, status) bucket densely ordered:
// positions are exactly {0..n-1} with no duplicates and no gaps. A move is
// planned as a set of batched shifts over position ranges plus the moved
// task's own final (status, position) write. The store applies each shift as
// one bulk update so readers never observe a duplicated position across more
// than a single transaction.

// NoUpperBound marks a shift range that is open-ended above.
const NoUpperBound = -1

// BucketShift adjusts by Delta the position of every task in the bucket
// (project, Status) whose position lies in [MinPos, MaxPos]. MaxPos of
// NoUpperBound means "to the end of the bucket".
type BucketShift struct {
	Status TaskStatus
	MinPos int
	MaxPos int
	Delta  int
}

// MovePlan is the full set of writes required to relocate one task.
type MovePlan struct {
	// Shifts are applied before (or atomically with) the moved task's update.
	Shifts []BucketShift
	// Status and Position are the moved task's final values.
	Status   TaskStatus
	Position int
	// NoOp is true when the target equals the current placement.
	NoOp bool
}

// PlanMove computes the reindexing plan for moving a task from
// (current, currentPos) to (target, targetPos).
func PlanMove(current TaskStatus, currentPos int, target TaskStatus, targetPos int) (MovePlan, error) {
	if !target.Valid() {
		return MovePlan{}, NewValidationError("invalid status %q", string(target))
	}
	if targetPos < 0 {
		return MovePlan{}, NewValidationError("position must be non-negative")
	}

	plan := MovePlan{Status: target, Position: targetPos}

	switch {
	case current == target && currentPos == targetPos:
		plan.NoOp = true

	case current == target && targetPos < currentPos:
		// Everything in [target, current) slides up one slot.
		plan.Shifts = []BucketShift{
			{Status: current, MinPos: targetPos, MaxPos: currentPos - 1, Delta: +1},
		}

	case current == target:
		// targetPos > currentPos: everything in (current, target] slides down.
		plan.Shifts = []BucketShift{
			{Status: current, MinPos: currentPos + 1, MaxPos: targetPos, Delta: -1},
		}

	default:
		// Cross-bucket: close the gap in the source, open a slot in the destination.
		plan.Shifts = []BucketShift{
			{Status: current, MinPos: currentPos + 1, MaxPos: NoUpperBound, Delta: -1},
			{Status: target, MinPos: targetPos, MaxPos: NoUpperBound, Delta: +1},
		}
	}

	return plan, nil
}

// ClampMovePosition bounds a requested target position by the destination
// bucket's length so an oversized position appends instead of leaving a gap
// above the last task. maxPos is the destination bucket's highest current
// position (-1 when empty). A same-bucket move cannot grow the bucket; a
// cross-bucket move may take the one slot past its end.
func ClampMovePosition(current, target TaskStatus, maxPos, targetPos int) int {
	limit := maxPos
	if current != target {
		limit = maxPos + 1
	}
	if limit < 0 {
		limit = 0
	}
	if targetPos > limit {
		return limit
	}
	return targetPos
}

// PlanRemoval closes the gap a deleted task leaves in its bucket: every task
// after it shifts down one slot.
func PlanRemoval(status TaskStatus, position int) BucketShift {
	return BucketShift{Status: status, MinPos: position + 1, MaxPos: NoUpperBound, Delta: -1}
}

// AppendPosition returns the position for a task appended to a bucket whose
// current highest position is maxPos, or -1 when the bucket is empty.
func AppendPosition(maxPos int) int {
	if maxPos < 0 {
		return 0
	}
	return maxPos + 1
}

// ApplyShift returns the task's position after the shift, unchanged when the
// task is outside the shift's bucket or range. Used by in-memory stores and
// tests; the Mongo repository applies shifts as bulk $inc updates instead.
func ApplyShift(s BucketShift, status TaskStatus, position int) int {
	if status != s.Status || position < s.MinPos {
		return position
	}
	if s.MaxPos != NoUpperBound && position > s.MaxPos {
		return position
	}
	return position + s.Delta
}
