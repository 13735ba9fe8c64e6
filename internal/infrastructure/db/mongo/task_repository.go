package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/teamflow/teamflow-api/internal/core/domain"
)

const collectionTasks = "tasks"

// TaskRepository implements ports.TaskRepository on MongoDB. Comments live as
// an embedded array on the task document; position shifts are applied as
// single UpdateMany $inc batches so a bucket is never observably half-shifted.
type TaskRepository struct {
	col *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{col: db.Collection(collectionTasks)}
}

type commentDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	Author    domain.UserRef     `bson:"author"`
	Text      string             `bson:"text"`
	CreatedAt time.Time          `bson:"created_at"`
}

type taskDoc struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty"`
	Title       string              `bson:"title"`
	Description string              `bson:"description"`
	Status      domain.TaskStatus   `bson:"status"`
	Priority    domain.TaskPriority `bson:"priority"`
	Tags        []domain.Tag        `bson:"tags"`
	ProjectID   string              `bson:"project_id"`
	Assignees   []domain.UserRef    `bson:"assignees"`
	Position    int                 `bson:"position"`
	Comments    []commentDoc        `bson:"comments"`
	DueDate     *time.Time          `bson:"due_date,omitempty"`
	CreatedAt   time.Time           `bson:"created_at"`
	UpdatedAt   time.Time           `bson:"updated_at"`
}

func (d taskDoc) toDomain() *domain.Task {
	comments := make([]domain.Comment, len(d.Comments))
	for i, c := range d.Comments {
		comments[i] = domain.Comment{
			ID:        c.ID.Hex(),
			Author:    c.Author,
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
		}
	}
	return &domain.Task{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Status:      d.Status,
		Priority:    d.Priority,
		Tags:        d.Tags,
		ProjectID:   d.ProjectID,
		Assignees:   d.Assignees,
		Position:    d.Position,
		Comments:    comments,
		DueDate:     d.DueDate,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := taskDoc{
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		Tags:        t.Tags,
		ProjectID:   t.ProjectID,
		Assignees:   t.Assignees,
		Position:    t.Position,
		Comments:    []commentDoc{},
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	created := *t
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTaskNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc taskDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	sort := bson.D{{Key: "status", Value: 1}, {Key: "position", Value: 1}}
	cur, err := r.col.Find(ctx, bson.M{"project_id": projectID}, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer cur.Close(ctx)

	return decodeTasks(ctx, cur)
}

func (r *TaskRepository) ListAssigned(ctx context.Context, userID string) ([]*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"assignees._id": userID,
		"status":        bson.M{"$ne": domain.StatusDone},
	}
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "due_date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list assigned tasks: %w", err)
	}
	defer cur.Close(ctx)

	return decodeTasks(ctx, cur)
}

func (r *TaskRepository) Update(ctx context.Context, t *domain.Task) error {
	oid, err := primitive.ObjectIDFromHex(t.ID)
	if err != nil {
		return domain.ErrTaskNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"title":       t.Title,
		"description": t.Description,
		"priority":    t.Priority,
		"tags":        t.Tags,
		"assignees":   t.Assignees,
		"updated_at":  t.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if t.DueDate != nil {
		set["due_date"] = t.DueDate
	} else {
		update["$unset"] = bson.M{"due_date": ""}
	}

	res, err := r.col.UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) UpdatePlacement(ctx context.Context, taskID string, status domain.TaskStatus, position int) error {
	oid, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return domain.ErrTaskNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"status":     status,
		"position":   position,
		"updated_at": time.Now().UTC(),
	}}

	res, err := r.col.UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("update placement: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) ShiftPositions(ctx context.Context, projectID string, shift domain.BucketShift) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	posFilter := bson.M{"$gte": shift.MinPos}
	if shift.MaxPos != domain.NoUpperBound {
		posFilter["$lte"] = shift.MaxPos
	}
	filter := bson.M{
		"project_id": projectID,
		"status":     shift.Status,
		"position":   posFilter,
	}

	_, err := r.col.UpdateMany(ctx, filter, bson.M{"$inc": bson.M{"position": shift.Delta}})
	if err != nil {
		return fmt.Errorf("shift positions: %w", err)
	}
	return nil
}

func (r *TaskRepository) MaxPosition(ctx context.Context, projectID string, status domain.TaskStatus) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"project_id": projectID, "status": status}
	opts := options.FindOne().SetSort(bson.D{{Key: "position", Value: -1}})

	var doc taskDoc
	if err := r.col.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return -1, nil
		}
		return 0, fmt.Errorf("max position: %w", err)
	}
	return doc.Position, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrTaskNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) DeleteByProject(ctx context.Context, projectID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.DeleteMany(ctx, bson.M{"project_id": projectID})
	if err != nil {
		return fmt.Errorf("delete project tasks: %w", err)
	}
	return nil
}

func (r *TaskRepository) AppendComment(ctx context.Context, taskID string, c domain.Comment) error {
	oid, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return domain.ErrTaskNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := commentDoc{
		ID:        primitive.NewObjectID(),
		Author:    c.Author,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}

	res, err := r.col.UpdateByID(ctx, oid, bson.M{"$push": bson.M{"comments": doc}})
	if err != nil {
		return fmt.Errorf("append comment: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) PullAssignee(ctx context.Context, projectID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"project_id": projectID, "assignees._id": userID}
	update := bson.M{"$pull": bson.M{"assignees": bson.M{"_id": userID}}}

	_, err := r.col.UpdateMany(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("pull assignee: %w", err)
	}
	return nil
}

// EnsureIndexes creates the board ordering and assignment lookup indexes.
func (r *TaskRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "status", Value: 1}, {Key: "position", Value: 1}}},
		{Keys: bson.D{{Key: "assignees._id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func decodeTasks(ctx context.Context, cur *mongo.Cursor) ([]*domain.Task, error) {
	var tasks []*domain.Task
	for cur.Next(ctx) {
		var doc taskDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode task: %w", err)
		}
		tasks = append(tasks, doc.toDomain())
	}
	return tasks, cur.Err()
}
