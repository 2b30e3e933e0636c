package taskstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/taskhub/internal/app/system/paging"
	"github.com/dalemusser/taskhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c         *mongo.Collection
	taskUsers *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:         db.Collection("tasks"),
		taskUsers: db.Collection("task_users"),
	}
}

var (
	errTitleNeeded = errors.New("task title is required")
	errBadStatus   = errors.New(`status must be "backlog"|"todo"|"in_progress"|"done"`)
	errBadPriority = errors.New(`priority must be "low"|"medium"|"high"|"urgent"`)
)

// Filter narrows task queries. ProjectIDs is required; Status and Priority
// are applied only when non-empty.
type Filter struct {
	ProjectIDs []primitive.ObjectID
	Status     string
	Priority   string
}

func (f Filter) query() bson.M {
	q := bson.M{"project_id": bson.M{"$in": f.ProjectIDs}}
	if f.Status != "" {
		q["status"] = f.Status
	}
	if f.Priority != "" {
		q["priority"] = f.Priority
	}
	return q
}

// GetByID loads a task by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	var t models.Task
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a task, defaulting status to "todo" and priority to
// "medium" when unset.
func (s *Store) Create(ctx context.Context, t models.Task) (models.Task, error) {
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return models.Task{}, errTitleNeeded
	}
	if t.Status == "" {
		t.Status = models.StatusTodo
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	if !models.IsValidStatus(t.Status) {
		return models.Task{}, errBadStatus
	}
	if !models.IsValidPriority(t.Priority) {
		return models.Task{}, errBadPriority
	}

	t.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// Assign records that a user is assigned to a task. Re-assigning the same
// pair is a no-op thanks to the unique index on (task_id, user_id).
func (s *Store) Assign(ctx context.Context, taskID, userID primitive.ObjectID) error {
	_, err := s.taskUsers.UpdateOne(ctx,
		bson.M{"task_id": taskID, "user_id": userID},
		bson.M{
			"$setOnInsert": bson.M{
				"_id":        primitive.NewObjectID(),
				"task_id":    taskID,
				"user_id":    userID,
				"created_at": time.Now().UTC(),
			},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

// Delete removes a task and its assignments. Returns the number of task
// documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	if res.DeletedCount > 0 {
		if _, err := s.taskUsers.DeleteMany(ctx, bson.M{"task_id": id}); err != nil {
			return res.DeletedCount, err
		}
	}
	return res.DeletedCount, nil
}

// DeleteByProject removes all tasks for a project along with their
// assignments. Used when the project itself is deleted.
func (s *Store) DeleteByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	ids, err := s.idsByProject(ctx, projectID)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	if _, err := s.taskUsers.DeleteMany(ctx, bson.M{"task_id": bson.M{"$in": ids}}); err != nil {
		return 0, err
	}
	res, err := s.c.DeleteMany(ctx, bson.M{"project_id": projectID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *Store) idsByProject(ctx context.Context, projectID primitive.ObjectID) ([]primitive.ObjectID, error) {
	proj := options.Find().SetProjection(bson.M{"_id": 1})
	cur, err := s.c.Find(ctx, bson.M{"project_id": projectID}, proj)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		ids = append(ids, doc.ID)
	}
	return ids, cur.Err()
}

// Count returns the number of tasks matching the filter.
func (s *Store) Count(ctx context.Context, f Filter) (int64, error) {
	if len(f.ProjectIDs) == 0 {
		return 0, nil
	}
	return s.c.CountDocuments(ctx, f.query())
}

// ListPage returns one page of matching tasks, newest first.
func (s *Store) ListPage(ctx context.Context, f Filter, p paging.Params) ([]models.Task, error) {
	if len(f.ProjectIDs) == 0 {
		return []models.Task{}, nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(p.Skip()).
		SetLimit(int64(p.Limit))

	cur, err := s.c.Find(ctx, f.query(), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Task{}
	for cur.Next(ctx) {
		var t models.Task
		if err := cur.Decode(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, cur.Err()
}

// ListByProjects returns every task in the given projects, newest first.
// The dashboard uses this to aggregate stats without paging.
func (s *Store) ListByProjects(ctx context.Context, projectIDs []primitive.ObjectID) ([]models.Task, error) {
	if len(projectIDs) == 0 {
		return []models.Task{}, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"project_id": bson.M{"$in": projectIDs}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Task{}
	for cur.Next(ctx) {
		var t models.Task
		if err := cur.Decode(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, cur.Err()
}
