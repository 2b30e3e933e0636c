package memberstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/taskhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("members")}
}

var (
	// ErrDuplicateMember is returned when the user already has a membership
	// for the project, whatever its status.
	ErrDuplicateMember = errors.New("user already has a membership for this project")

	// ErrNotPending is returned by AcceptPending and DeclinePending when the
	// invitation exists but has already been resolved.
	ErrNotPending = errors.New("invitation is not pending")

	errBadRole = errors.New(`role must be "owner"|"editor"|"viewer"`)
)

// GetByID loads a membership by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Member, error) {
	var m models.Member
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// GetByUserAndProject loads the membership tying a user to a project.
// Returns mongo.ErrNoDocuments when none exists.
func (s *Store) GetByUserAndProject(ctx context.Context, userID, projectID primitive.ObjectID) (*models.Member, error) {
	var m models.Member
	err := s.c.FindOne(ctx, bson.M{"user_id": userID, "project_id": projectID}).Decode(&m)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a membership. The unique (user_id, project_id) index turns
// a second membership for the same pair into ErrDuplicateMember.
func (s *Store) Create(ctx context.Context, m models.Member) (models.Member, error) {
	if !models.IsValidRole(m.Role) {
		return models.Member{}, errBadRole
	}
	if m.InvitationStatus == "" {
		m.InvitationStatus = models.InvitePending
	}

	m.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
	if m.InvitationStatus == models.InviteAccepted && m.JoinedAt == nil {
		m.JoinedAt = &now
	}

	if _, err := s.c.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Member{}, ErrDuplicateMember
		}
		return models.Member{}, err
	}
	return m, nil
}

// AcceptPending flips a pending invitation to accepted and stamps joined_at.
// The status check rides in the filter, so a resolved invitation can never
// be accepted twice even under concurrent requests. Returns the updated
// membership, ErrNotPending if it was already resolved, or
// mongo.ErrNoDocuments if no membership exists.
func (s *Store) AcceptPending(ctx context.Context, id primitive.ObjectID) (*models.Member, error) {
	now := time.Now().UTC()
	after := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var m models.Member
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "invitation_status": models.InvitePending},
		bson.M{"$set": bson.M{
			"invitation_status": models.InviteAccepted,
			"joined_at":         now,
			"updated_at":        now,
		}},
		after,
	).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, s.classifyMiss(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// DeclinePending flips a pending invitation to declined. Same concurrency
// guarantees as AcceptPending.
func (s *Store) DeclinePending(ctx context.Context, id primitive.ObjectID) (*models.Member, error) {
	after := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var m models.Member
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "invitation_status": models.InvitePending},
		bson.M{"$set": bson.M{
			"invitation_status": models.InviteDeclined,
			"updated_at":        time.Now().UTC(),
		}},
		after,
	).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, s.classifyMiss(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// classifyMiss distinguishes "no such membership" from "already resolved"
// after a guarded update matched nothing.
func (s *Store) classifyMiss(ctx context.Context, id primitive.ObjectID) error {
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Err()
	if err == nil {
		return ErrNotPending
	}
	return err
}

// ListAcceptedByUser returns every accepted membership for a user.
func (s *Store) ListAcceptedByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Member, error) {
	cur, err := s.c.Find(ctx, bson.M{
		"user_id":           userID,
		"invitation_status": models.InviteAccepted,
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Member{}
	for cur.Next(ctx) {
		var m models.Member
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, cur.Err()
}

// ListByProject returns every membership for a project, any status.
func (s *Store) ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Member, error) {
	cur, err := s.c.Find(ctx, bson.M{"project_id": projectID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Member{}
	for cur.Next(ctx) {
		var m models.Member
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, cur.Err()
}

// DeleteByProject removes all memberships for a project. Used when the
// project itself is deleted.
func (s *Store) DeleteByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"project_id": projectID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
