package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/taskhub/internal/app/system/normalize"
	"github.com/dalemusser/taskhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	errNameNeeded     = errors.New("full name is required")
)

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByGoogleID looks up a user by its linked Google account.
// Returns mongo.ErrNoDocuments if no account is linked.
func (s *Store) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"google_id": googleID}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing fields. PasswordHash must
// already be hashed by the caller; the store never sees plaintext.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	// Normalize core fields
	u.ID = primitive.NewObjectID()
	u.FullName = normalize.Name(u.FullName)
	u.FullNameCI = text.Fold(u.FullName)
	u.Email = normalize.Email(u.Email)

	if u.FullName == "" {
		return models.User{}, errNameNeeded
	}

	// Timestamps
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	// Insert
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// LinkGoogle attaches a Google identity and its tokens to an existing user.
// An empty refresh token is not written; Google only returns one on the
// first consent.
func (s *Store) LinkGoogle(ctx context.Context, id primitive.ObjectID, googleID, accessToken, refreshToken string) error {
	set := bson.M{
		"google_id":           googleID,
		"google_access_token": accessToken,
		"updated_at":          time.Now().UTC(),
	}
	if refreshToken != "" {
		set["google_refresh_token"] = refreshToken
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

// Directory lists every account's id and display name, ordered by folded
// name. Email and credential fields never leave the store.
func (s *Store) Directory(ctx context.Context) ([]models.DirectoryUser, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1, "full_name": 1}).
		SetSort(bson.D{{Key: "full_name_ci", Value: 1}})

	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.DirectoryUser{}
	for cur.Next(ctx) {
		var u models.DirectoryUser
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, cur.Err()
}

// PublicByIDs loads the public view of the given users, keyed by ID.
// Missing IDs are simply absent from the map.
func (s *Store) PublicByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.PublicUser, error) {
	out := make(map[primitive.ObjectID]models.PublicUser, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var u models.User
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		out[u.ID] = models.PublicUser{ID: u.ID, FullName: u.FullName, Email: u.Email}
	}
	return out, cur.Err()
}
