// Package storage provides the credential store implementations: a MongoDB
// collection for production and an in-memory store for tests and local
// development. Both enforce the same uniqueness and digest-expiry semantics.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/melodia-app/backend/internal/auth"
)

const usersCollection = "users"

// MongoStore implements auth.UserStore over a MongoDB collection. Uniqueness
// of email and username is enforced by the indexes created in EnsureIndexes,
// which makes the store the real guard against concurrent duplicate inserts.
type MongoStore struct {
	col *mongo.Collection
}

// NewMongoStore builds a store over the users collection of db.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{col: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique email and username indexes. Safe to call
// on every startup.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_unique"),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("username_unique"),
		},
	})
	if err != nil {
		return fmt.Errorf("storage: create user indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) FindByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoStore) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *MongoStore) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	return s.findOne(ctx, bson.M{"username": username})
}

func (s *MongoStore) FindByResetDigest(ctx context.Context, digest string, now time.Time) (*auth.User, error) {
	return s.findOne(ctx, bson.M{
		"reset_password_digest": digest,
		"reset_password_expire": bson.M{"$gt": now},
	})
}

func (s *MongoStore) FindByVerificationDigest(ctx context.Context, digest string, now time.Time) (*auth.User, error) {
	return s.findOne(ctx, bson.M{
		"email_verification_digest": digest,
		"email_verification_expire": bson.M{"$gt": now},
	})
}

func (s *MongoStore) Create(ctx context.Context, user *auth.User) error {
	if _, err := s.col.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return duplicateKeyError(err)
		}
		return fmt.Errorf("storage: insert user: %w", err)
	}
	return nil
}

func (s *MongoStore) Update(ctx context.Context, user *auth.User) error {
	res, err := s.col.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return duplicateKeyError(err)
		}
		return fmt.Errorf("storage: update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.M) (*auth.User, error) {
	var user auth.User
	if err := s.col.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("storage: find user: %w", err)
	}
	return &user, nil
}

// duplicateKeyError maps a unique index violation to the domain error of the
// index that rejected the write.
func duplicateKeyError(err error) error {
	if strings.Contains(err.Error(), "username_unique") {
		return auth.ErrUsernameTaken
	}
	return auth.ErrEmailTaken
}
