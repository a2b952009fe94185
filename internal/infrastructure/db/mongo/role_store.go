package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/simplewebapi/bookstore-api/internal/core/domain"
)

const collectionRoles = "auth_roles"

type roleDocument struct {
	ID             string `bson:"_id"`
	Name           string `bson:"name"`
	NormalizedName string `bson:"normalized_name"`
}

// RoleStore implements ports.RoleStore on the identity database.
type RoleStore struct {
	col *mongo.Collection
}

func NewRoleStore(db *mongo.Database) *RoleStore {
	return &RoleStore{col: db.Collection(collectionRoles)}
}

func (s *RoleStore) findOne(ctx context.Context, filter bson.M) (*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc roleDocument
	if err := s.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return &domain.Role{ID: doc.ID, Name: doc.Name, NormalizedName: doc.NormalizedName}, nil
}

func (s *RoleStore) FindByID(ctx context.Context, id string) (*domain.Role, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *RoleStore) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	return s.findOne(ctx, bson.M{"normalized_name": domain.Normalize(name)})
}

// Ensure upserts the role. When two callers race on the insert the unique
// index rejects the loser, which then reads the winner's document.
func (s *RoleStore) Ensure(ctx context.Context, name string) (*domain.Role, error) {
	opCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc roleDocument
	err := s.col.FindOneAndUpdate(opCtx,
		bson.M{"normalized_name": domain.Normalize(name)},
		bson.M{"$setOnInsert": bson.M{"_id": uuid.NewString(), "name": name}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return s.FindByName(ctx, name)
		}
		return nil, fmt.Errorf("ensure role %s: %w", name, err)
	}
	return &domain.Role{ID: doc.ID, Name: doc.Name, NormalizedName: doc.NormalizedName}, nil
}

func (s *RoleStore) List(ctx context.Context) ([]*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := s.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "normalized_name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}

	var docs []roleDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode roles: %w", err)
	}

	roles := make([]*domain.Role, 0, len(docs))
	for _, d := range docs {
		roles = append(roles, &domain.Role{ID: d.ID, Name: d.Name, NormalizedName: d.NormalizedName})
	}
	return roles, nil
}

func (s *RoleStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "normalized_name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
