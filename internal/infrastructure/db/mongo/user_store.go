package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/simplewebapi/bookstore-api/internal/core/domain"
)

const collectionUsers = "auth_users"

// userDocument is the stored shape of a user. Normalized copies of username
// and e-mail carry the case-insensitive unique indexes.
type userDocument struct {
	ID                 string         `bson:"_id"`
	Username           string         `bson:"username"`
	NormalizedUsername string         `bson:"normalized_username"`
	Email              string         `bson:"email"`
	NormalizedEmail    string         `bson:"normalized_email"`
	FullName           string         `bson:"full_name"`
	PasswordHash       string         `bson:"password_hash"`
	Roles              []string       `bson:"roles"`
	Claims             []domain.Claim `bson:"claims"`
	AccessFailedCount  int            `bson:"access_failed_count"`
	LockoutEnd         *time.Time     `bson:"lockout_end,omitempty"`
	CreatedAt          time.Time      `bson:"created_at"`
}

func (d *userDocument) toDomain() *domain.User {
	return &domain.User{
		ID:                d.ID,
		Username:          d.Username,
		Email:             d.Email,
		FullName:          d.FullName,
		PasswordHash:      d.PasswordHash,
		Roles:             d.Roles,
		Claims:            d.Claims,
		AccessFailedCount: d.AccessFailedCount,
		LockoutEnd:        d.LockoutEnd,
		CreatedAt:         d.CreatedAt,
	}
}

// UserStore implements ports.UserStore on the identity database.
type UserStore struct {
	col        *mongo.Collection
	policy     domain.PasswordPolicy
	lockout    domain.LockoutPolicy
	bcryptCost int
	now        func() time.Time
}

func NewUserStore(db *mongo.Database, policy domain.PasswordPolicy, lockout domain.LockoutPolicy) *UserStore {
	return &UserStore{
		col:        db.Collection(collectionUsers),
		policy:     policy,
		lockout:    lockout,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
}

func (s *UserStore) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDocument
	if err := s.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (s *UserStore) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.findOne(ctx, bson.M{"normalized_email": domain.Normalize(email)})
}

func (s *UserStore) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.findOne(ctx, bson.M{"normalized_username": domain.Normalize(username)})
}

// Create enforces the password policy, hashes the password and inserts the
// user. On success user.PasswordHash holds the stored hash.
func (s *UserStore) Create(ctx context.Context, user *domain.User, password string) error {
	if err := s.policy.Check(password); err != nil {
		return domain.WithDetail(domain.ErrCreationFailed, err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	doc := userDocument{
		ID:                 user.ID,
		Username:           user.Username,
		NormalizedUsername: domain.Normalize(user.Username),
		Email:              user.Email,
		NormalizedEmail:    domain.Normalize(user.Email),
		FullName:           user.FullName,
		PasswordHash:       string(hash),
		Roles:              nonNil(user.Roles),
		Claims:             user.Claims,
		CreatedAt:          user.CreatedAt,
	}
	if doc.Claims == nil {
		doc.Claims = []domain.Claim{}
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := s.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.WithDetail(domain.ErrCreationFailed,
				fmt.Sprintf("username '%s' or email '%s' is already taken", user.Username, user.Email))
		}
		return fmt.Errorf("insert user: %w", err)
	}

	user.PasswordHash = doc.PasswordHash
	user.Roles = doc.Roles
	user.Claims = doc.Claims
	return nil
}

// CheckPassword compares password against the stored hash. The stored
// lockout state is authoritative, not the copy held by user.
func (s *UserStore) CheckPassword(ctx context.Context, user *domain.User, password string) (bool, error) {
	stored, err := s.FindByID(ctx, user.ID)
	if err != nil {
		return false, err
	}

	now := s.now().UTC()
	if stored.IsLockedOut(now) {
		return false, nil
	}

	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(password)) != nil {
		return false, s.recordFailure(ctx, user.ID, now)
	}

	if stored.AccessFailedCount > 0 || stored.LockoutEnd != nil {
		if err := s.resetFailures(ctx, user.ID); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (s *UserStore) recordFailure(ctx context.Context, id string, now time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDocument
	err := s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"access_failed_count": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return fmt.Errorf("record failed login: %w", err)
	}

	if !s.lockout.ShouldLock(doc.AccessFailedCount) {
		return nil
	}

	_, err = s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"access_failed_count": 0,
			"lockout_end":         now.Add(s.lockout.Duration),
		},
	})
	if err != nil {
		return fmt.Errorf("lock out user: %w", err)
	}
	return nil
}

func (s *UserStore) resetFailures(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set":   bson.M{"access_failed_count": 0},
		"$unset": bson.M{"lockout_end": ""},
	})
	if err != nil {
		return fmt.Errorf("reset failed logins: %w", err)
	}
	return nil
}

// AddToRole is idempotent through $addToSet.
func (s *UserStore) AddToRole(ctx context.Context, user *domain.User, roleID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": user.ID},
		bson.M{"$addToSet": bson.M{"roles": roleID}},
	)
	if err != nil {
		return fmt.Errorf("add user to role: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}

	if !user.HasRoleID(roleID) {
		user.Roles = append(user.Roles, roleID)
	}
	return nil
}

func (s *UserStore) ListInRole(ctx context.Context, roleID string) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := s.col.Find(ctx, bson.M{"roles": roleID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list users in role: %w", err)
	}

	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]*domain.User, 0, len(docs))
	for i := range docs {
		users = append(users, docs[i].toDomain())
	}
	return users, nil
}

// EnsureIndexes creates the unique lookup indexes on the users collection.
func (s *UserStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "normalized_username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "normalized_email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "roles", Value: 1}}},
	}

	_, err := s.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
