package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/portfolio/blog-admin/internal/core/domain"
)

const (
	registryCollection = "admin_registry"
	registryDocID      = "admin_users"
)

// UserRepository stores the whole admin user list in one document and
// rewrites it on every save.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(registryCollection)}
}

type mongoPermission struct {
	Action   string `bson:"action"`
	Resource string `bson:"resource"`
	Granted  bool   `bson:"granted"`
}

type mongoUser struct {
	ID          string            `bson:"id"`
	Email       string            `bson:"email"`
	Name        string            `bson:"name"`
	Role        string            `bson:"role"`
	Permissions []mongoPermission `bson:"permissions"`
	LastLogin   int64             `bson:"last_login,omitempty"`
	IsActive    bool              `bson:"is_active"`
	CreatedAt   int64             `bson:"created_at"`
}

type registryDoc struct {
	ID        string      `bson:"_id"`
	Users     []mongoUser `bson:"users"`
	UpdatedAt int64       `bson:"updated_at"`
}

func (r *UserRepository) LoadAll(ctx context.Context) ([]domain.AdminUser, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc registryDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": registryDocID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []domain.AdminUser{}, nil
		}
		return nil, fmt.Errorf("load admin users: %w", err)
	}

	users := make([]domain.AdminUser, 0, len(doc.Users))
	for _, mu := range doc.Users {
		users = append(users, fromMongoUser(mu))
	}
	return users, nil
}

func (r *UserRepository) SaveAll(ctx context.Context, users []domain.AdminUser) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := registryDoc{
		ID:        registryDocID,
		Users:     make([]mongoUser, 0, len(users)),
		UpdatedAt: time.Now().UTC().UnixMilli(),
	}
	for _, u := range users {
		doc.Users = append(doc.Users, toMongoUser(u))
	}

	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": registryDocID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save admin users: %w", err)
	}
	return nil
}

func toMongoUser(u domain.AdminUser) mongoUser {
	mu := mongoUser{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        string(u.Role),
		Permissions: make([]mongoPermission, 0, len(u.Permissions)),
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt.UnixMilli(),
	}
	for _, p := range u.Permissions {
		mu.Permissions = append(mu.Permissions, mongoPermission(p))
	}
	if u.LastLogin != nil {
		mu.LastLogin = u.LastLogin.UnixMilli()
	}
	return mu
}

func fromMongoUser(mu mongoUser) domain.AdminUser {
	u := domain.AdminUser{
		ID:          mu.ID,
		Email:       mu.Email,
		Name:        mu.Name,
		Role:        domain.Role(mu.Role),
		Permissions: make([]domain.Permission, 0, len(mu.Permissions)),
		IsActive:    mu.IsActive,
		CreatedAt:   millisToTime(mu.CreatedAt),
	}
	for _, p := range mu.Permissions {
		u.Permissions = append(u.Permissions, domain.Permission(p))
	}
	if mu.LastLogin != 0 {
		t := millisToTime(mu.LastLogin)
		u.LastLogin = &t
	}
	return u
}

func millisToTime(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
