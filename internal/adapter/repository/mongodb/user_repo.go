package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/house-marketplace/listing-service/internal/listing/domain"
)

// UserRepository resolves listing owners from the users collection. Only the
// contact fields are read here; account management lives elsewhere.
type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{collection: db.Collection("users")}
}

func (r *UserRepository) ContactByID(ctx context.Context, ownerID string) (*domain.OwnerContact, error) {
	objID, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, domain.ErrOwnerNotFound
	}

	var doc struct {
		Name  string `bson:"name"`
		Email string `bson:"email"`
	}
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOwnerNotFound
		}
		return nil, fmt.Errorf("find owner %s: %w", ownerID, err)
	}
	return &domain.OwnerContact{Name: doc.Name, Email: doc.Email}, nil
}
