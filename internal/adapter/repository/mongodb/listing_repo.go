package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/house-marketplace/listing-service/internal/listing/domain"
)

type ListingRepository struct {
	collection *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{collection: db.Collection("listings")}
}

func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) (string, error) {
	doc, err := toListingDocument(listing)
	if err != nil {
		return "", err
	}
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = time.Now().UTC()

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("insert listing: %w", err)
	}
	listing.CreatedAt = doc.CreatedAt
	return doc.ID.Hex(), nil
}

func (r *ListingRepository) Replace(ctx context.Context, listing *domain.Listing) error {
	doc, err := toListingDocument(listing)
	if err != nil {
		return err
	}
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return fmt.Errorf("replace listing %s: %w", listing.ID, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrListingNotFound
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("delete listing %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrListingNotFound
	}
	var doc listingDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListingNotFound
		}
		return nil, fmt.Errorf("find listing %s: %w", id, err)
	}
	return toDomainListing(&doc)
}

// FindPage executes one page of the catalog query. Ordering is fixed to
// creation time descending with the object id as an ascending tie-break, so
// pagination stays deterministic when timestamps collide.
func (r *ListingRepository) FindPage(ctx context.Context, q domain.PageQuery) ([]*domain.Listing, error) {
	query := bson.M{}
	if q.Filter != nil {
		query[filterKey(q.Filter.Field)] = q.Filter.Value
	}
	if q.After != nil {
		afterID, err := primitive.ObjectIDFromHex(q.After.ID)
		if err != nil {
			return nil, &domain.ValidationError{Field: "cursor", Reason: "malformed token"}
		}
		query["$or"] = bson.A{
			bson.M{"created_at": bson.M{"$lt": q.After.CreatedAt}},
			bson.M{"created_at": q.After.CreatedAt, "_id": bson.M{"$gt": afterID}},
		}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(q.Limit))

	cur, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("find listings: %w", err)
	}
	defer cur.Close(ctx)

	listings := make([]*domain.Listing, 0, q.Limit)
	for cur.Next(ctx) {
		var doc listingDocument
		if err := cur.Decode(&doc); err != nil {
			// One undecodable record fails the whole page; a partially
			// hydrated list would be visibly inconsistent to the caller.
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedRecord, err)
		}
		l, err := toDomainListing(&doc)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}
	return listings, nil
}

func filterKey(f domain.FilterField) string {
	if f == domain.FilterOwner {
		return "owner_ref"
	}
	return string(f)
}
