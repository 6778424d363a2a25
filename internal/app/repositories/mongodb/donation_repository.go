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

	"github.com/ecoshare/backend/internal/app/models"
	"github.com/ecoshare/backend/internal/pkg/apperrors"
)

// DonationRepository stores donations in the fooddonations collection.
type DonationRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewDonationRepository creates a new DonationRepository
func NewDonationRepository(db *mongo.Database) *DonationRepository {
	return &DonationRepository{
		coll: db.Collection(DonationsCollection),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Insert stores a new donation
func (r *DonationRepository) Insert(ctx context.Context, donation *models.Donation) (*models.Donation, error) {
	doc, err := newDonationDocument(donation)
	if err != nil {
		return nil, err
	}
	doc.ID = primitive.NewObjectID()
	now := r.now()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("error inserting donation: %w", err)
	}
	return doc.toModel(), nil
}

// FindAll lists donations in insertion order
func (r *DonationRepository) FindAll(ctx context.Context) ([]*models.Donation, error) {
	return r.find(ctx, bson.M{})
}

// FindByStatus lists donations in a given state
func (r *DonationRepository) FindByStatus(ctx context.Context, status models.DonationStatus) ([]*models.Donation, error) {
	return r.find(ctx, bson.M{"status": string(status)})
}

func (r *DonationRepository) find(ctx context.Context, filter bson.M) ([]*models.Donation, error) {
	// ObjectIDs grow with insertion time
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing donations: %w", err)
	}
	defer cur.Close(ctx)

	var docs []donationDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("error decoding donations: %w", err)
	}
	out := make([]*models.Donation, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toModel())
	}
	return out, nil
}

// FindByID retrieves a donation
func (r *DonationRepository) FindByID(ctx context.Context, id string) (*models.Donation, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var doc donationDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error finding donation: %w", err)
	}
	return doc.toModel(), nil
}

// ConditionalUpdateStatus applies the transition only while the status still matches.
func (r *DonationRepository) ConditionalUpdateStatus(ctx context.Context, id string, expected, next models.DonationStatus, receiverID string) (*models.Donation, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	receiver, err := parseRef(receiverID)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"_id": oid, "status": string(expected)}
	update := bson.M{"$set": bson.M{
		"status":     string(next),
		"receiverId": receiver,
		"updatedAt":  r.now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc donationDocument
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, r.guardFailure(ctx, oid)
		}
		return nil, fmt.Errorf("error updating donation status: %w", err)
	}
	return doc.toModel(), nil
}

// guardFailure tells a donation whose status moved on from one that was deleted.
func (r *DonationRepository) guardFailure(ctx context.Context, oid primitive.ObjectID) error {
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("error checking donation: %w", err)
	}
	if n == 0 {
		return apperrors.ErrResourceNotFound
	}
	return apperrors.ErrConflict
}

// DeleteByID removes a donation, reporting whether it existed
func (r *DonationRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	oid, err := parseID(id)
	if err != nil {
		return false, err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("error deleting donation: %w", err)
	}
	return res.DeletedCount > 0, nil
}
