// Package mongodb implements the repositories on a MongoDB database.
package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ecoshare/backend/internal/app/models"
	"github.com/ecoshare/backend/internal/pkg/apperrors"
)

// Collection names
const (
	UsersCollection     = "users"
	DonationsCollection = "fooddonations"
	PostsCollection     = "blogs"
)

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	Role      string             `bson:"role"`
	CreatedAt time.Time          `bson:"createdAt"`
}

type donationDocument struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty"`
	DonorID             primitive.ObjectID `bson:"donorId"`
	ReceiverID          primitive.ObjectID `bson:"receiverId,omitempty"`
	FullName            string             `bson:"fullName"`
	ContactNumber       string             `bson:"contactNumber"`
	FoodType            string             `bson:"foodType"`
	ItemName            string             `bson:"itemName"`
	Weight              string             `bson:"weight"`
	CookingDate         time.Time          `bson:"cookingDate"`
	ExpiryDate          time.Time          `bson:"expiryDate"`
	StorageInstructions string             `bson:"storageInstructions,omitempty"`
	PickupAddress       string             `bson:"pickupAddress"`
	FoodImage           string             `bson:"foodImage,omitempty"`
	FoodImageID         string             `bson:"foodImageId,omitempty"`
	Status              string             `bson:"status"`
	CreatedAt           time.Time          `bson:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt"`
}

type commentDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	User      primitive.ObjectID `bson:"user"`
	Text      string             `bson:"text"`
	Timestamp time.Time          `bson:"timestamp"`
}

type postDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	Author    primitive.ObjectID `bson:"author"`
	Image     string             `bson:"image,omitempty"`
	ImageID   string             `bson:"imageId,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
	Comments  []commentDocument  `bson:"comments"`
}

// parseID converts a public id, reporting malformed ids as validation errors.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperrors.ErrInvalidID
	}
	return oid, nil
}

// parseRef converts an optional reference to another document.
func parseRef(id string) (primitive.ObjectID, error) {
	if id == "" {
		return primitive.NilObjectID, nil
	}
	return parseID(id)
}

func hexOrEmpty(oid primitive.ObjectID) string {
	if oid.IsZero() {
		return ""
	}
	return oid.Hex()
}

func (d *userDocument) toModel() *models.User {
	return &models.User{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		Password:  d.Password,
		Role:      models.RoleType(d.Role),
		CreatedAt: d.CreatedAt.UTC(),
	}
}

func newDonationDocument(d *models.Donation) (*donationDocument, error) {
	donor, err := parseRef(d.DonorID)
	if err != nil {
		return nil, err
	}
	receiver, err := parseRef(d.ReceiverID)
	if err != nil {
		return nil, err
	}
	return &donationDocument{
		DonorID:             donor,
		ReceiverID:          receiver,
		FullName:            d.FullName,
		ContactNumber:       d.ContactNumber,
		FoodType:            d.FoodType,
		ItemName:            d.ItemName,
		Weight:              d.Weight,
		CookingDate:         d.CookingDate,
		ExpiryDate:          d.ExpiryDate,
		StorageInstructions: d.StorageInstructions,
		PickupAddress:       d.PickupAddress,
		FoodImage:           d.FoodImage,
		FoodImageID:         d.FoodImageID,
		Status:              string(d.Status),
	}, nil
}

func (d *donationDocument) toModel() *models.Donation {
	return &models.Donation{
		ID:                  d.ID.Hex(),
		DonorID:             hexOrEmpty(d.DonorID),
		ReceiverID:          hexOrEmpty(d.ReceiverID),
		FullName:            d.FullName,
		ContactNumber:       d.ContactNumber,
		FoodType:            d.FoodType,
		ItemName:            d.ItemName,
		Weight:              d.Weight,
		CookingDate:         d.CookingDate.UTC(),
		ExpiryDate:          d.ExpiryDate.UTC(),
		StorageInstructions: d.StorageInstructions,
		PickupAddress:       d.PickupAddress,
		FoodImage:           d.FoodImage,
		FoodImageID:         d.FoodImageID,
		Status:              models.DonationStatus(d.Status),
		CreatedAt:           d.CreatedAt.UTC(),
		UpdatedAt:           d.UpdatedAt.UTC(),
	}
}

func newCommentDocument(c models.Comment) (commentDocument, error) {
	user, err := parseRef(c.UserID)
	if err != nil {
		return commentDocument{}, err
	}
	id := primitive.NewObjectID()
	if c.ID != "" {
		if id, err = parseID(c.ID); err != nil {
			return commentDocument{}, err
		}
	}
	return commentDocument{ID: id, User: user, Text: c.Text, Timestamp: c.Timestamp}, nil
}

func commentsToModel(docs []commentDocument) []models.Comment {
	out := make([]models.Comment, 0, len(docs))
	for _, c := range docs {
		out = append(out, models.Comment{
			ID:        c.ID.Hex(),
			UserID:    hexOrEmpty(c.User),
			Text:      c.Text,
			Timestamp: c.Timestamp.UTC(),
		})
	}
	return out
}

func (d *postDocument) toModel() *models.Post {
	return &models.Post{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Content:   d.Content,
		AuthorID:  hexOrEmpty(d.Author),
		Image:     d.Image,
		ImageID:   d.ImageID,
		CreatedAt: d.CreatedAt.UTC(),
		Comments:  commentsToModel(d.Comments),
	}
}
