package dto

import (
	"time"

	"github.com/ecoshare/backend/internal/app/models"
)

// CreateDonationRequest carries the donor supplied fields of a donation.
// It binds from JSON or from a multipart form carrying a foodImage file.
type CreateDonationRequest struct {
	FullName            string `json:"fullName" form:"fullName" binding:"required,notblank" example:"Jane Doe"`
	ContactNumber       string `json:"contactNumber" form:"contactNumber" binding:"required,notblank" example:"+1 555 0100"`
	FoodType            string `json:"foodType" form:"foodType" binding:"required,notblank" example:"Cooked meal"`
	ItemName            string `json:"itemName" form:"itemName" binding:"required,notblank" example:"Vegetable biryani"`
	Weight              string `json:"weight" form:"weight" binding:"required,notblank" example:"2kg"`
	CookingDate         string `json:"cookingDate" form:"cookingDate" binding:"required,isodate" example:"2024-05-01"`
	ExpiryDate          string `json:"expiryDate" form:"expiryDate" binding:"required,isodate" example:"2024-05-03"`
	StorageInstructions string `json:"storageInstructions" form:"storageInstructions" example:"Keep refrigerated"`
	PickupAddress       string `json:"pickupAddress" form:"pickupAddress" binding:"required,notblank" example:"12 Green St"`
}

// DonationResponse is the public representation of a donation
type DonationResponse struct {
	ID                  string    `json:"id" example:"665f1c2e9b1d4a0012ab34cd"`
	DonorID             string    `json:"donorId"`
	ReceiverID          string    `json:"receiverId,omitempty"`
	FullName            string    `json:"fullName"`
	ContactNumber       string    `json:"contactNumber"`
	FoodType            string    `json:"foodType"`
	ItemName            string    `json:"itemName"`
	Weight              string    `json:"weight"`
	CookingDate         time.Time `json:"cookingDate"`
	ExpiryDate          time.Time `json:"expiryDate"`
	StorageInstructions string    `json:"storageInstructions,omitempty"`
	PickupAddress       string    `json:"pickupAddress"`
	FoodImage           string    `json:"foodImage,omitempty"`
	Status              string    `json:"status" example:"available" enums:"available,claimed"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// NewDonationResponse converts a donation model to its response form.
func NewDonationResponse(d *models.Donation) DonationResponse {
	return DonationResponse{
		ID:                  d.ID,
		DonorID:             d.DonorID,
		ReceiverID:          d.ReceiverID,
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
		Status:              string(d.Status),
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
	}
}

// NewDonationListResponse converts a list of donations, never returning nil.
func NewDonationListResponse(list []*models.Donation) []DonationResponse {
	out := make([]DonationResponse, 0, len(list))
	for _, d := range list {
		out = append(out, NewDonationResponse(d))
	}
	return out
}
