package models

import "time"

// Donation is a unit of food offered by a donor and claimable by one other user.
type Donation struct {
	ID                  string         `json:"id" db:"id"`
	DonorID             string         `json:"donorId" db:"donor_id"`
	ReceiverID          string         `json:"receiverId,omitempty" db:"receiver_id"`
	FullName            string         `json:"fullName" db:"full_name"`
	ContactNumber       string         `json:"contactNumber" db:"contact_number"`
	FoodType            string         `json:"foodType" db:"food_type"`
	ItemName            string         `json:"itemName" db:"item_name"`
	Weight              string         `json:"weight" db:"weight"`
	CookingDate         time.Time      `json:"cookingDate" db:"cooking_date"`
	ExpiryDate          time.Time      `json:"expiryDate" db:"expiry_date"`
	StorageInstructions string         `json:"storageInstructions,omitempty" db:"storage_instructions"`
	PickupAddress       string         `json:"pickupAddress" db:"pickup_address"`
	FoodImage           string         `json:"foodImage,omitempty" db:"food_image"`
	FoodImageID         string         `json:"-" db:"food_image_id"`
	Status              DonationStatus `json:"status" db:"status"`
	CreatedAt           time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time      `json:"updatedAt" db:"updated_at"`
}

// IsAvailable reports whether the donation can still be claimed.
func (d *Donation) IsAvailable() bool {
	return d.Status == DonationAvailable
}
