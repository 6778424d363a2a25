package dto

// UploadResponse is returned by the standalone image upload endpoint
type UploadResponse struct {
	ImageURL string `json:"imageUrl" example:"http://localhost:8080/uploads/uploads/2f1c.jpg"`
}
