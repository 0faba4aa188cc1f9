package dto

import (
	"time"

	"github.com/jhoicas/khata/internal/domain/entity"
)

// BusinessResponse the user's business.
type BusinessResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ToBusinessResponse maps an entity; nil stays nil.
func ToBusinessResponse(b *entity.Business) *BusinessResponse {
	if b == nil {
		return nil
	}
	return &BusinessResponse{ID: b.ID, UserID: b.UserID, Name: b.Name, CreatedAt: b.CreatedAt}
}
