package tables

import (
	"time"

	"github.com/google/uuid"
)

type Supplier struct {
	Id        uuid.UUID `json:"id"`
	Name      string    `json:"name" validate:"required,min=2,max=100"`
	Email     string    `json:"email" validate:"required,email"`
	Phone     string    `json:"phone" validate:"omitempty,min=6,max=20"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Supplier) Clone() *Supplier {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
