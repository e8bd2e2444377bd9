package model

import (
	"time"

	"github.com/google/uuid"
)

// Testimonial is a public review shown on the landing page.
type Testimonial struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Review    string    `json:"review"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateTestimonialRequest is the payload for POST /testimonials.
type CreateTestimonialRequest struct {
	Name   string `json:"name" binding:"required,min=1,max=100"`
	Role   string `json:"role" binding:"required,min=1,max=100"`
	Review string `json:"review" binding:"required,min=1,max=2000"`
}
