package domain

import (
	"errors"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

// Status is a free-form tag describing where an item is in its lifecycle.
// Only two values carry meaning inside the service.
type Status string

const (
	StatusNew       Status = ""
	StatusProcessed Status = "PROCESSED"
)

// Item is the core domain entity. The ID is assigned by the store on insert
// and never changes afterwards.
type Item struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// emailPattern is intentionally loose: anything@anything.
var emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@(.+)$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("itememail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	return v
}

// ItemRequest is the inbound payload for creating or replacing an item.
type ItemRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Status      Status `json:"status"`
	Email       string `json:"email" validate:"omitempty,itememail"`
}

// Validate checks the request and returns the sentinel error for the first
// offending field.
func (r *ItemRequest) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].Field() {
		case "Name":
			return ErrInvalidName
		case "Email":
			return ErrInvalidEmail
		}
	}
	return err
}

// ToItem builds an unsaved Item carrying the request fields.
func (r *ItemRequest) ToItem() *Item {
	return &Item{
		Name:        r.Name,
		Description: r.Description,
		Status:      r.Status,
		Email:       r.Email,
	}
}
