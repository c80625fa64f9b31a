package models

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var emailValidator = validator.New()

// Setting is the single site-wide configuration row.
type Setting struct {
	ID           uint      `gorm:"primarykey" json:"-"`
	BlogName     string    `gorm:"type:varchar(255)" json:"blog_name"`
	ContactEmail string    `gorm:"type:varchar(255)" json:"contact_email"`
	TwitterURL   string    `gorm:"type:varchar(255)" json:"twitter_url"`
	LinkedinURL  string    `gorm:"type:varchar(255)" json:"linkedin_url"`
	Bio          string    `gorm:"type:text" json:"bio"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (s *Setting) Validate() error {
	var invalid ValidationError
	if strings.TrimSpace(s.BlogName) == "" {
		invalid.Add("Blog name can't be blank")
	}
	switch email := strings.TrimSpace(s.ContactEmail); {
	case email == "":
		invalid.Add("Contact email can't be blank")
	case emailValidator.Var(email, "email") != nil:
		invalid.Add("Contact email is invalid")
	}
	return invalid.OrNil()
}
