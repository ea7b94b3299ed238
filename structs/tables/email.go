package tables

import (
	"time"

	"github.com/google/uuid"
)

type TemplateCategory string

const (
	TemplateCategoryTransactional TemplateCategory = "transactional"
	TemplateCategoryMarketing     TemplateCategory = "marketing"
	TemplateCategoryLifecycle     TemplateCategory = "lifecycle"
)

type EmailTemplate struct {
	Id           string           `json:"id"` // slug, e.g. "order-confirmation"
	Name         string           `json:"name"`
	Subject      string           `json:"subject"`
	Body         string           `json:"body"` // HTML, may embed {{placeholder}} tokens
	Category     TemplateCategory `json:"category"`
	Enabled      bool             `json:"enabled"`
	Placeholders []string         `json:"placeholders"`
	// Placeholders no sender fills in, usually typos
	Unrecognized []string  `json:"unrecognized_placeholders,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (t *EmailTemplate) Clone() *EmailTemplate {
	if t == nil {
		return nil
	}
	c := *t
	c.Placeholders = append([]string(nil), t.Placeholders...)
	c.Unrecognized = append([]string(nil), t.Unrecognized...)
	return &c
}

// Notification is the immutable record of a simulated email send.
type Notification struct {
	Id         uuid.UUID `json:"id"`
	Recipient  string    `json:"recipient"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	TemplateId string    `json:"template_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
