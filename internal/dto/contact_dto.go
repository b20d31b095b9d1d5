package dto

// ContactRequest defines the expected payload for the contact form endpoint.
type ContactRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=120"`
	Email       string  `json:"email" validate:"required,email"`
	Phone       *string `json:"phone,omitempty"`
	Business    *string `json:"business,omitempty"`
	Budget      *string `json:"budget,omitempty"`
	Description string  `json:"description" validate:"required,min=10"`
}

// EmailResult reports the outcome of the confirmation email.
type EmailResult struct {
	Sent   bool   `json:"sent"`
	Reason string `json:"reason,omitempty"`
}

// ContactResponse is returned for every submission that passed validation.
type ContactResponse struct {
	OK      bool        `json:"ok"`
	ID      *string     `json:"id"`
	Email   EmailResult `json:"email"`
	Message string      `json:"message"`
}

// ContactSubmittedEvent is published after a submission has been stored.
type ContactSubmittedEvent struct {
	ID          string `json:"id"`
	Collection  string `json:"collection"`
	SubmittedAt string `json:"submitted_at"`
}
