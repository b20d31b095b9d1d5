package models

// ContactSubmission is a validated contact-form entry. Optional fields are nil when the
// submitter left them out.
type ContactSubmission struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Phone       *string `json:"phone"`
	Business    *string `json:"business"`
	Budget      *string `json:"budget"`
	Description string  `json:"description"`
}
