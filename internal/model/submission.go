package model

import "time"

// Submission is a contact request as received from the caller.
// Name, Email and Message are required; the rest are optional.
type Submission struct {
	Name    string `json:"name" validate:"required,hascontent,max=120"`
	Email   string `json:"email" validate:"required,hascontent,email,max=254"`
	Message string `json:"message" validate:"required,hascontent,max=5000"`
	Company string `json:"company,omitempty" validate:"omitempty,max=160"`
	Phone   string `json:"phone,omitempty" validate:"omitempty,max=40"`
	Service string `json:"service,omitempty" validate:"omitempty,max=120"`
}

// Fields returns the populated fields keyed by their wire name, in a stable order.
func (s Submission) Fields() []Field {
	all := []Field{
		{Name: "name", Value: s.Name},
		{Name: "email", Value: s.Email},
		{Name: "company", Value: s.Company},
		{Name: "phone", Value: s.Phone},
		{Name: "message", Value: s.Message},
		{Name: "service", Value: s.Service},
	}
	out := all[:0]
	for _, f := range all {
		if f.Value != "" {
			out = append(out, f)
		}
	}
	return out
}

// Field is a single named submission value.
type Field struct {
	Name  string
	Value string
}

// StoredSubmission is the persisted form of a Submission.
type StoredSubmission struct {
	ID        string    `json:"id"`
	Submission
	CreatedAt time.Time `json:"created_at"`
}
