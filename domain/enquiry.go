package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// EnquiryType tells which form a lead came from.
type EnquiryType string

const (
	EnquiryB2B     EnquiryType = "B2B"
	EnquiryGeneral EnquiryType = "General"
	EnquiryProduct EnquiryType = "Product"
)

// EnquiryStatus tracks how far a lead has been followed up. Any status may
// follow any other.
type EnquiryStatus string

const (
	StatusNew       EnquiryStatus = "New"
	StatusRead      EnquiryStatus = "Read"
	StatusContacted EnquiryStatus = "Contacted"
)

// Valid reports whether s is one of the known statuses.
func (s EnquiryStatus) Valid() bool {
	switch s {
	case StatusNew, StatusRead, StatusContacted:
		return true
	}
	return false
}

// Enquiry is a lead captured from a public form.
type Enquiry struct {
	ID          string        `json:"id"`
	Type        EnquiryType   `json:"type"`
	Name        string        `json:"name"`
	Email       string        `json:"email"`
	Phone       string        `json:"phone"`
	Message     string        `json:"message"`
	ProductName string        `json:"productName,omitempty"`
	Timestamp   string        `json:"timestamp"`
	Status      EnquiryStatus `json:"status"`
}

// EnquiryDraft is what a visitor submits. Id, timestamp and status are
// assigned by whoever first accepts the record.
type EnquiryDraft struct {
	Type        EnquiryType `json:"type"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone"`
	Message     string      `json:"message"`
	ProductName string      `json:"productName,omitempty"`
}

// Validate checks required-field presence only.
func (d EnquiryDraft) Validate() error {
	switch d.Type {
	case EnquiryB2B, EnquiryGeneral, EnquiryProduct:
	default:
		return Invalid("unknown enquiry type %q", d.Type)
	}
	if strings.TrimSpace(d.Name) == "" {
		return Invalid("name is required")
	}
	if strings.TrimSpace(d.Phone) == "" {
		return Invalid("phone is required")
	}
	if strings.TrimSpace(d.Message) == "" {
		return Invalid("message is required")
	}
	return nil
}

// Accept completes the draft with a fresh id, the given time and status New.
func (d EnquiryDraft) Accept(now time.Time) Enquiry {
	return Enquiry{
		ID:          uuid.NewString(),
		Type:        d.Type,
		Name:        d.Name,
		Email:       d.Email,
		Phone:       d.Phone,
		Message:     d.Message,
		ProductName: d.ProductName,
		Timestamp:   FormatTimestamp(now),
		Status:      StatusNew,
	}
}
