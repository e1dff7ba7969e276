// Package marketplace holds the custom fabrication side of the shop:
// customers post projects and services, vendors answer projects with
// proposals and technicians answer services with requests.
//
// Each record kind is its own type. Stored collections are parsed and
// validated when read; entries that do not parse or validate are dropped.
package marketplace

import (
	"strings"
	"time"

	apperrors "autoparts.dev/storefront/internal/pkg/errors"
)

// Kind tags a stored record.
type Kind string

const (
	KindProject           Kind = "project"
	KindService           Kind = "service"
	KindProposal          Kind = "proposal"
	KindTechnicianRequest Kind = "technician_request"
)

// Status of a record.
type Status string

const (
	StatusOpen     Status = "open"
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	StatusClosed   Status = "closed"
)

// Record is implemented by every marketplace record.
type Record interface {
	Kind() Kind
	RecordID() string
	Validate() []apperrors.FieldError
}

type fieldCheck struct {
	errs []apperrors.FieldError
}

func (c *fieldCheck) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		c.errs = append(c.errs, apperrors.FieldError{Field: field, Code: apperrors.CodeFieldRequired})
	}
}

func (c *fieldCheck) positive(field string, value float64) {
	if value <= 0 {
		c.errs = append(c.errs, apperrors.FieldError{Field: field, Code: apperrors.CodeValidationFailed})
	}
}

// Project is a custom part or modification a customer wants built.
type Project struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CarType     string    `json:"car_type,omitempty"`
	Model       string    `json:"model,omitempty"`
	Budget      float64   `json:"budget,omitempty"`
	Deadline    string    `json:"deadline,omitempty"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Project) Kind() Kind         { return KindProject }
func (p Project) RecordID() string { return p.ID }

// Validate checks the project form.
func (p Project) Validate() []apperrors.FieldError {
	var c fieldCheck
	c.required("title", p.Title)
	c.required("description", p.Description)
	if p.Budget < 0 {
		c.positive("budget", p.Budget)
	}
	return c.errs
}

// Service is a workshop service offered on the marketplace.
type Service struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	PriceFrom   float64   `json:"price_from,omitempty"`
	City        string    `json:"city,omitempty"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Service) Kind() Kind         { return KindService }
func (s Service) RecordID() string { return s.ID }

// Validate checks the service form.
func (s Service) Validate() []apperrors.FieldError {
	var c fieldCheck
	c.required("title", s.Title)
	c.required("description", s.Description)
	c.required("category", s.Category)
	if s.PriceFrom < 0 {
		c.positive("price_from", s.PriceFrom)
	}
	return c.errs
}

// Proposal is a vendor's offer on a project.
type Proposal struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"project_id"`
	VendorID     string    `json:"vendor_id"`
	Price        float64   `json:"price"`
	DeliveryDays int       `json:"delivery_days"`
	Message      string    `json:"message,omitempty"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Proposal) Kind() Kind         { return KindProposal }
func (p Proposal) RecordID() string { return p.ID }

// Validate checks the proposal form.
func (p Proposal) Validate() []apperrors.FieldError {
	var c fieldCheck
	c.required("project_id", p.ProjectID)
	c.positive("price", p.Price)
	c.positive("delivery_days", float64(p.DeliveryDays))
	return c.errs
}

// TechnicianRequest is a technician's request to take on a service.
type TechnicianRequest struct {
	ID            string    `json:"id"`
	ServiceID     string    `json:"service_id"`
	TechnicianID  string    `json:"technician_id"`
	Message       string    `json:"message"`
	PreferredDate string    `json:"preferred_date,omitempty"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

func (TechnicianRequest) Kind() Kind         { return KindTechnicianRequest }
func (r TechnicianRequest) RecordID() string { return r.ID }

// Validate checks the request form.
func (r TechnicianRequest) Validate() []apperrors.FieldError {
	var c fieldCheck
	c.required("service_id", r.ServiceID)
	c.required("message", r.Message)
	return c.errs
}
