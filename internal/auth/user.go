// Package auth is the storefront's mock account directory: a list of users
// persisted under the global "users" key, seeded with one demo account per
// role, with case-insensitive email lookup and bcrypt password hashes.
//
// This is demo authentication. It deliberately tells "no such account" apart
// from "wrong password" so the login form can say which one happened.
package auth

import (
	"errors"
	"time"

	"autoparts.dev/storefront/internal/domain"
)

var (
	// ErrAccountNotFound means no user has the given email.
	ErrAccountNotFound = errors.New("auth: no account with this email")
	// ErrWrongPassword means the email exists but the password differs.
	ErrWrongPassword = errors.New("auth: wrong password")
	// ErrEmailTaken is returned by Register for an already registered email.
	ErrEmailTaken = errors.New("auth: email already registered")
	// ErrInvalidInput wraps field validation failures.
	ErrInvalidInput = errors.New("auth: invalid input")
)

// User is a directory record.
type User struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Role         domain.Role `json:"role"`
	Phone        string      `json:"phone,omitempty"`
	Avatar       string      `json:"avatar,omitempty"`
	PasswordHash string      `json:"password_hash"`
	CreatedAt    time.Time   `json:"created_at"`
}

// Session returns the session established when u signs in.
func (u User) Session() domain.Session {
	return domain.Session{
		UserID: u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
		Phone:  u.Phone,
		Avatar: u.Avatar,
	}
}

// NewUser is the registration form. Admin accounts cannot be registered.
type NewUser struct {
	Name            string      `json:"name" validate:"required"`
	Email           string      `json:"email" validate:"required,email"`
	Password        string      `json:"password" validate:"required"`
	ConfirmPassword string      `json:"confirm_password" validate:"omitempty,eqfield=Password"`
	Role            domain.Role `json:"role" validate:"omitempty,oneof=customer vendor technician marketer"`
	Phone           string      `json:"phone"`
}

// ProfileUpdate carries the fields editable from the profile page. Empty
// fields are left unchanged. Extra attributes (address, city, company, ...)
// live on the stored profile only, not in the directory.
type ProfileUpdate struct {
	Name   string            `json:"name"`
	Phone  string            `json:"phone"`
	Avatar string            `json:"avatar"`
	Extra  map[string]string `json:"extra"`
}

// DemoAccount is a seeded account whose password is published on the login page.
type DemoAccount struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// DemoAccounts are seeded on first use, one per role.
var DemoAccounts = []DemoAccount{
	{Name: "Demo Customer", Email: "customer@autoparts.demo", Password: "customer123", Role: domain.RoleCustomer},
	{Name: "Demo Vendor", Email: "vendor@autoparts.demo", Password: "vendor123", Role: domain.RoleVendor},
	{Name: "Demo Technician", Email: "technician@autoparts.demo", Password: "technician123", Role: domain.RoleTechnician},
	{Name: "Demo Admin", Email: "admin@autoparts.demo", Password: "admin123", Role: domain.RoleAdmin},
	{Name: "Demo Marketer", Email: "marketer@autoparts.demo", Password: "marketer123", Role: domain.RoleMarketer},
}
