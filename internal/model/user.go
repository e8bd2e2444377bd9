package model

import (
	"time"

	"github.com/google/uuid"
)

// Role distinguishes learners from course authors.
type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
)

// User is the account aggregate. ResetChallenge is nil when no password
// reset is in flight.
type User struct {
	ID             uuid.UUID     `json:"id"`
	Name           string        `json:"name"`
	Email          string        `json:"email"`
	PasswordHash   string        `json:"-"`
	Role           Role          `json:"role"`
	ResetChallenge *OtpChallenge `json:"-"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// IssueChallenge installs c as the account's only live challenge,
// replacing any earlier unconsumed one.
func (u *User) IssueChallenge(c OtpChallenge) {
	u.ResetChallenge = &c
}

// ConsumeChallenge clears the live challenge after a successful reset.
func (u *User) ConsumeChallenge() {
	u.ResetChallenge = nil
}

// SignupRequest is the payload for account registration.
type SignupRequest struct {
	Name            string `json:"name" binding:"required,min=3,max=100"`
	Email           string `json:"email" binding:"required,email,max=255"`
	Password        string `json:"password" binding:"required,min=8,max=128"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,min=8,max=128,eqfield=Password"`
	Role            Role   `json:"role" binding:"omitempty,oneof=student instructor"`
}

// LoginRequest is the payload for email + password authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,max=128"`
}

// ChangePasswordRequest is used by an authenticated user who knows the old password.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required,min=8,max=128"`
	NewPassword string `json:"newPassword" binding:"required,min=8,max=128,nefield=OldPassword"`
}

// ForgotPasswordRequest starts the OTP reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// VerifyOTPRequest checks an emailed code without consuming it.
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required"`
}

// ResetPasswordOTPRequest consumes an emailed code and sets a new password.
type ResetPasswordOTPRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8,max=128"`
}
