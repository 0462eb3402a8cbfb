// Package identity implements credential checks and account
// registration.
//
// Passwords are stored and compared in plaintext. The platform is a
// demo with published credentials on its login page; hashing them would
// break the reset-to-known-state workflow the demo depends on.
package identity

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/openreuse/donatehub/internal/app/store/audit"
	userstore "github.com/openreuse/donatehub/internal/app/store/users"
	"github.com/openreuse/donatehub/internal/app/system/metrics"
	"github.com/openreuse/donatehub/internal/app/system/normalize"
	"github.com/openreuse/donatehub/internal/domain/models"
)

// MinPasswordLength is the registration floor.
const MinPasswordLength = 6

var (
	// ErrUserNotFound is returned when no account has the given email.
	ErrUserNotFound = errors.New("no account with this email")

	// ErrInvalidPassword is returned on a password mismatch.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrRoleMismatch is returned when the account exists but was
	// registered under a different role than the one selected at login.
	ErrRoleMismatch = errors.New("account is registered under a different role")

	// ErrNotVerified is returned for NGO logins before admin verification.
	ErrNotVerified = errors.New("ngo account is awaiting admin verification")

	// ErrEmailTaken is returned when registering with an email that
	// already has an account.
	ErrEmailTaken = errors.New("an account with this email already exists")

	// ErrWeakPassword is returned for registration passwords shorter
	// than MinPasswordLength.
	ErrWeakPassword = errors.New("password must be at least 6 characters")

	// ErrValidation is returned for incomplete registration input.
	ErrValidation = errors.New("registration is missing required fields")
)

// Registration is the input to Register.
type Registration struct {
	Name     string
	Email    string
	Password string
	Role     models.Role

	// NGO registrations only.
	OrganizationName    string
	OrganizationAddress string
	OrganizationPhone   string
}

// Service performs logins and registrations against the user store.
type Service struct {
	users   *userstore.Store
	audit   *audit.Store
	metrics metrics.Recorder
	logger  *zap.Logger
}

// New returns an identity service.
func New(users *userstore.Store, auditTrail *audit.Store, rec metrics.Recorder, logger *zap.Logger) *Service {
	return &Service{users: users, audit: auditTrail, metrics: rec, logger: logger}
}

// Login checks credentials for the role selected on the login form.
// Checks run in a fixed order: existence, password, role, NGO
// verification. The first failure wins, so a wrong password on an
// unverified NGO account reports the password, not the verification.
func (s *Service) Login(ctx context.Context, email, password string, role models.Role) (*models.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, userstore.ErrNotFound) {
		s.recordLogin(ctx, audit.EventLoginFailedUserNotFound, "user_not_found", 0)
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if u.Password != password {
		s.recordLogin(ctx, audit.EventLoginFailedWrongPassword, "wrong_password", u.ID)
		return nil, ErrInvalidPassword
	}
	if u.Role != role {
		s.recordLogin(ctx, audit.EventLoginFailedRoleMismatch, "role_mismatch", u.ID)
		return nil, ErrRoleMismatch
	}
	if u.Role == models.RoleNgo && !u.Verified {
		s.recordLogin(ctx, audit.EventLoginFailedNotVerified, "not_verified", u.ID)
		return nil, ErrNotVerified
	}

	s.recordLogin(ctx, audit.EventLoginSuccess, "success", u.ID)
	s.logger.Info("login", zap.Int("user_id", u.ID), zap.String("role", string(u.Role)))
	return u, nil
}

// Register creates a new account. Donors and admins start verified;
// NGOs start unverified and cannot sign in until an admin verifies them.
func (s *Service) Register(ctx context.Context, reg Registration) (*models.User, error) {
	reg.Name = normalize.Name(reg.Name)
	reg.Email = normalize.Email(reg.Email)

	if reg.Name == "" || reg.Email == "" || !reg.Role.Valid() {
		return nil, ErrValidation
	}
	if len(reg.Password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}
	if reg.Role == models.RoleNgo &&
		(reg.OrganizationName == "" || reg.OrganizationAddress == "" || reg.OrganizationPhone == "") {
		return nil, ErrValidation
	}

	u, err := s.users.Create(ctx, models.User{
		Name:                reg.Name,
		Email:               reg.Email,
		Password:            reg.Password,
		Role:                reg.Role,
		Verified:            reg.Role != models.RoleNgo,
		OrganizationName:    reg.OrganizationName,
		OrganizationAddress: reg.OrganizationAddress,
		OrganizationPhone:   reg.OrganizationPhone,
	})
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, err
	}

	if auditErr := s.audit.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventUserRegistered,
		ActorID:   u.ID,
		SubjectID: u.ID,
		Success:   true,
		Details:   map[string]string{"role": string(u.Role)},
	}); auditErr != nil {
		s.logger.Warn("audit write failed", zap.Error(auditErr))
	}

	s.logger.Info("registered", zap.Int("user_id", u.ID), zap.String("role", string(u.Role)))
	return &u, nil
}

func (s *Service) recordLogin(ctx context.Context, eventType, outcome string, userID int) {
	s.metrics.RecordLogin(outcome)

	event := audit.Event{
		Category:  audit.CategoryAuth,
		EventType: eventType,
		ActorID:   userID,
		SubjectID: userID,
		Success:   outcome == "success",
	}
	if !event.Success {
		event.FailureReason = outcome
	}
	if err := s.audit.Log(ctx, event); err != nil {
		s.logger.Warn("audit write failed", zap.Error(err))
	}
}
