package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"giventake/internal/utils"
	"giventake/pkg/types"

	"github.com/sirupsen/logrus"
)

// AccountService handles signup, login and the profile composed from the
// users row plus its role row.
type AccountService struct {
	logger   logrus.FieldLogger
	config   *types.Config
	identity IdentityProvider
	tokens   TokenIssuer
	users    UserRepository
	donors   DonorRepository
	orgs     OrganizationRepository
	admins   AdminRepository
}

func NewAccountService(
	config *types.Config,
	logger logrus.FieldLogger,
	identity IdentityProvider,
	tokens TokenIssuer,
	users UserRepository,
	donors DonorRepository,
	orgs OrganizationRepository,
	admins AdminRepository,
) *AccountService {
	return &AccountService{
		logger:   logger,
		config:   config,
		identity: identity,
		tokens:   tokens,
		users:    users,
		donors:   donors,
		orgs:     orgs,
		admins:   admins,
	}
}

type LoginResult struct {
	Message string             `json:"message"`
	Token   string             `json:"token"`
	User    map[string]any     `json:"user"`
	Session *types.AuthSession `json:"session"`
}

type RefreshResult struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	ExpiresIn    int32          `json:"expires_in"`
	Token        string         `json:"token"`
	User         map[string]any `json:"user"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AccountService) RegisterDonor(ctx context.Context, in *types.RegisterDonorInput) (string, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateInput(in); err != nil {
		return "", err
	}

	email := in.Email
	if err := s.ensureEmailAvailable(ctx, email); err != nil {
		return "", err
	}

	userID, err := s.signUp(ctx, email, in.Password, map[string]string{
		"given_name":  in.FName,
		"family_name": in.LName,
	})
	if err != nil {
		return "", err
	}

	user := &types.User{
		ID:       userID,
		Email:    email,
		Phone:    utils.NonEmptyStringPtr(in.Phone),
		UserType: types.UserTypeDonor,
		IsActive: true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		s.rollbackAccount(ctx, "", email)
		return "", types.Persistence("Failed to create user record", err)
	}

	donor := &types.Donor{
		UserID:  userID,
		FName:   strings.TrimSpace(in.FName),
		LName:   strings.TrimSpace(in.LName),
		Phone:   strings.TrimSpace(in.Phone),
		CNICNo:  strings.TrimSpace(in.CNICNo),
		Address: in.Address,
	}
	if err := s.donors.Create(ctx, donor); err != nil {
		s.rollbackAccount(ctx, userID, email)
		return "", types.Persistence("Failed to create donor profile", err)
	}

	s.logger.WithField("user_id", userID).Info("donor registered")

	return userID, nil
}

func (s *AccountService) RegisterOrganization(ctx context.Context, in *types.RegisterOrganizationInput) (string, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateInput(in); err != nil {
		return "", err
	}

	licenseNo := strings.TrimSpace(in.LicenseNo)
	_, err := s.orgs.OrganizationByLicense(ctx, licenseNo)
	switch {
	case err == nil:
		return "", types.NewError(types.ErrLicenseExists, "Organization with this license number already exists")
	case !errors.Is(err, types.ErrOrganizationNotFound):
		return "", types.Persistence("Failed to check license number", err)
	}

	email := in.Email
	if err := s.ensureEmailAvailable(ctx, email); err != nil {
		return "", err
	}

	userID, err := s.signUp(ctx, email, in.Password, map[string]string{"name": in.Name})
	if err != nil {
		return "", err
	}

	user := &types.User{
		ID:       userID,
		Email:    email,
		Phone:    utils.NonEmptyStringPtr(in.Phone),
		UserType: types.UserTypeOrganization,
		IsActive: true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		s.rollbackAccount(ctx, "", email)
		return "", types.Persistence("Failed to create user record", err)
	}

	org := &types.Organization{
		UserID:               userID,
		Name:                 strings.TrimSpace(in.Name),
		LicenseNo:            licenseNo,
		Type:                 in.Type,
		MissionStatement:     in.MissionStatement,
		MissionScope:         in.MissionScope,
		DonationsAccepted:    in.DonationsAccepted,
		Phone:                strings.TrimSpace(in.Phone),
		Address:              in.Address,
		Description:          in.Description,
		RegistrationDocument: in.RegistrationDocument,
		Status:               types.OrganizationStatusPending,
	}
	if err := s.orgs.Create(ctx, org); err != nil {
		s.rollbackAccount(ctx, userID, email)
		return "", types.Persistence("Failed to create organization profile", err)
	}

	s.logger.WithField("user_id", userID).Info("organization registered")

	return userID, nil
}

func (s *AccountService) RegisterAdmin(ctx context.Context, in *types.RegisterAdminInput) (string, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateInput(in); err != nil {
		return "", err
	}

	if s.config.AdminSecret == "" || subtle.ConstantTimeCompare([]byte(in.AdminSecret), []byte(s.config.AdminSecret)) != 1 {
		return "", types.NewError(types.ErrForbidden, "Invalid admin secret")
	}

	email := in.Email
	if err := s.ensureEmailAvailable(ctx, email); err != nil {
		return "", err
	}

	userID, err := s.signUp(ctx, email, in.Password, nil)
	if err != nil {
		return "", err
	}

	user := &types.User{
		ID:         userID,
		Email:      email,
		UserType:   types.UserTypeAdmin,
		IsActive:   true,
		IsVerified: true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		s.rollbackAccount(ctx, "", email)
		return "", types.Persistence("Failed to create user record", err)
	}

	if err := s.admins.Create(ctx, &types.Admin{UserID: userID}); err != nil {
		s.rollbackAccount(ctx, userID, email)
		return "", types.Persistence("Failed to create admin profile", err)
	}

	s.logger.WithField("user_id", userID).Info("admin registered")

	return userID, nil
}

func (s *AccountService) ensureEmailAvailable(ctx context.Context, email string) error {
	_, err := s.users.UserByEmail(ctx, email)
	switch {
	case err == nil:
		return types.NewError(types.ErrEmailExists, "Email already registered")
	case errors.Is(err, types.ErrUserNotFound):
		return nil
	default:
		return types.Persistence("Failed to check email", err)
	}
}

func (s *AccountService) signUp(ctx context.Context, email, password string, attributes map[string]string) (string, error) {
	userID, err := s.identity.SignUp(ctx, email, password, attributes)
	if err != nil {
		if errors.Is(err, types.ErrEmailExists) {
			return "", types.NewError(types.ErrEmailExists, "Email already registered")
		}
		return "", types.Persistence("Failed to create account", err)
	}
	return userID, nil
}

// rollbackAccount undoes a half-finished signup. Failures are logged; the
// caller already has an error to report.
func (s *AccountService) rollbackAccount(ctx context.Context, userID, email string) {
	if userID != "" {
		if err := s.users.Delete(ctx, userID); err != nil {
			s.logger.WithError(err).WithField("user_id", userID).Error("failed to roll back user record")
		}
	}

	if err := s.identity.DeleteUser(ctx, email); err != nil {
		s.logger.WithError(err).WithField("email", email).Error("failed to roll back identity user")
	}
}

func (s *AccountService) Login(ctx context.Context, in *types.LoginInput) (*LoginResult, error) {
	if err := validateInput(in); err != nil {
		return nil, types.NewValidationError("Email and password are required")
	}

	session, err := s.identity.SignIn(ctx, normalizeEmail(in.Email), in.Password)
	if err != nil {
		if errors.Is(err, types.ErrInvalidCredentials) {
			return nil, types.NewError(types.ErrInvalidCredentials, "Invalid email or password")
		}
		return nil, fmt.Errorf("failed to sign in: %w", err)
	}

	user, err := s.activeUser(ctx, session.Subject)
	if err != nil {
		return nil, err
	}

	profile, err := s.composeProfile(ctx, user)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate(user.ID, user.Email, user.UserType)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	return &LoginResult{
		Message: "Login successful",
		Token:   token,
		User:    profile,
		Session: session,
	}, nil
}

func (s *AccountService) Refresh(ctx context.Context, in *types.RefreshInput) (*RefreshResult, error) {
	if err := validateInput(in); err != nil {
		return nil, types.NewValidationError("Refresh token is required")
	}

	session, err := s.identity.Refresh(ctx, in.RefreshToken)
	if err != nil {
		if errors.Is(err, types.ErrInvalidCredentials) {
			return nil, types.NewError(types.ErrUnauthorized, "Invalid or expired refresh token")
		}
		return nil, fmt.Errorf("failed to refresh session: %w", err)
	}

	user, err := s.activeUser(ctx, session.Subject)
	if err != nil {
		return nil, err
	}

	profile, err := s.composeProfile(ctx, user)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate(user.ID, user.Email, user.UserType)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	return &RefreshResult{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		ExpiresIn:    session.ExpiresIn,
		Token:        token,
		User:         profile,
	}, nil
}

// ChangePassword re-authenticates email with the current password before
// handing the change to the identity provider.
func (s *AccountService) ChangePassword(ctx context.Context, email string, in *types.ChangePasswordInput) error {
	if err := validateInput(in); err != nil {
		return err
	}

	session, err := s.identity.SignIn(ctx, normalizeEmail(email), in.CurrentPassword)
	if err != nil {
		if errors.Is(err, types.ErrInvalidCredentials) {
			return types.NewValidationError("Current password is incorrect")
		}
		return fmt.Errorf("failed to verify current password: %w", err)
	}

	if err := s.identity.ChangePassword(ctx, session.AccessToken, in.CurrentPassword, in.NewPassword); err != nil {
		return types.Persistence("Failed to change password", err)
	}

	return nil
}

func (s *AccountService) Profile(ctx context.Context, userID string) (map[string]any, error) {
	user, err := s.users.User(ctx, userID)
	if err != nil {
		return nil, types.Persistence("Failed to fetch user", err)
	}
	return s.composeProfile(ctx, user)
}

func (s *AccountService) activeUser(ctx context.Context, userID string) (*types.User, error) {
	user, err := s.users.User(ctx, userID)
	if err != nil {
		if errors.Is(err, types.ErrUserNotFound) {
			return nil, types.NewError(types.ErrUserNotFound, "User profile not found")
		}
		return nil, types.Persistence("Failed to fetch user", err)
	}

	if !user.IsActive {
		return nil, types.NewError(types.ErrForbidden, "Account is disabled")
	}

	return user, nil
}

// composeProfile flattens the users row and its role row into one object.
func (s *AccountService) composeProfile(ctx context.Context, user *types.User) (map[string]any, error) {
	var (
		role any
		err  error
	)

	switch user.UserType {
	case types.UserTypeDonor:
		role, err = s.donors.Donor(ctx, user.ID)
	case types.UserTypeOrganization:
		role, err = s.orgs.Organization(ctx, user.ID)
	case types.UserTypeAdmin:
		role, err = s.admins.Admin(ctx, user.ID)
	default:
		err = fmt.Errorf("unknown user type %q", user.UserType)
	}
	if err != nil {
		return nil, &types.PersistenceError{Op: "Failed to fetch role profile", Err: err}
	}

	profile, err := utils.MergeJSON(role, user)
	if err != nil {
		return nil, fmt.Errorf("failed to compose profile: %w", err)
	}

	return profile, nil
}
