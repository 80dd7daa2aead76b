package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/Kroplewski-M/student-showcase/internal/model"
	appErr "github.com/Kroplewski-M/student-showcase/internal/pkg/errors"
	"github.com/Kroplewski-M/student-showcase/internal/pkg/password"
)

// AuthService drives account registration, login and the verification and
// password reset token flows.
type AuthService struct {
	users    UserStore
	creds    CredentialStore
	notifier Notifier
}

func NewAuthService(users UserStore, creds CredentialStore, notifier Notifier) *AuthService {
	return &AuthService{users: users, creds: creds, notifier: notifier}
}

// Register creates an unverified account and emails a verification token to
// the student's university address.
func (s *AuthService) Register(ctx context.Context, studentID string, plainPassword string) error {
	hash, err := password.Hash(plainPassword)
	if err != nil {
		return err
	}
	if _, err := s.creds.CreateUser(ctx, studentID, hash); err != nil {
		if appErr.IsConflict(err) {
			return appErr.ErrUserAlreadyExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	token, err := s.creds.IssueVerificationToken(ctx, studentID)
	if err != nil {
		return fmt.Errorf("issue verification token: %w", err)
	}
	if err := s.notifier.SendVerification(ctx, studentID, token); err != nil {
		logutil.GetLogger(ctx).Error("send verification mail failed", zap.String("user_id", studentID), zap.Error(err))
		return appErr.ErrNotification
	}
	return nil
}

// Login checks the credentials and returns the account. Missing accounts and
// bad passwords collapse into the same error. Any attempt against an
// unverified account, whatever the password, re-sends the verification mail
// and is rejected before the hash is even compared.
func (s *AuthService) Login(ctx context.Context, studentID string, plainPassword string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		if appErr.IsNotFound(err) {
			return nil, appErr.ErrWrongCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !user.Verified {
		token, err := s.creds.IssueVerificationToken(ctx, studentID)
		if err != nil {
			return nil, fmt.Errorf("reissue verification token: %w", err)
		}
		if err := s.notifier.SendVerification(ctx, studentID, token); err != nil {
			logutil.GetLogger(ctx).Error("send verification mail failed", zap.String("user_id", studentID), zap.Error(err))
			return nil, appErr.ErrNotification
		}
		return nil, appErr.ErrUserNotVerified
	}
	ok, err := password.Verify(plainPassword, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, appErr.ErrWrongCredentials
	}
	return user, nil
}

// VerifyUser consumes a verification token and marks its account verified.
func (s *AuthService) VerifyUser(ctx context.Context, token string) error {
	if _, err := uuid.Parse(token); err != nil {
		return appErr.ErrVerifyTokenNotFound
	}
	if _, err := s.creds.ConsumeVerificationToken(ctx, token); err != nil {
		if appErr.IsNotFound(err) {
			return appErr.ErrVerifyTokenNotFound
		}
		return fmt.Errorf("consume verification token: %w", err)
	}
	return nil
}

// RequestPasswordReset issues a reset token and mails it. When the account
// does not exist or is unverified the request silently succeeds so callers
// cannot discover which student ids are registered.
func (s *AuthService) RequestPasswordReset(ctx context.Context, studentID string) error {
	token, err := s.creds.IssueResetToken(ctx, studentID)
	if err != nil {
		if appErr.IsNotFound(err) {
			logutil.GetLogger(ctx).Info("reset requested for unknown or unverified account", zap.String("user_id", studentID))
			return nil
		}
		return fmt.Errorf("issue reset token: %w", err)
	}
	if err := s.notifier.SendPasswordReset(ctx, studentID, token); err != nil {
		logutil.GetLogger(ctx).Error("send reset mail failed", zap.String("user_id", studentID), zap.Error(err))
		return appErr.ErrNotification
	}
	return nil
}

// ResetTokenExists reports whether a reset token is live, for the pre-flight
// check the reset form does before showing itself.
func (s *AuthService) ResetTokenExists(ctx context.Context, token string) (bool, error) {
	if _, err := uuid.Parse(token); err != nil {
		return false, nil
	}
	return s.creds.ResetTokenExists(ctx, token)
}

// ResetPassword consumes a reset token and installs the new password.
func (s *AuthService) ResetPassword(ctx context.Context, token string, plainPassword string) error {
	if _, err := uuid.Parse(token); err != nil {
		return appErr.ErrResetTokenNotValid
	}
	hash, err := password.Hash(plainPassword)
	if err != nil {
		return err
	}
	if err := s.creds.ConsumeResetToken(ctx, token, hash); err != nil {
		if appErr.IsNotFound(err) {
			return appErr.ErrResetTokenNotValid
		}
		return fmt.Errorf("consume reset token: %w", err)
	}
	return nil
}

// AccountVerified reports whether the account behind a session token is still
// present and verified. The session middleware calls this on every request.
func (s *AuthService) AccountVerified(ctx context.Context, studentID string) (bool, error) {
	return s.users.ExistsVerified(ctx, studentID)
}
