package service

import (
	"context"

	"github.com/Kroplewski-M/student-showcase/internal/model"
)

// UserStore reads and updates account records.
type UserStore interface {
	GetByID(ctx context.Context, studentID string) (*model.User, error)
	ExistsVerified(ctx context.Context, studentID string) (bool, error)
	GetProfile(ctx context.Context, studentID string) (*model.UserProfile, error)
	UpdateProfile(ctx context.Context, studentID string, update model.ProfileUpdate) error
	ReplaceImage(ctx context.Context, studentID string, file *model.File) error
	GetImage(ctx context.Context, studentID string) (*model.File, error)
}

// CredentialStore owns passwords and the one-time token lifecycle.
type CredentialStore interface {
	CreateUser(ctx context.Context, studentID string, passwordHash string) (string, error)
	IssueVerificationToken(ctx context.Context, userID string) (string, error)
	IssueResetToken(ctx context.Context, userID string) (string, error)
	ConsumeVerificationToken(ctx context.Context, token string) (string, error)
	ResetTokenExists(ctx context.Context, token string) (bool, error)
	ConsumeResetToken(ctx context.Context, token string, passwordHash string) error
	DeleteExpiredTokens(ctx context.Context) (int64, error)
}

// Notifier delivers account emails to a student's university address.
type Notifier interface {
	SendVerification(ctx context.Context, studentID string, token string) error
	SendPasswordReset(ctx context.Context, studentID string, token string) error
}

// ReferenceStore lists the lookup tables backing profile dropdowns.
type ReferenceStore interface {
	ListCourses(ctx context.Context) ([]*model.Course, error)
	ListLinkTypes(ctx context.Context) ([]*model.LinkType, error)
	CourseExists(ctx context.Context, id int64) (bool, error)
}
