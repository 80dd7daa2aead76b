package errors

import "errors"

// Domain outcomes are sentinel errors so callers can branch with errors.Is
// and the HTTP boundary can map each one to a status in a single place.
var (
	ErrEmptyPassword     = errors.New("password cannot be empty")
	ErrPasswordTooLong   = errors.New("exceeded max password length")
	ErrHashing           = errors.New("error while hashing password")
	ErrInvalidHashFormat = errors.New("invalid password hash format")

	ErrInvalidToken     = errors.New("authentication token is invalid or expired")
	ErrTokenNotProvided = errors.New("you are not logged in, please provide a token")
	ErrPermissionDenied = errors.New("you do not have permission to perform this action")

	ErrWrongCredentials  = errors.New("student id or password is incorrect")
	ErrUserNotVerified   = errors.New("user has not verified their account, please check your email")
	ErrUserAlreadyExists = errors.New("a user with this student id already exists")

	ErrVerifyTokenNotFound = errors.New("the token provided does not exist")
	ErrResetTokenNotValid  = errors.New("this password reset link is no longer valid")

	ErrNotification = errors.New("email delivery failed")

	// Store-level sentinels shared by all repos.
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	ErrInvalid  = errors.New("invalid")
	ErrTooMany  = errors.New("too many requests")
	ErrInternal = errors.New("internal")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
