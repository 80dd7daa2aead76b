package repo

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/Kroplewski-M/student-showcase/internal/pkg/dbutil"
	appErr "github.com/Kroplewski-M/student-showcase/internal/pkg/errors"
)

// CredentialRepo owns account credentials and the one-time token tables.
// Token issuance and consumption always run inside a single transaction so
// that at most one token per purpose exists for a user and a consumed token
// can never be replayed.
type CredentialRepo struct {
	db *sql.DB
}

func NewCredentialRepo(db *sql.DB) *CredentialRepo {
	return &CredentialRepo{db: db}
}

func (r *CredentialRepo) CreateUser(ctx context.Context, studentID string, passwordHash string) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (id, password) VALUES ($1, $2) RETURNING id`,
		studentID, passwordHash,
	).Scan(&id)
	if err != nil {
		if dbutil.IsConflict(err) {
			return "", appErr.ErrConflict
		}
		return "", err
	}
	return id, nil
}

func (r *CredentialRepo) issueToken(ctx context.Context, table string, userID string, requireVerified bool) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	if requireVerified {
		// lock the account row so it cannot lose its verified flag while
		// this token is being issued
		var verified bool
		err := tx.QueryRowContext(ctx, `SELECT verified FROM users WHERE id = $1 FOR SHARE`, userID).Scan(&verified)
		if err == sql.ErrNoRows {
			return "", appErr.ErrNotFound
		}
		if err != nil {
			return "", err
		}
		if !verified {
			return "", appErr.ErrNotFound
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE user_id = $1`, userID); err != nil {
		return "", err
	}
	token := uuid.NewString()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO `+table+` (token, user_id, expired_at) VALUES ($1, $2, now() + interval '15 minutes')`,
		token, userID,
	)
	if err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return token, nil
}

// IssueVerificationToken replaces any outstanding verification token for the
// user with a fresh one.
func (r *CredentialRepo) IssueVerificationToken(ctx context.Context, userID string) (string, error) {
	return r.issueToken(ctx, "user_verifications", userID, false)
}

// IssueResetToken replaces any outstanding password reset token. Only
// verified accounts may hold one; the check shares the issuing transaction.
func (r *CredentialRepo) IssueResetToken(ctx context.Context, userID string) (string, error) {
	return r.issueToken(ctx, "user_password_resets", userID, true)
}

// ConsumeVerificationToken deletes the token and marks the owning account
// verified. Both happen in one transaction, so the token either verifies the
// account exactly once or not at all. Returns the verified user id.
func (r *CredentialRepo) ConsumeVerificationToken(ctx context.Context, token string) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	var userID string
	err = tx.QueryRowContext(ctx,
		`DELETE FROM user_verifications WHERE token = $1 AND expired_at > now() RETURNING user_id`,
		token,
	).Scan(&userID)
	if err == sql.ErrNoRows {
		return "", appErr.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	_, err = tx.ExecContext(ctx, `UPDATE users SET verified = TRUE, updated_at = now() WHERE id = $1`, userID)
	if err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return userID, nil
}

// ResetTokenExists reports whether an unexpired reset token is outstanding.
func (r *CredentialRepo) ResetTokenExists(ctx context.Context, token string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_password_resets WHERE token = $1 AND expired_at > now())`,
		token,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// ConsumeResetToken deletes the token and installs the new password hash in
// one transaction.
func (r *CredentialRepo) ConsumeResetToken(ctx context.Context, token string, passwordHash string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var userID string
	err = tx.QueryRowContext(ctx,
		`DELETE FROM user_password_resets WHERE token = $1 AND expired_at > now() RETURNING user_id`,
		token,
	).Scan(&userID)
	if err == sql.ErrNoRows {
		return appErr.ErrNotFound
	}
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `UPDATE users SET password = $1, updated_at = now() WHERE id = $2`, passwordHash, userID)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteExpiredTokens clears expired rows from both token tables and returns
// how many were removed.
func (r *CredentialRepo) DeleteExpiredTokens(ctx context.Context) (int64, error) {
	var total int64
	for _, table := range []string{"user_verifications", "user_password_resets"} {
		result, err := r.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE expired_at <= now()`)
		if err != nil {
			return total, err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return total, err
		}
		total += affected
	}
	return total, nil
}
