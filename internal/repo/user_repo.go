package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/didi/gendry/builder"
	"github.com/google/uuid"

	"github.com/Kroplewski-M/student-showcase/internal/model"
	"github.com/Kroplewski-M/student-showcase/internal/pkg/dbutil"
	appErr "github.com/Kroplewski-M/student-showcase/internal/pkg/errors"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

var userColumns = []string{
	"id", "first_name", "last_name", "personal_email", "description",
	"course_id", "image_id", "verified", "password", "created_at", "updated_at",
}

func scanUser(rows *sql.Rows) (*model.User, error) {
	var user model.User
	err := rows.Scan(
		&user.ID, &user.FirstName, &user.LastName, &user.PersonalEmail, &user.Description,
		&user.CourseID, &user.ImageID, &user.Verified, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) GetByID(ctx context.Context, studentID string) (*model.User, error) {
	where := map[string]interface{}{"id": studentID}
	sqlStr, args, err := builder.BuildSelect("users", where, userColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		return nil, appErr.ErrNotFound
	}
	return scanUser(rows)
}

func (r *UserRepo) ExistsVerified(ctx context.Context, studentID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1 AND verified = TRUE)`,
		studentID,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *UserRepo) GetProfile(ctx context.Context, studentID string) (*model.UserProfile, error) {
	var profile model.UserProfile
	err := r.db.QueryRowContext(ctx, `
		SELECT u.id,
		       u.first_name,
		       u.last_name,
		       u.personal_email,
		       u.description,
		       c.name,
		       f.new_file_name || '.' || f.extension
		FROM users u
		LEFT JOIN courses c ON u.course_id = c.id
		LEFT JOIN files f ON u.image_id = f.id
		WHERE u.id = $1 AND u.verified = TRUE`,
		studentID,
	).Scan(
		&profile.ID, &profile.FirstName, &profile.LastName, &profile.PersonalEmail,
		&profile.Description, &profile.CourseName, &profile.ImageName,
	)
	if err == sql.ErrNoRows {
		return nil, appErr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *UserRepo) UpdateProfile(ctx context.Context, studentID string, update model.ProfileUpdate) error {
	where := map[string]interface{}{"id": studentID}
	fields := map[string]interface{}{
		"first_name":     update.FirstName,
		"last_name":      update.LastName,
		"personal_email": update.PersonalEmail,
		"description":    update.Description,
		"course_id":      update.CourseID,
		"updated_at":     time.Now(),
	}
	sqlStr, args, err := builder.BuildUpdate("users", where, fields)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

// ReplaceImage swaps the user's profile image for a fresh file row. The old
// file row, if any, is removed in the same transaction so a user never owns
// more than one image record.
func (r *UserRepo) ReplaceImage(ctx context.Context, studentID string, file *model.File) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var oldID *string
	err = tx.QueryRowContext(ctx, `SELECT image_id FROM users WHERE id = $1 FOR UPDATE`, studentID).Scan(&oldID)
	if err == sql.ErrNoRows {
		return appErr.ErrNotFound
	}
	if err != nil {
		return err
	}
	if oldID != nil {
		if _, err := tx.ExecContext(ctx, `UPDATE users SET image_id = NULL WHERE id = $1`, studentID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM files WHERE id = $1`, *oldID); err != nil {
			return err
		}
	}
	if file.ID == "" {
		file.ID = uuid.NewString()
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO files (id, old_file_name, new_file_name, file_type, size_bytes, extension)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		file.ID, file.OldFileName, file.NewFileName, file.FileType, file.SizeBytes, file.Extension,
	)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `UPDATE users SET image_id = $1, updated_at = now() WHERE id = $2`, file.ID, studentID)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (r *UserRepo) GetImage(ctx context.Context, studentID string) (*model.File, error) {
	var file model.File
	err := r.db.QueryRowContext(ctx, `
		SELECT f.id, f.old_file_name, f.new_file_name, f.file_type, f.size_bytes, f.extension
		FROM files f
		WHERE f.id = (SELECT image_id FROM users WHERE id = $1)`,
		studentID,
	).Scan(&file.ID, &file.OldFileName, &file.NewFileName, &file.FileType, &file.SizeBytes, &file.Extension)
	if err == sql.ErrNoRows {
		return nil, appErr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &file, nil
}
