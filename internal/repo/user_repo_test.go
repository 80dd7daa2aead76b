package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Kroplewski-M/student-showcase/internal/model"
	appErr "github.com/Kroplewski-M/student-showcase/internal/pkg/errors"
	"github.com/Kroplewski-M/student-showcase/test/testutil"
)

func TestUserLifecycle(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	clearUser(t, db, "2000001")

	creds := NewCredentialRepo(db)
	users := NewUserRepo(db)
	ctx := context.Background()

	_, err := users.GetByID(ctx, "2000001")
	require.ErrorIs(t, err, appErr.ErrNotFound)

	_, err = creds.CreateUser(ctx, "2000001", "hash")
	require.NoError(t, err)

	user, err := users.GetByID(ctx, "2000001")
	require.NoError(t, err)
	require.Equal(t, "2000001", user.ID)
	require.False(t, user.Verified)
	require.Nil(t, user.FirstName)
	require.Equal(t, "hash", user.PasswordHash)

	verified, err := users.ExistsVerified(ctx, "2000001")
	require.NoError(t, err)
	require.False(t, verified)

	// profile is hidden until the account is verified
	_, err = users.GetProfile(ctx, "2000001")
	require.ErrorIs(t, err, appErr.ErrNotFound)

	token, err := creds.IssueVerificationToken(ctx, "2000001")
	require.NoError(t, err)
	_, err = creds.ConsumeVerificationToken(ctx, token)
	require.NoError(t, err)

	first := "Ada"
	last := "Lovelace"
	require.NoError(t, users.UpdateProfile(ctx, "2000001", model.ProfileUpdate{
		FirstName: &first,
		LastName:  &last,
	}))

	profile, err := users.GetProfile(ctx, "2000001")
	require.NoError(t, err)
	require.Equal(t, "Ada", *profile.FirstName)
	require.Equal(t, "Lovelace", *profile.LastName)
	require.Nil(t, profile.CourseName)
	require.Nil(t, profile.ImageName)

	// full replacement: omitted fields clear
	require.NoError(t, users.UpdateProfile(ctx, "2000001", model.ProfileUpdate{FirstName: &first}))
	profile, err = users.GetProfile(ctx, "2000001")
	require.NoError(t, err)
	require.Nil(t, profile.LastName)
}

func TestReplaceImage(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	clearUser(t, db, "2000002")

	creds := NewCredentialRepo(db)
	users := NewUserRepo(db)
	ctx := context.Background()

	_, err := creds.CreateUser(ctx, "2000002", "hash")
	require.NoError(t, err)

	_, err = users.GetImage(ctx, "2000002")
	require.ErrorIs(t, err, appErr.ErrNotFound)

	firstFile := &model.File{OldFileName: "me.png", NewFileName: "a1", FileType: "image/png", SizeBytes: 10, Extension: "png"}
	require.NoError(t, users.ReplaceImage(ctx, "2000002", firstFile))
	require.NotEmpty(t, firstFile.ID)

	got, err := users.GetImage(ctx, "2000002")
	require.NoError(t, err)
	require.Equal(t, firstFile.ID, got.ID)

	secondFile := &model.File{OldFileName: "me2.jpg", NewFileName: "b2", FileType: "image/jpeg", SizeBytes: 20, Extension: "jpg"}
	require.NoError(t, users.ReplaceImage(ctx, "2000002", secondFile))

	got, err = users.GetImage(ctx, "2000002")
	require.NoError(t, err)
	require.Equal(t, secondFile.ID, got.ID)

	// old file row is gone
	var count int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM files WHERE id = $1`, firstFile.ID).Scan(&count))
	require.Zero(t, count)

	require.ErrorIs(t, users.ReplaceImage(ctx, "0000000", &model.File{}), appErr.ErrNotFound)
}
