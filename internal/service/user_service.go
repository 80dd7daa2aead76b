package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/Kroplewski-M/student-showcase/internal/filestore"
	"github.com/Kroplewski-M/student-showcase/internal/model"
	appErr "github.com/Kroplewski-M/student-showcase/internal/pkg/errors"
)

var imageExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/webp": "webp",
}

// UserService handles profile reads and writes for the signed-in student.
type UserService struct {
	users    UserStore
	refs     ReferenceStore
	store    filestore.Store
	maxImage int64
}

func NewUserService(users UserStore, refs ReferenceStore, store filestore.Store, maxImageBytes int64) *UserService {
	return &UserService{users: users, refs: refs, store: store, maxImage: maxImageBytes}
}

func (s *UserService) GetProfile(ctx context.Context, studentID string) (*model.UserProfile, error) {
	return s.users.GetProfile(ctx, studentID)
}

// UpdateProfile replaces the editable fields wholesale. A course id that
// isn't in the courses table is rejected before touching the row.
func (s *UserService) UpdateProfile(ctx context.Context, studentID string, update model.ProfileUpdate) error {
	if update.CourseID != nil {
		ok, err := s.refs.CourseExists(ctx, *update.CourseID)
		if err != nil {
			return fmt.Errorf("check course: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: unknown course", appErr.ErrInvalid)
		}
	}
	return s.users.UpdateProfile(ctx, studentID, update)
}

// UploadImage sniffs the payload, stores it under a fresh key and swaps the
// user's image record to point at it.
func (s *UserService) UploadImage(ctx context.Context, studentID string, fileName string, r filestore.ReadSeekCloser, size int64) (*model.File, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: empty upload", appErr.ErrInvalid)
	}
	if size > s.maxImage {
		return nil, fmt.Errorf("%w: image exceeds %d bytes", appErr.ErrInvalid, s.maxImage)
	}

	head := make([]byte, 512)
	n, err := r.Read(head)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	contentType := http.DetectContentType(head[:n])
	contentType = strings.Split(contentType, ";")[0]
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported image type %s", appErr.ErrInvalid, contentType)
	}
	// hand the store the whole payload, not the remainder after sniffing
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind upload: %w", err)
	}

	file := &model.File{
		ID:          uuid.NewString(),
		OldFileName: fileName,
		NewFileName: uuid.NewString(),
		FileType:    contentType,
		SizeBytes:   size,
		Extension:   ext,
	}
	key := file.NewFileName + "." + file.Extension
	if err := s.store.Save(ctx, key, r, size); err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}
	if err := s.users.ReplaceImage(ctx, studentID, file); err != nil {
		logutil.GetLogger(ctx).Error("image stored but record swap failed",
			zap.String("user_id", studentID), zap.String("key", key), zap.Error(err))
		return nil, err
	}
	return file, nil
}

func (s *UserService) GetImage(ctx context.Context, studentID string) (*model.File, error) {
	return s.users.GetImage(ctx, studentID)
}
