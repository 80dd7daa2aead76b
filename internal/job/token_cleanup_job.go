package job

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/Kroplewski-M/student-showcase/internal/service"
)

// TokenCleanupJob purges expired verification and reset tokens. Expired rows
// are already unusable, this just keeps the tables from growing forever.
type TokenCleanupJob struct {
	creds service.CredentialStore
}

func NewTokenCleanupJob(creds service.CredentialStore) *TokenCleanupJob {
	return &TokenCleanupJob{creds: creds}
}

func (j *TokenCleanupJob) Name() string {
	return "token_cleanup"
}

func (j *TokenCleanupJob) Run(ctx context.Context) error {
	if j.creds == nil {
		return nil
	}
	removed, err := j.creds.DeleteExpiredTokens(ctx)
	if err != nil {
		return err
	}
	if removed > 0 {
		logutil.GetLogger(ctx).Info("expired tokens removed", zap.Int64("count", removed))
	}
	return nil
}
