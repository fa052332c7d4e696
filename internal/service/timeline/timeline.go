package timeline

import (
	"context"
	"strings"

	"github.com/tegarrramadhaaan/timeline/internal/apperrors"
	"github.com/tegarrramadhaaan/timeline/internal/logger"
	"github.com/tegarrramadhaaan/timeline/internal/models"
	"github.com/tegarrramadhaaan/timeline/internal/repository"
)

type TimelineService struct {
	// Repository to access long term data
	entryRepo repository.EntryRepo

	logger logger.Logger
}

func NewService(entryRepo repository.EntryRepo, l logger.Logger) *TimelineService {
	if l == nil {
		l = logger.NewNoOpLogger()
	}

	return &TimelineService{
		entryRepo: entryRepo,
		logger:    l,
	}
}

// AddEntry creates an entry owned by the authenticated user.
// Content is trimmed first; blank content returns apperrors.ErrContentEmpty.
func (s *TimelineService) AddEntry(ctx context.Context, user *models.SessionUser, content string) (models.Entry, error) {
	if user == nil {
		return models.Entry{}, apperrors.ErrUnauthenticated
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return models.Entry{}, apperrors.ErrContentEmpty
	}

	return s.entryRepo.Create(ctx, user.ID, content)
}

// ListFeed returns every user's entries, most recent first
func (s *TimelineService) ListFeed(ctx context.Context) ([]models.FeedEntry, error) {
	return s.entryRepo.ListFeed(ctx)
}

// RemoveEntry deletes the entry if the authenticated user owns it.
// The owner id always comes from the session, never from the client, so
// the store's query predicate is the ownership check. Deleting a missing
// or non-owned entry is a silent no-op.
func (s *TimelineService) RemoveEntry(ctx context.Context, user *models.SessionUser, entryID int64) error {
	if user == nil {
		return apperrors.ErrUnauthenticated
	}

	deleted, err := s.entryRepo.Delete(ctx, user.ID, entryID)
	if err != nil {
		return err
	}

	if !deleted {
		s.logger.Debug("delete refused", "entry_id", entryID, "user_id", user.ID)
	}

	return nil
}

// Search returns entries containing keyword as a literal substring,
// case-insensitive, most recent first. An empty keyword returns the whole
// feed; no keyword ever causes an error.
func (s *TimelineService) Search(ctx context.Context, keyword string) ([]models.FeedEntry, error) {
	if keyword == "" {
		return s.entryRepo.ListFeed(ctx)
	}

	return s.entryRepo.Search(ctx, keyword)
}
