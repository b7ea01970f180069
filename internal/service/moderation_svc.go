package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/454Muscle/DDL-sub000/internal/model"
)

// ModerationStore is what the moderation workflow needs from persistence.
// Approve must be atomic: flipping the submission status and publishing the
// catalog entry either both happen or neither does.
type ModerationStore interface {
	Approve(ctx context.Context, id string) (*model.Submission, error)
	Reject(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*model.Submission, error)
	List(ctx context.Context, status string, page, limit int) (model.PaginatedSubmissions, error)
	MarkSeen(ctx context.Context, ids []string) error
	CountPending(ctx context.Context) (int, error)
}

// ModerationService drives the pending→approved/rejected state machine.
type ModerationService struct {
	subs  ModerationStore
	email *EmailService
}

func NewModerationService(subs ModerationStore, email *EmailService) *ModerationService {
	return &ModerationService{subs: subs, email: email}
}

// Approve publishes a pending submission to the catalog and notifies the
// submitter. Repeating the call on an already-approved submission returns
// model.ErrInvalidTransition.
func (s *ModerationService) Approve(ctx context.Context, id string) (*model.Submission, error) {
	sub, err := s.subs.Approve(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.email != nil {
		s.email.SubmissionApproved(*sub)
	}
	return sub, nil
}

// Reject marks a pending submission rejected. Nothing is published.
func (s *ModerationService) Reject(ctx context.Context, id string) error {
	return s.subs.Reject(ctx, id)
}

// Delete removes a submission in any status. A second delete of the same id
// reports model.ErrNotFound.
func (s *ModerationService) Delete(ctx context.Context, id string) error {
	return s.subs.Delete(ctx, id)
}

func (s *ModerationService) Get(ctx context.Context, id string) (*model.Submission, error) {
	return s.subs.FindByID(ctx, id)
}

// List pages through submissions, optionally filtered by status, and marks
// the returned pending items as seen by the admin.
func (s *ModerationService) List(ctx context.Context, status string, page, limit int) (model.PaginatedSubmissions, error) {
	res, err := s.subs.List(ctx, status, page, limit)
	if err != nil {
		return model.PaginatedSubmissions{}, err
	}

	var unseen []string
	for _, sub := range res.Items {
		if sub.Status == model.StatusPending && !sub.SeenByAdmin {
			unseen = append(unseen, sub.ID)
		}
	}
	if len(unseen) > 0 {
		if err := s.subs.MarkSeen(ctx, unseen); err != nil {
			log.Warn().Err(err).Msg("failed to mark submissions as seen")
		}
	}
	return res, nil
}

// PendingCount reports how many submissions await review.
func (s *ModerationService) PendingCount(ctx context.Context) (int, error) {
	return s.subs.CountPending(ctx)
}

// ApproveMany applies Approve to each id independently. One bad id does not
// stop the rest.
func (s *ModerationService) ApproveMany(ctx context.Context, ids []string) model.BulkResult {
	var res model.BulkResult
	for _, id := range ids {
		if _, err := s.Approve(ctx, id); err != nil {
			log.Debug().Err(err).Str("submission_id", id).Msg("bulk approve item failed")
			res.FailureCount++
			continue
		}
		res.SuccessCount++
	}
	return res
}

// RejectMany applies Reject to each id independently.
func (s *ModerationService) RejectMany(ctx context.Context, ids []string) model.BulkResult {
	var res model.BulkResult
	for _, id := range ids {
		if err := s.subs.Reject(ctx, id); err != nil {
			log.Debug().Err(err).Str("submission_id", id).Msg("bulk reject item failed")
			res.FailureCount++
			continue
		}
		res.SuccessCount++
	}
	return res
}

// DeleteMany applies Delete to each id independently.
func (s *ModerationService) DeleteMany(ctx context.Context, ids []string) model.BulkResult {
	var res model.BulkResult
	for _, id := range ids {
		if err := s.subs.Delete(ctx, id); err != nil {
			log.Debug().Err(err).Str("submission_id", id).Msg("bulk delete item failed")
			res.FailureCount++
			continue
		}
		res.SuccessCount++
	}
	return res
}
