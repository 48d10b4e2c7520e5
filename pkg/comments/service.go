package comments

import (
	"context"
	"fmt"

	"github.com/microcosm-cc/bluemonday"

	"github.com/jordanlanch/leadflow/pkg/datasync"
	"github.com/jordanlanch/leadflow/pkg/domain"
	"github.com/jordanlanch/leadflow/pkg/logger"
	"github.com/jordanlanch/leadflow/pkg/models"
	"github.com/jordanlanch/leadflow/pkg/store"
)

// Service owns comment business rules: the reply depth cap, rich-text
// sanitization, edit tracking and the soft-delete policy. CRUD itself goes
// through the mutation gateway so comments get the same optimistic-update
// behavior as every other record.
type Service struct {
	store   *store.Store
	gateway *datasync.Gateway
	policy  *bluemonday.Policy
	log     logger.Logger
}

// NewService creates a comment service.
func NewService(st *store.Store, gw *datasync.Gateway, log logger.Logger) *Service {
	if log == nil {
		log = logger.Default()
	}
	return &Service{
		store:   st,
		gateway: gw,
		policy:  bluemonday.UGCPolicy(),
		log:     log,
	}
}

// Create posts a comment or reply on a lead. Replies beyond the rendered
// depth cap are rejected here, at the creation boundary; the thread builder
// itself never enforces depth.
func (s *Service) Create(ctx context.Context, leadID string, req models.CreateCommentRequest) (models.Comment, error) {
	if _, ok := s.store.Lead(leadID); !ok {
		return models.Comment{}, domain.NewNotFoundError("lead")
	}

	if req.ParentID != "" {
		parent, ok := s.store.Comment(req.ParentID)
		if !ok {
			return models.Comment{}, domain.NewNotFoundError("parent comment")
		}
		if parent.LeadID != leadID {
			return models.Comment{}, domain.NewValidationError("parent comment belongs to a different lead")
		}
		depth := Depth(s.store.CommentsByLead(leadID), req.ParentID)
		if depth >= MaxReplyDepth {
			return models.Comment{}, domain.NewValidationError(
				fmt.Sprintf("replies are limited to %d levels", MaxReplyDepth))
		}
	}

	isInternal := true
	if req.IsInternal != nil {
		isInternal = *req.IsInternal
	}

	comment := models.Comment{
		LeadID:     leadID,
		UserID:     req.UserID,
		Content:    s.policy.Sanitize(req.Content),
		IsInternal: isInternal,
		ParentID:   req.ParentID,
	}
	return s.gateway.CreateComment(ctx, comment)
}

// Update edits a comment's content or visibility. Content edits are
// sanitized and flagged with is_edited. Soft-deleted comments cannot be
// edited back into existence.
func (s *Service) Update(ctx context.Context, id string, req models.UpdateCommentRequest) (models.Comment, error) {
	current, ok := s.store.Comment(id)
	if !ok {
		return models.Comment{}, domain.NewNotFoundError("comment")
	}
	if current.Deleted {
		return models.Comment{}, domain.NewValidationError("cannot edit a deleted comment")
	}

	upd := models.CommentUpdate{IsInternal: req.IsInternal}
	if req.Content != nil {
		sanitized := s.policy.Sanitize(*req.Content)
		edited := true
		upd.Content = &sanitized
		upd.IsEdited = &edited
	}
	return s.gateway.UpdateComment(ctx, id, upd)
}

// Delete applies the threading deletion policy: a comment with replies keeps
// its place in the tree with its content replaced by the deleted sentinel; a
// comment without replies is removed outright.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, ok := s.store.Comment(id); !ok {
		return domain.NewNotFoundError("comment")
	}

	if len(s.store.CommentReplies(id)) > 0 {
		sentinel := models.DeletedCommentContent
		deleted := true
		edited := true
		_, err := s.gateway.UpdateComment(ctx, id, models.CommentUpdate{
			Content:  &sentinel,
			Deleted:  &deleted,
			IsEdited: &edited,
		})
		return err
	}

	return s.gateway.DeleteComment(ctx, id)
}

// Threads returns the reply tree for a lead's comments.
func (s *Service) Threads(leadID string) Thread {
	return BuildThreads(s.store.CommentsByLead(leadID))
}
