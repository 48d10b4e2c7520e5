package models

import "time"

// DeletedCommentContent replaces the body of a soft-deleted comment.
// Comments with replies are never physically removed so the thread stays intact.
const DeletedCommentContent = "[This comment has been deleted]"

// UserRole determines what a user may do in the dashboard.
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleManager  UserRole = "manager"
	RoleSalesRep UserRole = "sales_rep"
)

// UserProfile is a dashboard user referenced by comments.
type UserProfile struct {
	ID          string    `json:"id" db:"id"`
	DisplayName string    `json:"display_name" db:"display_name"`
	Role        UserRole  `json:"role" db:"role"`
	AvatarURL   string    `json:"avatar_url,omitempty" db:"avatar_url"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	LastActive  time.Time `json:"last_active" db:"last_active"`
}

// Comment is a rich-text note on a lead, optionally replying to another comment.
// ParentID forms a tree by construction; cycles are impossible because a reply
// can only reference an existing comment.
type Comment struct {
	ID         string    `json:"id" db:"id"`
	LeadID     string    `json:"lead_id" db:"lead_id"`
	UserID     string    `json:"user_id" db:"user_id"`
	Content    string    `json:"content" db:"content"`
	IsInternal bool      `json:"is_internal" db:"is_internal"`
	ParentID   string    `json:"parent_id,omitempty" db:"parent_id"`
	IsEdited   bool      `json:"is_edited" db:"is_edited"`
	Deleted    bool      `json:"deleted" db:"deleted"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// CreateCommentRequest is the payload for posting a comment or reply.
type CreateCommentRequest struct {
	UserID     string `json:"user_id" validate:"required"`
	Content    string `json:"content" validate:"required,max=10000"`
	IsInternal *bool  `json:"is_internal"`
	ParentID   string `json:"parent_id"`
}

// UpdateCommentRequest is the payload for editing a comment.
type UpdateCommentRequest struct {
	Content    *string `json:"content" validate:"omitempty,min=1,max=10000"`
	IsInternal *bool   `json:"is_internal"`
}

// CommentUpdate carries merged field values for a stored comment.
type CommentUpdate struct {
	Content    *string
	IsInternal *bool
	IsEdited   *bool
	Deleted    *bool
}

// Apply merges the update into a copy of the comment and returns it.
func (u CommentUpdate) Apply(c Comment) Comment {
	if u.Content != nil {
		c.Content = *u.Content
	}
	if u.IsInternal != nil {
		c.IsInternal = *u.IsInternal
	}
	if u.IsEdited != nil {
		c.IsEdited = *u.IsEdited
	}
	if u.Deleted != nil {
		c.Deleted = *u.Deleted
	}
	return c
}
