package database

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/jordanlanch/leadflow/pkg/models"
)

const commentColumns = "id, lead_id, user_id, content, is_internal, parent_id, is_edited, deleted, created_at, updated_at"

// commentRow mirrors models.Comment with a nullable parent column.
type commentRow struct {
	ID         string         `db:"id"`
	LeadID     string         `db:"lead_id"`
	UserID     string         `db:"user_id"`
	Content    string         `db:"content"`
	IsInternal bool           `db:"is_internal"`
	ParentID   sql.NullString `db:"parent_id"`
	IsEdited   bool           `db:"is_edited"`
	Deleted    bool           `db:"deleted"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

func (r commentRow) toModel() models.Comment {
	return models.Comment{
		ID:         r.ID,
		LeadID:     r.LeadID,
		UserID:     r.UserID,
		Content:    r.Content,
		IsInternal: r.IsInternal,
		ParentID:   r.ParentID.String,
		IsEdited:   r.IsEdited,
		Deleted:    r.Deleted,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func nullableID(id string) sql.NullString {
	return sql.NullString{String: id, Valid: id != ""}
}

// ListComments returns every comment, oldest-first.
func (c *Client) ListComments(ctx context.Context) ([]models.Comment, error) {
	rows := []commentRow{}
	err := c.DB.SelectContext(ctx, &rows,
		"SELECT "+commentColumns+" FROM lead_comments ORDER BY created_at ASC")
	if err != nil {
		return nil, mapError(err, "comments")
	}
	comments := make([]models.Comment, 0, len(rows))
	for _, r := range rows {
		comments = append(comments, r.toModel())
	}
	return comments, nil
}

// CreateComment inserts a comment and returns the stored row.
func (c *Client) CreateComment(ctx context.Context, comment models.Comment) (models.Comment, error) {
	var row commentRow
	err := c.DB.GetContext(ctx, &row, `
		INSERT INTO lead_comments (lead_id, user_id, content, is_internal, parent_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+commentColumns,
		comment.LeadID, comment.UserID, comment.Content, comment.IsInternal, nullableID(comment.ParentID))
	if err != nil {
		return models.Comment{}, mapError(err, "comment")
	}
	return row.toModel(), nil
}

// UpdateComment applies the provided fields and returns the stored row.
func (c *Client) UpdateComment(ctx context.Context, id string, upd models.CommentUpdate) (models.Comment, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}

	if upd.Content != nil {
		add("content", *upd.Content)
	}
	if upd.IsInternal != nil {
		add("is_internal", *upd.IsInternal)
	}
	if upd.IsEdited != nil {
		add("is_edited", *upd.IsEdited)
	}
	if upd.Deleted != nil {
		add("deleted", *upd.Deleted)
	}

	var row commentRow
	query := "UPDATE lead_comments SET " + strings.Join(sets, ", ") +
		" WHERE id = $1 RETURNING " + commentColumns
	if err := c.DB.GetContext(ctx, &row, query, args...); err != nil {
		return models.Comment{}, mapError(err, "comment")
	}
	return row.toModel(), nil
}

// DeleteComment physically removes a comment. Callers soft-delete instead when
// the comment still has replies.
func (c *Client) DeleteComment(ctx context.Context, id string) error {
	res, err := c.DB.ExecContext(ctx, "DELETE FROM lead_comments WHERE id = $1", id)
	if err != nil {
		return mapError(err, "comment")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return mapError(err, "comment")
	}
	if affected == 0 {
		return mapError(sql.ErrNoRows, "comment")
	}
	return nil
}
