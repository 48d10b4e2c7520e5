package database

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/jordanlanch/leadflow/pkg/models"
)

const leadColumns = "id, name, email, phone, status, priority, source, notes, created_at, updated_at"

// ListLeads returns every lead, newest-first.
func (c *Client) ListLeads(ctx context.Context) ([]models.Lead, error) {
	leads := []models.Lead{}
	err := c.DB.SelectContext(ctx, &leads,
		"SELECT "+leadColumns+" FROM leads ORDER BY created_at DESC")
	if err != nil {
		return nil, mapError(err, "leads")
	}
	return leads, nil
}

// GetLead returns a single lead by id.
func (c *Client) GetLead(ctx context.Context, id string) (models.Lead, error) {
	var lead models.Lead
	err := c.DB.GetContext(ctx, &lead,
		"SELECT "+leadColumns+" FROM leads WHERE id = $1", id)
	if err != nil {
		return models.Lead{}, mapError(err, "lead")
	}
	return lead, nil
}

// CreateLead inserts a lead. The temporary client id is discarded; the
// database assigns the canonical id and returns the stored row.
func (c *Client) CreateLead(ctx context.Context, lead models.Lead) (models.Lead, error) {
	var created models.Lead
	err := c.DB.GetContext(ctx, &created, `
		INSERT INTO leads (name, email, phone, status, priority, source, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+leadColumns,
		lead.Name, lead.Email, lead.Phone, lead.Status, lead.Priority, lead.Source, lead.Notes)
	if err != nil {
		return models.Lead{}, mapError(err, "lead")
	}
	return created, nil
}

// UpdateLead applies a partial update and returns the stored row. updated_at
// is stamped server-side so concurrent writers converge on one value.
func (c *Client) UpdateLead(ctx context.Context, id string, upd models.LeadUpdate) (models.Lead, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}

	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Email != nil {
		add("email", *upd.Email)
	}
	if upd.Phone != nil {
		add("phone", *upd.Phone)
	}
	if upd.Status != nil {
		add("status", *upd.Status)
	}
	if upd.Priority != nil {
		add("priority", *upd.Priority)
	}
	if upd.Source != nil {
		add("source", *upd.Source)
	}
	if upd.Notes != nil {
		add("notes", *upd.Notes)
	}

	var updated models.Lead
	query := "UPDATE leads SET " + strings.Join(sets, ", ") +
		" WHERE id = $1 RETURNING " + leadColumns
	if err := c.DB.GetContext(ctx, &updated, query, args...); err != nil {
		return models.Lead{}, mapError(err, "lead")
	}
	return updated, nil
}

// DeleteLead removes a lead; child records cascade via foreign keys.
func (c *Client) DeleteLead(ctx context.Context, id string) error {
	res, err := c.DB.ExecContext(ctx, "DELETE FROM leads WHERE id = $1", id)
	if err != nil {
		return mapError(err, "lead")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return mapError(sql.ErrNoRows, "lead")
	}
	return nil
}
