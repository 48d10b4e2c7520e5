// Package testdata provides in-memory fakes and generators shared by tests.
package testdata

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jordanlanch/leadflow/pkg/domain"
	"github.com/jordanlanch/leadflow/pkg/models"
)

// FakePersistence is an in-memory domain.Persistence. Set Err to make every
// operation fail with it, which is how tests simulate an unreachable backend.
type FakePersistence struct {
	mu sync.Mutex

	Leads       map[string]models.Lead
	PhoneCalls  map[string]models.PhoneCall
	Emails      map[string]models.Email
	Evaluations map[string]models.Evaluation
	Comments    map[string]models.Comment

	Err error
}

var _ domain.Persistence = (*FakePersistence)(nil)

// NewFakePersistence returns an empty fake backend.
func NewFakePersistence() *FakePersistence {
	return &FakePersistence{
		Leads:       make(map[string]models.Lead),
		PhoneCalls:  make(map[string]models.PhoneCall),
		Emails:      make(map[string]models.Email),
		Evaluations: make(map[string]models.Evaluation),
		Comments:    make(map[string]models.Comment),
	}
}

// SetErr makes every subsequent operation fail with err. Pass nil to heal.
func (f *FakePersistence) SetErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Err = err
}

func (f *FakePersistence) failing() error {
	return f.Err
}

func (f *FakePersistence) ListLeads(context.Context) ([]models.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing(); err != nil {
		return nil, err
	}
	out := make([]models.Lead, 0, len(f.Leads))
	for _, l := range f.Leads {
		out = append(out, l)
	}
	return out, nil
}

func (f *FakePersistence) GetLead(_ context.Context, id string) (models.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing(); err != nil {
		return models.Lead{}, err
	}
	lead, ok := f.Leads[id]
	if !ok {
		return models.Lead{}, domain.NewNotFoundError("lead")
	}
	return lead, nil
}

func (f *FakePersistence) CreateLead(_ context.Context, lead models.Lead) (models.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing(); err != nil {
		return models.Lead{}, err
	}
	for _, existing := range f.Leads {
		if existing.Email == lead.Email {
			return models.Lead{}, domain.NewConflictError("a lead with this email already exists")
		}
	}
	lead.ID = uuid.NewString()
	f.Leads[lead.ID] = lead
	return lead, nil
}

func (f *FakePersistence) UpdateLead(_ context.Context, id string, upd models.LeadUpdate) (models.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing(); err != nil {
		return models.Lead{}, err
	}
	lead, ok := f.Leads[id]
	if !ok {
		return models.Lead{}, domain.NewNotFoundError("lead")
	}
	lead = upd.Apply(lead)
	lead.UpdatedAt = time.Now().UTC()
	f.Leads[id] = lead
	return lead, nil
}

func (f *FakePersistence) DeleteLead(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing(); err != nil {
		return err
	}
	if _, ok := f.Leads[id]; !ok {
		return domain.NewNotFoundError("lead")
	}
	delete(f.Leads, id)
	return nil
}

func (f *FakePersistence) ListPhoneCalls(context.Context) ([]models.PhoneCall, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing(); err != nil {
		return nil, err
	}
	out := make([]models.PhoneCall, 0, len(f.PhoneCalls))
	for _, c := range f.PhoneCalls {
		out = append(out, c)
	}
	return out, nil
}

func (f *FakePersistence) CreatePhoneCall(_ context.Context, call models.PhoneCall) (models.PhoneCall, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing(); err != nil {
		return models.PhoneCall{}, err
	}
	if call.ID == "" {
		call.ID = uuid.NewString()
	}
	f.PhoneCalls[call.ID] = call
	return call, nil
}

func (f *FakePersistence) ListEmails(context.Context) ([]models.Email, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing(); err != nil {
		return nil, err
	}
	out := make([]models.Email, 0, len(f.Emails))
	for _, e := range f.Emails {
		out = append(out, e)
	}
	return out, nil
}

func (f *FakePersistence) CreateEmail(_ context.Context, email models.Email) (models.Email, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing(); err != nil {
		return models.Email{}, err
	}
	if email.ID == "" {
		email.ID = uuid.NewString()
	}
	f.Emails[email.ID] = email
	return email, nil
}

func (f *FakePersistence) UpdateEmail(_ context.Context, email models.Email) (models.Email, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing(); err != nil {
		return models.Email{}, err
	}
	if _, ok := f.Emails[email.ID]; !ok {
		return models.Email{}, domain.NewNotFoundError("email")
	}
	f.Emails[email.ID] = email
	return email, nil
}

func (f *FakePersistence) ListEvaluations(context.Context) ([]models.Evaluation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing(); err != nil {
		return nil, err
	}
	out := make([]models.Evaluation, 0, len(f.Evaluations))
	for _, e := range f.Evaluations {
		out = append(out, e)
	}
	return out, nil
}

func (f *FakePersistence) CreateEvaluation(_ context.Context, eval models.Evaluation) (models.Evaluation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing(); err != nil {
		return models.Evaluation{}, err
	}
	if eval.ID == "" {
		eval.ID = uuid.NewString()
	}
	f.Evaluations[eval.ID] = eval
	return eval, nil
}

func (f *FakePersistence) ListComments(context.Context) ([]models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing(); err != nil {
		return nil, err
	}
	out := make([]models.Comment, 0, len(f.Comments))
	for _, c := range f.Comments {
		out = append(out, c)
	}
	return out, nil
}

func (f *FakePersistence) CreateComment(_ context.Context, comment models.Comment) (models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing(); err != nil {
		return models.Comment{}, err
	}
	comment.ID = uuid.NewString()
	f.Comments[comment.ID] = comment
	return comment, nil
}

func (f *FakePersistence) UpdateComment(_ context.Context, id string, upd models.CommentUpdate) (models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing(); err != nil {
		return models.Comment{}, err
	}
	comment, ok := f.Comments[id]
	if !ok {
		return models.Comment{}, domain.NewNotFoundError("comment")
	}
	comment = upd.Apply(comment)
	f.Comments[id] = comment
	return comment, nil
}

func (f *FakePersistence) DeleteComment(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing(); err != nil {
		return err
	}
	if _, ok := f.Comments[id]; !ok {
		return domain.NewNotFoundError("comment")
	}
	delete(f.Comments, id)
	return nil
}
