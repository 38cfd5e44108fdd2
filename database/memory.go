package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rpupo63/portfolio-api/models"
)

// NewMemory returns a Database held entirely in process memory. It backs
// local development (DB_TYPE=memory) and the handler tests.
func NewMemory() Database {
	return Database{
		projectRepo:     &MemoryProjectRepo{},
		feedbackRepo:    &MemoryFeedbackRepo{},
		hireRequestRepo: &MemoryHireRequestRepo{},
	}
}

type MemoryProjectRepo struct {
	mu       sync.RWMutex
	projects []models.Project
}

func (r *MemoryProjectRepo) FindAll(context.Context) ([]*models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Project, 0, len(r.projects))
	for i := len(r.projects) - 1; i >= 0; i-- {
		p := r.projects[i]
		out = append(out, &p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryProjectRepo) FindBySeq(_ context.Context, seq int) (*models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.index(seq); i >= 0 {
		p := r.projects[i]
		return &p, nil
	}
	return nil, nil
}

// Add holds the write lock across id selection and insert, so ids never collide here.
func (r *MemoryProjectRepo) Add(_ context.Context, project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	max := 0
	for _, p := range r.projects {
		if p.Seq > max {
			max = p.Seq
		}
	}
	project.Seq = max + 1
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	r.projects = append(r.projects, *project)
	return nil
}

func (r *MemoryProjectRepo) Update(_ context.Context, seq int, input models.ProjectInput, updatedAt time.Time) (*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(seq)
	if i < 0 {
		return nil, nil
	}
	input.Apply(&r.projects[i])
	r.projects[i].UpdatedAt = updatedAt
	p := r.projects[i]
	return &p, nil
}

func (r *MemoryProjectRepo) DeleteBySeq(_ context.Context, seq int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(seq)
	if i < 0 {
		return false, nil
	}
	r.projects = append(r.projects[:i], r.projects[i+1:]...)
	return true, nil
}

func (r *MemoryProjectRepo) index(seq int) int {
	for i, p := range r.projects {
		if p.Seq == seq {
			return i
		}
	}
	return -1
}

type MemoryFeedbackRepo struct {
	mu       sync.RWMutex
	feedback []models.Feedback
}

func (r *MemoryFeedbackRepo) FindAll(context.Context) ([]*models.Feedback, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Feedback, 0, len(r.feedback))
	for i := len(r.feedback) - 1; i >= 0; i-- {
		f := r.feedback[i]
		out = append(out, &f)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryFeedbackRepo) Add(_ context.Context, feedback *models.Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if feedback.ID == "" {
		feedback.ID = uuid.NewString()
	}
	r.feedback = append(r.feedback, *feedback)
	return nil
}

func (r *MemoryFeedbackRepo) Approve(_ context.Context, id string) (*models.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.feedback {
		if r.feedback[i].ID == id {
			r.feedback[i].Approved = true
			f := r.feedback[i]
			return &f, nil
		}
	}
	return nil, nil
}

func (r *MemoryFeedbackRepo) Delete(_ context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.feedback {
		if r.feedback[i].ID == id {
			r.feedback = append(r.feedback[:i], r.feedback[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

type MemoryHireRequestRepo struct {
	mu       sync.RWMutex
	requests []models.HireRequest
}

func (r *MemoryHireRequestRepo) FindAll(context.Context) ([]*models.HireRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.HireRequest, 0, len(r.requests))
	for i := len(r.requests) - 1; i >= 0; i-- {
		h := r.requests[i]
		out = append(out, &h)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryHireRequestRepo) Add(_ context.Context, request *models.HireRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	r.requests = append(r.requests, *request)
	return nil
}
