package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/noah-isme/appeal-routing-api/internal/models"
)

// ErrDuplicateApplication is returned when an id is already stored.
var ErrDuplicateApplication = errors.New("application already exists")

// ApplicationMemoryRepository keeps applications in process memory. Stored
// values are copied on the way in and out so readers never share state with
// a writer.
type ApplicationMemoryRepository struct {
	mu    sync.RWMutex
	order []string
	items map[string]models.Application
	seq   int
	now   func() time.Time
}

// NewApplicationMemoryRepository constructs an empty store.
func NewApplicationMemoryRepository() *ApplicationMemoryRepository {
	return &ApplicationMemoryRepository{
		items: make(map[string]models.Application),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Create inserts a new application, assigning an APP-<year>-<seq> id when empty.
func (r *ApplicationMemoryRepository) Create(ctx context.Context, app *models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if app.SubmittedDate.IsZero() {
		app.SubmittedDate = r.now()
	}
	if app.ID == "" {
		app.ID = r.nextID(app.SubmittedDate.Year())
	}
	if _, exists := r.items[app.ID]; exists {
		return fmt.Errorf("create application %s: %w", app.ID, ErrDuplicateApplication)
	}
	r.seq++
	r.items[app.ID] = app.Clone()
	r.order = append(r.order, app.ID)
	return nil
}

func (r *ApplicationMemoryRepository) nextID(year int) string {
	for n := r.seq + 1; ; n++ {
		id := fmt.Sprintf("APP-%d-%03d", year, n)
		if _, exists := r.items[id]; !exists {
			return id
		}
	}
}

// GetByID returns a copy of the stored application or sql.ErrNoRows.
func (r *ApplicationMemoryRepository) GetByID(ctx context.Context, id string) (*models.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	app, ok := r.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	out := app.Clone()
	return &out, nil
}

// All returns every application in insertion order.
func (r *ApplicationMemoryRepository) All(ctx context.Context) ([]models.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Application, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id].Clone())
	}
	return out, nil
}

// Replace swaps the stored value for app in one step.
func (r *ApplicationMemoryRepository) Replace(ctx context.Context, app models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[app.ID]; !ok {
		return sql.ErrNoRows
	}
	r.items[app.ID] = app.Clone()
	return nil
}
