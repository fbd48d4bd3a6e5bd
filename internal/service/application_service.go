package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/appeal-routing-api/internal/dto"
	"github.com/noah-isme/appeal-routing-api/internal/models"
	"github.com/noah-isme/appeal-routing-api/internal/routing"
	appErrors "github.com/noah-isme/appeal-routing-api/pkg/errors"
	"github.com/noah-isme/appeal-routing-api/pkg/lock"
)

const (
	listingCacheKey      = "applications:all"
	listingCachePattern  = "applications:*"
	listingGenerationKey = "listing-generation"
)

type applicationStore interface {
	Create(ctx context.Context, app *models.Application) error
	GetByID(ctx context.Context, id string) (*models.Application, error)
	All(ctx context.Context) ([]models.Application, error)
	Replace(ctx context.Context, app models.Application) error
}

// ApplicationServiceConfig tunes visibility and locking.
type ApplicationServiceConfig struct {
	UnknownRolePolicy routing.UnknownRolePolicy
	LockWait          time.Duration
}

// ApplicationServiceOption configures the service.
type ApplicationServiceOption func(*ApplicationService)

// WithApplicationCache enables the listing cache.
func WithApplicationCache(cache *CacheService) ApplicationServiceOption {
	return func(s *ApplicationService) {
		s.cache = cache
	}
}

// WithApplicationMetrics records submissions, actions and lock waits.
func WithApplicationMetrics(metrics *MetricsService) ApplicationServiceOption {
	return func(s *ApplicationService) {
		s.metrics = metrics
	}
}

// WithApplicationClock overrides the time source used for decisions.
func WithApplicationClock(now func() time.Time) ApplicationServiceOption {
	return func(s *ApplicationService) {
		if now != nil {
			s.now = now
		}
	}
}

// Actor is the authenticated caller performing an operation.
type Actor struct {
	UserID string
	Role   models.Role
	Name   string
}

// ApplicationService submits applications, serves role-scoped listings and
// applies approver actions one at a time per application.
type ApplicationService struct {
	store     applicationStore
	locker    lock.Locker
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ApplicationServiceConfig
	now       func() time.Time
}

// NewApplicationService constructs the service with defaults.
func NewApplicationService(store applicationStore, locker lock.Locker, validate *validator.Validate, logger *zap.Logger, cfg ApplicationServiceConfig, opts ...ApplicationServiceOption) (*ApplicationService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if err := RegisterAppealValidations(validate); err != nil {
		return nil, fmt.Errorf("register appeal validations: %w", err)
	}
	if locker == nil {
		locker = lock.NewKeyedLocker()
	}
	if cfg.LockWait <= 0 {
		cfg.LockWait = 3 * time.Second
	}
	svc := &ApplicationService{
		store:     store,
		locker:    locker,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc, nil
}

// RegisterAppealValidations adds the appeal_type tag and the per-type
// submission rules to v.
func RegisterAppealValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("appeal_type", func(fl validator.FieldLevel) bool {
		return routing.KnownAppealType(models.AppealType(fl.Field().String()))
	}); err != nil {
		return err
	}
	v.RegisterStructValidation(submissionRules, dto.SubmitApplicationRequest{})
	return nil
}

func submissionRules(sl validator.StructLevel) {
	req := sl.Current().Interface().(dto.SubmitApplicationRequest)
	blank := func(s string) bool { return strings.TrimSpace(s) == "" }
	switch req.Type {
	case models.AppealCrossDepartment:
		if blank(req.TargetDepartment) {
			sl.ReportError(req.TargetDepartment, "targetDepartment", "TargetDepartment", "required_for_type", string(req.Type))
		}
		if blank(req.CourseCode) {
			sl.ReportError(req.CourseCode, "courseCode", "CourseCode", "required_for_type", string(req.Type))
		}
	case models.AppealTimetableClash:
		if blank(req.CourseCode) {
			sl.ReportError(req.CourseCode, "courseCode", "CourseCode", "required_for_type", string(req.Type))
		}
	case models.AppealLeave:
		if blank(req.LeaveType) {
			sl.ReportError(req.LeaveType, "leaveType", "LeaveType", "required_for_type", string(req.Type))
		}
		if blank(req.LeaveDuration) {
			sl.ReportError(req.LeaveDuration, "leaveDuration", "LeaveDuration", "required_for_type", string(req.Type))
		}
	case models.AppealAcademic:
		if blank(req.AppealCategory) {
			sl.ReportError(req.AppealCategory, "appealCategory", "AppealCategory", "required_for_type", string(req.Type))
		}
	}
}

// Submit creates a pending application at the first stage of the chain.
func (s *ApplicationService) Submit(ctx context.Context, req dto.SubmitApplicationRequest) (*models.Application, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid application payload")
	}

	app := &models.Application{
		StudentID:     strings.TrimSpace(req.StudentID),
		StudentName:   strings.TrimSpace(req.StudentName),
		StudentEmail:  strings.TrimSpace(req.StudentEmail),
		Department:    strings.TrimSpace(req.Department),
		Type:          req.Type,
		SubmittedDate: s.now(),
		CurrentStage:  routing.FirstStage(),
		Status:        models.StatusPending,
		Stages:        routing.NewApplicationStages(),
		Details:       req.Details(),
	}
	if err := s.store.Create(ctx, app); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create application")
	}
	s.invalidateListing(ctx)
	s.metrics.ObserveSubmission()
	s.logger.Info("application submitted",
		zap.String("application_id", app.ID),
		zap.String("type", string(app.Type)),
		zap.String("student_id", app.StudentID),
	)
	return app, nil
}

func (s *ApplicationService) all(ctx context.Context) ([]models.Application, error) {
	var (
		apps []models.Application
		err  error
	)
	if key, ok := s.cache.VersionedKey(ctx, listingGenerationKey, listingCacheKey); ok {
		apps, err = remember(ctx, s.cache, key, s.store.All)
	} else {
		apps, err = s.store.All(ctx)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load applications")
	}
	return apps, nil
}

// List returns the applications visible to role, narrowed by filter, in insertion order.
func (s *ApplicationService) List(ctx context.Context, role models.Role, filter models.ApplicationFilter) ([]models.Application, error) {
	apps, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	return routing.Narrow(routing.VisibleTo(role, apps, s.cfg.UnknownRolePolicy), filter), nil
}

// Stats counts the role's visible applications by overall status.
func (s *ApplicationService) Stats(ctx context.Context, role models.Role) (models.ApplicationStats, error) {
	apps, err := s.all(ctx)
	if err != nil {
		return models.ApplicationStats{}, err
	}
	return routing.Summarize(routing.VisibleTo(role, apps, s.cfg.UnknownRolePolicy)), nil
}

func (s *ApplicationService) load(ctx context.Context, id string) (*models.Application, error) {
	app, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("application %s not found", id))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load application")
	}
	return app, nil
}

// Get returns one application when role is entitled to see it.
func (s *ApplicationService) Get(ctx context.Context, role models.Role, id string) (*models.Application, error) {
	app, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !routing.CanSee(role, *app, s.cfg.UnknownRolePolicy) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "application is not visible to this role")
	}
	return app, nil
}

// Track returns the submitter's own application. Records owned by someone
// else are reported as not found.
func (s *ApplicationService) Track(ctx context.Context, id, submitterID string) (*models.Application, error) {
	app, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if submitterID == "" || app.StudentID != submitterID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("application %s not found", id))
	}
	return app, nil
}

// Apply performs an approver action on the application's current stage.
// Actions on one application are serialised through the locker and each
// successful action is persisted with a single Replace.
func (s *ApplicationService) Apply(ctx context.Context, id string, actor Actor, req dto.ActionRequest) (*models.Application, error) {
	req.Action = models.Action(strings.ToLower(strings.TrimSpace(string(req.Action))))
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid action payload")
	}

	lockCtx, cancel := context.WithTimeout(ctx, s.cfg.LockWait)
	defer cancel()
	start := time.Now()
	release, err := s.locker.Lock(lockCtx, id)
	s.metrics.ObserveLockWait(time.Since(start))
	if err != nil {
		s.metrics.ObserveAction(req.Action, OutcomeFailed)
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, appErrors.Wrap(err, appErrors.ErrLocked.Code, appErrors.ErrLocked.Status, fmt.Sprintf("application %s is being updated, retry shortly", id))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to lock application")
	}
	defer release()

	current, err := s.load(ctx, id)
	if err != nil {
		s.metrics.ObserveAction(req.Action, OutcomeFailed)
		return nil, err
	}

	next, err := routing.Apply(*current, routing.Decision{
		Role:   actor.Role,
		Action: req.Action,
		Notes:  req.Notes,
		Actor:  actor.Name,
		At:     s.now(),
	})
	if err != nil {
		s.metrics.ObserveAction(req.Action, OutcomeRejected)
		if errors.Is(err, appErrors.ErrStageMismatch) {
			s.logger.Warn("actor does not govern current stage",
				zap.String("application_id", id),
				zap.String("role", string(actor.Role)),
				zap.String("user_id", actor.UserID),
				zap.String("current_stage", string(current.CurrentStage)),
				zap.String("action", string(req.Action)),
			)
		}
		return nil, err
	}

	if err := s.store.Replace(ctx, next); err != nil {
		s.metrics.ObserveAction(req.Action, OutcomeFailed)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrAlreadyDecided, fmt.Sprintf("application %s changed concurrently", id))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save application")
	}
	s.invalidateListing(ctx)
	s.metrics.ObserveAction(req.Action, OutcomeApplied)

	s.logger.Info("application action applied",
		zap.String("application_id", id),
		zap.String("action", string(req.Action)),
		zap.String("role", string(actor.Role)),
		zap.String("actor", actor.Name),
		zap.String("from_stage", string(current.CurrentStage)),
		zap.String("to_stage", string(next.CurrentStage)),
		zap.String("status", string(next.Status)),
	)
	return &next, nil
}

// invalidateListing bumps the listing generation before clearing entries, so
// a listing loaded before the write and cached after it is never served.
func (s *ApplicationService) invalidateListing(ctx context.Context) {
	_ = s.cache.Bump(ctx, listingGenerationKey)
	_ = s.cache.Invalidate(ctx, listingCachePattern)
}

// ActionMessage is the confirmation shown to the approver after an action.
func ActionMessage(action models.Action, app models.Application) string {
	switch action {
	case models.ActionApprove:
		if app.Status == models.StatusApproved {
			return fmt.Sprintf("Application %s approved", app.ID)
		}
		return fmt.Sprintf("Application %s approved at this stage and sent to %s", app.ID, app.CurrentStage)
	case models.ActionReject:
		return fmt.Sprintf("Application %s rejected", app.ID)
	case models.ActionHold:
		return fmt.Sprintf("Application %s placed on hold", app.ID)
	case models.ActionForward:
		if app.Status == models.StatusApproved {
			return fmt.Sprintf("Application %s approved", app.ID)
		}
		return fmt.Sprintf("Application %s forwarded to %s", app.ID, app.CurrentStage)
	}
	return ""
}
