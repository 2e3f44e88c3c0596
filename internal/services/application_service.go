package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"senior-house/internal/models"
	"senior-house/internal/observability"
	"senior-house/internal/repositories"
	"senior-house/internal/telemetry"
)

// ApplicationService enforces one application per (user, job) and opens the
// matching chat room.
type ApplicationService struct {
	store repositories.Store
	chats *ChatService
	audit *telemetry.AuditEmitter
}

func NewApplicationService(store repositories.Store, chats *ChatService, audit *telemetry.AuditEmitter) *ApplicationService {
	return &ApplicationService{store: store, chats: chats, audit: audit}
}

// Apply records the application, bumps the job's counter and creates or
// reactivates the room in one transaction.
func (s *ApplicationService) Apply(ctx context.Context, userID, jobID int, message string) (models.ApplyResult, error) {
	ctx, span := tracer.Start(ctx, "application.apply")
	defer span.End()
	span.SetAttributes(attribute.Int("job.id", jobID), attribute.Int("user.id", userID))

	job, err := s.store.Jobs().Get(ctx, jobID)
	if err != nil {
		return models.ApplyResult{}, mapNotFound(err, repositories.ErrJobNotFound, models.ErrJobNotFound)
	}
	if job.AuthorID == userID {
		return models.ApplyResult{}, models.ErrSelfApplication
	}
	existing, err := s.store.Applications().FindByUserAndJob(ctx, userID, jobID)
	if err != nil {
		return models.ApplyResult{}, err
	}
	if existing != nil {
		return models.ApplyResult{}, models.ErrDuplicateApplication
	}
	applicant, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return models.ApplyResult{}, mapNotFound(err, repositories.ErrUserNotFound, models.ErrUserNotFound)
	}

	var result models.ApplyResult
	err = s.store.WithTx(ctx, func(tx repositories.Store) error {
		app := models.JobApplication{UserID: userID, JobID: jobID, Status: models.StatusPending}
		if msg := strings.TrimSpace(message); msg != "" {
			app.Message = &msg
		}
		if err := tx.Applications().Create(ctx, &app); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return models.ErrDuplicateApplication
			}
			return fmt.Errorf("create application: %w", err)
		}
		if err := tx.Jobs().IncrementApplicationCount(ctx, jobID); err != nil {
			return mapNotFound(err, repositories.ErrJobNotFound, models.ErrJobNotFound)
		}
		room, err := s.chats.CreateOrGetIn(ctx, tx, RoomRequest{
			JobID:        jobID,
			ApplicantID:  userID,
			EmployerID:   job.AuthorID,
			CallerID:     userID,
			Announcement: models.ApplicationAnnouncement(applicant.Nickname, job.Title),
		})
		if err != nil {
			return err
		}
		result = models.ApplyResult{Application: app, Room: room}
		return nil
	})
	if err != nil {
		return models.ApplyResult{}, err
	}

	observability.IncApplicationCreated()
	observability.PublishDomainEvent(ctx, "application_created", map[string]any{
		"application_id": result.Application.ID,
		"job_id":         jobID,
		"applicant_id":   userID,
		"employer_id":    job.AuthorID,
		"room_id":        result.Room.Room.ID,
	})
	s.audit.Record(ctx, telemetry.AuditRecord{
		Action: "application_created",
		Target: fmt.Sprintf("job:%d", jobID),
		Text:   fmt.Sprintf("application %d created", result.Application.ID),
		UserID: userID,
	})
	return result, nil
}

// UpdateStatus lets the job's author accept or reject a pending application.
// The author check runs before the status value is looked at; a decision is
// final.
func (s *ApplicationService) UpdateStatus(ctx context.Context, applicationID, actingUserID int, status models.ApplicationStatus) (models.JobApplication, error) {
	ctx, span := tracer.Start(ctx, "application.update_status")
	defer span.End()

	app, err := s.store.Applications().Get(ctx, applicationID)
	if err != nil {
		return models.JobApplication{}, mapNotFound(err, repositories.ErrApplicationNotFound, models.ErrApplicationNotFound)
	}
	job, err := s.store.Jobs().Get(ctx, app.JobID)
	if err != nil {
		return models.JobApplication{}, mapNotFound(err, repositories.ErrJobNotFound, models.ErrJobNotFound)
	}
	if job.AuthorID != actingUserID {
		return models.JobApplication{}, models.ErrNotJobAuthor
	}
	if !status.IsDecision() {
		return models.JobApplication{}, models.ErrInvalidStatus
	}
	if app.Status != models.StatusPending {
		return models.JobApplication{}, models.ErrAlreadyDecided
	}

	updated, err := s.store.Applications().UpdateStatus(ctx, applicationID, status)
	if errors.Is(err, repositories.ErrApplicationDecided) {
		return models.JobApplication{}, models.ErrAlreadyDecided
	}
	if err != nil {
		return models.JobApplication{}, mapNotFound(err, repositories.ErrApplicationNotFound, models.ErrApplicationNotFound)
	}

	observability.IncApplicationDecision(string(status))
	observability.PublishDomainEvent(ctx, "application_status_changed", map[string]any{
		"application_id": updated.ID,
		"job_id":         updated.JobID,
		"applicant_id":   updated.UserID,
		"status":         updated.Status,
	})
	s.audit.Record(ctx, telemetry.AuditRecord{
		Action: "application_status_changed",
		Target: fmt.Sprintf("application:%d", updated.ID),
		Text:   "status " + string(app.Status) + " -> " + string(updated.Status),
		UserID: actingUserID,
	})
	return updated, nil
}

// CheckStatus reports whether userID applied to jobID.
func (s *ApplicationService) CheckStatus(ctx context.Context, userID, jobID int) (models.ApplicationState, error) {
	app, err := s.store.Applications().FindByUserAndJob(ctx, userID, jobID)
	if err != nil {
		return models.ApplicationState{}, err
	}
	return models.StateOf(app), nil
}

// CheckStatuses answers CheckStatus for a list page with a single query.
// Every requested job id has an entry.
func (s *ApplicationService) CheckStatuses(ctx context.Context, userID int, jobIDs []int) (map[int]models.ApplicationState, error) {
	states := make(map[int]models.ApplicationState, len(jobIDs))
	for _, id := range jobIDs {
		states[id] = models.ApplicationState{}
	}
	if userID == 0 || len(jobIDs) == 0 {
		return states, nil
	}
	apps, err := s.store.Applications().ListByUserForJobs(ctx, userID, jobIDs)
	if err != nil {
		return nil, err
	}
	for i := range apps {
		states[apps[i].JobID] = models.StateOf(&apps[i])
	}
	return states, nil
}

// ListForUser returns the caller's own applications.
func (s *ApplicationService) ListForUser(ctx context.Context, userID int) ([]models.ApplicationView, error) {
	return s.store.Applications().ListForUser(ctx, userID)
}

// ListForJob returns the applications to a job. Only its author may list them.
func (s *ApplicationService) ListForJob(ctx context.Context, jobID, employerID int) ([]models.ApplicationView, error) {
	job, err := s.store.Jobs().Get(ctx, jobID)
	if err != nil {
		return nil, mapNotFound(err, repositories.ErrJobNotFound, models.ErrJobNotFound)
	}
	if job.AuthorID != employerID {
		return nil, models.ErrNotJobAuthor
	}
	return s.store.Applications().ListForJob(ctx, jobID)
}

// OpenChat brings the caller back into the room of an existing application.
// The applicant opens their own room; the author must name the applicant.
func (s *ApplicationService) OpenChat(ctx context.Context, jobID, callerID, applicantID int) (models.RoomResult, error) {
	job, err := s.store.Jobs().Get(ctx, jobID)
	if err != nil {
		return models.RoomResult{}, mapNotFound(err, repositories.ErrJobNotFound, models.ErrJobNotFound)
	}
	switch {
	case callerID == job.AuthorID:
		if applicantID == 0 {
			return models.RoomResult{}, models.Validationf("applicant_id is required")
		}
	case applicantID == 0 || applicantID == callerID:
		applicantID = callerID
	default:
		return models.RoomResult{}, models.ErrNotJobAuthor
	}

	app, err := s.store.Applications().FindByUserAndJob(ctx, applicantID, jobID)
	if err != nil {
		return models.RoomResult{}, err
	}
	if app == nil {
		return models.RoomResult{}, models.ErrApplicationNotFound
	}
	applicant, err := s.store.Users().GetByID(ctx, applicantID)
	if err != nil {
		return models.RoomResult{}, mapNotFound(err, repositories.ErrUserNotFound, models.ErrUserNotFound)
	}

	return s.chats.CreateOrGet(ctx, RoomRequest{
		JobID:        jobID,
		ApplicantID:  applicantID,
		EmployerID:   job.AuthorID,
		CallerID:     callerID,
		Announcement: models.ApplicationAnnouncement(applicant.Nickname, job.Title),
	})
}
