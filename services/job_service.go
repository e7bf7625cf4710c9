package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"social-club/auth"
	"social-club/contract"
	"social-club/domain"
	"social-club/domain/event"
	"social-club/errors"
	"social-club/repositories"

	"github.com/google/uuid"
)

type IJobService interface {
	CreateCompany(ctx context.Context, ownerID string, request CreateCompanyRequest) (repositories.Company, error)
	CreateJob(ctx context.Context, subject auth.Subject, companyID string, request CreateJobRequest) (repositories.Job, error)
	ListJobs(ctx context.Context, limit int) ([]repositories.Job, error)
	Apply(ctx context.Context, applicantID, jobID string, request ApplyRequest) (repositories.Application, error)
	ListApplications(ctx context.Context, subject auth.Subject, jobID string) ([]repositories.Application, error)
	UpdateApplicationStatus(ctx context.Context, subject auth.Subject, applicationID string, status domain.ApplicationStatus) (repositories.Application, error)
}

type CreateCompanyRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=2000"`
}

type CreateJobRequest struct {
	Title       string `json:"title" validate:"required,max=150"`
	Description string `json:"description" validate:"max=5000"`
}

type ApplyRequest struct {
	CoverLetter string `json:"coverLetter" validate:"required,max=5000"`
}

type JobService struct {
	log        *slog.Logger
	jobs       repositories.IJobRepository
	bus        contract.IEventBus
	authorizer Authorizer
}

func NewJobService(log *slog.Logger, jobs repositories.IJobRepository, bus contract.IEventBus, authorizer Authorizer) *JobService {
	return &JobService{log: log, jobs: jobs, bus: bus, authorizer: authorizer}
}

func (s *JobService) CreateCompany(ctx context.Context, ownerID string, request CreateCompanyRequest) (repositories.Company, error) {
	request.Name = strings.TrimSpace(request.Name)
	if err := auth.Validate(request); err != nil {
		return repositories.Company{}, err
	}
	company := repositories.Company{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        request.Name,
		Description: request.Description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.jobs.CreateCompany(ctx, &company); err != nil {
		return repositories.Company{}, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	return company, nil
}

func (s *JobService) CreateJob(ctx context.Context, subject auth.Subject, companyID string, request CreateJobRequest) (repositories.Job, error) {
	request.Title = strings.TrimSpace(request.Title)
	if err := auth.Validate(request); err != nil {
		return repositories.Job{}, err
	}
	company, err := s.jobs.GetCompany(ctx, companyID)
	if err != nil {
		return repositories.Job{}, err
	}
	if err := authorize(ctx, s.authorizer, subject, auth.ActionCreateJob, company.OwnerID); err != nil {
		return repositories.Job{}, err
	}
	job := repositories.Job{
		ID:          uuid.NewString(),
		CompanyID:   companyID,
		Title:       request.Title,
		Description: request.Description,
		Open:        true,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.jobs.CreateJob(ctx, &job); err != nil {
		return repositories.Job{}, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	return job, nil
}

func (s *JobService) ListJobs(ctx context.Context, limit int) ([]repositories.Job, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	return s.jobs.ListOpenJobs(ctx, limit)
}

// Apply notifies the owner of the hiring company.
func (s *JobService) Apply(ctx context.Context, applicantID, jobID string, request ApplyRequest) (repositories.Application, error) {
	request.CoverLetter = strings.TrimSpace(request.CoverLetter)
	if err := auth.Validate(request); err != nil {
		return repositories.Application{}, err
	}
	job, company, err := s.jobWithCompany(ctx, jobID)
	if err != nil {
		return repositories.Application{}, err
	}
	if !job.Open {
		return repositories.Application{}, errors.ErrJobClosed
	}
	application := repositories.Application{
		ID:          uuid.NewString(),
		JobID:       jobID,
		ApplicantID: applicantID,
		CoverLetter: request.CoverLetter,
		Status:      domain.ApplicationSubmitted,
	}
	if err := s.jobs.CreateApplication(ctx, &application); err != nil {
		return repositories.Application{}, err
	}
	s.bus.Publish(ctx, event.New(event.JobApplicationReceived, company.OwnerID, applicantID, map[string]string{
		event.MetaJobID:         job.ID,
		event.MetaJobTitle:      job.Title,
		event.MetaApplicationID: application.ID,
	}))
	return application, nil
}

func (s *JobService) ListApplications(ctx context.Context, subject auth.Subject, jobID string) ([]repositories.Application, error) {
	_, company, err := s.jobWithCompany(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err := authorize(ctx, s.authorizer, subject, auth.ActionListApplications, company.OwnerID); err != nil {
		return nil, err
	}
	return s.jobs.ListApplications(ctx, jobID)
}

// UpdateApplicationStatus notifies the applicant of the new status.
func (s *JobService) UpdateApplicationStatus(ctx context.Context, subject auth.Subject, applicationID string,
	status domain.ApplicationStatus) (repositories.Application, error) {
	if !status.Valid() {
		return repositories.Application{}, fmt.Errorf("%w: %q", errors.ErrInvalidStatus, status)
	}
	application, err := s.jobs.GetApplication(ctx, applicationID)
	if err != nil {
		return repositories.Application{}, err
	}
	job, company, err := s.jobWithCompany(ctx, application.JobID)
	if err != nil {
		return repositories.Application{}, err
	}
	if err := authorize(ctx, s.authorizer, subject, auth.ActionUpdateApplication, company.OwnerID); err != nil {
		return repositories.Application{}, err
	}
	if !application.Status.CanTransitionTo(status) {
		return repositories.Application{}, fmt.Errorf("%w: %s to %s", errors.ErrInvalidStatus, application.Status, status)
	}
	if err := s.jobs.UpdateApplicationStatus(ctx, applicationID, status); err != nil {
		return repositories.Application{}, err
	}
	application.Status = status
	s.bus.Publish(ctx, event.New(event.JobApplicationStatusChanged, application.ApplicantID, subject.ID, map[string]string{
		event.MetaJobID:         job.ID,
		event.MetaJobTitle:      job.Title,
		event.MetaApplicationID: application.ID,
		event.MetaStatus:        string(status),
	}))
	return application, nil
}

func (s *JobService) jobWithCompany(ctx context.Context, jobID string) (repositories.Job, repositories.Company, error) {
	job, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return repositories.Job{}, repositories.Company{}, err
	}
	company, err := s.jobs.GetCompany(ctx, job.CompanyID)
	if err != nil {
		return repositories.Job{}, repositories.Company{}, err
	}
	return job, company, nil
}
