//go:generate go run go.uber.org/mock/mockgen -source=job.go -destination=../mocks/mock_job_repository.go -package=mocks
package repositories

import (
	"context"
	stderrors "errors"

	"social-club/domain"
	"social-club/errors"

	"gorm.io/gorm"
)

type IJobRepository interface {
	CreateCompany(ctx context.Context, company *Company) error
	GetCompany(ctx context.Context, id string) (Company, error)
	CreateJob(ctx context.Context, job *Job) error
	GetJob(ctx context.Context, id string) (Job, error)
	ListOpenJobs(ctx context.Context, limit int) ([]Job, error)
	CreateApplication(ctx context.Context, application *Application) error
	GetApplication(ctx context.Context, id string) (Application, error)
	ListApplications(ctx context.Context, jobID string) ([]Application, error)
	UpdateApplicationStatus(ctx context.Context, id string, status domain.ApplicationStatus) error
	Counts(ctx context.Context) (JobCounts, error)
}

type JobCounts struct {
	Companies    int64
	Jobs         int64
	Applications int64
}

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) IJobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) CreateCompany(ctx context.Context, company *Company) error {
	return r.db.WithContext(ctx).Create(company).Error
}

func (r *JobRepository) GetCompany(ctx context.Context, id string) (Company, error) {
	var company Company
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&company).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return Company{}, errors.ErrCompanyNotFound
	}
	return company, err
}

func (r *JobRepository) CreateJob(ctx context.Context, job *Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *JobRepository) GetJob(ctx context.Context, id string) (Job, error) {
	var job Job
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return Job{}, errors.ErrJobNotFound
	}
	return job, err
}

func (r *JobRepository) ListOpenJobs(ctx context.Context, limit int) ([]Job, error) {
	var jobs []Job
	err := r.db.WithContext(ctx).Where("open = ?", true).Order("created_at DESC").Limit(limit).Find(&jobs).Error
	return jobs, err
}

// CreateApplication reports ErrAlreadyApplied when the applicant already applied to the job.
func (r *JobRepository) CreateApplication(ctx context.Context, application *Application) error {
	err := r.db.WithContext(ctx).Create(application).Error
	if stderrors.Is(err, gorm.ErrDuplicatedKey) {
		return errors.ErrAlreadyApplied
	}
	return err
}

func (r *JobRepository) GetApplication(ctx context.Context, id string) (Application, error) {
	var application Application
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&application).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return Application{}, errors.ErrApplicationNotFound
	}
	return application, err
}

func (r *JobRepository) ListApplications(ctx context.Context, jobID string) ([]Application, error) {
	var applications []Application
	err := r.db.WithContext(ctx).Where("job_id = ?", jobID).Order("created_at ASC").Find(&applications).Error
	return applications, err
}

func (r *JobRepository) UpdateApplicationStatus(ctx context.Context, id string, status domain.ApplicationStatus) error {
	res := r.db.WithContext(ctx).Model(&Application{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.ErrApplicationNotFound
	}
	return nil
}

func (r *JobRepository) Counts(ctx context.Context) (JobCounts, error) {
	var c JobCounts
	db := r.db.WithContext(ctx)
	if err := db.Model(&Company{}).Count(&c.Companies).Error; err != nil {
		return c, err
	}
	if err := db.Model(&Job{}).Count(&c.Jobs).Error; err != nil {
		return c, err
	}
	err := db.Model(&Application{}).Count(&c.Applications).Error
	return c, err
}
