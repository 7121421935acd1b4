package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ksoliman/banksim/pkg/domain"
	"github.com/ksoliman/banksim/pkg/money"
	repo "github.com/ksoliman/banksim/pkg/repository"
)

type failedJobRepository struct {
	db *gorm.DB
}

// NewFailedJobRepository creates a failed-job repository bound to the given
// session.
func NewFailedJobRepository(db *gorm.DB) repo.FailedJobRepository {
	return &failedJobRepository{db: db}
}

func (r *failedJobRepository) Create(ctx context.Context, job *domain.FailedJob) error {
	row := FailedJob{
		ID:        job.ID,
		JobID:     job.JobID,
		OwnerID:   job.OwnerID,
		Kind:      job.Kind.String(),
		Amount:    job.Amount.Cents(),
		Attempts:  job.Attempts,
		LastError: job.LastError,
		CreatedAt: job.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *failedJobRepository) List(ctx context.Context) ([]*domain.FailedJob, error) {
	var rows []FailedJob
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.FailedJob, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		out = append(out, &domain.FailedJob{
			ID:        row.ID,
			JobID:     row.JobID,
			OwnerID:   row.OwnerID,
			Kind:      domain.TxKind(row.Kind),
			Amount:    money.FromCents(row.Amount),
			Attempts:  row.Attempts,
			LastError: row.LastError,
			CreatedAt: row.CreatedAt,
		})
	}
	return out, nil
}
