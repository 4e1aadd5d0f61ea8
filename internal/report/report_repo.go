package report

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=report_repo.go -destination=mock/report_repo_mock.go -package=mock
type Repository interface {
	GeneralStats(ctx context.Context) (GeneralStats, error)
	CountByPermitType(ctx context.Context) ([]CountByLabel, error)
	CountByDepartment(ctx context.Context) ([]CountByLabel, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GeneralStats(ctx context.Context) (GeneralStats, error) {
	var stats GeneralStats
	err := r.db.WithContext(ctx).Raw(`
SELECT
	COUNT(*) AS total_requests,
	COUNT(*) FILTER (WHERE decision_state = 'PENDING') AS pending,
	COUNT(*) FILTER (WHERE decision_state = 'AUTHORIZED') AS authorized,
	COUNT(*) FILTER (WHERE decision_state = 'REJECTED') AS rejected,
	COUNT(*) FILTER (WHERE is_anomalous) AS anomalous,
	COALESCE(AVG(approval_probability), 0) AS avg_probability,
	COALESCE(AVG(days_requested), 0) AS avg_days_requested,
	COALESCE(AVG(days_authorized), 0) AS avg_days_authorized
FROM leave_requests
`).Scan(&stats).Error
	return stats, err
}

func (r *repository) CountByPermitType(ctx context.Context) ([]CountByLabel, error) {
	var rows []CountByLabel
	err := r.db.WithContext(ctx).Raw(`
SELECT permit_type AS label, COUNT(*) AS count
FROM leave_requests
GROUP BY permit_type
ORDER BY count DESC
`).Scan(&rows).Error
	return rows, err
}

func (r *repository) CountByDepartment(ctx context.Context) ([]CountByLabel, error) {
	var rows []CountByLabel
	err := r.db.WithContext(ctx).Raw(`
SELECT department AS label, COUNT(*) AS count
FROM leave_requests
WHERE department <> ''
GROUP BY department
ORDER BY count DESC
`).Scan(&rows).Error
	return rows, err
}
