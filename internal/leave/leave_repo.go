package leave

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	leaveerrors "github.com/jdsuarez23/comfachoco/internal/leave/errors"
)

// DecisionUpdate is the terminal write applied through DecideIfPending.
type DecisionUpdate struct {
	State          string
	DaysAuthorized int
	Comment        string
	DecidedBy      uuid.UUID
	DecidedAt      time.Time
}

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindAllByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)
	FindAll(ctx context.Context, filter ListFilter) ([]LeaveRequest, error)
	// DecideIfPending performs the compare-and-swap: the update applies only
	// if the stored state is still PENDING. Returns false when another
	// decision won the race (or the row vanished).
	DecideIfPending(ctx context.Context, id string, upd DecisionUpdate) (bool, error)
	// DeleteIfPendingOwned removes the row only while it is still PENDING and
	// owned by employeeID. Returns false when a decision landed first (or the
	// row vanished).
	DeleteIfPendingOwned(ctx context.Context, id, employeeID string) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	err := r.db.WithContext(ctx).Create(l).Error
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		// foreign key: the referenced employee disappeared between snapshot
		// and insert
		return leaveerrors.ErrEmployeeNotFound
	}
	return err
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]LeaveRequest, error) {
	db := r.db.WithContext(ctx).Model(&LeaveRequest{})

	if filter.State != "" {
		db = db.Where("decision_state = ?", filter.State)
	}
	if filter.PermitType != "" {
		db = db.Where("permit_type = ?", filter.PermitType)
	}
	if filter.EmployeeID != "" {
		db = db.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.From != nil {
		db = db.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		db = db.Where("created_at <= ?", *filter.To)
	}

	var requests []LeaveRequest
	err := db.Order("created_at DESC").Find(&requests).Error
	return requests, err
}

func (r *repository) DecideIfPending(ctx context.Context, id string, upd DecisionUpdate) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("id = ?", id).
		Where("decision_state = ?", StatePending).
		Updates(map[string]any{
			"decision_state":   upd.State,
			"days_authorized":  upd.DaysAuthorized,
			"decision_comment": upd.Comment,
			"decided_by":       upd.DecidedBy,
			"decided_at":       upd.DecidedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) DeleteIfPendingOwned(ctx context.Context, id, employeeID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("decision_state = ?", StatePending).
		Delete(&LeaveRequest{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
