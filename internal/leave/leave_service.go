package leave

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jdsuarez23/comfachoco/internal/classification"
	"github.com/jdsuarez23/comfachoco/internal/domain"
	"github.com/jdsuarez23/comfachoco/internal/employee"
	"github.com/jdsuarez23/comfachoco/internal/events"
	"github.com/jdsuarez23/comfachoco/internal/files"
	leaveerrors "github.com/jdsuarez23/comfachoco/internal/leave/errors"
	"github.com/jdsuarez23/comfachoco/internal/notifier"
)

// Classifier is the orchestrator seam; it never fails, it only degrades.
type Classifier interface {
	Classify(ctx context.Context, in classification.ClassifyInput) classification.Classification
}

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor domain.Actor, req CreateLeaveRequest, fileName string, fileData io.Reader) (CreateLeaveResponse, error)
	GetMine(ctx context.Context, actor domain.Actor) ([]LeaveResponse, error)
	GetByID(ctx context.Context, actor domain.Actor, id string) (LeaveResponse, error)
	ListAll(ctx context.Context, filter ListFilter) ([]LeaveResponse, error)
	Approve(ctx context.Context, actor domain.Actor, id string, req ApproveLeaveRequest) (LeaveResponse, error)
	Reject(ctx context.Context, actor domain.Actor, id string, req RejectLeaveRequest) (LeaveResponse, error)
	Withdraw(ctx context.Context, actor domain.Actor, id string) error
	OpenSupportFile(ctx context.Context, actor domain.Actor, id string) (io.ReadCloser, string, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	employees  employee.Repository
	classifier Classifier
	store      files.Store
	notify     notifier.Notifier
	logger     *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	classifier Classifier,
	store files.Store,
	notify notifier.Notifier,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		employees:  employees,
		classifier: classifier,
		store:      store,
		notify:     notify,
		logger:     l,
	}
}

// Create runs intake validation, snapshots the employee, resolves the
// classification (which cannot fail) and only then persists the request in
// PENDING state. A partially classified request is never observable.
func (s *service) Create(ctx context.Context, actor domain.Actor, req CreateLeaveRequest, fileName string, fileData io.Reader) (CreateLeaveResponse, error) {
	s.logger.Debug("create leave request",
		zap.String("employee_id", actor.EmployeeID),
		zap.Int("days_requested", req.DaysRequested),
	)

	actorUUID, startDate, endDate, err := validateCreateRequest(actor, req)
	if err != nil {
		s.logger.Warn("create leave validation failed", zap.Error(err))
		return CreateLeaveResponse{}, err
	}

	emp, err := s.employees.FindByID(ctx, actor.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CreateLeaveResponse{}, leaveerrors.ErrEmployeeNotFound
		}
		s.logger.Error("create leave employee lookup failed", zap.Error(err))
		return CreateLeaveResponse{}, err
	}

	result := s.classifier.Classify(ctx, classification.ClassifyInput{
		EmployeeID:    actor.EmployeeID,
		DaysRequested: req.DaysRequested,
		ReasonText:    req.ReasonText,
		StartDate:     startDate,
		EndDate:       endDate,
	})

	var fileRef *string
	if fileData != nil && fileName != "" {
		ref, err := s.store.Save(fileName, fileData)
		if err != nil {
			s.logger.Error("create leave store support file failed", zap.Error(err))
			return CreateLeaveResponse{}, err
		}
		fileRef = &ref
	}

	impact := req.AreaImpact
	if impact == "" {
		impact = ImpactLow
	}

	now := time.Now().UTC()
	l := &LeaveRequest{
		ID:         uuid.New(),
		EmployeeID: actorUUID,

		Age:               emp.Age,
		Gender:            emp.Gender,
		MaritalStatus:     emp.MaritalStatus,
		DependentsCount:   emp.DependentsCount,
		Department:        emp.Department,
		Position:          emp.Position,
		TenureYears:       emp.TenureYears(now),
		Salary:            emp.Salary,
		ContractType:      emp.ContractType,
		Site:              emp.Site,
		ActiveSanctions:   emp.ActiveSanctions,
		AbsenceCount:      emp.AbsenceCount,
		PriorYearDaysUsed: req.PriorYearDaysUsed,

		ReasonText:    req.ReasonText,
		DaysRequested: req.DaysRequested,
		StartDate:     startDate,
		EndDate:       endDate,
		AreaImpact:    impact,

		PermitType:          result.PermitType,
		ApprovalProbability: result.ApprovalProbability,
		IsAnomalous:         result.IsAnomalous,
		ImpactScore:         result.ImpactScore,
		SuggestedDays:       result.SuggestedDays,

		DecisionState:  StatePending,
		SupportFileRef: fileRef,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave begin tx failed", zap.Error(err))
		return CreateLeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("create leave persist failed", zap.Error(err))
		return CreateLeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave commit failed", zap.Error(err))
		return CreateLeaveResponse{}, err
	}

	s.notify.LeaveRequested(ctx, events.LeaveRequestedEvent{
		EventType:           "leave.requested",
		RequestID:           l.ID.String(),
		EmployeeID:          actor.EmployeeID,
		PermitType:          l.PermitType,
		DaysRequested:       l.DaysRequested,
		ApprovalProbability: l.ApprovalProbability,
		IsAnomalous:         l.IsAnomalous,
		OccurredAt:          now,
	})

	s.logger.Info("create leave success",
		zap.String("request_id", l.ID.String()),
		zap.String("employee_id", actor.EmployeeID),
		zap.String("permit_type", l.PermitType),
		zap.Float64("approval_probability", l.ApprovalProbability),
		zap.Bool("is_anomalous", l.IsAnomalous),
	)

	return CreateLeaveResponse{
		Request: mapToResponse(*l),
		Classification: ClassificationSummary{
			PermitType:          l.PermitType,
			ApprovalProbability: l.ApprovalProbability,
			IsAnomalous:         l.IsAnomalous,
			ImpactScore:         l.ImpactScore,
			SuggestedDays:       l.SuggestedDays,
		},
	}, nil
}

func (s *service) GetMine(ctx context.Context, actor domain.Actor) ([]LeaveResponse, error) {
	requests, err := s.repo.FindAllByEmployee(ctx, actor.EmployeeID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) GetByID(ctx context.Context, actor domain.Actor, id string) (LeaveResponse, error) {
	l, err := s.findVisible(ctx, actor, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	return mapToResponse(*l), nil
}

func (s *service) ListAll(ctx context.Context, filter ListFilter) ([]LeaveResponse, error) {
	requests, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

// Approve transitions PENDING -> AUTHORIZED through a single conditional
// update. Of two concurrent approvers exactly one row-update wins; the loser
// is reported a conflict and nothing else changes.
func (s *service) Approve(ctx context.Context, actor domain.Actor, id string, req ApproveLeaveRequest) (LeaveResponse, error) {
	actorUUID, err := uuid.Parse(actor.EmployeeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	if req.DaysAuthorized < 1 {
		return LeaveResponse{}, leaveerrors.ErrInvalidAuthorizedDays
	}

	l, err := s.findByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if l.DecisionState != StatePending {
		return LeaveResponse{}, leaveerrors.ErrAlreadyDecided
	}
	if req.DaysAuthorized > l.DaysRequested {
		return LeaveResponse{}, leaveerrors.ErrAuthorizedDaysExceed
	}

	comment := req.Comment
	if comment == "" {
		comment = "Aprobado"
	}

	return s.decide(ctx, l, DecisionUpdate{
		State:          StateAuthorized,
		DaysAuthorized: req.DaysAuthorized,
		Comment:        comment,
		DecidedBy:      actorUUID,
		DecidedAt:      time.Now().UTC(),
	})
}

// Reject transitions PENDING -> REJECTED; the comment is mandatory and
// authorized days reset to zero.
func (s *service) Reject(ctx context.Context, actor domain.Actor, id string, req RejectLeaveRequest) (LeaveResponse, error) {
	actorUUID, err := uuid.Parse(actor.EmployeeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	if req.Comment == "" {
		return LeaveResponse{}, leaveerrors.ErrCommentRequired
	}

	l, err := s.findByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if l.DecisionState != StatePending {
		return LeaveResponse{}, leaveerrors.ErrAlreadyDecided
	}

	return s.decide(ctx, l, DecisionUpdate{
		State:          StateRejected,
		DaysAuthorized: 0,
		Comment:        req.Comment,
		DecidedBy:      actorUUID,
		DecidedAt:      time.Now().UTC(),
	})
}

func (s *service) decide(ctx context.Context, l *LeaveRequest, upd DecisionUpdate) (LeaveResponse, error) {
	won, err := s.repo.DecideIfPending(ctx, l.ID.String(), upd)
	if err != nil {
		s.logger.Error("decision persist failed",
			zap.String("request_id", l.ID.String()),
			zap.String("target_state", upd.State),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	if !won {
		s.logger.Warn("decision lost compare-and-swap",
			zap.String("request_id", l.ID.String()),
			zap.String("target_state", upd.State),
		)
		return LeaveResponse{}, leaveerrors.ErrConcurrentDecision
	}

	l.DecisionState = upd.State
	l.DaysAuthorized = upd.DaysAuthorized
	l.DecisionComment = &upd.Comment
	l.DecidedBy = &upd.DecidedBy
	l.DecidedAt = &upd.DecidedAt

	// Emission is best-effort; the committed transition is the authoritative
	// outcome either way.
	s.notify.LeaveDecided(ctx, events.LeaveDecidedEvent{
		EventType:      "leave.decided",
		RequestID:      l.ID.String(),
		EmployeeID:     l.EmployeeID.String(),
		NewState:       upd.State,
		DaysAuthorized: upd.DaysAuthorized,
		Comment:        upd.Comment,
		DecidedBy:      upd.DecidedBy.String(),
		DecidedAt:      upd.DecidedAt,
		OccurredAt:     time.Now().UTC(),
	})

	s.logger.Info("decision recorded",
		zap.String("request_id", l.ID.String()),
		zap.String("state", upd.State),
		zap.Int("days_authorized", upd.DaysAuthorized),
		zap.String("decided_by", upd.DecidedBy.String()),
	)

	return mapToResponse(*l), nil
}

// Withdraw deletes an owner's still-pending request. Anyone else is
// forbidden; a decided request conflicts.
func (s *service) Withdraw(ctx context.Context, actor domain.Actor, id string) error {
	l, err := s.findByID(ctx, id)
	if err != nil {
		return err
	}
	if l.EmployeeID.String() != actor.EmployeeID {
		return leaveerrors.ErrNotOwner
	}
	if l.DecisionState != StatePending {
		return leaveerrors.ErrAlreadyDecided
	}

	ok, err := s.repo.DeleteIfPendingOwned(ctx, id, actor.EmployeeID)
	if err != nil {
		s.logger.Error("withdraw delete failed", zap.String("request_id", id), zap.Error(err))
		return err
	}
	if !ok {
		// a decision landed between the read and the delete
		return leaveerrors.ErrAlreadyDecided
	}

	s.logger.Info("leave request withdrawn",
		zap.String("request_id", id),
		zap.String("employee_id", actor.EmployeeID),
	)
	return nil
}

func (s *service) OpenSupportFile(ctx context.Context, actor domain.Actor, id string) (io.ReadCloser, string, error) {
	l, err := s.findVisible(ctx, actor, id)
	if err != nil {
		return nil, "", err
	}
	if l.SupportFileRef == nil || *l.SupportFileRef == "" {
		return nil, "", leaveerrors.ErrNoSupportFile
	}
	if !s.store.Exists(*l.SupportFileRef) {
		return nil, "", leaveerrors.ErrSupportFileMissing
	}

	rc, err := s.store.Open(*l.SupportFileRef)
	if err != nil {
		return nil, "", err
	}
	return rc, *l.SupportFileRef, nil
}

func (s *service) findByID(ctx context.Context, id string) (*LeaveRequest, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, leaveerrors.ErrInvalidRequestID
	}
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrRequestNotFound
		}
		return nil, err
	}
	return l, nil
}

// findVisible applies the owner-or-HR read rule.
func (s *service) findVisible(ctx context.Context, actor domain.Actor, id string) (*LeaveRequest, error) {
	l, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.EmployeeID.String() != actor.EmployeeID && !actor.IsHR() {
		return nil, leaveerrors.ErrNotOwner
	}
	return l, nil
}

func validateCreateRequest(actor domain.Actor, req CreateLeaveRequest) (uuid.UUID, time.Time, time.Time, error) {
	actorUUID, err := uuid.Parse(actor.EmployeeID)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidActorID
	}
	// rune count, so accented text agrees with the binding tag's min=20
	if utf8.RuneCountInString(req.ReasonText) < 20 {
		return uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrReasonTooShort
	}
	if req.DaysRequested < 1 {
		return uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidDaysRequested
	}
	if req.AreaImpact != "" && !validImpact(req.AreaImpact) {
		return uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidAreaImpact
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, err
	}
	if endDate.Before(startDate) {
		return uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	return actorUUID, startDate, endDate, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:                  l.ID.String(),
		EmployeeID:          l.EmployeeID.String(),
		Department:          l.Department,
		Position:            l.Position,
		TenureYears:         l.TenureYears,
		ReasonText:          l.ReasonText,
		DaysRequested:       l.DaysRequested,
		StartDate:           l.StartDate.Format("2006-01-02"),
		EndDate:             l.EndDate.Format("2006-01-02"),
		AreaImpact:          l.AreaImpact,
		PermitType:          l.PermitType,
		ApprovalProbability: l.ApprovalProbability,
		IsAnomalous:         l.IsAnomalous,
		ImpactScore:         l.ImpactScore,
		SuggestedDays:       l.SuggestedDays,
		DecisionState:       l.DecisionState,
		DaysAuthorized:      l.DaysAuthorized,
		DecisionComment:     l.DecisionComment,
		SupportFileRef:      l.SupportFileRef,
		CreatedAt:           l.CreatedAt.Format(time.RFC3339),
	}
	if l.DecidedBy != nil {
		v := l.DecidedBy.String()
		resp.DecidedBy = &v
	}
	if l.DecidedAt != nil {
		v := l.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &v
	}
	return resp
}

func mapToListResponse(requests []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(requests))
	for i, l := range requests {
		resp[i] = mapToResponse(l)
	}
	return resp
}
