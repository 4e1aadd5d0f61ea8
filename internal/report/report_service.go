package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/jdsuarez23/comfachoco/internal/classification"
	"github.com/jdsuarez23/comfachoco/internal/leave"
)

//go:generate mockgen -source=report_service.go -destination=mock/report_service_mock.go -package=mock
type Service interface {
	Stats(ctx context.Context) (StatsResponse, error)
	ExportCSV(ctx context.Context, w io.Writer) (int, error)
	TriggerTraining(ctx context.Context) error
}

type service struct {
	repo   Repository
	leaves leave.Repository
	ml     classification.MLClient
	group  singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, leaves leave.Repository, ml classification.MLClient, logger ...*zap.Logger) Service {
	l := zap.L().Named("report.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.service")
	}
	return &service{repo: repo, leaves: leaves, ml: ml, logger: l}
}

// Stats aggregates the dashboard numbers. Concurrent callers share one
// round of queries through singleflight; the dashboard polls aggressively.
func (s *service) Stats(ctx context.Context) (StatsResponse, error) {
	v, err, _ := s.group.Do("stats", func() (any, error) {
		general, err := s.repo.GeneralStats(ctx)
		if err != nil {
			return nil, err
		}
		byType, err := s.repo.CountByPermitType(ctx)
		if err != nil {
			return nil, err
		}
		byDept, err := s.repo.CountByDepartment(ctx)
		if err != nil {
			return nil, err
		}
		return StatsResponse{
			General:      general,
			ByPermitType: byType,
			ByDepartment: byDept,
		}, nil
	})
	if err != nil {
		return StatsResponse{}, err
	}
	return v.(StatsResponse), nil
}

var csvHeader = []string{
	"id", "employee_id", "department", "position", "tenure_years",
	"permit_type", "days_requested", "days_authorized", "reason_text",
	"area_impact", "approval_probability", "is_anomalous",
	"decision_state", "decision_comment", "start_date", "end_date",
	"created_at", "decided_at",
}

// ExportCSV streams every request as CSV rows and reports how many were
// written.
func (s *service) ExportCSV(ctx context.Context, w io.Writer) (int, error) {
	requests, err := s.leaves.FindAll(ctx, leave.ListFilter{})
	if err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return 0, err
	}

	for i, l := range requests {
		comment := ""
		if l.DecisionComment != nil {
			comment = *l.DecisionComment
		}
		decidedAt := ""
		if l.DecidedAt != nil {
			decidedAt = l.DecidedAt.Format("2006-01-02 15:04:05")
		}

		row := []string{
			l.ID.String(),
			l.EmployeeID.String(),
			l.Department,
			l.Position,
			strconv.Itoa(l.TenureYears),
			l.PermitType,
			strconv.Itoa(l.DaysRequested),
			strconv.Itoa(l.DaysAuthorized),
			l.ReasonText,
			l.AreaImpact,
			fmt.Sprintf("%.4f", l.ApprovalProbability),
			strconv.FormatBool(l.IsAnomalous),
			l.DecisionState,
			comment,
			l.StartDate.Format("2006-01-02"),
			l.EndDate.Format("2006-01-02"),
			l.CreatedAt.Format("2006-01-02 15:04:05"),
			decidedAt,
		}
		if err := cw.Write(row); err != nil {
			return i, err
		}
	}

	cw.Flush()
	return len(requests), cw.Error()
}

func (s *service) TriggerTraining(ctx context.Context) error {
	s.logger.Info("ml retraining triggered")
	return s.ml.Train(ctx)
}
