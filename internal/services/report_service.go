package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"household-ledger/internal/aggregation"
	"household-ledger/internal/dto"
	"household-ledger/internal/models"
	"household-ledger/internal/report"
	"household-ledger/internal/repositories"
	"household-ledger/internal/session"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DashboardRecentLimit is the number of recent transactions on the dashboard.
const DashboardRecentLimit = 5

// ReportOptions controls report presentation
type ReportOptions struct {
	Title          string
	CurrencySymbol string
}

// ReportService aggregates scoped transactions into dashboards, chart data
// and the printable report.
type ReportService struct {
	transactionRepo repositories.TransactionRepositoryInterface
	categoryRepo    repositories.CategoryRepositoryInterface
	memberRepo      repositories.MemberRepositoryInterface
	options         ReportOptions
	notify          notifier
	logger          *slog.Logger
	now             func() time.Time
}

// NewReportService creates a new report service
func NewReportService(
	transactionRepo repositories.TransactionRepositoryInterface,
	categoryRepo repositories.CategoryRepositoryInterface,
	memberRepo repositories.MemberRepositoryInterface,
	options ReportOptions,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) ReportServiceInterface {
	n := newNotifier(nil, metrics, logger)
	return &ReportService{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		memberRepo:      memberRepo,
		options:         options,
		notify:          n,
		logger:          n.logger,
		now:             time.Now,
	}
}

// Dashboard summarises every transaction the session can see.
func (s *ReportService) Dashboard(ctx context.Context, sess *session.Session) (*dto.DashboardResponse, error) {
	if sess == nil {
		return nil, ErrUnauthenticated
	}

	var (
		transactions []models.Transaction
		lookup       aggregation.CategoryLookup
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		transactions, err = s.transactionRepo.List(gctx, models.TransactionFilters{
			MemberID: sess.ScopeMember(nil),
		})
		if err != nil {
			return fmt.Errorf("failed to list transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		lookup, err = s.lookup(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp := &dto.DashboardResponse{
		Dashboard: aggregation.BuildDashboard(transactions),
		Recent:    make([]dto.TransactionResponse, 0, DashboardRecentLimit),
	}

	// transactions arrive newest first
	for i := range transactions {
		if i == DashboardRecentLimit {
			break
		}
		t := &transactions[i]
		resp.Recent = append(resp.Recent, dto.NewTransactionResponse(t, lookup.Resolve(t.CategoryID), ""))
	}

	return resp, nil
}

// Overview returns the chart data for year. A zero year means the current year.
func (s *ReportService) Overview(ctx context.Context, sess *session.Session, year int, memberFilter *uuid.UUID) (*dto.OverviewResponse, error) {
	if sess == nil {
		return nil, ErrUnauthenticated
	}
	year = s.resolveYear(year)

	var (
		transactions []models.Transaction
		lookup       aggregation.CategoryLookup
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		transactions, err = s.yearTransactions(gctx, sess, year, memberFilter)
		return err
	})
	g.Go(func() error {
		var err error
		lookup, err = s.lookup(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	overview := aggregation.BuildYearOverview(transactions, year, lookup)

	return &dto.OverviewResponse{
		YearOverview:       overview,
		AverageDailyCredit: aggregation.DailyAverage(overview.Summary.Credit),
		AverageDailyDebit:  aggregation.DailyAverage(overview.Summary.Debit),
	}, nil
}

// Build assembles the report document for year.
func (s *ReportService) Build(ctx context.Context, sess *session.Session, year int, memberFilter *uuid.UUID) (*report.Document, error) {
	if sess == nil {
		return nil, ErrUnauthenticated
	}
	year = s.resolveYear(year)

	var (
		transactions []models.Transaction
		lookup       aggregation.CategoryLookup
		members      map[uuid.UUID]string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		transactions, err = s.yearTransactions(gctx, sess, year, memberFilter)
		return err
	})
	g.Go(func() error {
		var err error
		lookup, err = s.lookup(gctx)
		return err
	})
	if sess.IsAdmin() {
		g.Go(func() error {
			list, err := s.memberRepo.List(gctx)
			if err != nil {
				return fmt.Errorf("failed to list members: %w", err)
			}
			members = make(map[uuid.UUID]string, len(list))
			for _, m := range list {
				members[m.ID] = m.Name
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return report.Build(report.Input{
		Title:          s.options.Title,
		Year:           year,
		Session:        sess,
		Transactions:   transactions,
		Categories:     lookup,
		Members:        members,
		CurrencySymbol: s.options.CurrencySymbol,
		GeneratedAt:    s.now(),
	}), nil
}

// Export builds the report for year and renders it to w as HTML.
func (s *ReportService) Export(ctx context.Context, w io.Writer, sess *session.Session, year int, memberFilter *uuid.UUID) (*report.Document, error) {
	started := s.now()

	doc, err := s.Build(ctx, sess, year, memberFilter)
	if err != nil {
		return nil, err
	}

	if err := report.Render(w, doc); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	s.notify.observe("report_export", started)
	s.notify.count("report_exported", map[string]string{"role": sess.Actor.Role})
	s.logger.InfoContext(ctx, "report exported",
		"actor_id", sess.MemberID(),
		"year", doc.Header.Year,
		"rows", len(doc.Ledger))

	return doc, nil
}

func (s *ReportService) resolveYear(year int) int {
	if year <= 0 {
		return s.now().Year()
	}
	return year
}

func (s *ReportService) yearTransactions(ctx context.Context, sess *session.Session, year int, memberFilter *uuid.UUID) ([]models.Transaction, error) {
	start, end := models.YearRange(year)

	transactions, err := s.transactionRepo.List(ctx, models.TransactionFilters{
		MemberID:  sess.ScopeMember(memberFilter),
		StartDate: &start,
		EndDate:   &end,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return transactions, nil
}

func (s *ReportService) lookup(ctx context.Context) (aggregation.CategoryLookup, error) {
	categories, err := s.categoryRepo.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return aggregation.NewCategoryLookup(categories), nil
}
