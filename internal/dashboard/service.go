package dashboard

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/msousapenha/clinica-crm/internal/finance"
)

const (
	upcomingLimit = 8
	flowMonths    = 6
	mixLimit      = 5
)

// Service assembles the landing page snapshot.
type Service struct {
	repo  RepositoryPort
	cache *Cache
	now   func() time.Time
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache, now: time.Now}
}

// Snapshot returns the cached landing page aggregate, computing it on miss.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	now := s.now()
	key, err := s.cache.BuildKey(ctx, "dashboard", "snapshot", now.Format("2006-01-02"))
	if err != nil {
		return Snapshot{}, err
	}

	var snap Snapshot
	err = s.cache.FetchJSON(ctx, key, &snap, func(ctx context.Context) (interface{}, error) {
		return s.compute(ctx, now)
	})
	if err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Invalidate drops cached snapshots after a write that changes the numbers.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

func (s *Service) compute(ctx context.Context, now time.Time) (Snapshot, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	flowStart := monthStart.AddDate(0, -(flowMonths - 1), 0)

	var (
		counters Counters
		upcoming []UpcomingAppointment
		flow     []MonthPoint
		mix      []ProcedureShare
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		count, err := s.repo.CountAppointmentsBetween(gctx, dayStart, dayEnd)
		counters.AgendamentosHoje = count
		return err
	})
	g.Go(func() error {
		count, err := s.repo.CountActivePatients(gctx)
		counters.PacientesAtivos = count
		return err
	})
	g.Go(func() error {
		total, err := s.repo.SumRevenueBetween(gctx, monthStart, monthEnd)
		counters.ReceitaMes = total
		return err
	})
	g.Go(func() error {
		count, err := s.repo.CountLowStock(gctx)
		counters.ProdutosEmFalta = count
		return err
	})
	g.Go(func() error {
		list, err := s.repo.ListUpcoming(gctx, now, upcomingLimit)
		upcoming = list
		return err
	})
	g.Go(func() error {
		points, err := s.repo.MonthlyCashflow(gctx, flowStart, monthEnd)
		flow = points
		return err
	})
	g.Go(func() error {
		shares, err := s.repo.ProcedureMix(gctx, monthStart, monthEnd, mixLimit)
		mix = shares
		return err
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	return BuildSnapshot(counters, upcoming, flow, mix, finance.FormatBRL, now), nil
}
