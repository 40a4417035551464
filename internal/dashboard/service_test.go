package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/msousapenha/clinica-crm/internal/finance"
	_ "github.com/msousapenha/clinica-crm/testing"
)

type stubRepo struct {
	counters Counters
	upcoming []UpcomingAppointment
	flow     []MonthPoint
	mix      []ProcedureShare
	calls    int
}

func (s *stubRepo) CountAppointmentsBetween(ctx context.Context, from, to time.Time) (int, error) {
	s.calls++
	return s.counters.AgendamentosHoje, nil
}

func (s *stubRepo) CountActivePatients(ctx context.Context) (int, error) {
	return s.counters.PacientesAtivos, nil
}

func (s *stubRepo) SumRevenueBetween(ctx context.Context, from, to time.Time) (float64, error) {
	return s.counters.ReceitaMes, nil
}

func (s *stubRepo) CountLowStock(ctx context.Context) (int, error) {
	return s.counters.ProdutosEmFalta, nil
}

func (s *stubRepo) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]UpcomingAppointment, error) {
	return s.upcoming, nil
}

func (s *stubRepo) MonthlyCashflow(ctx context.Context, from, to time.Time) ([]MonthPoint, error) {
	return s.flow, nil
}

func (s *stubRepo) ProcedureMix(ctx context.Context, from, to time.Time, limit int) ([]ProcedureShare, error) {
	return s.mix, nil
}

func TestBuildSnapshot(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 30, 0, 0, time.UTC)
	counters := Counters{
		AgendamentosHoje: 6,
		PacientesAtivos:  120,
		ReceitaMes:       15430.75,
		ProdutosEmFalta:  2,
	}
	upcoming := []UpcomingAppointment{{ID: 1, Paciente: "Ana", Status: "confirmado"}}
	flow := []MonthPoint{
		{Mes: "2026-08", Entradas: 12000, Saidas: 4200},
		{Mes: "2026-09", Entradas: 15430.75, Saidas: 980},
	}
	mix := []ProcedureShare{{Procedimento: "Limpeza de Pele", Total: 9}}

	snap := BuildSnapshot(counters, upcoming, flow, mix, finance.FormatBRL, now)
	require.Equal(t, 6, snap.AgendamentosHoje)
	require.Equal(t, 120, snap.PacientesAtivos)
	require.InDelta(t, 15430.75, snap.ReceitaMes, 0.001)
	require.Equal(t, "R$ 15.430,75", snap.ReceitaMesFmt)
	require.Equal(t, 2, snap.ProdutosEmFalta)
	require.Equal(t, upcoming, snap.ProximosAtendimentos)
	require.Equal(t, flow, snap.FluxoMensal)
	require.Equal(t, mix, snap.MixProcedimentos)
	require.Equal(t, now, snap.GeradoEm)
}

func TestBuildSnapshotNilSlices(t *testing.T) {
	snap := BuildSnapshot(Counters{}, nil, nil, nil, nil, time.Now())
	require.NotNil(t, snap.ProximosAtendimentos)
	require.Empty(t, snap.ProximosAtendimentos)
	require.NotNil(t, snap.FluxoMensal)
	require.NotNil(t, snap.MixProcedimentos)
	require.Empty(t, snap.ReceitaMesFmt)
}

func TestSnapshotUsesCache(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewCache(client, time.Minute)

	repo := &stubRepo{
		counters: Counters{AgendamentosHoje: 3, PacientesAtivos: 40, ReceitaMes: 900, ProdutosEmFalta: 1},
		upcoming: []UpcomingAppointment{{ID: 2, Paciente: "Bruno"}},
	}
	svc := NewService(repo, cache)
	svc.now = func() time.Time { return time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC) }

	first, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, first.AgendamentosHoje)
	require.Equal(t, 1, repo.calls)

	second, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, first.AgendamentosHoje, second.AgendamentosHoje)
	require.Equal(t, 1, repo.calls)
}

func TestInvalidateBumpsVersion(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewCache(client, time.Minute)

	repo := &stubRepo{counters: Counters{AgendamentosHoje: 3}}
	svc := NewService(repo, cache)
	svc.now = func() time.Time { return time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC) }

	_, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, repo.calls)

	require.NoError(t, svc.Invalidate(ctx))

	repo.counters.AgendamentosHoje = 5
	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, 5, snap.AgendamentosHoje)
	require.Equal(t, 2, repo.calls)
}
