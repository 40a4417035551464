package dashboard

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryPort defines the aggregate queries behind the landing page.
type RepositoryPort interface {
	CountAppointmentsBetween(ctx context.Context, from, to time.Time) (int, error)
	CountActivePatients(ctx context.Context) (int, error)
	SumRevenueBetween(ctx context.Context, from, to time.Time) (float64, error)
	CountLowStock(ctx context.Context) (int, error)
	ListUpcoming(ctx context.Context, from time.Time, limit int) ([]UpcomingAppointment, error)
	MonthlyCashflow(ctx context.Context, from, to time.Time) ([]MonthPoint, error)
	ProcedureMix(ctx context.Context, from, to time.Time, limit int) ([]ProcedureShare, error)
}

// Repository runs the aggregates against PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) CountAppointmentsBetween(ctx context.Context, from, to time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM agendamentos WHERE inicio >= $1 AND inicio < $2`, from, to).Scan(&count)
	return count, err
}

func (r *Repository) CountActivePatients(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM pacientes WHERE status = 'ativo'`).Scan(&count)
	return count, err
}

func (r *Repository) SumRevenueBetween(ctx context.Context, from, to time.Time) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(valor), 0) FROM transacoes WHERE tipo = 'entrada' AND data >= $1 AND data < $2`, from, to).Scan(&total)
	return total, err
}

func (r *Repository) CountLowStock(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM produtos WHERE qtd <= estoque_minimo`).Scan(&count)
	return count, err
}

func (r *Repository) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]UpcomingAppointment, error) {
	rows, err := r.pool.Query(ctx, `SELECT a.id, COALESCE(pa.nome, ''), COALESCE(pf.nome, ''), COALESCE(pr.nome, ''), a.inicio, a.status
FROM agendamentos a
LEFT JOIN pacientes pa ON pa.id = a.paciente_id
LEFT JOIN profissionais pf ON pf.id = a.profissional_id
LEFT JOIN procedimentos pr ON pr.id = a.procedimento_id
WHERE a.inicio >= $1 AND a.status IN ('agendado', 'confirmado')
ORDER BY a.inicio ASC
LIMIT $2`, from, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	upcoming := []UpcomingAppointment{}
	for rows.Next() {
		var u UpcomingAppointment
		if err := rows.Scan(&u.ID, &u.Paciente, &u.Profissional, &u.Procedimento, &u.Inicio, &u.Status); err != nil {
			return nil, err
		}
		upcoming = append(upcoming, u)
	}
	return upcoming, rows.Err()
}

func (r *Repository) MonthlyCashflow(ctx context.Context, from, to time.Time) ([]MonthPoint, error) {
	rows, err := r.pool.Query(ctx, `SELECT to_char(date_trunc('month', data), 'YYYY-MM'),
COALESCE(SUM(valor) FILTER (WHERE tipo = 'entrada'), 0),
COALESCE(SUM(valor) FILTER (WHERE tipo = 'saida'), 0)
FROM transacoes
WHERE data >= $1 AND data < $2
GROUP BY 1
ORDER BY 1 ASC`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := []MonthPoint{}
	for rows.Next() {
		var p MonthPoint
		if err := rows.Scan(&p.Mes, &p.Entradas, &p.Saidas); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func (r *Repository) ProcedureMix(ctx context.Context, from, to time.Time, limit int) ([]ProcedureShare, error) {
	rows, err := r.pool.Query(ctx, `SELECT COALESCE(pr.nome, ''), COUNT(*)
FROM agendamentos a
LEFT JOIN procedimentos pr ON pr.id = a.procedimento_id
WHERE a.inicio >= $1 AND a.inicio < $2 AND a.status = 'concluido'
GROUP BY 1
ORDER BY COUNT(*) DESC, 1 ASC
LIMIT $3`, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	mix := []ProcedureShare{}
	for rows.Next() {
		var s ProcedureShare
		if err := rows.Scan(&s.Procedimento, &s.Total); err != nil {
			return nil, err
		}
		mix = append(mix, s)
	}
	return mix, rows.Err()
}
