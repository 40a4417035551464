package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/msousapenha/clinica-crm/internal/platform/db"
	"github.com/msousapenha/clinica-crm/internal/shared"
)

// RepositoryPort defines data access methods for appointments.
type RepositoryPort interface {
	List(ctx context.Context, filter ListFilter) ([]Appointment, error)
	Get(ctx context.Context, id int64) (Appointment, error)
	Insert(ctx context.Context, code string, in CreateInput) (Appointment, error)
	Update(ctx context.Context, id int64, in UpdateInput) (Appointment, error)
	Delete(ctx context.Context, id int64) error
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes the transactional operations used by Finalize.
type TxRepository interface {
	GetForUpdate(ctx context.Context, id int64) (Appointment, error)
	SetStatus(ctx context.Context, id int64, status Status) error
	InsertNote(ctx context.Context, pacienteID, profissionalID int64, texto string) error
	ConsumeStock(ctx context.Context, produtoID int64, qtd float64) error
	InsertMovement(ctx context.Context, produtoID int64, qtd float64, referencia string) error
	ProcedureValues(ctx context.Context, ids []int64) (map[int64]float64, error)
	InsertPerformedProcedures(ctx context.Context, agendamentoID int64, ids []int64) error
	InsertRevenue(ctx context.Context, data time.Time, descricao string, valor float64) error
	TouchPatientVisit(ctx context.Context, pacienteID int64, at time.Time) error
}

// Repository persists appointments in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const apptColumns = `a.id, a.codigo, a.paciente_id, COALESCE(pa.nome, ''), a.profissional_id, COALESCE(pf.nome, ''),
a.procedimento_id, COALESCE(pr.nome, ''), a.inicio, a.fim, a.status, COALESCE(a.observacoes, ''), a.created_at, a.updated_at`

const apptJoins = `FROM agendamentos a
LEFT JOIN pacientes pa ON pa.id = a.paciente_id
LEFT JOIN profissionais pf ON pf.id = a.profissional_id
LEFT JOIN procedimentos pr ON pr.id = a.procedimento_id`

// List returns appointments within the date window ordered by start time.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+apptColumns+` `+apptJoins+`
WHERE a.inicio >= COALESCE(NULLIF($1, '0001-01-01T00:00:00Z'::timestamptz), '-infinity')
  AND a.inicio <= COALESCE(NULLIF($2, '0001-01-01T00:00:00Z'::timestamptz), 'infinity')
ORDER BY a.inicio ASC`, filter.From, filter.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	appts := []Appointment{}
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appts = append(appts, appt)
	}
	return appts, rows.Err()
}

// Get fetches one appointment.
func (r *Repository) Get(ctx context.Context, id int64) (Appointment, error) {
	appt, err := scanAppointment(r.pool.QueryRow(ctx, `SELECT `+apptColumns+` `+apptJoins+` WHERE a.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Appointment{}, shared.ErrNotFound
		}
		return Appointment{}, err
	}
	return appt, nil
}

// Insert books a new appointment.
func (r *Repository) Insert(ctx context.Context, code string, in CreateInput) (Appointment, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO agendamentos (codigo, paciente_id, profissional_id, procedimento_id, inicio, fim, status, observacoes, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()) RETURNING id`,
		code, in.PacienteID, in.ProfissionalID, in.ProcedimentoID, in.Inicio, in.Fim, string(in.Status), in.Observacoes).Scan(&id)
	if err != nil {
		return Appointment{}, shared.MapPgError(err)
	}
	return r.Get(ctx, id)
}

// Update reschedules or re-statuses an appointment.
func (r *Repository) Update(ctx context.Context, id int64, in UpdateInput) (Appointment, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE agendamentos
SET profissional_id = $2, procedimento_id = $3, inicio = $4, fim = $5, status = $6, observacoes = $7, updated_at = NOW()
WHERE id = $1`, id, in.ProfissionalID, in.ProcedimentoID, in.Inicio, in.Fim, string(in.Status), in.Observacoes)
	if err != nil {
		return Appointment{}, shared.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return Appointment{}, shared.ErrNotFound
	}
	return r.Get(ctx, id)
}

// Delete removes an appointment.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM agendamentos WHERE id = $1`, id)
	if err != nil {
		return shared.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// WithTx executes the callback inside a repeatable-read transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) GetForUpdate(ctx context.Context, id int64) (Appointment, error) {
	var appt Appointment
	var status string
	err := r.tx.QueryRow(ctx, `SELECT id, codigo, paciente_id, profissional_id, procedimento_id, inicio, fim, status, COALESCE(observacoes, ''), created_at, updated_at
FROM agendamentos WHERE id = $1 FOR UPDATE`, id).
		Scan(&appt.ID, &appt.Code, &appt.PacienteID, &appt.ProfissionalID, &appt.ProcedimentoID, &appt.Inicio, &appt.Fim, &status, &appt.Observacoes, &appt.CreatedAt, &appt.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Appointment{}, shared.ErrNotFound
		}
		return Appointment{}, err
	}
	appt.Status = Status(status)
	return appt, nil
}

func (r *txRepository) SetStatus(ctx context.Context, id int64, status Status) error {
	_, err := r.tx.Exec(ctx, `UPDATE agendamentos SET status = $2, updated_at = NOW() WHERE id = $1`, id, string(status))
	return err
}

func (r *txRepository) InsertNote(ctx context.Context, pacienteID, profissionalID int64, texto string) error {
	_, err := r.tx.Exec(ctx, `INSERT INTO evolucoes (paciente_id, profissional_id, texto, registrado_em)
VALUES ($1, NULLIF($2, 0), $3, NOW())`, pacienteID, profissionalID, texto)
	return err
}

func (r *txRepository) ConsumeStock(ctx context.Context, produtoID int64, qtd float64) error {
	tag, err := r.tx.Exec(ctx, `UPDATE produtos SET qtd = qtd - $2, updated_at = NOW()
WHERE id = $1 AND qtd >= $2`, produtoID, qtd)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (r *txRepository) InsertMovement(ctx context.Context, produtoID int64, qtd float64, referencia string) error {
	_, err := r.tx.Exec(ctx, `INSERT INTO movimentos_estoque (produto_id, tipo, qtd, referencia, registrado_em)
VALUES ($1, 'saida', $2, $3, NOW())`, produtoID, qtd, referencia)
	return err
}

func (r *txRepository) ProcedureValues(ctx context.Context, ids []int64) (map[int64]float64, error) {
	rows, err := r.tx.Query(ctx, `SELECT id, valor FROM procedimentos WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := make(map[int64]float64, len(ids))
	for rows.Next() {
		var id int64
		var valor float64
		if err := rows.Scan(&id, &valor); err != nil {
			return nil, err
		}
		values[id] = valor
	}
	return values, rows.Err()
}

func (r *txRepository) InsertPerformedProcedures(ctx context.Context, agendamentoID int64, ids []int64) error {
	for _, id := range ids {
		if _, err := r.tx.Exec(ctx, `INSERT INTO agendamento_procedimentos (agendamento_id, procedimento_id)
VALUES ($1, $2)`, agendamentoID, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *txRepository) InsertRevenue(ctx context.Context, data time.Time, descricao string, valor float64) error {
	_, err := r.tx.Exec(ctx, `INSERT INTO transacoes (data, descricao, categoria, valor, tipo, created_at)
VALUES ($1, $2, 'Procedimento', $3, 'entrada', NOW())`, data, descricao, valor)
	return err
}

func (r *txRepository) TouchPatientVisit(ctx context.Context, pacienteID int64, at time.Time) error {
	_, err := r.tx.Exec(ctx, `UPDATE pacientes SET ultima_visita = $2, updated_at = NOW() WHERE id = $1`, pacienteID, at)
	return err
}

func scanAppointment(row pgx.Row) (Appointment, error) {
	var appt Appointment
	var status string
	err := row.Scan(&appt.ID, &appt.Code, &appt.PacienteID, &appt.Paciente, &appt.ProfissionalID, &appt.Profissional,
		&appt.ProcedimentoID, &appt.Procedimento, &appt.Inicio, &appt.Fim, &status, &appt.Observacoes, &appt.CreatedAt, &appt.UpdatedAt)
	if err != nil {
		return Appointment{}, err
	}
	appt.Status = Status(status)
	return appt, nil
}

var _ RepositoryPort = (*Repository)(nil)
