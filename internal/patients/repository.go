package patients

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/msousapenha/clinica-crm/internal/shared"
)

// RepositoryPort defines data access methods for patients.
type RepositoryPort interface {
	List(ctx context.Context, search string) ([]Patient, error)
	Get(ctx context.Context, id int64) (Patient, error)
	Insert(ctx context.Context, in CreateInput) (Patient, error)
	Update(ctx context.Context, id int64, in UpdateInput) (Patient, error)
	Delete(ctx context.Context, id int64) error
	GetAnamnese(ctx context.Context, pacienteID int64) (Anamnese, error)
	UpsertAnamnese(ctx context.Context, a Anamnese) (Anamnese, error)
	ListEvolucoes(ctx context.Context, pacienteID int64) ([]Evolucao, error)
	InsertEvolucao(ctx context.Context, pacienteID, profissionalID int64, texto string) (Evolucao, error)
	ListConsultas(ctx context.Context, pacienteID int64) ([]Consulta, error)
}

// Repository provides PostgreSQL backed persistence for patients.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const patientColumns = `id, nome, whatsapp, status, ultima_visita, created_at, updated_at`

// List returns patients ordered by name, filtered by name or whatsapp.
func (r *Repository) List(ctx context.Context, search string) ([]Patient, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+patientColumns+` FROM pacientes
WHERE ($1 = '' OR nome ILIKE '%' || $1 || '%' OR whatsapp LIKE '%' || $1 || '%')
ORDER BY nome ASC`, search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	patients := []Patient{}
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		patients = append(patients, p)
	}
	return patients, rows.Err()
}

// Get fetches one patient.
func (r *Repository) Get(ctx context.Context, id int64) (Patient, error) {
	p, err := scanPatient(r.pool.QueryRow(ctx, `SELECT `+patientColumns+` FROM pacientes WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Patient{}, shared.ErrNotFound
		}
		return Patient{}, err
	}
	return p, nil
}

// Insert registers a new patient.
func (r *Repository) Insert(ctx context.Context, in CreateInput) (Patient, error) {
	p, err := scanPatient(r.pool.QueryRow(ctx, `INSERT INTO pacientes (nome, whatsapp, status, created_at, updated_at)
VALUES ($1, $2, $3, NOW(), NOW()) RETURNING `+patientColumns, in.Nome, in.Whatsapp, StatusAtivo))
	if err != nil {
		return Patient{}, shared.MapPgError(err)
	}
	return p, nil
}

// Update rewrites a patient record.
func (r *Repository) Update(ctx context.Context, id int64, in UpdateInput) (Patient, error) {
	p, err := scanPatient(r.pool.QueryRow(ctx, `UPDATE pacientes
SET nome = $2, whatsapp = $3, status = $4, updated_at = NOW()
WHERE id = $1 RETURNING `+patientColumns, id, in.Nome, in.Whatsapp, in.Status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Patient{}, shared.ErrNotFound
		}
		return Patient{}, shared.MapPgError(err)
	}
	return p, nil
}

// Delete removes a patient record.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM pacientes WHERE id = $1`, id)
	if err != nil {
		return shared.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GetAnamnese fetches the patient's intake questionnaire.
func (r *Repository) GetAnamnese(ctx context.Context, pacienteID int64) (Anamnese, error) {
	var a Anamnese
	err := r.pool.QueryRow(ctx, `SELECT paciente_id, alergias, roacutan, gestante_lactante, updated_by, updated_at
FROM anamneses WHERE paciente_id = $1`, pacienteID).
		Scan(&a.PacienteID, &a.Alergias, &a.Roacutan, &a.GestanteLactante, &a.UpdatedBy, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Anamnese{}, shared.ErrNotFound
		}
		return Anamnese{}, err
	}
	return a, nil
}

// UpsertAnamnese writes or overwrites the questionnaire.
func (r *Repository) UpsertAnamnese(ctx context.Context, a Anamnese) (Anamnese, error) {
	var out Anamnese
	err := r.pool.QueryRow(ctx, `INSERT INTO anamneses (paciente_id, alergias, roacutan, gestante_lactante, updated_by, updated_at)
VALUES ($1, $2, $3, $4, $5, NOW())
ON CONFLICT (paciente_id) DO UPDATE SET alergias = EXCLUDED.alergias, roacutan = EXCLUDED.roacutan,
    gestante_lactante = EXCLUDED.gestante_lactante, updated_by = EXCLUDED.updated_by, updated_at = NOW()
RETURNING paciente_id, alergias, roacutan, gestante_lactante, updated_by, updated_at`,
		a.PacienteID, a.Alergias, a.Roacutan, a.GestanteLactante, a.UpdatedBy).
		Scan(&out.PacienteID, &out.Alergias, &out.Roacutan, &out.GestanteLactante, &out.UpdatedBy, &out.UpdatedAt)
	if err != nil {
		return Anamnese{}, shared.MapPgError(err)
	}
	return out, nil
}

// ListEvolucoes returns progress notes newest first.
func (r *Repository) ListEvolucoes(ctx context.Context, pacienteID int64) ([]Evolucao, error) {
	rows, err := r.pool.Query(ctx, `SELECT e.id, e.paciente_id, COALESCE(p.nome, ''), e.texto, e.registrado_em
FROM evolucoes e
LEFT JOIN profissionais p ON p.id = e.profissional_id
WHERE e.paciente_id = $1
ORDER BY e.registrado_em DESC`, pacienteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []Evolucao{}
	for rows.Next() {
		var e Evolucao
		if err := rows.Scan(&e.ID, &e.PacienteID, &e.Profissional, &e.Texto, &e.RegistradoEm); err != nil {
			return nil, err
		}
		notes = append(notes, e)
	}
	return notes, rows.Err()
}

// InsertEvolucao appends a progress note.
func (r *Repository) InsertEvolucao(ctx context.Context, pacienteID, profissionalID int64, texto string) (Evolucao, error) {
	var out Evolucao
	err := r.pool.QueryRow(ctx, `WITH inserted AS (
    INSERT INTO evolucoes (paciente_id, profissional_id, texto, registrado_em)
    VALUES ($1, NULLIF($2, 0), $3, NOW())
    RETURNING id, paciente_id, profissional_id, texto, registrado_em
)
SELECT i.id, i.paciente_id, COALESCE(p.nome, ''), i.texto, i.registrado_em
FROM inserted i LEFT JOIN profissionais p ON p.id = i.profissional_id`,
		pacienteID, profissionalID, texto).
		Scan(&out.ID, &out.PacienteID, &out.Profissional, &out.Texto, &out.RegistradoEm)
	if err != nil {
		return Evolucao{}, shared.MapPgError(err)
	}
	return out, nil
}

// ListConsultas returns the patient's appointment history newest first.
func (r *Repository) ListConsultas(ctx context.Context, pacienteID int64) ([]Consulta, error) {
	rows, err := r.pool.Query(ctx, `SELECT a.id, a.inicio, COALESCE(pr.nome, ''), COALESCE(pf.nome, ''), a.status
FROM agendamentos a
LEFT JOIN procedimentos pr ON pr.id = a.procedimento_id
LEFT JOIN profissionais pf ON pf.id = a.profissional_id
WHERE a.paciente_id = $1
ORDER BY a.inicio DESC`, pacienteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	consultas := []Consulta{}
	for rows.Next() {
		var c Consulta
		if err := rows.Scan(&c.ID, &c.Inicio, &c.Procedimento, &c.Profissional, &c.Status); err != nil {
			return nil, err
		}
		consultas = append(consultas, c)
	}
	return consultas, rows.Err()
}

func scanPatient(row pgx.Row) (Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.Nome, &p.Whatsapp, &p.Status, &p.UltimaVisita, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

var _ RepositoryPort = (*Repository)(nil)
