package staff

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/msousapenha/clinica-crm/internal/shared"
	_ "github.com/msousapenha/clinica-crm/testing"
)

type memoryRepo struct {
	profs  map[int64]Professional
	nextID int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{profs: make(map[int64]Professional)}
}

func (r *memoryRepo) List(ctx context.Context, search string) ([]Professional, error) {
	var out []Professional
	for _, p := range r.profs {
		if search != "" && !strings.Contains(strings.ToLower(p.Nome), strings.ToLower(search)) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (Professional, error) {
	p, ok := r.profs[id]
	if !ok {
		return Professional{}, shared.ErrNotFound
	}
	return p, nil
}

func (r *memoryRepo) Insert(ctx context.Context, in Input) (Professional, error) {
	r.nextID++
	p := Professional{
		ID:              r.nextID,
		Nome:            in.Nome,
		Especialidade:   in.Especialidade,
		Registro:        in.Registro,
		Whatsapp:        in.Whatsapp,
		ComissaoPct:     in.ComissaoPct,
		AtendePacientes: in.AtendePacientes,
		Status:          in.Status,
	}
	r.profs[p.ID] = p
	return p, nil
}

func (r *memoryRepo) Update(ctx context.Context, id int64, in Input) (Professional, error) {
	p, ok := r.profs[id]
	if !ok {
		return Professional{}, shared.ErrNotFound
	}
	p.Nome = in.Nome
	p.Especialidade = in.Especialidade
	p.Registro = in.Registro
	p.Whatsapp = in.Whatsapp
	p.ComissaoPct = in.ComissaoPct
	p.AtendePacientes = in.AtendePacientes
	p.Status = in.Status
	r.profs[id] = p
	return p, nil
}

func (r *memoryRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.profs[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.profs, id)
	return nil
}

func TestCreateDefaultsStatus(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)

	p, err := svc.Create(context.Background(), 1, Input{Nome: "Dra. Ana Souza", Especialidade: "Dermatologia", ComissaoPct: 30, AtendePacientes: true})
	require.NoError(t, err)
	require.Equal(t, StatusAtivo, p.Status)
	require.InDelta(t, 30, p.ComissaoPct, 0.001)
	require.True(t, p.AtendePacientes)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)

	_, err := svc.Create(context.Background(), 1, Input{Nome: "  "})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Create(context.Background(), 1, Input{Nome: "Dra. Ana", Status: "afastada"})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Create(context.Background(), 1, Input{Nome: "Dra. Ana", ComissaoPct: 120})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Create(context.Background(), 1, Input{Nome: "Dra. Ana", ComissaoPct: -5})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpdateRewritesEntry(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)

	p, err := svc.Create(context.Background(), 1, Input{Nome: "Dra. Ana", AtendePacientes: true})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), 1, p.ID, Input{Nome: "Dra. Ana Souza", ComissaoPct: 25, AtendePacientes: false, Status: StatusInativo})
	require.NoError(t, err)
	require.Equal(t, "Dra. Ana Souza", updated.Nome)
	require.InDelta(t, 25, updated.ComissaoPct, 0.001)
	require.False(t, updated.AtendePacientes)
	require.Equal(t, StatusInativo, updated.Status)
}

func TestDeleteMissingProfessional(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)

	err := svc.Delete(context.Background(), 1, 99)
	require.ErrorIs(t, err, shared.ErrNotFound)
}
