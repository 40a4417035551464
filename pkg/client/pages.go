package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ConfirmFunc asks the user to confirm a destructive action.
type ConfirmFunc func(prompt string) bool

// PatientsPage drives the patient records screen.
type PatientsPage struct {
	shell   *Shell
	gateway *Gateway
	List    *ListView[Patient]
}

// NewPatientsPage builds the patients controller.
func NewPatientsPage(shell *Shell, gateway *Gateway) *PatientsPage {
	p := &PatientsPage{shell: shell, gateway: gateway}
	p.List = NewListView(shell, func(ctx context.Context, token string) ([]Patient, error) {
		var items []Patient
		err := gateway.Do(ctx, http.MethodGet, "/pacientes", token, nil, &items)
		return items, err
	})
	return p
}

// Save creates or updates a patient and refetches the list.
func (p *PatientsPage) Save(ctx context.Context, patient Patient) error {
	method, path := http.MethodPost, "/pacientes"
	if patient.ID != 0 {
		method, path = http.MethodPut, "/pacientes/"+formatID(patient.ID)
	}
	if err := p.shell.ObserveError(p.gateway.Do(ctx, method, path, p.shell.store.Token(), patient, nil)); err != nil {
		return err
	}
	_, err := p.List.Refresh(ctx)
	return err
}

// Delete removes a patient after confirmation.
func (p *PatientsPage) Delete(ctx context.Context, id int64, confirm ConfirmFunc) error {
	if confirm != nil && !confirm("Excluir este paciente?") {
		return nil
	}
	if err := p.shell.ObserveError(p.gateway.Do(ctx, http.MethodDelete, "/pacientes/"+formatID(id), p.shell.store.Token(), nil, nil)); err != nil {
		return err
	}
	_, err := p.List.Refresh(ctx)
	return err
}

// Anamnese loads the anamnesis form of a patient.
func (p *PatientsPage) Anamnese(ctx context.Context, id int64) (Anamnese, error) {
	var a Anamnese
	err := p.shell.ObserveError(p.gateway.Do(ctx, http.MethodGet, "/pacientes/"+formatID(id)+"/anamnese", p.shell.store.Token(), nil, &a))
	return a, err
}

// SaveAnamnese stores the anamnesis form.
func (p *PatientsPage) SaveAnamnese(ctx context.Context, a Anamnese) error {
	return p.shell.ObserveError(p.gateway.Do(ctx, http.MethodPut, "/pacientes/"+formatID(a.PacienteID)+"/anamnese", p.shell.store.Token(), a, nil))
}

// Evolucoes lists the clinical notes of a patient.
func (p *PatientsPage) Evolucoes(ctx context.Context, id int64) ([]Evolucao, error) {
	var notes []Evolucao
	err := p.shell.ObserveError(p.gateway.Do(ctx, http.MethodGet, "/pacientes/"+formatID(id)+"/evolucoes", p.shell.store.Token(), nil, &notes))
	return notes, err
}

// SchedulePage drives the agenda screen.
type SchedulePage struct {
	shell   *Shell
	gateway *Gateway
	List    *ListView[Appointment]

	from, to time.Time
}

// NewSchedulePage builds the agenda controller.
func NewSchedulePage(shell *Shell, gateway *Gateway) *SchedulePage {
	p := &SchedulePage{shell: shell, gateway: gateway}
	p.List = NewListView(shell, func(ctx context.Context, token string) ([]Appointment, error) {
		query := url.Values{}
		if !p.from.IsZero() {
			query.Set("de", p.from.Format(time.RFC3339))
		}
		if !p.to.IsZero() {
			query.Set("ate", p.to.Format(time.RFC3339))
		}
		path := "/agendamentos"
		if len(query) > 0 {
			path += "?" + query.Encode()
		}
		var items []Appointment
		err := gateway.Do(ctx, http.MethodGet, path, token, nil, &items)
		return items, err
	})
	return p
}

// SetWindow narrows the agenda to a date window for the next refresh.
func (p *SchedulePage) SetWindow(from, to time.Time) {
	p.from, p.to = from, to
}

// Finalize closes an appointment with its clinical record and consumed
// stock, then refetches the agenda.
func (p *SchedulePage) Finalize(ctx context.Context, id int64, texto string, itens []ConsumedItem, procedimentos []int64) error {
	payload := map[string]any{
		"texto":         texto,
		"itensConsumo":  itens,
		"procedimentos": procedimentos,
	}
	if err := p.shell.ObserveError(p.gateway.Do(ctx, http.MethodPost, "/agendamentos/"+formatID(id)+"/finalizar", p.shell.store.Token(), payload, nil)); err != nil {
		return err
	}
	_, err := p.List.Refresh(ctx)
	return err
}

// UsersPage drives the user administration screen.
type UsersPage struct {
	shell   *Shell
	gateway *Gateway
	List    *ListView[User]
}

// NewUsersPage builds the user admin controller.
func NewUsersPage(shell *Shell, gateway *Gateway) *UsersPage {
	p := &UsersPage{shell: shell, gateway: gateway}
	p.List = NewListView(shell, func(ctx context.Context, token string) ([]User, error) {
		var items []User
		err := gateway.Do(ctx, http.MethodGet, "/usuarios", token, nil, &items)
		return items, err
	})
	return p
}

// Delete removes an account after confirmation. Deleting the account
// that is currently logged in is rejected before any network call.
func (p *UsersPage) Delete(ctx context.Context, id int64, confirm ConfirmFunc) error {
	if current, ok := p.shell.store.Current(); ok && current.ID == id {
		return fmt.Errorf("%w: você não pode excluir a si mesmo", ErrConflict)
	}
	if confirm != nil && !confirm("Excluir este usuário?") {
		return nil
	}
	if err := p.shell.ObserveError(p.gateway.Do(ctx, http.MethodDelete, "/usuarios/"+formatID(id), p.shell.store.Token(), nil, nil)); err != nil {
		return err
	}
	_, err := p.List.Refresh(ctx)
	return err
}

// NewInventoryPage lists the stock room products.
func NewInventoryPage(shell *Shell, gateway *Gateway) *ListView[Product] {
	return NewListView(shell, func(ctx context.Context, token string) ([]Product, error) {
		var items []Product
		err := gateway.Do(ctx, http.MethodGet, "/estoque/produtos", token, nil, &items)
		return items, err
	})
}

// NewFinancePage lists the cash book for a window.
func NewFinancePage(shell *Shell, gateway *Gateway) *ListView[Transaction] {
	return NewListView(shell, func(ctx context.Context, token string) ([]Transaction, error) {
		var items []Transaction
		err := gateway.Do(ctx, http.MethodGet, "/transacoes", token, nil, &items)
		return items, err
	})
}

// NewProceduresPage lists the active procedure catalog.
func NewProceduresPage(shell *Shell, gateway *Gateway) *ListView[Procedure] {
	return NewListView(shell, func(ctx context.Context, token string) ([]Procedure, error) {
		var items []Procedure
		err := gateway.Do(ctx, http.MethodGet, "/procedimentos", token, nil, &items)
		return items, err
	})
}

// NewStaffPage lists the professionals roster.
func NewStaffPage(shell *Shell, gateway *Gateway) *ListView[Professional] {
	return NewListView(shell, func(ctx context.Context, token string) ([]Professional, error) {
		var items []Professional
		err := gateway.Do(ctx, http.MethodGet, "/profissionais", token, nil, &items)
		return items, err
	})
}

// FetchDashboard loads the landing page snapshot.
func FetchDashboard(ctx context.Context, shell *Shell, gateway *Gateway) (DashboardSnapshot, error) {
	var snap DashboardSnapshot
	err := shell.ObserveError(gateway.Do(ctx, http.MethodGet, "/dashboard", shell.store.Token(), nil, &snap))
	return snap, err
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
