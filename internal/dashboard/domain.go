package dashboard

import "time"

// UpcomingAppointment is one row of the landing page agenda preview.
type UpcomingAppointment struct {
	ID           int64     `json:"id"`
	Paciente     string    `json:"paciente"`
	Profissional string    `json:"profissional"`
	Procedimento string    `json:"procedimento"`
	Inicio       time.Time `json:"inicio"`
	Status       string    `json:"status"`
}

// MonthPoint is one bar of the monthly cash flow chart, keyed "YYYY-MM".
type MonthPoint struct {
	Mes      string  `json:"mes"`
	Entradas float64 `json:"entradas"`
	Saidas   float64 `json:"saidas"`
}

// ProcedureShare counts concluded appointments for one procedure.
type ProcedureShare struct {
	Procedimento string `json:"procedimento"`
	Total        int    `json:"total"`
}

// Snapshot is the aggregated landing page payload.
type Snapshot struct {
	AgendamentosHoje     int                   `json:"agendamentosHoje"`
	PacientesAtivos      int                   `json:"pacientesAtivos"`
	ReceitaMes           float64               `json:"receitaMes"`
	ReceitaMesFmt        string                `json:"receitaMesFormatado"`
	ProdutosEmFalta      int                   `json:"produtosEmFalta"`
	ProximosAtendimentos []UpcomingAppointment `json:"proximosAtendimentos"`
	FluxoMensal          []MonthPoint          `json:"fluxoMensal"`
	MixProcedimentos     []ProcedureShare      `json:"mixProcedimentos"`
	GeradoEm             time.Time             `json:"geradoEm"`
}

// Counters carries the raw numbers the snapshot is reduced from.
type Counters struct {
	AgendamentosHoje int
	PacientesAtivos  int
	ReceitaMes       float64
	ProdutosEmFalta  int
}

// BuildSnapshot reduces raw counters and the agenda preview into the
// landing page payload.
func BuildSnapshot(c Counters, upcoming []UpcomingAppointment, flow []MonthPoint, mix []ProcedureShare, format func(float64) string, now time.Time) Snapshot {
	if upcoming == nil {
		upcoming = []UpcomingAppointment{}
	}
	if flow == nil {
		flow = []MonthPoint{}
	}
	if mix == nil {
		mix = []ProcedureShare{}
	}
	snap := Snapshot{
		AgendamentosHoje:     c.AgendamentosHoje,
		PacientesAtivos:      c.PacientesAtivos,
		ReceitaMes:           c.ReceitaMes,
		ProdutosEmFalta:      c.ProdutosEmFalta,
		ProximosAtendimentos: upcoming,
		FluxoMensal:          flow,
		MixProcedimentos:     mix,
		GeradoEm:             now,
	}
	if format != nil {
		snap.ReceitaMesFmt = format(c.ReceitaMes)
	}
	return snap
}
