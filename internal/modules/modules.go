// Package modules defines the fixed set of navigable application sections and
// the permission checks derived from it.
package modules

// ID identifies one navigable section of the application.
type ID string

const (
	Dashboard     ID = "dashboard"
	Agenda        ID = "agenda"
	Pacientes     ID = "pacientes"
	Financeiro    ID = "financeiro"
	Estoque       ID = "estoque"
	Procedimentos ID = "procedimentos"
	Equipe        ID = "equipe"
	Usuarios      ID = "usuarios"
)

// canonical holds every module in display order. The order is part of the
// contract: permission lists are always rendered in this order, not in the
// order they were stored.
var canonical = []ID{
	Dashboard,
	Agenda,
	Pacientes,
	Financeiro,
	Estoque,
	Procedimentos,
	Equipe,
	Usuarios,
}

// labels maps module IDs to their display names.
var labels = map[ID]string{
	Dashboard:     "Dashboard",
	Agenda:        "Agenda",
	Pacientes:     "Pacientes",
	Financeiro:    "Financeiro",
	Estoque:       "Estoque",
	Procedimentos: "Procedimentos",
	Equipe:        "Equipe (Profissionais)",
	Usuarios:      "Usuários do Sistema (Admin)",
}

// DefaultGrant is the permission set preselected for newly created users.
var DefaultGrant = []string{string(Dashboard), string(Agenda), string(Pacientes)}

// All returns the canonical module enumeration in display order.
func All() []ID {
	out := make([]ID, len(canonical))
	copy(out, canonical)
	return out
}

// Label returns the display name for a module, empty when unknown.
func Label(id ID) string {
	return labels[id]
}

// IsValid reports whether id belongs to the fixed enumeration.
func IsValid(id string) bool {
	_, ok := labels[ID(id)]
	return ok
}

// Allowed intersects the granted permission names with the canonical
// enumeration, preserving canonical order and dropping unknown entries.
func Allowed(granted []string) []ID {
	set := make(map[ID]struct{}, len(granted))
	for _, g := range granted {
		set[ID(g)] = struct{}{}
	}
	out := make([]ID, 0, len(set))
	for _, id := range canonical {
		if _, ok := set[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// Contains reports whether id is in the allowed set computed from granted.
func Contains(granted []string, id ID) bool {
	if !IsValid(string(id)) {
		return false
	}
	for _, g := range granted {
		if ID(g) == id {
			return true
		}
	}
	return false
}

// Sanitize returns granted filtered to valid module names, deduplicated and
// reordered canonically. Used when persisting user permission sets.
func Sanitize(granted []string) []string {
	allowed := Allowed(granted)
	out := make([]string, len(allowed))
	for i, id := range allowed {
		out[i] = string(id)
	}
	return out
}
