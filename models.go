package main

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Record is one spreadsheet row: column header -> cell value. Missing cells
// are normalized to "" by the source, and map access on an absent key also
// yields "", so field access never panics.
type Record map[string]string

// Column names as they appear in the spreadsheet exports.
const (
	colTicket         = "TICKET"
	colRequesterName  = "NOMBRES Y APELLIDOS"
	colDocument       = "DOCUMENTO"
	colDescription    = "DESCRIPCION"
	colStatus         = "ESTADO"
	colPriority       = "PRIORIDAD"
	colCategory       = "TIPO REQUERIMIENTO"
	colSubRequirement = "SUB_REQUERIMIENTO"
	colTeam           = "EQUIPO"
	colCoordinatorDNI = "DNI_COORDINADOR"
	colSpecialistDNI  = "DNI_ESPECIALISTA FUNCIONAL"
	colSpecialistName = "ESPECIALISTA FUNCIONAL"
	colRole           = "ROL"
	colDireccion      = "DIRECCION"
	colArea           = "AREA"
	colFinalDate      = "FECHA_FINAL_ATENCION"
)

// Classification is the structured output of the two-stage LLM
// classification. RawText carries the unparsed model response when the JSON
// decode failed; in that degraded case the other fields are empty.
type Classification struct {
	TipoRequerimiento string `json:"tipo_requerimiento"`
	SubRequerimiento  string `json:"sub_requerimiento"`
	Prioridad         string `json:"prioridad"`
	AreaAsignada      string `json:"area_asignada"`
	ResumenCorto      string `json:"resumen_corto"`
	RawText           string `json:"raw_text,omitempty"`
}

// Partial reports whether this result is the raw-text fallback.
func (c Classification) Partial() bool {
	return c.RawText != ""
}

// SpecialistMatch is a flattened assignment-rule row for a resolved
// specialist.
type SpecialistMatch struct {
	CoordinatorDNI string `json:"dni_coordinador"`
	SpecialistDNI  string `json:"dni_especialista"`
	SpecialistName string `json:"especialista"`
	Role           string `json:"rol"`
	Team           string `json:"equipo"`
	Category       string `json:"tipo_requerimiento"`
	SubRequirement string `json:"sub_requerimiento"`
}

// SpecialistResult wraps a match so an unresolved specialist serializes as
// the "NotFound" sentinel instead of null.
type SpecialistResult struct {
	Found bool
	Match SpecialistMatch
}

const specialistNotFound = "NotFound"

func (s SpecialistResult) MarshalJSON() ([]byte, error) {
	if !s.Found {
		return json.Marshal(specialistNotFound)
	}
	return json.Marshal(s.Match)
}

// RiskEstimate is the simulated SLA risk for one ticket.
type RiskEstimate struct {
	Ticket    string  `json:"TICKET"`
	Prioridad string  `json:"PRIORIDAD"`
	RiesgoSLA float64 `json:"riesgo_sla"`
	Alerta    string  `json:"alerta"`
}

// OrchestrationResult is the full classify-route-reply payload for one
// ticket.
type OrchestrationResult struct {
	Classification Classification   `json:"clasificacion"`
	Specialist     SpecialistResult `json:"especialista"`
	Deliverables   []Record         `json:"tdrs"`
	Reply          string           `json:"respuesta_sugerida"`
}

// recordFromJSON coerces a decoded JSON object into a Record. Callers send
// ticket numbers as JSON numbers; those stringify without a float suffix,
// booleans stringify, and null becomes the empty-string sentinel.
func recordFromJSON(body map[string]any) Record {
	rec := make(Record, len(body))
	for k, v := range body {
		switch x := v.(type) {
		case string:
			rec[k] = x
		case float64:
			rec[k] = strconv.FormatFloat(x, 'f', -1, 64)
		case bool:
			rec[k] = strconv.FormatBool(x)
		case nil:
			rec[k] = ""
		default:
			rec[k] = fmt.Sprintf("%v", x)
		}
	}
	return rec
}

func assignmentRuleMatch(r Record) SpecialistMatch {
	return SpecialistMatch{
		CoordinatorDNI: r[colCoordinatorDNI],
		SpecialistDNI:  r[colSpecialistDNI],
		SpecialistName: r[colSpecialistName],
		Role:           r[colRole],
		Team:           r[colTeam],
		Category:       r[colCategory],
		SubRequirement: r[colSubRequirement],
	}
}
