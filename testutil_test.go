package main

import (
	"context"
	"fmt"
)

// fakeCompleter replays scripted responses and records every prompt pair.
type fakeCompleter struct {
	responses []string
	err       error
	calls     []promptPair
}

type promptPair struct {
	system string
	user   string
}

func (f *fakeCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.calls = append(f.calls, promptPair{system: systemPrompt, user: userPrompt})
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", fmt.Errorf("fakeCompleter: no scripted response for call %d", len(f.calls))
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

// fakeTableSource serves fixed tables keyed by URL.
type fakeTableSource struct {
	tables map[string][]Record
	errs   map[string]error
	visits []string
}

func (f *fakeTableSource) Fetch(ctx context.Context, url string) ([]Record, error) {
	f.visits = append(f.visits, url)
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	rows, ok := f.tables[url]
	if !ok {
		return nil, fmt.Errorf("fakeTableSource: no table for %s", url)
	}
	return rows, nil
}

func sampleRules() []Record {
	return []Record{
		{
			colCategory:       "Soporte",
			colSubRequirement: "Acceso",
			colTeam:           "TI",
			colCoordinatorDNI: "11111111",
			colSpecialistDNI:  "22222222",
			colSpecialistName: "Ana Torres",
			colRole:           "Especialista Funcional",
		},
		{
			colCategory:       "Error en Evaluación",
			colSubRequirement: "Notas",
			colTeam:           "Pedagógico",
			colCoordinatorDNI: "33333333",
			colSpecialistDNI:  "44444444",
			colSpecialistName: "Luis Vega",
			colRole:           "Coordinador",
		},
	}
}
