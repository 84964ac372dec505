package main

import "strings"

// ComputeKPIs counts tickets per distinct ESTADO value plus the overall
// total. Keys are the literal stored values; missing statuses count under
// the empty string. Presentation normalization is the handler's job.
func ComputeKPIs(tickets []Record) (map[string]int, error) {
	if len(tickets) == 0 {
		return nil, appErr(KindEmptyDataset, "no tickets in dataset")
	}

	hasStatus := false
	for _, t := range tickets {
		if _, ok := t[colStatus]; ok {
			hasStatus = true
			break
		}
	}
	if !hasStatus {
		return nil, appErr(KindMissingField, "dataset has no '"+colStatus+"' column")
	}

	kpis := map[string]int{"total_tickets": len(tickets)}
	for _, t := range tickets {
		kpis[t[colStatus]]++
	}
	return kpis, nil
}

// presentationKPIs lowercases keys and replaces spaces with underscores for
// the dashboard view.
func presentationKPIs(kpis map[string]int) map[string]int {
	out := make(map[string]int, len(kpis))
	for k, v := range kpis {
		out[strings.ReplaceAll(strings.ToLower(k), " ", "_")] = v
	}
	return out
}
