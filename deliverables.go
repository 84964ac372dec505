package main

import "strings"

// LookupDeliverables returns the TDR rows owned by a specialist, matched by
// exact DNI equality. An empty id short-circuits to an empty result.
func LookupDeliverables(specialistID string, deliverables []Record) []Record {
	id := strings.TrimSpace(specialistID)
	out := []Record{}
	if id == "" {
		return out
	}
	for _, r := range deliverables {
		if r[colSpecialistDNI] == id {
			out = append(out, r)
		}
	}
	return out
}
