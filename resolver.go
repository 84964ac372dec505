package main

import "strings"

// ResolveSpecialist finds the assignment-rule row responsible for a
// classified ticket. Pass 1 requires exact case-insensitive equality on
// category, sub-requirement and team. Pass 2 relaxes to substring
// containment, the input containing the row value, on category and
// sub-requirement only; team is ignored there. Classifier output is free
// text ("Soporte Técnico - Accesos"), so the containment pass is the usual
// real-world path. First matching row wins in both passes.
func ResolveSpecialist(category, subRequirement, team string, rules []Record) (SpecialistMatch, bool) {
	cat := foldKey(category)
	sub := foldKey(subRequirement)
	eq := foldKey(team)

	for _, r := range rules {
		if foldKey(r[colCategory]) == cat &&
			foldKey(r[colSubRequirement]) == sub &&
			foldKey(r[colTeam]) == eq {
			return assignmentRuleMatch(r), true
		}
	}

	for _, r := range rules {
		rowCat := foldKey(r[colCategory])
		rowSub := foldKey(r[colSubRequirement])
		if rowCat == "" || rowSub == "" {
			continue
		}
		if strings.Contains(cat, rowCat) && strings.Contains(sub, rowSub) {
			return assignmentRuleMatch(r), true
		}
	}

	return SpecialistMatch{}, false
}

func foldKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
