package main

import (
	"context"
	"log"
)

// TableSource abstracts the spreadsheet fetch so orchestration can be
// tested against local fixtures.
type TableSource interface {
	Fetch(ctx context.Context, url string) ([]Record, error)
}

// Orchestrator runs the full classify -> resolve -> deliverables -> reply
// pipeline for one ticket. Reference tables are re-read on every call; no
// state survives between invocations.
type Orchestrator struct {
	cfg        Config
	source     TableSource
	classifier *Classifier
	drafter    *ReplyDrafter
}

func NewOrchestrator(cfg Config, source TableSource, classifier *Classifier, drafter *ReplyDrafter) *Orchestrator {
	return &Orchestrator{cfg: cfg, source: source, classifier: classifier, drafter: drafter}
}

func (o *Orchestrator) HandleTicket(ctx context.Context, ticket Record) (OrchestrationResult, error) {
	rules, err := o.source.Fetch(ctx, o.cfg.RulesURL)
	if err != nil {
		return OrchestrationResult{}, err
	}
	deliverableRows, err := o.source.Fetch(ctx, o.cfg.DeliverablesURL)
	if err != nil {
		return OrchestrationResult{}, err
	}

	classification, err := o.classifier.Classify(ctx, ticket[colDescription], rules)
	if err != nil {
		// No point resolving a specialist for a failed classification.
		return OrchestrationResult{}, err
	}

	match, found := ResolveSpecialist(
		classification.TipoRequerimiento,
		classification.SubRequerimiento,
		classification.AreaAsignada,
		rules,
	)
	if !found {
		log.Printf("orchestrator no specialist match ticket=%s category=%q sub=%q",
			ticket[colTicket], classification.TipoRequerimiento, classification.SubRequerimiento)
	}

	deliverables := []Record{}
	specialistName := ""
	if found {
		deliverables = LookupDeliverables(match.SpecialistDNI, deliverableRows)
		specialistName = match.SpecialistName
	}

	reply, err := o.drafter.Draft(ctx, ticket, classification.AreaAsignada, specialistName)
	if err != nil {
		return OrchestrationResult{}, err
	}

	return OrchestrationResult{
		Classification: classification,
		Specialist:     SpecialistResult{Found: found, Match: match},
		Deliverables:   deliverables,
		Reply:          reply,
	}, nil
}
