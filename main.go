package main

import "log"

func main() {
	cfg := LoadConfig()

	httpClient := newExternalHTTPClient(cfg.ExternalHTTPTimeoutSeconds)
	source := NewSheetSource(httpClient)
	llm := NewLLMClient(cfg, httpClient)
	classifier := NewClassifier(llm)
	drafter := NewReplyDrafter(llm)
	risk := NewSimulatedRiskEstimator(nil)
	orch := NewOrchestrator(cfg, source, classifier, drafter)

	srv := NewServer(cfg, source, risk, classifier, drafter, orch)

	log.Printf("Starting helpdesk dashboard API on %s (provider=%s model=%s)", cfg.ListenAddr, cfg.LLMProvider, cfg.LLMModel)
	if err := srv.Router().Run(cfg.ListenAddr); err != nil {
		log.Fatalf("HTTP server error: %v", err)
	}
}
