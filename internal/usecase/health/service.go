package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the store works but the embedding provider does not:
	// reads and local ranking still function, ingestion and search do not.
	Degraded Status = "degraded"
	// Unhealthy indicates the prompt store is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status  Status
	Checks  map[string]CheckResult
	Prompts int // stored prompt count, -1 when unknown
}

// Service coordinates health checks.
type Service struct {
	store     StorePinger
	embedding EmbeddingChecker
	prompts   PromptCounter
}

// New creates a Service. embedding and prompts can be nil.
func New(store StorePinger, embedding EmbeddingChecker, prompts PromptCounter) *Service {
	return &Service{store: store, embedding: embedding, prompts: prompts}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	storeUp := true

	if err := s.store.Ping(ctx); err != nil {
		checks["store"] = CheckError
		storeUp = false
	} else {
		checks["store"] = CheckOK
	}

	if s.embedding != nil {
		if err := s.embedding.HealthCheck(ctx); err != nil {
			checks["embedding"] = CheckError
		} else {
			checks["embedding"] = CheckOK
		}
	}

	count := -1
	if storeUp && s.prompts != nil {
		if n, err := s.prompts.Count(ctx); err == nil {
			count = n
		}
	}

	status := Healthy
	if !storeUp {
		status = Unhealthy
	} else {
		for _, v := range checks {
			if v == CheckError {
				status = Degraded
				break
			}
		}
	}

	return Report{Status: status, Checks: checks, Prompts: count}
}
