package model

import "fmt"

// ValidationError reports a candidate record that violates a structural
// invariant. Ingestion skips such records instead of aborting the batch.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid product: %s %s", e.Field, e.Reason)
}

// Validate checks the structural invariants the engine enforces on
// candidate records. Anything beyond these is the extractor's problem.
func (p *Product) Validate() error {
	if p.ID == "" {
		return &ValidationError{Field: "id", Reason: "must not be empty"}
	}
	if p.CurrentPrice < 0 {
		return &ValidationError{Field: "current_price", Reason: "must be >= 0"}
	}
	if p.Ratings != nil {
		if p.Ratings.Average < 0 || p.Ratings.Average > 5 {
			return &ValidationError{Field: "ratings.average", Reason: "must be within [0,5]"}
		}
		if p.Ratings.Count < 0 {
			return &ValidationError{Field: "ratings.count", Reason: "must be >= 0"}
		}
	}
	if p.DataQualityScore < 0 || p.DataQualityScore > 100 {
		return &ValidationError{Field: "data_quality_score", Reason: "must be within [0,100]"}
	}
	return nil
}
