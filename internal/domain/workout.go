// internal/domain/workout.go
package domain

import (
	"encoding/json"
	"time"
)

// WorkoutPlan is a generated training plan saved by its owner.
// The plan document itself is produced by the survey page and stored as-is.
type WorkoutPlan struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"userId"` // Owner
	Name      string          `json:"name"`   // Display name entered in the survey
	Age       *int            `json:"age"`    // Nil when the survey sent no usable age
	Level     string          `json:"level"`  // e.g. "beginner", "intermediate", "expert"
	Plan      json.RawMessage `json:"plan"`   // Opaque plan document
	CreatedAt time.Time       `json:"createdAt"`
}

// PlanData decodes the stored plan document into generic structured form.
func (p WorkoutPlan) PlanData() (any, error) {
	if len(p.Plan) == 0 {
		return nil, nil
	}
	var data any
	if err := json.Unmarshal(p.Plan, &data); err != nil {
		return nil, err
	}
	return data, nil
}
