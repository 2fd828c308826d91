package visit

import (
	"time"

	"github.com/google/uuid"
)

// Visit is a follow-up encounter recorded under a diagnosis.
type Visit struct {
	ID                  uuid.UUID `db:"id" json:"id"`
	DiagnosisID         uuid.UUID `db:"diagnosis_id" json:"diagnosisId"`
	Date                time.Time `db:"date" json:"date"`
	HeartRate           *int      `db:"heart_rate" json:"heartRate,omitempty"`
	RespiratoryRate     *int      `db:"respiratory_rate" json:"respiratoryRate,omitempty"`
	Saturation          *int      `db:"saturation" json:"saturation,omitempty"`
	Temperature         *float64  `db:"temperature" json:"temperature,omitempty"`
	CardiacAuscultation *string   `db:"cardiac_auscultation" json:"cardiacAuscultation,omitempty"`
	Evolution           *string   `db:"evolution" json:"evolution,omitempty"`
	AdditionalGuidance  *string   `db:"additional_guidance" json:"additionalGuidance,omitempty"`
	CreatedAt           time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time `db:"updated_at" json:"updatedAt"`
}
