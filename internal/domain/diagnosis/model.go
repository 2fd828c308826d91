package diagnosis

import (
	"time"

	"github.com/google/uuid"
)

// Diagnosis maps to the diagnosis table: one diagnostic/hospitalization
// episode of a patient, under which follow-up visits are nested.
type Diagnosis struct {
	ID                  uuid.UUID  `db:"id" json:"id"`
	PatientID           uuid.UUID  `db:"patient_id" json:"patientId"`
	StartDate           time.Time  `db:"start_date" json:"startDate"`
	DischargeDate       *time.Time `db:"discharge_date" json:"dischargeDate,omitempty"`
	Doctor              *string    `db:"doctor" json:"doctor,omitempty"`
	Anamnesis           *string    `db:"anamnesis" json:"anamnesis,omitempty"`
	Diagnosis           *string    `db:"diagnosis" json:"diagnosis,omitempty"`
	HeartRate           *int       `db:"heart_rate" json:"heartRate,omitempty"`
	RespiratoryRate     *int       `db:"respiratory_rate" json:"respiratoryRate,omitempty"`
	Saturation          *int       `db:"saturation" json:"saturation,omitempty"`
	Temperature         *float64   `db:"temperature" json:"temperature,omitempty"`
	CardiacAuscultation *string    `db:"cardiac_auscultation" json:"cardiacAuscultation,omitempty"`
	Evolution           *string    `db:"evolution" json:"evolution,omitempty"`
	Medications         *string    `db:"medications" json:"medications,omitempty"`
	AdditionalGuidance  *string    `db:"additional_guidance" json:"additionalGuidance,omitempty"`
	CreatedAt           time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updatedAt"`
}
