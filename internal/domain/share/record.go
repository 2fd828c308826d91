package share

import (
	"context"

	"github.com/google/uuid"

	"github.com/medrec/medrec/internal/domain/diagnosis"
	"github.com/medrec/medrec/internal/domain/patient"
	"github.com/medrec/medrec/internal/domain/visit"
)

// Record is the read-only bundle served to a share-link visitor: the patient
// plus every diagnosis and the visits nested under each.
type Record struct {
	Patient   *patient.Patient       `json:"patient"`
	Diagnoses []*diagnosis.Diagnosis `json:"diagnoses"`
	Visits    []*visit.Visit         `json:"visits"`
}

// RecordFetcher loads the shared record for a patient.
type RecordFetcher interface {
	FetchRecord(ctx context.Context, patientID string) (*Record, error)
}

type recordFetcher struct {
	patients  patient.Repository
	diagnoses diagnosis.Repository
	visits    visit.Repository
}

// NewRecordFetcher assembles a RecordFetcher over the three repositories.
func NewRecordFetcher(patients patient.Repository, diagnoses diagnosis.Repository, visits visit.Repository) RecordFetcher {
	return &recordFetcher{patients: patients, diagnoses: diagnoses, visits: visits}
}

// FetchRecord returns patient.ErrNotFound when the token's patient id is
// unknown or not a UUID, so stale links and bogus ids look the same to the
// caller.
func (f *recordFetcher) FetchRecord(ctx context.Context, patientID string) (*Record, error) {
	id, err := uuid.Parse(patientID)
	if err != nil {
		return nil, patient.ErrNotFound
	}

	p, err := f.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	diagnoses, err := f.diagnoses.ListByPatient(ctx, id)
	if err != nil {
		return nil, err
	}

	var visits []*visit.Visit
	for _, d := range diagnoses {
		vs, err := f.visits.ListByDiagnosis(ctx, d.ID)
		if err != nil {
			return nil, err
		}
		visits = append(visits, vs...)
	}

	return &Record{Patient: p, Diagnoses: diagnoses, Visits: visits}, nil
}
