package diagnosis

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
)

// -- Mock Repository --

type mockRepo struct {
	diagnoses map[uuid.UUID]*Diagnosis
}

func newMockRepo() *mockRepo {
	return &mockRepo{diagnoses: make(map[uuid.UUID]*Diagnosis)}
}

func (m *mockRepo) Create(_ context.Context, d *Diagnosis) error {
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	d.UpdatedAt = time.Now()
	m.diagnoses[d.ID] = d
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Diagnosis, error) {
	d, ok := m.diagnoses[id]
	if !ok {
		return nil, ErrNotFound
	}
	return d, nil
}

func (m *mockRepo) Update(_ context.Context, d *Diagnosis) error {
	if _, ok := m.diagnoses[d.ID]; !ok {
		return ErrNotFound
	}
	m.diagnoses[d.ID] = d
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.diagnoses[id]; !ok {
		return ErrNotFound
	}
	delete(m.diagnoses, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Diagnosis, int, error) {
	var result []*Diagnosis
	for _, d := range m.diagnoses {
		result = append(result, d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartDate.After(result[j].StartDate) })
	return result, len(result), nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*Diagnosis, error) {
	var result []*Diagnosis
	for _, d := range m.diagnoses {
		if d.PatientID == patientID {
			result = append(result, d)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartDate.After(result[j].StartDate) })
	return result, nil
}

var _ Repository = (*mockRepo)(nil)

func validDiagnosis(patientID uuid.UUID) *Diagnosis {
	doctor := "Dra. Helena Souza"
	return &Diagnosis{
		PatientID: patientID,
		StartDate: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Doctor:    &doctor,
	}
}

func TestService_Create(t *testing.T) {
	svc := NewService(newMockRepo())

	d := validDiagnosis(uuid.New())
	if err := svc.Create(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.ID == uuid.Nil {
		t.Error("expected id to be assigned")
	}
}

func TestService_Create_Validation(t *testing.T) {
	svc := NewService(newMockRepo())

	early := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name   string
		mutate func(*Diagnosis)
	}{
		{"missing patient", func(d *Diagnosis) { d.PatientID = uuid.Nil }},
		{"missing start date", func(d *Diagnosis) { d.StartDate = time.Time{} }},
		{"discharge before start", func(d *Diagnosis) { d.DischargeDate = &early }},
	}
	for _, tc := range cases {
		d := validDiagnosis(uuid.New())
		tc.mutate(d)
		if err := svc.Create(context.Background(), d); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestService_UpdateAndGet(t *testing.T) {
	svc := NewService(newMockRepo())

	d := validDiagnosis(uuid.New())
	svc.Create(context.Background(), d)

	evolution := "Paciente estável, sem febre."
	d.Evolution = &evolution
	if err := svc.Update(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.Get(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Evolution == nil || *got.Evolution != evolution {
		t.Error("expected updated evolution")
	}
}

func TestService_Delete(t *testing.T) {
	svc := NewService(newMockRepo())

	d := validDiagnosis(uuid.New())
	svc.Create(context.Background(), d)

	if err := svc.Delete(context.Background(), d.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Get(context.Background(), d.ID); err == nil {
		t.Error("expected deleted diagnosis to be gone")
	}
}

func TestService_ListByPatient(t *testing.T) {
	svc := NewService(newMockRepo())

	patientID := uuid.New()
	for i := 0; i < 3; i++ {
		d := validDiagnosis(patientID)
		d.StartDate = d.StartDate.AddDate(0, 0, i)
		svc.Create(context.Background(), d)
	}
	svc.Create(context.Background(), validDiagnosis(uuid.New()))

	list, err := svc.ListByPatient(context.Background(), patientID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 diagnoses for patient, got %d", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].StartDate.Before(list[i].StartDate) {
			t.Error("expected diagnoses ordered by start date, newest first")
		}
	}
}
