package visit

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
)

// -- Mock Repository --

type mockRepo struct {
	visits map[uuid.UUID]*Visit
}

func newMockRepo() *mockRepo {
	return &mockRepo{visits: make(map[uuid.UUID]*Visit)}
}

func (m *mockRepo) Create(_ context.Context, v *Visit) error {
	v.ID = uuid.New()
	v.CreatedAt = time.Now()
	v.UpdatedAt = time.Now()
	m.visits[v.ID] = v
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Visit, error) {
	v, ok := m.visits[id]
	if !ok {
		return nil, ErrNotFound
	}
	return v, nil
}

func (m *mockRepo) Update(_ context.Context, v *Visit) error {
	if _, ok := m.visits[v.ID]; !ok {
		return ErrNotFound
	}
	m.visits[v.ID] = v
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.visits[id]; !ok {
		return ErrNotFound
	}
	delete(m.visits, id)
	return nil
}

func (m *mockRepo) ListByDiagnosis(_ context.Context, diagnosisID uuid.UUID) ([]*Visit, error) {
	var result []*Visit
	for _, v := range m.visits {
		if v.DiagnosisID == diagnosisID {
			result = append(result, v)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.After(result[j].Date) })
	return result, nil
}

var _ Repository = (*mockRepo)(nil)

func validVisit(diagnosisID uuid.UUID) *Visit {
	saturation := 97
	return &Visit{
		DiagnosisID: diagnosisID,
		Date:        time.Date(2024, 4, 2, 9, 30, 0, 0, time.UTC),
		Saturation:  &saturation,
	}
}

func TestService_Create(t *testing.T) {
	svc := NewService(newMockRepo())

	v := validVisit(uuid.New())
	if err := svc.Create(context.Background(), v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.ID == uuid.Nil {
		t.Error("expected id to be assigned")
	}
}

func TestService_Create_Validation(t *testing.T) {
	svc := NewService(newMockRepo())

	cases := []struct {
		name   string
		mutate func(*Visit)
	}{
		{"missing diagnosis", func(v *Visit) { v.DiagnosisID = uuid.Nil }},
		{"missing date", func(v *Visit) { v.Date = time.Time{} }},
	}
	for _, tc := range cases {
		v := validVisit(uuid.New())
		tc.mutate(v)
		if err := svc.Create(context.Background(), v); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestService_UpdateAndGet(t *testing.T) {
	svc := NewService(newMockRepo())

	v := validVisit(uuid.New())
	svc.Create(context.Background(), v)

	evolution := "Melhora do quadro respiratório."
	v.Evolution = &evolution
	if err := svc.Update(context.Background(), v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.Get(context.Background(), v.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Evolution == nil || *got.Evolution != evolution {
		t.Error("expected updated evolution")
	}
}

func TestService_Delete(t *testing.T) {
	svc := NewService(newMockRepo())

	v := validVisit(uuid.New())
	svc.Create(context.Background(), v)

	if err := svc.Delete(context.Background(), v.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Get(context.Background(), v.ID); err == nil {
		t.Error("expected deleted visit to be gone")
	}
}

func TestService_ListByDiagnosis(t *testing.T) {
	svc := NewService(newMockRepo())

	diagnosisID := uuid.New()
	for i := 0; i < 3; i++ {
		v := validVisit(diagnosisID)
		v.Date = v.Date.AddDate(0, 0, i)
		svc.Create(context.Background(), v)
	}
	svc.Create(context.Background(), validVisit(uuid.New()))

	list, err := svc.ListByDiagnosis(context.Background(), diagnosisID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 visits, got %d", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].Date.Before(list[i].Date) {
			t.Error("expected visits ordered by date, newest first")
		}
	}
}
