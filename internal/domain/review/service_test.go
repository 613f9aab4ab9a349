package review

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

// -- Mocks --

type mockRepo struct {
	reviews map[uuid.UUID]*Review
}

func newMockRepo() *mockRepo {
	return &mockRepo{reviews: make(map[uuid.UUID]*Review)}
}

func (m *mockRepo) Create(_ context.Context, r *Review) error {
	r.ID = uuid.New()
	r.CreatedAt = time.Now()
	m.reviews[r.ID] = r
	return nil
}

func (m *mockRepo) ListByDoctor(_ context.Context, doctorID uuid.UUID) ([]*Review, error) {
	var out []*Review
	for _, r := range m.reviews {
		if r.DoctorID == doctorID {
			out = append(out, r)
		}
	}
	return out, nil
}

type mockDirectory struct {
	known map[uuid.UUID]bool
}

func (m *mockDirectory) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	return m.known[id], nil
}

type mockInvalidator struct {
	calls int
}

func (m *mockInvalidator) InvalidateSearch(_ context.Context) { m.calls++ }

func newTestService() (*Service, *mockInvalidator, uuid.UUID) {
	doctorID := uuid.New()
	dir := &mockDirectory{known: map[uuid.UUID]bool{doctorID: true}}
	inv := &mockInvalidator{}
	return NewService(newMockRepo(), dir, inv), inv, doctorID
}

// -- Tests --

func TestCreate(t *testing.T) {
	svc, inv, doctorID := newTestService()

	comment := "very attentive"
	rv, err := svc.Create(context.Background(), uuid.New(), doctorID, CreateInput{Rating: 5, Comment: &comment})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rv.Rating != 5 {
		t.Errorf("expected rating 5, got %d", rv.Rating)
	}
	if inv.calls != 1 {
		t.Error("a new review must invalidate the cached doctor listings")
	}
}

func TestCreate_RatingBounds(t *testing.T) {
	svc, _, doctorID := newTestService()

	for _, rating := range []int{0, -1, 6, 100} {
		if _, err := svc.Create(context.Background(), uuid.New(), doctorID, CreateInput{Rating: rating}); err != ErrInvalidRating {
			t.Errorf("rating %d: expected ErrInvalidRating, got %v", rating, err)
		}
	}
	for rating := 1; rating <= 5; rating++ {
		if _, err := svc.Create(context.Background(), uuid.New(), doctorID, CreateInput{Rating: rating}); err != nil {
			t.Errorf("rating %d should be accepted: %v", rating, err)
		}
	}
}

func TestCreate_UnknownDoctor(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.Create(context.Background(), uuid.New(), uuid.New(), CreateInput{Rating: 4}); err != ErrDoctorNotFound {
		t.Errorf("expected ErrDoctorNotFound, got %v", err)
	}
}

func TestListByDoctor_EmptyIsNotNull(t *testing.T) {
	svc, _, doctorID := newTestService()

	reviews, err := svc.ListByDoctor(context.Background(), doctorID)
	if err != nil {
		t.Fatalf("ListByDoctor: %v", err)
	}
	if reviews == nil {
		t.Error("expected an empty list, not nil")
	}
}
