package identity

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tabib/tabib/internal/platform/auth"
	"github.com/tabib/tabib/internal/platform/blobstore"
)

// -- Mocks --

type mockUserRepo struct {
	users map[uuid.UUID]*User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uuid.UUID]*User)}
}

func (m *mockUserRepo) Create(_ context.Context, u *User) error {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return ErrEmailTaken
		}
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockUserRepo) UpdatePhone(_ context.Context, id uuid.UUID, phone *string) error {
	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Phone = phone
	return nil
}

func (m *mockUserRepo) SetPhotoURL(_ context.Context, id uuid.UUID, url *string) error {
	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	u.PhotoURL = url
	return nil
}

type mockProfileCreator struct {
	created map[uuid.UUID]string
}

func newMockProfileCreator() *mockProfileCreator {
	return &mockProfileCreator{created: make(map[uuid.UUID]string)}
}

func (m *mockProfileCreator) CreateForUser(_ context.Context, userID uuid.UUID, specialty, _ string) error {
	m.created[userID] = specialty
	return nil
}

func passthroughTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService() (*Service, *mockUserRepo, *mockProfileCreator, *blobstore.Memory) {
	users := newMockUserRepo()
	profiles := newMockProfileCreator()
	photos := blobstore.NewMemory()
	tokens := auth.NewManager([]byte("test-secret"), time.Hour)
	return NewService(users, profiles, tokens, photos, passthroughTx), users, profiles, photos
}

func patientInput() RegisterInput {
	return RegisterInput{
		Email:     "amina@example.com",
		Password:  "secret123",
		FirstName: "Amina",
		LastName:  "Benali",
		Role:      "patient",
	}
}

// -- Tests --

func TestRegister_Patient(t *testing.T) {
	svc, _, profiles, _ := newTestService()

	u, token, err := svc.Register(context.Background(), patientInput())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if token == "" {
		t.Error("expected a token")
	}
	if u.Role != auth.RolePatient {
		t.Errorf("expected patient role, got %s", u.Role)
	}
	if len(profiles.created) != 0 {
		t.Error("patients must not get a doctor profile")
	}
}

func TestRegister_DoctorCreatesProfile(t *testing.T) {
	svc, _, profiles, _ := newTestService()

	in := patientInput()
	in.Email = "karim@example.com"
	in.Role = "doctor"
	in.Specialty = "Cardiology"
	in.License = "DZ-12345"

	u, _, err := svc.Register(context.Background(), in)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if profiles.created[u.ID] != "Cardiology" {
		t.Error("expected a doctor profile with the given specialty")
	}
}

func TestRegister_DoctorRequiresSpecialtyAndLicense(t *testing.T) {
	svc, _, _, _ := newTestService()

	in := patientInput()
	in.Role = "doctor"
	if _, _, err := svc.Register(context.Background(), in); err == nil {
		t.Error("expected error for doctor without specialty/license")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _, _ := newTestService()

	if _, _, err := svc.Register(context.Background(), patientInput()); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if _, _, err := svc.Register(context.Background(), patientInput()); err != ErrEmailTaken {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegister_InvalidInput(t *testing.T) {
	svc, _, _, _ := newTestService()

	cases := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"missing email", func(in *RegisterInput) { in.Email = "" }},
		{"not an email", func(in *RegisterInput) { in.Email = "not-an-email" }},
		{"short password", func(in *RegisterInput) { in.Password = "abc" }},
		{"missing name", func(in *RegisterInput) { in.FirstName = "" }},
		{"bad role", func(in *RegisterInput) { in.Role = "admin" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := patientInput()
			tc.mutate(&in)
			if _, _, err := svc.Register(context.Background(), in); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLogin(t *testing.T) {
	svc, _, _, _ := newTestService()

	if _, _, err := svc.Register(context.Background(), patientInput()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	u, token, err := svc.Login(context.Background(), "amina@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" || u.Email != "amina@example.com" {
		t.Error("expected token and matching user")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _, _ := newTestService()

	if _, _, err := svc.Register(context.Background(), patientInput()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "amina@example.com", "wrong"); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _, _, _ := newTestService()
	if _, _, err := svc.Login(context.Background(), "nobody@example.com", "secret123"); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSetProfilePhoto_ReplacesOldBlob(t *testing.T) {
	svc, users, _, photos := newTestService()

	u, _, err := svc.Register(context.Background(), patientInput())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	url1, err := svc.SetProfilePhoto(context.Background(), u.ID, "image/jpeg", bytes.NewReader([]byte("one")))
	if err != nil {
		t.Fatalf("SetProfilePhoto: %v", err)
	}
	url2, err := svc.SetProfilePhoto(context.Background(), u.ID, "image/png", bytes.NewReader([]byte("two")))
	if err != nil {
		t.Fatalf("SetProfilePhoto: %v", err)
	}
	if url1 == url2 {
		t.Error("expected a fresh url for the new photo")
	}
	if photos.Len() != 1 {
		t.Errorf("expected the old blob to be removed, have %d blobs", photos.Len())
	}
	if stored := users.users[u.ID].PhotoURL; stored == nil || *stored != url2 {
		t.Errorf("expected photo_url %q, got %v", url2, stored)
	}
}

func TestClearProfilePhoto(t *testing.T) {
	svc, users, _, photos := newTestService()

	u, _, err := svc.Register(context.Background(), patientInput())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.SetProfilePhoto(context.Background(), u.ID, "image/jpeg", bytes.NewReader([]byte("pic"))); err != nil {
		t.Fatalf("SetProfilePhoto: %v", err)
	}

	if err := svc.ClearProfilePhoto(context.Background(), u.ID); err != nil {
		t.Fatalf("ClearProfilePhoto: %v", err)
	}
	if users.users[u.ID].PhotoURL != nil {
		t.Error("expected photo_url cleared")
	}
	if photos.Len() != 0 {
		t.Errorf("expected blob removed, have %d", photos.Len())
	}
}
