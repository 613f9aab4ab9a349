package identity

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/tabib/tabib/internal/platform/auth"
	"github.com/tabib/tabib/internal/platform/blobstore"
)

// ProfileCreator creates the doctor profile row that accompanies a doctor
// registration. Implemented by the doctor repository.
type ProfileCreator interface {
	CreateForUser(ctx context.Context, userID uuid.UUID, specialty, license string) error
}

// TxRunner runs fn atomically. In production this is db.WithTx bound to the
// pool; tests pass fn straight through.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type RegisterInput struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Phone     *string `json:"phone,omitempty"`
	Role      string  `json:"role"`
	Specialty string  `json:"specialty,omitempty"`
	License   string  `json:"license,omitempty"`
}

type Service struct {
	users    Repository
	profiles ProfileCreator
	tokens   *auth.Manager
	photos   blobstore.Store
	runTx    TxRunner
}

func NewService(users Repository, profiles ProfileCreator, tokens *auth.Manager, photos blobstore.Store, runTx TxRunner) *Service {
	return &Service{users: users, profiles: profiles, tokens: tokens, photos: photos, runTx: runTx}
}

// Register creates a user account and, for doctors, its profile in the same
// transaction. Returns the user and a signed bearer token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, string, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return nil, "", fmt.Errorf("a valid email is required")
	}
	if len(in.Password) < 6 {
		return nil, "", fmt.Errorf("password must be at least 6 characters")
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return nil, "", fmt.Errorf("first_name and last_name are required")
	}
	role := auth.Role(in.Role)
	if !role.Valid() {
		return nil, "", fmt.Errorf("role must be %q or %q", auth.RolePatient, auth.RoleDoctor)
	}
	if role == auth.RoleDoctor && (strings.TrimSpace(in.Specialty) == "" || strings.TrimSpace(in.License) == "") {
		return nil, "", fmt.Errorf("specialty and license are required for doctors")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}

	u := &User{
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Phone:        in.Phone,
		Role:         role,
	}

	err = s.runTx(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, u); err != nil {
			return err
		}
		if role == auth.RoleDoctor {
			return s.profiles.CreateForUser(ctx, u.ID, strings.TrimSpace(in.Specialty), strings.TrimSpace(in.License))
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.NewToken(u.ID, u.Role)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Login verifies credentials and returns the user with a fresh token.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if err == ErrNotFound {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := auth.ComparePassword(u.PasswordHash, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.NewToken(u.ID, u.Role)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.users.GetByID(ctx, id)
}

// SetProfilePhoto stores the uploaded photo, points users.photo_url at it and
// removes the previous blob once the row is updated.
func (s *Service) SetProfilePhoto(ctx context.Context, userID uuid.UUID, contentType string, r io.Reader) (string, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	name, err := s.photos.Save(contentType, r)
	if err != nil {
		return "", err
	}
	url := "/uploads/" + name

	if err := s.users.SetPhotoURL(ctx, userID, &url); err != nil {
		s.photos.Delete(name)
		return "", err
	}

	if u.PhotoURL != nil {
		s.photos.Delete(path.Base(*u.PhotoURL))
	}
	return url, nil
}

// ClearProfilePhoto removes the user's photo, if any.
func (s *Service) ClearProfilePhoto(ctx context.Context, userID uuid.UUID) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u.PhotoURL == nil {
		return nil
	}
	if err := s.users.SetPhotoURL(ctx, userID, nil); err != nil {
		return err
	}
	return s.photos.Delete(path.Base(*u.PhotoURL))
}
