package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dgstudios-backend/internal/apperrors"
	"dgstudios-backend/internal/models"
	"dgstudios-backend/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	invalidCredentials = "Invalid credentials"
	registrationClosed = "Registration is closed"
)

// Service registers admins and exchanges their credentials for access tokens.
type Service struct {
	store  store.Store
	secret string
	ttl    time.Duration
	log    *zap.Logger
	now    func() time.Time
}

func NewService(st store.Store, secret string, ttl time.Duration, log *zap.Logger) *Service {
	return &Service{store: st, secret: secret, ttl: ttl, log: log, now: time.Now}
}

// Register creates an admin unconditionally. It backs the create-admin command.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.Admin, error) {
	return s.register(ctx, req, false)
}

// RegisterFirst creates an admin only while none exists. Open registration
// goes through here so it cannot mint further admins.
func (s *Service) RegisterFirst(ctx context.Context, req models.RegisterRequest) (*models.Admin, error) {
	return s.register(ctx, req, true)
}

func (s *Service) register(ctx context.Context, req models.RegisterRequest, firstOnly bool) (*models.Admin, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" || email == "" || req.Password == "" {
		return nil, apperrors.Validation("Username, email and password are required")
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	admin := &models.Admin{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		CreatedAt:    s.now().UTC(),
	}

	err = s.store.RunInTx(ctx, func(tx store.Tx) error {
		if firstOnly {
			count, err := tx.CountAdmins(ctx)
			if err != nil {
				return err
			}
			if count > 0 {
				return apperrors.Forbidden(registrationClosed)
			}
		}
		exists, err := tx.AdminExists(ctx, admin.Username, admin.Email)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.Duplicate("Username or email already exists")
		}
		return tx.CreateAdmin(ctx, admin)
	})
	if errors.Is(err, apperrors.ErrDuplicate) {
		return nil, apperrors.Duplicate("Username or email already exists")
	}
	if errors.Is(err, apperrors.ErrForbidden) {
		s.log.Warn("admin registration refused: an admin already exists", zap.String("username", username))
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to register admin: %w", err)
	}

	s.log.Info("admin registered", zap.String("admin_id", admin.ID), zap.String("username", admin.Username))
	return admin, nil
}

// Login accepts either the username or the email as identifier.
func (s *Service) Login(ctx context.Context, identifier, password string) (string, *models.Admin, error) {
	var admin *models.Admin
	err := s.store.RunInTx(ctx, func(tx store.Tx) error {
		var err error
		admin, err = tx.GetAdminByIdentifier(ctx, strings.TrimSpace(identifier))
		return err
	})
	if errors.Is(err, apperrors.ErrNotFound) {
		return "", nil, apperrors.Unauthorized(invalidCredentials)
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to load admin: %w", err)
	}

	if !CheckPassword(password, admin.PasswordHash) {
		s.log.Warn("admin login rejected", zap.String("admin_id", admin.ID))
		return "", nil, apperrors.Unauthorized(invalidCredentials)
	}

	token, err := GenerateAccessToken(admin.ID, admin.Username, admin.Role, s.secret, s.ttl)
	if err != nil {
		return "", nil, apperrors.Internal(err)
	}
	return token, admin, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Admin, error) {
	var admin *models.Admin
	err := s.store.RunInTx(ctx, func(tx store.Tx) error {
		var err error
		admin, err = tx.GetAdminByID(ctx, id)
		return err
	})
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NotFound("Admin not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load admin: %w", err)
	}
	return admin, nil
}
