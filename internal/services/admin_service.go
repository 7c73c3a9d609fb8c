// internal/services/admin_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/cvtravel/visa-backend/internal/config"
	"github.com/cvtravel/visa-backend/internal/models"
	"github.com/cvtravel/visa-backend/internal/utils"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AdminService struct {
	db     *gorm.DB
	config *config.Config
}

func NewAdminService(db *gorm.DB, config *config.Config) *AdminService {
	return &AdminService{
		db:     db,
		config: config,
	}
}

// Login checks the configured back-office credentials and issues a JWT.
func (s *AdminService) Login(email, password string) (string, error) {
	if email != s.config.Admin.Email || s.config.Admin.PasswordHash == "" {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.config.Admin.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return utils.GenerateAdminJWT(email, s.config.JWT.AccessTokenTTL)
}

// ListApplications returns a page of applications for review, newest first
// by default, optionally filtered by lifecycle status.
func (s *AdminService) ListApplications(ctx context.Context, params utils.PaginationParams) ([]models.Application, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Application{}).Preload("Agency")

	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count applications: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "status", "payment_amount"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var applications []models.Application
	if err := query.Find(&applications).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch applications: %w", err)
	}

	return applications, total, nil
}

// UpdateStatus advances an application's lifecycle status. The forward-only
// state machine is enforced: terminal and backward transitions are rejected
// with models.ErrInvalidStatusTransition.
func (s *AdminService) UpdateStatus(ctx context.Context, id uuid.UUID, next models.ApplicationStatus) (*models.Application, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", models.ErrInvalidStatusTransition, next)
	}

	var app models.Application
	err := s.db.WithContext(ctx).First(&app, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to fetch application: %w", err)
	}

	if err := app.AdvanceStatus(next); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&app).Update("status", app.Status).Error; err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	return &app, nil
}
