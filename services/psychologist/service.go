package psychologist

import (
	"context"
	"fmt"
	"time"

	bookingRepo "solace/database/repository/booking"
	psychologistRepo "solace/database/repository/psychologist"
	"solace/models"
	"solace/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const authTokenTTL = 24 * time.Hour

// DefaultPsychologistService is the production implementation.
type DefaultPsychologistService struct {
	Repo        psychologistRepo.PsychologistRepository
	BookingRepo bookingRepo.BookingRepository
	Logger      *zap.Logger
}

// Onboard consumes an invite and creates an approved, active account.
func (s *DefaultPsychologistService) Onboard(ctx context.Context, req OnboardRequest) (*models.Psychologist, string, error) {
	invite, err := utils.ConsumeInvite(ctx, req.InviteToken)
	if err != nil {
		return nil, "", ErrInviteInvalid
	}

	if existing, err := s.Repo.GetByEmail(ctx, invite.Email); err != nil {
		return nil, "", fmt.Errorf("failed to check existing account: %w", err)
	} else if existing != nil {
		return nil, "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	p := &models.Psychologist{
		ID:             uuid.New().String(),
		Name:           req.Name,
		Email:          invite.Email,
		PhoneNumber:    req.PhoneNumber,
		PasswordHash:   string(hash),
		Specialization: req.Specialization,
		SessionRate:    req.SessionRate,
		Status:         models.PsychologistStatusSelected,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, "", fmt.Errorf("failed to create psychologist: %w", err)
	}

	token, err := utils.GenerateToken(p.ID, models.RolePsychologist, authTokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign token: %w", err)
	}

	s.Logger.Info("psychologist onboarded", zap.String("id", p.ID), zap.String("invitedBy", invite.InvitedBy))
	return p, token, nil
}

// Authenticate verifies credentials and issues a role-tagged token.
func (s *DefaultPsychologistService) Authenticate(ctx context.Context, email, password string) (*models.Psychologist, string, error) {
	p, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load account: %w", err)
	}
	if p == nil {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(p.ID, models.RolePsychologist, authTokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign token: %w", err)
	}
	return p, token, nil
}

func (s *DefaultPsychologistService) GetByID(ctx context.Context, id string) (*models.Psychologist, error) {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}
