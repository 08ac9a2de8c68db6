package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"fundhub/internal/common"
	"fundhub/internal/common/security"
	"fundhub/internal/domain/model"
	"fundhub/internal/domain/repository"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

type AuthService struct {
	userRepo     repository.UserRepository
	campaignRepo repository.CampaignRepository
	donationRepo repository.DonationRepository
	jwt          *security.JWT
}

func NewAuthService(
	userRepo repository.UserRepository,
	campaignRepo repository.CampaignRepository,
	donationRepo repository.DonationRepository,
	jwt *security.JWT,
) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		campaignRepo: campaignRepo,
		donationRepo: donationRepo,
		jwt:          jwt,
	}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type AuthResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// UserStats aggregates a user's activity on both sides of the ledger.
type UserStats struct {
	CampaignsCreated int   `json:"campaignsCreated"`
	TotalRaised      int64 `json:"totalRaised"`
	DonationsMade    int   `json:"donationsMade"`
	TotalDonated     int64 `json:"totalDonated"`
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if utf8.RuneCountInString(name) < 2 {
		return nil, common.Errorf("name must be at least 2 characters: %w", common.ErrValidation)
	}
	if !emailPattern.MatchString(email) {
		return nil, common.Errorf("please provide a valid email: %w", common.ErrValidation)
	}
	if len(req.Password) < 6 {
		return nil, common.Errorf("password must be at least 6 characters: %w", common.ErrValidation)
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Name:           name,
		Email:          email,
		HashedPassword: hashedPassword,
		Role:           model.RoleUser, // Default role
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Repo returns common.ErrConflict on a duplicate email
		return nil, err
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	user.HashedPassword = "" // Clear password before returning
	return &AuthResponse{User: user, Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, common.ErrBadRequest
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// Same signal as a wrong password so account existence
			// cannot be probed.
			return nil, common.Errorf("invalid email or password: %w", common.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.Errorf("invalid email or password: %w", common.ErrUnauthorized)
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	user.HashedPassword = ""
	return &AuthResponse{User: user, Token: token}, nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.HashedPassword = ""
	return user, nil
}

func (s *AuthService) Stats(ctx context.Context, userID string) (*UserStats, error) {
	creatorStats, err := s.campaignRepo.StatsByCreator(ctx, userID)
	if err != nil {
		return nil, err
	}
	donorStats, err := s.donationRepo.StatsByDonor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserStats{
		CampaignsCreated: creatorStats.CampaignsCreated,
		TotalRaised:      creatorStats.TotalRaised,
		DonationsMade:    donorStats.DonationsMade,
		TotalDonated:     donorStats.TotalDonated,
	}, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error {
	if req.CurrentPassword == "" {
		return common.Errorf("current password is required: %w", common.ErrValidation)
	}
	if len(req.NewPassword) < 6 {
		return common.Errorf("new password must be at least 6 characters: %w", common.ErrValidation)
	}
	if req.CurrentPassword == req.NewPassword {
		return common.Errorf("new password must be different from current password: %w", common.ErrValidation)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !security.CheckPasswordHash(req.CurrentPassword, user.HashedPassword) {
		return common.Errorf("current password is incorrect: %w", common.ErrUnauthorized)
	}

	hashedPassword, err := security.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.userRepo.UpdatePassword(ctx, userID, hashedPassword)
}

func (s *AuthService) ListUsers(ctx context.Context, callerRole string) ([]model.User, error) {
	if callerRole != model.RoleAdmin {
		return nil, common.Errorf("admin access required: %w", common.ErrForbidden)
	}
	return s.userRepo.ListAll(ctx)
}
