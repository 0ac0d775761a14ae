// Package businessflow contains the core business logic and use cases for the marketplace
package businessflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/localyard/localyard/app/dto"
	"github.com/localyard/localyard/app/services"
	"github.com/localyard/localyard/models"
	"github.com/localyard/localyard/repository"
	"github.com/localyard/localyard/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ProviderAuthFlow handles provider registration and authentication.
type ProviderAuthFlow interface {
	Register(ctx context.Context, request *dto.RegisterProviderRequest, metadata *ClientMetadata) (*dto.ProviderAuthResponse, error)
	Login(ctx context.Context, request *dto.ProviderLoginRequest, metadata *ClientMetadata) (*dto.ProviderAuthResponse, error)
	Refresh(ctx context.Context, request *dto.RefreshTokenRequest, metadata *ClientMetadata) (*dto.ProviderSessionDTO, error)
	Logout(ctx context.Context, providerID uint, accessToken string, metadata *ClientMetadata) error
	ChangePassword(ctx context.Context, providerID uint, request *dto.ChangePasswordRequest, metadata *ClientMetadata) (*dto.ChangePasswordResponse, error)
}

// ProviderAuthFlowImpl implements the provider authentication business flow
type ProviderAuthFlowImpl struct {
	providerRepo repository.ProviderRepository
	sessionRepo  repository.ProviderSessionRepository
	auditRepo    repository.AuditLogRepository
	tokenService services.TokenService
	db           *gorm.DB
}

// NewProviderAuthFlow creates a new provider auth flow instance
func NewProviderAuthFlow(
	providerRepo repository.ProviderRepository,
	sessionRepo repository.ProviderSessionRepository,
	auditRepo repository.AuditLogRepository,
	tokenService services.TokenService,
	db *gorm.DB,
) ProviderAuthFlow {
	return &ProviderAuthFlowImpl{
		providerRepo: providerRepo,
		sessionRepo:  sessionRepo,
		auditRepo:    auditRepo,
		tokenService: tokenService,
		db:           db,
	}
}

// Register creates a provider account and an initial session.
func (pf *ProviderAuthFlowImpl) Register(ctx context.Context, request *dto.RegisterProviderRequest, metadata *ClientMetadata) (*dto.ProviderAuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(request.Email))

	existing, err := pf.providerRepo.ByEmail(ctx, email)
	if err != nil {
		return nil, NewBusinessError("REGISTRATION_FAILED", "Failed to check existing account", err)
	}
	if existing != nil {
		return nil, NewBusinessError("EMAIL_ALREADY_EXISTS", "Email already registered", ErrEmailAlreadyExists)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, NewBusinessError("REGISTRATION_FAILED", "Failed to hash password", err)
	}

	provider := &models.Provider{
		UUID:         uuid.New(),
		Email:        email,
		PasswordHash: string(passwordHash),
		FirstName:    strings.TrimSpace(request.FirstName),
		BusinessName: strings.TrimSpace(request.BusinessName),
		IsActive:     utils.ToPtr(true),
		CreatedAt:    utils.UTCNow(),
		UpdatedAt:    utils.UTCNow(),
	}
	if request.Phone != "" {
		provider.Phone = utils.ToPtr(request.Phone)
	}
	if request.BaseZip != "" {
		provider.BaseZip = utils.ToPtr(request.BaseZip)
	}

	var response *dto.ProviderAuthResponse
	err = repository.WithTransaction(ctx, pf.db, func(ctx context.Context) error {
		if err := pf.providerRepo.Save(ctx, provider); err != nil {
			return err
		}

		session, err := pf.createSession(ctx, provider, metadata)
		if err != nil {
			return err
		}

		pf.auditEvent(ctx, &provider.ID, models.AuditActionProviderRegistered, fmt.Sprintf("provider %s registered", provider.Email), metadata, true)

		response = &dto.ProviderAuthResponse{
			Provider: ToProviderDTO(*provider),
			Session:  *session,
		}
		return nil
	})
	if err != nil {
		return nil, NewBusinessError("REGISTRATION_FAILED", "Registration failed", err)
	}

	return response, nil
}

// Login authenticates a provider with email and password.
func (pf *ProviderAuthFlowImpl) Login(ctx context.Context, request *dto.ProviderLoginRequest, metadata *ClientMetadata) (*dto.ProviderAuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(request.Email))

	var response *dto.ProviderAuthResponse
	err := repository.WithTransaction(ctx, pf.db, func(ctx context.Context) error {
		provider, err := pf.providerRepo.ByEmail(ctx, email)
		if err != nil {
			return err
		}
		if provider == nil {
			pf.auditEvent(ctx, nil, models.AuditActionLoginFailed, fmt.Sprintf("unknown email %s", email), metadata, false)
			return ErrProviderNotFound
		}
		if !utils.IsTrue(provider.IsActive) {
			pf.auditEvent(ctx, &provider.ID, models.AuditActionLoginFailed, "inactive account", metadata, false)
			return ErrAccountInactive
		}
		if err := bcrypt.CompareHashAndPassword([]byte(provider.PasswordHash), []byte(request.Password)); err != nil {
			pf.auditEvent(ctx, &provider.ID, models.AuditActionLoginFailed, "incorrect password", metadata, false)
			return ErrIncorrectPassword
		}

		session, err := pf.createSession(ctx, provider, metadata)
		if err != nil {
			return err
		}

		if err := pf.providerRepo.UpdateLastLogin(ctx, provider.ID, utils.UTCNow()); err != nil {
			return err
		}

		pf.auditEvent(ctx, &provider.ID, models.AuditActionLoginSuccess, "login successful", metadata, true)

		response = &dto.ProviderAuthResponse{
			Provider: ToProviderDTO(*provider),
			Session:  *session,
		}
		return nil
	})
	if err != nil {
		switch {
		case IsProviderNotFound(err), IsIncorrectPassword(err):
			// Uniform message: don't leak which part was wrong
			return nil, NewBusinessError("LOGIN_FAILED", "Invalid email or password", err)
		case IsAccountInactive(err):
			return nil, NewBusinessError("ACCOUNT_INACTIVE", "Account is inactive", err)
		default:
			return nil, NewBusinessError("LOGIN_FAILED", "Login failed", err)
		}
	}

	return response, nil
}

// Refresh rotates the token pair using a valid refresh token.
func (pf *ProviderAuthFlowImpl) Refresh(ctx context.Context, request *dto.RefreshTokenRequest, metadata *ClientMetadata) (*dto.ProviderSessionDTO, error) {
	session, err := pf.sessionRepo.ByRefreshToken(ctx, request.RefreshToken)
	if err != nil {
		return nil, NewBusinessError("REFRESH_FAILED", "Failed to load session", err)
	}
	if session == nil {
		return nil, NewBusinessError("SESSION_NOT_FOUND", "Session not found", ErrSessionNotFound)
	}
	if !session.IsValid() {
		return nil, NewBusinessError("SESSION_EXPIRED", "Session has expired", ErrSessionExpired)
	}

	accessToken, refreshToken, err := pf.tokenService.RefreshToken(request.RefreshToken)
	if err != nil {
		return nil, NewBusinessError("REFRESH_FAILED", "Failed to refresh tokens", err)
	}

	session.SessionToken = accessToken
	session.RefreshToken = &refreshToken
	session.LastAccessedAt = utils.UTCNow()
	session.ExpiresAt = utils.UTCNowAdd(utils.SessionTimeout)
	if err := pf.sessionRepo.Update(ctx, session); err != nil {
		return nil, NewBusinessError("REFRESH_FAILED", "Failed to persist session", err)
	}

	return &dto.ProviderSessionDTO{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(utils.AccessTokenTTL.Seconds()),
	}, nil
}

// Logout revokes the access token and expires the provider's sessions.
func (pf *ProviderAuthFlowImpl) Logout(ctx context.Context, providerID uint, accessToken string, metadata *ClientMetadata) error {
	// Best effort: a malformed token still ends the server-side session
	_ = pf.tokenService.RevokeToken(accessToken)

	if err := pf.sessionRepo.ExpireAllProviderSessions(ctx, providerID); err != nil {
		return NewBusinessError("LOGOUT_FAILED", "Failed to expire sessions", err)
	}

	pf.auditEvent(ctx, &providerID, models.AuditActionLogout, "logout", metadata, true)
	return nil
}

// ChangePassword verifies the current password and stores a new hash. All
// existing sessions are expired so every device has to sign in again.
func (pf *ProviderAuthFlowImpl) ChangePassword(ctx context.Context, providerID uint, request *dto.ChangePasswordRequest, metadata *ClientMetadata) (*dto.ChangePasswordResponse, error) {
	var changedAt = utils.UTCNow()

	err := repository.WithTransaction(ctx, pf.db, func(ctx context.Context) error {
		provider, err := pf.providerRepo.ByID(ctx, providerID)
		if err != nil {
			return err
		}
		if provider == nil {
			return ErrProviderNotFound
		}
		if err := bcrypt.CompareHashAndPassword([]byte(provider.PasswordHash), []byte(request.CurrentPassword)); err != nil {
			pf.auditEvent(ctx, &providerID, models.AuditActionPasswordChanged, "incorrect current password", metadata, false)
			return ErrIncorrectPassword
		}

		newHash, err := bcrypt.GenerateFromPassword([]byte(request.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		if err := pf.providerRepo.UpdatePassword(ctx, providerID, string(newHash)); err != nil {
			return err
		}
		if err := pf.sessionRepo.ExpireAllProviderSessions(ctx, providerID); err != nil {
			return err
		}

		pf.auditEvent(ctx, &providerID, models.AuditActionPasswordChanged, "password changed", metadata, true)
		return nil
	})
	if err != nil {
		switch {
		case IsProviderNotFound(err):
			return nil, NewBusinessError("PROVIDER_NOT_FOUND", "Provider not found", err)
		case IsIncorrectPassword(err):
			return nil, NewBusinessError("INCORRECT_PASSWORD", "Current password is incorrect", err)
		default:
			return nil, NewBusinessError("PASSWORD_CHANGE_FAILED", "Failed to change password", err)
		}
	}

	return &dto.ChangePasswordResponse{PasswordChangedAt: changedAt}, nil
}

// createSession issues a token pair and persists the session record.
func (pf *ProviderAuthFlowImpl) createSession(ctx context.Context, provider *models.Provider, metadata *ClientMetadata) (*dto.ProviderSessionDTO, error) {
	accessToken, refreshToken, err := pf.tokenService.GenerateTokens(provider.ID)
	if err != nil {
		return nil, err
	}

	session := &models.ProviderSession{
		CorrelationID:  uuid.New(),
		ProviderID:     provider.ID,
		SessionToken:   accessToken,
		RefreshToken:   &refreshToken,
		IsActive:       utils.ToPtr(true),
		CreatedAt:      utils.UTCNow(),
		LastAccessedAt: utils.UTCNow(),
		ExpiresAt:      utils.UTCNowAdd(utils.SessionTimeout),
	}
	if metadata != nil {
		if metadata.IPAddress != "" {
			session.IPAddress = utils.ToPtr(metadata.IPAddress)
		}
		if metadata.UserAgent != "" {
			session.UserAgent = utils.ToPtr(metadata.UserAgent)
		}
	}
	if err := pf.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}

	return &dto.ProviderSessionDTO{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(utils.AccessTokenTTL.Seconds()),
	}, nil
}

func (pf *ProviderAuthFlowImpl) auditEvent(ctx context.Context, providerID *uint, action, description string, metadata *ClientMetadata, success bool) {
	entry := &models.AuditLog{
		ProviderID:  providerID,
		Action:      action,
		Description: &description,
		Success:     utils.ToPtr(success),
		CreatedAt:   utils.UTCNow(),
	}
	if metadata != nil {
		if metadata.IPAddress != "" {
			entry.IPAddress = utils.ToPtr(metadata.IPAddress)
		}
		if metadata.UserAgent != "" {
			entry.UserAgent = utils.ToPtr(metadata.UserAgent)
		}
		if metadata.RequestID != "" {
			entry.RequestID = utils.ToPtr(metadata.RequestID)
		}
	}
	_ = pf.auditRepo.Save(ctx, entry)
}
