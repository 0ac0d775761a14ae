// Package businessflow contains the core business logic and use cases for the marketplace
package businessflow

import (
	"context"
	"fmt"

	"github.com/localyard/localyard/app/dto"
	"github.com/localyard/localyard/app/services"
	"github.com/localyard/localyard/models"
	"github.com/localyard/localyard/repository"
	"github.com/localyard/localyard/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AdminFlow handles the operator's panel: captcha-guarded login, marketplace
// moderation, the global ZIP allowlist, the operator profile and centroid
// data loading.
type AdminFlow interface {
	Captcha(ctx context.Context) (*dto.AdminCaptchaResponse, error)
	Login(ctx context.Context, request *dto.AdminLoginRequest, metadata *ClientMetadata) (*dto.AdminSessionDTO, error)
	Dashboard(ctx context.Context) (*dto.AdminDashboardResponse, error)

	ListProviders(ctx context.Context, page, pageSize int) ([]dto.ProviderDTO, error)
	SetProviderActive(ctx context.Context, providerID uint, active bool, metadata *ClientMetadata) error
	SetServiceCertified(ctx context.Context, serviceID uint, certified bool) error

	ListGlobalZips(ctx context.Context) (*dto.GlobalZipsResponse, error)
	UpsertGlobalZip(ctx context.Context, request *dto.UpsertGlobalZipRequest) (*dto.GlobalZipDTO, error)
	DeleteGlobalZip(ctx context.Context, zip string) error

	GetOperatorProfile(ctx context.Context) (*dto.OperatorProfileDTO, error)
	UpdateOperatorProfile(ctx context.Context, request *dto.UpdateOperatorProfileRequest) (*dto.OperatorProfileDTO, error)

	LoadCentroids(ctx context.Context, request *dto.LoadCentroidsRequest) (*dto.LoadCentroidsResponse, error)
}

// AdminFlowImpl implements the admin business flow
type AdminFlowImpl struct {
	adminRepo       repository.AdminRepository
	providerRepo    repository.ProviderRepository
	serviceRepo     repository.ServiceRepository
	productRepo     repository.ProductRepository
	leadRepo        repository.LeadRepository
	globalZipRepo   repository.GlobalZipRepository
	profileRepo     repository.ProfileRepository
	centroidRepo    repository.ZipCentroidRepository
	auditRepo       repository.AuditLogRepository
	tokenService    services.TokenService
	captchaService  services.CaptchaService
	eligibilityFlow EligibilityFlow
	searchFlow      SearchFlow
	db              *gorm.DB
}

// NewAdminFlow creates a new admin flow instance
func NewAdminFlow(
	adminRepo repository.AdminRepository,
	providerRepo repository.ProviderRepository,
	serviceRepo repository.ServiceRepository,
	productRepo repository.ProductRepository,
	leadRepo repository.LeadRepository,
	globalZipRepo repository.GlobalZipRepository,
	profileRepo repository.ProfileRepository,
	centroidRepo repository.ZipCentroidRepository,
	auditRepo repository.AuditLogRepository,
	tokenService services.TokenService,
	captchaService services.CaptchaService,
	eligibilityFlow EligibilityFlow,
	searchFlow SearchFlow,
	db *gorm.DB,
) AdminFlow {
	return &AdminFlowImpl{
		adminRepo:       adminRepo,
		providerRepo:    providerRepo,
		serviceRepo:     serviceRepo,
		productRepo:     productRepo,
		leadRepo:        leadRepo,
		globalZipRepo:   globalZipRepo,
		profileRepo:     profileRepo,
		centroidRepo:    centroidRepo,
		auditRepo:       auditRepo,
		tokenService:    tokenService,
		captchaService:  captchaService,
		eligibilityFlow: eligibilityFlow,
		searchFlow:      searchFlow,
		db:              db,
	}
}

// Captcha issues a fresh rotate challenge for the login page.
func (af *AdminFlowImpl) Captcha(ctx context.Context) (*dto.AdminCaptchaResponse, error) {
	challenge, err := af.captchaService.GenerateRotate(ctx)
	if err != nil {
		return nil, NewBusinessError("CAPTCHA_GENERATION_FAILED", "Failed to generate captcha", err)
	}
	return &dto.AdminCaptchaResponse{
		ChallengeID: challenge.ID,
		MasterImage: challenge.MasterImageBase64,
		ThumbImage:  challenge.ThumbImageBase64,
	}, nil
}

// Login authenticates an admin. The captcha is checked before any credential
// work so credential stuffing burns a challenge per attempt.
func (af *AdminFlowImpl) Login(ctx context.Context, request *dto.AdminLoginRequest, metadata *ClientMetadata) (*dto.AdminSessionDTO, error) {
	if !af.captchaService.VerifyRotate(ctx, request.ChallengeID, request.CaptchaAngle) {
		af.auditEvent(ctx, models.AuditActionAdminLoginFailed, fmt.Sprintf("captcha failed for %s", request.Username), metadata, false)
		return nil, NewBusinessError("CAPTCHA_FAILED", "Captcha verification failed", ErrCaptchaFailed)
	}

	admin, err := af.adminRepo.ByUsername(ctx, request.Username)
	if err != nil {
		return nil, NewBusinessError("ADMIN_LOGIN_FAILED", "Failed to load admin", err)
	}
	if admin == nil {
		af.auditEvent(ctx, models.AuditActionAdminLoginFailed, fmt.Sprintf("unknown admin %s", request.Username), metadata, false)
		return nil, NewBusinessError("ADMIN_LOGIN_FAILED", "Invalid username or password", ErrAdminNotFound)
	}
	if !utils.IsTrue(admin.IsActive) {
		af.auditEvent(ctx, models.AuditActionAdminLoginFailed, "inactive admin account", metadata, false)
		return nil, NewBusinessError("ACCOUNT_INACTIVE", "Account is inactive", ErrAccountInactive)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(request.Password)); err != nil {
		af.auditEvent(ctx, models.AuditActionAdminLoginFailed, "incorrect admin password", metadata, false)
		return nil, NewBusinessError("ADMIN_LOGIN_FAILED", "Invalid username or password", ErrIncorrectPassword)
	}

	accessToken, refreshToken, err := af.tokenService.GenerateAdminTokens(admin.ID)
	if err != nil {
		return nil, NewBusinessError("ADMIN_LOGIN_FAILED", "Failed to issue tokens", err)
	}

	if err := af.adminRepo.UpdateLastLogin(ctx, admin.ID, utils.UTCNow()); err != nil {
		return nil, NewBusinessError("ADMIN_LOGIN_FAILED", "Failed to record login", err)
	}

	af.auditEvent(ctx, models.AuditActionAdminLoginSuccess, fmt.Sprintf("admin %s logged in", admin.Username), metadata, true)

	return &dto.AdminSessionDTO{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(utils.AccessTokenTTL.Seconds()),
	}, nil
}

// Dashboard aggregates marketplace counters and engine capabilities.
func (af *AdminFlowImpl) Dashboard(ctx context.Context) (*dto.AdminDashboardResponse, error) {
	response := &dto.AdminDashboardResponse{
		ProximityEnabled:  af.eligibilityFlow.Mode() == EligibilityModeExactPlusProximity,
		FullTextAvailable: af.searchFlow.Mode() == SearchModeFullText,
	}

	var err error
	if response.TotalProviders, err = af.providerRepo.Count(ctx, models.ProviderFilter{}); err != nil {
		return nil, NewBusinessError("DASHBOARD_FAILED", "Failed to count providers", err)
	}
	if response.ActiveProviders, err = af.providerRepo.Count(ctx, models.ProviderFilter{IsActive: utils.ToPtr(true)}); err != nil {
		return nil, NewBusinessError("DASHBOARD_FAILED", "Failed to count providers", err)
	}
	if response.TotalServices, err = af.serviceRepo.Count(ctx, models.ServiceFilter{}); err != nil {
		return nil, NewBusinessError("DASHBOARD_FAILED", "Failed to count services", err)
	}
	if response.TotalProducts, err = af.productRepo.Count(ctx, models.ProductFilter{}); err != nil {
		return nil, NewBusinessError("DASHBOARD_FAILED", "Failed to count products", err)
	}
	if response.TotalLeads, err = af.leadRepo.Count(ctx, models.LeadFilter{}); err != nil {
		return nil, NewBusinessError("DASHBOARD_FAILED", "Failed to count leads", err)
	}
	if response.OpenLeads, err = af.leadRepo.Count(ctx, models.LeadFilter{ActiveOnly: utils.ToPtr(true)}); err != nil {
		return nil, NewBusinessError("DASHBOARD_FAILED", "Failed to count open leads", err)
	}
	if response.RecurringLeads, err = af.leadRepo.Count(ctx, models.LeadFilter{Recurring: utils.ToPtr(true)}); err != nil {
		return nil, NewBusinessError("DASHBOARD_FAILED", "Failed to count recurring leads", err)
	}

	zips, err := af.globalZipRepo.ListAll(ctx)
	if err != nil {
		return nil, NewBusinessError("DASHBOARD_FAILED", "Failed to list global zips", err)
	}
	response.GlobalZips = int64(len(zips))

	return response, nil
}

func (af *AdminFlowImpl) ListProviders(ctx context.Context, page, pageSize int) ([]dto.ProviderDTO, error) {
	if page < 1 {
		return nil, NewBusinessError("PROVIDER_LIST_VALIDATION_FAILED", "Invalid page", ErrInvalidPage)
	}
	if pageSize < 1 || pageSize > 100 {
		return nil, NewBusinessError("PROVIDER_LIST_VALIDATION_FAILED", "Invalid page size", ErrInvalidPageSize)
	}

	providers, err := af.providerRepo.ByFilter(ctx, models.ProviderFilter{}, "created_at DESC", pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("PROVIDER_LIST_FAILED", "Failed to list providers", err)
	}

	out := make([]dto.ProviderDTO, 0, len(providers))
	for _, provider := range providers {
		out = append(out, ToProviderDTO(*provider))
	}
	return out, nil
}

// SetProviderActive toggles a provider account. Deactivation removes the
// provider's coverage from eligibility immediately.
func (af *AdminFlowImpl) SetProviderActive(ctx context.Context, providerID uint, active bool, metadata *ClientMetadata) error {
	provider, err := af.providerRepo.ByID(ctx, providerID)
	if err != nil {
		return NewBusinessError("PROVIDER_LOOKUP_FAILED", "Failed to load provider", err)
	}
	if provider == nil {
		return NewBusinessError("PROVIDER_NOT_FOUND", "Provider not found", ErrProviderNotFound)
	}

	if err := af.providerRepo.SetActive(ctx, providerID, active); err != nil {
		return NewBusinessError("PROVIDER_MODERATION_FAILED", "Failed to update provider", err)
	}

	action := models.AuditActionProviderActivated
	if !active {
		action = models.AuditActionProviderDeactivated
	}
	af.auditEvent(ctx, action, fmt.Sprintf("provider %d active=%t", providerID, active), metadata, true)
	return nil
}

// SetServiceCertified flips the certification badge on a listing.
func (af *AdminFlowImpl) SetServiceCertified(ctx context.Context, serviceID uint, certified bool) error {
	service, err := af.serviceRepo.ByID(ctx, serviceID)
	if err != nil {
		return NewBusinessError("SERVICE_LOOKUP_FAILED", "Failed to load service", err)
	}
	if service == nil {
		return NewBusinessError("SERVICE_NOT_FOUND", "Service not found", ErrServiceNotFound)
	}

	service.IsCertified = utils.ToPtr(certified)
	service.UpdatedAt = utils.UTCNow()
	if err := af.serviceRepo.Update(ctx, service); err != nil {
		return NewBusinessError("SERVICE_UPDATE_FAILED", "Failed to update service", err)
	}
	return nil
}

func (af *AdminFlowImpl) ListGlobalZips(ctx context.Context) (*dto.GlobalZipsResponse, error) {
	zips, err := af.globalZipRepo.ListAll(ctx)
	if err != nil {
		return nil, NewBusinessError("GLOBAL_ZIP_LIST_FAILED", "Failed to list global zips", err)
	}

	response := &dto.GlobalZipsResponse{Zips: make([]dto.GlobalZipDTO, 0, len(zips))}
	for _, entry := range zips {
		response.Zips = append(response.Zips, ToGlobalZipDTO(*entry))
	}
	return response, nil
}

func (af *AdminFlowImpl) UpsertGlobalZip(ctx context.Context, request *dto.UpsertGlobalZipRequest) (*dto.GlobalZipDTO, error) {
	radius := request.RadiusMiles
	if radius <= 0 {
		radius = models.GlobalZipDefaultRadiusMiles
	}

	entry := &models.GlobalZip{
		Zip:         request.Zip,
		RadiusMiles: radius,
		CreatedAt:   utils.UTCNow(),
	}
	if err := af.globalZipRepo.Save(ctx, entry); err != nil {
		return nil, NewBusinessError("GLOBAL_ZIP_SAVE_FAILED", "Failed to save global zip", err)
	}

	result := ToGlobalZipDTO(*entry)
	return &result, nil
}

func (af *AdminFlowImpl) DeleteGlobalZip(ctx context.Context, zip string) error {
	deleted, err := af.globalZipRepo.Delete(ctx, zip)
	if err != nil {
		return NewBusinessError("GLOBAL_ZIP_DELETE_FAILED", "Failed to delete global zip", err)
	}
	if !deleted {
		return NewBusinessError("GLOBAL_ZIP_NOT_FOUND", "Global zip not found", ErrGlobalZipNotFound)
	}
	return nil
}

func (af *AdminFlowImpl) GetOperatorProfile(ctx context.Context) (*dto.OperatorProfileDTO, error) {
	profile, err := af.profileRepo.Get(ctx)
	if err != nil {
		return nil, NewBusinessError("PROFILE_LOOKUP_FAILED", "Failed to load operator profile", err)
	}
	if profile == nil {
		profile = &models.Profile{ID: models.OperatorProfileID}
	}

	result := ToOperatorProfileDTO(*profile)
	return &result, nil
}

func (af *AdminFlowImpl) UpdateOperatorProfile(ctx context.Context, request *dto.UpdateOperatorProfileRequest) (*dto.OperatorProfileDTO, error) {
	profile, err := af.profileRepo.Get(ctx)
	if err != nil {
		return nil, NewBusinessError("PROFILE_LOOKUP_FAILED", "Failed to load operator profile", err)
	}
	if profile == nil {
		profile = &models.Profile{ID: models.OperatorProfileID}
	}

	if request.FirstName != nil {
		profile.FirstName = *request.FirstName
	}
	if request.BusinessName != nil {
		profile.BusinessName = *request.BusinessName
	}
	if request.ContactEmail != nil {
		profile.ContactEmail = request.ContactEmail
	}
	if request.Phone != nil {
		profile.Phone = request.Phone
	}
	if request.BaseZip != nil {
		profile.BaseZip = request.BaseZip
	}
	if request.Address != nil {
		profile.Address = request.Address
	}
	if request.About != nil {
		profile.About = request.About
	}
	profile.UpdatedAt = utils.UTCNow()

	if err := af.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, NewBusinessError("PROFILE_UPDATE_FAILED", "Failed to update operator profile", err)
	}

	result := ToOperatorProfileDTO(*profile)
	return &result, nil
}

// LoadCentroids bulk-upserts ZIP centroid rows. Proximity matching picks
// them up on the next service restart.
func (af *AdminFlowImpl) LoadCentroids(ctx context.Context, request *dto.LoadCentroidsRequest) (*dto.LoadCentroidsResponse, error) {
	rows := make([]*models.ZipCentroid, 0, len(request.Centroids))
	for _, row := range request.Centroids {
		rows = append(rows, &models.ZipCentroid{
			Zip:       row.Zip,
			Latitude:  row.Latitude,
			Longitude: row.Longitude,
		})
	}

	if err := af.centroidRepo.SaveBatch(ctx, rows); err != nil {
		return nil, NewBusinessError("CENTROID_LOAD_FAILED", "Failed to store centroids", err)
	}

	return &dto.LoadCentroidsResponse{Loaded: len(rows)}, nil
}

func (af *AdminFlowImpl) auditEvent(ctx context.Context, action, description string, metadata *ClientMetadata, success bool) {
	entry := &models.AuditLog{
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
	_ = af.auditRepo.Save(ctx, entry)
}
