// Package testing provides test utilities and database setup for testing the marketplace
package testing

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	mrand "math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/localyard/localyard/models"
	"github.com/localyard/localyard/utils"
	"golang.org/x/crypto/bcrypt"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestProvider creates an active provider account with a bcrypt password
// of "TestPass123!"
func (tf *TestFixtures) CreateTestProvider(baseZip string) (*models.Provider, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("TestPass123!"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	randomDigits := fmt.Sprintf("%09d", mrand.Intn(900000000)+100000000)

	provider := &models.Provider{
		UUID:         uuid.New(),
		Email:        fmt.Sprintf("provider.%s@example.com", randomDigits),
		PasswordHash: string(hashedPassword),
		FirstName:    "Jordan",
		BusinessName: fmt.Sprintf("Test Services %s", randomDigits),
		Phone:        utils.ToPtr("+16025550100"),
		IsActive:     utils.ToPtr(true),
	}
	if baseZip != "" {
		provider.BaseZip = &baseZip
	}

	if err := tf.DB.DB.Create(provider).Error; err != nil {
		return nil, fmt.Errorf("failed to create test provider: %w", err)
	}

	return provider, nil
}

// CreateTestAdmin creates an admin account with a bcrypt password of "AdminPass123!"
func (tf *TestFixtures) CreateTestAdmin(username string) (*models.Admin, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("AdminPass123!"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.Admin{
		UUID:         uuid.New(),
		Username:     username,
		PasswordHash: string(hashedPassword),
		IsActive:     utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(admin).Error; err != nil {
		return nil, fmt.Errorf("failed to create test admin: %w", err)
	}

	return admin, nil
}

// CreateTestService creates an active service listing for a provider
func (tf *TestFixtures) CreateTestService(providerID uint, title, description string) (*models.Service, error) {
	service := &models.Service{
		ProviderID:  providerID,
		Title:       title,
		Description: description,
		Price:       "from $49",
		IsActive:    utils.ToPtr(true),
		IsCertified: utils.ToPtr(false),
	}

	if err := tf.DB.DB.Create(service).Error; err != nil {
		return nil, fmt.Errorf("failed to create test service: %w", err)
	}

	return service, nil
}

// CreateTestProduct creates an active product listing for a provider
func (tf *TestFixtures) CreateTestProduct(providerID uint, title string) (*models.Product, error) {
	product := &models.Product{
		ProviderID:  providerID,
		Title:       title,
		Description: "Test product description",
		Price:       "$19.99",
		IsActive:    utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create test product: %w", err)
	}

	return product, nil
}

// CreateTestLead creates a lead in the given status
func (tf *TestFixtures) CreateTestLead(providerID uint, zip, status string, recurring bool) (*models.Lead, error) {
	lead := &models.Lead{
		CorrelationID: uuid.New(),
		Name:          "Taylor Customer",
		Email:         utils.ToPtr("taylor@example.com"),
		Phone:         utils.ToPtr("+16025550123"),
		Zip:           zip,
		Message:       utils.ToPtr("Please call me about weekly service."),
		ProviderID:    providerID,
		Status:        status,
		Recurring:     utils.ToPtr(recurring),
	}

	if err := tf.DB.DB.Create(lead).Error; err != nil {
		return nil, fmt.Errorf("failed to create test lead: %w", err)
	}

	return lead, nil
}

// CreateTestServiceArea adds a coverage row for a provider
func (tf *TestFixtures) CreateTestServiceArea(providerID uint, zip string, radiusMiles float64) (*models.ServiceArea, error) {
	area := &models.ServiceArea{
		ProviderID:  providerID,
		ZipCode:     zip,
		RadiusMiles: radiusMiles,
	}

	if err := tf.DB.DB.Create(area).Error; err != nil {
		return nil, fmt.Errorf("failed to create test service area: %w", err)
	}

	return area, nil
}

// CreateTestGlobalZip adds an allowlist row
func (tf *TestFixtures) CreateTestGlobalZip(zip string, radiusMiles float64) (*models.GlobalZip, error) {
	row := &models.GlobalZip{
		Zip:         zip,
		RadiusMiles: radiusMiles,
	}

	if err := tf.DB.DB.Create(row).Error; err != nil {
		return nil, fmt.Errorf("failed to create test global zip: %w", err)
	}

	return row, nil
}

// CreateTestCentroid adds a ZIP centroid coordinate pair
func (tf *TestFixtures) CreateTestCentroid(zip string, lat, lon float64) (*models.ZipCentroid, error) {
	centroid := &models.ZipCentroid{
		Zip:       zip,
		Latitude:  lat,
		Longitude: lon,
	}

	if err := tf.DB.DB.Create(centroid).Error; err != nil {
		return nil, fmt.Errorf("failed to create test centroid: %w", err)
	}

	return centroid, nil
}

// GenerateSecureToken returns a random URL-safe token
func GenerateSecureToken(length int) (string, error) {
	b := make([]byte, length)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// CreateTestSession creates an active provider session
func (tf *TestFixtures) CreateTestSession(providerID uint) (*models.ProviderSession, error) {
	sessionToken, err := GenerateSecureToken(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate secure session token: %w", err)
	}

	refreshToken, err := GenerateSecureToken(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate secure refresh token: %w", err)
	}

	session := &models.ProviderSession{
		CorrelationID: uuid.New(),
		ProviderID:    providerID,
		SessionToken:  sessionToken,
		RefreshToken:  &refreshToken,
		ExpiresAt:     time.Now().Add(24 * time.Hour),
		IsActive:      utils.ToPtr(true),
		IPAddress:     utils.ToPtr("127.0.0.1"),
		UserAgent:     utils.ToPtr("Test User Agent"),
	}

	if err := tf.DB.DB.Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to create test session: %w", err)
	}

	return session, nil
}
