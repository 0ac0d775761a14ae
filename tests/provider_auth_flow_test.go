package tests

import (
	"context"
	"testing"
	"time"

	"github.com/localyard/localyard/app/dto"
	"github.com/localyard/localyard/app/services"
	businessflow "github.com/localyard/localyard/business_flow"
	"github.com/localyard/localyard/models"
	"github.com/localyard/localyard/repository"
	testingutil "github.com/localyard/localyard/testing"
	"github.com/localyard/localyard/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T) services.TokenService {
	tokenService, err := services.NewTokenService(
		15*time.Minute,
		7*24*time.Hour,
		"test-issuer",
		"test-audience",
		false,
		"",
		"",
		"test-secret-key-for-jwt-signing-32-chars",
	)
	require.NoError(t, err)
	return tokenService
}

func TestProviderRegistration(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		providerRepo := repository.NewProviderRepository(testDB.DB)
		sessionRepo := repository.NewProviderSessionRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)

		authFlow := businessflow.NewProviderAuthFlow(providerRepo, sessionRepo, auditRepo, newTestTokenService(t), testDB.DB)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "go-test")

		t.Run("SuccessfulRegistration", func(t *testing.T) {
			result, err := authFlow.Register(context.Background(), &dto.RegisterProviderRequest{
				Email:           "Owner@GlendaleLawnPros.com",
				Password:        "SecurePass123!",
				ConfirmPassword: "SecurePass123!",
				FirstName:       "Sam",
				BusinessName:    "Glendale Lawn Pros",
				Phone:           "+16025550188",
				BaseZip:         "85302",
			}, metadata)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.NotEmpty(t, result.Session.AccessToken)
			assert.NotEmpty(t, result.Session.RefreshToken)
			assert.Equal(t, "Bearer", result.Session.TokenType)

			// Email is normalized to lowercase
			provider, err := providerRepo.ByEmail(context.Background(), "owner@glendalelawnpros.com")
			require.NoError(t, err)
			require.NotNil(t, provider)
			assert.Equal(t, "Sam", provider.FirstName)
			assert.Equal(t, "Glendale Lawn Pros", provider.BusinessName)
			require.NotNil(t, provider.BaseZip)
			assert.Equal(t, "85302", *provider.BaseZip)
			assert.True(t, utils.IsTrue(provider.IsActive))

			session, err := sessionRepo.BySessionToken(context.Background(), result.Session.AccessToken)
			require.NoError(t, err)
			require.NotNil(t, session)
			assert.True(t, session.IsValid())

			auditLogs, err := auditRepo.ByFilter(context.Background(), models.AuditLogFilter{
				ProviderID: &provider.ID,
				Action:     utils.ToPtr(models.AuditActionProviderRegistered),
			}, "", 0, 0)
			require.NoError(t, err)
			require.Len(t, auditLogs, 1)
		})

		t.Run("DuplicateEmail", func(t *testing.T) {
			request := &dto.RegisterProviderRequest{
				Email:           "twice@example.com",
				Password:        "SecurePass123!",
				ConfirmPassword: "SecurePass123!",
				FirstName:       "Pat",
				BusinessName:    "Twice Registered LLC",
			}

			_, err := authFlow.Register(context.Background(), request, metadata)
			require.NoError(t, err)

			_, err = authFlow.Register(context.Background(), request, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsEmailAlreadyExists(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestProviderLogin(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		providerRepo := repository.NewProviderRepository(testDB.DB)
		sessionRepo := repository.NewProviderSessionRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)

		authFlow := businessflow.NewProviderAuthFlow(providerRepo, sessionRepo, auditRepo, newTestTokenService(t), testDB.DB)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "go-test")

		provider, err := fixtures.CreateTestProvider("85301")
		require.NoError(t, err)

		t.Run("SuccessfulLogin", func(t *testing.T) {
			result, err := authFlow.Login(context.Background(), &dto.ProviderLoginRequest{
				Email:    provider.Email,
				Password: "TestPass123!",
			}, metadata)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, provider.ID, result.Provider.ID)
			assert.NotEmpty(t, result.Session.AccessToken)

			reloaded, err := providerRepo.ByID(context.Background(), provider.ID)
			require.NoError(t, err)
			require.NotNil(t, reloaded.LastLoginAt)
		})

		t.Run("WrongPassword", func(t *testing.T) {
			_, err := authFlow.Login(context.Background(), &dto.ProviderLoginRequest{
				Email:    provider.Email,
				Password: "WrongPass123!",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsIncorrectPassword(err))
			// The response text never says which part was wrong
			assert.Contains(t, err.Error(), "Invalid email or password")
		})

		t.Run("UnknownEmail", func(t *testing.T) {
			_, err := authFlow.Login(context.Background(), &dto.ProviderLoginRequest{
				Email:    "nobody@example.com",
				Password: "TestPass123!",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsProviderNotFound(err))
			assert.Contains(t, err.Error(), "Invalid email or password")
		})

		t.Run("InactiveAccount", func(t *testing.T) {
			inactive, err := fixtures.CreateTestProvider("85303")
			require.NoError(t, err)
			require.NoError(t, providerRepo.SetActive(context.Background(), inactive.ID, false))

			_, err = authFlow.Login(context.Background(), &dto.ProviderLoginRequest{
				Email:    inactive.Email,
				Password: "TestPass123!",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsAccountInactive(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestProviderSessionLifecycle(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		providerRepo := repository.NewProviderRepository(testDB.DB)
		sessionRepo := repository.NewProviderSessionRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)

		authFlow := businessflow.NewProviderAuthFlow(providerRepo, sessionRepo, auditRepo, newTestTokenService(t), testDB.DB)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "go-test")

		provider, err := fixtures.CreateTestProvider("85301")
		require.NoError(t, err)

		t.Run("RefreshRotatesTokens", func(t *testing.T) {
			login, err := authFlow.Login(context.Background(), &dto.ProviderLoginRequest{
				Email:    provider.Email,
				Password: "TestPass123!",
			}, metadata)
			require.NoError(t, err)

			refreshed, err := authFlow.Refresh(context.Background(), &dto.RefreshTokenRequest{
				RefreshToken: login.Session.RefreshToken,
			}, metadata)
			require.NoError(t, err)
			assert.NotEmpty(t, refreshed.AccessToken)
			assert.NotEqual(t, login.Session.AccessToken, refreshed.AccessToken)

			session, err := sessionRepo.BySessionToken(context.Background(), refreshed.AccessToken)
			require.NoError(t, err)
			require.NotNil(t, session)
			assert.True(t, session.IsValid())
		})

		t.Run("RefreshWithUnknownToken", func(t *testing.T) {
			_, err := authFlow.Refresh(context.Background(), &dto.RefreshTokenRequest{
				RefreshToken: "not-a-stored-token",
			}, metadata)
			require.Error(t, err)
		})

		t.Run("RefreshExpiredSession", func(t *testing.T) {
			session, err := fixtures.CreateTestSession(provider.ID)
			require.NoError(t, err)
			require.NotNil(t, session.RefreshToken)

			err = testDB.DB.Model(&models.ProviderSession{}).
				Where("id = ?", session.ID).
				Update("expires_at", utils.UTCNow().Add(-time.Hour)).Error
			require.NoError(t, err)

			_, err = authFlow.Refresh(context.Background(), &dto.RefreshTokenRequest{
				RefreshToken: *session.RefreshToken,
			}, metadata)
			require.Error(t, err)
		})

		t.Run("LogoutExpiresAllSessions", func(t *testing.T) {
			login, err := authFlow.Login(context.Background(), &dto.ProviderLoginRequest{
				Email:    provider.Email,
				Password: "TestPass123!",
			}, metadata)
			require.NoError(t, err)

			require.NoError(t, authFlow.Logout(context.Background(), provider.ID, login.Session.AccessToken, metadata))

			session, err := sessionRepo.BySessionToken(context.Background(), login.Session.AccessToken)
			require.NoError(t, err)
			if session != nil {
				assert.False(t, session.IsValid())
			}
		})

		return nil
	})
	require.NoError(t, err)
}

func TestChangePassword(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		providerRepo := repository.NewProviderRepository(testDB.DB)
		sessionRepo := repository.NewProviderSessionRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)

		authFlow := businessflow.NewProviderAuthFlow(providerRepo, sessionRepo, auditRepo, newTestTokenService(t), testDB.DB)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "go-test")

		provider, err := fixtures.CreateTestProvider("85301")
		require.NoError(t, err)

		t.Run("WrongCurrentPassword", func(t *testing.T) {
			_, err := authFlow.ChangePassword(context.Background(), provider.ID, &dto.ChangePasswordRequest{
				CurrentPassword: "WrongPass123!",
				NewPassword:     "NewSecurePass123!",
				ConfirmPassword: "NewSecurePass123!",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsIncorrectPassword(err))
		})

		t.Run("SuccessfulChange", func(t *testing.T) {
			login, err := authFlow.Login(context.Background(), &dto.ProviderLoginRequest{
				Email:    provider.Email,
				Password: "TestPass123!",
			}, metadata)
			require.NoError(t, err)

			result, err := authFlow.ChangePassword(context.Background(), provider.ID, &dto.ChangePasswordRequest{
				CurrentPassword: "TestPass123!",
				NewPassword:     "NewSecurePass123!",
				ConfirmPassword: "NewSecurePass123!",
			}, metadata)
			require.NoError(t, err)
			assert.False(t, result.PasswordChangedAt.IsZero())

			// Every existing session is forced out
			session, err := sessionRepo.BySessionToken(context.Background(), login.Session.AccessToken)
			require.NoError(t, err)
			if session != nil {
				assert.False(t, session.IsValid())
			}

			// Old password no longer works, the new one does
			_, err = authFlow.Login(context.Background(), &dto.ProviderLoginRequest{
				Email:    provider.Email,
				Password: "TestPass123!",
			}, metadata)
			require.Error(t, err)

			_, err = authFlow.Login(context.Background(), &dto.ProviderLoginRequest{
				Email:    provider.Email,
				Password: "NewSecurePass123!",
			}, metadata)
			require.NoError(t, err)
		})

		return nil
	})
	require.NoError(t, err)
}
