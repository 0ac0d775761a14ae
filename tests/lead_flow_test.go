package tests

import (
	"context"
	"testing"
	"time"

	"github.com/localyard/localyard/app/dto"
	businessflow "github.com/localyard/localyard/business_flow"
	"github.com/localyard/localyard/models"
	"github.com/localyard/localyard/repository"
	testingutil "github.com/localyard/localyard/testing"
	"github.com/localyard/localyard/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitContact(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		providerRepo := repository.NewProviderRepository(testDB.DB)
		globalZipRepo := repository.NewGlobalZipRepository(testDB.DB)
		profileRepo := repository.NewProfileRepository(testDB.DB)
		leadRepo := repository.NewLeadRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)

		// No centroid data loaded: the gate runs in exact-only mode
		eligibilityFlow := businessflow.NewEligibilityFlow(providerRepo, globalZipRepo, profileRepo, nil)
		leadFlow := businessflow.NewLeadFlow(leadRepo, providerRepo, auditRepo, eligibilityFlow, testDB.DB)

		metadata := businessflow.NewClientMetadata("127.0.0.1", "go-test")

		provider, err := fixtures.CreateTestProvider("85301")
		require.NoError(t, err)

		t.Run("ServableZipCreatesLead", func(t *testing.T) {
			result, err := leadFlow.SubmitContact(context.Background(), &dto.ContactRequest{
				Name:      "Jane Smith",
				Email:     "jane@example.com",
				Phone:     "+16025550133",
				Zip:       "85301",
				Message:   "Need weekly mowing starting next month",
				Recurring: true,
			}, metadata)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.True(t, result.Servable)
			assert.Equal(t, models.LeadStatusNew, result.Status)
			assert.NotZero(t, result.LeadID)
			assert.NotEmpty(t, result.CorrelationID)

			lead, err := leadRepo.ByID(context.Background(), result.LeadID)
			require.NoError(t, err)
			require.NotNil(t, lead)
			assert.Equal(t, provider.ID, lead.ProviderID)
			assert.Equal(t, "85301", lead.Zip)
			assert.True(t, lead.IsRecurring())

			auditLogs, err := auditRepo.ByFilter(context.Background(), models.AuditLogFilter{
				ProviderID: &provider.ID,
				Action:     utils.ToPtr(models.AuditActionLeadCreated),
			}, "", 0, 0)
			require.NoError(t, err)
			require.Len(t, auditLogs, 1)
		})

		t.Run("NonServableZipIsAcknowledgedWithoutLead", func(t *testing.T) {
			before, err := leadRepo.Count(context.Background(), models.LeadFilter{})
			require.NoError(t, err)

			result, err := leadFlow.SubmitContact(context.Background(), &dto.ContactRequest{
				Name: "Far Away",
				Zip:  "99999",
			}, metadata)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.False(t, result.Servable)
			assert.Zero(t, result.LeadID)

			after, err := leadRepo.Count(context.Background(), models.LeadFilter{})
			require.NoError(t, err)
			assert.Equal(t, before, after)

			auditLogs, err := auditRepo.ByFilter(context.Background(), models.AuditLogFilter{
				Action: utils.ToPtr(models.AuditActionLeadRejectedByGate),
			}, "", 0, 0)
			require.NoError(t, err)
			require.NotEmpty(t, auditLogs)
		})

		t.Run("MalformedZipIsANegativeAnswerNotAnError", func(t *testing.T) {
			result, err := leadFlow.SubmitContact(context.Background(), &dto.ContactRequest{
				Name: "Typo Customer",
				Zip:  "8530a",
			}, metadata)
			require.NoError(t, err)
			assert.False(t, result.Servable)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestLeadLifecycle(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		providerRepo := repository.NewProviderRepository(testDB.DB)
		globalZipRepo := repository.NewGlobalZipRepository(testDB.DB)
		profileRepo := repository.NewProfileRepository(testDB.DB)
		leadRepo := repository.NewLeadRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)

		eligibilityFlow := businessflow.NewEligibilityFlow(providerRepo, globalZipRepo, profileRepo, nil)
		leadFlow := businessflow.NewLeadFlow(leadRepo, providerRepo, auditRepo, eligibilityFlow, testDB.DB)

		metadata := businessflow.NewClientMetadata("127.0.0.1", "go-test")

		provider, err := fixtures.CreateTestProvider("85301")
		require.NoError(t, err)
		otherProvider, err := fixtures.CreateTestProvider("85302")
		require.NoError(t, err)

		t.Run("CompleteRecurringLeadSpawnsWeeklyFollowUp", func(t *testing.T) {
			lead, err := fixtures.CreateTestLead(provider.ID, "85301", models.LeadStatusNew, true)
			require.NoError(t, err)

			result, err := leadFlow.CompleteLead(context.Background(), lead.ID, &provider.ID, metadata)
			require.NoError(t, err)
			assert.Equal(t, models.LeadStatusCompleted, result.Status)

			// The successor shares the correlation ID and is already scheduled
			successors, err := leadRepo.ByFilter(context.Background(), models.LeadFilter{
				CorrelationID: &lead.CorrelationID,
				Status:        utils.ToPtr(models.LeadStatusScheduled),
			}, "", 0, 0)
			require.NoError(t, err)
			require.Len(t, successors, 1)

			successor := successors[0]
			assert.Equal(t, provider.ID, successor.ProviderID)
			assert.True(t, successor.IsRecurring())
			require.NotNil(t, successor.Message)
			assert.Contains(t, *successor.Message, models.RecurringMessagePrefix)
			require.NotNil(t, successor.FollowUpDate)
			assert.WithinDuration(t, utils.UTCNow().Add(models.RecurringFollowUpInterval), *successor.FollowUpDate, time.Minute)
		})

		t.Run("CompleteNonRecurringLeadEndsThere", func(t *testing.T) {
			lead, err := fixtures.CreateTestLead(provider.ID, "85301", models.LeadStatusNew, false)
			require.NoError(t, err)

			_, err = leadFlow.CompleteLead(context.Background(), lead.ID, &provider.ID, metadata)
			require.NoError(t, err)

			successors, err := leadRepo.ByFilter(context.Background(), models.LeadFilter{
				CorrelationID: &lead.CorrelationID,
			}, "", 0, 0)
			require.NoError(t, err)
			assert.Len(t, successors, 1)
		})

		t.Run("CompletingAClosedLeadFails", func(t *testing.T) {
			lead, err := fixtures.CreateTestLead(provider.ID, "85301", models.LeadStatusCompleted, false)
			require.NoError(t, err)

			_, err = leadFlow.CompleteLead(context.Background(), lead.ID, &provider.ID, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsLeadAlreadyClosed(err))
		})

		t.Run("ProviderCannotTouchAnotherProvidersLead", func(t *testing.T) {
			lead, err := fixtures.CreateTestLead(provider.ID, "85301", models.LeadStatusNew, false)
			require.NoError(t, err)

			_, err = leadFlow.CompleteLead(context.Background(), lead.ID, &otherProvider.ID, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsLeadAccessDenied(err))

			// Untouched
			reloaded, err := leadRepo.ByID(context.Background(), lead.ID)
			require.NoError(t, err)
			assert.Equal(t, models.LeadStatusNew, reloaded.Status)
		})

		t.Run("AdminActorMayTouchAnyLead", func(t *testing.T) {
			lead, err := fixtures.CreateTestLead(provider.ID, "85301", models.LeadStatusNew, false)
			require.NoError(t, err)

			result, err := leadFlow.RejectLead(context.Background(), lead.ID, nil, metadata)
			require.NoError(t, err)
			assert.Equal(t, models.LeadStatusRejected, result.Status)
		})

		t.Run("ScheduleSetsTomorrowFollowUp", func(t *testing.T) {
			lead, err := fixtures.CreateTestLead(provider.ID, "85301", models.LeadStatusNew, false)
			require.NoError(t, err)

			result, err := leadFlow.ScheduleLead(context.Background(), lead.ID, &provider.ID, metadata)
			require.NoError(t, err)
			assert.Equal(t, models.LeadStatusScheduled, result.Status)
			require.NotNil(t, result.FollowUpDate)

			reloaded, err := leadRepo.ByID(context.Background(), lead.ID)
			require.NoError(t, err)
			require.NotNil(t, reloaded.FollowUpDate)
			assert.WithinDuration(t, utils.StartOfTomorrowUTC(), *reloaded.FollowUpDate, time.Second)
		})

		t.Run("ToggleRecurring", func(t *testing.T) {
			lead, err := fixtures.CreateTestLead(provider.ID, "85301", models.LeadStatusNew, false)
			require.NoError(t, err)

			result, err := leadFlow.ToggleRecurring(context.Background(), lead.ID, &provider.ID)
			require.NoError(t, err)
			require.NotNil(t, result.Recurring)
			assert.True(t, *result.Recurring)

			result, err = leadFlow.ToggleRecurring(context.Background(), lead.ID, &provider.ID)
			require.NoError(t, err)
			require.NotNil(t, result.Recurring)
			assert.False(t, *result.Recurring)
		})

		t.Run("UnknownLead", func(t *testing.T) {
			_, err := leadFlow.CompleteLead(context.Background(), 999999, &provider.ID, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsLeadNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestAssignLead(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		providerRepo := repository.NewProviderRepository(testDB.DB)
		globalZipRepo := repository.NewGlobalZipRepository(testDB.DB)
		profileRepo := repository.NewProfileRepository(testDB.DB)
		leadRepo := repository.NewLeadRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)

		eligibilityFlow := businessflow.NewEligibilityFlow(providerRepo, globalZipRepo, profileRepo, nil)
		leadFlow := businessflow.NewLeadFlow(leadRepo, providerRepo, auditRepo, eligibilityFlow, testDB.DB)

		metadata := businessflow.NewClientMetadata("127.0.0.1", "go-test")

		provider, err := fixtures.CreateTestProvider("85301")
		require.NoError(t, err)

		t.Run("AssignToProvider", func(t *testing.T) {
			lead, err := fixtures.CreateTestLead(models.HouseProviderID, "85301", models.LeadStatusNew, false)
			require.NoError(t, err)

			result, err := leadFlow.AssignLead(context.Background(), lead.ID, provider.ID, metadata)
			require.NoError(t, err)
			assert.Equal(t, provider.ID, result.ProviderID)

			reloaded, err := leadRepo.ByID(context.Background(), lead.ID)
			require.NoError(t, err)
			assert.Equal(t, provider.ID, reloaded.ProviderID)
		})

		t.Run("AssignBackToOperator", func(t *testing.T) {
			lead, err := fixtures.CreateTestLead(provider.ID, "85301", models.LeadStatusNew, false)
			require.NoError(t, err)

			result, err := leadFlow.AssignLead(context.Background(), lead.ID, models.HouseProviderID, metadata)
			require.NoError(t, err)
			assert.Equal(t, models.HouseProviderID, result.ProviderID)
		})

		t.Run("UnknownTargetProvider", func(t *testing.T) {
			lead, err := fixtures.CreateTestLead(provider.ID, "85301", models.LeadStatusNew, false)
			require.NoError(t, err)

			_, err = leadFlow.AssignLead(context.Background(), lead.ID, 999999, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsAssignProviderNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestListLeads(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		providerRepo := repository.NewProviderRepository(testDB.DB)
		globalZipRepo := repository.NewGlobalZipRepository(testDB.DB)
		profileRepo := repository.NewProfileRepository(testDB.DB)
		leadRepo := repository.NewLeadRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)

		eligibilityFlow := businessflow.NewEligibilityFlow(providerRepo, globalZipRepo, profileRepo, nil)
		leadFlow := businessflow.NewLeadFlow(leadRepo, providerRepo, auditRepo, eligibilityFlow, testDB.DB)

		providerA, err := fixtures.CreateTestProvider("85301")
		require.NoError(t, err)
		providerB, err := fixtures.CreateTestProvider("85302")
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			_, err := fixtures.CreateTestLead(providerA.ID, "85301", models.LeadStatusNew, false)
			require.NoError(t, err)
		}
		_, err = fixtures.CreateTestLead(providerB.ID, "85302", models.LeadStatusNew, false)
		require.NoError(t, err)
		completed, err := fixtures.CreateTestLead(providerA.ID, "85301", models.LeadStatusCompleted, false)
		require.NoError(t, err)
		recurring, err := fixtures.CreateTestLead(providerA.ID, "85301", models.LeadStatusNew, true)
		require.NoError(t, err)

		t.Run("ScopedToProvider", func(t *testing.T) {
			result, err := leadFlow.ListLeads(context.Background(), &providerA.ID, "", 1, 20)
			require.NoError(t, err)
			assert.Len(t, result.Leads, 5)
			assert.EqualValues(t, 5, result.Total)
		})

		t.Run("AdminViewSeesAll", func(t *testing.T) {
			result, err := leadFlow.ListLeads(context.Background(), nil, "", 1, 20)
			require.NoError(t, err)
			assert.Len(t, result.Leads, 6)
		})

		t.Run("Paged", func(t *testing.T) {
			first, err := leadFlow.ListLeads(context.Background(), nil, "", 1, 4)
			require.NoError(t, err)
			assert.Len(t, first.Leads, 4)
			assert.EqualValues(t, 6, first.Total)

			second, err := leadFlow.ListLeads(context.Background(), nil, "", 2, 4)
			require.NoError(t, err)
			assert.Len(t, second.Leads, 2)
		})

		t.Run("CompletedView", func(t *testing.T) {
			result, err := leadFlow.ListLeads(context.Background(), nil, "completed", 1, 20)
			require.NoError(t, err)
			require.Len(t, result.Leads, 1)
			assert.Equal(t, completed.ID, result.Leads[0].ID)
		})

		t.Run("RecurringView", func(t *testing.T) {
			result, err := leadFlow.ListLeads(context.Background(), nil, "recurring", 1, 20)
			require.NoError(t, err)
			require.Len(t, result.Leads, 1)
			assert.Equal(t, recurring.ID, result.Leads[0].ID)
		})

		t.Run("ActiveViewExcludesClosed", func(t *testing.T) {
			result, err := leadFlow.ListLeads(context.Background(), nil, "active", 1, 20)
			require.NoError(t, err)
			assert.Len(t, result.Leads, 5)
		})

		t.Run("UnknownView", func(t *testing.T) {
			_, err := leadFlow.ListLeads(context.Background(), nil, "archived", 1, 20)
			require.Error(t, err)
		})

		t.Run("InvalidPaging", func(t *testing.T) {
			_, err := leadFlow.ListLeads(context.Background(), nil, "", 0, 20)
			require.Error(t, err)

			_, err = leadFlow.ListLeads(context.Background(), nil, "", 1, 500)
			require.Error(t, err)
		})

		return nil
	})
	require.NoError(t, err)
}
