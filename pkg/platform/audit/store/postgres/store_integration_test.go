//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	platformpostgres "neuroaccess/internal/platform/postgres"
	audit "neuroaccess/pkg/platform/audit"
	"neuroaccess/pkg/testutil/containers"
)

type AuditStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *Store
}

func TestAuditStoreSuite(t *testing.T) {
	suite.Run(t, new(AuditStoreSuite))
}

func (s *AuditStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T(), platformpostgres.DriverPGX)
	s.store = New(s.pg.DB)
}

func (s *AuditStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.Truncate(context.Background(), "audit_events"))
}

func (s *AuditStoreSuite) TestEmitAndList() {
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	rejected := audit.NewEvent(audit.EventApplicationRejected, base)
	rejected.Subject = "alice"
	rejected.Reason = "NoLogin"
	failed := audit.NewEvent(audit.EventAccountUpdateFailed, base.Add(time.Minute))
	failed.Subject = "alice"
	failed.Severity = audit.SeverityCritical
	other := audit.NewEvent(audit.EventApplicationAccepted, base)
	other.Subject = "bob"

	for _, e := range []audit.Event{failed, rejected, other} {
		s.Require().NoError(s.store.Emit(ctx, e))
	}

	events, err := s.store.ListBySubject(ctx, "alice")
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(string(audit.EventApplicationRejected), events[0].Action)
	s.Equal("NoLogin", events[0].Reason)
	s.Equal(audit.CategorySecurity, events[0].Category)
	s.Equal(audit.SeverityCritical, events[1].Severity)
}

func (s *AuditStoreSuite) TestAppend_DerivesMissingFields() {
	ctx := context.Background()
	s.Require().NoError(s.store.Append(ctx, audit.Event{
		Action:  string(audit.EventSettingsReloaded),
		Subject: "admin",
	}))

	events, err := s.store.ListBySubject(ctx, "admin")
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(audit.CategoryOperations, events[0].Category)
	s.False(events[0].Timestamp.IsZero())
}
