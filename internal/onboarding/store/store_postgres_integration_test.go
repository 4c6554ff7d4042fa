//go:build integration

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"neuroaccess/internal/onboarding/models"
	"neuroaccess/internal/platform/postgres"
	"neuroaccess/pkg/platform/sentinel"
	"neuroaccess/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	driver   string
	pg       *containers.PostgresContainer
	logins   *PostgresLoginStore
	accounts *PostgresAccountStore
}

func TestPostgresStoreSuite_PGX(t *testing.T) {
	suite.Run(t, &PostgresStoreSuite{driver: postgres.DriverPGX})
}

func TestPostgresStoreSuite_PQ(t *testing.T) {
	suite.Run(t, &PostgresStoreSuite{driver: postgres.DriverPQ})
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T(), s.driver)
	s.logins = NewPostgresLoginStore(s.pg.DB, "")
	s.accounts = NewPostgresAccountStore(s.pg.DB, "")
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.Truncate(context.Background(), DefaultLoginTable, DefaultAccountTable))
}

func endpoint(v string) *string { return &v }

func (s *PostgresStoreSuite) TestLastLogin_NewestWins() {
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	s.Require().NoError(s.logins.Record(ctx, models.BrokerAccountLogin{UserName: "alice", RemoteEndpoint: endpoint("203.0.113.1"), Timestamp: base}))
	s.Require().NoError(s.logins.Record(ctx, models.BrokerAccountLogin{UserName: "alice", RemoteEndpoint: endpoint("203.0.113.2"), Timestamp: base.Add(time.Hour)}))
	s.Require().NoError(s.logins.Record(ctx, models.BrokerAccountLogin{UserName: "bob", RemoteEndpoint: endpoint("203.0.113.3"), Timestamp: base.Add(2 * time.Hour)}))

	login, err := s.logins.LastLogin(ctx, "alice")

	s.Require().NoError(err)
	s.Require().NotNil(login.RemoteEndpoint)
	s.Equal("203.0.113.2", *login.RemoteEndpoint)
	s.True(base.Add(time.Hour).Equal(login.Timestamp))
}

func (s *PostgresStoreSuite) TestLastLogin_WithoutEndpoint() {
	ctx := context.Background()
	s.Require().NoError(s.logins.Record(ctx, models.BrokerAccountLogin{UserName: "alice", Timestamp: time.Now()}))

	login, err := s.logins.LastLogin(ctx, "alice")

	s.Require().NoError(err)
	s.Nil(login.RemoteEndpoint)
}

func (s *PostgresStoreSuite) TestLastLogin_NotFound() {
	_, err := s.logins.LastLogin(context.Background(), "nobody")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestAccount_SaveFindUpdate() {
	ctx := context.Background()
	s.Require().NoError(s.accounts.Save(ctx, models.BrokerAccount{UserName: "alice"}))

	account, err := s.accounts.FindByUserName(ctx, "alice")
	s.Require().NoError(err)
	s.Empty(account.EMail)

	now := time.Date(2026, 5, 2, 8, 0, 0, 0, time.UTC)
	s.Require().NoError(s.accounts.UpdateEMail(ctx, "alice", "alice@example.com", now))

	account, err = s.accounts.FindByUserName(ctx, "alice")
	s.Require().NoError(err)
	s.Equal("alice@example.com", account.EMail)
	s.True(now.Equal(account.UpdatedAt))
}

func (s *PostgresStoreSuite) TestAccount_NotFound() {
	ctx := context.Background()

	_, err := s.accounts.FindByUserName(ctx, "nobody")
	s.ErrorIs(err, sentinel.ErrNotFound)

	err = s.accounts.UpdateEMail(ctx, "nobody", "x@example.com", time.Now())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestRunInTx_RollsBack() {
	ctx := context.Background()
	s.Require().NoError(s.accounts.Save(ctx, models.BrokerAccount{UserName: "alice", EMail: "old@example.com"}))

	boom := errors.New("boom")
	err := s.accounts.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.accounts.UpdateEMail(ctx, "alice", "new@example.com", time.Now()); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	account, err := s.accounts.FindByUserName(ctx, "alice")
	s.Require().NoError(err)
	s.Equal("old@example.com", account.EMail)
}
