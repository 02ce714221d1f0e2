package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/trip-impact-service/internal/domain"
	"github.com/trip-impact-service/internal/domain/repository"
	"github.com/trip-impact-service/internal/repository/postgres/testhelpers"
)

const migrationsDir = "../../../migrations"

// RunRepositoryTestSuite тестирует журнал прогонов на реальной БД
type RunRepositoryTestSuite struct {
	suite.Suite
	testDB *testhelpers.TestDB
	repo   repository.RunRepository
	ctx    context.Context
}

func (s *RunRepositoryTestSuite) SetupSuite() {
	s.testDB = testhelpers.SetupTestDB(s.T())

	err := testhelpers.ApplyMigrations(context.Background(), s.testDB.DB, migrationsDir)
	s.Require().NoError(err, "Failed to apply migrations")

	s.repo = testhelpers.NewRunRepositoryForTest(s.testDB.DB, s.testDB.Logger)
}

func (s *RunRepositoryTestSuite) TearDownSuite() {
	if s.testDB != nil {
		s.NoError(testhelpers.RollbackMigrations(context.Background(), s.testDB.DB, migrationsDir))
		s.testDB.Close()
	}
}

// SetupTest очищает таблицу и загружает фикстуры перед каждым тестом
func (s *RunRepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.testDB.Cleanup(s.ctx))
	s.Require().NoError(testhelpers.LoadFixtures(s.ctx, s.testDB.DB, "testdata/fixtures", "simulations.sql"))
}

func (s *RunRepositoryTestSuite) TestEnsureSchema_Idempotent() {
	s.NoError(s.repo.EnsureSchema(s.ctx))
	s.NoError(s.repo.EnsureSchema(s.ctx))
}

func (s *RunRepositoryTestSuite) TestInsert_ColumnsInOrder() {
	metrics := domain.MetricsSummary{AvgTravelTime: "00:02:00", MaxDelay: "00:03:00", NumTrips: 3}
	rec := domain.NewRunRecord("new-cairo", "natural_lang_trip", "from A to B", metrics, []int64{5, 9},
		time.Date(2025, 5, 2, 8, 0, 0, 0, time.UTC))

	id, err := s.repo.Insert(s.ctx, &rec)
	s.Require().NoError(err)
	s.Positive(id)

	n, err := testhelpers.CountRuns(s.ctx, s.testDB.DB)
	s.Require().NoError(err)
	s.Equal(3, n)

	recent, err := s.repo.ListRecent(s.ctx, 1)
	s.Require().NoError(err)
	s.Require().Len(recent, 1)
	s.Equal(id, recent[0].ID)
	s.Equal("natural_lang_trip", recent[0].ScenarioName)
	s.Require().NotNil(recent[0].UserInput)
	s.Equal("from A to B", *recent[0].UserInput)
	s.Require().NotNil(recent[0].BlockedRoads)
	s.Equal("5,9", *recent[0].BlockedRoads)
}

func (s *RunRepositoryTestSuite) TestListRecent_NewestFirst() {
	recent, err := s.repo.ListRecent(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(recent, 2)
	s.Equal("00:15:10", recent[0].AvgTravelTime)
	s.Nil(recent[1].BlockedRoads)
}

func TestRunRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RunRepositoryTestSuite))
}
