package rounds

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/mindmeld/internal/models"
)

type repositorySuite struct {
	suite.Suite
	repo    Repository
	ctx     context.Context
	testNow time.Time
}

func (s *repositorySuite) record(code string, round int) *models.RoundRecord {
	return &models.RoundRecord{
		GameCode:   code,
		Round:      round,
		Prompt:     "honey",
		Answers:    map[string]string{"p1": "bee", "p2": "bee"},
		Points:     map[string]int{"p1": 3, "p2": 3},
		RecordedAt: s.testNow,
	}
}

func (s *repositorySuite) TestAddAndGetRoundRecords() {
	s.Require().NoError(s.repo.AddRoundRecord(s.ctx, &AddRoundRecordInput{Record: s.record("AB12CD", 1)}))
	s.Require().NoError(s.repo.AddRoundRecord(s.ctx, &AddRoundRecordInput{Record: s.record("AB12CD", 2)}))
	s.Require().NoError(s.repo.AddRoundRecord(s.ctx, &AddRoundRecordInput{Record: s.record("OTHER1", 1)}))

	out, err := s.repo.GetRoundRecordsForGame(s.ctx, &GetRoundRecordsForGameInput{GameCode: "AB12CD"})
	s.Require().NoError(err)
	s.Require().Len(out.Records, 2)

	s.Equal(1, out.Records[0].Round)
	s.Equal(2, out.Records[1].Round)
	s.Equal("bee", out.Records[0].Answers["p1"])
	s.Equal(3, out.Records[0].Points["p2"])
	s.Equal(s.testNow.Unix(), out.Records[0].RecordedAt.Unix())
}

func (s *repositorySuite) TestGetRoundRecordsEmpty() {
	out, err := s.repo.GetRoundRecordsForGame(s.ctx, &GetRoundRecordsForGameInput{GameCode: "NOPE"})
	s.Require().NoError(err)
	s.Empty(out.Records)
}

func (s *repositorySuite) TestDeleteRoundRecords() {
	s.Require().NoError(s.repo.AddRoundRecord(s.ctx, &AddRoundRecordInput{Record: s.record("AB12CD", 1)}))
	s.Require().NoError(s.repo.DeleteRoundRecords(s.ctx, &DeleteRoundRecordsInput{GameCode: "AB12CD"}))

	out, err := s.repo.GetRoundRecordsForGame(s.ctx, &GetRoundRecordsForGameInput{GameCode: "AB12CD"})
	s.Require().NoError(err)
	s.Empty(out.Records)
}

func (s *repositorySuite) TestAddRoundRecordValidation() {
	s.Error(s.repo.AddRoundRecord(s.ctx, nil))
	s.Error(s.repo.AddRoundRecord(s.ctx, &AddRoundRecordInput{Record: &models.RoundRecord{}}))
}

type MemoryRepositoryTestSuite struct {
	repositorySuite
}

func (s *MemoryRepositoryTestSuite) SetupTest() {
	s.repo = NewMemory()
	s.ctx = context.Background()
	s.testNow = time.Date(2025, 4, 5, 10, 0, 0, 0, time.UTC)
}

func TestMemoryRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(MemoryRepositoryTestSuite))
}

type RedisRepositoryTestSuite struct {
	repositorySuite
	mr     *miniredis.Miniredis
	client *redis.Client
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	repo, err := NewRedis(&Config{
		RedisClient: s.client,
		TTL:         time.Hour,
	})
	s.Require().NoError(err)
	s.repo = repo

	s.ctx = context.Background()
	s.testNow = time.Date(2025, 4, 5, 10, 0, 0, 0, time.UTC)
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) TestLedgerExpires() {
	s.Require().NoError(s.repo.AddRoundRecord(s.ctx, &AddRoundRecordInput{Record: s.record("AB12CD", 1)}))
	s.Equal(time.Hour, s.mr.TTL(gameRoundsKey("AB12CD")))
}
