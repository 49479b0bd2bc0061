package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/mindmeld/internal/models"
)

// repositorySuite holds the behaviour every Repository implementation must share
type repositorySuite struct {
	suite.Suite
	repo    Repository
	ctx     context.Context
	testNow time.Time
}

func (s *repositorySuite) newSession(code string) *models.Session {
	session := models.NewSession(code, s.testNow)
	session.Players["p1"] = &models.Player{ID: "p1", Name: "Alice", Seat: 0}
	return session
}

func (s *repositorySuite) TestCreateAndGetSession() {
	err := s.repo.CreateSession(s.ctx, &CreateSessionInput{Session: s.newSession("AB12CD")})
	s.Require().NoError(err)

	got, err := s.repo.GetSession(s.ctx, &GetSessionInput{GameCode: "AB12CD"})
	s.Require().NoError(err)

	s.Equal("AB12CD", got.Code)
	s.Equal(models.PhaseLobby, got.Phase)
	s.Require().Len(got.Players, 1)
	s.Equal("Alice", got.Players["p1"].Name)
	s.Equal(s.testNow.Unix(), got.CreatedAt.Unix())
}

func (s *repositorySuite) TestCreateSessionCollision() {
	s.Require().NoError(s.repo.CreateSession(s.ctx, &CreateSessionInput{Session: s.newSession("AB12CD")}))

	err := s.repo.CreateSession(s.ctx, &CreateSessionInput{Session: s.newSession("AB12CD")})
	s.ErrorIs(err, ErrSessionExists)
}

func (s *repositorySuite) TestGetSessionNotFound() {
	_, err := s.repo.GetSession(s.ctx, &GetSessionInput{GameCode: "NOPE"})
	s.ErrorIs(err, ErrSessionNotFound)
}

func (s *repositorySuite) TestGetSessionReturnsCopy() {
	s.Require().NoError(s.repo.CreateSession(s.ctx, &CreateSessionInput{Session: s.newSession("AB12CD")}))

	got, err := s.repo.GetSession(s.ctx, &GetSessionInput{GameCode: "AB12CD"})
	s.Require().NoError(err)
	got.Players["p1"].Score = 99

	again, err := s.repo.GetSession(s.ctx, &GetSessionInput{GameCode: "AB12CD"})
	s.Require().NoError(err)
	s.Equal(0, again.Players["p1"].Score)
}

func (s *repositorySuite) TestUpdateSession() {
	s.Require().NoError(s.repo.CreateSession(s.ctx, &CreateSessionInput{Session: s.newSession("AB12CD")}))

	out, err := s.repo.UpdateSession(s.ctx, &UpdateSessionInput{
		GameCode: "AB12CD",
		Mutate: func(session *models.Session) error {
			session.Players["p1"].Ready = true
			return nil
		},
	})
	s.Require().NoError(err)
	s.True(out.Session.Players["p1"].Ready)

	got, err := s.repo.GetSession(s.ctx, &GetSessionInput{GameCode: "AB12CD"})
	s.Require().NoError(err)
	s.True(got.Players["p1"].Ready)
}

func (s *repositorySuite) TestUpdateSessionMutateErrorDiscardsChanges() {
	s.Require().NoError(s.repo.CreateSession(s.ctx, &CreateSessionInput{Session: s.newSession("AB12CD")}))

	boom := errors.New("boom")
	_, err := s.repo.UpdateSession(s.ctx, &UpdateSessionInput{
		GameCode: "AB12CD",
		Mutate: func(session *models.Session) error {
			session.Players["p1"].Score = 50
			return boom
		},
	})
	s.ErrorIs(err, boom)

	got, err := s.repo.GetSession(s.ctx, &GetSessionInput{GameCode: "AB12CD"})
	s.Require().NoError(err)
	s.Equal(0, got.Players["p1"].Score)
}

func (s *repositorySuite) TestUpdateSessionNotFound() {
	_, err := s.repo.UpdateSession(s.ctx, &UpdateSessionInput{
		GameCode: "NOPE",
		Mutate:   func(*models.Session) error { return nil },
	})
	s.ErrorIs(err, ErrSessionNotFound)
}

func (s *repositorySuite) TestConcurrentUpdatesAreSerialized() {
	s.Require().NoError(s.repo.CreateSession(s.ctx, &CreateSessionInput{Session: s.newSession("AB12CD")}))

	const writers = 5
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.repo.UpdateSession(s.ctx, &UpdateSessionInput{
				GameCode: "AB12CD",
				Mutate: func(session *models.Session) error {
					session.Players["p1"].Score++
					return nil
				},
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		s.Require().NoError(err)
	}

	got, err := s.repo.GetSession(s.ctx, &GetSessionInput{GameCode: "AB12CD"})
	s.Require().NoError(err)
	s.Equal(writers, got.Players["p1"].Score)
}
