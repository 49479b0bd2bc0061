package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/mindmeld/internal/api"
	"github.com/KirkDiggler/mindmeld/internal/models"
	"github.com/KirkDiggler/mindmeld/internal/services/game"
	gameMocks "github.com/KirkDiggler/mindmeld/internal/services/game/mocks"
)

type ServerTestSuite struct {
	suite.Suite
	mockCtrl    *gomock.Controller
	mockService *gameMocks.MockService
	server      *Server
	testCode    string
	testPlayer  string
}

func (s *ServerTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockService = gameMocks.NewMockService(s.mockCtrl)
	s.testCode = "ABC234"
	s.testPlayer = "player-1"

	server, err := New(&Config{
		GameService: s.mockService,
		Addr:        "127.0.0.1:0",
		PublicURL:   "https://mindmeld.example/",
		Version:     "1.2.3",
	})
	s.Require().NoError(err)
	s.server = server
}

func (s *ServerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (s *ServerTestSuite) do(method, target, body string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	s.server.Handler().ServeHTTP(rec, req)
	return rec
}

func (s *ServerTestSuite) decode(rec *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), v))
}

func (s *ServerTestSuite) TestNewValidation() {
	_, err := New(nil)
	s.Error(err)

	_, err = New(&Config{})
	s.Error(err)
}

func (s *ServerTestSuite) TestCreate() {
	s.mockService.EXPECT().CreateGame(gomock.Any(), &game.CreateGameInput{}).
		Return(&game.CreateGameOutput{GameCode: s.testCode}, nil)

	rec := s.do(http.MethodPost, "/create", "")
	s.Equal(http.StatusOK, rec.Code)

	var resp api.CreateResponse
	s.decode(rec, &resp)
	s.Equal(s.testCode, resp.GameCode)
	s.False(resp.Failed())
}

func (s *ServerTestSuite) TestJoin() {
	s.mockService.EXPECT().JoinGame(gomock.Any(), &game.JoinGameInput{GameCode: s.testCode, PlayerName: "Alice"}).
		Return(&game.JoinGameOutput{PlayerID: s.testPlayer}, nil)

	rec := s.do(http.MethodPost, "/join", `{"name":"Alice","game_code":" ABC234 "}`)
	s.Equal(http.StatusOK, rec.Code)

	var resp api.JoinResponse
	s.decode(rec, &resp)
	s.Equal(s.testPlayer, resp.PlayerID)
}

func (s *ServerTestSuite) TestJoinUnknownGame() {
	s.mockService.EXPECT().JoinGame(gomock.Any(), gomock.Any()).Return(nil, game.ErrGameNotFound)

	rec := s.do(http.MethodPost, "/join", `{"name":"Alice","game_code":"NOPE22"}`)
	s.Equal(http.StatusOK, rec.Code)

	var resp api.JoinResponse
	s.decode(rec, &resp)
	s.Empty(resp.PlayerID)
	s.Equal("game not found", resp.Error)
	s.Equal(api.KindNotFound, resp.Kind)
}

func (s *ServerTestSuite) TestJoinKeepsCodeCase() {
	s.mockService.EXPECT().JoinGame(gomock.Any(), &game.JoinGameInput{GameCode: "abc234", PlayerName: "Alice"}).
		Return(nil, game.ErrGameNotFound)

	rec := s.do(http.MethodPost, "/join", `{"name":"Alice","game_code":"abc234"}`)
	s.Equal(http.StatusOK, rec.Code)

	var resp api.JoinResponse
	s.decode(rec, &resp)
	s.Empty(resp.PlayerID)
	s.Equal(api.KindNotFound, resp.Kind)
}

func (s *ServerTestSuite) TestMalformedBody() {
	rec := s.do(http.MethodPost, "/submit", `{"answer":`)
	s.Equal(http.StatusOK, rec.Code)

	var resp api.AckResponse
	s.decode(rec, &resp)
	s.Equal(api.KindValidation, resp.Kind)
	s.False(resp.OK)
}

func (s *ServerTestSuite) TestActions() {
	s.mockService.EXPECT().Ready(gomock.Any(), &game.ReadyInput{GameCode: s.testCode, PlayerID: s.testPlayer}).
		Return(&game.ReadyOutput{Phase: models.PhasePlaying, Started: true}, nil)
	s.mockService.EXPECT().SubmitAnswer(gomock.Any(), &game.SubmitAnswerInput{GameCode: s.testCode, PlayerID: s.testPlayer, Answer: "Apple"}).
		Return(&game.SubmitAnswerOutput{Phase: models.PhasePlaying, StoredAnswer: "apple"}, nil)
	s.mockService.EXPECT().NextRound(gomock.Any(), &game.NextRoundInput{GameCode: s.testCode, PlayerID: s.testPlayer}).
		Return(&game.NextRoundOutput{Phase: models.PhaseScoring}, nil)

	testCases := []struct {
		path  string
		body  string
		state string
	}{
		{"/ready", `{"game_code":"ABC234","player_id":"player-1"}`, "playing"},
		{"/submit", `{"game_code":"ABC234","player_id":"player-1","answer":"Apple"}`, "playing"},
		{"/next", `{"game_code":"ABC234","player_id":"player-1"}`, "scoring"},
	}

	for _, tc := range testCases {
		s.Run(tc.path, func() {
			rec := s.do(http.MethodPost, tc.path, tc.body)
			s.Equal(http.StatusOK, rec.Code)

			var resp api.AckResponse
			s.decode(rec, &resp)
			s.True(resp.OK)
			s.Equal(tc.state, resp.State)
		})
	}
}

func (s *ServerTestSuite) TestSubmitWrongPhase() {
	s.mockService.EXPECT().SubmitAnswer(gomock.Any(), gomock.Any()).Return(nil, game.ErrInvalidPhase)

	rec := s.do(http.MethodPost, "/submit", `{"game_code":"ABC234","player_id":"player-1","answer":"x"}`)
	s.Equal(http.StatusOK, rec.Code)

	var resp api.AckResponse
	s.decode(rec, &resp)
	s.Equal(api.KindInvalidPhase, resp.Kind)
}

func (s *ServerTestSuite) TestInternalError() {
	s.mockService.EXPECT().NextRound(gomock.Any(), gomock.Any()).Return(nil, errors.New("redis: connection refused"))

	rec := s.do(http.MethodPost, "/next", `{"game_code":"ABC234","player_id":"player-1"}`)
	s.Equal(http.StatusInternalServerError, rec.Code)

	var resp api.AckResponse
	s.decode(rec, &resp)
	s.Equal("internal error", resp.Error)
	s.NotContains(rec.Body.String(), "redis")
}

func (s *ServerTestSuite) TestState() {
	sess := models.NewSession(s.testCode, time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC))
	sess.Phase = models.PhasePlaying
	sess.Round = 1
	sess.CurrentWord = "apple"
	sess.Players["p1"] = &models.Player{ID: "p1", Name: "Alice", Answer: "fruit"}
	sess.Players["p2"] = &models.Player{ID: "p2", Name: "Bob", Seat: 1}

	s.mockService.EXPECT().GetState(gomock.Any(), &game.GetStateInput{GameCode: s.testCode}).
		Return(&game.GetStateOutput{Session: sess}, nil)

	rec := s.do(http.MethodGet, "/state?game_code=%20ABC234", "")
	s.Equal(http.StatusOK, rec.Code)

	var resp api.StateResponse
	s.decode(rec, &resp)
	s.Equal("playing", resp.State)
	s.Equal("apple", resp.CurrentWord)
	s.Equal("fruit", resp.Players["p1"].Answer)
	s.Empty(resp.Players["p2"].Answer)
}

func (s *ServerTestSuite) TestHistory() {
	s.mockService.EXPECT().GetHistory(gomock.Any(), &game.GetHistoryInput{GameCode: s.testCode}).
		Return(&game.GetHistoryOutput{Rounds: []*models.RoundRecord{
			{GameCode: s.testCode, Round: 1, Prompt: "apple"},
		}}, nil)

	rec := s.do(http.MethodGet, "/history?game_code=ABC234", "")

	var resp api.HistoryResponse
	s.decode(rec, &resp)
	s.Require().Len(resp.Rounds, 1)
	s.Equal("apple", resp.Rounds[0].Prompt)
}

func (s *ServerTestSuite) TestQR() {
	s.mockService.EXPECT().GetState(gomock.Any(), &game.GetStateInput{GameCode: s.testCode}).
		Return(&game.GetStateOutput{Session: models.NewSession(s.testCode, time.Now())}, nil)

	rec := s.do(http.MethodGet, "/qr?game_code=ABC234", "")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("image/png", rec.Header().Get("Content-Type"))
	s.True(bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
}

func (s *ServerTestSuite) TestQRUnknownGame() {
	s.mockService.EXPECT().GetState(gomock.Any(), gomock.Any()).Return(nil, game.ErrGameNotFound)

	rec := s.do(http.MethodGet, "/qr?game_code=NOPE22", "")

	var resp api.Failure
	s.decode(rec, &resp)
	s.Equal(api.KindNotFound, resp.Kind)
}

func (s *ServerTestSuite) TestJoinURL() {
	req := httptest.NewRequest(http.MethodGet, "/qr", nil)
	s.Equal("https://mindmeld.example/?game_code=ABC234", s.server.joinURL(req, "ABC234"))

	s.server.config.PublicURL = ""
	req.Host = "party.local:8080"
	req.Header.Set("X-Forwarded-Proto", "https")
	s.Equal("https://party.local:8080/?game_code=ABC234", s.server.joinURL(req, "ABC234"))
}

func (s *ServerTestSuite) TestHealthzAndVersion() {
	rec := s.do(http.MethodGet, "/healthz", "")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("Ok\n", rec.Body.String())

	rec = s.do(http.MethodGet, "/version", "")
	var resp api.VersionResponse
	s.decode(rec, &resp)
	s.Equal("1.2.3", resp.Version)
}

func (s *ServerTestSuite) TestCORSPreflight() {
	req := httptest.NewRequest(http.MethodOptions, "/join", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()

	s.server.Handler().ServeHTTP(rec, req)

	s.Equal("*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func (s *ServerTestSuite) TestUnknownRoute() {
	rec := s.do(http.MethodGet, "/nope", "")
	s.Equal(http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/join", "")
	s.Equal(http.StatusMethodNotAllowed, rec.Code)
}

func (s *ServerTestSuite) TestRunStopsOnCancel() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.server.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		s.NoError(err)
	case <-time.After(5 * time.Second):
		s.Fail("server did not stop")
	}
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "AB12CD", normalizeCode("  AB12CD "))
	assert.Equal(t, "ab12cd", normalizeCode("ab12cd"))
	assert.Equal(t, "", normalizeCode("  "))
}
