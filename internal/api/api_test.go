package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/mindmeld/internal/models"
)

func testSession(phase models.Phase) *models.Session {
	s := models.NewSession("ABC234", time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC))
	s.Phase = phase
	s.Round = 1
	s.CurrentWord = "apple"
	s.LastWord = "pear"
	s.Players["p1"] = &models.Player{ID: "p1", Name: "Alice", Seat: 0, Score: 3, Answer: "apple"}
	s.Players["p2"] = &models.Player{ID: "p2", Name: "Bob", Seat: 1}
	return s
}

func TestNewStateResponsePlaying(t *testing.T) {
	resp := NewStateResponse(testSession(models.PhasePlaying))

	assert.Equal(t, "playing", resp.State)
	assert.Equal(t, "apple", resp.CurrentWord)
	assert.Empty(t, resp.LastWord)
	assert.Equal(t, "apple", resp.Players["p1"].Answer)
	assert.Empty(t, resp.Players["p2"].Answer)
	assert.Empty(t, resp.Winner)
}

func TestNewStateResponseFinished(t *testing.T) {
	s := testSession(models.PhaseFinished)
	s.WinnerID = "p1"

	resp := NewStateResponse(s)
	assert.Equal(t, "finished", resp.State)
	assert.Empty(t, resp.CurrentWord)
	assert.Equal(t, "pear", resp.LastWord)
	assert.Equal(t, "p1", resp.Winner)
	assert.Equal(t, "Alice", resp.WinnerName)
}

func TestStateResponseWireFormat(t *testing.T) {
	resp := NewStateResponse(testSession(models.PhaseLobby))

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "lobby", raw["state"])
	assert.NotContains(t, raw, "current_word")
	assert.NotContains(t, raw, "winner")
	assert.NotContains(t, raw, "error")

	players := raw["players"].(map[string]any)
	bob := players["p2"].(map[string]any)
	assert.Equal(t, "Bob", bob["name"])
	assert.NotContains(t, bob, "answer")
}

func TestFailureWireFormat(t *testing.T) {
	data, err := json.Marshal(&JoinResponse{Failure: Failure{Error: "game not found", Kind: KindNotFound}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"game not found","kind":"not_found"}`, string(data))

	var resp JoinResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	assert.True(t, resp.Failed())
}

func TestNewHistoryResponse(t *testing.T) {
	resp := NewHistoryResponse("ABC234", []*models.RoundRecord{
		{GameCode: "ABC234", Round: 1, Prompt: "apple", Answers: map[string]string{"p1": "red"}, Points: map[string]int{"p1": 0}},
	})

	require.Len(t, resp.Rounds, 1)
	assert.Equal(t, "apple", resp.Rounds[0].Prompt)

	empty := NewHistoryResponse("ABC234", nil)
	assert.NotNil(t, empty.Rounds)
}
