package client_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/mindmeld/internal/client"
	"github.com/KirkDiggler/mindmeld/internal/common/clock"
	"github.com/KirkDiggler/mindmeld/internal/common/code"
	"github.com/KirkDiggler/mindmeld/internal/common/uuid"
	"github.com/KirkDiggler/mindmeld/internal/handlers/web"
	"github.com/KirkDiggler/mindmeld/internal/repositories/rounds"
	"github.com/KirkDiggler/mindmeld/internal/repositories/session"
	"github.com/KirkDiggler/mindmeld/internal/scoring"
	"github.com/KirkDiggler/mindmeld/internal/services/game"
	"github.com/KirkDiggler/mindmeld/internal/words"
)

type player struct {
	sc         client.SessionContext
	renderer   *recordingRenderer
	sync       *client.Synchronizer
	dispatcher *client.Dispatcher
}

func newPlayer(t *testing.T, transport client.Transport) *player {
	renderer := newRecordingRenderer()
	synchronizer, err := client.NewSynchronizer(&client.SynchronizerConfig{
		Transport: transport,
		Renderer:  renderer,
	})
	require.NoError(t, err)

	dispatcher, err := client.NewDispatcher(&client.DispatcherConfig{
		Transport: transport,
		Poller:    synchronizer,
		Renderer:  renderer,
	})
	require.NoError(t, err)

	return &player{renderer: renderer, sync: synchronizer, dispatcher: dispatcher}
}

// TestTwoPlayerGame plays a full single-round game through the HTTP server
func TestTwoPlayerGame(t *testing.T) {
	picker, err := words.New(&words.Config{Words: []string{"apple", "banana"}, Seed: 7})
	require.NoError(t, err)

	svc, err := game.New(&game.Config{
		SessionRepo:   session.NewMemory(),
		RoundRepo:     rounds.NewMemory(),
		Picker:        picker,
		Terminator:    scoring.RoundLimit{Rounds: 1},
		Clock:         clock.New(),
		IDGenerator:   uuid.New(),
		CodeGenerator: code.New(),
	})
	require.NoError(t, err)

	server, err := web.New(&web.Config{GameService: svc})
	require.NoError(t, err)

	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	transport, err := client.NewHTTP(&client.HTTPConfig{BaseURL: ts.URL, Timeout: 2 * time.Second})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	alice := newPlayer(t, transport)
	bob := newPlayer(t, transport)

	alice.sc, err = alice.dispatcher.Create(ctx, "Alice")
	require.NoError(t, err)
	bob.sc, err = bob.dispatcher.Join(ctx, "Bob", alice.sc.GameCode)
	require.NoError(t, err)

	lobby, ok := bob.sync.Current().(client.AwaitingReady)
	require.True(t, ok)
	assert.Len(t, lobby.Rows, 2)

	require.NoError(t, alice.dispatcher.Ready(ctx, alice.sc))
	require.NoError(t, bob.dispatcher.Ready(ctx, bob.sc))

	prompt, ok := bob.sync.Current().(client.AwaitingAnswer)
	require.True(t, ok)
	assert.NotEmpty(t, prompt.Prompt)

	require.NoError(t, alice.dispatcher.Submit(ctx, alice.sc, "Fruit"))
	submitted, ok := alice.sync.Current().(client.Submitted)
	require.True(t, ok)
	assert.Equal(t, "fruit", submitted.Answer)
	assert.Equal(t, []string{"Bob"}, submitted.Waiting)

	// a stage-skipping action is rejected by the server and alerted
	err = bob.dispatcher.Next(ctx, bob.sc)
	assert.Equal(t, client.KindInvalidPhase, client.KindOf(err))

	require.NoError(t, bob.dispatcher.Submit(ctx, bob.sc, "fruit"))
	board, ok := bob.sync.Current().(client.Scoring)
	require.True(t, ok)
	for _, row := range board.Rows {
		assert.Equal(t, 3, row.Score)
		assert.Equal(t, "fruit", row.Answer)
	}

	require.NoError(t, alice.dispatcher.Next(ctx, alice.sc))
	require.NoError(t, bob.dispatcher.Next(ctx, bob.sc))

	final, ok := bob.sync.Current().(client.Finished)
	require.True(t, ok)
	assert.Equal(t, alice.sc.PlayerID, final.WinnerID)
	assert.Equal(t, "Alice", final.WinnerName)

	// the polling loop stops on its own once the game is over
	require.NoError(t, alice.sync.Run(ctx, alice.sc))

	_, err = bob.dispatcher.Join(ctx, "Carol", "NOPE22")
	assert.Equal(t, client.KindNotFound, client.KindOf(err))

	// codes are case-sensitive
	if lower := strings.ToLower(alice.sc.GameCode); lower != alice.sc.GameCode {
		_, err = bob.dispatcher.Join(ctx, "Carol", lower)
		assert.Equal(t, client.KindNotFound, client.KindOf(err))
	}
}
