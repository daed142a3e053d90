package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/paircall/paircall/internal/signal"
)

type wireMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn, want string) wireMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg wireMessage
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, want, msg.Event)
	return msg
}

func writeEvent(t *testing.T, conn *websocket.Conn, event string, data any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(map[string]any{"event": event, "data": data}))
}

func TestPlainWebsocketLifecycle(t *testing.T) {
	core := signal.NewCore(zap.NewNop().Sugar(),
		signal.WithGracePeriod(50*time.Millisecond),
		signal.WithClientURL("http://localhost:3000"),
	)
	go core.Run()
	defer core.Stop()

	srv := httptest.NewServer(Handler(core, zap.NewNop().Sugar()))
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	alice := dial(t, wsURL)
	me := readEvent(t, alice, "me")
	var aliceID string
	require.NoError(t, json.Unmarshal(me.Data, &aliceID))
	assert.NotEmpty(t, aliceID)

	writeEvent(t, alice, "createRoom", map[string]string{"name": "Alice"})
	created := readEvent(t, alice, "roomCreated")

	var createdPayload struct {
		RoomCode string `json:"roomCode"`
		ShareURL string `json:"shareUrl"`
	}
	require.NoError(t, json.Unmarshal(created.Data, &createdPayload))
	assert.Len(t, createdPayload.RoomCode, 6)
	assert.Contains(t, createdPayload.ShareURL, "?room="+createdPayload.RoomCode)

	bob := dial(t, wsURL)
	readEvent(t, bob, "me")
	writeEvent(t, bob, "joinRoom", map[string]string{
		"roomCode": strings.ToLower(createdPayload.RoomCode),
		"name":     "Bob",
	})
	joined := readEvent(t, bob, "roomJoined")

	var joinedPayload struct {
		OtherUser string `json:"otherUser"`
		CreatedBy string `json:"createdBy"`
	}
	require.NoError(t, json.Unmarshal(joined.Data, &joinedPayload))
	assert.Equal(t, aliceID, joinedPayload.OtherUser)
	assert.Equal(t, "Alice", joinedPayload.CreatedBy)

	readEvent(t, alice, "userJoined")

	// Dropping Alice notifies Bob, then the grace timer expires the room.
	require.NoError(t, alice.Close())
	readEvent(t, bob, "userLeft")
	readEvent(t, bob, "roomExpired")

	require.Eventually(t, func() bool {
		return len(core.Snapshot().Rooms) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestPlainWebsocketSignalRelay(t *testing.T) {
	core := signal.NewCore(zap.NewNop().Sugar())
	go core.Run()
	defer core.Stop()

	srv := httptest.NewServer(Handler(core, zap.NewNop().Sugar()))
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	alice := dial(t, wsURL)
	me := readEvent(t, alice, "me")
	var aliceID string
	require.NoError(t, json.Unmarshal(me.Data, &aliceID))

	bob := dial(t, wsURL)
	meB := readEvent(t, bob, "me")
	var bobID string
	require.NoError(t, json.Unmarshal(meB.Data, &bobID))

	blob := map[string]any{"type": "offer", "sdp": "v=0"}
	writeEvent(t, alice, "signal", map[string]any{"signal": blob, "to": bobID})

	fwd := readEvent(t, bob, "signal")
	var fwdPayload struct {
		Signal json.RawMessage `json:"signal"`
		From   string          `json:"from"`
	}
	require.NoError(t, json.Unmarshal(fwd.Data, &fwdPayload))
	assert.Equal(t, aliceID, fwdPayload.From)
	assert.JSONEq(t, `{"type":"offer","sdp":"v=0"}`, string(fwdPayload.Signal))
}
