package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neuroassess/internal/service"
)

func newWSServer(t *testing.T) (*httptest.Server, *Hub, *service.AuthService) {
	t.Helper()
	hub := NewHub(nil)
	auth := service.NewAuthService("ws-secret", time.Hour)
	h := NewHandler(hub, auth, nil)

	r := mux.NewRouter()
	r.HandleFunc("/ws/{id}", h.SessionWS)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, hub, auth
}

func wsURL(srv *httptest.Server, sessionID, token string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/" + sessionID + "?token=" + token
}

func TestSessionWSDeliversBroadcasts(t *testing.T) {
	srv, hub, auth := newWSServer(t)
	token, err := auth.IssueParticipantToken("s1")
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "s1", token), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Subscribers("s1") == 1 }, time.Second, 10*time.Millisecond)

	hub.BroadcastToSession("other", "question_changed", map[string]int{"questionIndex": 9})
	hub.BroadcastToSession("s1", "question_changed", map[string]int{"questionIndex": 2})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, MsgQuestionChanged, msg.Type)
	assert.JSONEq(t, `{"questionIndex":2}`, string(msg.Payload))
}

func TestDisconnectSessionClosesSubscribers(t *testing.T) {
	srv, hub, auth := newWSServer(t)
	token, err := auth.IssueParticipantToken("s2")
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "s2", token), nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.Subscribers("s2") == 1 }, time.Second, 10*time.Millisecond)

	hub.DisconnectSession("s2")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, MsgSessionClosed, msg.Type)
	assert.JSONEq(t, `{"sessionId":"s2"}`, string(msg.Payload))

	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
	assert.Eventually(t, func() bool { return hub.Subscribers("s2") == 0 }, time.Second, 10*time.Millisecond)
}

func TestSessionWSRejectsBadTokens(t *testing.T) {
	srv, _, auth := newWSServer(t)
	token, err := auth.IssueParticipantToken("s3")
	require.NoError(t, err)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "s3", ""), nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(wsURL(srv, "someone-else", token), nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
