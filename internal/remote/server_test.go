package remote

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"honnef.co/go/curve"

	"curvedit/internal/store"
)

func dial(t *testing.T, ts *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readCurve(t *testing.T, conn *websocket.Conn) curveMsg {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg curveMsg
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestCurveSnapshotAndBroadcast(t *testing.T) {
	st := store.New(nil)
	s := New("", st)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn := dial(t, ts, "/ws/curve")
	msg := readCurve(t, conn)
	require.Len(t, msg.Segments, 1)
	assert.Equal(t, point{0, 0}, msg.Segments[0].Start)
	assert.Equal(t, point{1, 1}, msg.Segments[0].End)
	assert.Equal(t, 1, s.Clients())

	st.Write([]store.Segment{
		{Start: curve.Pt(0, 0), Control: curve.Pt(0.25, 0.25), End: curve.Pt(0.5, 0.5)},
		{Start: curve.Pt(0.5, 0.5), Control: curve.Pt(0.75, 0.5), End: curve.Pt(1, 0.5)},
	})
	s.Broadcast()

	msg = readCurve(t, conn)
	require.Len(t, msg.Segments, 2)
	assert.Equal(t, point{1, 0.5}, msg.Segments[1].End)
}

func TestBroadcastKeepsNewestForSlowClients(t *testing.T) {
	st := store.New(nil)
	s := New("", st)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn := dial(t, ts, "/ws/curve")
	require.Eventually(t, func() bool { return s.Clients() == 1 }, time.Second, 10*time.Millisecond)

	st.Write([]store.Segment{
		{Start: curve.Pt(0, 0), Control: curve.Pt(0.25, 0.25), End: curve.Pt(0.5, 0.5)},
		{Start: curve.Pt(0.5, 0.5), Control: curve.Pt(0.75, 0.5), End: curve.Pt(1, 0.5)},
	})
	start := time.Now()
	for range 500 {
		s.Broadcast()
	}
	assert.Less(t, time.Since(start), writeWait)

	var msg curveMsg
	for range 3 {
		msg = readCurve(t, conn)
		if len(msg.Segments) == 2 {
			break
		}
	}
	assert.Len(t, msg.Segments, 2)
}

func TestClosedClientIsDropped(t *testing.T) {
	s := New("", store.New(nil))
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn := dial(t, ts, "/ws/curve")
	readCurve(t, conn)
	require.Equal(t, 1, s.Clients())

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return s.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
	s.Broadcast()
}

func TestEvalSetsInput(t *testing.T) {
	st := store.New(nil)
	ts := httptest.NewServer(New("", st).Handler())
	defer ts.Close()

	conn := dial(t, ts, "/ws/eval")
	tests := []struct {
		req  string
		want EvalResponse
	}{
		{`{"x": 0.5}`, EvalResponse{X: 0.5, Y: 0.5}},
		{`{"x": 3}`, EvalResponse{X: 1, Y: 1}},
		{`{"x": -1}`, EvalResponse{X: 0, Y: 0}},
	}
	for _, tt := range tests {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(tt.req)))
		var got EvalResponse
		require.NoError(t, conn.ReadJSON(&got))
		assert.Equal(t, tt.want.X, got.X, tt.req)
		assert.InDelta(t, tt.want.Y, got.Y, 1e-9, tt.req)
		assert.Empty(t, got.Error)
		assert.Equal(t, tt.want.X, st.Input())
	}

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	var got EvalResponse
	require.NoError(t, conn.ReadJSON(&got))
	assert.NotEmpty(t, got.Error)
}

func TestHealth(t *testing.T) {
	s := New("", store.New(nil))
	rec := httptest.NewRecorder()
	s.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1.0, body["connectors"])
	assert.Equal(t, 0.0, body["clients"])
}
