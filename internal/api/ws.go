package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/aezell/chex/internal/model"
	"github.com/aezell/chex/internal/tui"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024 * 64,
	WriteBufferSize: 1024 * 64,
	CheckOrigin: func(r *http.Request) bool {
		return true // local tool; any origin may connect
	},
}

// WebSocket message types from client. Navigation messages use the
// tui.Action names: next, prev, expand, collapse, quit.
const (
	wsMsgLoad = "load"
)

// WebSocket message types to client.
const (
	wsMsgState = "state"
	wsMsgError = "error"
)

// wsMessage is the envelope for WebSocket messages in both directions.
type wsMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// wsStateResponse is sent after every load and every action.
type wsStateResponse struct {
	Session  string `json:"session"`
	Total    int    `json:"total"`
	Counts   string `json:"counts"`
	Focus    *int   `json:"focus"`
	Expanded []int  `json:"expanded"`
	Frame    string `json:"frame"`
}

// viewSession is one client's list and its focus and expansion.
type viewSession struct {
	id      string
	records *model.Collection
	state   tui.ViewState
	loaded  bool
}

func newViewSession() *viewSession {
	return &viewSession{id: uuid.NewString()}
}

func (vs *viewSession) load(c *model.Collection) {
	vs.records = c
	vs.state = tui.NewViewState(c.Len())
	vs.loaded = true
}

func (vs *viewSession) snapshot(styles tui.Styles) wsStateResponse {
	resp := wsStateResponse{
		Session:  vs.id,
		Total:    vs.records.Len(),
		Counts:   vs.records.Counts().String(),
		Expanded: vs.state.ExpandedIndices(),
		Frame:    tui.Render(vs.records, &vs.state, styles),
	}
	if idx, ok := vs.state.Focused(); ok {
		resp.Focus = &idx
	}
	return resp
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	session := newViewSession()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("websocket read: %v", err)
			}
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			sendWSError(conn, "invalid message format")
			continue
		}

		if msg.Type == wsMsgLoad {
			s.handleWSLoad(conn, session, msg.Data)
			continue
		}

		action := tui.ParseAction(msg.Type)
		if action == tui.ActionNone {
			sendWSError(conn, "unknown message type: "+msg.Type)
			continue
		}
		if !session.loaded {
			sendWSError(conn, "no output loaded")
			continue
		}
		if session.state.Apply(action) {
			closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "quit")
			if err := conn.WriteMessage(websocket.CloseMessage, closeMsg); err != nil {
				log.Printf("ws close: %v", err)
			}
			return
		}
		sendWSMessage(conn, wsMsgState, session.snapshot(s.styles))
	}
}

func (s *Server) handleWSLoad(conn *websocket.Conn, session *viewSession, data json.RawMessage) {
	var req outputRequest
	if err := json.Unmarshal(data, &req); err != nil {
		sendWSError(conn, "invalid load data")
		return
	}

	coll, err := req.collect()
	if err != nil {
		sendWSError(conn, "parsing output: "+err.Error())
		return
	}

	session.load(coll)
	sendWSMessage(conn, wsMsgState, session.snapshot(s.styles))
}

func sendWSMessage(conn *websocket.Conn, msgType string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		log.Printf("ws marshal: %v", err)
		return
	}
	msg := wsMessage{Type: msgType, Data: raw}
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("ws write: %v", err)
	}
}

func sendWSError(conn *websocket.Conn, errMsg string) {
	sendWSMessage(conn, wsMsgError, map[string]string{"message": errMsg})
}
