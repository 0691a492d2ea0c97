package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/nakedmcse/blackjack-go/internal/comm"
)

// writeWait bounds each broadcast write so a stalled subscriber cannot
// hold up the game request that triggered the event.
const writeWait = 2 * time.Second

// Feed pushes resolved-game events to websocket subscribers. It is one
// of the notifiers wired into GameService.
type Feed struct {
	upgrader websocket.Upgrader
	connMap  sync.Map // socketId -> *websocket.Conn
	writeMu  sync.Mutex
}

func NewFeed() *Feed {
	return &Feed{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Subscribe upgrades the request and registers the client for events.
func (f *Feed) Subscribe(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("Failed to upgrade to WebSocket: %v", err)
		return
	}

	socketId := uuid.New().String()
	f.connMap.Store(socketId, conn)
	log.Infof("New feed connection established: %s", socketId)

	go f.drain(conn, socketId)
}

// GameResolved broadcasts the event to every subscriber, dropping
// connections that fail to take the write.
func (f *Feed) GameResolved(event comm.GameEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Errorf("Failed to marshal game event: %v", err)
		return
	}

	f.writeMu.Lock()
	defer f.writeMu.Unlock()

	f.connMap.Range(func(key, value interface{}) bool {
		conn := value.(*websocket.Conn)
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Infof("Dropping feed connection %s: %v", key, err)
			conn.Close()
			f.connMap.Delete(key)
		}
		return true
	})
}

// drain reads until the peer goes away so closes are noticed promptly.
func (f *Feed) drain(conn *websocket.Conn, socketId string) {
	defer func() {
		log.Infof("Closing feed connection: %s", socketId)
		conn.Close()
		f.connMap.Delete(socketId)
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Errorf("Feed connection %s unexpected close: %v", socketId, err)
			}
			return
		}
	}
}
