// internal/httpserver/feed.go
//
// Websocket feed of game snapshots.
// A single hub goroutine owns the subscriber table and does every write, so
// a connection never sees concurrent writers. Handlers talk to it through
// the register/unregister/broadcast channels.
//
// Notes:
//   - A new subscriber first receives the snapshot taken by the hub when it
//     registers, then one message per applied action. An update published
//     while the connection was being upgraded is therefore never missed.
//   - Subscribers only read to notice the peer closing; inbound messages are
//     discarded.
//   - A failed write drops the subscriber.

package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/chon/internal/game"
)

const writeWait = 10 * time.Second

type subscription struct {
	gameID string
	conn   *websocket.Conn
	game   *game.Game // snapshotted on registration
}

type message struct {
	gameID string
	data   []byte
}

// Feed fans game snapshots out to websocket subscribers.
type Feed struct {
	upgrader   websocket.Upgrader
	subs       map[string]map[*websocket.Conn]bool
	register   chan subscription
	unregister chan *websocket.Conn
	broadcast  chan message
	done       chan struct{}
	closeOnce  sync.Once
	wg         sync.WaitGroup
}

// NewFeed starts the hub goroutine.
func NewFeed() *Feed {
	f := &Feed{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origin == getEnv("CLIENT_ORIGIN", "http://localhost:5173")
			},
		},
		subs:       make(map[string]map[*websocket.Conn]bool),
		register:   make(chan subscription),
		unregister: make(chan *websocket.Conn),
		broadcast:  make(chan message, 256),
		done:       make(chan struct{}),
	}
	f.wg.Add(1)
	go f.run()
	return f
}

// Publish queues snap for every subscriber of gameID. It never blocks the
// caller: when the queue is full the update is dropped and logged.
func (f *Feed) Publish(gameID string, snap game.Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		log.Error().Err(err).Str("gameId", gameID).Msg("encode snapshot")
		return
	}
	select {
	case f.broadcast <- message{gameID: gameID, data: data}:
	case <-f.done:
	default:
		log.Warn().Str("gameId", gameID).Msg("feed queue full, update dropped")
	}
}

// Close disconnects every subscriber and stops the hub.
func (f *Feed) Close() error {
	f.closeOnce.Do(func() { close(f.done) })
	f.wg.Wait()
	return nil
}

func (f *Feed) run() {
	defer f.wg.Done()
	for {
		select {
		case <-f.done:
			for _, conns := range f.subs {
				for conn := range conns {
					conn.Close()
				}
			}
			f.subs = nil
			return

		case sub := <-f.register:
			conns := f.subs[sub.gameID]
			if conns == nil {
				conns = make(map[*websocket.Conn]bool)
				f.subs[sub.gameID] = conns
			}
			conns[sub.conn] = true
			first, err := json.Marshal(sub.game.Snapshot())
			if err != nil {
				log.Error().Err(err).Str("gameId", sub.gameID).Msg("encode snapshot")
				f.drop(sub.conn)
				continue
			}
			if !f.write(sub.conn, first) {
				f.drop(sub.conn)
			}

		case conn := <-f.unregister:
			f.drop(conn)

		case msg := <-f.broadcast:
			for conn := range f.subs[msg.gameID] {
				if !f.write(conn, msg.data) {
					f.drop(conn)
				}
			}
		}
	}
}

func (f *Feed) write(conn *websocket.Conn, data []byte) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data) == nil
}

// drop removes conn wherever it is subscribed and closes it.
func (f *Feed) drop(conn *websocket.Conn) {
	for id, conns := range f.subs {
		if conns[conn] {
			delete(conns, conn)
			conn.Close()
			if len(conns) == 0 {
				delete(f.subs, id)
			}
		}
	}
}

// handleGameFeed upgrades GET /game/{id}/ws and subscribes the connection.
func (s *Server) handleGameFeed(w http.ResponseWriter, r *http.Request) {
	g, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	conn, err := s.feed.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already answered the client.
		log.Warn().Err(err).Str("gameId", g.ID).Msg("websocket upgrade")
		return
	}

	select {
	case s.feed.register <- subscription{gameID: g.ID, conn: conn, game: g}:
	case <-s.feed.done:
		conn.Close()
		return
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	select {
	case s.feed.unregister <- conn:
	case <-s.feed.done:
	}
}
