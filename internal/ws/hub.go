// Package ws diffuse les instantanés de classement aux clients websocket.
// Flux en lecture seule : un client s'abonne à un classement et reçoit le
// nouvel état complet après chaque recalcul de rangs.
package ws

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/linoymalakkaran/play-learn-spark-sub006/internal/logger"
	model "github.com/linoymalakkaran/play-learn-spark-sub006/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// le trafic est en lecture seule et sans credentials : toutes origines
	CheckOrigin: func(r *http.Request) bool { return true },
}

type client struct {
	conn          *websocket.Conn
	leaderboardID string
	send          chan []byte
}

func newClient(conn *websocket.Conn, leaderboardID string) *client {
	c := &client{
		conn:          conn,
		leaderboardID: leaderboardID,
		send:          make(chan []byte, 16),
	}
	go c.writePump()
	return c
}

func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// Hub tient les clients abonnés par classement et pousse les instantanés.
// Implémente gamification.Notifier.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]bool
}

// NewHub crée un hub sans client
func NewHub() *Hub {
	return &Hub{clients: make(map[*client]bool)}
}

// Serve upgrade la connexion HTTP et abonne le client à un classement
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, leaderboardID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warning("websocket upgrade failed: %v", err)
		return
	}

	c := newClient(conn, leaderboardID)
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()

	// pompe de lecture : on ignore les messages entrants, la fermeture de la
	// connexion désabonne le client
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.remove(c)
				return
			}
		}
	}()
}

// LeaderboardUpdated pousse l'instantané aux abonnés du classement.
// Un client trop lent perd le message plutôt que de bloquer la diffusion.
func (h *Hub) LeaderboardUpdated(lb *model.Leaderboard) {
	data, err := json.Marshal(lb)
	if err != nil {
		logger.Error("could not encode leaderboard snapshot: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if c.leaderboardID != lb.ID {
			continue
		}
		select {
		case c.send <- data:
		default:
			// client trop lent : on saute cet instantané
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if h.clients[c] {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Close ferme toutes les connexions
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}
