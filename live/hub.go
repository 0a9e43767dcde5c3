package live

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/qrmenu/utils"
)

// Event types
const (
	EventMenuView     = "menu_view"
	EventMenuChanged  = "menu_changed"
	EventTableChanged = "table_changed"
)

const (
	writeWait = 5 * time.Second
	// sendBuffer is how many events a client may lag behind before it is dropped.
	sendBuffer = 16
)

type Message struct {
	Event        string      `json:"event"`
	RestaurantID uint        `json:"restaurant_id"`
	Data         interface{} `json:"data"`
}

// Publisher is what the services need from the hub.
type Publisher interface {
	Publish(restaurantID uint, event string, data interface{})
}

// Hub fans tenant events out to the admin dashboards connected for that restaurant.
// Every client has its own writer goroutine fed by a buffered queue.
type Hub struct {
	clients map[*websocket.Conn]*client
	mutex   sync.Mutex
}

type client struct {
	conn         *websocket.Conn
	restaurantID uint
	send         chan []byte
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*client)}
}

func (h *Hub) Register(conn *websocket.Conn, restaurantID uint) {
	c := &client{conn: conn, restaurantID: restaurantID, send: make(chan []byte, sendBuffer)}

	h.mutex.Lock()
	h.clients[conn] = c
	h.mutex.Unlock()

	go c.writePump()
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if c, ok := h.clients[conn]; ok {
		h.drop(c)
	}
}

// drop must be called with the mutex held.
func (h *Hub) drop(c *client) {
	delete(h.clients, c.conn)
	close(c.send)
	// unblocks a write in progress and the reader loop of the connection
	c.conn.Close()
}

func (h *Hub) ClientCount(restaurantID uint) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	n := 0
	for _, c := range h.clients {
		if c.restaurantID == restaurantID {
			n++
		}
	}
	return n
}

// Publish queues the event for every connection of the restaurant. It never
// waits on a socket: a client whose queue is full is dropped.
func (h *Hub) Publish(restaurantID uint, event string, data interface{}) {
	payload, err := json.Marshal(Message{Event: event, RestaurantID: restaurantID, Data: data})
	if err != nil {
		utils.ErrorLogger.Errorf("Error marshaling %s event: %v", event, err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for _, c := range h.clients {
		if c.restaurantID != restaurantID {
			continue
		}
		select {
		case c.send <- payload:
		default:
			utils.InfoLogger.Debugf("dropping slow live client of restaurant %d", restaurantID)
			h.drop(c)
		}
	}
}

func (c *client) writePump() {
	defer c.conn.Close()
	for payload := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			utils.InfoLogger.Debugf("live write to restaurant %d failed: %v", c.restaurantID, err)
			return
		}
	}
}
