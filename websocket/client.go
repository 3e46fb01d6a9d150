package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"talktoyou/backend/auth"
	"talktoyou/backend/models"

	"github.com/gorilla/websocket"
)

const (
	// 將訊息寫入到遠端對等點的最長時間
	writeWait = 10 * time.Second

	// 允許從遠端對等點讀取下一個 pong 訊息的最長時間
	pongWait = 60 * time.Second

	// 發送 ping 訊息給遠端對等點的週期
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// upgrader 用於將 HTTP 連線升級為 WebSocket 連線
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// 設定 true:允許所有來源的連線
		return true
	},
}

// sessionState 是型別化的連線範圍狀態，取代任意 key/value 的 session bag。
// JOIN 事件記下 (userID, roomID)，斷線處理時讀出來合成退場事件
type sessionState struct {
	userID string
	roomID string
}

// Client 代表一個 WebSocket 客戶端。
// 身分 (UserID, UserName) 來自連線時驗證過的 token，不信任客戶端自報
type Client struct {
	hub      *Hub
	relay    *Relay
	conn     *websocket.Conn
	send     chan models.ChatMessage // 用於發送訊息的緩衝通道
	UserID   string
	UserName string
	RoomID   string // 客戶端訂閱的聊天室 ID

	session *sessionState // JOIN 記錄的連線範圍狀態，沒 JOIN 過就是 nil
}

// readPump 讀取用戶傳來的事件，交給 Relay 處理
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.relay.HandleDisconnect(context.Background(), c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, p, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Println("Client disconnected gracefully.")
			} else {
				log.Printf("Error reading message: %v", err)
			}
			break
		}

		var msg models.ChatMessage
		if err := json.Unmarshal(p, &msg); err != nil {
			log.Printf("Error unmarshalling message: %v", err)
			continue
		}

		// 填充連線綁定的身分與聊天室，覆蓋客戶端自報的欄位
		msg.UserID = c.UserID
		msg.UserName = c.UserName
		msg.RoomID = c.RoomID

		// 單一事件處理失敗只影響這一筆，不中斷讀取迴圈
		c.relay.HandleEvent(context.Background(), c, msg)
	}
}

// writePump 接收 Hub 廣播來的事件，送給前端
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// 如果這個 channel 被關閉了（ok == false），就送出 CloseMessage
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			jsonMessage, err := json.Marshal(message)
			if err != nil {
				log.Printf("Error marshalling message: %v", err)
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, jsonMessage); err != nil {
				log.Printf("Error writing message: %v", err)
				return
			}

		// 定時 ping 以保持連線活躍並檢測客戶端是否仍在線
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Handler 處理 WebSocket 連線請求，連線必須帶著可用的 token
type Handler struct {
	hub    *Hub
	relay  *Relay
	tokens *auth.TokenService
}

func NewHandler(hub *Hub, relay *Relay, tokens *auth.TokenService) *Handler {
	return &Handler{hub: hub, relay: relay, tokens: tokens}
}

// HandleConnections 驗證 token 後將 HTTP 連線升級為 WebSocket
func (h *Handler) HandleConnections(w http.ResponseWriter, r *http.Request) {
	tokenString := r.URL.Query().Get("token")
	roomID := r.URL.Query().Get("roomId")
	if tokenString == "" || roomID == "" {
		http.Error(w, "Token and room ID are required for WebSocket connection", http.StatusBadRequest)
		return
	}

	if !h.tokens.IsUsable(r.Context(), tokenString) {
		http.Error(w, "Invalid or revoked token", http.StatusUnauthorized)
		return
	}
	claims, err := h.tokens.Verify(tokenString)
	if err != nil {
		http.Error(w, "Invalid or revoked token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade to WebSocket: %v", err)
		return
	}

	client := &Client{
		hub:      h.hub,
		relay:    h.relay,
		conn:     conn,
		send:     make(chan models.ChatMessage, 256),
		UserID:   claims.Subject,
		UserName: claims.UserName,
		RoomID:   roomID,
	}
	client.hub.register <- client

	go client.writePump()
	client.readPump() // readPump 會在連線關閉時自動取消註冊
}
