package websocket

import (
	"log"

	"talktoyou/backend/models"
)

// Hub 維護所有活躍的 WebSocket 客戶端，並處理訊息的廣播。
// 每個聊天室是一個邏輯頻道：該聊天室的所有訂閱者都會收到每一筆事件
type Hub struct {
	clients       map[*Client]bool
	clientsByRoom map[string]map[*Client]bool // 按聊天室 ID 索引的客戶端
	broadcast     chan models.ChatMessage
	register      chan *Client
	unregister    chan *Client
}

// NewHub 創建並返回一個新的 Hub 實例
func NewHub() *Hub {
	return &Hub{
		broadcast:     make(chan models.ChatMessage, 256),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		clients:       make(map[*Client]bool),
		clientsByRoom: make(map[string]map[*Client]bool),
	}
}

// Broadcast 將事件送往聊天室的所有訂閱者
func (h *Hub) Broadcast(message models.ChatMessage) {
	h.broadcast <- message
}

// Run 啟動 Hub 的運行迴圈
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			if _, ok := h.clientsByRoom[client.RoomID]; !ok {
				h.clientsByRoom[client.RoomID] = make(map[*Client]bool)
			}
			h.clientsByRoom[client.RoomID][client] = true
			log.Printf("Client %s registered to room %s. Total clients in room: %d", client.UserID, client.RoomID, len(h.clientsByRoom[client.RoomID]))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				if _, ok := h.clientsByRoom[client.RoomID]; ok {
					delete(h.clientsByRoom[client.RoomID], client)
					if len(h.clientsByRoom[client.RoomID]) == 0 {
						delete(h.clientsByRoom, client.RoomID) // 如果房間沒有客戶端了，就刪除房間
					}
				}
				close(client.send)
				log.Printf("Client %s unregistered from room %s. Total clients in room: %d", client.UserID, client.RoomID, len(h.clientsByRoom[client.RoomID]))
			}
		case message := <-h.broadcast:
			// 廣播訊息到特定聊天室；每個訂閱者各自送達，
			// 慢的或已斷線的訂閱者不會擋到其他人
			if clientsInRoom, ok := h.clientsByRoom[message.RoomID]; ok {
				for client := range clientsInRoom {
					select {
					case client.send <- message:
					default:
						close(client.send)
						delete(clientsInRoom, client)
						if len(clientsInRoom) == 0 {
							delete(h.clientsByRoom, message.RoomID)
						}
						delete(h.clients, client) // 從總客戶端列表中移除
						log.Printf("Client channel is full, unregistered client %s from room %s", client.UserID, client.RoomID)
					}
				}
			} else {
				log.Printf("Room %s has no subscribers for broadcast.", message.RoomID)
			}
		}
	}
}
