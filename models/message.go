package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message 代表一個持久化的聊天訊息
type Message struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    primitive.ObjectID `bson:"user_id" json:"userId"` // 發送者的使用者 ID
	RoomID    primitive.ObjectID `bson:"room_id" json:"roomId"` // 聊天室 ID
	Content   string             `bson:"content" json:"content"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

// ChatMessageType 定義即時訊息的類型
type ChatMessageType string

const (
	ChatMessageTypeChat  ChatMessageType = "CHAT"  // 一般聊天訊息
	ChatMessageTypeJoin  ChatMessageType = "JOIN"  // 使用者入場
	ChatMessageTypeLeave ChatMessageType = "LEAVE" // 使用者退場
)

// ChatMessage 代表透過 WebSocket 流動的即時事件
// CHAT 類型會持久化為 Message，JOIN/LEAVE 只做廣播
type ChatMessage struct {
	Type      ChatMessageType `json:"type"`
	RoomID    string          `json:"roomId"`
	UserID    string          `json:"userId"`
	UserName  string          `json:"userName"`
	Content   string          `json:"content"`
	Timestamp time.Time       `json:"timestamp"`
}
