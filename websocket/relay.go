package websocket

import (
	"context"
	"log"
	"time"

	"talktoyou/backend/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

//go:generate mockgen -source=relay.go -destination=mock_relay_test.go -package=websocket

// MembershipChecker 回答「這個使用者現在是不是聊天室成員」，
// 由 service.RoomService 實作；每筆事件都要重新查
type MembershipChecker interface {
	IsMember(ctx context.Context, userID, roomID primitive.ObjectID) (bool, error)
}

// ChatLog 持久化聊天內容，由 service.MessageService 實作
type ChatLog interface {
	SaveChat(ctx context.Context, roomID, userID primitive.ObjectID, content string) (*models.Message, error)
}

// UserDirectory 查詢使用者目前的顯示名稱，由 database.UserStore 實作
type UserDirectory interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Relay 將 CHAT/JOIN/LEAVE 三種事件轉發給聊天室的訂閱者，
// 並負責 CHAT 內容的持久化與斷線時的合成退場事件。
// 它只讀取參與狀態來授權，不會改動聊天室或參與紀錄
type Relay struct {
	hub     *Hub
	members MembershipChecker
	chats   ChatLog
	users   UserDirectory
}

func NewRelay(hub *Hub, members MembershipChecker, chats ChatLog, users UserDirectory) *Relay {
	return &Relay{hub: hub, members: members, chats: chats, users: users}
}

// HandleEvent 處理一筆進站事件。
// 任何失敗都只丟棄這一筆並記錄，不影響其他連線或廣播迴圈
func (r *Relay) HandleEvent(ctx context.Context, c *Client, msg models.ChatMessage) {
	roomID, err := primitive.ObjectIDFromHex(msg.RoomID)
	if err != nil {
		log.Printf("Dropping event with invalid room ID %q: %v", msg.RoomID, err)
		return
	}
	userID, err := primitive.ObjectIDFromHex(msg.UserID)
	if err != nil {
		log.Printf("Dropping event with invalid user ID %q: %v", msg.UserID, err)
		return
	}

	switch msg.Type {
	case models.ChatMessageTypeChat:
		// 非成員的訊息直接丟棄：不持久化、不廣播，也不回覆任何理由，
		// 避免讓非成員探知聊天室是否存在
		if !r.authorized(ctx, userID, roomID) {
			log.Printf("Dropped CHAT from non-member: userId=%s roomId=%s", msg.UserID, msg.RoomID)
			return
		}
		if _, err := r.chats.SaveChat(ctx, roomID, userID, msg.Content); err != nil {
			log.Printf("Failed to persist chat message in room %s: %v", msg.RoomID, err)
			return
		}
		// 廣播時間戳在持久化之後重新蓋一次，與儲存時間差個幾微秒是正常的
		msg.Timestamp = time.Now()
		r.hub.Broadcast(msg)

	case models.ChatMessageTypeJoin:
		// JOIN 與 CHAT 套用同一套成員檢查；
		// 參與關係必須先透過加入聊天室的流程建立，JOIN 事件本身不會建立它
		if !r.authorized(ctx, userID, roomID) {
			log.Printf("Dropped JOIN from non-member: userId=%s roomId=%s", msg.UserID, msg.RoomID)
			return
		}
		// 記錄連線範圍的身分狀態，活到斷線為止
		c.session = &sessionState{userID: msg.UserID, roomID: msg.RoomID}
		msg.Type = models.ChatMessageTypeJoin
		msg.Timestamp = time.Now()
		r.hub.Broadcast(msg)
		log.Printf("User joined broadcast: roomId=%s user=%s", msg.RoomID, msg.UserName)

	case models.ChatMessageTypeLeave:
		msg.Type = models.ChatMessageTypeLeave
		msg.Timestamp = time.Now()
		r.hub.Broadcast(msg)
		log.Printf("User leave broadcast: roomId=%s user=%s", msg.RoomID, msg.UserName)

	default:
		log.Printf("Dropping event with unknown type %q from user %s", msg.Type, msg.UserID)
	}
}

// HandleDisconnect 在連線終止時合成退場事件。
// 沒有 JOIN 過的連線沒有東西可報告；帳號已不存在時也不發事件
func (r *Relay) HandleDisconnect(ctx context.Context, c *Client) {
	state := c.session
	if state == nil {
		return
	}
	c.session = nil // 每條連線最多合成一次

	userID, err := primitive.ObjectIDFromHex(state.userID)
	if err != nil {
		log.Printf("Invalid user ID in session state: %v", err)
		return
	}

	user, err := r.users.FindByID(ctx, userID)
	if err != nil {
		log.Printf("Failed to look up user %s on disconnect: %v", state.userID, err)
		return
	}
	if user == nil {
		return
	}

	leave := models.ChatMessage{
		Type:      models.ChatMessageTypeLeave,
		RoomID:    state.roomID,
		UserID:    state.userID,
		UserName:  user.UserName,
		Content:   user.UserName + " 已離開聊天室",
		Timestamp: time.Now(),
	}
	r.hub.Broadcast(leave)
	log.Printf("Synthetic leave broadcast for user %s in room %s", user.UserName, state.roomID)
}

// authorized 查詢當下的參與狀態；查詢失敗視同未授權 (fail-closed)
func (r *Relay) authorized(ctx context.Context, userID, roomID primitive.ObjectID) bool {
	isMember, err := r.members.IsMember(ctx, userID, roomID)
	if err != nil {
		log.Printf("Membership check failed for user %s in room %s: %v", userID.Hex(), roomID.Hex(), err)
		return false
	}
	return isMember
}
