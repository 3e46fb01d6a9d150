package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"talktoyou/backend/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const historyLimit = 50

// MessageService 處理訊息的持久化與歷史查詢，
// 每個操作都以參與紀錄是否存在作為授權依據
type MessageService struct {
	messages MessageStore
	rooms    RoomStore
	members  MemberStore
	users    UserStore
}

func NewMessageService(messages MessageStore, rooms RoomStore, members MemberStore, users UserStore) *MessageService {
	return &MessageService{messages: messages, rooms: rooms, members: members, users: users}
}

// SaveChat 持久化一則聊天訊息。
// 聊天室必須存在且未刪除、發送者必須是成員、內容去除空白後不能為空
func (s *MessageService) SaveChat(ctx context.Context, roomID, userID primitive.ObjectID, content string) (*models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	room, err := s.rooms.FindActiveByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}

	isMember, err := s.members.Exists(ctx, userID, roomID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrNotMember
	}

	message := &models.Message{
		UserID:    userID,
		RoomID:    roomID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	messageID, err := s.messages.Insert(ctx, message)
	if err != nil {
		return nil, err
	}
	message.ID = messageID
	return message, nil
}

// RecentHistory 回傳聊天室最近 50 條訊息，由舊到新排序。
// 只有成員能讀取
func (s *MessageService) RecentHistory(ctx context.Context, roomID, userID primitive.ObjectID) ([]models.MessageResponse, error) {
	room, err := s.rooms.FindActiveByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}

	isMember, err := s.members.Exists(ctx, userID, roomID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrNotMember
	}

	// Store 回傳由新到舊的最近 50 條，這裡翻回正序
	messages, err := s.messages.FindRecentByRoom(ctx, roomID, historyLimit)
	if err != nil {
		return nil, err
	}
	sort.Slice(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})

	responses := make([]models.MessageResponse, 0, len(messages))
	for i := range messages {
		userName := "Unknown"
		if author, err := s.users.FindByID(ctx, messages[i].UserID); err == nil && author != nil {
			userName = author.UserName
		}
		responses = append(responses, models.MessageResponse{
			MessageID: messages[i].ID.Hex(),
			RoomID:    messages[i].RoomID.Hex(),
			UserID:    messages[i].UserID.Hex(),
			UserName:  userName,
			Content:   messages[i].Content,
			CreatedAt: messages[i].CreatedAt,
		})
	}
	return responses, nil
}
