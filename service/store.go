package service

import (
	"context"

	"talktoyou/backend/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

//go:generate mockgen -source=store.go -destination=mock_store_test.go -package=service

// UserStore 是業務層需要的使用者資料存取介面，由 database.UserStore 實作
type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// RoomStore 是聊天室資料存取介面，由 database.RoomStore 實作。
// 兩個計數器操作是條件式更新：條件不成立時回傳 false 而不是錯誤
type RoomStore interface {
	Insert(ctx context.Context, room *models.ChatRoom) (primitive.ObjectID, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindActiveByID(ctx context.Context, id primitive.ObjectID) (*models.ChatRoom, error)
	ListActive(ctx context.Context) ([]models.ChatRoom, error)
	IncrementMemberCount(ctx context.Context, id primitive.ObjectID) (bool, error)
	DecrementMemberCount(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// MemberStore 是參與紀錄的資料存取介面，由 database.MemberStore 實作。
// Insert 撞到唯一索引時回傳 (false, nil)
type MemberStore interface {
	Insert(ctx context.Context, member *models.RoomMember) (bool, error)
	Delete(ctx context.Context, userID, roomID primitive.ObjectID) (bool, error)
	Exists(ctx context.Context, userID, roomID primitive.ObjectID) (bool, error)
}

// MessageStore 是訊息的資料存取介面，由 database.MessageStore 實作
type MessageStore interface {
	Insert(ctx context.Context, message *models.Message) (primitive.ObjectID, error)
	FindRecentByRoom(ctx context.Context, roomID primitive.ObjectID, limit int64) ([]models.Message, error)
}
