package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatRoom 代表一個聊天室的元資料
type ChatRoom struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RoomName          string             `bson:"room_name" json:"roomName"`
	MaxRoomMember     int                `bson:"max_room_member" json:"maxRoomMember"`         // 人數上限 (2~100)
	CurrentRoomMember int                `bson:"current_room_member" json:"currentRoomMember"` // 目前人數，只能透過加入/退出操作變動
	CreatorID         primitive.ObjectID `bson:"user_id" json:"creatorId"`                     // 建立者的使用者 ID
	CreatedAt         time.Time          `bson:"created_at" json:"createdAt"`
	DeletedAt         *time.Time         `bson:"deleted_at,omitempty" json:"-"`
}

// IsFull 確認聊天室人數是否已滿
func (r *ChatRoom) IsFull() bool {
	return r.CurrentRoomMember >= r.MaxRoomMember
}

// IsDeleted 確認聊天室是否已被軟刪除
func (r *ChatRoom) IsDeleted() bool {
	return r.DeletedAt != nil
}

// RoomMember 代表使用者與聊天室之間的參與關係
// (user_id, room_id) 有複合唯一索引，每對只會存在一筆
type RoomMember struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID   primitive.ObjectID `bson:"user_id" json:"userId"`
	RoomID   primitive.ObjectID `bson:"room_id" json:"roomId"`
	JoinedAt time.Time          `bson:"joined_at" json:"joinedAt"`
}
