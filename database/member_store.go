package database

import (
	"context"
	"time"

	"talktoyou/backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MemberStore 負責 room_members 集合的資料存取
type MemberStore struct {
	coll *mongo.Collection
}

func NewMemberStore(db *mongo.Database) *MemberStore {
	return &MemberStore{coll: db.Collection("room_members")}
}

// Insert 新增參與紀錄。撞到 (user_id, room_id) 唯一索引時回傳 (false, nil)，
// 讓呼叫端把並發的重複加入當作一般的「已參與」處理
func (s *MemberStore) Insert(ctx context.Context, member *models.RoomMember) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := s.coll.InsertOne(ctx, member)
	if mongo.IsDuplicateKeyError(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Delete 刪除參與紀錄，回傳是否真的刪到了東西
func (s *MemberStore) Delete(ctx context.Context, userID, roomID primitive.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := s.coll.DeleteOne(ctx, bson.M{"user_id": userID, "room_id": roomID})
	if err != nil {
		return false, err
	}
	return result.DeletedCount == 1, nil
}

// Exists 確認 (user_id, room_id) 的參與紀錄是否存在
func (s *MemberStore) Exists(ctx context.Context, userID, roomID primitive.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := s.coll.CountDocuments(ctx, bson.M{"user_id": userID, "room_id": roomID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
