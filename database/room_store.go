package database

import (
	"context"
	"time"

	"talktoyou/backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RoomStore 負責 chat_rooms 集合的資料存取
// current_room_member 只能透過下面兩個條件式更新變動
type RoomStore struct {
	coll *mongo.Collection
}

func NewRoomStore(db *mongo.Database) *RoomStore {
	return &RoomStore{coll: db.Collection("chat_rooms")}
}

// Insert 新增聊天室，回傳資料庫產生的 ID
func (s *RoomStore) Insert(ctx context.Context, room *models.ChatRoom) (primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := s.coll.InsertOne(ctx, room)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

// Delete 硬刪除聊天室，只在建立流程補償回滾時使用
func (s *RoomStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// FindActiveByID 依 ID 查詢未刪除的聊天室，找不到時回傳 (nil, nil)
func (s *RoomStore) FindActiveByID(ctx context.Context, id primitive.ObjectID) (*models.ChatRoom, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"_id": id, "deleted_at": bson.M{"$exists": false}}
	var room models.ChatRoom
	err := s.coll.FindOne(ctx, filter).Decode(&room)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// ListActive 列出所有未刪除的聊天室，依建立時間由新到舊排序
func (s *RoomStore) ListActive(ctx context.Context) ([]models.ChatRoom, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"deleted_at": bson.M{"$exists": false}}
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := s.coll.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rooms []models.ChatRoom
	if err = cursor.All(ctx, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// IncrementMemberCount 在人數未滿時將 current_room_member 加一
// 條件不成立 (已滿或聊天室不存在) 時回傳 false，呼叫端據此回滾
func (s *RoomStore) IncrementMemberCount(ctx context.Context, id primitive.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"_id":        id,
		"deleted_at": bson.M{"$exists": false},
		"$expr":      bson.M{"$lt": bson.A{"$current_room_member", "$max_room_member"}},
	}
	result, err := s.coll.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"current_room_member": 1}})
	if err != nil {
		return false, err
	}
	return result.ModifiedCount == 1, nil
}

// DecrementMemberCount 在人數大於零時將 current_room_member 減一
// 計數器飽和於 0，並發退出也不會變成負數
func (s *RoomStore) DecrementMemberCount(ctx context.Context, id primitive.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"_id": id, "current_room_member": bson.M{"$gt": 0}}
	result, err := s.coll.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"current_room_member": -1}})
	if err != nil {
		return false, err
	}
	return result.ModifiedCount == 1, nil
}
