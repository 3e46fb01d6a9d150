package database

import (
	"context"
	"time"

	"talktoyou/backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserStore 負責 users 集合的資料存取，不含任何業務規則
type UserStore struct {
	coll *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{coll: db.Collection("users")}
}

// Insert 新增使用者，回傳資料庫產生的 ID
func (s *UserStore) Insert(ctx context.Context, user *models.User) (primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := s.coll.InsertOne(ctx, user)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

// FindByID 依 ID 查詢未刪除的使用者，找不到時回傳 (nil, nil)
func (s *UserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"_id": id, "deleted_at": bson.M{"$exists": false}}
	var user models.User
	err := s.coll.FindOne(ctx, filter).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail 依 Email 查詢未刪除的使用者，找不到時回傳 (nil, nil)
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"email": email, "deleted_at": bson.M{"$exists": false}}
	var user models.User
	err := s.coll.FindOne(ctx, filter).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByUserName 確認使用者名稱是否已被未刪除的帳號使用
func (s *UserStore) ExistsByUserName(ctx context.Context, userName string) (bool, error) {
	return s.exists(ctx, bson.M{"user_name": userName, "deleted_at": bson.M{"$exists": false}})
}

// ExistsByEmail 確認 Email 是否已被未刪除的帳號使用
func (s *UserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, bson.M{"email": email, "deleted_at": bson.M{"$exists": false}})
}

func (s *UserStore) exists(ctx context.Context, filter bson.M) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := s.coll.CountDocuments(ctx, filter, nil)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
