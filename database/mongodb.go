package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var MongoClient *mongo.Client
var dbName string // 儲存資料庫名稱

// ConnectMongoDB 建立並初始化 MongoDB 連線
func ConnectMongoDB(uri, name string) {
	clientOptions := options.Client().ApplyURI(uri)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	// Ping the primary to verify connection
	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}

	log.Println("Connected to MongoDB successfully!")
	MongoClient = client
	dbName = name

	if err := EnsureIndexes(ctx, client.Database(name)); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}
}

// Database 獲取當前應用程式的資料庫
func Database() *mongo.Database {
	if MongoClient == nil {
		log.Fatal("MongoDB client is not initialized. Call ConnectMongoDB first.")
	}
	return MongoClient.Database(dbName)
}

// EnsureIndexes 建立唯一性索引，資料層靠這些索引守住重複帳號與重複參與
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	// 使用者名稱與 Email 的唯一索引。
	// 「只在未刪除帳號間唯一」由業務層的存在性檢查把關，索引擋住並發的重複寫入
	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := db.Collection("users").Indexes().CreateMany(ctx, userIndexes); err != nil {
		return err
	}

	// (user_id, room_id) 複合唯一索引，保證每對只有一筆參與紀錄
	memberIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "room_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := db.Collection("room_members").Indexes().CreateOne(ctx, memberIndex); err != nil {
		return err
	}

	// 訊息依 (room_id, created_at) 查詢歷史紀錄
	messageIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "room_id", Value: 1}, {Key: "created_at", Value: -1}},
	}
	if _, err := db.Collection("messages").Indexes().CreateOne(ctx, messageIndex); err != nil {
		return err
	}

	log.Println("MongoDB indexes ensured.")
	return nil
}

// DisconnectMongoDB 關閉 MongoDB 連線
func DisconnectMongoDB() {
	if MongoClient == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := MongoClient.Disconnect(ctx); err != nil {
		log.Printf("Error disconnecting from MongoDB: %v", err)
	} else {
		log.Println("Disconnected from MongoDB.")
	}
}
