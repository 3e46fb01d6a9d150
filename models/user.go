package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User 結構體定義了使用者資料的欄位
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"` // MongoDB 的唯一 ID
	UserName  string             `bson:"user_name" json:"userName"`         // 登入用的使用者名稱，不可重複
	NickName  string             `bson:"nick_name" json:"nickName"`         // 顯示用暱稱
	Email     string             `bson:"email" json:"email"`                // 使用者 Email，不可重複
	Password  string             `bson:"password" json:"-"`                 // 儲存哈希後的密碼，JSON 輸出時忽略
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	DeletedAt *time.Time         `bson:"deleted_at,omitempty" json:"-"` // Soft Delete 時間，nil 代表未刪除
}

// IsDeleted 確認使用者是否已被軟刪除
func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}
