package service

import (
	"context"
	"log"
	"sync"
	"time"

	"talktoyou/backend/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoomService 是聊天室參與關係的狀態機：
// 每個 (使用者, 聊天室) 只有「非成員」與「成員」兩種狀態，
// 人數計數器只能在這裡的加入/退出操作中變動
type RoomService struct {
	rooms   RoomStore
	members MemberStore
	users   UserStore

	// 同一個聊天室的加入/退出在行程內序列化，
	// 避免計數器的 read-modify-write 交錯；條件式更新是最後防線
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewRoomService(rooms RoomStore, members MemberStore, users UserStore) *RoomService {
	return &RoomService{
		rooms:   rooms,
		members: members,
		users:   users,
		locks:   make(map[string]*sync.Mutex),
	}
}

// roomLock 取得指定聊天室的互斥鎖，第一次使用時建立
func (s *RoomService) roomLock(roomID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[roomID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[roomID] = lock
	}
	return lock
}

// Create 建立聊天室，建立者自動成為第一位成員 (人數從 1 開始)。
// 參與紀錄寫入失敗時回滾聊天室，避免出現沒有擁有者的房間
func (s *RoomService) Create(ctx context.Context, roomName string, maxRoomMember int, creatorID primitive.ObjectID) (*models.RoomResponse, error) {
	if roomName == "" || maxRoomMember < 2 || maxRoomMember > 100 {
		return nil, ErrInvalidRoom
	}

	creator, err := s.users.FindByID(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	if creator == nil {
		return nil, ErrUserNotFound
	}

	room := &models.ChatRoom{
		RoomName:          roomName,
		MaxRoomMember:     maxRoomMember,
		CurrentRoomMember: 1, // 建立者自動參與
		CreatorID:         creatorID,
		CreatedAt:         time.Now(),
	}

	roomID, err := s.rooms.Insert(ctx, room)
	if err != nil {
		return nil, err
	}
	room.ID = roomID

	member := &models.RoomMember{
		UserID:   creatorID,
		RoomID:   roomID,
		JoinedAt: time.Now(),
	}
	inserted, err := s.members.Insert(ctx, member)
	if err != nil || !inserted {
		// 補償回滾：參與紀錄沒寫成就把聊天室收回去
		if delErr := s.rooms.Delete(ctx, roomID); delErr != nil {
			log.Printf("Failed to roll back room %s after member insert failure: %v", roomID.Hex(), delErr)
		}
		if err != nil {
			return nil, err
		}
		return nil, ErrAlreadyMember
	}

	log.Printf("Chat room created: %s by %s", room.RoomName, creator.UserName)
	return s.toRoomResponse(room, creator), nil
}

// Join 將使用者加入聊天室。
// 失敗情況：聊天室不存在或已刪除、已是成員、人數已滿。
// 成功時參與紀錄與計數器在同一個臨界區內完成，
// 計數器更新輸掉競爭時刪回參與紀錄，不留下半套狀態
func (s *RoomService) Join(ctx context.Context, roomID, userID primitive.ObjectID) (*models.RoomResponse, error) {
	lock := s.roomLock(roomID.Hex())
	lock.Lock()
	defer lock.Unlock()

	room, err := s.rooms.FindActiveByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	exists, err := s.members.Exists(ctx, userID, roomID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyMember
	}

	if room.IsFull() {
		return nil, ErrRoomFull
	}

	member := &models.RoomMember{
		UserID:   userID,
		RoomID:   roomID,
		JoinedAt: time.Now(),
	}
	inserted, err := s.members.Insert(ctx, member)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, ErrAlreadyMember
	}

	bumped, err := s.rooms.IncrementMemberCount(ctx, roomID)
	if err != nil || !bumped {
		// 計數器沒動就把剛寫入的參與紀錄刪掉
		if _, delErr := s.members.Delete(ctx, userID, roomID); delErr != nil {
			log.Printf("Failed to roll back membership for user %s in room %s: %v", userID.Hex(), roomID.Hex(), delErr)
		}
		if err != nil {
			return nil, err
		}
		return nil, ErrRoomFull
	}
	room.CurrentRoomMember++

	creator, err := s.users.FindByID(ctx, room.CreatorID)
	if err != nil {
		log.Printf("Failed to load creator of room %s: %v", roomID.Hex(), err)
	}
	log.Printf("User %s joined room %s", user.UserName, room.RoomName)
	return s.toRoomResponse(room, creator), nil
}

// Leave 將使用者移出聊天室。
// 沒有參與紀錄時回傳 ErrNotMember；計數器飽和遞減，永遠不會變負
func (s *RoomService) Leave(ctx context.Context, roomID, userID primitive.ObjectID) error {
	lock := s.roomLock(roomID.Hex())
	lock.Lock()
	defer lock.Unlock()

	room, err := s.rooms.FindActiveByID(ctx, roomID)
	if err != nil {
		return err
	}
	if room == nil {
		return ErrRoomNotFound
	}

	deleted, err := s.members.Delete(ctx, userID, roomID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotMember
	}

	if _, err := s.rooms.DecrementMemberCount(ctx, roomID); err != nil {
		// 計數器沒動就把剛刪掉的參與紀錄補回去，不留下半套狀態
		member := &models.RoomMember{UserID: userID, RoomID: roomID, JoinedAt: time.Now()}
		if _, insErr := s.members.Insert(ctx, member); insErr != nil {
			log.Printf("Failed to roll back membership delete for user %s in room %s: %v", userID.Hex(), roomID.Hex(), insErr)
		}
		return err
	}

	log.Printf("User %s left room %s", userID.Hex(), room.RoomName)
	return nil
}

// IsMember 是授權每個轉發動作的查詢，必須每次重新查，不能由客戶端快取
func (s *RoomService) IsMember(ctx context.Context, userID, roomID primitive.ObjectID) (bool, error) {
	return s.members.Exists(ctx, userID, roomID)
}

// List 列出所有未刪除的聊天室
func (s *RoomService) List(ctx context.Context) ([]models.RoomResponse, error) {
	rooms, err := s.rooms.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]models.RoomResponse, 0, len(rooms))
	for i := range rooms {
		creator, err := s.users.FindByID(ctx, rooms[i].CreatorID)
		if err != nil {
			log.Printf("Failed to load creator of room %s: %v", rooms[i].ID.Hex(), err)
		}
		responses = append(responses, *s.toRoomResponse(&rooms[i], creator))
	}
	return responses, nil
}

// toRoomResponse 將聊天室轉成對外的查詢結果
func (s *RoomService) toRoomResponse(room *models.ChatRoom, creator *models.User) *models.RoomResponse {
	creatorName := "Unknown"
	if creator != nil {
		creatorName = creator.UserName
	}
	return &models.RoomResponse{
		RoomID:            room.ID.Hex(),
		RoomName:          room.RoomName,
		MaxRoomMember:     room.MaxRoomMember,
		CurrentRoomMember: room.CurrentRoomMember,
		CreatorID:         room.CreatorID.Hex(),
		CreatorName:       creatorName,
		CreatedAt:         room.CreatedAt,
		IsFull:            room.IsFull(),
	}
}
