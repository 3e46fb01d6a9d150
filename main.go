package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"talktoyou/backend/auth"
	"talktoyou/backend/config"
	"talktoyou/backend/database"
	"talktoyou/backend/handlers"
	"talktoyou/backend/middleware"
	"talktoyou/backend/service"
	"talktoyou/backend/websocket"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors" // 引入 CORS 庫
)

func main() {
	cfg := config.LoadConfig()

	database.ConnectMongoDB(cfg.MongoDBURI, cfg.DBName)
	defer database.DisconnectMongoDB()
	db := database.Database()

	// Redis 只負責 token 撤銷名單；它掛掉時查詢 fail-open，服務照常運作
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	blacklist := auth.NewBlacklist(redisClient)

	tokens := auth.NewTokenService(cfg.JWTSecret, time.Duration(cfg.JWTExpirationHours)*time.Hour, blacklist)

	// 資料存取層
	userStore := database.NewUserStore(db)
	roomStore := database.NewRoomStore(db)
	memberStore := database.NewMemberStore(db)
	messageStore := database.NewMessageStore(db)

	// 業務層
	roomService := service.NewRoomService(roomStore, memberStore, userStore)
	messageService := service.NewMessageService(messageStore, roomStore, memberStore, userStore)

	// WebSocket 轉發
	hub := websocket.NewHub()
	go hub.Run()
	relay := websocket.NewRelay(hub, roomService, messageService, userStore)
	wsHandler := websocket.NewHandler(hub, relay, tokens)

	authHandler := handlers.NewAuthHandler(userStore, tokens, blacklist)
	oauthHandler := handlers.NewOAuthHandler(cfg, userStore, tokens)
	roomHandler := handlers.NewRoomHandler(roomService)
	messageHandler := handlers.NewMessageHandler(messageService)

	router := mux.NewRouter()

	// 健康檢查路由
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "Backend is running!")
	}).Methods("GET")

	// 認證路由 (不需要 token)
	router.HandleFunc("/api/auth/signup", authHandler.SignUp).Methods("POST")
	router.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	router.HandleFunc("/api/auth/google/login", oauthHandler.Login).Methods("GET")
	router.HandleFunc("/api/auth/google/callback", oauthHandler.Callback).Methods("GET")

	// 需要 token 的路由
	authed := router.PathPrefix("/api").Subrouter()
	authed.Use(middleware.JWTMiddleware(tokens))
	authed.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST")
	authed.HandleFunc("/auth/validate", authHandler.Validate).Methods("GET")
	authed.HandleFunc("/rooms", roomHandler.Create).Methods("POST")
	authed.HandleFunc("/rooms", roomHandler.List).Methods("GET")
	authed.HandleFunc("/rooms/{roomId}/join", roomHandler.Join).Methods("POST")
	authed.HandleFunc("/rooms/{roomId}/leave", roomHandler.Leave).Methods("DELETE")
	authed.HandleFunc("/messages/{roomId}", messageHandler.Send).Methods("POST")
	authed.HandleFunc("/messages/{roomId}", messageHandler.History).Methods("GET")

	// WebSocket 路由 (token 在升級時驗證)
	router.HandleFunc("/ws", wsHandler.HandleConnections)

	// 設置 CORS 中介軟體
	// 實際生產環境中，AllowedOrigins 應限制為你的前端網域
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	handler := c.Handler(router)

	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		IdleTimeout:  120 * time.Second,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", serverAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			// 如果錯誤不是因為主動關閉伺服器，就記錄錯誤並結束程式
			log.Fatalf("Could not listen on %s: %v", serverAddr, err)
		}
	}()

	// 當按下 Ctrl+C，程式會收到 SIGINT
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Printf("Received signal %s, shutting down server...", sig)

	// 最多等 30 秒關閉，避免資料損壞、請求中斷
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	log.Println("Server exited gracefully.")
}
