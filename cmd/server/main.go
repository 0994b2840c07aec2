package main

import (
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"chat_backend/internal/app/di"
	"chat_backend/internal/app/router"
	chathandler "chat_backend/internal/feature/chat/transport/handler"
	chatusecase "chat_backend/internal/feature/chat/usecase"
	"chat_backend/internal/feature/chat/ws"
	usersadapters "chat_backend/internal/feature/users/adapters"
	userhandler "chat_backend/internal/feature/users/transport/handler"
	usersusecase "chat_backend/internal/feature/users/usecase"
	platformdb "chat_backend/internal/platform/db"
	jwtmw "chat_backend/internal/platform/jwt"
	platformredis "chat_backend/internal/platform/redis"
)

// defaultSendsPerMinute bounds how many send_message frames one connection
// may issue per minute.
const defaultSendsPerMinute = 60

func main() {
	// ローカル開発用の .env（存在しなければ無視）
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// db
	db := platformdb.OpenDB()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := platformredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Repository
	userRepo := usersadapters.NewUserPostgres(db)
	messageRepo := di.NewMessageRepository(rdb, db)

	// Usecase
	userUC := usersusecase.NewUserUsecase(userRepo)
	registry := ws.NewRegistry(logger)
	chatUC := chatusecase.NewChatUsecase(messageRepo, userUC, registry, 5*time.Second)

	// JWT_SECRETチェック（開発中の注意喚起）
	secret := os.Getenv(jwtmw.EnvKeyJWTSecret)
	if secret == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}
	verifier := jwtmw.NewVerifier(secret)

	// Handler
	gateway := ws.NewGateway(logger, verifier, userUC, chatUC, registry, defaultSendsPerMinute)
	profileH := userhandler.NewProfileHandler(userUC)
	historyH := chathandler.NewHistoryHandler(chatUC)

	// ルータ生成
	router := router.NewRouter(verifier, gateway, profileH, historyH)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := router.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
