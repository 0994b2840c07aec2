package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	jwtmw "chat_backend/internal/platform/jwt"
)

// tokengen mints a development token for connecting to the gateway without
// the external auth service. Usage:
//
//	go run ./cmd/tokengen -user u1 -mobile 09012345678 -ttl 24h
func main() {
	_ = godotenv.Load()

	userID := flag.String("user", "", "user id claim (required)")
	mobile := flag.String("mobile", "", "mobile number claim (optional)")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if *userID == "" {
		flag.Usage()
		os.Exit(2)
	}

	secret := os.Getenv(jwtmw.EnvKeyJWTSecret)
	if secret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	gen := jwtmw.NewGenerator(secret, *ttl)
	token, err := gen.GenerateToken(*userID, *mobile)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(token)
}
