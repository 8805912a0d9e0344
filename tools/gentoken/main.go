// Command gentoken mints a development bearer token for the task API.
//
// In production, tokens come from the external identity provider; this tool
// exists so the API can be exercised locally with curl without standing up
// that provider. The secret must match the server's JWT_SECRET_KEY.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/example/todo-api-demo/modules/auth"
	"github.com/google/uuid"
)

func main() {
	userID := flag.String("user", "", "user id to embed as the subject claim (default: a fresh UUID)")
	secret := flag.String("secret", "", "signing secret (default: JWT_SECRET_KEY env var)")
	ttl := flag.Duration("ttl", 7*24*time.Hour, "token lifetime")
	flag.Parse()

	config := auth.DefaultJWTConfig()
	config.TokenDuration = *ttl

	switch {
	case *secret != "":
		config.SecretKey = *secret
	case os.Getenv("JWT_SECRET_KEY") != "":
		config.SecretKey = os.Getenv("JWT_SECRET_KEY")
	}

	subject := *userID
	if subject == "" {
		subject = uuid.New().String()
	}

	token, err := auth.NewJWTManager(config).GenerateToken(subject)
	if err != nil {
		log.Fatalf("Failed to generate token: %v", err)
	}

	fmt.Printf("User ID: %s\n", subject)
	fmt.Printf("Token:   %s\n", token)
	fmt.Println()
	fmt.Println("Example:")
	fmt.Printf("  curl -H 'Authorization: Bearer %s' http://localhost:8000/api/tasks\n", token)
}
