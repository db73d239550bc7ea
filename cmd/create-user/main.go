package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/term"

	"eatrite-api/internal/config"
	"eatrite-api/internal/domain"
	"eatrite-api/internal/repository"
	"eatrite-api/internal/service"
)

// create-user registra un usuario en el backend gestionado sin pasar por HTTP.
func main() {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	cfg.RequireManagedBackend = true

	logger := zap.NewExample()
	defer logger.Sync()

	backend, err := repository.OpenBackend(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("managed backend required: %v", err)
	}
	defer backend.Close()

	email, err := prompt(reader, "Email: ")
	if err != nil {
		log.Fatal(err)
	}
	fullName, err := prompt(reader, "Full name: ")
	if err != nil {
		log.Fatal(err)
	}
	password, err := readPassword("Password: ")
	if err != nil {
		log.Fatal(err)
	}
	confirm, err := readPassword("Repeat password: ")
	if err != nil {
		log.Fatal(err)
	}
	if password != confirm {
		log.Fatal("passwords do not match")
	}

	creds := service.NewCredentialService(logger, backend.Users, nil, cfg.BcryptCost)
	user, err := creds.Register(ctx, service.RegisterInput{
		Email:    email,
		Password: password,
		FullName: fullName,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			log.Fatalf("email %s already registered", email)
		}
		log.Fatalf("register: %v", err)
	}
	fmt.Printf("user %s created (%s)\n", user.Email, user.ID)
}

func prompt(reader *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func readPassword(label string) (string, error) {
	fmt.Print(label)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(b), nil
}
