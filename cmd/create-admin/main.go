package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"dgstudios-backend/internal/apperrors"
	"dgstudios-backend/internal/auth"
	"dgstudios-backend/internal/config"
	"dgstudios-backend/internal/database"
	"dgstudios-backend/internal/logger"
	"dgstudios-backend/internal/models"

	"go.uber.org/zap"
	"golang.org/x/term"
)

func main() {
	fmt.Println("Creating Admin User")
	fmt.Println("===================")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}
	log := logger.Must(cfg.Development)
	defer log.Sync()

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required; the in-memory store does not outlive this command")
	}

	ctx := context.Background()
	db, err := database.Connect(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	reader := bufio.NewReader(os.Stdin)
	username := prompt(reader, "Enter admin username: ")
	email := prompt(reader, "Enter admin email: ")

	password := readPassword("Enter admin password: ")
	if len(password) < 6 {
		log.Fatal("password must be at least 6 characters long")
	}
	if password != readPassword("Confirm admin password: ") {
		log.Fatal("passwords do not match")
	}

	svc := auth.NewService(database.NewPostgresStore(db), cfg.JWTSecret, cfg.JWTTTL, log)
	admin, err := svc.Register(ctx, models.RegisterRequest{Username: username, Email: email, Password: password})
	if errors.Is(err, apperrors.ErrDuplicate) {
		fmt.Printf("An admin with username %s or email %s already exists.\n", username, email)
		os.Exit(1)
	}
	if err != nil {
		log.Fatal("failed to create admin", zap.Error(err))
	}

	fmt.Printf("Successfully created admin: %s <%s>\n", admin.Username, admin.Email)
	fmt.Printf("Admin ID: %s\n", admin.ID)
	fmt.Printf("Created at: %s\n", admin.CreatedAt.Format("2006-01-02 15:04:05"))
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	value, err := reader.ReadString('\n')
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to read input:", err)
		os.Exit(1)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		fmt.Fprintln(os.Stderr, "value cannot be empty")
		os.Exit(1)
	}
	return value
}

func readPassword(label string) string {
	fmt.Print(label)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to read password:", err)
		os.Exit(1)
	}
	return string(password)
}
