// Command createsuperuser creates a staff account. Staff is the only role
// allowed to list every user, and it cannot be granted through the API.
//
// Usage:
//
//	SHELF_SUPERUSER_PASSWORD=... createsuperuser -email admin@example.com
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/phrazzld/shelf-api/internal/config"
	"github.com/phrazzld/shelf-api/internal/platform/logger"
	"github.com/phrazzld/shelf-api/internal/platform/postgres"
	"github.com/phrazzld/shelf-api/internal/redact"
	"github.com/phrazzld/shelf-api/internal/service/auth"
)

// PasswordEnv is read when -password is not given, keeping the secret out of
// shell history.
const PasswordEnv = "SHELF_SUPERUSER_PASSWORD"

type options struct {
	email     string
	password  string
	firstName string
	lastName  string
}

func parseOptions(args []string, getenv func(string) string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("createsuperuser", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.email, "email", "", "email address of the staff account (required)")
	fs.StringVar(&opts.password, "password", "", "password; defaults to $"+PasswordEnv)
	fs.StringVar(&opts.firstName, "first-name", "", "optional first name")
	fs.StringVar(&opts.lastName, "last-name", "", "optional last name")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	opts.email = strings.TrimSpace(opts.email)
	if opts.email == "" {
		return options{}, errors.New("-email is required")
	}
	if opts.password == "" {
		opts.password = getenv(PasswordEnv)
	}
	if opts.password == "" {
		return options{}, fmt.Errorf("a password is required: pass -password or set %s", PasswordEnv)
	}
	return opts, nil
}

func main() {
	opts, err := parseOptions(os.Args[1:], os.Getenv)
	if err != nil {
		log.Fatalf("createsuperuser: %v", err)
	}
	if err := run(context.Background(), opts); err != nil {
		log.Fatalf("createsuperuser: %v", err)
	}
}

func run(ctx context.Context, opts options) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return err
	}

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database: %s", redact.Error(err))
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	svc, err := auth.NewService(
		postgres.NewPostgresUserStore(db, l),
		postgres.NewPostgresTokenStore(db, l),
		auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		cfg.Auth.TokenBytes,
		l,
	)
	if err != nil {
		return err
	}

	user, err := svc.Register(ctx, auth.RegisterInput{
		Email:     opts.email,
		Password:  opts.password,
		FirstName: opts.firstName,
		LastName:  opts.lastName,
		Staff:     true,
	})
	if err != nil {
		return fmt.Errorf("failed to create staff user: %w", err)
	}

	fmt.Printf("Created staff user %s (%s)\n", user.Email, user.ID)
	return nil
}
