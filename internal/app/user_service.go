package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/greet-service/internal/database"
)

const strangerGreeting = "Hello, unknown stranger!"

type App struct {
	Users   database.UserStore
	Logger  *slog.Logger
	Version string
}

func (a *App) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.Default()
	}
	return a.Logger
}

// Greeting greets the stored user, or a stranger when nothing is stored
// or the store cannot be read.
func (a *App) Greeting(ctx context.Context) string {
	u, err := a.Users.GetUser(ctx)
	if err != nil {
		a.logger().Error("Error getting user", slog.Any("error", err))
		return strangerGreeting
	}
	if u == nil {
		return strangerGreeting
	}
	return fmt.Sprintf("Hello, %s!", u.Name())
}

// Remember stores u and returns the confirmation message.
func (a *App) Remember(ctx context.Context, u database.User) (string, error) {
	if err := a.Users.StoreUser(ctx, u); err != nil {
		return "", fmt.Errorf("store user: %w", err)
	}
	a.logger().Info("Stored user data", slog.String("name", u.Name()))
	return fmt.Sprintf("I'll try to remember your name, %s!", u.Name()), nil
}
