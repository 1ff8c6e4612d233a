package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"reup-todo-backend/internal/tasks"
)

var ErrUnsupportedScheme = errors.New("unsupported connection string scheme")

// Open picks a backend from the scheme of connString, connects and
// verifies the connection before returning.
func Open(ctx context.Context, connString string) (tasks.Repository, error) {
	scheme, _, ok := strings.Cut(connString, "://")
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, redact(connString))
	}

	switch strings.ToLower(scheme) {
	case "mongodb", "mongodb+srv":
		s, err := OpenMongo(ctx, connString)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "postgres", "postgresql":
		s, err := OpenSQL(ctx, Postgres, connString)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "mysql":
		s, err := OpenSQL(ctx, MySQL, connString)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)
	}
}

// Backend names the storage engine behind connString, for logging.
func Backend(connString string) string {
	scheme, _, _ := strings.Cut(connString, "://")
	switch strings.ToLower(scheme) {
	case "mongodb", "mongodb+srv":
		return "MongoDB"
	case "postgres", "postgresql":
		return "PostgreSQL"
	case "mysql":
		return "MySQL"
	case "memory":
		return "memory"
	}
	return "unknown"
}

// redact keeps credentials out of error messages.
func redact(s string) string {
	if at := strings.LastIndex(s, "@"); at >= 0 {
		return "***" + s[at:]
	}
	return s
}
