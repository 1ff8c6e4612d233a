package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"reup-todo-backend/internal/tasks"
)

// Dialect captures what differs between the SQL engines we support.
type Dialect struct {
	Name       string
	DriverName string
	CreateDDL  string
	Numbered   bool // $1, $2 ... instead of ?
}

var (
	Postgres = Dialect{
		Name:       "postgres",
		DriverName: "postgres",
		Numbered:   true,
		CreateDDL: `CREATE TABLE IF NOT EXISTS tasks (
    id TEXT PRIMARY KEY,
    seq BIGSERIAL,
    title TEXT NOT NULL,
    done BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL
)`,
	}

	MySQL = Dialect{
		Name:       "mysql",
		DriverName: "mysql",
		CreateDDL: `CREATE TABLE IF NOT EXISTS tasks (
    id CHAR(36) PRIMARY KEY,
    seq BIGINT NOT NULL AUTO_INCREMENT UNIQUE,
    title TEXT NOT NULL,
    done BOOLEAN NOT NULL DEFAULT FALSE,
    created_at DATETIME(3) NOT NULL
)`,
	}
)

// Rebind rewrites ? placeholders for dialects that number them.
func (d Dialect) Rebind(query string) string {
	if !d.Numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// DSN converts a URI-style connection string into what the driver expects.
// MySQL accepts both the driver form mysql://u:p@tcp(host:3306)/db and the
// URL form mysql://u:p@host:3306/db.
func (d Dialect) DSN(connString string) (string, error) {
	if d.DriverName != "mysql" {
		return connString, nil
	}

	rest := strings.TrimPrefix(connString, "mysql://")
	var (
		cfg *mysql.Config
		err error
	)
	if strings.Contains(rest, "(") {
		cfg, err = mysql.ParseDSN(rest)
	} else {
		cfg, err = mysqlConfigFromURL(connString)
	}
	if err != nil {
		return "", err
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}

func mysqlConfigFromURL(connString string) (*mysql.Config, error) {
	u, err := url.Parse(connString)
	if err != nil {
		return nil, err
	}
	if u.Host == "" {
		return nil, fmt.Errorf("mysql: missing host in %q", u.Redacted())
	}

	// ParseDSN handles the query parameters the same way as the driver form.
	dsn := "/" + strings.TrimPrefix(u.Path, "/")
	if u.RawQuery != "" {
		dsn += "?" + u.RawQuery
	}
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, err
	}

	cfg.Net = "tcp"
	cfg.Addr = u.Host
	if u.Port() == "" {
		cfg.Addr = net.JoinHostPort(u.Hostname(), "3306")
	}
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}
	return cfg, nil
}

type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

func OpenSQL(ctx context.Context, d Dialect, connString string) (*SQLStore, error) {
	dsn, err := d.DSN(connString)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(d.DriverName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLStore{db: db, dialect: d}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, s.dialect.CreateDDL)
	return err
}

func (s *SQLStore) List(ctx context.Context) ([]tasks.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, done, created_at
		FROM tasks
		ORDER BY created_at DESC, seq DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []tasks.Task{}
	for rows.Next() {
		var t tasks.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Done, &t.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (s *SQLStore) Insert(ctx context.Context, t tasks.Task) (tasks.Task, error) {
	t.ID = uuid.NewString()
	_, err := s.db.ExecContext(ctx, s.dialect.Rebind(`
		INSERT INTO tasks (id, title, done, created_at)
		VALUES (?, ?, ?, ?)`),
		t.ID, t.Title, t.Done, t.CreatedAt,
	)
	if err != nil {
		return tasks.Task{}, err
	}
	return t, nil
}

func (s *SQLStore) FindByID(ctx context.Context, id string) (tasks.Task, error) {
	var t tasks.Task
	err := s.db.QueryRowContext(ctx, s.dialect.Rebind(`
		SELECT id, title, done, created_at
		FROM tasks
		WHERE id = ?`), id,
	).Scan(&t.ID, &t.Title, &t.Done, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return tasks.Task{}, tasks.ErrNotFound
	}
	if err != nil {
		return tasks.Task{}, err
	}
	return t, nil
}

// SetDone updates then re-reads the row; MySQL reports zero affected rows
// when the value is unchanged, so RowsAffected cannot signal a miss here.
func (s *SQLStore) SetDone(ctx context.Context, id string, done bool) (tasks.Task, error) {
	_, err := s.db.ExecContext(ctx, s.dialect.Rebind(`
		UPDATE tasks SET done = ? WHERE id = ?`), done, id)
	if err != nil {
		return tasks.Task{}, err
	}
	return s.FindByID(ctx, id)
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.dialect.Rebind(`
		DELETE FROM tasks WHERE id = ?`), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return tasks.ErrNotFound
	}
	return nil
}

func (s *SQLStore) Close(ctx context.Context) error { return s.db.Close() }
