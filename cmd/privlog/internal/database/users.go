package database

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/thalib/privlog/cmd/privlog/internal/credentials"
	"github.com/thalib/privlog/cmd/privlog/internal/ulid"
)

// UsersTable is the name of the user table audited by privlog.
const UsersTable = "users"

// userColumns is the column order used for schema creation, inserts and
// record formatting. Records are emitted in this order so redaction output
// is stable across dialects.
var userColumns = []string{
	"id",
	"name",
	"email",
	"phone",
	"ssn",
	"password",
	"ip",
	"last_login",
	"user_agent",
}

// NewUser holds the caller-supplied attributes for a user row. Password is
// plaintext here and only here: Insert hashes it before anything touches
// the database.
type NewUser struct {
	Name      string
	Email     string
	Phone     string
	SSN       string
	Password  string
	IP        string
	UserAgent string
}

// UserStore reads and writes the users table. Stored passwords are bcrypt
// digests, never plaintext.
type UserStore struct {
	driver Driver
	hasher *credentials.Hasher
}

// NewUserStore creates a UserStore backed by driver. Passwords are hashed
// with hasher before storage.
func NewUserStore(driver Driver, hasher *credentials.Hasher) *UserStore {
	return &UserStore{
		driver: driver,
		hasher: hasher,
	}
}

// bind converts ? placeholders to the dialect's native form.
func (s *UserStore) bind(query string) string {
	if s.driver.Dialect() != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// EnsureSchema creates the users table if it does not exist. Column types
// are portable across the supported dialects.
func (s *UserStore) EnsureSchema(ctx context.Context) error {
	exists, err := s.driver.TableExists(ctx, UsersTable)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	query := `CREATE TABLE users (
		id VARCHAR(26) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		phone VARCHAR(32) NOT NULL,
		ssn VARCHAR(32) NOT NULL,
		password VARCHAR(255) NOT NULL,
		ip VARCHAR(64) NOT NULL,
		last_login VARCHAR(64) NOT NULL,
		user_agent VARCHAR(512) NOT NULL
	)`

	if _, err := s.driver.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	return nil
}

// Insert stores a new user row. The row id is a fresh ULID and the
// password is hashed before it leaves this function; a password change is
// a new digest replacing the old one in a single UPDATE.
func (s *UserStore) Insert(ctx context.Context, u NewUser) (string, error) {
	digest, err := s.hasher.Hash(u.Password)
	if err != nil {
		return "", fmt.Errorf("failed to hash user password: %w", err)
	}

	id := ulid.Generate()
	query := s.bind(`INSERT INTO users (id, name, email, phone, ssn, password, ip, last_login, user_agent)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err = s.driver.Exec(ctx, query,
		id, u.Name, u.Email, u.Phone, u.SSN, digest, u.IP,
		time.Now().UTC().Format(time.RFC3339), u.UserAgent)
	if err != nil {
		return "", fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}

// SetPassword replaces a user's stored digest with a fresh hash of the new
// plaintext. The old digest is overwritten atomically from the caller's
// perspective.
func (s *UserStore) SetPassword(ctx context.Context, id, plaintext string) error {
	digest, err := s.hasher.Hash(plaintext)
	if err != nil {
		return fmt.Errorf("failed to hash user password: %w", err)
	}

	query := s.bind("UPDATE users SET password = ? WHERE id = ?")
	res, err := s.driver.Exec(ctx, query, digest, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("no user with id %s", id)
	}
	return nil
}

// VerifyPassword checks a login attempt against the stored digest. Every
// failure (unknown user, malformed digest, wrong password) reports false.
func (s *UserStore) VerifyPassword(ctx context.Context, id, plaintext string) bool {
	query := s.bind("SELECT password FROM users WHERE id = ?")

	var digest string
	if err := s.driver.QueryRow(ctx, query, id).Scan(&digest); err != nil {
		return false
	}
	return s.hasher.Verify(plaintext, digest)
}

// Count returns the number of user rows.
func (s *UserStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.driver.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// Records returns every user row formatted as a field=value record joined
// by separator, in stable column order: the exact shape the redaction
// formatter consumes. Values are emitted verbatim; masking PII is the
// logging pipeline's job, not the store's.
func (s *UserStore) Records(ctx context.Context, separator string) ([]string, error) {
	query := "SELECT " + strings.Join(userColumns, ", ") + " FROM users ORDER BY id"
	rows, err := s.driver.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var records []string
	values := make([]any, len(userColumns))
	ptrs := make([]any, len(userColumns))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		records = append(records, FormatRecord(userColumns, values, separator))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return records, nil
}

// FormatRecord joins column name/value pairs into a single
// field=value record terminated by separator.
func FormatRecord(columns []string, values []any, separator string) string {
	var b strings.Builder
	for i, col := range columns {
		b.WriteString(col)
		b.WriteByte('=')
		b.WriteString(valueString(values[i]))
		b.WriteString(separator)
	}
	return b.String()
}

// valueString renders a scanned database value as text.
func valueString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(t)
	case string:
		return t
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// SeedUsers inserts sample rows when the table is empty, so a fresh
// database has something to audit. Existing data is never touched.
func (s *UserStore) SeedUsers(ctx context.Context) (int, error) {
	count, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	samples := []NewUser{
		{
			Name: "Marlene Wood", Email: "hwestiii@att.net", Phone: "(473) 401-4253",
			SSN: "261-72-6780", Password: "K5?BMNv", IP: "60ed:c396:2ff:244:bbd0:9208:26f2:93ea",
			UserAgent: "Mozilla/5.0 (Windows; U; Windows NT 5.1; en-US; rv:1.8.1.6)",
		},
		{
			Name: "Belen Bailey", Email: "bcevc@yahoo.com", Phone: "(539) 233-4942",
			SSN: "203-38-5395", Password: "^3EZ~TkX", IP: "f724:c5d1:a14d:c4c5:bae2:9457:3769:1969",
			UserAgent: "Mozilla/5.0 (Linux; U; Android 4.1.2; de-de)",
		},
		{
			Name: "Jesse Burke", Email: "jburke@example.com", Phone: "(655) 984-0103",
			SSN: "575-41-5963", Password: "v*Fz4Cn!", IP: "2001:db8::ff00:42:8329",
			UserAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)",
		},
	}

	inserted := 0
	for _, u := range samples {
		if _, err := s.Insert(ctx, u); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}
