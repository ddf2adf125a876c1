package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	_ "github.com/lib/pq"
)

// Store handles audit message persistence to database
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Message represents an audit message for database persistence
type Message struct {
	Facility  int            `json:"facility"`
	Severity  int            `json:"severity"`
	Timestamp time.Time      `json:"timestamp"`
	Hostname  string         `json:"hostname"`
	Appname   string         `json:"appname"`
	Procid    string         `json:"procid"`
	Msgid     string         `json:"msgid"`
	Sdata     map[string]any `json:"sdata"`
	Message   string         `json:"message"`
}

// NewStore creates a new audit store from KENNEL_AUDIT_DATABASE_URL.
// Returns nil if the variable is not set (audit DB disabled).
func NewStore() (*Store, error) {
	dbURL := os.Getenv("KENNEL_AUDIT_DATABASE_URL")
	if dbURL == "" {
		return nil, nil
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, err
	}

	return NewStoreWithDB(db), nil
}

// NewStoreWithDB creates a store with an existing database connection
// Useful for testing with sqlmock
func NewStoreWithDB(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save persists an audit event to the audit_messages table
func (s *Store) Save(event Event) error {
	if s.db == nil {
		return nil
	}

	hostname, _ := os.Hostname()

	sdataJSON, err := json.Marshal(event.StructuredData())
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO audit_messages (facility, severity, timestamp, hostname, appname, procid, msgid, sdata, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		event.Facility(),
		int(event.Severity()),
		s.now().UTC(),
		hostname,
		AppName,
		os.Getpid(),
		event.MessageID(),
		sdataJSON,
		event.Message(),
	)

	return err
}

// Recent returns up to limit persisted messages, newest first. A non-empty
// msgid restricts the result to that event type.
func (s *Store) Recent(ctx context.Context, msgid string, limit int) ([]Message, error) {
	if s.db == nil {
		return nil, nil
	}

	query := `SELECT facility, severity, timestamp, hostname, appname, procid, msgid, sdata, message
		FROM audit_messages`
	args := []interface{}{}
	if msgid != "" {
		query += ` WHERE msgid = $1`
		args = append(args, msgid)
	}
	query += ` ORDER BY id DESC LIMIT $` + strconv.Itoa(len(args)+1)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var messages []Message
	for rows.Next() {
		var (
			msg      Message
			hostname sql.NullString
			appname  sql.NullString
			procid   sql.NullString
			msgID    sql.NullString
			sdata    []byte
		)
		if err := rows.Scan(&msg.Facility, &msg.Severity, &msg.Timestamp, &hostname, &appname, &procid, &msgID, &sdata, &msg.Message); err != nil {
			return nil, fmt.Errorf("failed to read audit message: %w", err)
		}
		msg.Hostname = hostname.String
		msg.Appname = appname.String
		msg.Procid = procid.String
		msg.Msgid = msgID.String
		if len(sdata) > 0 {
			if err := json.Unmarshal(sdata, &msg.Sdata); err != nil {
				return nil, fmt.Errorf("failed to decode audit sdata: %w", err)
			}
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// DB returns the underlying database connection (for testing)
func (s *Store) DB() *sql.DB {
	return s.db
}
