// Package capture persists decoded packet traffic to a database for
// offline protocol analysis.
package capture

import (
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hosler/pyReborn-sub001/internal/core"
	"github.com/hosler/pyReborn-sub001/internal/packets"
)

// Packet directions as stored in the capture database.
const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

// Record is one captured packet.
type Record struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	SessionID string `gorm:"index"`
	Direction string
	Opcode    uint8
	Name      string
	Size      int
	Payload   []byte
}

// Store is a capture database handle.
type Store struct {
	db *gorm.DB
}

// NewStore opens the capture database for the configured engine and
// migrates the schema.
func NewStore(cfg *core.Config, debug bool) (*Store, error) {
	// By default only log errors but enable full SQL query prints-to-console
	// with debug mode.
	log := logger.Default.LogMode(logger.Error)
	if debug {
		log = logger.Default.LogMode(logger.Info)
	}

	var dialector gorm.Dialector
	switch strings.ToLower(cfg.Capture.Engine) {
	case "", "sqlite":
		filename := cfg.Capture.Filename
		if filename == "" {
			filename = "capture.db"
		}
		dialector = sqlite.Open(cfg.QualifiedPath(filename))
	case "postgres":
		dialector = postgres.Open(cfg.CaptureDatabaseURL())
	default:
		return nil, fmt.Errorf("unsupported capture engine: %s", cfg.Capture.Engine)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: log})
	if err != nil {
		return nil, fmt.Errorf("error connecting to capture database: %w", err)
	}

	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("error migrating capture schema: %w", err)
	}

	return &Store{db: db}, nil
}

// newStoreWithDialector is the test seam for in-memory databases.
func newStoreWithDialector(dialector gorm.Dialector) (*Store, error) {
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Error)})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Record stores one packet. Payload is copied so the caller's buffer can
// be reused.
func (s *Store) Record(sessionID, direction string, opcode uint8, payload []byte) error {
	rec := &Record{
		SessionID: sessionID,
		Direction: direction,
		Opcode:    opcode,
		Name:      packets.Lookup(packets.ID(opcode)).Name,
		Size:      len(payload),
		Payload:   append([]byte(nil), payload...),
	}
	if err := s.db.Create(rec).Error; err != nil {
		return fmt.Errorf("error storing packet record: %w", err)
	}
	return nil
}

// SessionRecords returns every record for a session in capture order.
func (s *Store) SessionRecords(sessionID string) ([]Record, error) {
	var records []Record
	err := s.db.Where("session_id = ?", sessionID).Order("id").Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("error fetching session records: %w", err)
	}
	return records, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("error getting database connection: %w", err)
	}
	if err := db.Close(); err != nil {
		return fmt.Errorf("error closing capture database: %w", err)
	}
	return nil
}
