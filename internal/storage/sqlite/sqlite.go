// Package sqlitestorage implements the storage.Backend interface using a
// private in-memory SQLite database. The database is dropped on Close, so the
// journal never outlives the capture session.
package sqlitestorage

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/spherecam/spherecam/internal/database"
	"github.com/spherecam/spherecam/internal/geo"
	"github.com/spherecam/spherecam/internal/model"
	"github.com/spherecam/spherecam/internal/model/convert"
	"github.com/spherecam/spherecam/pkg/core"
	"gorm.io/gorm/clause"
)

// ErrNoSession is returned when recording before StartSession.
var ErrNoSession = errors.New("no active session")

// Backend stores the capture journal through GORM.
type Backend struct {
	db      *database.Manager
	log     zerolog.Logger
	mu      sync.Mutex
	session *model.Session
}

// New connects a fresh in-memory database.
func New(log zerolog.Logger) (*Backend, error) {
	db := database.NewManager(log)
	if err := db.Connect(); err != nil {
		return nil, fmt.Errorf("failed to create in-memory SQLite DB: %w", err)
	}

	return &Backend{
		db:  db,
		log: log,
	}, nil
}

// Init migrates the schema.
func (b *Backend) Init() error {
	return b.db.Setup()
}

// Close drops the database.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.session = nil
	return b.db.Close()
}

// StartSession inserts the session row that captures hang off.
func (b *Backend) StartSession(info *core.SessionInfo) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	row := convert.CoreToSession(*info)
	if err := b.db.DB.Create(&row).Error; err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	b.session = &row
	b.log.Debug().Str("session", info.ID).Uint("row", row.ID).Msg("Session journal started")
	return nil
}

// EndSession stamps the end time on the session row.
func (b *Backend) EndSession(end time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.session == nil {
		return ErrNoSession
	}

	err := b.db.DB.Model(b.session).Update("end_time", end).Error
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	return nil
}

// RecordCapture inserts one capture row.
func (b *Backend) RecordCapture(c *core.Capture) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.session == nil {
		return ErrNoSession
	}

	row := convert.CoreToCapture(*c, b.session.ID)
	if err := b.db.DB.Omit(clause.Associations).Create(&row).Error; err != nil {
		return fmt.Errorf("insert capture %s: %w", c.Metadata.ID, err)
	}
	return nil
}

func (b *Backend) captureRows() ([]model.Capture, error) {
	if b.session == nil {
		return nil, nil
	}
	var rows []model.Capture
	err := b.db.DB.
		Where("session_id = ?", b.session.ID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query captures: %w", err)
	}
	return rows, nil
}

// ListCaptures returns all captures of the session in order.
func (b *Backend) ListCaptures() ([]core.CaptureMetadata, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	rows, err := b.captureRows()
	if err != nil {
		return nil, err
	}
	out := make([]core.CaptureMetadata, 0, len(rows))
	for _, r := range rows {
		out = append(out, convert.CaptureToCore(r))
	}
	return out, nil
}

// CountCaptures returns the number of captures in the session.
func (b *Backend) CountCaptures() (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.session == nil {
		return 0, nil
	}

	var n int64
	err := b.db.DB.Model(&model.Capture{}).Where("session_id = ?", b.session.ID).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count captures: %w", err)
	}
	return int(n), nil
}

// CapturesNear filters in Go; SQLite has no trigonometry to push it down to.
func (b *Backend) CapturesNear(dir [3]float64, toleranceDeg float64) ([]core.CaptureMetadata, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	rows, err := b.captureRows()
	if err != nil {
		return nil, err
	}

	target := geo.PointFromVec(dir)
	var out []core.CaptureMetadata
	for _, r := range rows {
		if geo.Within(target, r.MarkerPosition, toleranceDeg) {
			out = append(out, convert.CaptureToCore(r))
		}
	}
	return out, nil
}

// Session returns the stored session row, re-read from the database.
func (b *Backend) Session() (model.Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.session == nil {
		return model.Session{}, ErrNoSession
	}

	var row model.Session
	if err := b.db.DB.First(&row, b.session.ID).Error; err != nil {
		return model.Session{}, fmt.Errorf("load session: %w", err)
	}
	return row, nil
}
