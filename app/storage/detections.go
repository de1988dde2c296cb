package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/jmoiron/sqlx"

	"github.com/umputun/langid/app/storage/engine"
	"github.com/umputun/langid/lib/langcheck"
)

// Detections is a storage for detection history
type Detections struct {
	*engine.SQL
	lock    engine.RWLocker
	maxSize int // max number of records to keep, 0 means unlimited
}

// LanguageStat is a number of detections of a language
type LanguageStat struct {
	Language string `db:"lang" json:"language"` // empty for undetected texts
	Count    int    `db:"cnt" json:"count"`
}

const detectionsSchema = `
	CREATE TABLE IF NOT EXISTS detections (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ts DATETIME DEFAULT CURRENT_TIMESTAMP,
		text TEXT,
		lang TEXT,
		confidence REAL DEFAULT 0,
		source TEXT DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_detections_ts ON detections(ts);
	CREATE INDEX IF NOT EXISTS idx_detections_lang ON detections(lang)`

// NewDetections creates a new Detections storage, maxSize limits the number of kept records
func NewDetections(ctx context.Context, db *engine.SQL, maxSize int) (*Detections, error) {
	if db == nil {
		return nil, fmt.Errorf("db connection is nil")
	}
	res := &Detections{SQL: db, lock: db.MakeLock(), maxSize: maxSize}
	if err := engine.InitDB(ctx, db, "detections", detectionsSchema, res.migrate); err != nil {
		return nil, fmt.Errorf("failed to init detections storage: %w", err)
	}
	return res, nil
}

// Write adds a new detection record and removes the oldest ones above the limit
func (d *Detections) Write(ctx context.Context, rec langcheck.Record) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	if err := d.insert(ctx, &d.DB, rec); err != nil {
		return err
	}
	return d.cleanup(ctx, &d.DB)
}

// WriteBatch adds all records in one transaction. Failed records don't stop the batch,
// their errors are combined and nothing is written.
func (d *Detections) WriteBatch(ctx context.Context, recs []langcheck.Record) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	tx, err := d.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var errs error
	for i, rec := range recs {
		if err := d.insert(ctx, tx, rec); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("record %d: %w", i, err))
		}
	}
	if errs != nil {
		return errs
	}
	if err := d.cleanup(ctx, tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	log.Printf("[DEBUG] %d detections written", len(recs))
	return nil
}

func (d *Detections) insert(ctx context.Context, ext sqlx.ExtContext, rec langcheck.Record) error {
	if rec.Time.IsZero() {
		rec.Time = time.Now()
	}
	query := `INSERT INTO detections (ts, text, lang, confidence, source) VALUES (:ts, :text, :lang, :confidence, :source)`
	if _, err := sqlx.NamedExecContext(ctx, ext, query, rec); err != nil {
		return fmt.Errorf("failed to insert detection: %w", err)
	}
	return nil
}

// cleanup removes the oldest records above the limit
func (d *Detections) cleanup(ctx context.Context, ext sqlx.ExtContext) error {
	if d.maxSize <= 0 {
		return nil
	}
	query := `DELETE FROM detections WHERE id NOT IN (SELECT id FROM detections ORDER BY id DESC LIMIT ?)`
	if _, err := ext.ExecContext(ctx, query, d.maxSize); err != nil {
		return fmt.Errorf("failed to cleanup detections: %w", err)
	}
	return nil
}

// Read returns up to limit most recent records, newest first
func (d *Detections) Read(ctx context.Context, limit int) ([]langcheck.Record, error) {
	d.lock.RLock()
	defer d.lock.RUnlock()

	var res []langcheck.Record
	query := `SELECT ts, text, lang, confidence, source FROM detections ORDER BY id DESC LIMIT ?`
	if err := d.SelectContext(ctx, &res, query, limit); err != nil {
		return nil, fmt.Errorf("failed to get detections: %w", err)
	}
	for i := range res {
		res[i].Time = res[i].Time.Local()
	}
	return res, nil
}

// Stats returns the number of detections per language, most frequent first
func (d *Detections) Stats(ctx context.Context) ([]LanguageStat, error) {
	d.lock.RLock()
	defer d.lock.RUnlock()

	var res []LanguageStat
	query := `SELECT lang, COUNT(*) AS cnt FROM detections GROUP BY lang ORDER BY cnt DESC, lang`
	if err := d.SelectContext(ctx, &res, query); err != nil {
		return nil, fmt.Errorf("failed to get detection stats: %w", err)
	}
	return res, nil
}

// migrate adds the source column missing in the tables made by older versions
func (d *Detections) migrate(ctx context.Context, tx *sqlx.Tx) error {
	var cols []struct {
		Name string `db:"name"`
	}
	if err := tx.SelectContext(ctx, &cols, "SELECT name FROM pragma_table_info('detections')"); err != nil {
		return fmt.Errorf("failed to get table info: %w", err)
	}
	for _, c := range cols {
		if c.Name == "source" {
			return nil
		}
	}
	if _, err := tx.ExecContext(ctx, "ALTER TABLE detections ADD COLUMN source TEXT DEFAULT ''"); err != nil {
		return fmt.Errorf("failed to add source column: %w", err)
	}
	log.Printf("[INFO] detections table migrated, source column added")
	return nil
}
