// Copyright 2016 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package summarydb stores aggregated solver statistics in a SQL
// database, so results of many experiments can be queried together.
package summarydb

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/eli-b/mapf/resultstat"
)

// DB is a high-level interface to a summary database. It's safe for
// concurrent use by multiple goroutines.
type DB struct {
	sql *sql.DB // underlying database connection

	// prepared statements
	insertSummary *sql.Stmt
	insertRate    *sql.Stmt
	insertAverage *sql.Stmt
}

// ErrNotFound is returned when no summary matches a query.
var ErrNotFound = errors.New("summary not found")

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			db.Close()
			return nil, err
		}
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		db.Close()
		return nil, err
	}
	if err := d.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a
// connection to driverName. It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Summaries (
	SummaryID {{if .sqlite3}}INTEGER PRIMARY KEY AUTOINCREMENT{{else}}SERIAL PRIMARY KEY AUTO_INCREMENT{{end}},
	Label VARCHAR(255),
	GroupColumn VARCHAR(255),
	Threshold DOUBLE
);
CREATE TABLE IF NOT EXISTS SuccessRates (
	SummaryID BIGINT UNSIGNED,
	Category BIGINT,
	Solver VARCHAR(255),
	Runs BIGINT,
	Successes BIGINT,
	PRIMARY KEY (SummaryID, Category, Solver),
	FOREIGN KEY (SummaryID) REFERENCES Summaries(SummaryID) ON UPDATE CASCADE ON DELETE CASCADE
);
CREATE TABLE IF NOT EXISTS Averages (
	SummaryID BIGINT UNSIGNED,
	Category BIGINT,
	Solver VARCHAR(255),
	Family VARCHAR(255),
	Mean DOUBLE,
	Count BIGINT,
	PRIMARY KEY (SummaryID, Category, Solver, Family),
	FOREIGN KEY (SummaryID) REFERENCES Summaries(SummaryID) ON UPDATE CASCADE ON DELETE CASCADE
);
{{if .sqlite3}}
CREATE INDEX IF NOT EXISTS SummariesLabel ON Summaries(Label);
{{end}}
`))

// createTables creates any missing tables on the connection in
// db.sql. driverName is the same driver name passed to sql.Open and
// is used to select the correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %v", err)
		}
	}
	return nil
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements() error {
	var err error
	db.insertSummary, err = db.sql.Prepare("INSERT INTO Summaries(Label, GroupColumn, Threshold) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	db.insertRate, err = db.sql.Prepare("INSERT INTO SuccessRates(SummaryID, Category, Solver, Runs, Successes) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	db.insertAverage, err = db.sql.Prepare("INSERT INTO Averages(SummaryID, Category, Solver, Family, Mean, Count) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	return nil
}

// InsertSummary stores s under label and returns its ID. Solvers that
// were not run in a category have no success rate row, and absent
// averages have no average row.
func (db *DB) InsertSummary(ctx context.Context, label string, s *resultstat.Summary) (id int64, err error) {
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	res, err := tx.StmtContext(ctx, db.insertSummary).ExecContext(ctx, label, s.GroupBy, s.Threshold)
	if err != nil {
		return 0, err
	}
	if id, err = res.LastInsertId(); err != nil {
		return 0, err
	}

	rate := tx.StmtContext(ctx, db.insertRate)
	avg := tx.StmtContext(ctx, db.insertAverage)
	for _, c := range s.Categories {
		for _, solver := range s.Solvers {
			runs := s.Runs(c, solver)
			if runs == 0 {
				continue
			}
			if _, err = rate.ExecContext(ctx, id, c, solver, runs, s.Successes(c, solver)); err != nil {
				return 0, err
			}
			for _, f := range s.Families {
				m := s.Metric(c, solver, f)
				mean, ok := m.Mean()
				if !ok {
					continue
				}
				if _, err = avg.ExecContext(ctx, id, c, solver, f.String(), mean, m.Count()); err != nil {
					return 0, err
				}
			}
		}
	}
	return id, nil
}

// A SummaryInfo describes a stored summary.
type SummaryInfo struct {
	ID        int64
	Label     string
	GroupBy   string
	Threshold float64
}

// FindSummary returns the most recently inserted summary with label.
// It returns ErrNotFound if there is none.
func (db *DB) FindSummary(ctx context.Context, label string) (*SummaryInfo, error) {
	var info SummaryInfo
	err := db.sql.QueryRowContext(ctx,
		"SELECT SummaryID, Label, GroupColumn, Threshold FROM Summaries WHERE Label = ? ORDER BY SummaryID DESC LIMIT 1", label).
		Scan(&info.ID, &info.Label, &info.GroupBy, &info.Threshold)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return &info, nil
}

// A SuccessRate is a stored success count.
type SuccessRate struct {
	Category  int
	Solver    string
	Runs      int
	Successes int
}

// Rate returns Successes/Runs.
func (r SuccessRate) Rate() float64 {
	return float64(r.Successes) / float64(r.Runs)
}

// SuccessRates returns the success counts of summary id, ordered by
// category and solver.
func (db *DB) SuccessRates(ctx context.Context, id int64) ([]SuccessRate, error) {
	rows, err := db.sql.QueryContext(ctx,
		"SELECT Category, Solver, Runs, Successes FROM SuccessRates WHERE SummaryID = ? ORDER BY Category, Solver", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SuccessRate
	for rows.Next() {
		var r SuccessRate
		if err := rows.Scan(&r.Category, &r.Solver, &r.Runs, &r.Successes); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// An Average is a stored average.
type Average struct {
	Category int
	Solver   string
	Family   string
	Mean     float64
	Count    int
}

// Averages returns the averages of summary id, ordered by category,
// solver, and family.
func (db *DB) Averages(ctx context.Context, id int64) ([]Average, error) {
	rows, err := db.sql.QueryContext(ctx,
		"SELECT Category, Solver, Family, Mean, Count FROM Averages WHERE SummaryID = ? ORDER BY Category, Solver, Family", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Average
	for rows.Next() {
		var a Average
		if err := rows.Scan(&a.Category, &a.Solver, &a.Family, &a.Mean, &a.Count); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CountSummaries returns the number of stored summaries.
func (db *DB) CountSummaries(ctx context.Context) (int, error) {
	var n int
	err := db.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM Summaries").Scan(&n)
	return n, err
}

// DeleteSummary removes summary id and its rows.
func (db *DB) DeleteSummary(ctx context.Context, id int64) (err error) {
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	// Delete children explicitly; sqlite enforces cascades only
	// when foreign keys are enabled on the connection.
	for _, q := range []string{
		"DELETE FROM Averages WHERE SummaryID = ?",
		"DELETE FROM SuccessRates WHERE SummaryID = ?",
		"DELETE FROM Summaries WHERE SummaryID = ?",
	} {
		if _, err = tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	for _, stmt := range []*sql.Stmt{db.insertSummary, db.insertRate, db.insertAverage} {
		if err := stmt.Close(); err != nil {
			return err
		}
	}
	return db.sql.Close()
}
