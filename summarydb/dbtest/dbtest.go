// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dbtest opens databases for summarydb tests.
//
// By default each test gets a fresh in-memory SQLite database. With
// -cloudsql=project:region:instance, each test instead gets a new
// database on that Cloud SQL instance, dropped when the test ends.
package dbtest

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"flag"
	"fmt"
	"testing"

	_ "github.com/GoogleCloudPlatform/cloudsql-proxy/proxy/dialers/mysql"

	"github.com/eli-b/mapf/summarydb"
	_ "github.com/eli-b/mapf/summarydb/sqlite3"
)

var cloudsql = flag.String("cloudsql", "", "run database tests on the Cloud SQL `instance` (project:region:instance)")

// cloudDatabase creates a uniquely named database on the -cloudsql
// instance and returns its DSN. The database is dropped by t's
// cleanup.
func cloudDatabase(t *testing.T) string {
	server, err := summarydb.CloudSQLDSN("", *cloudsql, "")
	if err != nil {
		t.Fatal(err)
	}
	admin, err := sql.Open("mysql", server)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { admin.Close() })

	var suffix [4]byte
	if _, err := rand.Read(suffix[:]); err != nil {
		t.Fatal(err)
	}
	name := "mapf_test_" + hex.EncodeToString(suffix[:])
	if _, err := admin.Exec(fmt.Sprintf("CREATE DATABASE `%s`", name)); err != nil {
		t.Fatal(err)
	}
	t.Logf("using Cloud SQL database %s", name)
	t.Cleanup(func() {
		if _, err := admin.Exec(fmt.Sprintf("DROP DATABASE `%s`", name)); err != nil {
			t.Errorf("dropping %s: %v", name, err)
		}
	})

	dsn, err := summarydb.CloudSQLDSN("", *cloudsql, name)
	if err != nil {
		t.Fatal(err)
	}
	return dsn
}

// NewDB opens an empty summary database for t, closed when the test
// finishes.
func NewDB(t *testing.T) *summarydb.DB {
	t.Helper()
	driver, dsn := "sqlite3", ":memory:"
	if *cloudsql != "" {
		driver, dsn = "mysql", cloudDatabase(t)
	}
	db, err := summarydb.OpenSQL(driver, dsn)
	if err != nil {
		t.Fatalf("opening %s database: %v", driver, err)
	}
	// Registered after the drop, so it runs first.
	t.Cleanup(func() { db.Close() })

	n, err := db.CountSummaries(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("new database has %d summaries", n)
	}
	return db
}
