// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sqlite3 provides the sqlite3 driver for summarydb.
// Import it for its side effect of registering the driver's open hook.
package sqlite3

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/eli-b/mapf/summarydb"
)

func init() {
	summarydb.RegisterOpenHook("sqlite3", func(db *sql.DB) error {
		// An in-memory database exists only on the connection that
		// created it, so every query must share one connection.
		db.SetMaxOpenConns(1)
		_, err := db.Exec("PRAGMA foreign_keys = ON")
		return err
	})
}
