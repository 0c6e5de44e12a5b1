// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package summarydb

import (
	"fmt"
	"strings"
)

// CloudSQLDSN returns the mysql data source name of database on the
// Cloud SQL instance named "project:region:instance". Connecting with
// it requires importing the Cloud SQL proxy mysql dialer. An empty
// user is "root". An empty database connects to the server without
// selecting one.
func CloudSQLDSN(user, instance, database string) (string, error) {
	parts := strings.Split(instance, ":")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", fmt.Errorf("Cloud SQL instance %q: want project:region:instance", instance)
	}
	if strings.ContainsAny(database, "/?`") {
		return "", fmt.Errorf("Cloud SQL database %q: bad name", database)
	}
	if user == "" {
		user = "root"
	}
	return fmt.Sprintf("%s:@cloudsql(%s)/%s", user, instance, database), nil
}
