// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"io"
	"strconv"

	"github.com/google/safehtml/template"

	"github.com/eli-b/mapf/resultstat"
)

const htmlText = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>MAPF Solver Comparison</title>
</head>
<body>
{{- range .}}
<h2>{{.Title}}</h2>
<table class="mapfstat">
<tr><th>{{.GroupBy}}{{range .Solvers}}<th>{{.}}{{end}}
{{range .Rows -}}
<tr><td>{{.Category}}{{range .Cells}}<td>{{.}}{{end}}
{{end -}}
</table>
{{- end}}
</body>
</html>
`

var htmlTemplate = template.Must(template.New("mapfstat").Parse(htmlText))

type htmlTable struct {
	Title   string
	GroupBy string
	Solvers []string
	Rows    []htmlRow
}

type htmlRow struct {
	Category string
	Cells    []string
}

func formatHTML(w io.Writer, s *resultstat.Summary) error {
	solvers := ranSolvers(s)
	var tables []htmlTable
	for _, m := range metrics(s) {
		t := htmlTable{Title: m.name, GroupBy: s.GroupBy, Solvers: solvers}
		for _, c := range s.Categories {
			row := htmlRow{Category: strconv.Itoa(c)}
			for _, solver := range solvers {
				row.Cells = append(row.Cells, m.format(c, solver))
			}
			t.Rows = append(t.Rows, row)
		}
		tables = append(tables, t)
	}
	return htmlTemplate.Execute(w, tables)
}
