/*************************************************************************
 * Copyright 2026 Seaplane, Inc. All rights reserved.
 * Contact: <legal@seaplane.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package output renders the public model two ways: an aligned table
// (via tablewriter) and direct JSON. Components opt in to table
// rendering by implementing Tabular; anything else falls back to a
// one-line "not supported" notice.
package output

import (
	"fmt"
	"io"

	gojson "github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"
)

// Tabular is implemented by any value that can render itself as an
// aligned table: a header row and zero or more data rows.
type Tabular interface {
	TableHeaders() []string
	TableRows() [][]string
}

// PrintTable renders v as an aligned table if it implements Tabular;
// otherwise it writes a one-line notice and returns without error, since
// an unsupported format is not itself a failure.
func PrintTable(w io.Writer, v interface{}) error {
	t, ok := v.(Tabular)
	if !ok {
		fmt.Fprintf(w, "format table is not supported by this object\n")
		return nil
	}
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(t.TableHeaders())
	tw.SetAutoWrapText(false)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.AppendBulk(t.TableRows())
	tw.Render()
	return nil
}

// PrintJSON renders v as indented JSON, the public model's default wire
// shape.
func PrintJSON(w io.Writer, v interface{}) error {
	data, err := gojson.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
