/*
 * xvg.go, part of gorder
 *
 * Copyright 2025 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as published by
    the Free Software Foundation, either version 2.1 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU Lesser General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 *
*/

//Package xvg reads numerical time-series tables in the GROMACS xvg format
//(whitespace-separated columns, with '#' and '@' marking comment and
//plotting-directive lines) and in plain CSV, as written by the gorder
//command. It only cares about the numbers: xvg plotting directives are
//skipped, not interpreted.
package xvg

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Table is a parsed numerical table: one slice per row, plus the column
// labels, if the file carried a non-numerical header line.
type Table struct {
	Labels []string
	Data   [][]float64
}

// NRows returns the number of data rows in the table.
func (T *Table) NRows() int {
	return len(T.Data)
}

// Column returns the ith column of the table. It panics if the table is
// ragged and some row is too short, or if i is out of range.
func (T *Table) Column(i int) []float64 {
	ret := make([]float64, len(T.Data))
	for j, row := range T.Data {
		ret[j] = row[i]
	}
	return ret
}

func splitRecord(line string) []string {
	if strings.Contains(line, ",") {
		fields := strings.Split(line, ",")
		for i, v := range fields {
			fields[i] = strings.TrimSpace(v)
		}
		return fields
	}
	return strings.Fields(line)
}

// Read parses an xvg or csv table from the named file. Lines starting with
// '#' or '@' are skipped. A first line that doesn't parse as numbers is
// taken as column labels; after that, every line must be numerical.
func Read(name string) (*Table, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	T := new(Table)
	scanner := bufio.NewScanner(f)
	for line := 1; scanner.Scan(); line++ {
		s := strings.TrimSpace(scanner.Text())
		if s == "" || strings.HasPrefix(s, "#") || strings.HasPrefix(s, "@") {
			continue
		}
		fields := splitRecord(s)
		row := make([]float64, len(fields))
		var errp error
		for i, v := range fields {
			row[i], errp = strconv.ParseFloat(v, 64)
			if errp != nil {
				break
			}
		}
		if errp != nil {
			if T.Data == nil && T.Labels == nil {
				T.Labels = fields
				continue
			}
			return nil, fmt.Errorf("xvg: %s:%d: can't parse %q: %v", name, line, s, errp)
		}
		if len(T.Data) > 0 && len(row) != len(T.Data[0]) {
			return nil, fmt.Errorf("xvg: %s:%d: %d fields, expected %d", name, line, len(row), len(T.Data[0]))
		}
		T.Data = append(T.Data, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if T.Data == nil {
		return nil, fmt.Errorf("xvg: no numerical data found in %s", name)
	}
	return T, nil
}
