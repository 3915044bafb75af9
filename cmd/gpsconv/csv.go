package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
)

// readPoints reads rows of three floats. Empty lines and lines starting with # are skipped.
func readPoints(r io.Reader) ([]r3.Vector, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	var pts []r3.Vector
	for {
		record, err := cr.Read()
		if err == io.EOF {
			return pts, nil
		}
		if err != nil {
			return nil, err
		}
		if len(record) < 3 {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: expected 3 values, got %d", line, len(record))
		}
		var vals [3]float64
		for i := 0; i < 3; i++ {
			fl, perr := strconv.ParseFloat(strings.TrimSpace(record[i]), 64)
			if perr != nil {
				line, _ := cr.FieldPos(i)
				return nil, fmt.Errorf("line %d: %w", line, perr)
			}
			vals[i] = fl
		}
		pts = append(pts, r3.Vector{X: vals[0], Y: vals[1], Z: vals[2]})
	}
}

// writePoints writes one row of three floats per point, followed by the extra columns if any.
func writePoints(w io.Writer, pts []r3.Vector, extra ...string) error {
	cw := csv.NewWriter(w)
	for _, p := range pts {
		record := []string{
			strconv.FormatFloat(p.X, 'f', -1, 64),
			strconv.FormatFloat(p.Y, 'f', -1, 64),
			strconv.FormatFloat(p.Z, 'f', -1, 64),
		}
		if err := cw.Write(append(record, extra...)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
