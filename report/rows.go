package report

import "math"

// Row maps column labels to formatted values. Every row of a single report
// execution carries the identical key set; absent values are empty strings.
type Row map[string]any

// Result is the export-ready output of one report execution.
// Columns carries the label order since Row itself is unordered.
type Result struct {
	Mode    Mode     `json:"mode"`
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
