package report

// SummaryMarker labels the header row that introduces the aggregate section
// of a mixed report.
const SummaryMarker = "SUMMARY"

// expandRows re-projects rows onto the full selected-column superset so that
// every row of a mixed report has the identical shape. Absent values become
// empty strings, never missing keys.
func expandRows(rows []Row, labels []string) []Row {
	expanded := make([]Row, 0, len(rows))
	for _, row := range rows {
		full := make(Row, len(labels))
		for _, label := range labels {
			if v, ok := row[label]; ok {
				full[label] = v
			} else {
				full[label] = ""
			}
		}
		expanded = append(expanded, full)
	}

	return expanded
}

func separatorRow(labels []string) Row {
	row := make(Row, len(labels))
	for _, label := range labels {
		row[label] = ""
	}
	return row
}

func summaryHeaderRow(labels []string) Row {
	row := separatorRow(labels)
	if len(labels) > 0 {
		row[labels[0]] = SummaryMarker
	}
	return row
}

// composeMixed stitches the detail and summary sections together. The
// separator and summary-header rows are a fixed part of the skeleton and are
// emitted even when either section is empty.
func composeMixed(detailRows, summaryRows []Row, labels []string) []Row {
	out := make([]Row, 0, len(detailRows)+len(summaryRows)+2)
	out = append(out, expandRows(detailRows, labels)...)
	out = append(out, separatorRow(labels), summaryHeaderRow(labels))
	out = append(out, expandRows(summaryRows, labels)...)
	return out
}
