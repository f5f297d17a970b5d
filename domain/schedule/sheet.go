package schedule

import "strings"

// Sheet is the parsed schedule source
type Sheet struct {
	Header []string // Trimmed header names in source order
	Rows   []Row    // Data rows in source order, blank rows removed
}

// MissingColumns returns the required columns absent from the header
func (s *Sheet) MissingColumns() []string {
	present := make(map[string]bool, len(s.Header))
	for _, h := range s.Header {
		present[strings.TrimSpace(h)] = true
	}

	var missing []string
	for _, c := range Columns {
		if !present[c] {
			missing = append(missing, c)
		}
	}
	return missing
}
