package dialect

import "ratecli/internal/fields"

// HeaderSampleRows is the default number of rows after the first that are
// consulted.
const HeaderSampleRows = 20

// columnType is either numeric or a fixed text length.
type columnType struct {
	numeric bool
	length  int
}

func typeOf(value string) columnType {
	if fields.IsNumeric(value) {
		return columnType{numeric: true}
	}
	return columnType{length: len([]rune(value))}
}

// DetectHeader reports whether the first row looks structurally different
// from the rows after it.
func DetectHeader(rows [][]string) bool {
	return DetectHeaderSample(rows, HeaderSampleRows)
}

// DetectHeaderSample is DetectHeader consulting at most sampleRows rows after
// the first. A non-positive sampleRows uses every row.
func DetectHeaderSample(rows [][]string, sampleRows int) bool {
	if len(rows) < 2 {
		return false
	}

	header := rows[0]
	sample := rows[1:]
	if sampleRows > 0 && len(sample) > sampleRows {
		sample = sample[:sampleRows]
	}

	types := make(map[int]columnType, len(header))
	inconsistent := make(map[int]bool, len(header))
	for _, row := range sample {
		if len(row) != len(header) {
			continue
		}
		for col, value := range row {
			if inconsistent[col] {
				continue
			}
			ct := typeOf(value)
			if prev, seen := types[col]; seen && prev != ct {
				inconsistent[col] = true
				delete(types, col)
				continue
			}
			types[col] = ct
		}
	}

	votes := 0
	for col, ct := range types {
		if ct.numeric {
			if fields.IsNumeric(header[col]) {
				votes--
			} else {
				votes++
			}
			continue
		}
		if len([]rune(header[col])) != ct.length {
			votes++
		} else {
			votes--
		}
	}
	return votes > 0
}
