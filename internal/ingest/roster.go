// Package ingest reads student roster spreadsheets and maps their columns
// onto the canonical profile fields.
package ingest

import (
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/campus-ops/outreach-cli/internal/model"
)

// headerAliases maps normalized spreadsheet headers to canonical field
// names. Normalization lowercases, trims, and collapses interior runs of
// whitespace, so "Date  Of Birth" and " email address " both match.
var headerAliases = map[string]string{
	"student name":                     model.FieldStudentName,
	"roll number":                      model.FieldRollNumber,
	"institute name":                   model.FieldInstituteName,
	"enrolled program":                 model.FieldEnrolledProgram,
	"stream":                           model.FieldStream,
	"date of birth":                    model.FieldDateOfBirth,
	"gender":                           model.FieldGender,
	"email address":                    model.FieldEmail,
	"email":                            model.FieldEmail,
	"previous education qualification": model.FieldPreviousEducation,
	"previous education":               model.FieldPreviousEducation,
	"primary language":                 model.FieldPrimaryLanguage,
	"nationality":                      model.FieldNationality,
}

// Options configures roster parsing.
type Options struct {
	SheetIndex int
}

// ReadRoster parses an XLSX roster into profiles with derived missing-field
// sets and completion percentages. Parse failures are fatal to the caller's
// run; an empty roster is not an error.
func ReadRoster(path string, opts Options) ([]model.Profile, error) {
	rows, err := readSheet(path, opts.SheetIndex)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, eris.New("ingest: roster has no header row")
	}

	columns := mapColumns(rows[0])
	profiles := BuildProfiles(rows[1:], columns)

	zap.L().Info("ingest: roster read",
		zap.String("path", path),
		zap.Int("students", len(profiles)),
		zap.Int("mapped_columns", len(columns)),
	)
	return profiles, nil
}

// mapColumns resolves the header row to a map of canonical field name →
// column index. Unknown headers are ignored; the first matching column wins.
func mapColumns(header []string) map[string]int {
	columns := make(map[string]int)
	for i, h := range header {
		canonical, ok := headerAliases[NormalizeHeader(h)]
		if !ok {
			continue
		}
		if _, seen := columns[canonical]; seen {
			continue
		}
		columns[canonical] = i
	}
	return columns
}

// NormalizeHeader lowercases a header and collapses all interior whitespace
// runs to single spaces.
func NormalizeHeader(h string) string {
	return strings.Join(strings.Fields(strings.ToLower(h)), " ")
}

// BuildProfiles converts data rows into profiles. A field is missing when
// its column is absent from the mapping or its cell is empty after trimming.
func BuildProfiles(rows [][]string, columns map[string]int) []model.Profile {
	profiles := make([]model.Profile, 0, len(rows))
	for idx, row := range rows {
		p := model.Profile{
			RowIndex: idx,
			Fields:   make(map[string]string),
		}

		for _, field := range model.MandatoryFields() {
			col, ok := columns[field]
			if !ok || col >= len(row) {
				p.MissingFields = append(p.MissingFields, field)
				continue
			}
			value := strings.TrimSpace(row[col])
			if value == "" {
				p.MissingFields = append(p.MissingFields, field)
				continue
			}
			p.Fields[field] = value
		}

		p.Completion = model.CompletionPercent(len(p.MissingFields))
		profiles = append(profiles, p)
	}
	return profiles
}
