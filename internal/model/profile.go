package model

// Canonical mandatory field names for a student profile, in roster order.
const (
	FieldStudentName       = "student_name"
	FieldRollNumber        = "roll_number"
	FieldInstituteName     = "institute_name"
	FieldEnrolledProgram   = "enrolled_program"
	FieldStream            = "stream"
	FieldDateOfBirth       = "date_of_birth"
	FieldGender            = "gender"
	FieldEmail             = "email"
	FieldPreviousEducation = "previous_education"
	FieldPrimaryLanguage   = "primary_language"
	FieldNationality       = "nationality"
)

// MandatoryFields returns the canonical field names every profile must carry,
// in a fixed order used for gap reporting.
func MandatoryFields() []string {
	return []string{
		FieldStudentName,
		FieldRollNumber,
		FieldInstituteName,
		FieldEnrolledProgram,
		FieldStream,
		FieldDateOfBirth,
		FieldGender,
		FieldEmail,
		FieldPreviousEducation,
		FieldPrimaryLanguage,
		FieldNationality,
	}
}

// Profile represents one ingested student record. Fields holds present
// values keyed by canonical name; absent fields are listed in MissingFields
// and have no entry in Fields.
type Profile struct {
	RowIndex      int               `json:"row_index"`
	Fields        map[string]string `json:"fields"`
	MissingFields []string          `json:"missing_fields"`
	Completion    int               `json:"completion"`
}

// Name returns the student's name, or "Student" when absent.
func (p Profile) Name() string {
	if v := p.Fields[FieldStudentName]; v != "" {
		return v
	}
	return "Student"
}

// Email returns the student's email address, or "" when absent.
func (p Profile) Email() string {
	return p.Fields[FieldEmail]
}

// Incomplete reports whether the profile has at least one missing
// mandatory field.
func (p Profile) Incomplete() bool {
	return len(p.MissingFields) > 0
}

// CompletionPercent computes the rounded completion percentage for a profile
// with the given number of missing fields.
func CompletionPercent(missing int) int {
	total := len(MandatoryFields())
	present := total - missing
	if present < 0 {
		present = 0
	}
	return int(float64(present)/float64(total)*100 + 0.5)
}
