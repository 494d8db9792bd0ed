package staff

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/cdma-ap/cmsnr-directory/internal/pkg/datefmt"
)

const (
	DefaultBirthday         = "1970-01-01"
	DefaultPreviousPosition = "Assistant Commissioner"
	DefaultCharges          = "None"
	avatarURL               = "https://ui-avatars.com/api/?name=%s&size=400&background=random"
)

// DisplaySource carries the raw fields the display mapping reads. Both master
// and directory records can produce one.
type DisplaySource struct {
	EmployeeID      string
	CFMSID          string
	Name            string
	Surname         string
	Designation     string
	DescriptionLong string
	DistName        string
	DepartmentName  string
	Email           string
	Mobile          string
	Status          string
	DOB             any
	DOR             any
	DOJ             any
}

// DisplayRecord is the view model rendered by directory clients.
type DisplayRecord struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	Designation      string `json:"designation"`
	Department       string `json:"department"`
	CFMSID           string `json:"cfmsId"`
	EmployeeID       string `json:"employeeId"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Mobile           string `json:"mobile"`
	Office           string `json:"office"`
	Birthday         string `json:"birthday"`
	RetirementDate   string `json:"retirementDate"`
	JoiningDate      string `json:"joiningDate"`
	CurrentPosition  string `json:"currentPosition"`
	PreviousPosition string `json:"previousPosition"`
	Charges          string `json:"charges"`
	Responsibilities string `json:"responsibilities"`
	Photo            string `json:"photo"`
}

// DisplayResult is either a clean mapping (no warnings) or a defaulted one
// whose warnings name each substituted field.
type DisplayResult struct {
	Record   DisplayRecord `json:"record"`
	Warnings []string      `json:"warnings,omitempty"`
}

func (r DisplayResult) Defaulted() bool {
	return len(r.Warnings) > 0
}

// ToDisplay maps src to a display record. It is total: every input yields a
// record, with placeholders wherever the source is missing or malformed.
// index is the zero-based position of the record in its page.
func ToDisplay(src DisplaySource, index int) DisplayResult {
	var warnings []string
	warn := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	name := strings.TrimSpace(strings.TrimSpace(src.Name) + " " + strings.TrimSpace(src.Surname))
	if name == "" {
		name = fmt.Sprintf("Employee %d", index+1)
		warn("name missing; using %q", name)
	}

	dept := firstNonEmpty(src.DescriptionLong, src.DistName, src.DepartmentName)
	if dept == "" {
		warn("department missing")
	}

	birthday, ok := datefmt.Normalize(src.DOB)
	if !ok {
		birthday = DefaultBirthday
		warn("dob %s; using %s", describeDate(src.DOB), DefaultBirthday)
	}
	retirement := normalizeOrEmpty(src.DOR, "dor", warn)
	joining := normalizeOrEmpty(src.DOJ, "doj", warn)

	responsibilities := StatusRegular.Label()
	switch ClassifyStatus(src.Status) {
	case StatusIncharge:
		responsibilities = StatusIncharge.Label()
	case StatusUnknown:
		warn("status %q not recognised; using %s", src.Status, responsibilities)
	}

	office := strings.TrimSpace(dept + " Municipal Office")

	designation := strings.TrimSpace(src.Designation)
	position := "Unknown Position"
	switch {
	case designation != "" && dept != "":
		position = designation + " - " + dept
	case designation != "":
		position = designation
	case dept != "":
		position = dept
	}

	avatarName := strings.TrimSpace(src.Name)
	if avatarName == "" {
		avatarName = "Employee"
	}

	mobile := strings.TrimSpace(src.Mobile)
	return DisplayResult{
		Record: DisplayRecord{
			ID:               index + 1,
			Name:             name,
			Designation:      designation,
			Department:       dept,
			CFMSID:           strings.TrimSpace(src.CFMSID),
			EmployeeID:       strings.TrimSpace(src.EmployeeID),
			Email:            strings.TrimSpace(src.Email),
			Phone:            mobile,
			Mobile:           mobile,
			Office:           office,
			Birthday:         birthday,
			RetirementDate:   retirement,
			JoiningDate:      joining,
			CurrentPosition:  position,
			PreviousPosition: DefaultPreviousPosition,
			Charges:          DefaultCharges,
			Responsibilities: responsibilities,
			Photo:            fmt.Sprintf(avatarURL, strings.ReplaceAll(url.QueryEscape(avatarName), "+", "%20")),
		},
		Warnings: warnings,
	}
}

func normalizeOrEmpty(v any, field string, warn func(string, ...any)) string {
	s, ok := datefmt.Normalize(v)
	if !ok {
		if !isBlank(v) {
			warn("%s %s; left empty", field, describeDate(v))
		}
		return ""
	}
	return s
}

func describeDate(v any) string {
	if isBlank(v) {
		return "missing"
	}
	return fmt.Sprintf("unparseable (%v)", deref(v))
}

func isBlank(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case *string:
		return val == nil || strings.TrimSpace(*val) == ""
	case *time.Time:
		return val == nil || val.IsZero()
	case time.Time:
		return val.IsZero()
	default:
		return false
	}
}

func deref(v any) any {
	if p, ok := v.(*string); ok && p != nil {
		return *p
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
