package directory

import (
	"strings"
	"time"

	"github.com/cdma-ap/cmsnr-directory/internal/domain/master"
	"github.com/cdma-ap/cmsnr-directory/internal/domain/staff"
	"github.com/cdma-ap/cmsnr-directory/internal/pkg/datefmt"
)

const DefaultStatus = "ACTIVE"

// Entry is one person tracked in the commissioner directory. Dates are
// canonical YYYY-MM-DD strings or nil.
type Entry struct {
	SNo          int64     `json:"sno"`
	CFMSID       string    `json:"cfms_id"`
	EmployeeID   string    `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	SirName      string    `json:"sir_name"`
	FirstName    string    `json:"first_name"`
	MobileNo     string    `json:"mobile_no"`
	Email        string    `json:"email"`
	Position     string    `json:"position"`
	Role         string    `json:"role"`
	Designation  string    `json:"designation"`
	Department   string    `json:"department"`
	District     string    `json:"district"`
	DistCode     string    `json:"distcode"`
	DeptID       string    `json:"dept_id"`
	Gender       string    `json:"gender"`
	Status       string    `json:"status"`
	DOB          *string   `json:"dob"`
	DOR          *string   `json:"dor"`
	DOJ          *string   `json:"doj"`
	CreatedAt    time.Time `json:"created_at"`

	StatusCategory staff.StatusCategory `json:"status_category"`
	Age            *int                 `json:"age,omitempty"`
	TimeToRetire   string               `json:"time_to_retire,omitempty"`
}

// WithDerived fills the computed age and time-to-retire fields as of now.
func (e Entry) WithDerived(now time.Time) Entry {
	e.StatusCategory = staff.ClassifyStatus(e.Status)
	if dob, ok := datefmt.Parse(e.DOB); ok {
		age := datefmt.Age(dob, now)
		e.Age = &age
	}
	if dor, ok := datefmt.Parse(e.DOR); ok {
		e.TimeToRetire = datefmt.TimeToRetire(dor, now)
	}
	return e
}

func (e Entry) DisplaySource() staff.DisplaySource {
	first, sir := e.FirstName, e.SirName
	if strings.TrimSpace(first) == "" && strings.TrimSpace(sir) == "" {
		first = e.EmployeeName
	}
	return staff.DisplaySource{
		EmployeeID:      e.EmployeeID,
		CFMSID:          e.CFMSID,
		Name:            first,
		Surname:         sir,
		Designation:     e.Designation,
		DescriptionLong: e.Position,
		DistName:        e.District,
		DepartmentName:  e.Department,
		Email:           e.Email,
		Mobile:          e.MobileNo,
		Status:          e.Status,
		DOB:             e.DOB,
		DOR:             e.DOR,
		DOJ:             e.DOJ,
	}
}

// Summary is the short form embedded in conflict responses.
type Summary struct {
	EmployeeID     string `json:"employeeid"`
	Name           string `json:"name"`
	Designation    string `json:"designation"`
	DepartmentName string `json:"department_name"`
	CFMSID         string `json:"cfms_id"`
}

func (e Entry) Summary() Summary {
	name := strings.TrimSpace(e.EmployeeName)
	if name == "" {
		name = strings.TrimSpace(e.FirstName + " " + e.SirName)
	}
	return Summary{
		EmployeeID:     e.EmployeeID,
		Name:           name,
		Designation:    e.Designation,
		DepartmentName: e.Department,
		CFMSID:         e.CFMSID,
	}
}

// FromStaffRecord copies the directory field mapping out of a master record.
func FromStaffRecord(r master.StaffRecord) Entry {
	return Entry{
		CFMSID:       strings.TrimSpace(r.CFMSID),
		EmployeeID:   strings.TrimSpace(r.EmployeeID),
		EmployeeName: r.FullName(),
		FirstName:    strings.TrimSpace(r.Name),
		SirName:      strings.TrimSpace(r.Surname),
		MobileNo:     strings.TrimSpace(r.MobileNo),
		Email:        strings.TrimSpace(r.Email1),
		Position:     strings.TrimSpace(r.DescriptionLong),
		Role:         strings.TrimSpace(r.PositionName),
		Designation:  strings.TrimSpace(r.Designation),
		Department:   strings.TrimSpace(r.DepartmentName),
		District:     strings.TrimSpace(r.DistName),
		DistCode:     strings.TrimSpace(r.DistCode),
		DeptID:       strings.TrimSpace(r.DeptID),
		Gender:       strings.TrimSpace(r.GenderDesc),
		Status:       strings.TrimSpace(r.EmployeeStatus),
		DOB:          datefmt.NormalizePtr(r.DOB),
		DOR:          datefmt.NormalizePtr(r.DOR),
		DOJ:          datefmt.NormalizePtr(r.DOJ),
	}
}
