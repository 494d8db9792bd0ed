package directory

import (
	"strings"

	"github.com/cdma-ap/cmsnr-directory/internal/domain/master"
	"github.com/cdma-ap/cmsnr-directory/internal/domain/staff"
	"github.com/cdma-ap/cmsnr-directory/internal/pkg/datefmt"
	"github.com/cdma-ap/cmsnr-directory/internal/pkg/validator"
)

// Source selects which table a read operation runs against.
type Source string

const (
	SourceDirectory Source = "directory"
	SourceMaster    Source = "master"
)

func ParseSource(s string) Source {
	if Source(strings.ToLower(strings.TrimSpace(s))) == SourceMaster {
		return SourceMaster
	}
	return SourceDirectory
}

// AddEntryRequest is the body of an add. Only cfms_id is required; empty
// fields are filled from the matching master record when one exists.
type AddEntryRequest struct {
	CFMSID       string `json:"cfms_id"`
	EmployeeID   string `json:"employee_id"`
	LegacyEmpID  string `json:"employeeid"`
	EmployeeName string `json:"employee_name"`
	FirstName    string `json:"first_name"`
	SirName      string `json:"sir_name"`
	MobileNo     string `json:"mobile_no"`
	Email        string `json:"email"`
	Position     string `json:"position"`
	Role         string `json:"role"`
	Designation  string `json:"designation"`
	Department   string `json:"department"`
	District     string `json:"district"`
	DistCode     string `json:"distcode"`
	DeptID       string `json:"dept_id"`
	Gender       string `json:"gender"`
	Status       string `json:"status"`
	DOB          string `json:"dob"`
	DOR          string `json:"dor"`
	DOJ          string `json:"doj"`
}

func (r *AddEntryRequest) Normalize() {
	r.CFMSID = strings.TrimSpace(r.CFMSID)
	r.EmployeeID = strings.TrimSpace(r.EmployeeID)
	if r.EmployeeID == "" {
		r.EmployeeID = strings.TrimSpace(r.LegacyEmpID)
	}
	r.Email = strings.TrimSpace(r.Email)
	r.MobileNo = strings.TrimSpace(r.MobileNo)
}

func (r *AddEntryRequest) Validate() error {
	r.Normalize()
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.CFMSID) {
		errs = append(errs, validator.ValidationError{
			Field:   "cfms_id",
			Message: "cfms_id is required",
		})
	} else if !validator.IsValidIdentifier(r.CFMSID) {
		errs = append(errs, validator.ValidationError{
			Field:   "cfms_id",
			Message: "cfms_id may only contain letters, digits and dashes (max 20)",
		})
	}
	if r.EmployeeID != "" && !validator.IsValidIdentifier(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id may only contain letters, digits and dashes (max 20)",
		})
	}
	if r.Email != "" && !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}
	if r.MobileNo != "" && !validator.IsValidMobile(r.MobileNo) {
		errs = append(errs, validator.ValidationError{
			Field:   "mobile_no",
			Message: "mobile_no must be a 10 digit mobile number",
		})
	}
	for field, value := range map[string]string{"dob": r.DOB, "dor": r.DOR, "doj": r.DOJ} {
		if validator.IsEmpty(value) {
			continue
		}
		if _, ok := datefmt.Normalize(value); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: field + " must be a valid date (DD/MM/YYYY or YYYY-MM-DD)",
			})
		}
	}
	if r.Status != "" && len(r.Status) > 50 {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must not exceed 50 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Apply overlays the request's non-empty fields on base.
func (r AddEntryRequest) Apply(base Entry) Entry {
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	setDate := func(dst **string, v string) {
		if p := datefmt.NormalizePtr(v); p != nil {
			*dst = p
		}
	}

	set(&base.CFMSID, r.CFMSID)
	set(&base.EmployeeID, r.EmployeeID)
	set(&base.EmployeeName, r.EmployeeName)
	set(&base.FirstName, r.FirstName)
	set(&base.SirName, r.SirName)
	set(&base.MobileNo, validator.NormalizeMobile(r.MobileNo))
	set(&base.Email, r.Email)
	set(&base.Position, r.Position)
	set(&base.Role, r.Role)
	set(&base.Designation, r.Designation)
	set(&base.Department, r.Department)
	set(&base.District, r.District)
	set(&base.DistCode, r.DistCode)
	set(&base.DeptID, r.DeptID)
	set(&base.Gender, r.Gender)
	set(&base.Status, r.Status)
	setDate(&base.DOB, r.DOB)
	setDate(&base.DOR, r.DOR)
	setDate(&base.DOJ, r.DOJ)
	return base
}

// ValidateResult is the outcome of a CFMS ID availability check.
type ValidateResult struct {
	Exists   bool
	Existing *Entry
}

// LookupState is where the add/remove search landed.
type LookupState string

const (
	LookupExists   LookupState = "exists"
	LookupFound    LookupState = "found"
	LookupNotFound LookupState = "not_found"
)

// LookupResult reports the directory match when one exists, otherwise the
// master candidates that could be added.
type LookupResult struct {
	State      LookupState          `json:"state"`
	Existing   []Entry              `json:"existing,omitempty"`
	Candidates []master.StaffRecord `json:"candidates"`
}

// SearchAllResult is one page of a broad master search.
type SearchAllResult struct {
	Total        int64                `json:"total"`
	Page         int                  `json:"page"`
	Limit        int                  `json:"limit"`
	RowsReturned int                  `json:"rowsReturned"`
	HasMore      bool                 `json:"hasMore"`
	Rows         []master.StaffRecord `json:"rows"`
}

// NewSearchAllResult derives the paging fields from p and the filter used.
func NewSearchAllResult(p staff.Page[master.StaffRecord], f staff.Filter) SearchAllResult {
	rows := p.Rows
	if rows == nil {
		rows = []master.StaffRecord{}
	}
	return SearchAllResult{
		Total:        p.Total,
		Page:         f.Page,
		Limit:        f.Limit,
		RowsReturned: len(rows),
		HasMore:      int64(f.Offset()+len(rows)) < p.Total,
		Rows:         rows,
	}
}
