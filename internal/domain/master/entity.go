package master

import (
	"strings"

	"github.com/cdma-ap/cmsnr-directory/internal/domain/staff"
	"github.com/shopspring/decimal"
)

// StaffRecord is one row of the externally loaded master staff table. Date
// fields keep their stored text form; use datefmt to read them.
type StaffRecord struct {
	EmployeeID      string           `json:"employeeid"`
	CFMSID          string           `json:"cfms_id"`
	Name            string           `json:"name"`
	Surname         string           `json:"surname"`
	FatherName      string           `json:"fathername"`
	Designation     string           `json:"designation"`
	DesgCode        string           `json:"desgcode"`
	DeptID          string           `json:"dept_id"`
	DepartmentName  string           `json:"department_name"`
	DepartmentCode  string           `json:"department_code"`
	DistCode        string           `json:"distcode"`
	DistName        string           `json:"distname"`
	DescriptionLong string           `json:"description_long"`
	MobileNo        string           `json:"mobileno"`
	Email1          string           `json:"email1"`
	DOJ             string           `json:"doj"`
	DOR             string           `json:"dor"`
	DOB             string           `json:"dob"`
	BasicPay        *decimal.Decimal `json:"basicpay"`
	Gross           *decimal.Decimal `json:"gross"`
	GenderDesc      string           `json:"gender_desc"`
	EmployeeStatus  string           `json:"employee_status"`
	PositionName    string           `json:"position_name"`

	StatusCategory staff.StatusCategory `json:"status_category"`
}

func (r StaffRecord) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(r.Name) + " " + strings.TrimSpace(r.Surname))
}

func (r StaffRecord) DisplaySource() staff.DisplaySource {
	return staff.DisplaySource{
		EmployeeID:      r.EmployeeID,
		CFMSID:          r.CFMSID,
		Name:            r.Name,
		Surname:         r.Surname,
		Designation:     r.Designation,
		DescriptionLong: r.DescriptionLong,
		DistName:        r.DistName,
		DepartmentName:  r.DepartmentName,
		Email:           r.Email1,
		Mobile:          r.MobileNo,
		Status:          r.EmployeeStatus,
		DOB:             r.DOB,
		DOR:             r.DOR,
		DOJ:             r.DOJ,
	}
}

// ParsePay reads a stored pay figure such as "1,23,456.00". Unparseable or
// empty text yields nil.
func ParsePay(text string) *decimal.Decimal {
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	if text == "" {
		return nil
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return nil
	}
	return &d
}
