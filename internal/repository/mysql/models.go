package mysql

import (
	"time"

	"github.com/cdma-ap/cmsnr-directory/internal/domain/birthday"
	"github.com/cdma-ap/cmsnr-directory/internal/domain/directory"
	"github.com/cdma-ap/cmsnr-directory/internal/domain/master"
	"github.com/cdma-ap/cmsnr-directory/internal/domain/staff"
	"github.com/cdma-ap/cmsnr-directory/internal/pkg/datefmt"
)

type directoryRow struct {
	SNo          int64      `gorm:"column:sno;primaryKey;autoIncrement"`
	CFMSID       string     `gorm:"column:cfms_id"`
	EmployeeID   string     `gorm:"column:employee_id"`
	EmployeeName string     `gorm:"column:employee_name"`
	SirName      string     `gorm:"column:sir_name"`
	FirstName    string     `gorm:"column:first_name"`
	MobileNo     string     `gorm:"column:mobile_no"`
	Email        string     `gorm:"column:email"`
	Position     string     `gorm:"column:position"`
	Role         string     `gorm:"column:role"`
	Designation  string     `gorm:"column:designation"`
	Department   string     `gorm:"column:department"`
	District     string     `gorm:"column:district"`
	DistCode     string     `gorm:"column:distcode"`
	DeptID       string     `gorm:"column:dept_id"`
	Gender       string     `gorm:"column:gender"`
	Status       string     `gorm:"column:status"`
	DOB          *time.Time `gorm:"column:dob;type:date"`
	DOR          *time.Time `gorm:"column:dor;type:date"`
	DOJ          *time.Time `gorm:"column:doj;type:date"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (directoryRow) TableName() string { return "commissioner_directory" }

// Columns rewritten by an upsert; sno and created_at are kept.
var directoryUpsertColumns = []string{
	"employee_id", "employee_name", "sir_name", "first_name", "mobile_no",
	"email", "position", "role", "designation", "department", "district",
	"distcode", "dept_id", "gender", "status", "dob", "dor", "doj",
}

func newDirectoryRow(e directory.Entry) directoryRow {
	return directoryRow{
		SNo:          e.SNo,
		CFMSID:       e.CFMSID,
		EmployeeID:   e.EmployeeID,
		EmployeeName: e.EmployeeName,
		SirName:      e.SirName,
		FirstName:    e.FirstName,
		MobileNo:     e.MobileNo,
		Email:        e.Email,
		Position:     e.Position,
		Role:         e.Role,
		Designation:  e.Designation,
		Department:   e.Department,
		District:     e.District,
		DistCode:     e.DistCode,
		DeptID:       e.DeptID,
		Gender:       e.Gender,
		Status:       e.Status,
		DOB:          dateValue(e.DOB),
		DOR:          dateValue(e.DOR),
		DOJ:          dateValue(e.DOJ),
	}
}

func (r directoryRow) entry() directory.Entry {
	return directory.Entry{
		SNo:          r.SNo,
		CFMSID:       r.CFMSID,
		EmployeeID:   r.EmployeeID,
		EmployeeName: r.EmployeeName,
		SirName:      r.SirName,
		FirstName:    r.FirstName,
		MobileNo:     r.MobileNo,
		Email:        r.Email,
		Position:     r.Position,
		Role:         r.Role,
		Designation:  r.Designation,
		Department:   r.Department,
		District:     r.District,
		DistCode:     r.DistCode,
		DeptID:       r.DeptID,
		Gender:       r.Gender,
		Status:       r.Status,
		DOB:          datefmt.NormalizePtr(r.DOB),
		DOR:          datefmt.NormalizePtr(r.DOR),
		DOJ:          datefmt.NormalizePtr(r.DOJ),
		CreatedAt:    r.CreatedAt,
	}
}

type staffRow struct {
	EmployeeID      string `gorm:"column:employeeid;primaryKey"`
	CFMSID          string `gorm:"column:cfms_id"`
	Name            string `gorm:"column:name"`
	Surname         string `gorm:"column:surname"`
	FatherName      string `gorm:"column:fathername"`
	Designation     string `gorm:"column:designation"`
	DesgCode        string `gorm:"column:desgcode"`
	DeptID          string `gorm:"column:dept_id"`
	DepartmentName  string `gorm:"column:department_name"`
	DepartmentCode  string `gorm:"column:department_code"`
	DistCode        string `gorm:"column:distcode"`
	DistName        string `gorm:"column:distname"`
	DescriptionLong string `gorm:"column:description_long"`
	MobileNo        string `gorm:"column:mobileno"`
	Email1          string `gorm:"column:email1"`
	DOJ             string `gorm:"column:doj"`
	DOR             string `gorm:"column:dor"`
	DOB             string `gorm:"column:dob"`
	BasicPay        string `gorm:"column:basicpay"`
	Gross           string `gorm:"column:gross"`
	GenderDesc      string `gorm:"column:gender_desc"`
	EmployeeStatus  string `gorm:"column:employee_status"`
	PositionName    string `gorm:"column:position_name"`
}

func (staffRow) TableName() string { return "master_staff" }

func (r staffRow) record() master.StaffRecord {
	return master.StaffRecord{
		EmployeeID:      r.EmployeeID,
		CFMSID:          r.CFMSID,
		Name:            r.Name,
		Surname:         r.Surname,
		FatherName:      r.FatherName,
		Designation:     r.Designation,
		DesgCode:        r.DesgCode,
		DeptID:          r.DeptID,
		DepartmentName:  r.DepartmentName,
		DepartmentCode:  r.DepartmentCode,
		DistCode:        r.DistCode,
		DistName:        r.DistName,
		DescriptionLong: r.DescriptionLong,
		MobileNo:        r.MobileNo,
		Email1:          r.Email1,
		DOJ:             r.DOJ,
		DOR:             r.DOR,
		DOB:             r.DOB,
		BasicPay:        master.ParsePay(r.BasicPay),
		Gross:           master.ParsePay(r.Gross),
		GenderDesc:      r.GenderDesc,
		EmployeeStatus:  r.EmployeeStatus,
		PositionName:    r.PositionName,
		StatusCategory:  staff.ClassifyStatus(r.EmployeeStatus),
	}
}

func (r staffRow) candidate() birthday.Candidate {
	return birthday.Candidate{
		Name:       r.Name,
		Surname:    r.Surname,
		MobileNo:   r.MobileNo,
		EmployeeID: r.EmployeeID,
	}
}

func dateValue(v *string) *time.Time {
	t, ok := datefmt.Parse(v)
	if !ok {
		return nil
	}
	return &t
}
