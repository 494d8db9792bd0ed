package query

// Columns maps the filter vocabulary onto the columns of one table.
type Columns struct {
	Table string
	// Key is the unique column used as a stable sort tiebreaker.
	Key string

	// NameColumns are matched with a case-insensitive substring search.
	NameColumns []string
	// IdentifierColumns are matched exactly by the search term.
	IdentifierColumns []string
	// BroadColumns are matched by substring in the broad search.
	BroadColumns []string

	DistCode    string
	DeptID      string
	Designation string
	Department  string
	District    string
	Status      string
	Position    string

	// DOB and DOR are typed DATE columns.
	DOB string
	DOR string

	DefaultOrder string
	BroadOrder   string
}

// MasterColumns describes master_staff. dob_on and dor_on are stored columns
// generated from the text dates.
var MasterColumns = Columns{
	Table:             "master_staff",
	Key:               "employeeid",
	NameColumns:       []string{"name", "surname"},
	IdentifierColumns: []string{"employeeid", "cfms_id", "mobileno"},
	BroadColumns:      []string{"name", "surname", "employeeid", "cfms_id", "designation", "department_name", "distname"},
	DistCode:          "distcode",
	DeptID:            "dept_id",
	Designation:       "designation",
	Department:        "department_name",
	District:          "distname",
	Status:            "employee_status",
	Position:          "position_name",
	DOB:               "dob_on",
	DOR:               "dor_on",
	DefaultOrder:      "employeeid ASC",
	BroadOrder:        "name ASC, employeeid ASC",
}

// DirectoryColumns describes commissioner_directory.
var DirectoryColumns = Columns{
	Table:             "commissioner_directory",
	Key:               "sno",
	NameColumns:       []string{"employee_name", "first_name", "sir_name"},
	IdentifierColumns: []string{"employee_id", "cfms_id", "mobile_no"},
	BroadColumns:      []string{"employee_name", "employee_id", "cfms_id", "designation", "department", "district"},
	DistCode:          "distcode",
	DeptID:            "dept_id",
	Designation:       "designation",
	Department:        "department",
	District:          "district",
	Status:            "status",
	Position:          "role",
	DOB:               "dob",
	DOR:               "dor",
	DefaultOrder:      "sno ASC",
	BroadOrder:        "employee_name ASC, sno ASC",
}
