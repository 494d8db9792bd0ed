package importer

import (
	"fmt"
	"strings"

	"github.com/cdma-ap/cmsnr-directory/internal/domain/directory"
	"github.com/cdma-ap/cmsnr-directory/internal/pkg/datefmt"
	"github.com/cdma-ap/cmsnr-directory/internal/pkg/validator"
	"golang.org/x/text/unicode/norm"
)

const statusOnLeave = "ON LEAVE"

// Column order of a headerless seed file.
var seedColumns = []string{
	"employee_id", "cfms_id", "surname", "firstname", "dob", "gender",
	"designation", "department", "district", "status", "date_of_retirement",
	"mobile_number", "email",
}

var headerAliases = map[string]string{
	"employeeid":      "employee_id",
	"cfmsid":          "cfms_id",
	"cfms":            "cfms_id",
	"sir_name":        "surname",
	"first_name":      "firstname",
	"date_of_birth":   "dob",
	"dor":             "date_of_retirement",
	"retirement_date": "date_of_retirement",
	"mobile":          "mobile_number",
	"mobile_no":       "mobile_number",
	"mobileno":        "mobile_number",
	"email_id":        "email",
}

// Invalid is a rejected input row. Line is 1-based in the source file.
type Invalid struct {
	Line   int    `json:"line"`
	CFMSID string `json:"cfms_id,omitempty"`
	Reason string `json:"reason"`
}

// ParseRows maps raw cells to directory entries. A first row naming
// cfms_id is read as a header; otherwise the fixed seed column order applies.
func ParseRows(rows [][]string) ([]directory.Entry, []Invalid) {
	index, start := columnIndex(rows)

	var (
		entries []directory.Entry
		invalid []Invalid
		seen    = map[string]int{}
	)
	for i := start; i < len(rows); i++ {
		line := i + 1
		row := rows[i]
		if blankRow(row) {
			continue
		}
		get := func(col string) string {
			j, ok := index[col]
			if !ok || j >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[j])
		}

		e, reason := toEntry(get)
		if reason != "" {
			invalid = append(invalid, Invalid{Line: line, CFMSID: e.CFMSID, Reason: reason})
			continue
		}
		if first, dup := seen[e.CFMSID]; dup {
			invalid = append(invalid, Invalid{Line: line, CFMSID: e.CFMSID, Reason: fmt.Sprintf("duplicate cfms_id, first seen on line %d", first)})
			continue
		}
		seen[e.CFMSID] = line
		entries = append(entries, e)
	}
	return entries, invalid
}

func toEntry(get func(string) string) (directory.Entry, string) {
	first, sir := get("firstname"), get("surname")
	e := directory.Entry{
		CFMSID:       get("cfms_id"),
		EmployeeID:   get("employee_id"),
		EmployeeName: strings.TrimSpace(first + " " + sir),
		FirstName:    first,
		SirName:      sir,
		Gender:       get("gender"),
		Designation:  get("designation"),
		Department:   get("department"),
		District:     get("district"),
		Status:       seedStatus(get("status")),
		MobileNo:     validator.NormalizeMobile(get("mobile_number")),
		Email:        get("email"),
		DOB:          datefmt.NormalizePtr(get("dob")),
		DOR:          datefmt.NormalizePtr(get("date_of_retirement")),
	}

	switch {
	case e.CFMSID == "":
		return e, "cfms_id is required"
	case !validator.IsValidIdentifier(e.CFMSID):
		return e, "cfms_id is not a valid identifier"
	case e.EmployeeID != "" && !validator.IsValidIdentifier(e.EmployeeID):
		return e, "employee_id is not a valid identifier"
	case e.Email != "" && !validator.IsValidEmail(e.Email):
		return e, "email is not valid"
	}
	if raw := get("dob"); raw != "" && e.DOB == nil {
		return e, fmt.Sprintf("dob %q is not a valid date", raw)
	}
	if raw := get("date_of_retirement"); raw != "" && e.DOR == nil {
		return e, fmt.Sprintf("date_of_retirement %q is not a valid date", raw)
	}
	return e, ""
}

func seedStatus(raw string) string {
	if strings.EqualFold(raw, "leave") {
		return statusOnLeave
	}
	return directory.DefaultStatus
}

func columnIndex(rows [][]string) (map[string]int, int) {
	index := map[string]int{}
	if len(rows) > 0 {
		for j, cell := range rows[0] {
			index[normalizeHeader(cell)] = j
		}
		if _, ok := index["cfms_id"]; ok {
			return index, 1
		}
	}

	index = map[string]int{}
	for j, col := range seedColumns {
		index[col] = j
	}
	return index, 0
}

func normalizeHeader(h string) string {
	h = norm.NFC.String(strings.TrimSpace(h))
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ToLower(h)
	h = strings.NewReplacer(" ", "_", "-", "_", ".", "").Replace(h)
	if alias, ok := headerAliases[h]; ok {
		return alias
	}
	return h
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
