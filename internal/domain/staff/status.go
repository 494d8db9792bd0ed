package staff

import "strings"

// StatusCategory is the canonical employment state behind the free-text and
// numeric status values found in source records.
type StatusCategory string

const (
	StatusUnknown   StatusCategory = ""
	StatusRegular   StatusCategory = "regular"
	StatusIncharge  StatusCategory = "incharge"
	StatusSuspended StatusCategory = "suspended"
)

// StatusEncoding lists the legacy values that mean one category. Contains
// entries are matched as case-insensitive substrings, Exact entries as whole
// values.
type StatusEncoding struct {
	Contains []string
	Exact    []string
}

var statusEncodings = map[StatusCategory]StatusEncoding{
	StatusRegular:   {Contains: []string{"REGULAR"}, Exact: []string{"1", "ACTIVE"}},
	StatusIncharge:  {Contains: []string{"INCHARGE"}, Exact: []string{"2"}},
	StatusSuspended: {Contains: []string{"SUSPEN"}, Exact: []string{"3"}},
}

// Classification order when a value matches more than one category.
var statusOrder = []StatusCategory{StatusRegular, StatusIncharge, StatusSuspended}

// Categories returns the known categories in classification order.
func Categories() []StatusCategory {
	out := make([]StatusCategory, len(statusOrder))
	copy(out, statusOrder)
	return out
}

// Encoding returns the legacy values that map to c.
func (c StatusCategory) Encoding() StatusEncoding {
	return statusEncodings[c]
}

func (c StatusCategory) Valid() bool {
	_, ok := statusEncodings[c]
	return ok
}

// Label is the display form used for the responsibilities field.
func (c StatusCategory) Label() string {
	switch c {
	case StatusRegular:
		return "Regular"
	case StatusIncharge:
		return "Incharge"
	case StatusSuspended:
		return "Suspended"
	default:
		return ""
	}
}

// ParseStatusCategory reads a category name as sent by clients.
func ParseStatusCategory(s string) (StatusCategory, bool) {
	c := StatusCategory(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return StatusUnknown, false
	}
	return c, true
}

// ClassifyStatus maps a raw stored status value to its category.
func ClassifyStatus(raw string) StatusCategory {
	v := strings.ToUpper(strings.TrimSpace(raw))
	if v == "" {
		return StatusUnknown
	}
	for _, c := range statusOrder {
		enc := statusEncodings[c]
		for _, e := range enc.Exact {
			if v == e {
				return c
			}
		}
		for _, sub := range enc.Contains {
			if strings.Contains(v, sub) {
				return c
			}
		}
	}
	return StatusUnknown
}
