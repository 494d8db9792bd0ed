package staff

// Card identifies a summary card that can be used as a quick filter.
type Card string

const (
	CardNone               Card = ""
	CardAll                Card = "all"
	CardRegular            Card = "regular"
	CardIncharge           Card = "incharge"
	CardSuspended          Card = "suspended"
	CardBirthdaysThisMonth Card = "birthdaysThisMonth"
	CardBirthdaysNextMonth Card = "birthdaysNextMonth"
	CardRetiringThisYear   Card = "retiringThisYear"
	CardOnLeaveToday       Card = "onLeaveToday"
	CardLeaveTomorrow      Card = "leaveTomorrow"
	CardUpcomingLeaves     Card = "upcomingLeaves"
)

type cardEffect struct {
	status   StatusCategory
	birthday MonthBucket
	retiring YearBucket
}

// Leave cards have no backing data and apply no filter.
var cardEffects = map[Card]cardEffect{
	CardAll:                {},
	CardRegular:            {status: StatusRegular},
	CardIncharge:           {status: StatusIncharge},
	CardSuspended:          {status: StatusSuspended},
	CardBirthdaysThisMonth: {birthday: MonthCurrent},
	CardBirthdaysNextMonth: {birthday: MonthNext},
	CardRetiringThisYear:   {retiring: YearCurrent},
	CardOnLeaveToday:       {},
	CardLeaveTomorrow:      {},
	CardUpcomingLeaves:     {},
}

func ParseCard(s string) (Card, bool) {
	c := Card(s)
	_, ok := cardEffects[c]
	return c, ok
}

// FilterState is the complete client-side filter selection. It is a value
// type; Reduce returns a new state and never mutates its input.
type FilterState struct {
	Search      string
	DistCode    string
	DeptID      string
	Designation string

	ActiveCard    Card
	Status        StatusCategory
	BirthdayMonth MonthBucket
	RetiringYear  YearBucket

	Page  int
	Limit int
}

// Action is a single user-driven change to a FilterState.
type Action interface {
	reduce(FilterState) FilterState
}

type (
	CardClicked        struct{ Card Card }
	CardCleared        struct{}
	SearchChanged      struct{ Term string }
	DistrictChanged    struct{ DistCode string }
	DepartmentChanged  struct{ DeptID string }
	DesignationChanged struct{ Designation string }
	PageChanged        struct{ Page int }
	LimitChanged       struct{ Limit int }
)

// Reduce applies a to s.
func Reduce(s FilterState, a Action) FilterState {
	if a == nil {
		return s
	}
	return a.reduce(s)
}

func (a CardClicked) reduce(s FilterState) FilterState {
	effect, ok := cardEffects[a.Card]
	if !ok {
		return s
	}
	if s.ActiveCard == a.Card {
		return CardCleared{}.reduce(s)
	}

	// A card supersedes every other filter dimension.
	return FilterState{
		ActiveCard:    a.Card,
		Status:        effect.status,
		BirthdayMonth: effect.birthday,
		RetiringYear:  effect.retiring,
		Page:          1,
		Limit:         s.Limit,
	}
}

func (CardCleared) reduce(s FilterState) FilterState {
	s.ActiveCard = CardNone
	s.Status = StatusUnknown
	s.BirthdayMonth = MonthAny
	s.RetiringYear = YearAny
	s.Page = 1
	return s
}

func (a SearchChanged) reduce(s FilterState) FilterState {
	if s.Search != a.Term {
		s.Search = a.Term
		s.Page = 1
	}
	return s
}

func (a DistrictChanged) reduce(s FilterState) FilterState {
	if s.DistCode != a.DistCode {
		s.DistCode = a.DistCode
		s.Page = 1
	}
	return s
}

func (a DepartmentChanged) reduce(s FilterState) FilterState {
	if s.DeptID != a.DeptID {
		s.DeptID = a.DeptID
		s.Page = 1
	}
	return s
}

func (a DesignationChanged) reduce(s FilterState) FilterState {
	if s.Designation != a.Designation {
		s.Designation = a.Designation
		s.Page = 1
	}
	return s
}

func (a PageChanged) reduce(s FilterState) FilterState {
	if a.Page < 1 {
		a.Page = 1
	}
	s.Page = a.Page
	return s
}

func (a LimitChanged) reduce(s FilterState) FilterState {
	s.Limit = a.Limit
	s.Page = 1
	return s
}

// Filter converts the state into query filter parameters.
func (s FilterState) Filter() Filter {
	return Filter{
		Search:        s.Search,
		DistCode:      s.DistCode,
		DeptID:        s.DeptID,
		Designation:   s.Designation,
		Status:        s.Status,
		BirthdayMonth: s.BirthdayMonth,
		RetiringYear:  s.RetiringYear,
		Page:          s.Page,
		Limit:         s.Limit,
	}.WithDefaults()
}
