package sage

import (
	"bytes"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// page is the list envelope every Sage HR collection endpoint returns.
type page[T any] struct {
	Data []T       `json:"data"`
	Meta *pageMeta `json:"meta"`
}

type pageMeta struct {
	CurrentPage  int  `json:"current_page"`
	NextPage     *int `json:"next_page"`
	PreviousPage *int `json:"previous_page"`
	TotalPages   int  `json:"total_pages"`
	PerPage      int  `json:"per_page"`
	TotalEntries int  `json:"total_entries"`
}

// flexString accepts both JSON strings and numbers. Sage reports some
// identifiers (post codes) as either.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	n, err := decimal.NewFromString(string(b))
	if err != nil {
		return err
	}
	*s = flexString(n.String())
	return nil
}

type wireReplacement struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
}

type wireCustomField struct {
	Title  string `json:"title"`
	Answer string `json:"answer"`
}

type wireLeaveRequest struct {
	ID               int64               `json:"id"`
	Status           string              `json:"status"`
	StatusCode       string              `json:"status_code"`
	PolicyID         int64               `json:"policy_id"`
	EmployeeID       int64               `json:"employee_id"`
	Replacement      *wireReplacement    `json:"replacement"`
	Details          string              `json:"details"`
	IsMultiDate      bool                `json:"is_multi_date"`
	IsSingleDay      bool                `json:"is_single_day"`
	IsPartOfDay      bool                `json:"is_part_of_day"`
	FirstPartOfDay   bool                `json:"first_part_of_day"`
	SecondPartOfDay  bool                `json:"second_part_of_day"`
	StartDate        string              `json:"start_date"`
	EndDate          string              `json:"end_date"`
	RequestDate      string              `json:"request_date"`
	ApprovalDate     *string             `json:"approval_date"`
	Hours            decimal.NullDecimal `json:"hours"`
	SpecificTime     bool                `json:"specific_time"`
	StartTime        string              `json:"start_time"`
	EndTime          string              `json:"end_time"`
	ChildID          *int64              `json:"child_id"`
	SharedPersonName string              `json:"shared_person_name"`
	SharedPersonNIN  string              `json:"shared_person_nin"`
	Fields           []wireCustomField   `json:"fields"`
}

type wirePolicy struct {
	ID               int64           `json:"id"`
	Name             string          `json:"name"`
	Color            string          `json:"color"`
	DoNotAccrue      bool            `json:"do_not_accrue"`
	Unit             string          `json:"unit"`
	DefaultAllowance decimal.Decimal `json:"default_allowance"`
	MaxCarryover     decimal.Decimal `json:"max_carryover"`
	AccrueType       string          `json:"accrue_type"`
}

type wireEmployee struct {
	ID                  int64      `json:"id"`
	Email               string     `json:"email"`
	FirstName           string     `json:"first_name"`
	LastName            string     `json:"last_name"`
	PictureURL          string     `json:"picture_url"`
	EmploymentStartDate string     `json:"employment_start_date"`
	DateOfBirth         string     `json:"date_of_birth"`
	Team                string     `json:"team"`
	TeamID              *int64     `json:"team_id"`
	Position            string     `json:"position"`
	PositionID          *int64     `json:"position_id"`
	ReportsToEmployeeID *int64     `json:"reports_to_employee_id"`
	WorkPhone           string     `json:"work_phone"`
	HomePhone           string     `json:"home_phone"`
	MobilePhone         string     `json:"mobile_phone"`
	Gender              string     `json:"gender"`
	StreetFirst         string     `json:"street_first"`
	StreetSecond        string     `json:"street_second"`
	City                string     `json:"city"`
	PostCode            flexString `json:"post_code"`
	Country             string     `json:"country"`
	EmployeeNumber      string     `json:"employee_number"`
	EmploymentStatus    string     `json:"employment_status"`
}
