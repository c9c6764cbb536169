package leave

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status codes reported by Sage HR for a leave request.
const (
	StatusCodeApproved  = "approved"
	StatusCodeCanceled  = "canceled"
	StatusCodeCancelled = "cancelled"
)

// Policy is a Sage HR leave policy (e.g. "Vacaciones").
type Policy struct {
	ID               int64
	Name             string
	Color            string
	DoNotAccrue      bool
	Unit             string
	DefaultAllowance decimal.Decimal
	MaxCarryover     decimal.Decimal
	AccrueType       string
}

// Employee is the subset of the Sage HR employee record the sync relies on.
type Employee struct {
	ID                  int64
	Email               string
	FirstName           string
	LastName            string
	PictureURL          string
	EmploymentStartDate string
	DateOfBirth         string
	Team                string
	TeamID              *int64
	Position            string
	PositionID          *int64
	ReportsToEmployeeID *int64
	WorkPhone           string
	HomePhone           string
	MobilePhone         string
	Gender              string
	StreetFirst         string
	StreetSecond        string
	City                string
	PostCode            string
	Country             string // ISO 3166-1 alpha-2
	EmployeeNumber      string
	EmploymentStatus    string
}

// FullName returns "First Last".
func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

type Replacement struct {
	ID       int64
	FullName string
}

type CustomField struct {
	Title  string
	Answer string
}

// LeaveRequest is a Sage HR leave request with its policy and employee resolved.
// Dates are "2006-01-02" strings and times "15:04" strings, as Sage reports them.
type LeaveRequest struct {
	ID          int64
	Status      string
	StatusCode  string
	PolicyID    int64
	Policy      *Policy
	EmployeeID  int64
	Employee    *Employee
	Replacement *Replacement
	Details     string

	IsMultiDate     bool
	IsSingleDay     bool
	IsPartOfDay     bool
	FirstPartOfDay  bool
	SecondPartOfDay bool

	StartDate    string
	EndDate      string
	RequestDate  string
	ApprovalDate *string
	Hours        decimal.NullDecimal
	SpecificTime bool
	StartTime    string
	EndTime      string

	ChildID          *int64
	SharedPersonName string
	SharedPersonNIN  string
	Fields           []CustomField
}

func (lr LeaveRequest) IsApproved() bool {
	return lr.StatusCode == StatusCodeApproved
}

func (lr LeaveRequest) IsCancelled() bool {
	return lr.StatusCode == StatusCodeCanceled || lr.StatusCode == StatusCodeCancelled
}

// HasTimes reports whether the request covers a time window rather than whole days.
func (lr LeaveRequest) HasTimes() bool {
	return lr.StartTime != "" && lr.EndTime != ""
}

func (lr LeaveRequest) EmployeeName() string {
	if lr.Employee == nil {
		return ""
	}
	return lr.Employee.FullName()
}

func (lr LeaveRequest) PolicyName() string {
	if lr.Policy == nil {
		return ""
	}
	return lr.Policy.Name
}

// LeaveRequestCalendarEvent maps a Sage leave request to the event an integration
// created for it. CalendarEventID stays nil until the remote event exists.
type LeaveRequestCalendarEvent struct {
	ID                 int64
	Integration        string
	SageLeaveRequestID int64
	CalendarEventID    *string
	StartDateTime      time.Time
	EndDateTime        time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (e LeaveRequestCalendarEvent) HasCalendarEvent() bool {
	return e.CalendarEventID != nil && *e.CalendarEventID != ""
}
