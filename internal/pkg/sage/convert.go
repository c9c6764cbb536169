package sage

import (
	"github.com/cmlabs-hris/leave-calendar-sync/internal/domain/leave"
	"github.com/shopspring/decimal"
)

// Sage flags some short leaves as single day even though they only cover part of it.
var fullDayHours = decimal.NewFromInt(8)

func toPolicy(w wirePolicy) leave.Policy {
	return leave.Policy{
		ID:               w.ID,
		Name:             w.Name,
		Color:            w.Color,
		DoNotAccrue:      w.DoNotAccrue,
		Unit:             w.Unit,
		DefaultAllowance: w.DefaultAllowance,
		MaxCarryover:     w.MaxCarryover,
		AccrueType:       w.AccrueType,
	}
}

func toEmployee(w wireEmployee) leave.Employee {
	return leave.Employee{
		ID:                  w.ID,
		Email:               w.Email,
		FirstName:           w.FirstName,
		LastName:            w.LastName,
		PictureURL:          w.PictureURL,
		EmploymentStartDate: w.EmploymentStartDate,
		DateOfBirth:         w.DateOfBirth,
		Team:                w.Team,
		TeamID:              w.TeamID,
		Position:            w.Position,
		PositionID:          w.PositionID,
		ReportsToEmployeeID: w.ReportsToEmployeeID,
		WorkPhone:           w.WorkPhone,
		HomePhone:           w.HomePhone,
		MobilePhone:         w.MobilePhone,
		Gender:              w.Gender,
		StreetFirst:         w.StreetFirst,
		StreetSecond:        w.StreetSecond,
		City:                w.City,
		PostCode:            string(w.PostCode),
		Country:             w.Country,
		EmployeeNumber:      w.EmployeeNumber,
		EmploymentStatus:    w.EmploymentStatus,
	}
}

func toLeaveRequest(w wireLeaveRequest, dir *Directory, partOfDay leave.PartOfDayConfig) (leave.LeaveRequest, error) {
	lr := leave.LeaveRequest{
		ID:               w.ID,
		Status:           w.Status,
		StatusCode:       w.StatusCode,
		PolicyID:         w.PolicyID,
		EmployeeID:       w.EmployeeID,
		Details:          w.Details,
		IsMultiDate:      w.IsMultiDate,
		IsSingleDay:      w.IsSingleDay,
		IsPartOfDay:      w.IsPartOfDay,
		FirstPartOfDay:   w.FirstPartOfDay,
		SecondPartOfDay:  w.SecondPartOfDay,
		StartDate:        w.StartDate,
		EndDate:          w.EndDate,
		RequestDate:      w.RequestDate,
		ApprovalDate:     w.ApprovalDate,
		Hours:            w.Hours,
		SpecificTime:     w.SpecificTime,
		StartTime:        w.StartTime,
		EndTime:          w.EndTime,
		ChildID:          w.ChildID,
		SharedPersonName: w.SharedPersonName,
		SharedPersonNIN:  w.SharedPersonNIN,
	}

	if p, ok := dir.Policy(w.PolicyID); ok {
		lr.Policy = &p
	}
	if e, ok := dir.Employee(w.EmployeeID); ok {
		lr.Employee = &e
	}
	if w.Replacement != nil {
		lr.Replacement = &leave.Replacement{ID: w.Replacement.ID, FullName: w.Replacement.FullName}
	}
	for _, f := range w.Fields {
		lr.Fields = append(lr.Fields, leave.CustomField{Title: f.Title, Answer: f.Answer})
	}

	if lr.IsSingleDay && lr.Hours.Valid && lr.Hours.Decimal.LessThan(fullDayHours) {
		lr.IsSingleDay = false
		lr.IsPartOfDay = true
	}

	if err := leave.ApplyPartOfDay(&lr, partOfDay); err != nil {
		return leave.LeaveRequest{}, err
	}
	return lr, nil
}
