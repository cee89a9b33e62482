package views

import (
	"time"

	"github.com/octabyte/bm-health-portal/enums"
	"github.com/octabyte/bm-health-portal/models"
	"github.com/octabyte/bm-health-portal/utils"
)

// RefillInterval is how far out a new current medication's first refill is
// scheduled.
const RefillInterval = 30

type AppointmentForm struct {
	Doctor    string
	Specialty string
	Date      string
	Time      string
	Location  string
	Type      string
	Reason    string
}

// Payload builds a new appointment request. New appointments always start
// PENDING.
func (f AppointmentForm) Payload() models.Appointment {
	return models.Appointment{
		Doctor:    f.Doctor,
		Specialty: f.Specialty,
		Date:      f.Date,
		Time:      f.Time,
		Location:  f.Location,
		Type:      f.Type,
		Reason:    f.Reason,
		Status:    enums.AppointmentStatusPending,
	}
}

type ConditionForm struct {
	Name          string
	Status        string
	DiagnosedDate string
	Severity      string
	Notes         string
}

func (f ConditionForm) Payload() models.MedicalCondition {
	return models.MedicalCondition{
		Name:          f.Name,
		Status:        utils.UpperTrim(f.Status),
		DiagnosedDate: f.DiagnosedDate,
		Severity:      utils.UpperTrim(f.Severity),
		Notes:         f.Notes,
	}
}

type AllergyForm struct {
	Allergen        string
	Reaction        string
	Severity        string
	FirstOccurrence string
}

func (f AllergyForm) Payload() models.Allergy {
	return models.Allergy{
		Allergen:        f.Allergen,
		Reaction:        f.Reaction,
		Severity:        utils.UpperTrim(f.Severity),
		FirstOccurrence: f.FirstOccurrence,
	}
}

type MedicationForm struct {
	Name             string
	Dosage           string
	Frequency        string
	Time             string
	PrescribedBy     string
	Indication       string
	RefillsRemaining *int
	Instructions     string
}

// Payload tags the medication with kind. Current medications get a first
// refill RefillInterval days after now; as-needed ones get none.
func (f MedicationForm) Payload(kind enums.MedicationType, now time.Time) models.Medication {
	m := models.Medication{
		Name:             f.Name,
		Dosage:           f.Dosage,
		Frequency:        f.Frequency,
		Time:             f.Time,
		PrescribedBy:     f.PrescribedBy,
		Indication:       f.Indication,
		RefillsRemaining: f.RefillsRemaining,
		Instructions:     f.Instructions,
		Type:             kind,
	}
	if kind == enums.MedicationTypeCurrent {
		refill := utils.FormatDate(utils.AddDays(now, RefillInterval))
		m.NextRefill = &refill
	}
	return m
}

type TestResultRow struct {
	Name   string
	Value  string
	Unit   string
	Range  string
	Status string
}

type LabResultForm struct {
	TestName  string
	Date      string
	OrderedBy string
	Results   []TestResultRow
}

// Payload drops rows missing a name or value. A lab result entered by the
// patient is always COMPLETED.
func (f LabResultForm) Payload() models.LabResult {
	rows := make([]models.TestResult, 0, len(f.Results))
	for _, r := range f.Results {
		if r.Name == "" || r.Value == "" {
			continue
		}
		rows = append(rows, models.TestResult{
			Name:   r.Name,
			Value:  r.Value,
			Unit:   r.Unit,
			Range:  r.Range,
			Status: utils.UpperTrim(r.Status),
		})
	}
	return models.LabResult{
		TestName:    f.TestName,
		Date:        f.Date,
		OrderedBy:   f.OrderedBy,
		Status:      enums.LabResultStatusCompleted,
		TestResults: rows,
	}
}

// ProfileForm is the profile screen's edit state, with insurance grouped.
type ProfileForm struct {
	FirstName                string
	LastName                 string
	Email                    string
	Phone                    string
	DateOfBirth              string
	Address                  string
	City                     string
	State                    string
	ZipCode                  string
	EmergencyContactName     string
	EmergencyContactPhone    string
	EmergencyContactRelation string
	Insurance                models.Insurance
}

func NewProfileForm(p models.Profile) ProfileForm {
	return ProfileForm{
		FirstName:                p.FirstName,
		LastName:                 p.LastName,
		Email:                    p.Email,
		Phone:                    p.Phone,
		DateOfBirth:              p.DateOfBirth,
		Address:                  p.Address,
		City:                     p.City,
		State:                    p.State,
		ZipCode:                  p.ZipCode,
		EmergencyContactName:     p.EmergencyContactName,
		EmergencyContactPhone:    p.EmergencyContactPhone,
		EmergencyContactRelation: p.EmergencyContactRelation,
		Insurance:                p.Insurance(),
	}
}

// Payload flattens the form back into the wire shape of the profile.
func (f ProfileForm) Payload() models.Profile {
	p := models.Profile{
		FirstName:                f.FirstName,
		LastName:                 f.LastName,
		Email:                    f.Email,
		Phone:                    f.Phone,
		DateOfBirth:              f.DateOfBirth,
		Address:                  f.Address,
		City:                     f.City,
		State:                    f.State,
		ZipCode:                  f.ZipCode,
		EmergencyContactName:     f.EmergencyContactName,
		EmergencyContactPhone:    f.EmergencyContactPhone,
		EmergencyContactRelation: f.EmergencyContactRelation,
	}
	p.SetInsurance(f.Insurance)
	return p
}
