package resources

import (
	"context"

	"github.com/octabyte/bm-health-portal/enums"
	"github.com/octabyte/bm-health-portal/models"
	"github.com/octabyte/bm-health-portal/session"
)

type Conditions struct {
	collection[models.MedicalCondition]
}

func NewConditions(gw Doer, store session.Store) *Conditions {
	return &Conditions{newCollection[models.MedicalCondition](gw, store, enums.MedicalConditionResource)}
}

type Allergies struct {
	collection[models.Allergy]
}

func NewAllergies(gw Doer, store session.Store) *Allergies {
	return &Allergies{newCollection[models.Allergy](gw, store, enums.AllergyResource)}
}

type LabResults struct {
	collection[models.LabResult]
}

func NewLabResults(gw Doer, store session.Store) *LabResults {
	return &LabResults{newCollection[models.LabResult](gw, store, enums.LabResultResource)}
}

type Appointments struct {
	collection[models.Appointment]
}

func NewAppointments(gw Doer, store session.Store) *Appointments {
	return &Appointments{newCollection[models.Appointment](gw, store, enums.AppointmentResource)}
}

func (a *Appointments) GetUpcoming(ctx context.Context) ([]models.Appointment, error) {
	return a.list(ctx, "upcoming")
}

func (a *Appointments) GetPast(ctx context.Context) ([]models.Appointment, error) {
	return a.list(ctx, "past")
}

type Medications struct {
	collection[models.Medication]
}

func NewMedications(gw Doer, store session.Store) *Medications {
	return &Medications{newCollection[models.Medication](gw, store, enums.MedicationResource)}
}

func (m *Medications) GetCurrent(ctx context.Context) ([]models.Medication, error) {
	return m.list(ctx, "current")
}

func (m *Medications) GetAsNeeded(ctx context.Context) ([]models.Medication, error) {
	return m.list(ctx, "as-needed")
}
