// Package views assembles the data each portal screen needs. Loads that
// touch several resources run in parallel and fail as a whole.
package views

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/octabyte/bm-health-portal/models"
	"github.com/octabyte/bm-health-portal/resources"
)

type Appointments struct {
	Upcoming []models.Appointment `json:"upcoming"`
	Past     []models.Appointment `json:"past"`
}

type Medications struct {
	Current  []models.Medication `json:"current"`
	AsNeeded []models.Medication `json:"asNeeded"`
}

// Procedure has no backend resource yet; MedicalHistory.Procedures is
// always empty.
type Procedure struct {
	Name   string `json:"name"`
	Date   string `json:"date,omitempty"`
	Doctor string `json:"doctor,omitempty"`
}

type MedicalHistory struct {
	Conditions []models.MedicalCondition `json:"conditions"`
	Allergies  []models.Allergy          `json:"allergies"`
	Procedures []Procedure               `json:"procedures"`
}

type Dashboard struct {
	User     *models.UserSummary  `json:"user"`
	Upcoming []models.Appointment `json:"upcoming"`
}

type Loader struct {
	res *resources.Resources
}

func NewLoader(res *resources.Resources) *Loader {
	return &Loader{res: res}
}

func (l *Loader) LoadAppointments(ctx context.Context) (Appointments, error) {
	var out Appointments
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Upcoming, err = l.res.Appointments.GetUpcoming(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.Past, err = l.res.Appointments.GetPast(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Appointments{}, err
	}
	return out, nil
}

func (l *Loader) LoadMedications(ctx context.Context) (Medications, error) {
	var out Medications
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Current, err = l.res.Medications.GetCurrent(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.AsNeeded, err = l.res.Medications.GetAsNeeded(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Medications{}, err
	}
	return out, nil
}

func (l *Loader) LoadMedicalHistory(ctx context.Context) (MedicalHistory, error) {
	out := MedicalHistory{Procedures: []Procedure{}}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Conditions, err = l.res.Conditions.GetAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.Allergies, err = l.res.Allergies.GetAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return MedicalHistory{}, err
	}
	return out, nil
}

// LoadDashboard reads the user from the session, so only the upcoming
// appointments cost a request.
func (l *Loader) LoadDashboard(ctx context.Context) (Dashboard, error) {
	var out Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.User, err = l.res.Auth.CurrentUser(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.Upcoming, err = l.res.Appointments.GetUpcoming(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return out, nil
}

func (l *Loader) LoadLabResults(ctx context.Context) ([]models.LabResult, error) {
	return l.res.LabResults.GetAll(ctx)
}

func (l *Loader) LoadProfile(ctx context.Context) (models.Profile, error) {
	return l.res.Profile.Get(ctx)
}
