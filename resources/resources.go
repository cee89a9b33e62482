// Package resources holds one client per backend entity. Every call is
// scoped to the user of the current session.
package resources

import "github.com/octabyte/bm-health-portal/session"

type Resources struct {
	Auth         *Auth
	Profile      *Profile
	Conditions   *Conditions
	Allergies    *Allergies
	Appointments *Appointments
	Medications  *Medications
	LabResults   *LabResults
}

func New(gw Doer, store session.Store, notifier session.Notifier) *Resources {
	return &Resources{
		Auth:         NewAuth(gw, store, notifier),
		Profile:      NewProfile(gw, store),
		Conditions:   NewConditions(gw, store),
		Allergies:    NewAllergies(gw, store),
		Appointments: NewAppointments(gw, store),
		Medications:  NewMedications(gw, store),
		LabResults:   NewLabResults(gw, store),
	}
}
