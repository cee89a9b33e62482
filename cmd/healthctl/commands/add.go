package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/octabyte/bm-health-portal/enums"
	"github.com/octabyte/bm-health-portal/models"
	"github.com/octabyte/bm-health-portal/views"
)

func newAddCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a record for the signed-in patient",
	}
	cmd.AddCommand(
		newAddAppointmentCommand(a),
		newAddMedicationCommand(a),
		newAddConditionCommand(a),
		newAddAllergyCommand(a),
	)
	return cmd
}

// created sends payload as built and prints the stored record. The API is
// the one that rejects incomplete records.
func created[T any](cmd *cobra.Command, payload T, create func(T) (T, error)) error {
	out, err := create(payload)
	if err != nil {
		return err
	}
	return printJSON(cmd, out)
}

func newAddAppointmentCommand(a *app) *cobra.Command {
	var form views.AppointmentForm
	cmd := &cobra.Command{
		Use:   "appointment",
		Short: "Request an appointment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return created(cmd, form.Payload(), func(p models.Appointment) (models.Appointment, error) {
				return a.client.Appointments.Create(cmd.Context(), p)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&form.Doctor, "doctor", "", "Doctor name")
	f.StringVar(&form.Specialty, "specialty", "", "Specialty")
	f.StringVar(&form.Date, "date", "", "Date, YYYY-MM-DD")
	f.StringVar(&form.Time, "time", "", "Time, HH:MM")
	f.StringVar(&form.Location, "location", "", "Location")
	f.StringVar(&form.Type, "type", "", "Visit type")
	f.StringVar(&form.Reason, "reason", "", "Reason for the visit")
	return cmd
}

func newAddMedicationCommand(a *app) *cobra.Command {
	var (
		form     views.MedicationForm
		asNeeded bool
		refills  int
	)
	cmd := &cobra.Command{
		Use:   "medication",
		Short: "Add a current or as-needed medication",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind := enums.MedicationTypeCurrent
			if asNeeded {
				kind = enums.MedicationTypeAsNeeded
			}
			if cmd.Flags().Changed("refills") {
				form.RefillsRemaining = &refills
			}
			return created(cmd, form.Payload(kind, time.Now()), func(p models.Medication) (models.Medication, error) {
				return a.client.Medications.Create(cmd.Context(), p)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&form.Name, "name", "", "Medication name")
	f.StringVar(&form.Dosage, "dosage", "", "Dosage, e.g. 10mg")
	f.StringVar(&form.Frequency, "frequency", "", "How often to take it")
	f.StringVar(&form.Time, "time", "", "Time of day")
	f.StringVar(&form.PrescribedBy, "prescribed-by", "", "Prescribing doctor")
	f.StringVar(&form.Indication, "indication", "", "What it treats")
	f.StringVar(&form.Instructions, "instructions", "", "Instructions")
	f.IntVar(&refills, "refills", 0, "Refills remaining")
	f.BoolVar(&asNeeded, "as-needed", false, "Taken as needed rather than on a schedule")
	return cmd
}

func newAddConditionCommand(a *app) *cobra.Command {
	var form views.ConditionForm
	cmd := &cobra.Command{
		Use:   "condition",
		Short: "Record a medical condition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return created(cmd, form.Payload(), func(p models.MedicalCondition) (models.MedicalCondition, error) {
				return a.client.Conditions.Create(cmd.Context(), p)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&form.Name, "name", "", "Condition name")
	f.StringVar(&form.Status, "status", enums.ConditionStatusActive, "active, resolved, managed or chronic")
	f.StringVar(&form.DiagnosedDate, "diagnosed", "", "Diagnosis date, YYYY-MM-DD")
	f.StringVar(&form.Severity, "severity", enums.SeverityMild, "mild, moderate or severe")
	f.StringVar(&form.Notes, "notes", "", "Notes")
	return cmd
}

func newAddAllergyCommand(a *app) *cobra.Command {
	var form views.AllergyForm
	cmd := &cobra.Command{
		Use:   "allergy",
		Short: "Record an allergy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return created(cmd, form.Payload(), func(p models.Allergy) (models.Allergy, error) {
				return a.client.Allergies.Create(cmd.Context(), p)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&form.Allergen, "allergen", "", "What causes the reaction")
	f.StringVar(&form.Reaction, "reaction", "", "Reaction")
	f.StringVar(&form.Severity, "severity", enums.SeverityMild, "mild, moderate or severe")
	f.StringVar(&form.FirstOccurrence, "first-occurrence", "", "First occurrence, YYYY-MM-DD")
	return cmd
}
