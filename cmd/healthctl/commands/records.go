package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/octabyte/bm-health-portal/enums"
)

// newViewCommand wraps a loader whose result is printed as JSON.
func newViewCommand(use, short string, load func(ctx context.Context) (any, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := load(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
}

func newDashboardCommand(a *app) *cobra.Command {
	return newViewCommand("dashboard", "Show the patient and upcoming appointments", func(ctx context.Context) (any, error) {
		return a.loader.LoadDashboard(ctx)
	})
}

func newAppointmentsCommand(a *app) *cobra.Command {
	return newViewCommand("appointments", "List upcoming and past appointments", func(ctx context.Context) (any, error) {
		return a.loader.LoadAppointments(ctx)
	})
}

func newMedicationsCommand(a *app) *cobra.Command {
	return newViewCommand("medications", "List current and as-needed medications", func(ctx context.Context) (any, error) {
		return a.loader.LoadMedications(ctx)
	})
}

func newHistoryCommand(a *app) *cobra.Command {
	return newViewCommand("history", "List conditions, allergies and procedures", func(ctx context.Context) (any, error) {
		return a.loader.LoadMedicalHistory(ctx)
	})
}

func newLabsCommand(a *app) *cobra.Command {
	return newViewCommand("labs", "List lab results", func(ctx context.Context) (any, error) {
		return a.loader.LoadLabResults(ctx)
	})
}

func newProfileCommand(a *app) *cobra.Command {
	return newViewCommand("profile", "Show the patient profile", func(ctx context.Context) (any, error) {
		return a.loader.LoadProfile(ctx)
	})
}

func newDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <resource> <id>",
		Short: "Delete one record",
		Long: `Delete one record of the signed-in patient. resource is one of
appointments, medications, conditions, allergies or labs.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid id %q", args[1])
			}

			ctx := cmd.Context()
			res := a.client.Resources
			switch args[0] {
			case enums.AppointmentResource:
				err = res.Appointments.Delete(ctx, id)
			case enums.MedicationResource:
				err = res.Medications.Delete(ctx, id)
			case enums.MedicalConditionResource, "conditions":
				err = res.Conditions.Delete(ctx, id)
			case enums.AllergyResource:
				err = res.Allergies.Delete(ctx, id)
			case enums.LabResultResource, "labs":
				err = res.LabResults.Delete(ctx, id)
			default:
				return fmt.Errorf("unknown resource %q", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s #%d\n", args[0], id)
			return nil
		},
	}
}
