package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/octabyte/bm-health-portal/models"
)

const passwordEnv = "HEALTH_PASSWORD"

func newLoginCommand(a *app) *cobra.Command {
	var creds models.Credentials
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and keep the session",
		Long: `Sign in with email and password. The password is read from --password
or, when the flag is omitted, from the HEALTH_PASSWORD environment variable.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if creds.Password == "" {
				creds.Password = os.Getenv(passwordEnv)
			}
			if err := models.ValidateNew(&creds); err != nil {
				return fmt.Errorf("invalid credentials: %w", err)
			}

			resp, err := a.client.Auth.Login(cmd.Context(), creds)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			if resp.Token == "" {
				return errors.New("login failed: the server returned no token")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s %s\n", resp.FirstName, resp.LastName)
			return nil
		},
	}
	cmd.Flags().StringVar(&creds.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&creds.Password, "password", "", "Account password")
	return cmd
}

func newSignupCommand(a *app) *cobra.Command {
	var req models.SignupRequest
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if req.Password == "" {
				req.Password = os.Getenv(passwordEnv)
			}
			if err := models.ValidateNew(&req); err != nil {
				return fmt.Errorf("invalid signup: %w", err)
			}

			resp, err := a.client.Auth.Signup(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("signup failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s (patient #%d)\n", resp.FirstName, resp.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&req.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password, at least 8 characters")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&req.DateOfBirth, "dob", "", "Date of birth, YYYY-MM-DD")
	return cmd
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.client.Auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in patient",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := a.client.Auth.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			if user == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}
			return printJSON(cmd, user)
		},
	}
}
