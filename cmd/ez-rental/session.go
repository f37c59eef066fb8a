package main

import (
	"fmt"

	"github.com/livefire2015/ez-rental/src/services"
	"github.com/spf13/cobra"
)

func signInCmd(a *app) *cobra.Command {
	var creds services.Credentials

	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in and remember the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.session.SignIn(cmd.Context(), creds)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s <%s> (%s)\n", user.Name, user.Email, user.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&creds.Email, "email", "", "account email")
	cmd.Flags().StringVar(&creds.Password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func signOutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "End the remembered session",
		Run: func(cmd *cobra.Command, args []string) {
			a.session.SignOut(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "signed out")
		},
	}
}

func whoAmICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user and role capabilities",
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			if user, ok := a.session.Current(); ok {
				fmt.Fprintf(w, "%s <%s> (%s)\n", user.Name, user.Email, user.Role)
			} else {
				fmt.Fprintln(w, "anonymous")
			}
			caps := a.session.Capabilities()
			fmt.Fprintf(w, "authenticated=%t landlord=%t seeker=%t tenant=%t admin=%t\n",
				caps.IsAuthenticated, caps.IsLandlord, caps.IsSeeker, caps.IsTenant, caps.IsAdmin)
		},
	}
}
