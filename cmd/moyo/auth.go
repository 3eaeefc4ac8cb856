package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/garrettladley/moyo/internal/client/moyo"
)

func registerCmd(flags *globalFlags) *cobra.Command {
	var req moyo.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, a *app) error {
			if req.Password == "" {
				pw, err := readPassword()
				if err != nil {
					return err
				}
				req.Password = pw
			}

			u, err := a.session.Register(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("registration failed: %w", err)
			}
			fmt.Printf("Welcome, %s!\n", u.FullName())
			return nil
		}),
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&req.Username, "username", "", "username")
	cmd.Flags().StringVar(&req.Password, "password", "", "password (read from stdin when empty)")
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "last name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func loginCmd(flags *globalFlags) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session locally",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, a *app) error {
			if password == "" {
				pw, err := readPassword()
				if err != nil {
					return err
				}
				password = pw
			}

			u, err := a.session.Login(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			fmt.Printf("Logged in as %s\n", u.Email)
			return nil
		}),
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password (read from stdin when empty)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func logoutCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the session and forget it locally",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, a *app) error {
			if err := a.session.Invalidate(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Logged out")
			return nil
		}),
	}
}

func whoamiCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, a *app) error {
			ctx := cmd.Context()

			u, err := a.client().Profile(ctx)
			if err != nil {
				return err
			}
			isAdmin, err := a.session.IsAdmin(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("Name:   %s\n", u.FullName())
			fmt.Printf("Email:  %s\n", u.Email)
			fmt.Printf("Server: %s\n", a.serverURL)
			if isAdmin {
				fmt.Println("Role:   admin")
			}
			return nil
		}),
	}
}

func readPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
