package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kestrelworks/pulseboard/internal/auth"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage the local account and sign-in session",
}

func authProvider() (*auth.FileProvider, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home dir: %w", err)
	}
	return auth.NewFileProvider(filepath.Join(home, ".pulseboard"))
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

var accountSignUpCmd = &cobra.Command{
	Use:   "signup <email>",
	Short: "Create an account and sign in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := authProvider()
		if err != nil {
			return err
		}
		password, err := readPassword("Password: ")
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")
		u, err := p.SignUp(args[0], password, name)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Signed up as %s\n", u.Email)
		return nil
	},
}

var accountSignInCmd = &cobra.Command{
	Use:   "signin <email>",
	Short: "Sign in to an existing account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := authProvider()
		if err != nil {
			return err
		}
		password, err := readPassword("Password: ")
		if err != nil {
			return err
		}
		u, err := p.SignIn(args[0], password)
		if err != nil {
			return err
		}
		name := u.DisplayName
		if name == "" {
			name = u.Email
		}
		fmt.Printf("✓ Welcome back, %s\n", name)
		return nil
	},
}

var accountSignOutCmd = &cobra.Command{
	Use:   "signout",
	Short: "Sign out of the active session",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := authProvider()
		if err != nil {
			return err
		}
		if err := p.SignOut(); err != nil {
			return err
		}
		fmt.Println("✓ Signed out")
		return nil
	},
}

var accountWhoAmICmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := authProvider()
		if err != nil {
			return err
		}
		u, ok := p.Current()
		if !ok {
			fmt.Println("Not signed in")
			return nil
		}
		fmt.Printf("%s (%s)\n", u.Email, u.ID)
		return nil
	},
}

func init() {
	accountSignUpCmd.Flags().String("name", "", "display name")
	accountCmd.AddCommand(accountSignUpCmd, accountSignInCmd, accountSignOutCmd, accountWhoAmICmd)
	rootCmd.AddCommand(accountCmd)
}
