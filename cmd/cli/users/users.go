package users

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/crucial707/todoapp/cmd/cli/output"
	"github.com/crucial707/todoapp/cmd/cli/root"
	"github.com/crucial707/todoapp/internal/auth"
	"github.com/crucial707/todoapp/internal/config"
	"github.com/crucial707/todoapp/internal/db"
	"github.com/crucial707/todoapp/internal/repo"
)

var (
	createEmail     string
	createUsername  string
	createFirstName string
	createLastName  string

	deactivateID int
	activateID   int
)

// ==========================
// CLI Command Init
// ==========================
func init() {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts",
		Long:  "List, create, and (de)activate user accounts directly in the database.",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all users",
		RunE:  runList,
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new user",
		Long:  "Create a new user. The password is prompted without echo.",
		RunE:  runCreate,
	}
	createCmd.Flags().StringVar(&createEmail, "email", "", "email address (required)")
	createCmd.Flags().StringVar(&createUsername, "username", "", "username (required)")
	createCmd.Flags().StringVar(&createFirstName, "first-name", "", "first name")
	createCmd.Flags().StringVar(&createLastName, "last-name", "", "last name")
	createCmd.MarkFlagRequired("email")
	createCmd.MarkFlagRequired("username")

	deactivateCmd := &cobra.Command{
		Use:   "deactivate",
		Short: "Mark a user inactive",
		RunE:  runDeactivate,
	}
	deactivateCmd.Flags().IntVar(&deactivateID, "id", 0, "user id (required)")
	deactivateCmd.MarkFlagRequired("id")

	activateCmd := &cobra.Command{
		Use:   "activate",
		Short: "Mark a user active",
		RunE:  runActivate,
	}
	activateCmd.Flags().IntVar(&activateID, "id", 0, "user id (required)")
	activateCmd.MarkFlagRequired("id")

	usersCmd.AddCommand(listCmd, createCmd, deactivateCmd, activateCmd)
	root.GetRoot().AddCommand(usersCmd)
}

// connect opens the database from the same env configuration the server uses.
func connect() (*repo.UserRepo, *sql.DB, error) {
	cfg := config.Load()
	database, err := db.Connect(
		cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBUser, cfg.DBPass,
		cfg.DBMaxOpenConns, cfg.DBMaxIdleConns,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	return repo.NewUserRepo(database), database, nil
}

// ==========================
// List Users
// ==========================
func runList(cmd *cobra.Command, args []string) error {
	userRepo, database, err := connect()
	if err != nil {
		return err
	}
	defer database.Close()

	users, err := userRepo.List(context.Background(), 1000, 0)
	if err != nil {
		return err
	}

	rows := make([][]interface{}, 0, len(users))
	for _, u := range users {
		name := strings.TrimSpace(u.FirstName + " " + u.LastName)
		rows = append(rows, []interface{}{u.ID, u.Username, u.Email, name, u.IsActive})
	}
	output.RenderTable([]string{"ID", "Username", "Email", "Name", "Active"}, rows)
	return nil
}

// ==========================
// Create User
// ==========================
func runCreate(cmd *cobra.Command, args []string) error {
	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return err
	}
	fmt.Print("Confirm password: ")
	password2, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return err
	}
	if string(password) != string(password2) {
		return fmt.Errorf("passwords do not match")
	}
	if len(password) == 0 {
		return fmt.Errorf("password must not be empty")
	}

	hash, err := auth.HashPassword(string(password))
	if err != nil {
		return err
	}

	userRepo, database, err := connect()
	if err != nil {
		return err
	}
	defer database.Close()

	user, err := userRepo.Create(context.Background(), createEmail, createUsername, createFirstName, createLastName, hash)
	if err != nil {
		if err == repo.ErrDuplicate {
			return fmt.Errorf("username or email already taken")
		}
		return err
	}

	fmt.Printf("Created user %d (%s)\n", user.ID, user.Username)
	return nil
}

// ==========================
// Deactivate / Activate
// ==========================
func runDeactivate(cmd *cobra.Command, args []string) error {
	return setActive(deactivateID, false)
}

func runActivate(cmd *cobra.Command, args []string) error {
	return setActive(activateID, true)
}

func setActive(id int, active bool) error {
	userRepo, database, err := connect()
	if err != nil {
		return err
	}
	defer database.Close()

	if err := userRepo.SetActive(context.Background(), id, active); err != nil {
		if err == repo.ErrNotFound {
			return fmt.Errorf("no user with id %d", id)
		}
		return err
	}

	state := "inactive"
	if active {
		state = "active"
	}
	fmt.Printf("User %d is now %s\n", id, state)
	return nil
}
