package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jkubik/user-admin-api/internal/client"
	"github.com/jkubik/user-admin-api/internal/selection"
	"github.com/jkubik/user-admin-api/internal/user"
)

var (
	serverURL   string
	sessionPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "adminctl",
		Short: "Administer user accounts of the user-admin API",
		Long:  "CLI for the user-admin API: register, login, list users, and run bulk block/unblock/delete operations.",
	}

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "API base URL")
	rootCmd.PersistentFlags().StringVar(&sessionPath, "session", "", "Session file path (default: user config dir)")

	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE:  runRegister,
	}
	registerCmd.Flags().String("name", "", "Display name")
	registerCmd.Flags().String("email", "", "Email address")
	registerCmd.Flags().String("password", "", "Password")

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		RunE:  runLogin,
	}
	loginCmd.Flags().String("email", "", "Email address")
	loginCmd.Flags().String("password", "", "Password")

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE:  runLogout,
	}

	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "List all other users",
		RunE:  runUsers,
	}

	blockCmd := &cobra.Command{
		Use:   "block [id...]",
		Short: "Block the given users",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetBlocked(cmd, args, true)
		},
	}
	unblockCmd := &cobra.Command{
		Use:   "unblock [id...]",
		Short: "Unblock the given users",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetBlocked(cmd, args, false)
		},
	}
	deleteCmd := &cobra.Command{
		Use:   "delete [id...]",
		Short: "Delete the given users",
		RunE:  runDelete,
	}
	for _, cmd := range []*cobra.Command{blockCmd, unblockCmd, deleteCmd} {
		cmd.Flags().Bool("all", false, "Target every listed user")
		cmd.Flags().StringSlice("except", nil, "Ids to leave out when using --all")
	}

	themeCmd := &cobra.Command{
		Use:   "theme",
		Short: "Toggle the dark-mode preference",
		RunE:  runTheme,
	}

	rootCmd.AddCommand(registerCmd, loginCmd, logoutCmd, usersCmd, blockCmd, unblockCmd, deleteCmd, themeCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// loggedInClient loads the stored session and returns a client carrying
// its token.
func loggedInClient() (*client.Client, *client.Session, *client.SessionStore, error) {
	store, err := client.NewSessionStore(sessionPath)
	if err != nil {
		return nil, nil, nil, err
	}

	session, err := store.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	if !session.LoggedIn() {
		return nil, nil, nil, fmt.Errorf("not logged in, run \"adminctl login\" first")
	}

	cli := client.New(serverURL)
	cli.SetToken(session.Token)

	return cli, session, store, nil
}

// handleSessionError clears the stored session when the server says it
// is no longer valid, mirroring the forced-logout behavior of the web UI.
func handleSessionError(err error, store *client.SessionStore) error {
	if client.IsSessionInvalid(err) {
		_ = store.Clear()
		return fmt.Errorf("session expired or access denied, please login again (%w)", err)
	}
	return err
}

func runRegister(cmd *cobra.Command, _ []string) error {
	name, _ := cmd.Flags().GetString("name")
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	ctx, cancel := newContext()
	defer cancel()

	created, err := client.New(serverURL).Register(ctx, name, email, password)
	if err != nil {
		return err
	}

	fmt.Printf("User created: %s <%s> (%s)\n", created.Name, created.Email, created.ID)
	return nil
}

func runLogin(cmd *cobra.Command, _ []string) error {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	store, err := client.NewSessionStore(sessionPath)
	if err != nil {
		return err
	}

	session, err := store.Load()
	if err != nil {
		return err
	}

	ctx, cancel := newContext()
	defer cancel()

	result, err := client.New(serverURL).Login(ctx, email, password)
	if err != nil {
		return err
	}

	session.Token = result.Token
	session.User = &result.User
	if err := store.Save(session); err != nil {
		return err
	}

	fmt.Printf("Logged in as %s <%s>\n", result.User.Name, result.User.Email)
	return nil
}

func runLogout(_ *cobra.Command, _ []string) error {
	store, err := client.NewSessionStore(sessionPath)
	if err != nil {
		return err
	}

	if err := store.Clear(); err != nil {
		return err
	}

	fmt.Println("Logged out")
	return nil
}

func runUsers(_ *cobra.Command, _ []string) error {
	cli, session, store, err := loggedInClient()
	if err != nil {
		return err
	}

	ctx, cancel := newContext()
	defer cancel()

	users, err := cli.Users(ctx, session.User.ID)
	if err != nil {
		return handleSessionError(err, store)
	}

	printUsers(users)
	return nil
}

func runSetBlocked(cmd *cobra.Command, args []string, blocked bool) error {
	cli, session, store, err := loggedInClient()
	if err != nil {
		return err
	}

	ctx, cancel := newContext()
	defer cancel()

	targets, err := resolveTargets(ctx, cmd, args, cli, session)
	if err != nil {
		return handleSessionError(err, store)
	}
	if len(targets) == 0 {
		fmt.Println("Nothing selected")
		return nil
	}

	if err := cli.SetBlocked(ctx, targets, blocked); err != nil {
		return handleSessionError(err, store)
	}

	if blocked {
		fmt.Printf("Blocked %d user(s)\n", len(targets))
	} else {
		fmt.Printf("Unblocked %d user(s)\n", len(targets))
	}
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	cli, session, store, err := loggedInClient()
	if err != nil {
		return err
	}

	ctx, cancel := newContext()
	defer cancel()

	targets, err := resolveTargets(ctx, cmd, args, cli, session)
	if err != nil {
		return handleSessionError(err, store)
	}
	if len(targets) == 0 {
		fmt.Println("Nothing selected")
		return nil
	}

	if err := cli.Delete(ctx, targets); err != nil {
		return handleSessionError(err, store)
	}

	fmt.Printf("Deleted %d user(s)\n", len(targets))
	return nil
}

func runTheme(_ *cobra.Command, _ []string) error {
	store, err := client.NewSessionStore(sessionPath)
	if err != nil {
		return err
	}

	session, err := store.Load()
	if err != nil {
		return err
	}

	session.DarkMode = !session.DarkMode
	if err := store.Save(session); err != nil {
		return err
	}

	if session.DarkMode {
		fmt.Println("Dark mode on")
	} else {
		fmt.Println("Dark mode off")
	}
	return nil
}

// resolveTargets builds a selection from the command line and resolves
// it against the freshly fetched row universe. Ids given explicitly are
// an include selection; --all is an exclude selection seeded with
// --except. Stale ids not present in the universe drop out.
func resolveTargets(ctx context.Context, cmd *cobra.Command, args []string, cli *client.Client, session *client.Session) ([]uuid.UUID, error) {
	all, _ := cmd.Flags().GetBool("all")
	except, _ := cmd.Flags().GetStringSlice("except")

	if all && len(args) > 0 {
		return nil, fmt.Errorf("either list ids or use --all, not both")
	}
	if !all && len(except) > 0 {
		return nil, fmt.Errorf("--except requires --all")
	}

	model := selection.New()
	if all {
		model.SelectAll()
		for _, raw := range except {
			id, err := uuid.Parse(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid id %q: %w", raw, err)
			}
			model.Toggle(id)
		}
	} else {
		for _, raw := range args {
			id, err := uuid.Parse(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid id %q: %w", raw, err)
			}
			model.Toggle(id)
		}
	}

	users, err := cli.Users(ctx, session.User.ID)
	if err != nil {
		return nil, err
	}

	universe := make([]uuid.UUID, 0, len(users))
	for i := range users {
		universe = append(universe, users[i].ID)
	}

	return model.Resolve(universe), nil
}

func printUsers(users []user.Projection) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tBLOCKED\tLAST LOGIN\tCREATED")
	for i := range users {
		u := &users[i]
		lastLogin := "never"
		if u.LastLogin != nil {
			lastLogin = u.LastLogin.Format(time.RFC3339)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\t%s\n",
			u.ID, u.Name, u.Email, u.IsBlocked, lastLogin, u.CreatedAt.Format(time.RFC3339))
	}
	w.Flush()
}
