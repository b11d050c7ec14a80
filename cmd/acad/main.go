package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"acadconnect/cmd/acad/ui"
	"acadconnect/internal/api"
	"acadconnect/internal/config"
	"acadconnect/internal/logging"
	"acadconnect/internal/model"
	"acadconnect/internal/session"
	"acadconnect/internal/validate"
)

var (
	// Global flags
	verbose bool
	apiURL  string
	timeout time.Duration

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "acad",
	Short: "AcademiaConnect - find research collaborators from your terminal",
	Long: `AcademiaConnect connects students and faculty for research collaboration.

Browse the directory of faculty and students, filter by department and
research area, view profiles, edit your own, and send collaboration
requests to suggested matches.

Run without arguments to start the interactive interface.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip logger init for interactive mode (it has its own UI)
		if cmd.Name() == "acad" || cmd.Name() == "directory" {
			return nil
		}

		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and persist the session token",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the persisted session token",
	RunE:  runLogout,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a faculty or student account",
	Long: `Creates an account and signs in.

Example:
  acad register --type student --name "Ada Park" --email ada@uni.edu \
    --department "Computer Science" --title "MSc Candidate" \
    --bio "Working on program synthesis for data pipelines." \
    --contact "ada@uni.edu" --interest "Program Synthesis"`,
	RunE: runRegister,
}

var directoryCmd = &cobra.Command{
	Use:   "directory",
	Short: "Open the interactive user directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE:  runWhoami,
}

var profileCmd = &cobra.Command{
	Use:   "profile [user-id]",
	Short: "Print a profile (your own when no id is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProfile,
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List suggested collaborators for the signed-in user",
	RunE:  runMatches,
}

var requestCmd = &cobra.Command{
	Use:   "request [user-id]",
	Short: "Send a collaboration request",
	Args:  cobra.ExactArgs(1),
	RunE:  runRequest,
}

var themeCmd = &cobra.Command{
	Use:   "theme [dark|light]",
	Short: "Show or persist the interface theme",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTheme,
}

var (
	loginEmail    string
	loginPassword string

	regType       string
	regName       string
	regEmail      string
	regPassword   string
	regDepartment string
	regTitle      string
	regBio        string
	regContact    string
	regInterests  []string

	requestMessage string
)

func init() {
	// Assigned here rather than in the var declaration to avoid an
	// initialization cycle through setup's use of rootCmd.
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API base URL (or set ACAD_API_URL env)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout (defaults to api.timeout from config)")

	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email (prompted when omitted)")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (prompted when omitted)")

	registerCmd.Flags().StringVar(&regType, "type", "", "Account type: faculty or student (required)")
	registerCmd.Flags().StringVar(&regName, "name", "", "Full name (required)")
	registerCmd.Flags().StringVar(&regEmail, "email", "", "Email address (required)")
	registerCmd.Flags().StringVar(&regPassword, "password", "", "Password, 8 characters minimum (prompted when omitted)")
	registerCmd.Flags().StringVar(&regDepartment, "department", "", "Department (required)")
	registerCmd.Flags().StringVar(&regTitle, "title", "", "Position (faculty) or title (student)")
	registerCmd.Flags().StringVar(&regBio, "bio", "", "Short bio, 10-500 characters")
	registerCmd.Flags().StringVar(&regContact, "contact", "", "Contact info shown on your profile")
	registerCmd.Flags().StringArrayVar(&regInterests, "interest", nil, "Research interest (repeatable)")
	registerCmd.MarkFlagRequired("type")
	registerCmd.MarkFlagRequired("name")
	registerCmd.MarkFlagRequired("email")
	registerCmd.MarkFlagRequired("department")

	requestCmd.Flags().StringVar(&requestMessage, "message", "", "Request message, 10-500 characters (required)")
	requestCmd.MarkFlagRequired("message")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(directoryCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(requestCmd)
	rootCmd.AddCommand(themeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup wires config, logging, API client and session store. Every
// command goes through it.
func setup() (*config.Config, *api.Client, *session.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	if err := logging.Initialize(cfg.StateDir); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	// The flag wins only when given; otherwise the configured
	// api.timeout applies to the client and to command deadlines.
	if !rootCmd.PersistentFlags().Changed("timeout") {
		timeout = cfg.RequestTimeout()
	}

	client := api.New(cfg.API.BaseURL, nil)
	client.SetTimeout(timeout)
	tokens := session.NewTokenStore(cfg.StateDir)
	store := session.NewStore(client, tokens)
	return cfg, client, store, nil
}

// bootstrapped is setup plus session restore from the persisted token.
func bootstrapped(ctx context.Context) (*config.Config, *api.Client, *session.Store, error) {
	cfg, client, store, err := setup()
	if err != nil {
		return nil, nil, nil, err
	}
	if err := store.Bootstrap(ctx); err != nil {
		return nil, nil, nil, err
	}
	return cfg, client, store, nil
}

func runInteractive() error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	cfg, client, store, err := bootstrapped(ctx)
	cancel()
	if err != nil {
		return err
	}
	defer logging.CloseAll()

	styles := ui.NewStyles(ui.ThemeFromName(cfg.UI.Theme))
	app := ui.NewApp(client, store, styles)
	_, err = tea.NewProgram(app, tea.WithAltScreen()).Run()
	return err
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	_, _, store, err := setup()
	if err != nil {
		return err
	}
	defer logging.CloseAll()

	email := loginEmail
	if email == "" {
		email = prompt("Email: ")
	}
	password := loginPassword
	if password == "" {
		password = prompt("Password: ")
	}

	creds := model.Credentials{Email: strings.TrimSpace(email), Password: password}
	if err := store.Login(ctx, creds); err != nil {
		return err
	}
	user, _ := store.CurrentUser()
	logger.Info("signed in", zap.String("email", creds.Email))
	fmt.Printf("Signed in as %s (%s)\n", user.Name, user.UserType)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	_, _, store, err := setup()
	if err != nil {
		return err
	}
	defer logging.CloseAll()

	store.Logout()
	fmt.Println("Signed out.")
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	_, _, store, err := setup()
	if err != nil {
		return err
	}
	defer logging.CloseAll()

	userType := model.UserType(strings.ToLower(strings.TrimSpace(regType)))
	if !userType.Valid() {
		return fmt.Errorf("--type must be faculty or student, got %q", regType)
	}

	password := regPassword
	if password == "" {
		password = prompt("Password: ")
	}
	confirm := password
	if regPassword == "" {
		confirm = prompt("Confirm password: ")
	}

	reg := model.Registration{
		User: model.User{
			UserType:          userType,
			Name:              strings.TrimSpace(regName),
			Email:             strings.TrimSpace(regEmail),
			Department:        strings.TrimSpace(regDepartment),
			Bio:               regBio,
			ContactInfo:       regContact,
			ResearchInterests: regInterests,
		},
		Password:        password,
		ConfirmPassword: confirm,
	}
	if userType == model.UserTypeFaculty {
		reg.Position = regTitle
	} else {
		reg.Title = regTitle
	}

	if userType == model.UserTypeFaculty {
		err = store.RegisterFaculty(ctx, reg)
	} else {
		err = store.RegisterStudent(ctx, reg)
	}
	if err != nil {
		return err
	}

	user, _ := store.CurrentUser()
	logger.Info("registered", zap.String("email", user.Email), zap.String("type", string(userType)))
	fmt.Printf("Welcome to AcademiaConnect, %s. You are signed in.\n", user.Name)
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	_, _, store, err := bootstrapped(ctx)
	if err != nil {
		return err
	}
	defer logging.CloseAll()

	user, ok := store.CurrentUser()
	if !ok {
		if notice := store.Notice(); notice != "" {
			fmt.Println(notice)
		} else {
			fmt.Println("Not signed in. Run 'acad login' first.")
		}
		return nil
	}
	fmt.Printf("%s <%s>\n%s, %s\n", user.Name, user.Email, user.RoleLine(), user.Department)
	return nil
}

func runProfile(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	_, client, store, err := bootstrapped(ctx)
	if err != nil {
		return err
	}
	defer logging.CloseAll()

	id := ""
	if len(args) > 0 {
		id = args[0]
	} else {
		current, ok := store.CurrentUser()
		if !ok {
			return fmt.Errorf("not signed in; pass a user id or run 'acad login'")
		}
		id = current.ID
	}

	user, err := client.UserByID(ctx, id)
	if err != nil {
		return err
	}
	printProfile(user)
	return nil
}

func runMatches(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	_, client, store, err := bootstrapped(ctx)
	if err != nil {
		return err
	}
	defer logging.CloseAll()

	if _, ok := store.CurrentUser(); !ok {
		return fmt.Errorf("not signed in; run 'acad login' first")
	}

	matches, err := client.Collaboration.Matches(ctx)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Println("No suggestions yet. Add research interests to your profile to get matched.")
		return nil
	}
	for _, match := range matches {
		fmt.Printf("%-28s %-24s %s\n", match.Name, match.Department, strings.Join(match.ResearchInterests, ", "))
	}
	return nil
}

func runRequest(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	_, client, store, err := bootstrapped(ctx)
	if err != nil {
		return err
	}
	defer logging.CloseAll()

	current, ok := store.CurrentUser()
	if !ok {
		return fmt.Errorf("not signed in; run 'acad login' first")
	}
	if errs := validate.RequestMessage(requestMessage); !errs.Ok() {
		return errs
	}

	id, err := client.Collaboration.CreateRequest(ctx, model.CollaborationRequestInput{
		RequesterID: current.ID,
		RequestedID: args[0],
		Message:     strings.TrimSpace(requestMessage),
	})
	if err != nil {
		return err
	}
	logger.Info("collaboration request sent", zap.String("request_id", id))
	fmt.Printf("Request sent (%s).\n", id)
	return nil
}

func runTheme(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if len(args) == 0 {
		fmt.Println(cfg.UI.Theme)
		return nil
	}

	name := strings.ToLower(strings.TrimSpace(args[0]))
	if name != "dark" && name != "light" {
		return fmt.Errorf("unknown theme %q (expected dark or light)", args[0])
	}
	cfg.UI.Theme = name
	if err := cfg.Save(); err != nil {
		return err
	}
	logger.Info("theme changed", zap.String("theme", name))
	fmt.Printf("Theme set to %s.\n", name)
	return nil
}

func printProfile(u model.User) {
	fmt.Printf("%s [%s]\n", u.Name, u.UserType)
	if line := u.RoleLine(); line != "" {
		fmt.Println(line)
	}
	if u.Department != "" {
		fmt.Println(u.Department)
	}
	if u.CollaborationStatus != "" {
		fmt.Printf("Status: %s\n", u.CollaborationStatus)
	}
	if u.Bio != "" {
		fmt.Printf("\n%s\n", u.Bio)
	}
	if len(u.ResearchInterests) > 0 {
		fmt.Printf("\nResearch interests: %s\n", strings.Join(u.ResearchInterests, ", "))
	}
	if len(u.CurrentProjects) > 0 {
		fmt.Printf("Current projects: %s\n", strings.Join(u.CurrentProjects, ", "))
	}
	if u.IsFaculty() && len(u.Publications) > 0 {
		fmt.Println("\nPublications:")
		for _, pub := range u.Publications {
			fmt.Printf("  - %s\n", pub)
		}
	}
	if u.IsStudent() && len(u.Skills) > 0 {
		fmt.Printf("Skills: %s\n", strings.Join(u.Skills, ", "))
	}
}

func prompt(label string) string {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}
