package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/justsurfingit/jobboard-web/internal/apiclient"
	"github.com/justsurfingit/jobboard-web/internal/auth"
	"github.com/justsurfingit/jobboard-web/internal/config"
	"github.com/justsurfingit/jobboard-web/internal/dtos"
	"github.com/justsurfingit/jobboard-web/internal/models"
	"github.com/justsurfingit/jobboard-web/internal/services"
)

var errAccessDenied = errors.New("access denied")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	apiURL      string
	sessionFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "jobboard",
		Short:         "Job board client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.apiURL, "api", "", "API base URL (default from API_BASE_URL)")
	root.PersistentFlags().StringVar(&opts.sessionFile, "session", "", "session file (default <user config dir>/jobboard/"+auth.TokenFileName+")")

	root.AddCommand(newLoginCmd(opts))
	root.AddCommand(newSignupCmd(opts))
	root.AddCommand(newLogoutCmd(opts))
	root.AddCommand(newWhoamiCmd(opts))
	root.AddCommand(newJobsCmd(opts))
	root.AddCommand(newFeedbackCmd(opts))
	root.AddCommand(newCompaniesCmd(opts))
	root.AddCommand(newAddCmd(opts))
	root.AddCommand(newReviewCmd(opts))
	root.AddCommand(newRejectedCmd(opts))
	return root
}

// app is one CLI invocation: an API client and the hydrated session.
type app struct {
	client *apiclient.Client
	store  *auth.Store
}

func loadApp(ctx context.Context, opts *rootOptions) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	baseURL := cfg.APIBaseURL
	if opts.apiURL != "" {
		baseURL = strings.TrimRight(opts.apiURL, "/")
	}
	client, err := apiclient.New(apiclient.Config{BaseURL: baseURL, Timeout: cfg.HTTPTimeout})
	if err != nil {
		return nil, err
	}

	path := opts.sessionFile
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("locate config dir: %w", err)
		}
		path = filepath.Join(dir, "jobboard", auth.TokenFileName)
	}
	store := auth.NewStore(auth.NewFileSlotAt(path))
	store.Hydrate(ctx)
	return &app{client: client, store: store}, nil
}

// guard runs the access check a page would. A denied command names the
// page it would have been sent to and never reaches the API.
func (a *app) guard(requireAdmin bool) error {
	d := auth.Decide(a.store.State(), requireAdmin)
	switch d.Outcome {
	case auth.Allow:
		return nil
	case auth.RedirectLogin:
		return fmt.Errorf("%w: not logged in (redirect to %s); run `jobboard login`", errAccessDenied, d.Location)
	case auth.RedirectHome:
		return fmt.Errorf("%w: admin role required (redirect to %s)", errAccessDenied, d.Location)
	default:
		return fmt.Errorf("%w: session still loading", errAccessDenied)
	}
}

// ─── Session ──────────────────────────────────────────────────────────────────

func newLoginCmd(opts *rootOptions) *cobra.Command {
	var req dtos.LoginRequest
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := loadApp(ctx, opts)
			if err != nil {
				return err
			}
			if req.Password == "" {
				req.Password = os.Getenv("JOBBOARD_PASSWORD")
			}
			resp, err := a.client.Login(ctx, req)
			if err != nil {
				return errors.New(apiclient.UserMessage(err, "Login failed"))
			}
			if err := a.store.Login(ctx, resp.Token, resp.User); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s (%s), landing page %s\n",
				resp.User.Name, resp.User.Role, auth.LandingPath(a.store.State()))
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "password (or JOBBOARD_PASSWORD)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newSignupCmd(opts *rootOptions) *cobra.Command {
	var req dtos.SignupRequest
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := loadApp(ctx, opts)
			if err != nil {
				return err
			}
			if req.Password == "" {
				req.Password = os.Getenv("JOBBOARD_PASSWORD")
			}
			resp, err := a.client.Signup(ctx, req)
			if err != nil {
				return errors.New(apiclient.UserMessage(err, "Signup failed"))
			}
			if err := a.store.Login(ctx, resp.Token, resp.User); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "account created, logged in as %s\n", resp.User.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "display name")
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "password (or JOBBOARD_PASSWORD)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if err := a.store.Logout(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func newWhoamiCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			st := a.store.State()
			if !st.IsAuthenticated {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "not logged in")
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> role=%s\n", st.User.Name, st.User.Email, st.User.Role)
			return nil
		},
	}
}

// ─── Public ───────────────────────────────────────────────────────────────────

func newJobsCmd(opts *rootOptions) *cobra.Command {
	var company string
	var limit int
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List active jobs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			jobs, err := services.NewFeedService(a.client, a.store).FetchJobs(cmd.Context(), company, limit)
			if err != nil {
				return errors.New(apiclient.UserMessage(err, "Failed to load jobs"))
			}
			return printJobs(cmd.OutOrStdout(), jobs)
		},
	}
	cmd.Flags().StringVar(&company, "company", "", "only jobs from this company")
	cmd.Flags().IntVar(&limit, "limit", 100, "maximum number of jobs")
	return cmd
}

// newFeedbackCmd votes on a job from the feed. The feed is loaded first so
// a down-vote drops the job from it; the feed is printed afterwards.
func newFeedbackCmd(opts *rootOptions) *cobra.Command {
	var company string
	var limit int
	cmd := &cobra.Command{
		Use:       "feedback <job-id> up|down",
		Short:     "Give a job a thumbs up or down",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := loadApp(ctx, opts)
			if err != nil {
				return err
			}
			feed := services.NewFeedService(a.client, a.store)
			if _, err := feed.FetchJobs(ctx, company, limit); err != nil {
				return errors.New(apiclient.UserMessage(err, "Failed to load jobs"))
			}

			id, vote := args[0], args[1]
			runErr := feed.SubmitFeedback(ctx, id, vote)
			if errors.Is(runErr, services.ErrInvalidFeedback) {
				return runErr
			}
			if runErr == nil {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "voted %s on %s\n", vote, id)
			}
			if err := printJobs(cmd.OutOrStdout(), feed.Jobs()); err != nil {
				return err
			}
			if runErr != nil {
				return errors.New(apiclient.UserMessage(runErr, "Failed to save feedback"))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&company, "company", "", "feed filtered to this company")
	cmd.Flags().IntVar(&limit, "limit", 100, "maximum number of jobs")
	return cmd
}

func newCompaniesCmd(opts *rootOptions) *cobra.Command {
	var city, search string
	cmd := &cobra.Command{
		Use:   "companies",
		Short: "List the company directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			all, err := services.NewFeedService(a.client, a.store).FetchCompanies(cmd.Context())
			if err != nil {
				return errors.New(apiclient.UserMessage(err, "Failed to load companies"))
			}
			companies := services.Search(services.FilterByCity(all, city), search)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "COMPANY\tOPEN ROLES\tCITIES\tSOURCE")
			for _, c := range companies {
				_, _ = fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", c.Name, c.OpenRoles, strings.Join(c.Cities, ", "), c.Source)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&city, "city", services.AllCities, "only companies in this city")
	cmd.Flags().StringVar(&search, "search", "", "match company name or city")
	return cmd
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	var req dtos.JobCreationRequest
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Submit a job by hand",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if err := a.guard(false); err != nil {
				return err
			}
			if err := services.NewJobService(a.client, a.store).CreateJob(cmd.Context(), req); err != nil {
				return errors.New(apiclient.UserMessage(err, "Failed to create job"))
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "submitted %s at %s\n", req.Title, req.Company)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Title, "title", "", "job title")
	cmd.Flags().StringVar(&req.Company, "company", "", "company name")
	cmd.Flags().StringVar(&req.ApplicationURL, "url", "", "application URL")
	cmd.Flags().StringVar(&req.Location, "location", "", "location (default "+services.DefaultLocation+")")
	cmd.Flags().StringVar(&req.ContractType, "contract", "", "contract type (default "+services.DefaultContractType+")")
	cmd.Flags().StringVar(&req.Department, "department", "", "department")
	cmd.Flags().StringVar(&req.Description, "description", "", "description")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("company")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

// ─── Moderation ───────────────────────────────────────────────────────────────

// moderationList is one of the two moderation queues: how to load it and
// how to read it back after a change.
type moderationList struct {
	fetch func(*services.ModerationService, context.Context) ([]models.Job, error)
	view  func(*services.ModerationService) []models.Job
}

var (
	pendingQueue  = moderationList{(*services.ModerationService).FetchPending, (*services.ModerationService).Pending}
	rejectedQueue = moderationList{(*services.ModerationService).FetchRejected, (*services.ModerationService).Rejected}
)

// adminAction builds a subcommand that runs one moderation call on a job id.
// When queue is set it is loaded first, so the call updates it the way the
// review page does, and printed as it stands afterwards.
func adminAction(opts *rootOptions, use, short, done string, queue moderationList, run func(*services.ModerationService, context.Context, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <job-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := loadApp(ctx, opts)
			if err != nil {
				return err
			}
			if err := a.guard(true); err != nil {
				return err
			}
			svc := services.NewModerationService(a.client, a.store)
			if queue.fetch != nil {
				if _, err := queue.fetch(svc, ctx); err != nil {
					return errors.New(apiclient.UserMessage(err, "Failed to load jobs"))
				}
			}

			runErr := run(svc, ctx, args[0])
			if runErr == nil {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", done, args[0])
			}
			if queue.view != nil {
				if err := printJobs(cmd.OutOrStdout(), queue.view(svc)); err != nil {
					return err
				}
			}
			if runErr != nil {
				return errors.New(apiclient.UserMessage(runErr, runErr.Error()))
			}
			return nil
		},
	}
}

func adminList(opts *rootOptions, short string, queue moderationList) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if err := a.guard(true); err != nil {
				return err
			}
			jobs, err := queue.fetch(services.NewModerationService(a.client, a.store), cmd.Context())
			if err != nil {
				return errors.New(apiclient.UserMessage(err, "Failed to load jobs"))
			}
			return printJobs(cmd.OutOrStdout(), jobs)
		},
	}
}

func newReviewCmd(opts *rootOptions) *cobra.Command {
	review := &cobra.Command{Use: "review", Short: "Work the pending review queue (admin)"}
	review.AddCommand(
		adminList(opts, "List jobs awaiting review", pendingQueue),
		adminAction(opts, "accept", "Publish a pending job", "accepted", pendingQueue,
			func(s *services.ModerationService, ctx context.Context, id string) error {
				return s.Decide(ctx, id, string(services.DecisionAccept))
			}),
		adminAction(opts, "reject", "Reject a pending job", "rejected", pendingQueue,
			func(s *services.ModerationService, ctx context.Context, id string) error {
				return s.Decide(ctx, id, string(services.DecisionReject))
			}),
		adminAction(opts, "analyze", "Re-run classification on a job", "re-analysis queued for", moderationList{},
			(*services.ModerationService).Reanalyze),
	)
	return review
}

func newRejectedCmd(opts *rootOptions) *cobra.Command {
	rejected := &cobra.Command{Use: "rejected", Short: "Inspect rejected jobs (admin)"}
	rejected.AddCommand(
		adminList(opts, "List rejected jobs", rejectedQueue),
		adminAction(opts, "restore", "Send a rejected job back to review", "restored", rejectedQueue,
			(*services.ModerationService).Restore),
	)
	return rejected
}

func printJobs(out io.Writer, jobs []models.Job) error {
	if len(jobs) == 0 {
		_, _ = fmt.Fprintln(out, "no jobs")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTITLE\tCOMPANY\tLOCATION\tSTATUS")
	for _, j := range jobs {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", j.ID, j.Title, j.Company, j.Location, j.Status)
	}
	return w.Flush()
}
