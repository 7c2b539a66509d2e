// Copyright (c) 2026 CourseScope. All rights reserved.
// Author: dev@coursescope.app

// Command coursescope is a terminal client for the course-review API.
//
// It wires the full client stack (durable session storage, the shared HTTP
// pipeline, and the domain services) and exposes one subcommand per user
// action. The session survives between invocations via the state file.
//
// # Usage
//
//	coursescope register -email a@b.edu -password secret123 -name "Ada" -program CS -year 3
//	coursescope login -email a@b.edu -password secret123
//	coursescope search -query algebra -dept MATH -sort rating_desc -page 0
//	coursescope course <course-id>
//	coursescope review add -course <id> -content "..." -rating 5 -difficulty 3 -workload 4
//	coursescope review delete -course <id> -id <review-id>
//	coursescope reviews mine
//	coursescope whoami | logout | delete-account -confirm | departments | theme
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/coursescope/coursescope/internal/course"
	"github.com/coursescope/coursescope/internal/platform/apperr"
	"github.com/coursescope/coursescope/internal/platform/config"
	"github.com/coursescope/coursescope/internal/platform/httpclient"
	"github.com/coursescope/coursescope/internal/platform/storage"
	"github.com/coursescope/coursescope/internal/review"
	"github.com/coursescope/coursescope/internal/session"
	"github.com/coursescope/coursescope/internal/view"
	"github.com/coursescope/coursescope/pkg/pagination"
)

func main() {
	// Logs go to stderr so command output stays pipeable.
	level := slog.LevelWarn
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load()
	fatalIf(log, err)

	durable, err := storage.NewFileStore(cfg.StateDir)
	fatalIf(log, err)

	sessions := session.NewStore(durable, log)
	client, err := httpclient.New(
		cfg.APIBaseURL,
		time.Duration(cfg.RequestTimeoutSeconds)*time.Second,
		sessions,
		sessions.HandleUnauthorized,
		log,
	)
	fatalIf(log, err)

	application := &app{
		cfg:      cfg,
		sessions: sessions,
		auth:     session.NewService(client, sessions, log),
		courses:  course.NewService(client),
		reviews:  review.NewService(client, log),
		log:      log,
		out:      os.Stdout,
	}

	os.Exit(application.run(context.Background(), os.Args[1:]))
}

// app bundles the wired client stack for the subcommand handlers.
type app struct {
	cfg      *config.Config
	sessions *session.Store
	auth     *session.Service
	courses  *course.Service
	reviews  *review.Service
	log      *slog.Logger
	out      io.Writer
}

func (a *app) run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		a.printf("usage: coursescope <command> [flags]\n")
		a.printf("commands: register login logout whoami delete-account departments search course reviews review theme\n")
		return 2
	}

	var err error
	switch args[0] {
	case "register":
		err = a.cmdRegister(ctx, args[1:])
	case "login":
		err = a.cmdLogin(ctx, args[1:])
	case "logout":
		a.auth.Logout()
		a.printf("Signed out.\n")
	case "whoami":
		err = a.cmdWhoami()
	case "delete-account":
		err = a.cmdDeleteAccount(ctx, args[1:])
	case "departments":
		a.cmdDepartments()
	case "search":
		err = a.cmdSearch(ctx, args[1:])
	case "course":
		err = a.cmdCourse(ctx, args[1:])
	case "reviews":
		err = a.cmdReviews(ctx, args[1:])
	case "review":
		err = a.cmdReview(ctx, args[1:])
	case "theme":
		err = a.cmdTheme()
	default:
		a.printf("unknown command %q\n", args[0])
		return 2
	}

	if err != nil {
		a.printf("Error: %s\n", err.Error())
		if ae := apperr.As(err); ae != nil {
			for _, detail := range ae.Details {
				a.printf("  - %s: %s\n", detail.Field, detail.Message)
			}
		}
		return 1
	}
	return 0
}

// # Account Commands

func (a *app) cmdRegister(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("register", flag.ExitOnError)
	email := flags.String("email", "", "institutional email address")
	password := flags.String("password", "", "password (min 8 characters)")
	name := flags.String("name", "", "display name")
	program := flags.String("program", "", "study program")
	year := flags.Int("year", 1, "study year")
	_ = flags.Parse(args)

	user, err := a.auth.Register(ctx, session.Registration{
		Email:    *email,
		Password: *password,
		Name:     *name,
		Program:  *program,
		Year:     *year,
	})
	if err != nil {
		return err
	}

	a.printf("Welcome, %s. You are signed in.\n", user.Name)
	return nil
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("login", flag.ExitOnError)
	email := flags.String("email", "", "email address")
	password := flags.String("password", "", "password")
	_ = flags.Parse(args)

	user, err := a.auth.Login(ctx, session.Credentials{Email: *email, Password: *password})
	if err != nil {
		return err
	}

	a.printf("Signed in as %s (%s, year %d).\n", user.Name, user.Program, user.Year)
	return nil
}

func (a *app) cmdWhoami() error {
	user := a.sessions.CurrentUser()
	if user == nil {
		a.printf("Not signed in.\n")
		return nil
	}
	a.printf("%s <%s> — %s, year %d\n", user.Name, user.Email, user.Program, user.Year)
	return nil
}

func (a *app) cmdDeleteAccount(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("delete-account", flag.ExitOnError)
	confirmed := flags.Bool("confirm", false, "required; account deletion is permanent")
	_ = flags.Parse(args)

	if !*confirmed {
		a.printf("Deleting your account removes every review you wrote. Re-run with -confirm to proceed.\n")
		return nil
	}

	if err := a.auth.DeleteAccount(ctx); err != nil {
		return err
	}
	a.printf("Account deleted.\n")
	return nil
}

// # Catalog Commands

func (a *app) cmdDepartments() {
	for _, entry := range course.DepartmentCatalog {
		if entry.Code == course.AllDepartments {
			continue
		}
		a.printf("%-6s %s\n", entry.Code, entry.Name)
	}
}

func (a *app) cmdSearch(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("search", flag.ExitOnError)
	query := flags.String("query", "", "free-text search")
	dept := flags.String("dept", course.AllDepartments, "department code filter")
	sortBy := flags.String("sort", course.SortCourseNumberAsc, "sort key ({courseNumber|rating|difficulty|workload}_{asc|desc})")
	page := flags.Int("page", 0, "zero-based page number")
	_ = flags.Parse(args)

	result, err := a.courses.Search(ctx, course.SearchParams{
		Query:          *query,
		SortBy:         *sortBy,
		DepartmentCode: *dept,
		Page:           *page,
		Size:           a.cfg.PageSize,
	})
	if err != nil {
		return err
	}

	if result.Empty {
		a.printf("No courses found.\n")
		return nil
	}

	for _, entry := range result.Content {
		a.printf("%s  %s %d  %-45s  %.1f★\n",
			entry.ID, entry.Department.DepartmentCode, entry.CourseNumber, entry.Name, entry.AverageRating)
	}
	a.printf("\nPage %d of %d (%d courses). Pages: %s\n",
		result.Number+1, result.TotalPages, result.TotalElements,
		formatWindow(result.Number, result.TotalPages))
	return nil
}

func (a *app) cmdCourse(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return apperr.ValidationError("Usage: coursescope course <course-id>")
	}
	courseID := args[0]

	detail := view.NewDetail(courseID, a.courses, a.reviews, a.sessions, a.log)
	detail.Load(ctx)

	state := detail.State()
	if state.Err != nil {
		return state.Err
	}

	found := state.Course
	a.printf("%s %d — %s\n", found.Department.DepartmentCode, found.CourseNumber, found.Name)
	a.printf("%s\nAverage rating: %.1f\n\n", found.Description, found.AverageRating)

	if state.ReviewsErr != nil {
		a.printf("Reviews unavailable: %s\n", state.ReviewsErr.Error())
		return nil
	}
	if len(state.Reviews) == 0 {
		a.printf("No reviews yet.\n")
	}
	for _, r := range state.Reviews {
		a.printReview(r)
	}

	if a.sessions.IsAuthenticated() && state.HasReviewed {
		a.printf("\nYou have already reviewed this course.\n")
	}
	return nil
}

// # Review Commands

func (a *app) cmdReviews(ctx context.Context, args []string) error {
	if len(args) < 1 || args[0] != "mine" {
		return apperr.ValidationError("Usage: coursescope reviews mine")
	}

	mine, err := a.reviews.ListMine(ctx)
	if err != nil {
		return err
	}
	if len(mine) == 0 {
		a.printf("You have not written any reviews.\n")
		return nil
	}
	for _, r := range mine {
		a.printf("[%s] course %s\n", r.ID, r.CourseID)
		a.printReview(r)
	}
	return nil
}

func (a *app) cmdReview(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return apperr.ValidationError("Usage: coursescope review {add|edit|delete} [flags]")
	}
	action, rest := args[0], args[1:]

	flags := flag.NewFlagSet("review "+action, flag.ExitOnError)
	courseID := flags.String("course", "", "course ID")
	reviewID := flags.String("id", "", "review ID (edit/delete)")
	content := flags.String("content", "", "review text (10-500 characters)")
	rating := flags.Int("rating", 0, "overall rating 1-5")
	difficulty := flags.Int("difficulty", 0, "difficulty 1-5")
	workload := flags.Int("workload", 0, "workload 1-5")
	anonymous := flags.Bool("anonymous", false, "hide your name on the review")
	_ = flags.Parse(rest)

	if *courseID == "" {
		return apperr.ValidationError("The -course flag is required")
	}

	draft := review.Draft{
		Content:    *content,
		Rating:     *rating,
		Difficulty: *difficulty,
		Workload:   *workload,
		Anonymous:  *anonymous,
	}

	switch action {
	case "add":
		created, err := a.reviews.Create(ctx, *courseID, draft)
		if err != nil {
			return err
		}
		a.printf("Review %s posted. You can edit it for the next %d hours.\n",
			created.ID, int(review.EditWindow.Hours()))
		return nil

	case "edit":
		if *reviewID == "" {
			return apperr.ValidationError("The -id flag is required")
		}
		updated, err := a.reviews.Update(ctx, *courseID, *reviewID, draft)
		if err != nil {
			return err
		}
		a.printf("Review %s updated.\n", updated.ID)
		return nil

	case "delete":
		if *reviewID == "" {
			return apperr.ValidationError("The -id flag is required")
		}
		if err := a.reviews.Delete(ctx, *courseID, *reviewID); err != nil {
			return err
		}
		a.printf("Review deleted.\n")
		return nil
	}

	return apperr.ValidationError(fmt.Sprintf("Unknown review action %q", action))
}

// # Preferences

func (a *app) cmdTheme() error {
	current := a.sessions.Theme()
	next := "dark"
	if current == "dark" {
		next = "light"
	}
	if err := a.sessions.SetTheme(next); err != nil {
		return err
	}
	a.printf("Theme switched to %s.\n", next)
	return nil
}

// # Output Helpers

func (a *app) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.out, format, args...)
}

func (a *app) printReview(r review.Review) {
	edited := ""
	if review.WasEdited(r) {
		edited = " (edited)"
	}
	a.printf("  %s — rating %d, difficulty %d, workload %d — %s%s\n",
		r.WrittenBy.Name, r.Rating, r.Difficulty, r.Workload,
		r.DatePosted.Format("2006-01-02"), edited)
	a.printf("    %s\n", r.Content)
}

// formatWindow renders the sliding page-button window, one-based for humans.
func formatWindow(current, totalPages int) string {
	window := pagination.Window(current, totalPages)
	parts := make([]string, 0, len(window))
	for _, page := range window {
		label := fmt.Sprintf("%d", page+1)
		if page == current {
			label = "[" + label + "]"
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, " ")
}

func fatalIf(log *slog.Logger, err error) {
	if err != nil {
		log.Error("startup failure", slog.Any("error", err))
		os.Exit(1)
	}
}
