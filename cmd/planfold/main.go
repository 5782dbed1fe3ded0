package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/okerlund/planfold/internal/calendar"
	"github.com/okerlund/planfold/internal/cli"
	"github.com/okerlund/planfold/internal/criticalpath"
	"github.com/okerlund/planfold/internal/db"
	"github.com/okerlund/planfold/internal/leveling"
	"github.com/okerlund/planfold/internal/repository"
	"github.com/okerlund/planfold/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.planfold/planfold.db
	dbPath := os.Getenv("PLANFOLD_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".planfold", "planfold.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	planRepo := repository.NewSQLitePlanRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	var observerOut io.Writer
	if os.Getenv("PLANFOLD_DEBUG") != "" {
		observerOut = os.Stderr
	}
	observer := service.NewLogUseCaseObserver(observerOut)

	cal := calendar.NewWeekday()
	graphSvc := service.NewGraphService(
		planRepo,
		uow,
		cal,
		criticalpath.New(),
		leveling.NewRunner(&leveling.SerialSolver{Cal: cal}),
		observer,
	)

	app := &cli.App{
		Plans:  service.NewPlanService(planRepo),
		Graph:  graphSvc,
		Import: service.NewImportService(planRepo, uow),
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
		},
	}

	return cli.NewRootCmd(app).Execute()
}
