package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/gradebook/internal/cli"
	"github.com/alexanderramin/gradebook/internal/config"
	"github.com/alexanderramin/gradebook/internal/db"
	"github.com/alexanderramin/gradebook/internal/logging"
	"github.com/alexanderramin/gradebook/internal/metrics"
	"github.com/alexanderramin/gradebook/internal/repository"
	"github.com/alexanderramin/gradebook/internal/service"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Console logging would tear the grid's alternate screen, so a log file
	// replaces it when configured.
	var console io.Writer = os.Stderr
	if cfg.Log.File != "" {
		console = nil
	}
	logger, closeLog, err := logging.New(cfg.Log, console)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
		_ = closeLog()
	}()

	rec := metrics.NewRecorder()
	defer func() {
		if werr := rec.WriteTextfile(cfg.Metrics.Textfile); werr != nil {
			logger.Warn("metrics textfile not written", zap.Error(werr))
		}
	}()

	database, err := db.OpenDB(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()
	logger.Debug("database ready", zap.String("path", cfg.DB.Path))

	// Wire repositories
	classRepo := repository.NewSQLiteClassRepo(database)
	enrollmentRepo := repository.NewSQLiteEnrollmentRepo(database)
	planItemRepo := repository.NewSQLitePlanItemRepo(database)
	curriculumRepo := repository.NewSQLiteCurriculumRepo(database)
	scaleRepo := repository.NewSQLiteGradeScaleRepo(database)
	assessmentRepo := repository.NewSQLiteAssessmentRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	observers := []service.UseCaseObserver{
		service.NewZapUseCaseObserver(logger),
		service.NewMetricsUseCaseObserver(rec),
	}

	app := &cli.App{
		Reports:     service.NewReportService(classRepo, enrollmentRepo, curriculumRepo, scaleRepo, assessmentRepo, observers...),
		Assessments: service.NewAssessmentService(uow, observers...),
		Grid:        service.NewGridService(classRepo, enrollmentRepo, planItemRepo, curriculumRepo, scaleRepo, assessmentRepo, observers...),
		Scales:      service.NewGradeScaleService(scaleRepo),
		Classes:     service.NewClassService(classRepo, enrollmentRepo, planItemRepo),
		Config:      *cfg,
		Logger:      logger,
		Metrics:     rec,
	}

	// Detect interactive terminal for prompts and the grading grid.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
