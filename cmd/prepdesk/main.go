package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/alexanderramin/prepdesk/internal/cli"
	"github.com/alexanderramin/prepdesk/internal/config"
	"github.com/alexanderramin/prepdesk/internal/db"
	"github.com/alexanderramin/prepdesk/internal/ident"
	"github.com/alexanderramin/prepdesk/internal/llm"
	"github.com/alexanderramin/prepdesk/internal/persistence"
	"github.com/alexanderramin/prepdesk/internal/repository"
	"github.com/alexanderramin/prepdesk/internal/search"
	"github.com/alexanderramin/prepdesk/internal/service"
	"github.com/alexanderramin/prepdesk/internal/workspace"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, _, _, err := config.Load("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire storage
	uow := db.NewSQLiteUnitOfWork(database)
	adapter := persistence.NewAdapter(repository.NewSQLiteSlotStore(database))
	index := repository.NewSQLiteProjectIndexRepo(database)

	// Wire services
	var observers []service.UseCaseObserver
	if cfg.LogUseCases {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}
	engine := workspace.NewEngine(ident.NewUUIDGenerator())
	projects := service.NewProjectIndexService(index, adapter, uow, observers...)

	searchCfg := cfg.Search.Client()
	var searchObserver search.Observer = search.NoopObserver{}
	if searchCfg.LogCalls {
		searchObserver = search.NewLogObserver(os.Stderr)
	}

	app := &cli.App{
		Workspaces:       service.NewWorkspaceService(engine, adapter, projects, uow, observers...),
		Projects:         projects,
		Search:           search.NewHTTPClient(searchCfg, searchObserver),
		DefaultWorkspace: cfg.Workspace,
		SearchDebounce:   searchCfg.Debounce(),
	}

	if cfg.LLM.Enabled {
		llmCfg := cfg.LLM.Client()
		var llmObserver llm.Observer = llm.NoopObserver{}
		if llmCfg.LogCalls {
			llmObserver = llm.NewLogObserver(os.Stderr)
		}
		app.Assist = service.NewAssistService(llm.NewOllamaClient(llmCfg, llmObserver), observers...)
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
