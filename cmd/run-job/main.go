package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"reddit-ideas/internal/config"
	"reddit-ideas/internal/database"
	"reddit-ideas/internal/digest"
	"reddit-ideas/internal/llm"
	"reddit-ideas/internal/notifier"
	"reddit-ideas/internal/reddit"
	"reddit-ideas/internal/services"
	"reddit-ideas/internal/worker"

	"github.com/k0kubun/pp/v3"
)

// jobAliases maps the short flag values to job names
var jobAliases = map[string]string{
	"generate":     worker.JobGenerateIdeas,
	"personalized": worker.JobPersonalized,
	"newsletter":   worker.JobNewsletter,
}

func main() {
	// Command line flags
	jobFlag := flag.String("job", "", "Job to run: generate, personalized or newsletter")
	flag.Parse()

	name, ok := jobAliases[*jobFlag]
	if !ok {
		log.Fatalf("❌ Unknown job %q (want generate, personalized or newsletter)", *jobFlag)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Only check what the chosen job talks to
	if name == worker.JobGenerateIdeas {
		err = cfg.RequireCompletion()
	} else {
		if err = cfg.RequireSite(); err == nil {
			err = cfg.RequireEmail()
		}
	}
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	store := services.NewIdeaStore(db)
	var generator *services.Generator
	var dispatcher *services.Dispatcher

	if name == worker.JobGenerateIdeas {
		completer, err := llm.New(cfg.Completion)
		if err != nil {
			log.Fatal("Failed to create completion client:", err)
		}
		generator = services.NewGenerator(store, reddit.NewMockSource(), completer, nil)
	} else {
		mailer, err := notifier.NewFromConfig(cfg.Email)
		if err != nil {
			log.Fatal("Failed to create email sender:", err)
		}
		builder, err := digest.New(cfg.SiteURL)
		if err != nil {
			log.Fatal("Failed to create digest builder:", err)
		}
		dispatcher = services.NewDispatcher(db, store, builder, mailer)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("🚀 Running %s...", name)
	result, err := worker.NewWorkerService().Run(ctx, name, services.JobFuncs(generator, dispatcher)[name])
	if err != nil {
		log.Fatalf("❌ %s failed: %v", name, err)
	}

	pp.Println(result)
	log.Printf("✅ %s finished", name)
}
