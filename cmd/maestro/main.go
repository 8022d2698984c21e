// Command maestro runs the personal-assistant service: the orchestration
// graph behind an HTTP API plus the background email, reminder and deadline
// sweeps.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/joho/godotenv"
	goopenai "github.com/sashabaranov/go-openai"

	"github.com/maestro-agents/maestro/assistant"
	"github.com/maestro-agents/maestro/internal/config"
	"github.com/maestro-agents/maestro/logging"
	"github.com/maestro-agents/maestro/memory"
	"github.com/maestro-agents/maestro/model"
	"github.com/maestro-agents/maestro/model/anthropic"
	"github.com/maestro-agents/maestro/model/openai"
	"github.com/maestro-agents/maestro/notify"
	"github.com/maestro-agents/maestro/scheduler"
	"github.com/maestro-agents/maestro/server"
	"github.com/maestro-agents/maestro/store"
	"github.com/maestro-agents/maestro/thread"
)

// backgroundEmailPrompt drives the periodic email workflow through the
// supervisor, the same way an interactive user request would.
const backgroundEmailPrompt = "Fetch my unread emails, categorize and summarize them, " +
	"notify me about anything important and schedule any deadlines or events you find."

func main() {
	_ = godotenv.Load()

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "maestro:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(nil)

	llm, err := buildModel(cfg)
	if err != nil {
		return err
	}

	st := store.NewInMemoryStore()
	notifier := notify.NewNtfyNotifier(cfg.NtfyTopic, func(o *notify.NtfyOptions) {
		if cfg.NtfyBaseURL != "" {
			o.BaseURL = cfg.NtfyBaseURL
		}
		o.Logger = logger
	})

	var gateway *memory.Gateway
	if cfg.MemoryUserID != "" {
		provider, err := buildMemoryProvider(cfg)
		if err != nil {
			return err
		}
		gateway = memory.NewGateway(provider, func(o *memory.GatewayOptions) {
			o.Logger = logger
		})
		defer gateway.Close()
	}

	g, err := assistant.BuildGraph(assistant.Deps{
		Model:        llm,
		Store:        st,
		Notifier:     notifier,
		Memory:       gateway,
		MemoryUserID: cfg.MemoryUserID,
		MaxSteps:     cfg.MaxSteps,
	})
	if err != nil {
		return err
	}

	sched := scheduler.New(func(o *scheduler.Options) {
		o.Logger = logger
	})

	emailJob := scheduler.NewGraphRunJob(g, "email-background", backgroundEmailPrompt, logger)
	reminderSweep := scheduler.NewReminderSweep(st, notifier, logger, nil)
	deadlineSweep := scheduler.NewDeadlineSweep(st, notifier, logger, nil)

	for _, job := range []scheduler.Job{
		{Name: "email-check", Interval: cfg.EmailSweepInterval, Run: emailJob.Run},
		{Name: "reminder-check", Interval: cfg.ReminderSweepInterval, Run: reminderSweep.Run},
		{Name: "deadline-check", Interval: cfg.DeadlineSweepInterval, Run: deadlineSweep.Run},
	} {
		if err := sched.Register(job); err != nil {
			return err
		}
	}

	sched.Start()
	defer func() {
		<-sched.Stop().Done()
	}()

	srv := server.New(g, thread.NewInMemoryStore(), st, notifier, sched, func(o *server.Options) {
		o.Logger = logger
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen(cfg.Addr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("shutdown.signal", "signal", sig.String())
		return srv.Shutdown()
	}
}

func buildModel(cfg config.Config) (model.Model, error) {
	switch cfg.Provider {
	case config.ProviderAnthropic:
		return anthropic.NewModel(func(o *anthropic.Options) {
			o.APIKey = cfg.AnthropicAPIKey
			if cfg.Model != "" {
				o.Model = anthropicsdk.Model(cfg.Model)
			}
		}), nil
	default:
		return openai.NewModel(func(o *openai.Options) {
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
		}), nil
	}
}

func buildMemoryProvider(cfg config.Config) (memory.Provider, error) {
	if cfg.OpenAIAPIKey == "" {
		// No embeddings backend available; fall back to keyword matching.
		return memory.NewInMemoryProvider(), nil
	}
	client := goopenai.NewClient(cfg.OpenAIAPIKey)
	return memory.NewChromemProvider(client, func(o *memory.ChromemOptions) {
		o.Path = cfg.MemoryPath
	})
}
