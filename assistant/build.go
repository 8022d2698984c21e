package assistant

import (
	"github.com/maestro-agents/maestro/agent"
	"github.com/maestro-agents/maestro/core"
	"github.com/maestro-agents/maestro/graph"
	"github.com/maestro-agents/maestro/memory"
	"github.com/maestro-agents/maestro/model"
	"github.com/maestro-agents/maestro/notify"
	"github.com/maestro-agents/maestro/store"
	"github.com/maestro-agents/maestro/tool"
)

// Deps carries everything BuildGraph needs to assemble the agent roster.
// Model, Store and Notifier are required. Mailbox, Calendar and Weather are
// optional collaborators; when nil the corresponding tools are simply not
// built and the agents work with what remains. Memory is optional too and
// attaches retrieval plus async recording to the supervisor.
type Deps struct {
	Model    model.Model
	Store    store.Store
	Notifier notify.Notifier

	Memory       *memory.Gateway
	MemoryUserID string

	Mailbox  Mailbox
	Calendar Calendar
	Weather  Weather

	// MaxSteps overrides the orchestration step ceiling when > 0.
	MaxSteps int
}

// BuildGraph wires the six personal-assistant agents into an orchestration
// graph: a supervisor that hands work off to the email, notification and
// event scheduling specialists, with the email pipeline fanning out to both
// the notification and event scheduling agents before control returns to the
// supervisor.
func BuildGraph(deps Deps) (*graph.Graph, error) {
	if deps.Model == nil {
		return nil, &core.ConfigurationError{Component: "assistant", Reason: "model is required"}
	}
	if deps.Store == nil {
		return nil, &core.ConfigurationError{Component: "assistant", Reason: "store is required"}
	}
	if deps.Notifier == nil {
		return nil, &core.ConfigurationError{Component: "assistant", Reason: "notifier is required"}
	}

	storeTools := StoreTools(deps.Store)
	notificationTool := NewSendNotificationTool(deps.Notifier)

	var mailboxTools []tool.Tool
	if deps.Mailbox != nil {
		mailboxTools = MailboxTools(deps.Mailbox)
	}
	var calendarTools []tool.Tool
	if deps.Calendar != nil {
		calendarTools = CalendarTools(deps.Calendar)
	}

	supervisorTools := []tool.Tool{
		tool.NewHandoffTool(EmailFetchName,
			"Assign a task to the email agent. The email agent can fetch, categorize and summarize emails."),
		tool.NewHandoffTool(NotificationName,
			"Assign a task to the notification agent. The notification agent can send notifications to the user."),
		tool.NewHandoffTool(EventSchedulerName,
			"Assign a task to the event scheduler agent. The event scheduler agent can schedule the user's events and reminders."),
		notificationTool,
	}
	supervisorTools = append(supervisorTools, storeTools...)
	supervisorTools = append(supervisorTools, mailboxTools...)
	supervisorTools = append(supervisorTools, calendarTools...)
	if deps.Weather != nil {
		supervisorTools = append(supervisorTools, NewWeatherTool(deps.Weather))
	}

	supervisor := agent.New(SupervisorName, deps.Model, func(o *agent.Options) {
		o.Instruction = agent.NewInstructionFromText(supervisorPrompt)
		o.Tools = supervisorTools
		if deps.Memory != nil {
			o.Memory = agent.NewMemoryHooks(deps.Memory, deps.MemoryUserID)
		}
	})

	emailFetch := agent.New(EmailFetchName, deps.Model, func(o *agent.Options) {
		o.Instruction = agent.NewInstructionFromText(emailFetchPrompt)
		o.Tools = mailboxTools
	})

	categorizer := agent.New(EmailCategorizerName, deps.Model, func(o *agent.Options) {
		o.Instruction = agent.NewInstructionFromText(emailCategorizerPrompt)
	})

	summarizer := agent.New(EmailSummarizerName, deps.Model, func(o *agent.Options) {
		o.Instruction = agent.NewInstructionFromText(emailSummarizerPrompt)
	})

	notification := agent.New(NotificationName, deps.Model, func(o *agent.Options) {
		o.Instruction = agent.NewInstructionFromText(notificationPrompt)
		o.Tools = []tool.Tool{notificationTool}
	})

	scheduler := agent.New(EventSchedulerName, deps.Model, func(o *agent.Options) {
		o.Instruction = agent.NewInstructionFromText(eventSchedulerPrompt)
		o.Tools = append(append([]tool.Tool{}, storeTools...), calendarTools...)
	})

	g := graph.New(SupervisorName, func(o *graph.Options) {
		if deps.MaxSteps > 0 {
			o.MaxSteps = deps.MaxSteps
		}
	})

	for _, n := range []graph.Node{supervisor, emailFetch, categorizer, summarizer, notification, scheduler} {
		if err := g.AddNode(n); err != nil {
			return nil, err
		}
	}

	g.AddHandoff(SupervisorName, EmailFetchName, NotificationName, EventSchedulerName)

	g.AddEdge(EmailFetchName, EmailCategorizerName)
	g.AddEdge(EmailCategorizerName, EmailSummarizerName)
	g.AddEdge(EmailSummarizerName, NotificationName)
	g.AddEdge(EmailSummarizerName, EventSchedulerName)
	g.AddEdge(NotificationName, SupervisorName)
	g.AddEdge(EventSchedulerName, SupervisorName)

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}
