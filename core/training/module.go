package training

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"text/template"
)

// Option is one catalog entry: a scenario or a client behavior.
type Option struct {
	Key string
	// Label is the short form used in status lines.
	Label string
	// Title is the long display form; Description is used when empty.
	Title string
	// Description is fed into the client prompt.
	Description string
}

// DisplayTitle returns Title, or Description when no separate title was given.
func (o Option) DisplayTitle() string {
	if o.Title != "" {
		return o.Title
	}
	return o.Description
}

// Stage describes one step of a module.
type Stage struct {
	// Rubric is the coach checklist for messages written during this stage.
	Rubric string
	// Intro is sent when a session advances into this stage.
	Intro string
	// Hint is the one-line reminder shown in help text.
	Hint string
}

// Views holds text/template sources for the HTML texts a module renders.
type Views struct {
	Started string
	Help    string
	Reset   string
	Status  string
}

// Definition is the static configuration of a training module.
type Definition struct {
	Name           string
	Version        string
	Title          string
	CallbackPrefix string

	Scenarios     []Option
	Behaviors     []Option
	Stages        []Stage
	TurnsPerStage int

	ClientPrompt    string
	CoachPrompt     string
	CoachRequest    string
	ClientFallbacks []string
	CoachFallback   string

	Views Views
}

// View names accepted by Module.Render.
const (
	ViewStarted = "started"
	ViewHelp    = "help"
	ViewReset   = "reset"
	ViewStatus  = "status"
)

const defaultTurnsPerStage = 2

var moduleNameRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Module is a validated Definition with compiled templates.
type Module struct {
	def       Definition
	scenarios map[string]Option
	behaviors map[string]Option
	client    *template.Template
	coach     *template.Template
	views     map[string]*template.Template
}

// PromptData is passed to the client and coach prompt templates.
type PromptData struct {
	Scenario Option
	Behavior Option
	Stage    int
	MaxStage int
	Rubric   string
	Trainee  string
	Client   string
}

// ViewData is passed to the view templates.
type ViewData struct {
	Title    string
	Scenario Option
	Behavior Option
	Stage    int
	MaxStage int
	Messages int
	Turns    int
	Stages   []Stage
}

// NewModule validates def and compiles its templates.
func NewModule(def Definition) (*Module, error) {
	if def.TurnsPerStage == 0 {
		def.TurnsPerStage = defaultTurnsPerStage
	}
	if err := validateDefinition(def); err != nil {
		return nil, fmt.Errorf("training: module %q: %w", def.Name, err)
	}

	m := &Module{
		def:       def,
		scenarios: make(map[string]Option, len(def.Scenarios)),
		behaviors: make(map[string]Option, len(def.Behaviors)),
		views:     make(map[string]*template.Template, 4),
	}
	for _, o := range def.Scenarios {
		m.scenarios[o.Key] = o
	}
	for _, o := range def.Behaviors {
		m.behaviors[o.Key] = o
	}

	var err error
	if m.client, err = parseTemplate(def.Name+".client", def.ClientPrompt); err != nil {
		return nil, fmt.Errorf("training: module %q: client prompt: %w", def.Name, err)
	}
	if m.coach, err = parseTemplate(def.Name+".coach", def.CoachPrompt); err != nil {
		return nil, fmt.Errorf("training: module %q: coach prompt: %w", def.Name, err)
	}
	for name, src := range map[string]string{
		ViewStarted: def.Views.Started,
		ViewHelp:    def.Views.Help,
		ViewReset:   def.Views.Reset,
		ViewStatus:  def.Views.Status,
	} {
		tpl, err := parseTemplate(def.Name+"."+name, src)
		if err != nil {
			return nil, fmt.Errorf("training: module %q: %s view: %w", def.Name, name, err)
		}
		m.views[name] = tpl
	}

	if err := m.dryRun(); err != nil {
		return nil, fmt.Errorf("training: module %q: %w", def.Name, err)
	}
	return m, nil
}

func parseTemplate(name, src string) (*template.Template, error) {
	if strings.TrimSpace(src) == "" {
		return nil, errors.New("template is empty")
	}
	return template.New(name).Option("missingkey=error").Parse(src)
}

func validateDefinition(def Definition) error {
	if !moduleNameRe.MatchString(def.Name) {
		return errors.New("name must be lower snake case")
	}
	if strings.TrimSpace(def.Version) == "" {
		return errors.New("version is required")
	}
	if strings.TrimSpace(def.Title) == "" {
		return errors.New("title is required")
	}
	if strings.TrimSpace(def.CallbackPrefix) == "" {
		return errors.New("callback prefix is required")
	}
	if def.TurnsPerStage < 1 {
		return fmt.Errorf("turns per stage must be positive, got %d", def.TurnsPerStage)
	}

	seen := make(map[string]string)
	check := func(kind string, opts []Option) error {
		if len(opts) == 0 {
			return fmt.Errorf("%s catalog is empty", kind)
		}
		for _, o := range opts {
			if strings.TrimSpace(o.Key) == "" {
				return fmt.Errorf("%s with empty key", kind)
			}
			if prev, ok := seen[o.Key]; ok {
				return fmt.Errorf("%s key %q already used by %s catalog", kind, o.Key, prev)
			}
			seen[o.Key] = kind
			if strings.TrimSpace(o.Label) == "" {
				return fmt.Errorf("%s %q has no label", kind, o.Key)
			}
			if strings.TrimSpace(o.Description) == "" {
				return fmt.Errorf("%s %q has no description", kind, o.Key)
			}
		}
		return nil
	}
	if err := check("scenario", def.Scenarios); err != nil {
		return err
	}
	if err := check("behavior", def.Behaviors); err != nil {
		return err
	}

	if len(def.Stages) == 0 {
		return errors.New("at least one stage is required")
	}
	for i, s := range def.Stages {
		if strings.TrimSpace(s.Rubric) == "" {
			return fmt.Errorf("stage %d has no rubric", i+1)
		}
		if strings.TrimSpace(s.Intro) == "" {
			return fmt.Errorf("stage %d has no intro", i+1)
		}
	}

	if len(def.ClientFallbacks) < 3 {
		return fmt.Errorf("need at least 3 client fallbacks, got %d", len(def.ClientFallbacks))
	}
	for i, f := range def.ClientFallbacks {
		if strings.TrimSpace(f) == "" {
			return fmt.Errorf("client fallback %d is empty", i+1)
		}
	}
	if strings.TrimSpace(def.CoachFallback) == "" {
		return errors.New("coach fallback is required")
	}
	if strings.TrimSpace(def.CoachRequest) == "" {
		return errors.New("coach request is required")
	}
	return nil
}

// dryRun executes every template once so field typos fail at startup.
func (m *Module) dryRun() error {
	st := State{
		Module:   m.def.Name,
		Scenario: m.def.Scenarios[0].Key,
		Behavior: m.def.Behaviors[0].Key,
		Stage:    1,
	}
	if _, err := m.ClientPrompt(st); err != nil {
		return fmt.Errorf("client prompt: %w", err)
	}
	if _, err := m.CoachPrompt(st, "trainee", "client"); err != nil {
		return fmt.Errorf("coach prompt: %w", err)
	}
	for name := range m.views {
		if _, err := m.Render(name, st); err != nil {
			return fmt.Errorf("%s view: %w", name, err)
		}
	}
	return nil
}

// Name returns the module identifier used in session keys and routes.
func (m *Module) Name() string { return m.def.Name }

// Version returns the route version segment.
func (m *Module) Version() string { return m.def.Version }

// Title returns the menu title.
func (m *Module) Title() string { return m.def.Title }

// CallbackPrefix returns the prefix of inline-button payloads.
func (m *Module) CallbackPrefix() string { return m.def.CallbackPrefix }

// MaxStage returns the number of stages.
func (m *Module) MaxStage() int { return len(m.def.Stages) }

// TurnsPerStage returns how many trainee turns complete one stage.
func (m *Module) TurnsPerStage() int { return m.def.TurnsPerStage }

// Scenarios returns a copy of the scenario catalog.
func (m *Module) Scenarios() []Option { return append([]Option(nil), m.def.Scenarios...) }

// Behaviors returns a copy of the behavior catalog.
func (m *Module) Behaviors() []Option { return append([]Option(nil), m.def.Behaviors...) }

// Scenario looks up a scenario by key.
func (m *Module) Scenario(key string) (Option, bool) {
	o, ok := m.scenarios[key]
	return o, ok
}

// Behavior looks up a behavior by key.
func (m *Module) Behavior(key string) (Option, bool) {
	o, ok := m.behaviors[key]
	return o, ok
}

// Stage returns stage n (1-based).
func (m *Module) Stage(n int) (Stage, bool) {
	if n < 1 || n > len(m.def.Stages) {
		return Stage{}, false
	}
	return m.def.Stages[n-1], true
}

// SessionKey derives the store key for userID.
func (m *Module) SessionKey(userID string) string {
	return m.def.Name + ":" + userID
}

// ClientFallbacks returns the canned client replies.
func (m *Module) ClientFallbacks() []string {
	return append([]string(nil), m.def.ClientFallbacks...)
}

// CoachFallback returns the canned critique.
func (m *Module) CoachFallback() string { return m.def.CoachFallback }

// ClientPrompt renders the system prompt for the simulated client.
func (m *Module) ClientPrompt(st State) (string, error) {
	return execute(m.client, m.promptData(st, "", ""))
}

// CoachPrompt renders the system prompt for the coach.
func (m *Module) CoachPrompt(st State, trainee, client string) (string, error) {
	return execute(m.coach, m.promptData(st, trainee, client))
}

// CoachRequest returns the user turn sent along with the coach prompt.
func (m *Module) CoachRequest() string { return m.def.CoachRequest }

// Render executes the named view for st.
func (m *Module) Render(view string, st State) (string, error) {
	tpl, ok := m.views[view]
	if !ok {
		return "", fmt.Errorf("training: unknown view %q", view)
	}
	scenario, _ := m.Scenario(st.Scenario)
	behavior, _ := m.Behavior(st.Behavior)
	return execute(tpl, ViewData{
		Title:    m.def.Title,
		Scenario: scenario,
		Behavior: behavior,
		Stage:    st.Stage,
		MaxStage: m.MaxStage(),
		Messages: len(st.History),
		Turns:    st.Meta.TurnCount,
		Stages:   m.def.Stages,
	})
}

func (m *Module) promptData(st State, trainee, client string) PromptData {
	scenario, _ := m.Scenario(st.Scenario)
	behavior, _ := m.Behavior(st.Behavior)
	stage, _ := m.Stage(st.Stage)
	return PromptData{
		Scenario: scenario,
		Behavior: behavior,
		Stage:    st.Stage,
		MaxStage: m.MaxStage(),
		Rubric:   stage.Rubric,
		Trainee:  trainee,
		Client:   client,
	}
}

func execute(tpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
