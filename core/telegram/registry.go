package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/salestrainer/core/logger"
)

// Command is a slash command with its menu metadata.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	AdminOnly   bool
	// Hidden commands work but are left out of the Telegram command menu.
	Hidden  bool
	Aliases []string
}

// Registry collects commands, callbacks and reply-keyboard labels before the
// bot starts. Lookups are safe for concurrent use.
type Registry struct {
	mu               sync.RWMutex
	commands         map[string]Command
	callbacks        map[string]tele.HandlerFunc
	texts            map[string]tele.HandlerFunc
	callbackNotFound tele.HandlerFunc
	textFallback     tele.HandlerFunc
}

// NewRegistry returns an empty Registry whose unknown-callback reply is a toast.
func NewRegistry() *Registry {
	return &Registry{
		commands:  make(map[string]Command),
		callbacks: make(map[string]tele.HandlerFunc),
		texts:     make(map[string]tele.HandlerFunc),
		callbackNotFound: func(c tele.Context) error {
			return c.Respond(&tele.CallbackResponse{Text: "Кнопка устарела"})
		},
	}
}

func skip(event string, attrs ...slog.Attr) {
	logger.LogEvent(context.Background(), logger.TWire, slog.LevelWarn, event,
		append([]slog.Attr{slog.String("status", "skip")}, attrs...)...)
}

// RegisterCommand adds a command named like "/start".
func (r *Registry) RegisterCommand(name string, cmd Command) error {
	if !strings.HasPrefix(name, "/") || len(name) < 2 || cmd.Handler == nil || cmd.Description == "" {
		skip("register.command", slog.String("handler", name))
		return fmt.Errorf("telegram: invalid command %q", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.commands[name]; exists {
		skip("register.command", slog.String("handler", name), slog.String("cause", "duplicate"))
		return fmt.Errorf("telegram: command already registered: %s", name)
	}
	r.commands[name] = cmd
	return nil
}

// RegisterCallback maps an inline button unique key to h.
func (r *Registry) RegisterCallback(key string, h tele.HandlerFunc) error {
	if key == "" || h == nil {
		skip("register.callback", slog.String("cb_key", key))
		return errors.New("telegram: invalid callback registration")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.callbacks[key]; exists {
		skip("register.callback", slog.String("cb_key", key), slog.String("cause", "duplicate"))
		return fmt.Errorf("telegram: callback already registered: %s", key)
	}
	r.callbacks[key] = h
	return nil
}

// RegisterText maps an exact reply-keyboard label to h.
func (r *Registry) RegisterText(label string, h tele.HandlerFunc) error {
	label = strings.TrimSpace(label)
	if label == "" || h == nil {
		skip("register.text", slog.String("payload", label))
		return errors.New("telegram: invalid text registration")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.texts[label]; exists {
		skip("register.text", slog.String("payload", label), slog.String("cause", "duplicate"))
		return fmt.Errorf("telegram: text already registered: %s", label)
	}
	r.texts[label] = h
	return nil
}

// commandName extracts "/cmd" from text such as "/cmd@my_bot args".
func commandName(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	name, _, _ := strings.Cut(fields[0], "@")
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	return strings.ToLower(name)
}

// LookupCommand resolves text to a command by name or alias and returns the
// canonical name.
func (r *Registry) LookupCommand(text string) (string, Command, bool) {
	name := commandName(text)
	if name == "" {
		return "", Command{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if cmd, ok := r.commands[name]; ok {
		return name, cmd, true
	}
	for key, cmd := range r.commands {
		for _, alias := range cmd.Aliases {
			if "/"+strings.TrimPrefix(alias, "/") == name {
				return key, cmd, true
			}
		}
	}
	return "", Command{}, false
}

// LookupText returns the handler registered for a reply-keyboard label.
func (r *Registry) LookupText(text string) (tele.HandlerFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.texts[strings.TrimSpace(text)]
	return h, ok
}

// Commands returns a copy of the registered commands.
func (r *Registry) Commands() map[string]Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Command, len(r.commands))
	for k, v := range r.commands {
		out[k] = v
	}
	return out
}

// ListCommands returns the menu entries sorted by name. With visibleOnly,
// hidden and admin commands are omitted.
func (r *Registry) ListCommands(visibleOnly bool) []tele.Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]tele.Command, 0, len(r.commands))
	for name, cmd := range r.commands {
		if visibleOnly && (cmd.Hidden || cmd.AdminOnly) {
			continue
		}
		list = append(list, tele.Command{Text: strings.TrimPrefix(name, "/"), Description: cmd.Description})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Text < list[j].Text })
	return list
}

// GetCallback returns the handler for key.
func (r *Registry) GetCallback(key string) (tele.HandlerFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.callbacks[key]
	return h, ok
}

// ListCallbacks returns the registered callback keys, sorted.
func (r *Registry) ListCallbacks() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.callbacks))
	for k := range r.callbacks {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SetCallbackNotFound replaces the handler for unknown callbacks.
func (r *Registry) SetCallbackNotFound(h tele.HandlerFunc) {
	if h == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbackNotFound = h
}

// CallbackNotFound returns the handler for unknown callbacks.
func (r *Registry) CallbackNotFound() tele.HandlerFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.callbackNotFound
}

// SetTextFallback sets the handler for text no route claims.
func (r *Registry) SetTextFallback(h tele.HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.textFallback = h
}

// TextFallback returns the handler for text no route claims.
func (r *Registry) TextFallback() tele.HandlerFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.textFallback
}

// InitBotCommands publishes the visible commands to the Telegram menu.
func InitBotCommands(bot *tele.Bot, reg *Registry) error {
	cmds := reg.ListCommands(true)
	err := bot.SetCommands(cmds)
	logger.LogEvent(context.Background(), logger.TWire, levelFor(err), "commands.publish",
		slog.String("status", logger.Status(err)),
		slog.Int("count", len(cmds)),
		logger.Err(err),
	)
	return err
}

func levelFor(err error) slog.Level {
	if err != nil {
		return slog.LevelError
	}
	return slog.LevelInfo
}
