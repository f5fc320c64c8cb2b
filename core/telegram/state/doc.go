// Package state keeps the per-user conversation state of the Telegram bot:
// which training module, if any, free text should be routed to.
package state
