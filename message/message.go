// Package message implements the interaction-bound message lifecycle:
// edits, replies and deletions that pick the correct delivery surface. A
// message sent in response to an interaction carries the interaction's
// token for its whole lifetime; when the normal channel-scoped delete is
// rejected by the platform's permission system, that token opens the
// fallback path.
package message

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/keshon/slashkit/rest"
	"github.com/keshon/slashkit/scheduler"
)

// Scheduler spawns the deferred deletion task. scheduler.Manager satisfies
// it; tests inject a fake with a synthetic clock.
type Scheduler interface {
	After(name string, delay time.Duration, fn func(ctx context.Context)) error
	Stop(name string) error
}

// Options carries the shared collaborators every message needs. The zero
// value is not usable: Client is mandatory.
type Options struct {
	Client rest.Client

	// Scheduler runs deferred deletions. Defaults to scheduler.DefaultManager.
	Scheduler Scheduler

	// AllowedMentions is the client-wide default mention policy, consulted
	// only when a caller leaves the field unset on an edit or reply.
	AllowedMentions *rest.AllowedMentions

	// Logger receives failures from deferred attempts, which have no caller
	// left to report to. Defaults to a no-op logger.
	Logger *zerolog.Logger
}

// Message is a sent message bound to the interaction that produced it.
// Identity and interaction token are immutable after construction; content
// fields are refreshed from transport responses.
type Message struct {
	ID        string
	ChannelID string

	Content     string
	Embeds      []rest.Embed
	Attachments []rest.Attachment
	Components  []rest.Component
	Flags       int

	token string
	opts  Options
}

// deleteSeq disambiguates deferred deletion task names when several are
// scheduled for the same message.
var deleteSeq atomic.Uint64

// New builds a Message from transport data and the interaction token that
// produced it.
func New(data *rest.MessageData, interactionToken string, opts Options) *Message {
	if opts.Scheduler == nil {
		opts.Scheduler = scheduler.DefaultManager
	}
	if opts.Logger == nil {
		nop := zerolog.Nop()
		opts.Logger = &nop
	}

	m := &Message{
		token: interactionToken,
		opts:  opts,
	}
	m.apply(data)
	return m
}

// InteractionToken returns the token binding this message to its
// originating interaction.
func (m *Message) InteractionToken() string {
	return m.token
}

// Delete removes the message. With no delay the channel-scoped delete runs
// first and a Forbidden answer falls back to the interaction-token path
// exactly once; any other failure, on either path, propagates. With a delay
// the entire deletion is deferred: a background task sleeps, then goes
// straight to the token path and swallows a Forbidden answer, since no
// caller is waiting by then.
func (m *Message) Delete(ctx context.Context, delay time.Duration) error {
	if delay > 0 {
		m.scheduleDelete(delay)
		return nil
	}

	err := m.opts.Client.DeleteMessage(ctx, m.ChannelID, m.ID)
	if err == nil || !errors.Is(err, rest.ErrForbidden) {
		return err
	}
	return m.opts.Client.DeleteInteractionMessage(ctx, m.token, m.ID)
}

// scheduleDelete hands a token-scoped deletion to the scheduler. The task
// captures only the token, the message id and the transport handle, so it
// never keeps the Message itself alive. Each call gets a fresh task name: a
// later edit or delete does not cancel an earlier scheduled deletion.
func (m *Message) scheduleDelete(delay time.Duration) {
	name := fmt.Sprintf("delete:%s:%d", m.ID, deleteSeq.Add(1))
	token, id := m.token, m.ID
	client := m.opts.Client
	log := m.opts.Logger

	err := m.opts.Scheduler.After(name, delay, func(ctx context.Context) {
		if err := client.DeleteInteractionMessage(ctx, token, id); err != nil {
			if errors.Is(err, rest.ErrForbidden) {
				log.Debug().Str("message_id", id).Msg("deferred delete forbidden, message likely gone")
				return
			}
			log.Warn().Err(err).Str("message_id", id).Msg("deferred delete failed")
		}
	})
	if err != nil {
		log.Warn().Err(err).Str("message_id", id).Msg("failed to schedule deferred delete")
	}
}

// apply refreshes the mutable content fields from a transport response.
func (m *Message) apply(data *rest.MessageData) {
	if data == nil {
		return
	}
	if data.ID != "" {
		m.ID = data.ID
	}
	if data.ChannelID != "" {
		m.ChannelID = data.ChannelID
	}
	m.Content = data.Content
	m.Embeds = data.Embeds
	m.Attachments = data.Attachments
	m.Components = data.Components
	m.Flags = data.Flags
}
