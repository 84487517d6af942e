// Package rest defines the transport contract the library consumes. The
// actual wire plumbing — HTTP requests, rate-limit bookkeeping — lives
// behind these interfaces; the discord package provides the one concrete
// implementation.
package rest

import (
	"context"

	"github.com/keshon/slashkit/schema"
)

// Client performs message lifecycle calls.
type Client interface {
	// DeleteMessage removes a message through the normal channel endpoint.
	// It requires channel-level delete permission.
	DeleteMessage(ctx context.Context, channelID, messageID string) error

	// DeleteInteractionMessage removes a message through the
	// interaction-token endpoint, which needs no channel permissions.
	DeleteInteractionMessage(ctx context.Context, interactionToken, messageID string) error

	// EditMessage updates a message and returns the updated message data.
	EditMessage(ctx context.Context, channelID, messageID string, payload MessagePayload, files []*File) (*MessageData, error)

	// CreateMessage posts a new message and returns the created message data.
	CreateMessage(ctx context.Context, channelID string, payload MessagePayload, files []*File) (*MessageData, error)
}

// CommandClient manages remotely registered application commands.
type CommandClient interface {
	// Commands lists the commands currently registered for a guild.
	// An empty guildID addresses the global scope.
	Commands(ctx context.Context, appID, guildID string) ([]*schema.RegisteredCommand, error)

	// CreateCommand registers or overwrites a command and returns the
	// definition the registry stored, identity fields included.
	CreateCommand(ctx context.Context, appID, guildID string, payload *schema.RegisteredCommand) (*schema.RegisteredCommand, error)

	// DeleteCommand removes a registered command.
	DeleteCommand(ctx context.Context, appID, guildID, commandID string) error

	// EditCommandPermissions replaces the permission overrides for one
	// command in one guild.
	EditCommandPermissions(ctx context.Context, appID, guildID, commandID string, overrides []schema.PermissionOverride) error
}
