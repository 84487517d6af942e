// Package discord adapts a discordgo session to the rest interfaces. It is
// the only package that knows about the concrete wire library; everything
// above it stays transport-agnostic.
package discord

import (
	"context"
	"errors"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/slashkit/rest"
	"github.com/keshon/slashkit/schema"
)

// Client wraps a discordgo session as a rest.Client and rest.CommandClient.
type Client struct {
	s     *discordgo.Session
	appID string
}

// NewClient returns a Client for the session. The application ID is needed
// for the interaction-token endpoints, which address the app's webhook.
func NewClient(s *discordgo.Session, appID string) *Client {
	return &Client{s: s, appID: appID}
}

// DeleteMessage removes a message through the channel endpoint.
func (c *Client) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	return wrapErr(c.s.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx)))
}

// DeleteInteractionMessage removes a message through the interaction-token
// endpoint. Interaction followups are addressed as webhook messages under
// the application's ID.
func (c *Client) DeleteInteractionMessage(ctx context.Context, interactionToken, messageID string) error {
	return wrapErr(c.s.WebhookMessageDelete(c.appID, interactionToken, messageID, discordgo.WithContext(ctx)))
}

// EditMessage updates a message and returns the updated message data.
func (c *Client) EditMessage(ctx context.Context, channelID, messageID string, payload rest.MessagePayload, files []*rest.File) (*rest.MessageData, error) {
	edit := &discordgo.MessageEdit{
		ID:      messageID,
		Channel: channelID,
		Flags:   discordgo.MessageFlags(payload.Flags),
		Files:   toFiles(files),
	}
	edit.Content = &payload.Content

	embeds := toEmbeds(payload.Embeds)
	edit.Embeds = &embeds

	components, err := toComponents(payload.Components)
	if err != nil {
		return nil, err
	}
	edit.Components = &components

	attachments := toAttachments(payload.Attachments)
	edit.Attachments = &attachments

	if payload.AllowedMentions != nil {
		edit.AllowedMentions = toAllowedMentions(payload.AllowedMentions)
	}

	msg, err := c.s.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx))
	if err != nil {
		return nil, wrapErr(err)
	}
	return fromMessage(msg), nil
}

// CreateMessage posts a new message and returns the created message data.
func (c *Client) CreateMessage(ctx context.Context, channelID string, payload rest.MessagePayload, files []*rest.File) (*rest.MessageData, error) {
	components, err := toComponents(payload.Components)
	if err != nil {
		return nil, err
	}

	send := &discordgo.MessageSend{
		Content:    payload.Content,
		TTS:        payload.TTS,
		Embeds:     toEmbeds(payload.Embeds),
		Components: components,
		Files:      toFiles(files),
		StickerIDs: payload.StickerIDs,
		Flags:      discordgo.MessageFlags(payload.Flags),
	}
	if payload.AllowedMentions != nil {
		send.AllowedMentions = toAllowedMentions(payload.AllowedMentions)
	}
	if ref := payload.MessageReference; ref != nil {
		send.Reference = &discordgo.MessageReference{
			MessageID: ref.MessageID,
			ChannelID: ref.ChannelID,
			GuildID:   ref.GuildID,
		}
	}

	msg, err := c.s.ChannelMessageSendComplex(channelID, send, discordgo.WithContext(ctx))
	if err != nil {
		return nil, wrapErr(err)
	}
	return fromMessage(msg), nil
}

// Commands lists the commands currently registered for a guild.
func (c *Client) Commands(ctx context.Context, appID, guildID string) ([]*schema.RegisteredCommand, error) {
	cmds, err := c.s.ApplicationCommands(appID, guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, wrapErr(err)
	}
	out := make([]*schema.RegisteredCommand, 0, len(cmds))
	for _, cmd := range cmds {
		rc, err := fromApplicationCommand(cmd)
		if err != nil {
			return nil, err
		}
		out = append(out, rc)
	}
	return out, nil
}

// CreateCommand registers or overwrites a command.
func (c *Client) CreateCommand(ctx context.Context, appID, guildID string, payload *schema.RegisteredCommand) (*schema.RegisteredCommand, error) {
	created, err := c.s.ApplicationCommandCreate(appID, guildID, toApplicationCommand(payload), discordgo.WithContext(ctx))
	if err != nil {
		return nil, wrapErr(err)
	}
	return fromApplicationCommand(created)
}

// DeleteCommand removes a registered command.
func (c *Client) DeleteCommand(ctx context.Context, appID, guildID, commandID string) error {
	return wrapErr(c.s.ApplicationCommandDelete(appID, guildID, commandID, discordgo.WithContext(ctx)))
}

// EditCommandPermissions replaces the permission overrides for one command
// in one guild.
func (c *Client) EditCommandPermissions(ctx context.Context, appID, guildID, commandID string, overrides []schema.PermissionOverride) error {
	perms := make([]*discordgo.ApplicationCommandPermissions, len(overrides))
	for i, o := range overrides {
		perms[i] = &discordgo.ApplicationCommandPermissions{
			ID:         o.ID,
			Type:       discordgo.ApplicationCommandPermissionType(o.Kind),
			Permission: o.Allow,
		}
	}
	err := c.s.ApplicationCommandPermissionsEdit(appID, guildID, commandID, &discordgo.ApplicationCommandPermissionsList{
		Permissions: perms,
	}, discordgo.WithContext(ctx))
	return wrapErr(err)
}

// wrapErr converts discordgo REST errors into the transport error kinds, so
// callers can branch on rest.ErrForbidden without importing discordgo.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	var rerr *discordgo.RESTError
	if errors.As(err, &rerr) && rerr.Response != nil {
		apiErr := &rest.APIError{Status: rerr.Response.StatusCode}
		if rerr.Message != nil {
			apiErr.Message = rerr.Message.Message
		}
		return apiErr
	}
	return err
}
