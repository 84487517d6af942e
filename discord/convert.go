package discord

import (
	"encoding/json"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/slashkit/rest"
	"github.com/keshon/slashkit/schema"
)

// --- Message payload conversion ---

func toEmbeds(embeds []rest.Embed) []*discordgo.MessageEmbed {
	out := make([]*discordgo.MessageEmbed, len(embeds))
	for i, e := range embeds {
		out[i] = toEmbed(e)
	}
	return out
}

func toEmbed(e rest.Embed) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       e.Title,
		Description: e.Description,
		URL:         e.URL,
		Timestamp:   e.Timestamp,
		Color:       e.Color,
	}
	if e.Footer != nil {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: e.Footer.Text, IconURL: e.Footer.IconURL}
	}
	if e.Image != nil {
		embed.Image = &discordgo.MessageEmbedImage{URL: e.Image.URL}
	}
	if e.Thumbnail != nil {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: e.Thumbnail.URL}
	}
	if e.Author != nil {
		embed.Author = &discordgo.MessageEmbedAuthor{Name: e.Author.Name, URL: e.Author.URL, IconURL: e.Author.IconURL}
	}
	for _, f := range e.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
	}
	return embed
}

func fromEmbeds(embeds []*discordgo.MessageEmbed) []rest.Embed {
	if len(embeds) == 0 {
		return nil
	}
	out := make([]rest.Embed, len(embeds))
	for i, e := range embeds {
		out[i] = fromEmbed(e)
	}
	return out
}

func fromEmbed(e *discordgo.MessageEmbed) rest.Embed {
	embed := rest.Embed{
		Title:       e.Title,
		Description: e.Description,
		URL:         e.URL,
		Timestamp:   e.Timestamp,
		Color:       e.Color,
	}
	if e.Footer != nil {
		embed.Footer = &rest.EmbedFooter{Text: e.Footer.Text, IconURL: e.Footer.IconURL}
	}
	if e.Image != nil {
		embed.Image = &rest.EmbedImage{URL: e.Image.URL}
	}
	if e.Thumbnail != nil {
		embed.Thumbnail = &rest.EmbedImage{URL: e.Thumbnail.URL}
	}
	if e.Author != nil {
		embed.Author = &rest.EmbedAuthor{Name: e.Author.Name, URL: e.Author.URL, IconURL: e.Author.IconURL}
	}
	for _, f := range e.Fields {
		embed.Fields = append(embed.Fields, rest.EmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
	}
	return embed
}

// toComponents round-trips the pass-through component descriptors into
// discordgo's typed components.
func toComponents(components []rest.Component) ([]discordgo.MessageComponent, error) {
	out := make([]discordgo.MessageComponent, 0, len(components))
	for _, c := range components {
		raw, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		parsed, err := discordgo.MessageComponentFromJSON(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, parsed)
	}
	return out, nil
}

func fromComponents(components []discordgo.MessageComponent) []rest.Component {
	if len(components) == 0 {
		return nil
	}
	out := make([]rest.Component, 0, len(components))
	for _, c := range components {
		raw, err := json.Marshal(c)
		if err != nil {
			continue
		}
		var m rest.Component
		if err := json.Unmarshal(raw, &m); err != nil {
			continue
		}
		out = append(out, m)
	}
	return out
}

func toAttachments(attachments []rest.Attachment) []*discordgo.MessageAttachment {
	out := make([]*discordgo.MessageAttachment, len(attachments))
	for i, a := range attachments {
		out[i] = &discordgo.MessageAttachment{
			ID:          a.ID,
			Filename:    a.Filename,
			ContentType: a.ContentType,
			Size:        a.Size,
			URL:         a.URL,
			ProxyURL:    a.ProxyURL,
		}
	}
	return out
}

func fromAttachments(attachments []*discordgo.MessageAttachment) []rest.Attachment {
	if len(attachments) == 0 {
		return nil
	}
	out := make([]rest.Attachment, len(attachments))
	for i, a := range attachments {
		out[i] = rest.Attachment{
			ID:          a.ID,
			Filename:    a.Filename,
			ContentType: a.ContentType,
			Size:        a.Size,
			URL:         a.URL,
			ProxyURL:    a.ProxyURL,
		}
	}
	return out
}

func toFiles(files []*rest.File) []*discordgo.File {
	out := make([]*discordgo.File, len(files))
	for i, f := range files {
		out[i] = &discordgo.File{
			Name:        f.Name,
			ContentType: f.ContentType,
			Reader:      f.Reader,
		}
	}
	return out
}

func toAllowedMentions(m *rest.AllowedMentions) *discordgo.MessageAllowedMentions {
	parse := make([]discordgo.AllowedMentionType, len(m.Parse))
	for i, p := range m.Parse {
		parse[i] = discordgo.AllowedMentionType(p)
	}
	return &discordgo.MessageAllowedMentions{
		Parse:       parse,
		Roles:       m.Roles,
		Users:       m.Users,
		RepliedUser: m.RepliedUser,
	}
}

func fromMessage(msg *discordgo.Message) *rest.MessageData {
	if msg == nil {
		return nil
	}
	return &rest.MessageData{
		ID:          msg.ID,
		ChannelID:   msg.ChannelID,
		Content:     msg.Content,
		Embeds:      fromEmbeds(msg.Embeds),
		Attachments: fromAttachments(msg.Attachments),
		Components:  fromComponents(msg.Components),
		Flags:       int(msg.Flags),
	}
}

// MessageData converts a discordgo message into transport message data, for
// wrapping messages obtained outside the rest interfaces, such as
// interaction responses and followups.
func MessageData(msg *discordgo.Message) *rest.MessageData {
	return fromMessage(msg)
}

// --- Application command conversion ---

func toApplicationCommand(c *schema.RegisteredCommand) *discordgo.ApplicationCommand {
	defaultPermission := c.DefaultPermission
	return &discordgo.ApplicationCommand{
		Name:              c.Name,
		Description:       c.Description,
		Type:              discordgo.ChatApplicationCommand,
		DefaultPermission: &defaultPermission,
		Options:           toOptions(c.Options),
	}
}

func fromApplicationCommand(c *discordgo.ApplicationCommand) (*schema.RegisteredCommand, error) {
	opts, err := fromOptions(c.Options)
	if err != nil {
		return nil, err
	}
	rc := &schema.RegisteredCommand{
		ID:                c.ID,
		ApplicationID:     c.ApplicationID,
		Version:           c.Version,
		Name:              c.Name,
		Description:       c.Description,
		Options:           opts,
		DefaultPermission: c.DefaultPermission == nil || *c.DefaultPermission,
	}
	return rc, nil
}

func toOptions(options []schema.Option) []*discordgo.ApplicationCommandOption {
	if len(options) == 0 {
		return nil
	}
	out := make([]*discordgo.ApplicationCommandOption, len(options))
	for i, o := range options {
		out[i] = &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionType(o.Type),
			Name:        o.Name,
			Description: o.Description,
			Required:    o.Required,
			Options:     toOptions(o.Options),
			Choices:     toChoices(o.Choices),
		}
	}
	return out
}

// fromOptions validates while converting: a malformed remote option tree
// surfaces as a schema.SchemaError instead of poisoning later diffs.
func fromOptions(options []*discordgo.ApplicationCommandOption) ([]schema.Option, error) {
	if len(options) == 0 {
		return nil, nil
	}
	out := make([]schema.Option, len(options))
	for i, o := range options {
		children, err := fromOptions(o.Options)
		if err != nil {
			return nil, err
		}
		opt, err := schema.NewOption(schema.Option{
			Type:        schema.OptionType(o.Type),
			Name:        o.Name,
			Description: o.Description,
			Required:    o.Required,
			Options:     children,
			Choices:     fromChoices(o.Choices),
		})
		if err != nil {
			return nil, err
		}
		out[i] = opt
	}
	return out, nil
}

func toChoices(choices []schema.Choice) []*discordgo.ApplicationCommandOptionChoice {
	if len(choices) == 0 {
		return nil
	}
	out := make([]*discordgo.ApplicationCommandOptionChoice, len(choices))
	for i, c := range choices {
		out[i] = &discordgo.ApplicationCommandOptionChoice{Name: c.Name, Value: c.Value}
	}
	return out
}

func fromChoices(choices []*discordgo.ApplicationCommandOptionChoice) []schema.Choice {
	if len(choices) == 0 {
		return nil
	}
	out := make([]schema.Choice, len(choices))
	for i, c := range choices {
		out[i] = schema.Choice{Name: c.Name, Value: c.Value}
	}
	return out
}
