package rest

import "io"

// FlagSuppressEmbeds hides all embeds on a message, as a bit in the flags
// payload field.
const FlagSuppressEmbeds = 1 << 2

// AllowedMentions controls which mentions in a message actually ping.
type AllowedMentions struct {
	Parse       []string `json:"parse,omitempty"`
	Roles       []string `json:"roles,omitempty"`
	Users       []string `json:"users,omitempty"`
	RepliedUser bool     `json:"replied_user,omitempty"`
}

// EmbedFooter is the footer line of an embed.
type EmbedFooter struct {
	Text    string `json:"text,omitempty"`
	IconURL string `json:"icon_url,omitempty"`
}

// EmbedImage is an image or thumbnail in an embed.
type EmbedImage struct {
	URL string `json:"url,omitempty"`
}

// EmbedAuthor is the author line of an embed.
type EmbedAuthor struct {
	Name    string `json:"name,omitempty"`
	URL     string `json:"url,omitempty"`
	IconURL string `json:"icon_url,omitempty"`
}

// EmbedField is one name/value pair in an embed.
type EmbedField struct {
	Name   string `json:"name,omitempty"`
	Value  string `json:"value,omitempty"`
	Inline bool   `json:"inline,omitempty"`
}

// Embed is a rich-content block. Only the fields the core needs to pass
// through are modeled.
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	URL         string       `json:"url,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
	Color       int          `json:"color,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Image       *EmbedImage  `json:"image,omitempty"`
	Thumbnail   *EmbedImage  `json:"thumbnail,omitempty"`
	Author      *EmbedAuthor `json:"author,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
}

// Component is an interactive-component descriptor, passed through to the
// wire as-is.
type Component map[string]any

// Attachment describes a file attached to a message, pre-existing or about
// to be uploaded.
type Attachment struct {
	ID          string `json:"id,omitempty"`
	Filename    string `json:"filename,omitempty"`
	Description string `json:"description,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Size        int    `json:"size,omitempty"`
	URL         string `json:"url,omitempty"`
	ProxyURL    string `json:"proxy_url,omitempty"`
}

// File is a locally opened file queued for upload. The library closes the
// reader once the request has been dispatched; ownership stays with the
// caller until then.
type File struct {
	Name        string
	ContentType string
	Reader      io.Reader
}

// MessageReference points a reply at its source message.
type MessageReference struct {
	MessageID string `json:"message_id,omitempty"`
	ChannelID string `json:"channel_id,omitempty"`
	GuildID   string `json:"guild_id,omitempty"`
}

// MessagePayload is the body of an edit or create request. Attachments,
// embeds and components are serialized even when empty so that an empty
// slice explicitly clears the corresponding field.
type MessagePayload struct {
	Content          string            `json:"content"`
	TTS              bool              `json:"tts,omitempty"`
	Attachments      []Attachment      `json:"attachments"`
	Embeds           []Embed           `json:"embeds"`
	AllowedMentions  *AllowedMentions  `json:"allowed_mentions,omitempty"`
	MessageReference *MessageReference `json:"message_reference,omitempty"`
	Components       []Component       `json:"components"`
	Flags            int               `json:"flags,omitempty"`
	StickerIDs       []string          `json:"sticker_ids,omitempty"`
}

// MessageData is the raw message object a transport call returns.
type MessageData struct {
	ID          string       `json:"id"`
	ChannelID   string       `json:"channel_id"`
	Content     string       `json:"content"`
	Embeds      []Embed      `json:"embeds,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
	Components  []Component  `json:"components,omitempty"`
	Flags       int          `json:"flags,omitempty"`
}
