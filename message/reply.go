package message

import (
	"context"

	"github.com/keshon/slashkit/rest"
)

// Reply describes a new message sent in answer to an existing one. The
// message reference is filled in automatically.
type Reply struct {
	Content         string
	TTS             bool
	Embeds          []rest.Embed
	Attachments     []rest.Attachment
	Components      []rest.Component
	AllowedMentions *rest.AllowedMentions
	StickerIDs      []string

	// File attaches a single upload; Files attaches several. Supplying both
	// is a FormatError. Readers are closed once the call returns.
	File  *rest.File
	Files []*rest.File
}

// Reply posts a new message to the same channel, referencing this one. The
// reply inherits the interaction token, so its own delete can use the same
// fallback path.
func (m *Message) Reply(ctx context.Context, reply Reply) (*Message, error) {
	defer func() {
		closeFile(reply.File)
		closeFiles(reply.Files)
	}()

	if reply.File != nil && len(reply.Files) > 0 {
		return nil, &FormatError{Msg: "file and files cannot be supplied together"}
	}
	if len(reply.Embeds) > maxEmbeds {
		return nil, &FormatError{Msg: "no more than 10 embeds per message"}
	}

	payload := rest.MessagePayload{
		Content:     reply.Content,
		TTS:         reply.TTS,
		Embeds:      reply.Embeds,
		Attachments: reply.Attachments,
		Components:  reply.Components,
		StickerIDs:  reply.StickerIDs,
		MessageReference: &rest.MessageReference{
			MessageID: m.ID,
			ChannelID: m.ChannelID,
		},
	}

	payload.AllowedMentions = reply.AllowedMentions
	if payload.AllowedMentions == nil {
		payload.AllowedMentions = m.opts.AllowedMentions
	}

	fillEmptySlices(&payload)

	files := reply.Files
	if reply.File != nil {
		files = []*rest.File{reply.File}
	}

	data, err := m.opts.Client.CreateMessage(ctx, m.ChannelID, payload, files)
	if err != nil {
		return nil, err
	}
	return New(data, m.token, m.opts), nil
}
