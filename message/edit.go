package message

import (
	"context"
	"io"
	"time"

	"github.com/keshon/slashkit/rest"
)

// maxEmbeds is the most embeds one message may carry.
const maxEmbeds = 10

// FormatError reports caller-supplied edit or reply arguments that violate
// a structural constraint. It is returned before any network call is made.
type FormatError struct {
	Msg string
}

func (e *FormatError) Error() string {
	return "format: " + e.Msg
}

// Edit is a partial update. A nil field keeps the message's current value;
// a pointer to an empty slice clears the field explicitly.
type Edit struct {
	Content         *string
	Embeds          *[]rest.Embed
	Attachments     *[]rest.Attachment
	Components      *[]rest.Component
	AllowedMentions *rest.AllowedMentions
	SuppressEmbeds  *bool
	TTS             *bool

	// File attaches a single upload; Files attaches several. Supplying both
	// is a FormatError. Readers are closed once the call returns.
	File  *rest.File
	Files []*rest.File

	// DeleteAfter schedules a deferred deletion of the message as a
	// fire-and-forget follow-up to the edit.
	DeleteAfter time.Duration
}

// Edit updates the message. Fields the caller left unset keep their current
// value, so a partial edit never blanks out untouched fields. The explicit
// allowed-mentions value wins; the client default policy applies only when
// the caller omits the field.
func (m *Message) Edit(ctx context.Context, edit Edit) (*Message, error) {
	// Upload handles are released on every exit path, the failed ones
	// included.
	defer func() {
		closeFile(edit.File)
		closeFiles(edit.Files)
	}()

	if edit.File != nil && len(edit.Files) > 0 {
		return nil, &FormatError{Msg: "file and files cannot be supplied together"}
	}

	payload := rest.MessagePayload{
		Content:     m.Content,
		Embeds:      m.Embeds,
		Attachments: m.Attachments,
		Components:  m.Components,
		Flags:       m.Flags,
	}
	if edit.Content != nil {
		payload.Content = *edit.Content
	}
	if edit.Embeds != nil {
		payload.Embeds = *edit.Embeds
	}
	if edit.Attachments != nil {
		payload.Attachments = *edit.Attachments
	}
	if edit.Components != nil {
		payload.Components = *edit.Components
	}
	if edit.TTS != nil {
		payload.TTS = *edit.TTS
	}

	if len(payload.Embeds) > maxEmbeds {
		return nil, &FormatError{Msg: "no more than 10 embeds per message"}
	}

	if edit.SuppressEmbeds != nil {
		if *edit.SuppressEmbeds {
			payload.Flags |= rest.FlagSuppressEmbeds
		} else {
			payload.Flags &^= rest.FlagSuppressEmbeds
		}
	}

	payload.AllowedMentions = edit.AllowedMentions
	if payload.AllowedMentions == nil {
		payload.AllowedMentions = m.opts.AllowedMentions
	}

	fillEmptySlices(&payload)

	files := edit.Files
	if edit.File != nil {
		files = []*rest.File{edit.File}
	}

	data, err := m.opts.Client.EditMessage(ctx, m.ChannelID, m.ID, payload, files)

	if edit.DeleteAfter > 0 {
		m.scheduleDelete(edit.DeleteAfter)
	}

	if err != nil {
		return nil, err
	}
	m.apply(data)
	return m, nil
}

// fillEmptySlices replaces nil slices with empty ones so the payload
// serializes them as [] and an unset field cannot read as null on the wire.
func fillEmptySlices(p *rest.MessagePayload) {
	if p.Embeds == nil {
		p.Embeds = []rest.Embed{}
	}
	if p.Attachments == nil {
		p.Attachments = []rest.Attachment{}
	}
	if p.Components == nil {
		p.Components = []rest.Component{}
	}
}

// closeFile releases one upload handle if its reader is closable.
func closeFile(f *rest.File) {
	if f == nil {
		return
	}
	if c, ok := f.Reader.(io.Closer); ok {
		_ = c.Close()
	}
}

func closeFiles(files []*rest.File) {
	for _, f := range files {
		closeFile(f)
	}
}
