package message

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/slashkit/rest"
)

func TestEditKeepsUntouchedFields(t *testing.T) {
	client := &fakeClient{}
	msg := newTestMessage(client, &fakeScheduler{})

	_, err := msg.Edit(context.Background(), Edit{Content: ptr("updated")})
	require.NoError(t, err)

	require.Len(t, client.editPayloads, 1)
	payload := client.editPayloads[0]
	assert.Equal(t, "updated", payload.Content)
	assert.Equal(t, []rest.Embed{{Title: "original"}}, payload.Embeds, "untouched embeds are resent as-is")
}

func TestEditClearsWithExplicitEmpty(t *testing.T) {
	client := &fakeClient{}
	msg := newTestMessage(client, &fakeScheduler{})

	_, err := msg.Edit(context.Background(), Edit{Embeds: ptr([]rest.Embed{})})
	require.NoError(t, err)

	require.Len(t, client.editPayloads, 1)
	payload := client.editPayloads[0]
	assert.NotNil(t, payload.Embeds)
	assert.Empty(t, payload.Embeds)
	assert.Equal(t, "hello", payload.Content, "content carried over unchanged")
	assert.Empty(t, msg.Embeds, "local state refreshed from the response")
}

func TestEditRejectsFileAndFilesTogether(t *testing.T) {
	client := &fakeClient{}
	msg := newTestMessage(client, &fakeScheduler{})

	single := newCloseRecorder("a")
	batch := newCloseRecorder("b")
	_, err := msg.Edit(context.Background(), Edit{
		File:  &rest.File{Name: "a.txt", Reader: single},
		Files: []*rest.File{{Name: "b.txt", Reader: batch}},
	})

	var ferr *FormatError
	require.ErrorAs(t, err, &ferr)
	assert.Empty(t, client.editPayloads, "no network call on a format error")
	assert.True(t, single.closed, "readers are released even on failure")
	assert.True(t, batch.closed)
}

func TestEditRejectsTooManyEmbeds(t *testing.T) {
	client := &fakeClient{}
	msg := newTestMessage(client, &fakeScheduler{})

	embeds := make([]rest.Embed, 11)
	_, err := msg.Edit(context.Background(), Edit{Embeds: &embeds})

	var ferr *FormatError
	require.ErrorAs(t, err, &ferr)
	assert.Empty(t, client.editPayloads)
}

func TestEditTenEmbedsIsFine(t *testing.T) {
	client := &fakeClient{}
	msg := newTestMessage(client, &fakeScheduler{})

	embeds := make([]rest.Embed, 10)
	_, err := msg.Edit(context.Background(), Edit{Embeds: &embeds})
	require.NoError(t, err)
	assert.Len(t, client.editPayloads, 1)
}

func TestEditClosesFilesOnSuccessToo(t *testing.T) {
	client := &fakeClient{}
	msg := newTestMessage(client, &fakeScheduler{})

	upload := newCloseRecorder("payload")
	_, err := msg.Edit(context.Background(), Edit{
		File: &rest.File{Name: "report.txt", Reader: upload},
	})
	require.NoError(t, err)
	assert.True(t, upload.closed)
}

func TestEditAllowedMentionsExplicitWins(t *testing.T) {
	client := &fakeClient{}
	defaults := &rest.AllowedMentions{Parse: []string{}}
	msg := New(&rest.MessageData{ID: "m1", ChannelID: "c1"}, "tok", Options{
		Client:          client,
		Scheduler:       &fakeScheduler{},
		AllowedMentions: defaults,
	})

	explicit := &rest.AllowedMentions{Parse: []string{"users"}}
	_, err := msg.Edit(context.Background(), Edit{AllowedMentions: explicit})
	require.NoError(t, err)
	assert.Same(t, explicit, client.editPayloads[0].AllowedMentions)

	_, err = msg.Edit(context.Background(), Edit{Content: ptr("x")})
	require.NoError(t, err)
	assert.Same(t, defaults, client.editPayloads[1].AllowedMentions, "default policy applies only when the caller omits the field")
}

func TestEditSuppressEmbedsTogglesFlag(t *testing.T) {
	client := &fakeClient{}
	msg := newTestMessage(client, &fakeScheduler{})

	_, err := msg.Edit(context.Background(), Edit{SuppressEmbeds: ptr(true)})
	require.NoError(t, err)
	assert.NotZero(t, client.editPayloads[0].Flags&rest.FlagSuppressEmbeds)
	assert.NotZero(t, msg.Flags&rest.FlagSuppressEmbeds)

	_, err = msg.Edit(context.Background(), Edit{SuppressEmbeds: ptr(false)})
	require.NoError(t, err)
	assert.Zero(t, client.editPayloads[1].Flags&rest.FlagSuppressEmbeds)
}

func TestEditSerializesEmptySlicesNotNull(t *testing.T) {
	client := &fakeClient{}
	msg := New(&rest.MessageData{ID: "m1", ChannelID: "c1"}, "tok", Options{
		Client:    client,
		Scheduler: &fakeScheduler{},
	})

	_, err := msg.Edit(context.Background(), Edit{Content: ptr("x")})
	require.NoError(t, err)

	payload := client.editPayloads[0]
	assert.NotNil(t, payload.Embeds)
	assert.NotNil(t, payload.Attachments)
	assert.NotNil(t, payload.Components)
}

func TestEditSchedulesDeleteAfterEvenWhenEditFails(t *testing.T) {
	client := &fakeClient{editErr: errors.New("rate limited")}
	sched := &fakeScheduler{}
	msg := newTestMessage(client, sched)

	_, err := msg.Edit(context.Background(), Edit{
		Content:     ptr("x"),
		DeleteAfter: 30 * time.Second,
	})
	require.Error(t, err)

	assert.Equal(t, 1, sched.calls, "cleanup is scheduled regardless of the edit outcome")
	assert.Equal(t, 30*time.Second, sched.delay)
}

func TestEditErrorLeavesStateUntouched(t *testing.T) {
	client := &fakeClient{editErr: errors.New("boom")}
	msg := newTestMessage(client, &fakeScheduler{})

	_, err := msg.Edit(context.Background(), Edit{Content: ptr("changed")})
	require.Error(t, err)
	assert.Equal(t, "hello", msg.Content)
}
