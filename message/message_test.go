package message

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/slashkit/rest"
)

// fakeClient records every transport call so tests can assert which
// delivery surface was used and with what payload.
type fakeClient struct {
	mu sync.Mutex

	channelDeletes []string // message IDs deleted via the channel endpoint
	tokenDeletes   []string // message IDs deleted via the interaction-token endpoint
	editPayloads   []rest.MessagePayload
	createPayloads []rest.MessagePayload

	channelDeleteErr error
	tokenDeleteErr   error
	editErr          error
	createErr        error
	editResult       *rest.MessageData
	createResult     *rest.MessageData
}

func (f *fakeClient) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.channelDeletes = append(f.channelDeletes, messageID)
	return f.channelDeleteErr
}

func (f *fakeClient) DeleteInteractionMessage(ctx context.Context, token, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokenDeletes = append(f.tokenDeletes, messageID)
	return f.tokenDeleteErr
}

func (f *fakeClient) EditMessage(ctx context.Context, channelID, messageID string, payload rest.MessagePayload, files []*rest.File) (*rest.MessageData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.editPayloads = append(f.editPayloads, payload)
	if f.editErr != nil {
		return nil, f.editErr
	}
	if f.editResult != nil {
		return f.editResult, nil
	}
	return &rest.MessageData{
		ID:          messageID,
		ChannelID:   channelID,
		Content:     payload.Content,
		Embeds:      payload.Embeds,
		Attachments: payload.Attachments,
		Components:  payload.Components,
		Flags:       payload.Flags,
	}, nil
}

func (f *fakeClient) CreateMessage(ctx context.Context, channelID string, payload rest.MessagePayload, files []*rest.File) (*rest.MessageData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createPayloads = append(f.createPayloads, payload)
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createResult != nil {
		return f.createResult, nil
	}
	return &rest.MessageData{ID: "new-id", ChannelID: channelID, Content: payload.Content}, nil
}

// fakeScheduler captures the scheduled task instead of running a timer, so
// tests drive the deferred attempt themselves.
type fakeScheduler struct {
	name  string
	delay time.Duration
	fn    func(ctx context.Context)
	calls int
}

func (s *fakeScheduler) After(name string, delay time.Duration, fn func(ctx context.Context)) error {
	s.name = name
	s.delay = delay
	s.fn = fn
	s.calls++
	return nil
}

func (s *fakeScheduler) Stop(name string) error { return nil }

// closeRecorder is an upload reader that remembers being closed.
type closeRecorder struct {
	*strings.Reader
	closed bool
}

func newCloseRecorder(s string) *closeRecorder {
	return &closeRecorder{Reader: strings.NewReader(s)}
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func forbiddenErr() error {
	return &rest.APIError{Status: http.StatusForbidden, Message: "missing permissions"}
}

func newTestMessage(client *fakeClient, sched Scheduler) *Message {
	return New(&rest.MessageData{
		ID:        "m1",
		ChannelID: "c1",
		Content:   "hello",
		Embeds:    []rest.Embed{{Title: "original"}},
	}, "tok-123", Options{
		Client:    client,
		Scheduler: sched,
	})
}

func TestDeleteFallsBackOnForbidden(t *testing.T) {
	client := &fakeClient{channelDeleteErr: forbiddenErr()}
	msg := newTestMessage(client, &fakeScheduler{})

	err := msg.Delete(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"m1"}, client.channelDeletes)
	assert.Equal(t, []string{"m1"}, client.tokenDeletes, "exactly one fallback call")
}

func TestDeleteDoesNotFallBackOnOtherErrors(t *testing.T) {
	boom := &rest.APIError{Status: http.StatusInternalServerError}
	client := &fakeClient{channelDeleteErr: boom}
	msg := newTestMessage(client, &fakeScheduler{})

	err := msg.Delete(context.Background(), 0)
	require.ErrorIs(t, err, boom)

	assert.Empty(t, client.tokenDeletes, "transport errors are not recovered")
}

func TestDeleteFallbackErrorPropagates(t *testing.T) {
	client := &fakeClient{
		channelDeleteErr: forbiddenErr(),
		tokenDeleteErr:   forbiddenErr(),
	}
	msg := newTestMessage(client, &fakeScheduler{})

	err := msg.Delete(context.Background(), 0)
	require.ErrorIs(t, err, rest.ErrForbidden, "a second Forbidden has no further fallback")
}

func TestDeleteWithDelayDefersEverything(t *testing.T) {
	client := &fakeClient{tokenDeleteErr: forbiddenErr()}
	sched := &fakeScheduler{}
	msg := newTestMessage(client, sched)

	err := msg.Delete(context.Background(), 5*time.Second)
	require.NoError(t, err, "the caller gets control back immediately")

	assert.Empty(t, client.channelDeletes, "nothing runs before the delay elapses")
	assert.Empty(t, client.tokenDeletes)
	assert.Equal(t, 5*time.Second, sched.delay)
	require.NotNil(t, sched.fn)

	// Drive the deferred attempt: Forbidden is swallowed, never surfaced.
	sched.fn(context.Background())
	assert.Equal(t, []string{"m1"}, client.tokenDeletes)
}

func TestDeferredDeleteSwallowsOnlyLogsOtherErrors(t *testing.T) {
	client := &fakeClient{tokenDeleteErr: errors.New("connection reset")}
	sched := &fakeScheduler{}
	msg := newTestMessage(client, sched)

	require.NoError(t, msg.Delete(context.Background(), time.Second))
	require.NotNil(t, sched.fn)

	// Must not panic or surface anywhere; the deferred path has no caller.
	sched.fn(context.Background())
	assert.Equal(t, []string{"m1"}, client.tokenDeletes)
}

func TestScheduledDeletesGetUniqueNames(t *testing.T) {
	client := &fakeClient{}
	sched := &fakeScheduler{}
	msg := newTestMessage(client, sched)

	require.NoError(t, msg.Delete(context.Background(), time.Second))
	first := sched.name
	require.NoError(t, msg.Delete(context.Background(), time.Second))

	assert.NotEqual(t, first, sched.name, "a later delete must not collide with an earlier scheduled one")
	assert.Equal(t, 2, sched.calls)
}

func TestInteractionTokenIsImmutable(t *testing.T) {
	msg := newTestMessage(&fakeClient{}, &fakeScheduler{})
	assert.Equal(t, "tok-123", msg.InteractionToken())

	// Editing refreshes content but never the identity or token.
	_, err := msg.Edit(context.Background(), Edit{Content: ptr("changed")})
	require.NoError(t, err)
	assert.Equal(t, "tok-123", msg.InteractionToken())
	assert.Equal(t, "m1", msg.ID)
}

func ptr[T any](v T) *T { return &v }
