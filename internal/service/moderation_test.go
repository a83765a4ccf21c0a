package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/u47108/La-Mafia-del-Hardware-Bot/internal/model"
)

type pipelineFixture struct {
	svc    *ModerationService
	chat   *fakeChat
	sched  *fakeScheduler
	events *fakeBroadcaster
	modlog *fakeModLog
	clock  time.Time
}

func newPipeline(t *testing.T, monitored ...string) *pipelineFixture {
	t.Helper()
	f := &pipelineFixture{
		chat:   newFakeChat(),
		sched:  &fakeScheduler{},
		events: &fakeBroadcaster{},
		modlog: &fakeModLog{},
		clock:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	logger := zerolog.Nop()
	dir := &fakeDirectory{channels: map[string][]model.ChannelRef{
		"guild-1": {
			{ID: "chan-general", Name: "general"},
			{ID: "chan-help", Name: "tech-help"},
		},
	}}
	settings := NewChannelSettings(NewMemoryChannelConfigStore(),
		[]string{"general", "chat-general", "principal"},
		[]string{"ayuda", "help", "soporte"},
		logger)

	f.svc = NewModerationService(
		NewClassifier(),
		NewRecentMessageTracker(100),
		newTestEnforcer(f.chat, f.sched, 7),
		settings,
		dir,
		f.events,
		monitored,
		logger,
	)
	f.svc.SetModLog(f.modlog)
	f.svc.now = func() time.Time { return f.clock }
	return f
}

func (f *pipelineFixture) message(id, channelID, channelName, content string) *model.ChatMessage {
	return &model.ChatMessage{
		ID:          id,
		GuildID:     "guild-1",
		ChannelID:   channelID,
		ChannelName: channelName,
		AuthorID:    "user-1",
		AuthorName:  "sonny",
		Content:     content,
		Timestamp:   f.clock,
	}
}

func TestPipelineInviteLinkIsSpam(t *testing.T) {
	f := newPipeline(t, "chan-hw")

	res := f.svc.HandleMessage(context.Background(),
		f.message("m1", "chan-hw", "hardware", "check this out http://discord.gg/abc123"))

	assert.Equal(t, ActionEnforced, res.Action)
	assert.Equal(t, model.ViolationSpam, res.Category)
	assert.True(t, res.Outcome.Applied)

	assert.Equal(t, []string{"m1"}, f.chat.deleted)
	require.Len(t, f.chat.sent, 1)
	assert.Contains(t, f.chat.sent[0].Content, "<@user-1>")
	assert.Contains(t, warningTemplates[model.ViolationSpam], findTemplate(f.chat.sent[0].Content, warningTemplates[model.ViolationSpam]))

	actions := f.events.ofType(model.EventModerationAction)
	require.Len(t, actions, 1)
	data := payloadJSON(actions[0])
	assert.Equal(t, "spam", data["violationType"])
	assert.Equal(t, "user-1", data["userId"])
	assert.Equal(t, true, data["applied"])
	assert.Len(t, f.modlog.actions, 1)
}

func TestPipelineAdvertisement(t *testing.T) {
	f := newPipeline(t, "chan-hw")

	res := f.svc.HandleMessage(context.Background(),
		f.message("m1", "chan-hw", "hardware", "selling rtx 4090 $500 dm me"))

	assert.Equal(t, ActionEnforced, res.Action)
	assert.Equal(t, model.ViolationAdvertisement, res.Category)
	assert.Equal(t, []string{"m1"}, f.chat.deleted)
	require.Len(t, f.chat.sent, 1)
	assert.Contains(t, warningTemplates[model.ViolationAdvertisement],
		findTemplate(f.chat.sent[0].Content, warningTemplates[model.ViolationAdvertisement]))

	actions := f.events.ofType(model.EventModerationAction)
	require.Len(t, actions, 1)
	assert.Equal(t, "advertisement", payloadJSON(actions[0])["violationType"])
}

func TestPipelineRedirectFromGeneral(t *testing.T) {
	f := newPipeline(t, "chan-general")

	res := f.svc.HandleMessage(context.Background(),
		f.message("m1", "chan-general", "general", "alguien me ayuda con mi gpu?"))

	assert.Equal(t, ActionRedirected, res.Action)
	assert.Empty(t, f.chat.deleted)
	require.Len(t, f.chat.sent, 1)
	assert.Contains(t, f.chat.sent[0].Content, "<#chan-help>")

	redirects := f.events.ofType(model.EventUserRedirected)
	require.Len(t, redirects, 1)
	data := payloadJSON(redirects[0])
	assert.Equal(t, "general", data["fromChannel"])
	assert.Equal(t, "tech-help", data["toChannel"])
	assert.Empty(t, f.events.ofType(model.EventModerationAction))

	require.Len(t, f.sched.tasks, 1)
	assert.Equal(t, RedirectTTL, f.sched.tasks[0].After)
}

func TestPipelineRepeatedMessageIsSpam(t *testing.T) {
	f := newPipeline(t, "chan-hw")
	ctx := context.Background()

	first := f.svc.HandleMessage(ctx, f.message("m1", "chan-hw", "hardware", "hola gente"))
	assert.Equal(t, ActionRecorded, first.Action)
	assert.Len(t, f.events.ofType(model.EventMessageActivity), 1)

	f.clock = f.clock.Add(3 * time.Second)
	second := f.svc.HandleMessage(ctx, f.message("m2", "chan-hw", "hardware", "hola gente"))
	assert.Equal(t, ActionEnforced, second.Action)
	assert.Equal(t, model.ViolationSpam, second.Category)
	assert.True(t, second.Repeat)
	assert.Equal(t, []string{"m2"}, f.chat.deleted)

	actions := f.events.ofType(model.EventModerationAction)
	require.Len(t, actions, 1)
	data := payloadJSON(actions[0])
	assert.Equal(t, "spam", data["violationType"])
	assert.Equal(t, "repeated_message", data["trigger"])

	// a third copy inside the original window still trips
	f.clock = f.clock.Add(1 * time.Second)
	third := f.svc.HandleMessage(ctx, f.message("m3", "chan-hw", "hardware", "hola gente"))
	assert.Equal(t, ActionEnforced, third.Action)

	// past the window it is accepted again
	f.clock = f.clock.Add(2 * time.Second)
	fourth := f.svc.HandleMessage(ctx, f.message("m4", "chan-hw", "hardware", "hola gente"))
	assert.Equal(t, ActionRecorded, fourth.Action)
}

func TestPipelineAttachmentOnlyPostsAreNotRepeats(t *testing.T) {
	f := newPipeline(t, "chan-hw")
	ctx := context.Background()

	first := f.svc.HandleMessage(ctx, f.message("img1", "chan-hw", "hardware", ""))
	f.clock = f.clock.Add(time.Second)
	second := f.svc.HandleMessage(ctx, f.message("img2", "chan-hw", "hardware", ""))
	f.clock = f.clock.Add(time.Second)
	third := f.svc.HandleMessage(ctx, f.message("img3", "chan-hw", "hardware", "  \n "))

	for _, res := range []Result{first, second, third} {
		assert.Equal(t, ActionRecorded, res.Action)
		assert.False(t, res.Repeat)
	}
	assert.Empty(t, f.chat.deleted)
	assert.Empty(t, f.events.ofType(model.EventModerationAction))
	assert.Len(t, f.events.ofType(model.EventMessageActivity), 3)
	assert.Zero(t, f.svc.tracker.Len())
}

func TestPipelineDrops(t *testing.T) {
	f := newPipeline(t, "chan-hw")
	ctx := context.Background()

	bot := f.message("m1", "chan-hw", "hardware", "http://discord.gg/abc")
	bot.AuthorIsBot = true
	assert.Equal(t, ActionDropped, f.svc.HandleMessage(ctx, bot).Action)

	other := f.message("m2", "chan-memes", "memes", "http://discord.gg/abc")
	assert.Equal(t, ActionDropped, f.svc.HandleMessage(ctx, other).Action)

	f.svc.SetEnabled(false)
	off := f.message("m3", "chan-hw", "hardware", "http://discord.gg/abc")
	assert.Equal(t, ActionDropped, f.svc.HandleMessage(ctx, off).Action)

	assert.Empty(t, f.chat.deleted)
	assert.Empty(t, f.events.events)
}

func TestPipelineEmptyMonitoredSetWatchesAll(t *testing.T) {
	f := newPipeline(t)
	assert.True(t, f.svc.IsMonitored("anything"))

	res := f.svc.HandleMessage(context.Background(),
		f.message("m1", "chan-x", "random", "@everyone sorteo"))
	assert.Equal(t, ActionEnforced, res.Action)
}

func TestPipelineFailedDeleteStillBroadcasts(t *testing.T) {
	f := newPipeline(t, "chan-hw")
	f.chat.deleteErr["m1"] = errMissingPermissions

	res := f.svc.HandleMessage(context.Background(),
		f.message("m1", "chan-hw", "hardware", "compra en amazon"))

	assert.Equal(t, ActionEnforced, res.Action)
	assert.False(t, res.Outcome.Applied)
	assert.Empty(t, f.chat.sent)

	actions := f.events.ofType(model.EventModerationAction)
	require.Len(t, actions, 1)
	data := payloadJSON(actions[0])
	assert.Equal(t, false, data["applied"])
	assert.Contains(t, data["failureReason"], "Missing Permissions")
}

func TestPipelineGeneralWithoutHelpChannelFallsThrough(t *testing.T) {
	f := newPipeline(t)
	msg := f.message("m1", "chan-gen2", "principal", "buenas")
	msg.GuildID = "guild-without-help"

	res := f.svc.HandleMessage(context.Background(), msg)
	assert.Equal(t, ActionRecorded, res.Action)
	assert.Empty(t, f.chat.sent)
}

func TestPipelineViolationsDoNotTouchTracker(t *testing.T) {
	f := newPipeline(t, "chan-hw")
	ctx := context.Background()

	f.svc.HandleMessage(ctx, f.message("m1", "chan-hw", "hardware", "vendo gpu"))
	f.svc.HandleMessage(ctx, f.message("m2", "chan-hw", "hardware", "vendo gpu"))

	actions := f.events.ofType(model.EventModerationAction)
	require.Len(t, actions, 2)
	for _, a := range actions {
		assert.Equal(t, "pattern", payloadJSON(a)["trigger"])
	}
	assert.Equal(t, 0, f.svc.tracker.Len())
}

func TestPipelineTruncatesEventContent(t *testing.T) {
	f := newPipeline(t, "chan-hw")
	long := "vendo "
	for len([]rune(long)) < 300 {
		long += "ñ"
	}

	f.svc.HandleMessage(context.Background(), f.message("m1", "chan-hw", "hardware", long))
	actions := f.events.ofType(model.EventModerationAction)
	require.Len(t, actions, 1)
	content := payloadJSON(actions[0])["content"].(string)
	assert.Len(t, []rune(content), maxEventContent)
}

func TestPipelineResetState(t *testing.T) {
	f := newPipeline(t, "chan-hw")
	ctx := context.Background()

	f.svc.HandleMessage(ctx, f.message("m1", "chan-hw", "hardware", "hola"))
	f.svc.ResetState()
	res := f.svc.HandleMessage(ctx, f.message("m2", "chan-hw", "hardware", "hola"))
	assert.Equal(t, ActionRecorded, res.Action)
}

func TestPipelineUsesGuildChannelOverrides(t *testing.T) {
	f := newPipeline(t)
	ctx := context.Background()

	_, err := f.svc.channels.Update(ctx, "guild-1", []string{"#lobby"}, nil)
	require.NoError(t, err)

	res := f.svc.HandleMessage(ctx, f.message("m1", "chan-lobby", "Lobby", "que tal"))
	assert.Equal(t, ActionRedirected, res.Action)

	res = f.svc.HandleMessage(ctx, f.message("m2", "chan-general", "general", "que tal"))
	assert.Equal(t, ActionRecorded, res.Action)
}
