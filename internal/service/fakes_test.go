package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/u47108/La-Mafia-del-Hardware-Bot/internal/model"
)

type sentMessage struct {
	ChannelID string
	ID        string
	Content   string
}

type fakeChat struct {
	mu        sync.Mutex
	deleted   []string
	sent      []sentMessage
	deleteErr map[string]error
	sendErr   error
	nextID    int
}

func newFakeChat() *fakeChat {
	return &fakeChat{deleteErr: make(map[string]error)}
}

func (f *fakeChat) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.deleteErr[messageID]; err != nil {
		return err
	}
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeChat) SendMessage(ctx context.Context, channelID, content string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return "", f.sendErr
	}
	f.nextID++
	id := fmt.Sprintf("reply-%d", f.nextID)
	f.sent = append(f.sent, sentMessage{ChannelID: channelID, ID: id, Content: content})
	return id, nil
}

type scheduled struct {
	After time.Duration
	Fn    func()
}

type fakeScheduler struct {
	mu    sync.Mutex
	tasks []scheduled
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, scheduled{After: d, Fn: f})
}

func (s *fakeScheduler) RunAll() {
	s.mu.Lock()
	tasks := s.tasks
	s.tasks = nil
	s.mu.Unlock()
	for _, t := range tasks {
		t.Fn()
	}
}

type publishedEvent struct {
	Type    string
	Payload any
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (b *fakeBroadcaster) Publish(eventType string, payload any) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, publishedEvent{Type: eventType, Payload: payload})
	return 1
}

func (b *fakeBroadcaster) ofType(eventType string) []publishedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []publishedEvent
	for _, e := range b.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// payloadJSON returns the event payload as a generic map, the way a
// dashboard client would see it.
func payloadJSON(e publishedEvent) map[string]any {
	raw, _ := json.Marshal(e.Payload)
	var m map[string]any
	_ = json.Unmarshal(raw, &m)
	return m
}

type fakeDirectory struct {
	channels map[string][]model.ChannelRef
}

func (d *fakeDirectory) FindChannel(ctx context.Context, guildID string, names []string) (model.ChannelRef, bool) {
	for _, ch := range d.channels[guildID] {
		for _, n := range names {
			if strings.Contains(strings.ToLower(ch.Name), n) {
				return ch, true
			}
		}
	}
	return model.ChannelRef{}, false
}

type fakeModLog struct {
	mu      sync.Mutex
	actions []model.ModerationAction
}

func (m *fakeModLog) NotifyModeration(action model.ModerationAction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions = append(m.actions, action)
}

var errMissingPermissions = errors.New("HTTP 403 Forbidden, Missing Permissions")
