package service

import (
	"context"
	"sync"
	"time"

	"github.com/markmanipula/QuickCourt-Backend/internal/entity"
	"github.com/markmanipula/QuickCourt-Backend/internal/notify"
)

// memoryEventRepo mimics the postgres repository, version check included.
// forcedConflicts makes the next N updates fail with ErrConcurrentUpdate
// after bumping the stored version, the way a concurrent writer would.
type memoryEventRepo struct {
	mu              sync.Mutex
	events          map[string]*entity.Event
	forcedConflicts int
}

func newMemoryEventRepo() *memoryEventRepo {
	return &memoryEventRepo{events: make(map[string]*entity.Event)}
}

func cloneEvent(event *entity.Event) *entity.Event {
	clone := *event
	clone.Participants = append([]entity.Participant(nil), event.Participants...)
	clone.Waitlist = append([]entity.Participant(nil), event.Waitlist...)
	return &clone
}

func (r *memoryEventRepo) Create(_ context.Context, event *entity.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[event.ID] = cloneEvent(event)
	return nil
}

func (r *memoryEventRepo) GetByID(_ context.Context, id string) (*entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.events[id]
	if !ok {
		return nil, entity.ErrEventNotFound
	}
	return cloneEvent(stored), nil
}

func (r *memoryEventRepo) GetAll(_ context.Context) ([]*entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*entity.Event, 0, len(r.events))
	for _, stored := range r.events {
		all = append(all, cloneEvent(stored))
	}
	return all, nil
}

func (r *memoryEventRepo) Update(_ context.Context, event *entity.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.events[event.ID]
	if !ok {
		return entity.ErrEventNotFound
	}
	if r.forcedConflicts > 0 {
		r.forcedConflicts--
		stored.Version++
		return entity.ErrConcurrentUpdate
	}
	if stored.Version != event.Version {
		return entity.ErrConcurrentUpdate
	}
	updated := cloneEvent(event)
	updated.Version++
	r.events[event.ID] = updated
	event.Version++
	return nil
}

func (r *memoryEventRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return entity.ErrEventNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *memoryEventRepo) GetEndedBefore(_ context.Context, cutoff time.Time) ([]*entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ended []*entity.Event
	for _, stored := range r.events {
		if stored.DateTime.Before(cutoff) {
			ended = append(ended, cloneEvent(stored))
		}
	}
	return ended, nil
}

// memoryNotifier records published notices in order.
type memoryNotifier struct {
	mu      sync.Mutex
	notices []*notify.Notice
}

func (n *memoryNotifier) Publish(_ context.Context, notice *notify.Notice) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
	return nil
}

func (n *memoryNotifier) Close() error { return nil }

func (n *memoryNotifier) kinds() []notify.NoticeKind {
	n.mu.Lock()
	defer n.mu.Unlock()
	kinds := make([]notify.NoticeKind, 0, len(n.notices))
	for _, notice := range n.notices {
		kinds = append(kinds, notice.Kind)
	}
	return kinds
}
