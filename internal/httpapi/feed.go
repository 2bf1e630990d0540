package httpapi

import (
	"sync"
	"time"

	"github.com/MimeLyc/td2-chat-translator/internal/render"
	"github.com/MimeLyc/td2-chat-translator/pkg/log"
)

const (
	defaultFeedHistory = 500
	subscriberBuffer   = 64
)

// FeedItem is a rendered item with its position in the feed.
type FeedItem struct {
	Seq  uint64     `json:"seq"`
	Text string     `json:"text"`
	Tag  render.Tag `json:"tag"`
	Time time.Time  `json:"time"`
}

// Feed is a render.Sink that keeps recent items for HTTP clients and fans
// new ones out to stream subscribers.
type Feed struct {
	mu      sync.Mutex
	history int
	items   []FeedItem
	seq     uint64
	subs    map[chan FeedItem]struct{}
	now     func() time.Time
}

func NewFeed(history int) *Feed {
	if history <= 0 {
		history = defaultFeedHistory
	}
	return &Feed{
		history: history,
		subs:    make(map[chan FeedItem]struct{}),
		now:     time.Now,
	}
}

func (f *Feed) Render(it render.Item) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	item := FeedItem{Seq: f.seq, Text: it.Text, Tag: it.Tag, Time: f.now()}
	f.items = append(f.items, item)
	if len(f.items) > f.history {
		f.items = append([]FeedItem(nil), f.items[len(f.items)-f.history:]...)
	}

	for ch := range f.subs {
		select {
		case ch <- item:
		default:
			log.Debug("Dropping chat item %d for a slow stream client", item.Seq)
		}
	}
}

// Since returns retained items with a sequence number greater than seq.
func (f *Feed) Since(seq uint64) []FeedItem {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]FeedItem, 0)
	for _, it := range f.items {
		if it.Seq > seq {
			out = append(out, it)
		}
	}
	return out
}

// Subscribe registers a stream client. The returned func must be called to unsubscribe.
func (f *Feed) Subscribe() (<-chan FeedItem, func()) {
	ch := make(chan FeedItem, subscriberBuffer)
	f.mu.Lock()
	f.subs[ch] = struct{}{}
	f.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, ch)
			f.mu.Unlock()
		})
	}
}
