package service

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/MimeLyc/td2-chat-translator/internal/chatlog"
	"github.com/MimeLyc/td2-chat-translator/internal/jobs"
	"github.com/MimeLyc/td2-chat-translator/internal/logcursor"
	"github.com/MimeLyc/td2-chat-translator/internal/render"
	"github.com/MimeLyc/td2-chat-translator/pkg/file"
	"github.com/MimeLyc/td2-chat-translator/pkg/icron"
	"github.com/MimeLyc/td2-chat-translator/pkg/log"
)

// stallFactor is how many poll intervals a batch may wait before the worker is reported as stalled.
const stallFactor = 3

// Options configures a Service.
type Options struct {
	Schedule    string // cron expression, "@every 5s" by default
	SkipBacklog bool   // Start at the end of the log instead of translating what is already there
	Status      render.Sink
}

// Service owns the polling side: one cursor and one cron entry per session.
// Start, Restart and Stop may be called from any goroutine.
type Service struct {
	cron     *cron.Cron
	chain    cron.Chain
	schedule cron.Schedule
	interval time.Duration
	queue    *jobs.Queue
	opts     Options

	mu        sync.Mutex
	current   *session
	lastDir   string
	sessionID uint64
}

type session struct {
	id      uint64
	entry   cron.EntryID
	stopped atomic.Bool

	// mu serialises the cursor between the poll job and teardown.
	mu     sync.Mutex
	cursor *logcursor.Cursor
}

// NewService validates the schedule and starts the scheduler. No polling happens until Start.
func NewService(queue *jobs.Queue, opts Options) (*Service, error) {
	if opts.Schedule == "" {
		opts.Schedule = "@every 5s"
	}
	schedule, err := icron.Parse(opts.Schedule)
	if err != nil {
		return nil, NewErrorWithCause(ErrConfig, "invalid poll schedule", err).WithContext("schedule", opts.Schedule)
	}
	interval, err := icron.Interval(opts.Schedule, time.Now())
	if err != nil {
		return nil, NewErrorWithCause(ErrConfig, "invalid poll schedule", err).WithContext("schedule", opts.Schedule)
	}

	c := cron.New(cron.WithLogger(icron.Logger()))
	c.Start()

	return &Service{
		cron:     c,
		chain:    cron.NewChain(cron.Recover(icron.Logger()), cron.SkipIfStillRunning(icron.Logger())),
		schedule: schedule,
		interval: interval,
		queue:    queue,
		opts:     opts,
	}, nil
}

// Start watches the most recently modified file in logDir from its beginning,
// replacing any running session. It returns the path being watched.
func (s *Service) Start(logDir string) (string, error) {
	return s.start(logDir, s.opts.SkipBacklog)
}

// Restart begins a fresh session on the directory of the last Start, skipping
// whatever was already in the log.
func (s *Service) Restart() (string, error) {
	s.mu.Lock()
	dir := s.lastDir
	s.mu.Unlock()

	if dir == "" {
		return "", NewError(ErrSession, "translation has not been started yet")
	}
	return s.start(dir, true)
}

// Stop ends the current session. Batches already queued are still translated.
func (s *Service) Stop() {
	s.mu.Lock()
	sess := s.current
	s.current = nil
	s.mu.Unlock()

	if sess != nil {
		s.teardown(sess)
		s.status("Translation stopped")
		log.Info("Stopped session %d", sess.id)
	}
}

// Close stops the session and the scheduler.
func (s *Service) Close() {
	s.Stop()
	<-s.cron.Stop().Done()
}

// Active reports whether a session is polling.
func (s *Service) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}

// Interval is the gap between polls.
func (s *Service) Interval() time.Duration {
	return s.interval
}

func (s *Service) start(logDir string, seekToEnd bool) (string, error) {
	path, err := file.FindLatest(logDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, file.ErrNoFiles) {
			return "", NewErrorWithCause(ErrFileNotFound, "no log file to watch", err).WithContext("dir", logDir)
		}
		return "", NewErrorWithCause(ErrFileRead, "cannot list log directory", err).WithContext("dir", logDir)
	}

	cursor, err := logcursor.Open(path)
	if err != nil {
		return "", NewErrorWithCause(ErrFileRead, "cannot open log file", err).WithContext("path", path)
	}
	if seekToEnd {
		if err := cursor.SeekToEnd(); err != nil {
			_ = cursor.Close()
			return "", NewErrorWithCause(ErrFileRead, "cannot seek log file", err).WithContext("path", path)
		}
	}

	s.mu.Lock()
	previous := s.current
	s.sessionID++
	sess := &session{id: s.sessionID, cursor: cursor}
	s.current = sess
	s.lastDir = logDir
	sess.entry = s.cron.Schedule(s.schedule, s.chain.Then(cron.FuncJob(func() { s.poll(sess) })))
	s.mu.Unlock()

	if previous != nil {
		s.teardown(previous)
	}

	log.Info("Session %d watching %s from offset %d, polling %s", sess.id, path, cursor.Offset(), s.opts.Schedule)
	s.status(fmt.Sprintf("Watching %s", path))

	s.poll(sess)
	return path, nil
}

func (s *Service) teardown(sess *session) {
	sess.stopped.Store(true)
	s.cron.Remove(sess.entry)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.cursor != nil {
		if err := sess.cursor.Close(); err != nil {
			log.Warn("Closing log for session %d: %v", sess.id, err)
		}
		sess.cursor = nil
	}
}

// poll reads new lines, keeps chat candidates and queues them as one batch.
func (s *Service) poll(sess *session) {
	if sess.stopped.Load() {
		return
	}

	// Held through Push so overlapping polls of one session enqueue in file order.
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.stopped.Load() || sess.cursor == nil {
		return
	}
	lines, err := sess.cursor.ReadNewLines()
	if err != nil {
		Handle(WrapError(err, ErrFileRead, "poll failed").WithContext("session", sess.id))
		return
	}

	candidates := make([]string, 0, len(lines))
	for _, line := range lines {
		if chatlog.IsCandidate(line) {
			candidates = append(candidates, line)
		}
	}
	if batch, ok := s.queue.Push(sess.id, candidates); ok {
		log.Debug("Queued %s with %d of %d new lines", batch.ID, len(candidates), len(lines))
	}

	s.checkStall()
}

func (s *Service) checkStall() {
	stats := s.queue.Stats()
	limit := time.Duration(stallFactor) * s.interval
	if stats.Pending > 0 && stats.OldestPending > limit {
		log.Warn("Translation is falling behind: %d batches pending, oldest waiting %s (processed %d, failed %d)",
			stats.Pending, stats.OldestPending.Round(time.Second), stats.Processed, stats.Failed)
	}
}

func (s *Service) status(text string) {
	if s.opts.Status != nil {
		s.opts.Status.Render(render.Item{Text: text, Tag: render.TagStatus})
	}
}
