package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MimeLyc/td2-chat-translator/internal/chatlog"
	"github.com/MimeLyc/td2-chat-translator/internal/ignore"
	"github.com/MimeLyc/td2-chat-translator/internal/jobs"
	"github.com/MimeLyc/td2-chat-translator/internal/render"
	"github.com/MimeLyc/td2-chat-translator/internal/translator"
	"github.com/MimeLyc/td2-chat-translator/pkg/log"
)

// Translator is the routing step the worker delegates each body to.
type Translator interface {
	Translate(ctx context.Context, body string, sel translator.Selection) translator.Result
}

// Worker turns queued batches into rendered original/translated pairs.
// It never touches UI state directly; everything goes through the sink.
type Worker struct {
	ignore     *ignore.Set
	translator Translator
	options    render.OptionsSource
	sink       render.Sink
}

func NewWorker(ignored *ignore.Set, t Translator, options render.OptionsSource, sink render.Sink) *Worker {
	return &Worker{
		ignore:     ignored,
		translator: t,
		options:    options,
		sink:       sink,
	}
}

// Process handles one batch. The selection is read once so every line in the
// batch uses the same language, backend and show-original setting.
func (w *Worker) Process(ctx context.Context, batch *jobs.Batch) error {
	sel := w.options.Selection()
	log.Debug("Processing %s: %d lines, %s via %s", batch.ID, len(batch.Lines), sel.TargetLanguage, sel.Backend)

	var failures []error
	for i, line := range batch.Lines {
		err := SafeExecute(func() error {
			w.processLine(ctx, line, sel)
			return nil
		})
		if err != nil {
			log.Error("Line %d of %s failed: %v", i+1, batch.ID, err)
			failures = append(failures, err)
		}
	}

	if len(failures) > 0 {
		return WrapError(errors.Join(failures...), ErrTranslation, fmt.Sprintf("%d of %d lines failed", len(failures), len(batch.Lines))).
			WithContext("batch", batch.ID).
			WithContext("session", batch.SessionID)
	}
	return nil
}

func (w *Worker) processLine(ctx context.Context, line string, sel translator.Selection) {
	msg, ok := chatlog.Classify(line)
	if !ok {
		return
	}
	if w.ignore.ShouldIgnore(msg.Body) {
		log.Debug("Ignoring %q", msg.Body)
		return
	}

	res := w.translator.Translate(ctx, msg.Body, sel)
	header := msg.Header()

	if sel.ShowOriginal {
		w.sink.Render(render.Item{
			Text: fmt.Sprintf("Original: %s: %s", header, msg.Body),
			Tag:  render.TagOriginal,
		})
	}

	tag := render.TagTranslated
	if msg.Category == chatlog.CategoryBroadcast && !res.Failed {
		tag = render.TagBroadcast
	}
	w.sink.Render(render.Item{
		Text: fmt.Sprintf("Translated: %s: %s", header, res.Text),
		Tag:  tag,
	})
}
