package prompt

import (
	"context"
	"errors"

	"github.com/doeshing/sllm/internal/domain"
	"github.com/doeshing/sllm/internal/ports"
)

type stubSettings struct {
	opts domain.Options
	err  error
}

func (s *stubSettings) Ensure() error                  { return nil }
func (s *stubSettings) Load() (domain.Options, error)  { return s.opts, s.err }
func (s *stubSettings) Save(opts domain.Options) error { s.opts = opts; return nil }
func (s *stubSettings) Purge() error                   { s.opts = domain.Options{}; return nil }
func (s *stubSettings) Path() string                   { return "settings.json" }

type stubHistory struct {
	log domain.HistoryLog
}

func (h *stubHistory) Ensure() error { return nil }
func (h *stubHistory) Append(entry domain.HistoryEntry) error {
	h.log = h.log.Append(entry, domain.MaxHistoryStore)
	return nil
}
func (h *stubHistory) Window(count int, newestFirst bool) ([]domain.HistoryEntry, error) {
	return h.log.Window(count, newestFirst), nil
}
func (h *stubHistory) Undo(n int) error { h.log = h.log.Undo(n); return nil }
func (h *stubHistory) Last() (domain.HistoryEntry, bool, error) {
	entry, ok := h.log.Last()
	return entry, ok, nil
}
func (h *stubHistory) Purge() error { h.log = nil; return nil }
func (h *stubHistory) Path() string { return "history.json" }

// fixedTokenizer returns the same count for any non-empty text.
type fixedTokenizer struct {
	count int
}

func (f fixedTokenizer) Count(text string) int {
	if text == "" {
		return 0
	}
	return f.count
}

type stubProvider struct {
	reply string
	err   error
	calls *int
	last  *ports.ProviderRequest
}

func (p stubProvider) Name() string { return "stub" }

func (p stubProvider) Generate(_ context.Context, req ports.ProviderRequest) (ports.ProviderResponse, error) {
	if p.calls != nil {
		*p.calls++
	}
	if p.last != nil {
		*p.last = req
	}
	if p.err != nil {
		return ports.ProviderResponse{}, p.err
	}
	return ports.ProviderResponse{Text: p.reply, Payload: []byte(`{"model":"stub"}`)}, nil
}

type stubProviderFactory struct {
	provider ports.Provider
	calls    int
}

func (f *stubProviderFactory) ForModel(domain.ModelDescriptor) (ports.Provider, error) {
	f.calls++
	if f.provider == nil {
		return nil, errors.New("no provider")
	}
	return f.provider, nil
}

type recordingReporter struct {
	assembled  []domain.Assembly
	dispatches int
	finished   int
}

func (r *recordingReporter) Assembled(a domain.Assembly) { r.assembled = append(r.assembled, a) }
func (r *recordingReporter) Dispatching(domain.ModelDescriptor) func() {
	r.dispatches++
	return func() { r.finished++ }
}
func (r *recordingReporter) Dispatched(ports.ProviderResponse) {}
