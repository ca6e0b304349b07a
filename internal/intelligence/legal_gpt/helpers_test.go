package legal_gpt

import (
	"context"
	"sync"
	"time"
)

type fakeBackend struct {
	mu      sync.Mutex
	replies []string
	err     error
	calls   []ChatRequest
}

func (f *fakeBackend) Complete(_ context.Context, req ChatRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "", nil
	}
	r := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return r, nil
}

func (f *fakeBackend) Calls() []ChatRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ChatRequest(nil), f.calls...)
}

type observedCall struct {
	op      string
	outcome string
}

type fakeObserver struct {
	mu    sync.Mutex
	calls []observedCall
}

func (o *fakeObserver) ObserveLLMCall(op, outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, observedCall{op, outcome})
}

const validEnrichmentReply = "Here is the analysis:\n```json\n" + `{
  "legalGrounding": {
    "relevantSections": ["Section 19(5): rights revert if unused"],
    "precedents": ["Standard practice: limited licence"],
    "standardPractices": ["Portfolio rights retained"]
  },
  "alternativeLanguage": {"hindi": "हिंदी", "telugu": "తెలుగు"},
  "negotiationStrategy": {"tone": "collaborative", "priority": 8, "emailTemplate": "Hi"}
}` + "\n```"

func newTestCollaborator(b ChatBackend, opts ...Option) *Collaborator {
	cfg := NewConfig()
	cfg.RequestsPerSecond = 0
	return NewCollaborator(cfg, nil, append([]Option{WithBackend(b)}, opts...)...)
}
