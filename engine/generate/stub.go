package generate

import "context"

// StubReply is the canned answer the Stub backend returns when no reply
// is configured.
const StubReply = "I'm running without a language model right now, so I can't " +
	"generate a real answer. Configure an API credential to enable live responses."

// Stub is a deterministic TextGenerator for credential-less runs and
// tests. It never fails.
type Stub struct {
	Reply string
}

func (s *Stub) Complete(_ context.Context, _ []Message) (string, error) {
	if s.Reply != "" {
		return s.Reply, nil
	}
	return StubReply, nil
}
