package testutil

// DefaultSession is returned by a FixedSession created with an empty token.
const DefaultSession = "test-session-default"

// FixedSession generates the same session token every time.
//
// The same scenario with the same FixedSession produces byte-identical
// journals. Unlike engine.FixedGenerator, which returns tokens in sequence
// and panics when they run out, FixedSession never runs out.
//
// Thread-safety: FixedSession is stateless and safe for concurrent use.
type FixedSession struct {
	token string
}

// NewFixedSession creates a fixed session generator.
//
// The token is typically set in the scenario YAML:
//
//	session: "scenario-a"
//
// If token is empty, Generate returns DefaultSession.
func NewFixedSession(token string) *FixedSession {
	if token == "" {
		token = DefaultSession
	}
	return &FixedSession{token: token}
}

// Generate returns the fixed session token.
//
// Implements engine.SessionGenerator.
func (g *FixedSession) Generate() string {
	return g.token
}
