package domain

import "time"

// ============================================================
// CSV agent sessions
// ============================================================

// AgentSession is one uploaded table and the state of the conversation
// about it. Created on upload, removed on explicit close or TTL expiry.
type AgentSession struct {
	ID           string
	Filename     string
	Transactions []Transaction
	Fallback     bool
	// Filtered is the result of the most recent command; nil until one runs.
	Filtered  []Transaction
	Predicate *FilterPredicate
	Files     []ExportFile
	CreatedAt time.Time
}

// File returns the generated export named name.
func (s *AgentSession) File(name string) (ExportFile, bool) {
	for _, f := range s.Files {
		if f.Filename == name {
			return f, true
		}
	}
	return ExportFile{}, false
}
