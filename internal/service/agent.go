package service

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/command"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/domain"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/infra/observability"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/normalize"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Preview sizes for uploads and command results.
const (
	UploadPreviewRows  = 3
	CommandPreviewRows = 5
)

var uploadExtensions = map[string]bool{".csv": true, ".txt": true, ".xlsx": true, ".xls": true}

// UploadResult is returned after a statement has been read into a session.
type UploadResult struct {
	SessionID string               `json:"session_id"`
	Message   string               `json:"message"`
	Analysis  normalize.Analysis   `json:"analysis"`
	Preview   []command.PreviewRow `json:"preview"`
}

// CommandResult is returned after a filter command ran against a session.
type CommandResult struct {
	Message          string                 `json:"message"`
	Count            int                    `json:"count"`
	Preview          []command.PreviewRow   `json:"preview"`
	Filters          domain.FilterPredicate `json:"filters_applied"`
	TypeBreakdown    map[string]int         `json:"transaction_breakdown"`
	ReadyForDownload bool                   `json:"ready_for_download"`
	Files            []domain.ExportFile    `json:"files,omitempty"`
}

// FilesResult lists the exports generated for a session.
type FilesResult struct {
	Message string              `json:"message"`
	Files   []domain.ExportFile `json:"files"`
}

// SessionInfo describes a live session.
type SessionInfo struct {
	Filename          string    `json:"filename"`
	TotalRows         int       `json:"total_rows"`
	Fallback          bool      `json:"fallback"`
	HasFilteredData   bool      `json:"has_filtered_data"`
	HasGeneratedFiles bool      `json:"has_generated_files"`
	CreatedAt         time.Time `json:"created_at"`
}

// AgentService is the conversational CSV filter: upload a statement, narrow
// it down with plain-language commands, download the result.
type AgentService struct {
	normalizer *normalize.Normalizer
	sessions   port.SessionStore
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewAgentService creates the agent service.
func NewAgentService(n *normalize.Normalizer, sessions port.SessionStore, metrics *observability.Metrics, logger *zap.Logger) *AgentService {
	return &AgentService{normalizer: n, sessions: sessions, metrics: metrics, logger: logger}
}

// Upload decodes content into a new session.
func (s *AgentService) Upload(ctx context.Context, filename string, content []byte) (*UploadResult, error) {
	_, span := tracer.Start(ctx, "AgentService.Upload")
	defer span.End()

	if filename == "" {
		return nil, &domain.ErrValidation{Field: "file", Message: "is required"}
	}
	if !uploadExtensions[strings.ToLower(filepath.Ext(filename))] {
		return nil, &domain.ErrValidation{Field: "file", Message: "only .csv, .txt, .xlsx and .xls files are allowed"}
	}

	res := s.normalizer.Decode(content, filename)
	if res.Analysis.Fallback {
		s.logger.Warn("upload could not be decoded, using sample data",
			zap.String("filename", filename),
			zap.String("reason", res.Analysis.FallbackReason),
		)
		s.metrics.IncrFallback(observability.FallbackNormalizer)
	}

	sess := &domain.AgentSession{
		ID:           uuid.NewString(),
		Filename:     filename,
		Transactions: res.Transactions,
		Fallback:     res.Analysis.Fallback,
		CreatedAt:    time.Now().UTC(),
	}
	s.sessions.Put(sess)
	span.SetAttributes(attribute.String("session.id", sess.ID), attribute.Int("rows", len(sess.Transactions)))

	s.logger.Info("agent session created",
		zap.String("session_id", sess.ID),
		zap.String("filename", filename),
		zap.Int("rows", res.Analysis.TotalRows),
	)
	return &UploadResult{
		SessionID: sess.ID,
		Message:   uploadSummary(filename, res.Analysis),
		Analysis:  res.Analysis,
		Preview:   command.Preview(res.Transactions, UploadPreviewRows),
	}, nil
}

// Command parses cmd, filters the session's transactions and stores the
// result for download. Asking for separate output exports immediately.
func (s *AgentService) Command(ctx context.Context, sessionID, cmd string) (*CommandResult, error) {
	ctx, span := tracer.Start(ctx, "AgentService.Command")
	defer span.End()
	span.SetAttributes(attribute.String("session.id", sessionID))

	if strings.TrimSpace(cmd) == "" {
		return nil, &domain.ErrValidation{Field: "command", Message: "is required"}
	}
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	pred := command.Parse(cmd)
	filtered := command.Apply(sess.Transactions, pred)
	if len(filtered) == 0 {
		return nil, &domain.ErrNoMatches{Command: cmd}
	}

	next := *sess
	next.Filtered = filtered
	next.Predicate = &pred
	next.Files = nil
	s.sessions.Put(&next)

	breakdown := typeBreakdown(filtered)
	msg := command.Confirmation(pred, len(filtered)) + "\n\nTransaction breakdown: " + formatBreakdown(breakdown)

	res := &CommandResult{
		Message:          msg,
		Count:            len(filtered),
		Preview:          command.Preview(filtered, CommandPreviewRows),
		Filters:          pred,
		TypeBreakdown:    breakdown,
		ReadyForDownload: true,
	}

	if pred.SeparateOutput {
		files, err := s.GenerateFiles(ctx, sessionID)
		if err != nil {
			s.logger.Warn("auto export failed", zap.String("session_id", sessionID), zap.Error(err))
		} else {
			res.Files = files.Files
			res.Message += "\n\n📁 Files generated and ready for download!"
		}
	}
	return res, nil
}

// GenerateFiles renders CSV exports of the last command's result. Without
// a prior command the whole upload is exported split by side.
func (s *AgentService) GenerateFiles(ctx context.Context, sessionID string) (*FilesResult, error) {
	_, span := tracer.Start(ctx, "AgentService.GenerateFiles")
	defer span.End()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	txns, pred := sess.Filtered, domain.FilterPredicate{SeparateOutput: true}
	if sess.Predicate != nil {
		pred = *sess.Predicate
	} else {
		txns = sess.Transactions
	}
	if len(txns) == 0 {
		return nil, &domain.ErrValidation{Field: "session", Message: "no data available for file generation"}
	}

	files, err := command.Export(txns, pred)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	next := *sess
	next.Files = files
	s.sessions.Put(&next)

	return &FilesResult{
		Message: fmt.Sprintf("Generated %d file(s) successfully!", len(files)),
		Files:   files,
	}, nil
}

// File returns a previously generated export.
func (s *AgentService) File(_ context.Context, sessionID, name string) (domain.ExportFile, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return domain.ExportFile{}, err
	}
	f, ok := sess.File(name)
	if !ok {
		return domain.ExportFile{}, &domain.ErrNotFound{Resource: "file", ID: name}
	}
	return f, nil
}

// Info describes a session.
func (s *AgentService) Info(sessionID string) (*SessionInfo, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return &SessionInfo{
		Filename:          sess.Filename,
		TotalRows:         len(sess.Transactions),
		Fallback:          sess.Fallback,
		HasFilteredData:   sess.Predicate != nil,
		HasGeneratedFiles: len(sess.Files) > 0,
		CreatedAt:         sess.CreatedAt,
	}, nil
}

// Close drops the session and its exports.
func (s *AgentService) Close(sessionID string) error {
	if _, err := s.session(sessionID); err != nil {
		return err
	}
	s.sessions.Delete(sessionID)
	return nil
}

func (s *AgentService) session(id string) (*domain.AgentSession, error) {
	sess, ok := s.sessions.Get(id)
	if !ok {
		s.metrics.IncrCacheMiss("session")
		return nil, &domain.ErrNotFound{Resource: "session", ID: id}
	}
	s.metrics.IncrCacheHit("session")
	return sess, nil
}

func typeBreakdown(txns []domain.Transaction) map[string]int {
	out := make(map[string]int)
	for _, t := range txns {
		out[string(t.Type)]++
	}
	return out
}

func formatBreakdown(b map[string]int) string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %d", k, b[k])
	}
	return strings.Join(parts, ", ")
}

func uploadSummary(filename string, a normalize.Analysis) string {
	lines := []string{
		fmt.Sprintf("📄 Successfully uploaded '%s'", filename),
		fmt.Sprintf("📊 Found %d transactions", a.TotalRows),
	}
	if a.Fallback {
		lines = append(lines, "⚠️ The file could not be read, showing sample data instead")
	}
	if a.DateRange != nil {
		lines = append(lines, fmt.Sprintf("📅 Date range: %s to %s", a.DateRange.Start, a.DateRange.End))
	}
	if len(a.TransactionTypes) > 0 {
		types := make([]string, 0, len(a.TransactionTypes))
		for t := range a.TransactionTypes {
			types = append(types, string(t))
		}
		sort.Strings(types)
		parts := make([]string, len(types))
		for i, t := range types {
			parts[i] = fmt.Sprintf("%d %ss", a.TransactionTypes[domain.TransactionType(t)], t)
		}
		lines = append(lines, "💳 Transaction types: "+strings.Join(parts, ", "))
	}
	lines = append(lines,
		"",
		"🤖 Now you can ask me to filter the data:",
		"• 'Show only credit transactions'",
		"• 'List debits above ₹2000'",
		"• 'Give credits and debits separately'",
		"• 'Show transactions above ₹5000'",
		"",
		"What would you like me to do with this data?",
	)
	return strings.Join(lines, "\n")
}
