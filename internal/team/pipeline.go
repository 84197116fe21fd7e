package team

import (
	"context"
	"encoding/json"

	"github.com/charmbracelet/log"

	"github.com/martinemde/tandem/internal/config"
	"github.com/martinemde/tandem/internal/oracle"
	"github.com/martinemde/tandem/internal/sandbox"
)

// Recorder persists interaction records durably. The returned sequence
// number is strictly increasing per session and is what reconnecting
// consumers resume from.
type Recorder interface {
	AppendInteraction(ctx context.Context, sessionID, kind string, payload any) (int64, error)
}

// Committer finalizes a run by committing accumulated file changes.
type Committer interface {
	AutoCommit(ctx context.Context, projectDir, userRequest string) CommitResult
}

// CommitResult is the outcome of an auto-commit, success or not.
type CommitResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// RunParams identifies one pipeline run.
type RunParams struct {
	SessionID   string
	ProjectDir  string
	UserRequest string
}

// Pipeline drives one run: it loops the scheduler, invokes the chosen role,
// classifies every produced event, streams it, and checkpoints. One
// pipeline value serves many runs; each run gets its own history and
// emitter.
type Pipeline struct {
	cfg         config.Config
	client      *oracle.Client
	scheduler   *Scheduler
	termination Termination
	planner     *Role
	executor    *Role
	states      *StateStore
	recorder    Recorder
	committer   Committer
	logger      *log.Logger
}

// NewPipeline wires a pipeline from its collaborators. recorder and
// committer may be nil; the corresponding side effects are skipped.
func NewPipeline(cfg config.Config, client *oracle.Client, executor *Role, recorder Recorder, committer Committer, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.Default()
	}
	return &Pipeline{
		cfg:       cfg,
		client:    client,
		scheduler: NewScheduler(cfg.Sentinels),
		termination: Termination{
			Sentinel:    cfg.Sentinels.Terminate,
			MaxMessages: cfg.Run.MaxMessages,
		},
		planner:   NewPlanner(cfg.Sentinels),
		executor:  executor,
		states:    NewStateStore(logger),
		recorder:  recorder,
		committer: committer,
		logger:    logger,
	}
}

// runState is the per-run bookkeeping the loop threads through callbacks.
type runState struct {
	params       RunParams
	ws           *sandbox.Workspace
	emitter      *Emitter
	history      History
	records      []InteractionRecord
	teamState    json.RawMessage
	toolCalls    int
	thoughts     int
}

// Run executes one full run and closes the emitter when done. It blocks
// until the run finishes, errors out, or ctx is cancelled. The workspace is
// held exclusively for the whole run and released on every exit path.
func (p *Pipeline) Run(ctx context.Context, params RunParams, emitter *Emitter) {
	defer emitter.Close()

	ws, err := sandbox.New(params.ProjectDir)
	if err != nil {
		emitter.Emit(EventError, map[string]any{"error": err.Error()})
		return
	}

	release, err := ws.Lease(ctx)
	if err != nil {
		emitter.Emit(EventError, map[string]any{"error": "workspace busy: " + err.Error()})
		return
	}
	defer release()

	rs := &runState{
		params:  params,
		ws:      ws,
		emitter: emitter,
		history: History{TextMessage(SourceUser, params.UserRequest)},
	}
	if snap, ok := p.states.Load(params.ProjectDir); ok {
		rs.teamState = snap.TeamState
	}

	emitter.Emit(EventStart, map[string]any{
		"session_id": params.SessionID,
		"request":    Preview(params.UserRequest),
	})

	err = p.loop(ctx, rs)

	// Whatever happened, the partial log is worth keeping.
	p.checkpoint(rs)

	switch {
	case err != nil && ctx.Err() != nil:
		emitter.Emit(EventError, map[string]any{"error": "run cancelled"})
	case err != nil:
		emitter.Emit(EventError, map[string]any{"error": err.Error()})
	default:
		p.finalize(ctx, rs)
	}
}

func (p *Pipeline) loop(ctx context.Context, rs *runState) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if p.termination.ShouldStop(rs.history) {
			return nil
		}

		speaker, ok := p.scheduler.Select(rs.history)
		if !ok {
			// No rule matched. The terminate case is caught above by the
			// termination check, so fall back deterministically rather
			// than stall.
			speaker = RoleExecutor
		}

		role := p.planner
		if speaker == RoleExecutor {
			role = p.executor
		}

		before := len(rs.history)
		err := role.Invoke(ctx, p.client, p.cfg.Oracle, rs.history, rs.ws, func(m Message) {
			rs.history = append(rs.history, m)
			p.classify(ctx, rs, m)
		})
		if err != nil {
			// Unavailable oracles (bad credentials, missing config) are
			// surfaced once and never retried; everything else ends the
			// run the same way.
			return err
		}
		if len(rs.history) == before {
			// An empty oracle response would loop forever on the same
			// history; nudge it forward.
			rs.history = append(rs.history, TextMessage(SourceSystem, "(no response from "+string(speaker)+")"))
		}
	}
}

// classify turns one produced message into its interaction record, streams
// it, and applies the checkpoint and preview-reload side channels.
func (p *Pipeline) classify(ctx context.Context, rs *runState, m Message) {
	var rec InteractionRecord

	switch m.Kind {
	case KindText:
		if !IsRole(m.Source) {
			return
		}
		s := p.cfg.Sentinels
		if IsSentinelOnly(m.Content, s.Delegate, s.SubtaskDone, s.Terminate) {
			return
		}
		rec = InteractionRecord{
			AgentName:   m.Source,
			MessageType: RecordThought,
			Content:     m.Content,
			Timestamp:   m.Timestamp,
		}
	case KindToolCallReq:
		rec = InteractionRecord{
			AgentName:     m.Source,
			MessageType:   RecordToolCall,
			Content:       m.ToolName,
			ToolName:      m.ToolName,
			ToolArguments: DecodeToolArguments(m.ToolArgs),
			Timestamp:     m.Timestamp,
		}
	case KindToolCallResult:
		rec = InteractionRecord{
			AgentName:   m.Source,
			MessageType: RecordToolResponse,
			Content:     m.Content,
			ToolName:    m.ToolName,
			Timestamp:   m.Timestamp,
		}
		p.logger.Debug("tool response", "tool", m.ToolName, "preview", Preview(m.Content))
	default:
		return
	}

	rs.records = append(rs.records, rec)

	seq := p.persist(ctx, rs, rec)
	rs.emitter.Emit(EventInteraction, map[string]any{
		"seq":    seq,
		"record": rec,
	})

	switch rec.MessageType {
	case RecordToolCall:
		rs.toolCalls++
		every := p.cfg.Run.PreviewReloadEvery
		if every > 0 && rs.toolCalls%every == 0 {
			rs.emitter.Emit(EventReloadPreview, map[string]any{"tool_calls": rs.toolCalls})
		}
	case RecordToolResponse:
		p.checkpoint(rs)
	case RecordThought:
		rs.thoughts++
		every := p.cfg.Run.CheckpointThoughts
		if every > 0 && rs.thoughts%every == 0 {
			p.checkpoint(rs)
		}
	}
}

// persist writes the record through the Recorder. Failures are logged and
// swallowed; the stream still carries the record.
func (p *Pipeline) persist(ctx context.Context, rs *runState, rec InteractionRecord) int64 {
	if p.recorder == nil {
		return 0
	}
	seq, err := p.recorder.AppendInteraction(ctx, rs.params.SessionID, string(rec.MessageType), rec)
	if err != nil {
		p.logger.Warn("interaction persist failed", "session", rs.params.SessionID, "err", err)
		return 0
	}
	return seq
}

func (p *Pipeline) checkpoint(rs *runState) {
	p.states.Save(rs.params.ProjectDir, Snapshot{
		InteractionLog: rs.records,
		TeamState:      rs.teamState,
	})
}

// finalize runs after clean termination: auto-commit, then completion.
func (p *Pipeline) finalize(ctx context.Context, rs *runState) {
	if p.committer != nil {
		result := p.committer.AutoCommit(ctx, rs.params.ProjectDir, rs.params.UserRequest)
		rs.emitter.Emit(EventGitCommit, result)
		if !result.Success && result.Error != "" {
			p.logger.Warn("auto-commit failed", "project", rs.params.ProjectDir, "err", result.Error)
		}
	}
	rs.emitter.Emit(EventComplete, map[string]any{
		"messages":   len(rs.history),
		"records":    len(rs.records),
		"tool_calls": rs.toolCalls,
	})
}
