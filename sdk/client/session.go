package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/sushiforbots/protocol"
)

// ErrJoinFailed wraps the server error returned for a JOIN, TOURNEY, TJOIN
// or READY.
var ErrJoinFailed = errors.New("join failed")

// Stage is where the session is in the join/play handshake.
type Stage int

const (
	StageIdle Stage = iota
	StageAwaitingWelcome
	StageAwaitingReadyAck
	StageInGame
	StageAwaitingMatch
	StageTournamentDone
	StageGameOver
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageAwaitingWelcome:
		return "awaiting-welcome"
	case StageAwaitingReadyAck:
		return "awaiting-ready-ack"
	case StageInGame:
		return "in-game"
	case StageAwaitingMatch:
		return "awaiting-match"
	case StageTournamentDone:
		return "tournament-done"
	case StageGameOver:
		return "game-over"
	default:
		return "unknown"
	}
}

// Session drives one connection through a game or a tournament. Its
// methods must be called from a single goroutine; Snapshot and Stage are
// safe to call from anywhere.
type Session struct {
	transport Transport
	strategy  Strategy
	hooks     Hooks
	hooksSet  bool
	logger    *log.Logger
	clock     quartz.Clock

	mu    sync.Mutex
	state *GameState
	stage Stage

	closeOnce sync.Once
	closeErr  error
}

// NewSession creates a session that plays over t using strategy.
func NewSession(t Transport, strategy Strategy, opts ...Option) *Session {
	s := &Session{
		transport: t,
		strategy:  strategy,
		logger:    log.New(io.Discard),
		clock:     quartz.NewReal(),
		state:     NewGameState(""),
	}
	for _, opt := range opts {
		opt(s)
	}
	if hp, ok := strategy.(HookProvider); ok && !s.hooksSet {
		s.hooks = hp.Hooks()
	}
	s.logger = s.logger.WithPrefix("session")
	return s
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Stage returns the current handshake stage.
func (s *Session) Stage() Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stage
}

// Close releases the transport. Later calls return the first result.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.transport.Close()
	})
	return s.closeErr
}

// RunGame joins gameID as name, readies up and plays until the game ends.
// The transport is closed on return.
func (s *Session) RunGame(ctx context.Context, gameID, name string) (GameState, error) {
	defer s.Close()
	s.begin(name)
	s.logger.Info("Joining game", "game", gameID, "name", name)

	if _, err := s.join(ctx, protocol.JoinCommand{GameID: gameID, Name: name}, false); err != nil {
		return s.Snapshot(), err
	}
	if _, err := s.readyAndPlay(ctx, false); err != nil {
		return s.Snapshot(), err
	}
	return s.Snapshot(), nil
}

// ResumeGame reconnects to a running game with a rejoin token and plays
// until it ends. No READY is sent.
func (s *Session) ResumeGame(ctx context.Context, token, name string) (GameState, error) {
	defer s.Close()
	s.begin(name)
	s.logger.Info("Rejoining game", "name", name)

	if _, err := s.join(ctx, protocol.RejoinCommand{Token: token}, false); err != nil {
		return s.Snapshot(), err
	}
	s.setStage(StageInGame)
	if _, err := s.playGame(ctx, false); err != nil {
		return s.Snapshot(), err
	}
	return s.Snapshot(), nil
}

// RunTournament enters tournamentID as name and plays every assigned match
// until the tournament completes. The transport is closed on return.
func (s *Session) RunTournament(ctx context.Context, tournamentID, name string) (GameState, error) {
	defer s.Close()
	s.begin(name)
	s.logger.Info("Joining tournament", "tournament", tournamentID, "name", name)

	ack, err := s.join(ctx, protocol.JoinTournamentCommand{TournamentID: tournamentID, Name: name}, true)
	if err != nil {
		return s.Snapshot(), err
	}

	var pending protocol.Message
	if rejoined, ok := ack.(protocol.TournamentRejoined); ok && rejoined.MatchToken != "" {
		s.logger.Info("Resuming tournament match", "tournament", rejoined.TournamentID)
		if pending, err = s.playMatch(ctx, rejoined.MatchToken); err != nil {
			return s.Snapshot(), err
		}
	}

	for {
		s.setStage(StageAwaitingMatch)
		msg := pending
		pending = nil
		if msg == nil {
			if msg, err = s.receive(ctx); err != nil {
				return s.Snapshot(), err
			}
		}

		switch m := msg.(type) {
		case protocol.TournamentMatchAssigned:
			snap := s.apply(m)
			if s.hooks.OnMatchAssigned != nil {
				s.hooks.OnMatchAssigned(m, snap)
			}
			if m.Bye {
				s.logger.Info("Bye this round", "round", m.Round)
				continue
			}
			s.logger.Info("Match assigned", "round", m.Round, "opponent", m.Opponent)
			if pending, err = s.playMatch(ctx, m.MatchToken); err != nil {
				return s.Snapshot(), err
			}

		case protocol.TournamentComplete:
			snap := s.apply(m)
			s.setStage(StageTournamentDone)
			s.logger.Info("Tournament complete", "winner", m.Winner)
			if s.hooks.OnTournamentComplete != nil {
				s.hooks.OnTournamentComplete(m.Winner, snap)
			}
			return snap, nil

		default:
			s.apply(m)
		}
	}
}

// Status asks the server for a status snapshot and folds it into the state.
func (s *Session) Status(ctx context.Context) (protocol.GameStatus, error) {
	if err := s.send(ctx, protocol.StatusCommand{}); err != nil {
		return protocol.GameStatus{}, err
	}
	for {
		msg, err := s.receive(ctx)
		if err != nil {
			return protocol.GameStatus{}, err
		}
		s.apply(msg)
		if status, ok := msg.(protocol.Status); ok {
			return status.Status, nil
		}
	}
}

// ListGames asks the server for the games it knows about.
func (s *Session) ListGames(ctx context.Context) ([]protocol.GameInfo, error) {
	if err := s.send(ctx, protocol.GamesCommand{}); err != nil {
		return nil, err
	}
	for {
		msg, err := s.receive(ctx)
		if err != nil {
			return nil, err
		}
		s.apply(msg)
		if list, ok := msg.(protocol.GamesList); ok {
			return list.Games, nil
		}
	}
}

// Leave tells the server the player is leaving the current game.
func (s *Session) Leave(ctx context.Context) error {
	return s.send(ctx, protocol.LeaveCommand{})
}

func (s *Session) begin(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = NewGameState(name)
	s.stage = StageIdle
}

func (s *Session) setStage(stage Stage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stage != stage {
		s.logger.Debug("Stage change", "from", s.stage, "to", stage)
	}
	s.stage = stage
}

// apply folds msg into the state and returns the resulting snapshot.
func (s *Session) apply(msg protocol.Message) GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Update(msg)
	return s.state.Clone()
}

func (s *Session) send(ctx context.Context, cmd protocol.Command) error {
	line := protocol.Format(cmd)
	s.logger.Debug("Sending", "line", line)
	if err := s.transport.WriteLine(ctx, line); err != nil {
		return fmt.Errorf("send %q: %w", line, err)
	}
	return nil
}

// receive reads and parses the next message without applying it.
func (s *Session) receive(ctx context.Context) (protocol.Message, error) {
	line, err := s.transport.ReadLine(ctx)
	if err != nil {
		return nil, fmt.Errorf("receive: %w", err)
	}
	s.logger.Debug("Received", "line", line)
	return protocol.Parse(line)
}

// join sends cmd and waits for its acknowledgement. A server error fails
// the join and drops any game identity picked up on the way.
func (s *Session) join(ctx context.Context, cmd protocol.Command, tournament bool) (protocol.Message, error) {
	s.setStage(StageAwaitingWelcome)
	if err := s.send(ctx, cmd); err != nil {
		return nil, err
	}
	for {
		msg, err := s.receive(ctx)
		if err != nil {
			return nil, s.joinError(err)
		}
		s.apply(msg)
		if isJoinAck(msg, tournament) {
			return msg, nil
		}
	}
}

func isJoinAck(msg protocol.Message, tournament bool) bool {
	switch msg.(type) {
	case protocol.Welcome, protocol.Rejoined, protocol.Ok:
		return !tournament
	case protocol.TournamentWelcome, protocol.TournamentRejoined:
		return tournament
	default:
		return false
	}
}

func (s *Session) joinError(err error) error {
	var perr *protocol.ProtocolError
	if !errors.As(err, &perr) {
		return err
	}
	s.mu.Lock()
	s.state.clearGame()
	s.stage = StageIdle
	s.mu.Unlock()
	return fmt.Errorf("%w: %w", ErrJoinFailed, perr)
}

// playMatch joins an assigned tournament match and plays it. A tournament
// message that interrupts the match is returned for the caller to handle.
func (s *Session) playMatch(ctx context.Context, token string) (protocol.Message, error) {
	s.setStage(StageAwaitingWelcome)
	if err := s.send(ctx, protocol.JoinMatchCommand{Token: token}); err != nil {
		return nil, err
	}
	for {
		msg, err := s.receive(ctx)
		if err != nil {
			return nil, s.joinError(err)
		}
		if isTournamentMessage(msg) {
			return msg, nil
		}
		s.apply(msg)
		if isJoinAck(msg, false) {
			break
		}
	}
	return s.readyAndPlay(ctx, true)
}

// readyAndPlay sends READY, treats the next message as its acknowledgement
// and then runs the game loop.
func (s *Session) readyAndPlay(ctx context.Context, tournament bool) (protocol.Message, error) {
	s.setStage(StageAwaitingReadyAck)
	if err := s.send(ctx, protocol.ReadyCommand{}); err != nil {
		return nil, err
	}
	ack, err := s.receive(ctx)
	if err != nil {
		return nil, s.joinError(err)
	}
	if tournament && isTournamentMessage(ack) {
		return ack, nil
	}

	s.setStage(StageInGame)
	done, err := s.dispatch(ctx, ack)
	if err != nil || done {
		return nil, err
	}
	return s.playGame(ctx, tournament)
}

// playGame dispatches messages until GAME_END. In tournament mode a match
// assignment or tournament completion ends the loop and is returned
// unapplied.
func (s *Session) playGame(ctx context.Context, tournament bool) (protocol.Message, error) {
	for {
		msg, err := s.receive(ctx)
		if err != nil {
			return nil, err
		}
		if tournament && isTournamentMessage(msg) {
			s.logger.Warn("Tournament message during game", "keyword", msg.Keyword())
			return msg, nil
		}
		done, err := s.dispatch(ctx, msg)
		if err != nil {
			return nil, err
		}
		if done {
			return nil, nil
		}
	}
}

func isTournamentMessage(msg protocol.Message) bool {
	switch msg.(type) {
	case protocol.TournamentMatchAssigned, protocol.TournamentComplete:
		return true
	default:
		return false
	}
}

// dispatch applies one in-game message and runs whatever it triggers. It
// reports true once the game has ended.
func (s *Session) dispatch(ctx context.Context, msg protocol.Message) (bool, error) {
	snap := s.apply(msg)

	switch m := msg.(type) {
	case protocol.Hand:
		return false, s.decide(ctx, m.Cards, snap)

	case protocol.GameStart:
		s.logger.Info("Game started", "players", m.PlayerCount, "move_timeout", m.MoveTimeout)
		if s.hooks.OnGameStart != nil {
			s.hooks.OnGameStart(snap)
		}

	case protocol.RoundStart:
		if s.hooks.OnRoundStart != nil {
			s.hooks.OnRoundStart(m.Round, snap)
		}

	case protocol.TurnResult:
		if s.hooks.OnTurnResult != nil {
			s.hooks.OnTurnResult(snap.LastPlays, snap)
		}

	case protocol.RoundEnd:
		s.logger.Debug("Round ended", "round", m.Round, "score", snap.Score(snap.PlayerName))
		if s.hooks.OnRoundEnd != nil {
			s.hooks.OnRoundEnd(m.Round, snap)
		}

	case protocol.GameEnd:
		s.setStage(StageGameOver)
		s.logger.Info("Game over", "winners", m.Winners, "score", snap.Score(snap.PlayerName))
		if s.hooks.OnGameEnd != nil {
			s.hooks.OnGameEnd(snap)
		}
		return true, nil
	}
	return false, nil
}

// decide asks the strategy for a move and sends it. A failing strategy
// plays the first card on offer.
func (s *Session) decide(ctx context.Context, hand []protocol.HandCard, snap GameState) error {
	// The server deals HAND only while cards remain; an empty hand has no
	// legal PLAY, so the strategy is not consulted and nothing is sent.
	if len(hand) == 0 {
		s.logger.Warn("Empty hand, nothing to play", "round", snap.Round, "turn", snap.Turn)
		return nil
	}

	start := s.clock.Now()
	choice, err := s.strategy.ChooseCard(slices.Clone(hand), snap)
	elapsed := s.clock.Since(start)
	if err != nil {
		s.logger.Error("Strategy failed, playing first card", "error", err)
		choice = PlayCard(hand[0].Index)
	}
	if snap.MoveTimeout > 0 && elapsed > snap.MoveTimeout {
		s.logger.Warn("Decision exceeded move timeout", "elapsed", elapsed, "timeout", snap.MoveTimeout)
	}

	s.logger.Debug("Decision", "round", snap.Round, "turn", snap.Turn, "choice", choice)
	return s.send(ctx, choice.Command())
}
