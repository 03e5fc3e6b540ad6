package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-classic/internal/command"
	"github.com/vancomm/minesweeper-classic/internal/config"
	"github.com/vancomm/minesweeper-classic/internal/game"
	"github.com/vancomm/minesweeper-classic/internal/leaderboard"
	"github.com/vancomm/minesweeper-classic/internal/mines"
)

type GameHandler struct {
	logger     logrus.FieldLogger
	ws         *config.WebSocket
	scores     *leaderboard.Leaderboard
	difficulty mines.Difficulty
	sessions   *sessions

	now     func() time.Time
	newRand func() mines.RandomSource
}

// NewGameHandler serves in-memory game sessions. scores may be nil, in
// which case wins are not recorded.
func NewGameHandler(
	logger logrus.FieldLogger,
	scores *leaderboard.Leaderboard,
	ws *config.WebSocket,
	difficulty mines.Difficulty,
) *GameHandler {
	return &GameHandler{
		logger:     logger,
		ws:         ws,
		scores:     scores,
		difficulty: difficulty,
		sessions:   newSessions(),
		now:        time.Now,
		newRand:    func() mines.RandomSource { return game.NewRand() },
	}
}

func (g *GameHandler) newSession() *session {
	s := &session{id: uuid.New(), touched: g.now()}
	opts := []game.Option{
		game.WithRand(g.newRand()),
		game.WithClock(g.now),
		game.WithLogger(g.logger.WithField("session_id", s.id.String())),
		game.WithListener(s),
	}
	if g.scores != nil {
		opts = append(opts, game.WithRecorder(g.scores))
	}
	s.ctrl = game.New(opts...)
	return s
}

// Sweep forgets sessions idle for longer than ttl and reports how many
// were dropped.
func (g *GameHandler) Sweep(ttl time.Duration) int {
	n := g.sessions.sweep(g.now().Add(-ttl))
	if n > 0 {
		g.logger.WithFields(logrus.Fields{
			"dropped": n,
			"active":  g.sessions.len(),
		}).Debug("swept idle sessions")
	}
	return n
}

func (g *GameHandler) lookupDifficulty(name string) (mines.Difficulty, error) {
	if name == "" {
		return g.difficulty, nil
	}
	d, ok := mines.LookupDifficulty(name)
	if !ok {
		return d, fmt.Errorf("%w %q", mines.ErrInvalidDifficulty, name)
	}
	return d, nil
}

func (g *GameHandler) lookupSession(w http.ResponseWriter, r *http.Request) (*session, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, errors.New("invalid session id"))
		return nil, false
	}
	s, ok := g.sessions.get(id)
	if !ok {
		sendErrorOrLog(w, g.logger, http.StatusNotFound, errors.New("session not found"))
		return nil, false
	}
	return s, true
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, mines.ErrOutOfBounds),
		errors.Is(err, mines.ErrInvalidDifficulty),
		errors.Is(err, command.ErrUnknownCommand),
		errors.Is(err, command.ErrArgCount),
		errors.Is(err, command.ErrBadArgument),
		errors.Is(err, leaderboard.ErrBadName):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrNotPlaying),
		errors.Is(err, game.ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (g *GameHandler) sendActionError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		g.logger.WithError(err).Error("unable to apply action")
		err = errors.New("internal error")
	}
	sendErrorOrLog(w, g.logger, status, err)
}

// apply runs cmd against the session and returns its state afterwards.
func (g *GameHandler) apply(r *http.Request, s *session, cmd command.Command) (*GameSessionDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = g.now()

	if _, err := command.Execute(r.Context(), s.ctrl, cmd); err != nil {
		return nil, err
	}
	return s.dto(), nil
}

func (g *GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseNewGameDTO(r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}
	d, err := g.lookupDifficulty(dto.Difficulty)
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}

	s := g.newSession()
	if err := s.ctrl.Start(d); err != nil {
		g.sendActionError(w, err)
		return
	}
	g.sessions.add(s)

	g.logger.WithFields(logrus.Fields{
		"session_id": s.id.String(),
		"difficulty": d.Name,
	}).Debug("created session")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	sendJSONOrLog(w, g.logger, s.dto())
}

func (g *GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	s, ok := g.lookupSession(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	s.touched = g.now()
	dto := s.dto()
	s.mu.Unlock()

	sendJSONOrLog(w, g.logger, dto)
}

func (g *GameHandler) MakeAMove(w http.ResponseWriter, r *http.Request) {
	move, err := ParseMoveDTO(r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}

	cmd := command.Command{Pos: mines.Position{X: move.X, Y: move.Y}}
	switch move.Move {
	case Open:
		cmd.Name = command.Open
	case Flag:
		cmd.Name = command.Flag
	default:
		sendErrorOrLog(w, g.logger, http.StatusBadRequest,
			fmt.Errorf("unknown move %q", move.Move))
		return
	}

	s, ok := g.lookupSession(w, r)
	if !ok {
		return
	}
	dto, err := g.apply(r, s, cmd)
	if err != nil {
		g.sendActionError(w, err)
		return
	}
	sendJSONOrLog(w, g.logger, dto)
}

func (g *GameHandler) Restart(w http.ResponseWriter, r *http.Request) {
	params, err := ParseNewGameDTO(r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}
	s, ok := g.lookupSession(w, r)
	if !ok {
		return
	}
	dto, err := g.apply(r, s, command.Command{Name: command.New, Difficulty: params.Difficulty})
	if err != nil {
		g.sendActionError(w, err)
		return
	}
	sendJSONOrLog(w, g.logger, dto)
}

func (g *GameHandler) Difficulties(w http.ResponseWriter, r *http.Request) {
	sendJSONOrLog(w, g.logger, mines.Difficulties())
}
