package handlers

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-classic/internal/leaderboard"
	"github.com/vancomm/minesweeper-classic/internal/mines"
)

type LeaderboardHandler struct {
	logger logrus.FieldLogger
	scores *leaderboard.Leaderboard
}

// NewLeaderboardHandler serves leaderboard queries. With nil scores every
// query answers 503.
func NewLeaderboardHandler(logger logrus.FieldLogger, scores *leaderboard.Leaderboard) *LeaderboardHandler {
	return &LeaderboardHandler{logger: logger, scores: scores}
}

type LeaderboardDTO struct {
	Difficulty string               `json:"difficulty"`
	Records    []leaderboard.Record `json:"records"`
}

func (h *LeaderboardHandler) Top(w http.ResponseWriter, r *http.Request) {
	if h.scores == nil {
		sendErrorOrLog(w, h.logger, http.StatusServiceUnavailable, errors.New("leaderboard unavailable"))
		return
	}
	d, ok := mines.LookupDifficulty(r.PathValue("difficulty"))
	if !ok {
		sendErrorOrLog(w, h.logger, http.StatusNotFound, errors.New("unknown difficulty"))
		return
	}
	dto, err := ParseTopDTO(r.URL.Query())
	if err != nil || dto.N < 0 {
		sendErrorOrLog(w, h.logger, http.StatusBadRequest, errors.New("n must be a non-negative int"))
		return
	}
	n := dto.N
	if n == 0 {
		n = h.scores.TopSize()
	}

	records, err := h.scores.Top(r.Context(), d.Name, n)
	if err != nil {
		h.logger.WithError(err).WithField("difficulty", d.Name).Error("unable to load leaderboard")
		sendErrorOrLog(w, h.logger, http.StatusInternalServerError, errors.New("leaderboard unavailable"))
		return
	}
	sendJSONOrLog(w, h.logger, LeaderboardDTO{Difficulty: d.Name, Records: records})
}
