package handlers

import (
	"net/url"

	"github.com/gorilla/schema"

	"github.com/vancomm/minesweeper-classic/internal/game"
	"github.com/vancomm/minesweeper-classic/internal/leaderboard"
	"github.com/vancomm/minesweeper-classic/internal/mines"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

type NewGameDTO struct {
	Difficulty string `schema:"difficulty"`
}

func ParseNewGameDTO(src url.Values) (NewGameDTO, error) {
	var dto NewGameDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

type GameMove string

const (
	Open GameMove = "open"
	Flag GameMove = "flag"
)

type MoveDTO struct {
	Move GameMove `schema:"move,required"`
	X    int      `schema:"x,required"`
	Y    int      `schema:"y,required"`
}

func ParseMoveDTO(src url.Values) (MoveDTO, error) {
	var dto MoveDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

type TopDTO struct {
	N int `schema:"n"`
}

func ParseTopDTO(src url.Values) (TopDTO, error) {
	var dto TopDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

type ResultDTO struct {
	leaderboard.Standing
	Error string `json:"error,omitempty"`
}

type GameSessionDTO struct {
	SessionID  string           `json:"session_id"`
	State      string           `json:"state"`
	Difficulty mines.Difficulty `json:"difficulty"`
	Grid       mines.Grid       `json:"grid"`
	Width      int              `json:"width"`
	Height     int              `json:"height"`
	BombCount  int              `json:"bomb_count"`
	FlagCount  int              `json:"flag_count"`
	ElapsedMs  int64            `json:"elapsed_ms"`
	Elapsed    string           `json:"elapsed"`
	Result     *ResultDTO       `json:"result,omitempty"`
}

func NewGameSessionDTO(id string, c *game.Controller, report *game.WinReport) *GameSessionDTO {
	dto := &GameSessionDTO{
		SessionID:  id,
		State:      c.State().String(),
		Difficulty: c.Difficulty(),
		ElapsedMs:  c.Elapsed().Milliseconds(),
		Elapsed:    leaderboard.FormatElapsed(c.Elapsed()),
	}
	if b := c.Board(); b != nil {
		dto.Grid = b.View()
		dto.Width = b.Width()
		dto.Height = b.Height()
		dto.BombCount = b.BombCount()
		dto.FlagCount = b.FlagCount()
	}
	if report != nil {
		dto.Result = &ResultDTO{Standing: report.Standing}
		if report.Err != nil {
			dto.Result.Error = report.Err.Error()
		}
	}
	return dto
}
