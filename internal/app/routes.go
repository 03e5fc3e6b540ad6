package app

import "github.com/vancomm/minesweeper-classic/internal/handlers"

func (a *App) loadRoutes() {
	top := handlers.NewLeaderboardHandler(a.logger, a.scores)

	a.router.HandleFunc("GET /difficulties", a.game.Difficulties)
	a.router.HandleFunc("POST /game", a.game.NewGame)
	a.router.HandleFunc("GET /game/{id}", a.game.Fetch)
	a.router.HandleFunc("POST /game/{id}/move", a.game.MakeAMove)
	a.router.HandleFunc("POST /game/{id}/restart", a.game.Restart)
	a.router.HandleFunc("/game/{id}/connect", a.game.ConnectWS)
	a.router.HandleFunc("GET /leaderboard/{difficulty}", top.Top)
}
