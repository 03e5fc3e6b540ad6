package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/vancomm/minesweeper-classic/internal/command"
	"github.com/vancomm/minesweeper-classic/internal/game"
)

// ConnectWS accepts batches of newline-separated commands and answers each
// batch with the session state, or with {"error": ...} for the first
// command that failed. Commands after a win, a loss or a failure are
// dropped. "q" closes the connection.
func (g *GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	s, ok := g.lookupSession(w, r)
	if !ok {
		return
	}

	c, err := g.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.WithError(err).Error("unable to upgrade")
		return
	}
	defer c.Close()

	log := g.logger.WithField("session_id", s.id.String())

	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Warn("abnormal ws break")
			}
			return
		}
		if mt != websocket.TextMessage {
			return
		}
		text := strings.TrimSpace(string(message))
		log.Debugf("\t> %s", text)

		reply, quit := g.runBatch(r, s, text)
		if err := c.WriteJSON(reply); err != nil {
			log.WithError(err).Error("unable to write json")
			return
		}
		log.Debug("\t< <session data>")

		if quit {
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye")
			c.WriteMessage(websocket.CloseMessage, msg)
			return
		}
	}
}

func (g *GameHandler) runBatch(r *http.Request, s *session, text string) (reply any, quit bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = g.now()

	for line := range command.Lines(text) {
		cmd, err := command.Parse(line)
		if err != nil {
			return wrapError(err), false
		}
		if cmd.Name == command.Quit {
			quit = true
			break
		}
		out, err := command.Execute(r.Context(), s.ctrl, cmd)
		if err != nil {
			return wrapError(err), false
		}
		if out != game.Continue {
			break
		}
	}
	return s.dto(), quit
}
