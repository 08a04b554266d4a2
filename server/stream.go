package server

import (
	"context"
	"net/http"
	"time"

	"github.com/etnz/pdash"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const writeTimeout = 10 * time.Second

// handleStream upgrades to a websocket and sends the current view, then every
// recomputed view. A slow client skips intermediate views, it always
// receives the latest one.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: s.devMode})
	if err != nil {
		s.log.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}
	defer c.Close(websocket.StatusInternalError, "")

	// the client is not expected to send anything, CloseRead handles the
	// control frames and cancels ctx when the connection goes away.
	ctx := c.CloseRead(r.Context())

	updates := make(chan *pdash.View, 1)
	cancel := s.engine.Subscribe(func(v *pdash.View) {
		// subscribers are called one at a time, this never blocks
		select {
		case <-updates:
		default:
		}
		updates <- v
	})
	defer cancel()

	s.log.Debug().Msg("Stream opened")
	view := s.engine.View()
	for {
		if err := writeView(ctx, c, view); err != nil {
			s.log.Debug().Err(err).Msg("Stream closed")
			return
		}
		select {
		case <-ctx.Done():
			c.Close(websocket.StatusNormalClosure, "")
			return
		case view = <-updates:
		}
	}
}

func writeView(ctx context.Context, c *websocket.Conn, v *pdash.View) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, c, v)
}
