// Package client talks to a Pokemon Showdown server over its websocket.
package client

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const DefaultServerURL = "wss://sim.psim.us/showdown/websocket"

type ShowdownClient struct {
	Conn *websocket.Conn
	log  *zap.Logger
	mu   sync.Mutex
}

func NewShowdownClient(ctx context.Context, serverURL string, log *zap.Logger) (*ShowdownClient, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}

	log.Info("connecting to showdown", zap.String("url", u.String()))
	c, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial showdown: %w", err)
	}

	client := &ShowdownClient{Conn: c, log: log}
	log.Info("connected to showdown")

	return client, nil
}

// Listen forwards every frame to out until the connection fails or ctx is
// done. The returned error is nil only when ctx ended the loop.
func (sc *ShowdownClient) Listen(ctx context.Context, out chan<- string) error {
	stop := context.AfterFunc(ctx, func() { sc.Conn.Close() })
	defer stop()
	for {
		_, message, err := sc.Conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			sc.log.Warn("read failed", zap.Error(err))
			return fmt.Errorf("read message: %w", err)
		}
		sc.log.Debug("received", zap.Int("bytes", len(message)))
		select {
		case out <- string(message):
		case <-ctx.Done():
			return nil
		}
	}
}

func (sc *ShowdownClient) Send(message string) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.log.Debug("sending", zap.String("message", message))
	return sc.Conn.WriteMessage(websocket.TextMessage, []byte(message))
}

func (sc *ShowdownClient) JoinRoom(roomID string) error {
	return sc.Send(fmt.Sprintf("|/join %s", roomID))
}

func (sc *ShowdownClient) Close() error {
	return sc.Conn.Close()
}
