package bot

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// Client asks a running bot for moves.
type Client struct {
	nc      *nats.Conn
	subject string
	timeout time.Duration
}

func NewClient(url, subject string) (*Client, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}
	return &Client{nc: nc, subject: subject, timeout: 10 * time.Second}, nil
}

// BestMove sends a position to the bot and waits for its answer.
func (c *Client) BestMove(fen string, depth int) (Response, error) {
	data, err := json.Marshal(Request{FEN: fen, Depth: depth})
	if err != nil {
		return Response{}, err
	}
	msg, err := c.nc.Request(c.subject, data, c.timeout)
	if err != nil {
		if c.nc.LastError() != nil {
			log.Error().Msgf("%v for request", c.nc.LastError())
		}
		return Response{}, err
	}
	var resp Response
	if err := json.Unmarshal(msg.Data, &resp); err != nil {
		return Response{}, err
	}
	if resp.Error != "" {
		return resp, errors.New("bot returned: " + resp.Error)
	}
	return resp, nil
}

func (c *Client) Close() {
	c.nc.Close()
}
