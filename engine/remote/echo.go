package remote

import (
	"context"
	"errors"

	"github.com/spaghettifunk/marionette/engine/core"
)

var ErrEchoBusy = errors.New("echo peer is not keeping up")

// Echo is an in-process peer. Messages published to it are decoded on its
// own goroutine and delivered to a Mailbox, the way a network receiver
// would deliver them.
type Echo struct {
	inbox chan string
	out   *Mailbox
}

func NewEcho(out *Mailbox, buffer int) *Echo {
	return &Echo{
		inbox: make(chan string, buffer),
		out:   out,
	}
}

// Publish hands the states to the peer without blocking.
func (e *Echo) Publish(states ...State) error {
	select {
	case e.inbox <- EncodeBatch(states):
		return nil
	default:
		return ErrEchoBusy
	}
}

// Run delivers published messages until ctx is done.
func (e *Echo) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case message := <-e.inbox:
			states, err := DecodeBatch(message)
			if err != nil {
				core.LogWarn("echo: dropping message: %s", err.Error())
				continue
			}
			for _, s := range states {
				e.out.Post(s)
			}
		}
	}
}
