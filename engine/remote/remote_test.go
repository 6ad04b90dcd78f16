package remote

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/marionette/engine/math"
)

func TestStateCodec(t *testing.T) {
	id := uuid.MustParse("7d444840-9dc0-11d1-b245-5ffdce74fad2")
	s := State{Instance: id, DeltaTime: 0.016, Translation: math.NewVec3(1.5, -2, 0)}

	encoded := s.Encode()
	assert.Equal(t, "7d444840-9dc0-11d1-b245-5ffdce74fad2,0.016,1.5,-2,0", encoded)

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, s, decoded)
}

func TestDecodeWithoutInstance(t *testing.T) {
	s, err := Decode("0.5,1,2,3")
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, s.Instance)
	assert.Equal(t, float32(0.5), s.DeltaTime)
	assert.Equal(t, math.NewVec3(1, 2, 3), s.Translation)
}

func TestDecodeErrors(t *testing.T) {
	for _, record := range []string{"", "1,2,3", "not-a-uuid,1,2,3,4", "0.5,x,2,3"} {
		_, err := Decode(record)
		assert.Error(t, err, "record %q", record)
	}
}

func TestBatch(t *testing.T) {
	states := []State{
		{Instance: uuid.New(), DeltaTime: 1},
		{Instance: uuid.New(), Translation: math.NewVec3(0, 0, 4)},
	}
	message := EncodeBatch(states)

	decoded, err := DecodeBatch(message)
	require.NoError(t, err)
	assert.Equal(t, states, decoded)

	_, err = DecodeBatch(message + "garbage|")
	assert.Error(t, err)
}

func TestMailboxDropsOldest(t *testing.T) {
	mb := NewMailbox(2)
	for i := 1; i <= 3; i++ {
		mb.Post(State{DeltaTime: float32(i)})
	}
	assert.Equal(t, 1, mb.Dropped())
	assert.Equal(t, 2, mb.Len())

	got := mb.Drain(nil)
	require.Len(t, got, 2)
	assert.Equal(t, float32(2), got[0].DeltaTime)
	assert.Equal(t, float32(3), got[1].DeltaTime)
	assert.Zero(t, mb.Len())
}

func TestMailboxConcurrentPost(t *testing.T) {
	mb := NewMailbox(1000)
	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				mb.Post(State{DeltaTime: 1})
			}
		}()
	}
	wg.Wait()
	assert.Len(t, mb.Drain(nil), 400)
}

func TestEchoDeliversToMailbox(t *testing.T) {
	mb := NewMailbox(8)
	echo := NewEcho(mb, 4)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- echo.Run(ctx) }()

	id := uuid.New()
	require.NoError(t, echo.Publish(State{Instance: id, DeltaTime: 0.25, Translation: math.NewVec3(3, 0, 0)}))

	require.Eventually(t, func() bool { return mb.Len() == 1 }, time.Second, 5*time.Millisecond)
	got := mb.Drain(nil)
	assert.Equal(t, id, got[0].Instance)
	assert.Equal(t, math.NewVec3(3, 0, 0), got[0].Translation)

	cancel()
	assert.True(t, errors.Is(<-done, context.Canceled))
}

func TestEchoPublishDoesNotBlock(t *testing.T) {
	echo := NewEcho(NewMailbox(1), 1)
	require.NoError(t, echo.Publish(State{}))
	assert.ErrorIs(t, echo.Publish(State{}), ErrEchoBusy)
}
