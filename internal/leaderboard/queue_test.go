package leaderboard

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueSerializesSameLane(t *testing.T) {
	q := NewQueue()
	defer q.Close()

	// sans synchronisation dans le job : la sérialisation par lane doit
	// suffire à rendre le compteur exact
	counter := 0
	var wg sync.WaitGroup
	const jobs = 200
	wg.Add(jobs)
	for i := 0; i < jobs; i++ {
		go func() {
			defer wg.Done()
			err := q.Do("board-1", func() error {
				counter++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, jobs, counter)
}

func TestQueueLanesAreIndependent(t *testing.T) {
	q := NewQueue()
	defer q.Close()

	// un job bloqué sur une lane ne doit pas retarder l'autre
	release := make(chan struct{})
	started := make(chan struct{})
	go q.Do("slow", func() error {
		close(started)
		<-release
		return nil
	})
	<-started

	done := make(chan struct{})
	go func() {
		q.Do("fast", func() error { return nil })
		close(done)
	}()

	select {
	case <-done:
	case <-release:
		t.Fatal("unreachable")
	}
	close(release)
}

func TestQueuePropagatesErrors(t *testing.T) {
	q := NewQueue()
	defer q.Close()

	wantErr := errors.New("boom")
	err := q.Do("board-1", func() error { return wantErr })
	require.ErrorIs(t, err, wantErr)
}

func TestQueueDoAfterCloseRunsDirectly(t *testing.T) {
	q := NewQueue()
	q.Close()

	ran := false
	err := q.Do("board-1", func() error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)

	// Close est idempotent
	q.Close()
}
