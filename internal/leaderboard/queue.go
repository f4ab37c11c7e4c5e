package leaderboard

import (
	"sync"
)

// Queue sérialise les mises à jour par classement : les rangs étant une
// fonction de toutes les entrées à la fois, chaque classement a son unique
// écrivain plutôt qu'un verrou par entrée. Les classements distincts
// avancent en parallèle.
type Queue struct {
	mu     sync.Mutex
	lanes  map[string]chan queueJob
	wg     sync.WaitGroup
	closed bool
}

type queueJob struct {
	fn   func() error
	done chan error
}

const laneBuffer = 64

// NewQueue crée une file vide ; les workers démarrent à la première
// soumission pour chaque classement
func NewQueue() *Queue {
	return &Queue{lanes: make(map[string]chan queueJob)}
}

// Do soumet une mutation pour un classement et attend son résultat. Les
// soumissions pour un même id s'exécutent strictement dans l'ordre d'arrivée.
func (q *Queue) Do(leaderboardID string, fn func() error) error {
	lane := q.lane(leaderboardID)
	if lane == nil {
		return fn() // file fermée : exécution directe, plus de concurrence possible
	}

	job := queueJob{fn: fn, done: make(chan error, 1)}
	lane <- job
	return <-job.done
}

func (q *Queue) lane(id string) chan queueJob {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	lane, ok := q.lanes[id]
	if !ok {
		lane = make(chan queueJob, laneBuffer)
		q.lanes[id] = lane
		q.wg.Add(1)
		go q.drain(lane)
	}
	return lane
}

func (q *Queue) drain(lane chan queueJob) {
	defer q.wg.Done()
	for job := range lane {
		job.done <- job.fn()
	}
}

// Close arrête tous les workers après avoir vidé leurs files
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	for _, lane := range q.lanes {
		close(lane)
	}
	q.mu.Unlock()
	q.wg.Wait()
}
