package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	model "github.com/linoymalakkaran/play-learn-spark-sub006/internal/models"
)

// Memory est un document store en mémoire avec la même sémantique de version
// que l'implémentation Postgres. Utilisé par les tests et le mode local.
type Memory struct {
	mu       sync.RWMutex
	profiles map[string]memoryDoc
	boards   map[string]memoryDoc
}

type memoryDoc struct {
	data    []byte
	version int64
}

// NewMemory crée un store en mémoire vide
func NewMemory() *Memory {
	return &Memory{
		profiles: make(map[string]memoryDoc),
		boards:   make(map[string]memoryDoc),
	}
}

// LoadProfile implémente ProfileStore
func (m *Memory) LoadProfile(ctx context.Context, userID string) (*model.Profile, int64, error) {
	m.mu.RLock()
	doc, ok := m.profiles[userID]
	m.mu.RUnlock()
	if !ok {
		return nil, 0, ErrNotFound
	}

	var p model.Profile
	if err := json.Unmarshal(doc.data, &p); err != nil {
		return nil, 0, fmt.Errorf("decode profile %s: %w", userID, err)
	}
	return &p, doc.version, nil
}

// SaveProfile implémente ProfileStore
func (m *Memory) SaveProfile(ctx context.Context, p *model.Profile, expectedVersion int64) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile %s: %w", p.UserID, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return saveDoc(m.profiles, p.UserID, data, expectedVersion)
}

// LoadLeaderboard implémente LeaderboardStore
func (m *Memory) LoadLeaderboard(ctx context.Context, id string) (*model.Leaderboard, int64, error) {
	m.mu.RLock()
	doc, ok := m.boards[id]
	m.mu.RUnlock()
	if !ok {
		return nil, 0, ErrNotFound
	}

	var lb model.Leaderboard
	if err := json.Unmarshal(doc.data, &lb); err != nil {
		return nil, 0, fmt.Errorf("decode leaderboard %s: %w", id, err)
	}
	return &lb, doc.version, nil
}

// SaveLeaderboard implémente LeaderboardStore
func (m *Memory) SaveLeaderboard(ctx context.Context, lb *model.Leaderboard, expectedVersion int64) error {
	data, err := json.Marshal(lb)
	if err != nil {
		return fmt.Errorf("encode leaderboard %s: %w", lb.ID, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return saveDoc(m.boards, lb.ID, data, expectedVersion)
}

func saveDoc(docs map[string]memoryDoc, id string, data []byte, expectedVersion int64) error {
	current, exists := docs[id]

	if expectedVersion == 0 {
		if exists {
			return ErrVersionConflict
		}
		docs[id] = memoryDoc{data: data, version: 1}
		return nil
	}

	if !exists || current.version != expectedVersion {
		return ErrVersionConflict
	}
	docs[id] = memoryDoc{data: data, version: expectedVersion + 1}
	return nil
}
