// Package catalog charge les définitions d'achievements et de classements
// depuis des fichiers YAML versionnés, les valide au chargement (opérateur et
// valeur cohérents, chemins de champs connus, topologie complète) et les sert
// compilées au moteur. Une définition mal formée échoue ici, jamais pendant
// une évaluation.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	model "github.com/linoymalakkaran/play-learn-spark-sub006/internal/models"
)

// Catalog sert les définitions valides, indexées par id
type Catalog struct {
	achievements []model.AchievementDefinition
	achByID      map[string]*model.AchievementDefinition
	boards       []model.LeaderboardDefinition
	boardByID    map[string]*model.LeaderboardDefinition
}

// New construit un catalogue vide
func New() *Catalog {
	return &Catalog{
		achByID:   make(map[string]*model.AchievementDefinition),
		boardByID: make(map[string]*model.LeaderboardDefinition),
	}
}

// LoadDir charge tous les fichiers .yaml/.yml d'un répertoire. Les
// définitions invalides sont retournées comme erreurs et ignorées : une
// mauvaise entrée ne bloque jamais le reste du catalogue.
func LoadDir(dir string) (*Catalog, []error) {
	cat := New()
	var loadErrs []error

	entries, err := os.ReadDir(dir)
	if err != nil {
		return cat, []error{fmt.Errorf("could not read catalog dir %s: %w", dir, err)}
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)

	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			loadErrs = append(loadErrs, fmt.Errorf("could not read catalog file %s: %w", file, err))
			continue
		}
		loadErrs = append(loadErrs, cat.LoadBytes(data)...)
	}
	return cat, loadErrs
}

// Achievements retourne les définitions d'achievements valides, dans l'ordre
// de chargement
func (c *Catalog) Achievements() []model.AchievementDefinition {
	return c.achievements
}

// Achievement retourne une définition par id
func (c *Catalog) Achievement(id string) (*model.AchievementDefinition, bool) {
	def, ok := c.achByID[id]
	return def, ok
}

// Leaderboards retourne les définitions de classements valides
func (c *Catalog) Leaderboards() []model.LeaderboardDefinition {
	return c.boards
}

// Leaderboard retourne une définition de classement par id
func (c *Catalog) Leaderboard(id string) (*model.LeaderboardDefinition, bool) {
	def, ok := c.boardByID[id]
	return def, ok
}

func (c *Catalog) addAchievement(def model.AchievementDefinition) {
	c.achievements = append(c.achievements, def)
	c.achByID[def.ID] = &c.achievements[len(c.achievements)-1]
	c.reindex()
}

func (c *Catalog) addLeaderboard(def model.LeaderboardDefinition) {
	c.boards = append(c.boards, def)
	c.boardByID[def.ID] = &c.boards[len(c.boards)-1]
	c.reindexBoards()
}

// reindex répare les pointeurs après un append qui a pu réallouer la slice
func (c *Catalog) reindex() {
	for i := range c.achievements {
		c.achByID[c.achievements[i].ID] = &c.achievements[i]
	}
}

func (c *Catalog) reindexBoards() {
	for i := range c.boards {
		c.boardByID[c.boards[i].ID] = &c.boards[i]
	}
}
