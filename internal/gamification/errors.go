package gamification

import (
	"fmt"
)

// ValidationError signale un événement mal formé, rejeté avant toute mutation
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// InsufficientResourceError signale une dépense au-delà du solde disponible.
// Le profil reste inchangé, le solde courant est retourné à l'appelant.
type InsufficientResourceError struct {
	Resource  string
	Requested int
	Available int
}

func (e *InsufficientResourceError) Error() string {
	return fmt.Sprintf("insufficient %s: requested %d, available %d", e.Resource, e.Requested, e.Available)
}

// DefinitionError signale une entrée de catalogue invalide. Pendant un sweep
// la définition fautive est loguée puis ignorée, les autres continuent.
type DefinitionError struct {
	DefinitionID string
	Reason       string
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("invalid definition %s: %s", e.DefinitionID, e.Reason)
}

// ConcurrencyConflictError signale un échec de sauvegarde après épuisement
// des tentatives de relecture sur conflit de version.
type ConcurrencyConflictError struct {
	Aggregate string
	ID        string
	Attempts  int
}

func (e *ConcurrencyConflictError) Error() string {
	return fmt.Sprintf("concurrent update conflict on %s %s after %d attempts", e.Aggregate, e.ID, e.Attempts)
}
