package observer

import "github.com/sporefront/colony/internal/board"

// PlayerStats are the running totals for one player.
type PlayerStats struct {
	Deaths        map[board.DeathReason]int
	Kills         int
	Reclaims      int
	Infestations  int
	ToxinsDropped int
	Grown         int
	PointsEarned  int
	Upgrades      int
	FreeUpgrades  int
}

// Tally counts occurrences per player.
type Tally struct {
	players map[int]*PlayerStats
}

func NewTally() *Tally {
	return &Tally{players: make(map[int]*PlayerStats)}
}

func (t *Tally) stats(id int) *PlayerStats {
	s := t.players[id]
	if s == nil {
		s = &PlayerStats{Deaths: make(map[board.DeathReason]int)}
		t.players[id] = s
	}
	return s
}

// Player returns a copy of one player's totals.
func (t *Tally) Player(id int) PlayerStats {
	s := *t.stats(id)
	deaths := make(map[board.DeathReason]int, len(s.Deaths))
	for k, v := range s.Deaths {
		deaths[k] = v
	}
	s.Deaths = deaths
	return s
}

func (t *Tally) RecordDeath(ownerID int, reason board.DeathReason, killerID int) {
	t.stats(ownerID).Deaths[reason]++
	if killerID != board.NoPlayer {
		t.stats(killerID).Kills++
	}
}

func (t *Tally) RecordReclaim(playerID int, _ board.Source) { t.stats(playerID).Reclaims++ }

func (t *Tally) RecordInfestation(playerID, _ int) { t.stats(playerID).Infestations++ }

func (t *Tally) RecordToxinDrop(playerID, count int, _ board.Source) {
	t.stats(playerID).ToxinsDropped += count
}

func (t *Tally) RecordGrowth(playerID, count int) { t.stats(playerID).Grown += count }

func (t *Tally) RecordPointsEarned(playerID, points int, _ string) {
	t.stats(playerID).PointsEarned += points
}

func (t *Tally) RecordUpgrade(playerID int, _ string, free bool) {
	s := t.stats(playerID)
	s.Upgrades++
	if free {
		s.FreeUpgrades++
	}
}
