// Package observer is the write-only statistics sink the orchestrator and
// effect modules report notable occurrences to.
package observer

import (
	"github.com/sporefront/colony/internal/board"
	"go.uber.org/zap"
)

// Observer receives notable occurrences. The simulation never reads from it.
type Observer interface {
	RecordDeath(ownerID int, reason board.DeathReason, killerID int)
	RecordReclaim(playerID int, src board.Source)
	RecordInfestation(playerID, victimID int)
	RecordToxinDrop(playerID, count int, src board.Source)
	RecordGrowth(playerID, count int)
	RecordPointsEarned(playerID, points int, reason string)
	RecordUpgrade(playerID int, mutation string, free bool)
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordDeath(int, board.DeathReason, int) {}
func (Nop) RecordReclaim(int, board.Source)         {}
func (Nop) RecordInfestation(int, int)              {}
func (Nop) RecordToxinDrop(int, int, board.Source)  {}
func (Nop) RecordGrowth(int, int)                   {}
func (Nop) RecordPointsEarned(int, int, string)     {}
func (Nop) RecordUpgrade(int, string, bool)         {}

// Logger writes every occurrence at debug level.
type Logger struct {
	log *zap.Logger
}

func NewLogger(log *zap.Logger) *Logger {
	return &Logger{log: log.Named("stats")}
}

func (l *Logger) RecordDeath(ownerID int, reason board.DeathReason, killerID int) {
	l.log.Debug("cell died", zap.Int("owner", ownerID), zap.Stringer("reason", reason), zap.Int("killer", killerID))
}

func (l *Logger) RecordReclaim(playerID int, src board.Source) {
	l.log.Debug("cell reclaimed", zap.Int("player", playerID), zap.Stringer("source", src))
}

func (l *Logger) RecordInfestation(playerID, victimID int) {
	l.log.Debug("cell infested", zap.Int("player", playerID), zap.Int("victim", victimID))
}

func (l *Logger) RecordToxinDrop(playerID, count int, src board.Source) {
	l.log.Debug("toxins dropped", zap.Int("player", playerID), zap.Int("count", count), zap.Stringer("source", src))
}

func (l *Logger) RecordGrowth(playerID, count int) {
	l.log.Debug("cells grown", zap.Int("player", playerID), zap.Int("count", count))
}

func (l *Logger) RecordPointsEarned(playerID, points int, reason string) {
	l.log.Debug("points earned", zap.Int("player", playerID), zap.Int("points", points), zap.String("reason", reason))
}

func (l *Logger) RecordUpgrade(playerID int, mutation string, free bool) {
	l.log.Debug("mutation upgraded", zap.Int("player", playerID), zap.String("mutation", mutation), zap.Bool("free", free))
}

// Multi fans every call out to each observer in order.
type Multi []Observer

func (m Multi) RecordDeath(ownerID int, reason board.DeathReason, killerID int) {
	for _, o := range m {
		o.RecordDeath(ownerID, reason, killerID)
	}
}

func (m Multi) RecordReclaim(playerID int, src board.Source) {
	for _, o := range m {
		o.RecordReclaim(playerID, src)
	}
}

func (m Multi) RecordInfestation(playerID, victimID int) {
	for _, o := range m {
		o.RecordInfestation(playerID, victimID)
	}
}

func (m Multi) RecordToxinDrop(playerID, count int, src board.Source) {
	for _, o := range m {
		o.RecordToxinDrop(playerID, count, src)
	}
}

func (m Multi) RecordGrowth(playerID, count int) {
	for _, o := range m {
		o.RecordGrowth(playerID, count)
	}
}

func (m Multi) RecordPointsEarned(playerID, points int, reason string) {
	for _, o := range m {
		o.RecordPointsEarned(playerID, points, reason)
	}
}

func (m Multi) RecordUpgrade(playerID int, mutation string, free bool) {
	for _, o := range m {
		o.RecordUpgrade(playerID, mutation, free)
	}
}
