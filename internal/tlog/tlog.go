// Package tlog provides leveled logging for the battle engine.
package tlog

import (
	"log"
	"os"
)

// Level represents how much detail a log line carries.
type Level int

const (
	Meta Level = iota
	Match
	Turn
	Action
	Card
)

var currentLevel = Match

var out = &logger{
	std: log.New(os.Stdout, "", log.Ltime),
}

type logger struct {
	std *log.Logger
}

// SetLevel sets the current logging level.
func SetLevel(level Level) {
	currentLevel = level
}

// LogMeta logs process-level messages (catalog load, deck parsing).
func LogMeta(message string, args ...interface{}) {
	if currentLevel >= Meta {
		out.std.Printf("META: "+message, args...)
	}
}

// LogMatch logs match-level messages (start, winner, draw).
func LogMatch(message string, args ...interface{}) {
	if currentLevel >= Match {
		out.std.Printf("MATCH: "+message, args...)
	}
}

// LogTurn logs turn-level messages (turn advance, energy generation).
func LogTurn(message string, args ...interface{}) {
	if currentLevel >= Turn {
		out.std.Printf("TURN: "+message, args...)
	}
}

// LogAction logs committed actions.
func LogAction(message string, args ...interface{}) {
	if currentLevel >= Action {
		out.std.Printf("ACTION: "+message, args...)
	}
}

// LogCard logs card-resolution detail (ability/attack/trainer effects).
func LogCard(message string, args ...interface{}) {
	if currentLevel >= Card {
		out.std.Printf("CARD: "+message, args...)
	}
}

// ParseLevel parses a string into a Level, defaulting to Card (most
// verbose) on unrecognized input so callers fail open toward more detail.
func ParseLevel(level string) Level {
	switch level {
	case "META":
		return Meta
	case "MATCH":
		return Match
	case "TURN":
		return Turn
	case "ACTION":
		return Action
	case "CARD":
		return Card
	default:
		return Card
	}
}
