package moderation

import (
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

const replacementChar = '#'

func TestModerator_Censor(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	mod, err := NewModerator([]string{"scam", "idiot", "crypto"}, replacementChar, log)
	req.NoError(err)

	tests := []struct {
		name     string
		input    string
		expected string
		words    []string
	}{
		{"plain word", "this offer is a scam", "this offer is a ####", []string{"scam"}},
		{"repeated words", "scam scam", "#### ####", []string{"scam", "scam"}},
		{"leet with dots", "Look at 5.c.4.m now", "Look at ####### now", []string{"scam"}},
		{"mixed case and dashes", "You I-D-I-O-T", "You #########", []string{"idiot"}},
		{"accents are kept", "Un été sans crypto", "Un été sans ######", []string{"crypto"}},
		{"nothing to censor", "See you at the meetup", "See you at the meetup", nil},
		{"empty", "", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, words := mod.Censor(tt.input)
			req.Equal(tt.expected, content)
			req.Equal(tt.words, words)
		})
	}
}

func TestModerator_Skips_Noise_Only_Words(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	// Given a dictionary polluted with punctuation
	mod, err := NewModerator([]string{"...", "", "scam"}, replacementChar, log)
	req.NoError(err)

	// Then punctuation in messages is untouched
	content, words := mod.Censor("wait...")
	req.Equal("wait...", content)
	req.Nil(words)

	content, _ = mod.Censor("scam!")
	req.Equal("####!", content)
}

func TestModerator_Empty_Dictionary(t *testing.T) {
	req := require.New(t)
	mod, err := NewModerator(nil, replacementChar, logs.GetLoggerFromLevel(slog.LevelDebug))
	req.NoError(err)

	content, words := mod.Censor("anything goes")
	req.Equal("anything goes", content)
	req.Nil(words)
}
