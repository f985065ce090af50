package tui

import "github.com/charmbracelet/lipgloss"

// Adaptive colors keep the summary readable on light terminals too.
var (
	ColorInk       = lipgloss.AdaptiveColor{Light: "#2E3440", Dark: "#ECEFF4"}
	ColorDim       = lipgloss.AdaptiveColor{Light: "#8A93A5", Dark: "#6C7486"}
	ColorAccent    = lipgloss.AdaptiveColor{Light: "#B4637A", Dark: "#EBBCBA"}
	ColorAccentAlt = lipgloss.AdaptiveColor{Light: "#286983", Dark: "#9CCFD8"}
	ColorSuccess   = lipgloss.AdaptiveColor{Light: "#3E7A3E", Dark: "#A6D189"}
	ColorWarn      = lipgloss.AdaptiveColor{Light: "#B5651D", Dark: "#F6C177"}
)
