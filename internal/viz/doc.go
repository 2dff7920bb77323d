// Package viz renders results for the terminal: lipgloss styles for reports
// and asciigraph charts for time series and sweep curves.
package viz
