package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for Agenticum.
func PrintBanner() {
	p := termenv.ColorProfile()
	// Indigo to pink gradient, top to bottom.
	s1 := termenv.String("     _   ___ ___ _  _ _____ ___ ___ _   _ __  __ ").Foreground(p.Color("#818cf8"))
	s2 := termenv.String("    /_\\ / __| __| \\| |_   _|_ _/ __| | | |  \\/  |").Foreground(p.Color("#a78bfa"))
	s3 := termenv.String("   / _ \\ (_ | _|| .` | | |  | | (__| |_| | |\\/| |").Foreground(p.Color("#e879f9"))
	s4 := termenv.String("  /_/ \\_\\___|___|_|\\_| |_| |___\\___|\\___/|_|  |_|").Foreground(p.Color("#f472b6"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println()
}

// StatusDot renders a session or node status with a colored marker.
func StatusDot(status string) string {
	p := termenv.ColorProfile()
	var color string
	switch status {
	case "completed", "success":
		color = "#34d399"
	case "running", "initializing":
		color = "#60a5fa"
	case "awaiting_approval", "planning":
		color = "#fbbf24"
	case "error", "failed":
		color = "#f87171"
	default:
		color = "#9ca3af"
	}
	return fmt.Sprintf("%s %s", termenv.String("●").Foreground(p.Color(color)), status)
}
