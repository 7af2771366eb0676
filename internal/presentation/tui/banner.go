package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for Vaya.
func PrintBanner() {
	p := termenv.ColorProfile()
	// Warm sunset gradient (amber to rose)
	s1 := termenv.String(" __      __                ").Foreground(p.Color("#fbbf24"))
	s2 := termenv.String(" \\ \\    / /_ _ _   _  __ _ ").Foreground(p.Color("#fb923c"))
	s3 := termenv.String("  \\ \\  / / _` | | | |/ _` |").Foreground(p.Color("#f97316"))
	s4 := termenv.String("   \\ \\/ / (_| | |_| | (_| |").Foreground(p.Color("#f4511e"))
	s5 := termenv.String("    \\__/ \\__,_|\\__, |\\__,_|").Foreground(p.Color("#f43f5e"))
	s6 := termenv.String("               |___/       ").Foreground(p.Color("#fb7185"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println(s6)
	fmt.Println()
}
