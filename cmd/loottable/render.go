package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/james-harris851b/Loot-Table-FHE/internal/codec"
	"github.com/james-harris851b/Loot-Table-FHE/internal/loot"
	"github.com/james-harris851b/Loot-Table-FHE/internal/txstatus"
)

var tierStyles = map[loot.Tier]lipgloss.Style{
	loot.TierCommon:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(loot.TierColor(loot.TierCommon))),
	loot.TierRare:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(loot.TierColor(loot.TierRare))),
	loot.TierLegendary: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(loot.TierColor(loot.TierLegendary))),
}

func tierBadge(t loot.Tier) string {
	return tierStyles[t].Render(strings.ToUpper(t.String()))
}

// shortOwner renders an address as 0x1234…abcd.
func shortOwner(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}

// tokenPreview truncates an encoded drop rate for table display. The full
// token only ever surfaces through the reveal flow.
func tokenPreview(t codec.Token) string {
	s := string(t)
	if len(s) <= 16 {
		return s
	}
	return s[:16] + "…"
}

func printStatus(state txstatus.State, message string) {
	if state == txstatus.StateIdle {
		return
	}
	fmt.Printf("[%s] %s\n", state, message)
}
