package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/arialabs/aria/internal/models"
)

// UI styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	replyStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(1, 2).
			Width(80)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	enabledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))

	disabledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))
)

// printResponse renders a processed response to the terminal.
func printResponse(resp models.ProcessResponse) {
	if !resp.Success && resp.Response == "" {
		fmt.Println(errorStyle.Render("❌ " + resp.Error))
		return
	}

	fmt.Println(replyStyle.Render(resp.Response))

	if !resp.Success && resp.Error != "" {
		fmt.Println(errorStyle.Render("⚠️  " + resp.Error))
	}

	var meta []string
	if len(resp.ToolsUsed) > 0 {
		meta = append(meta, "sources: "+strings.Join(resp.ToolsUsed, ", "))
	}
	if resp.Cost != nil && resp.Cost.Total > 0 {
		meta = append(meta, fmt.Sprintf("tokens: %d", resp.Cost.Total))
	}
	if len(meta) > 0 {
		fmt.Println(metaStyle.Render("  " + strings.Join(meta, " · ")))
	}

	if resp.Validation != nil && len(resp.Validation.MissingMetrics) > 0 {
		fmt.Println(warnStyle.Render(fmt.Sprintf("  ⚠️  coverage %.0f%%, missing: %s",
			resp.Validation.CoveragePercent,
			strings.Join(resp.Validation.MissingMetrics, ", "))))
	}
}
