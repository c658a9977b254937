// Package fancy provides pretty printing utilities and styling for CLI output
package fancy

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/utpbw/order-integration-service/internal/config"
)

// Common colors for different types of elements
var (
	ColorBlue     = lipgloss.Color("39")  // Blue
	ColorCyan     = lipgloss.Color("45")  // Cyan
	ColorGray     = lipgloss.Color("250") // Light gray
	ColorWhite    = lipgloss.Color("15")  // White
	ColorDarkGray = lipgloss.Color("240") // Dark gray for branches
)

// Common styles that can be used across the application
var (
	// Style for root/main elements
	RootStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true)

	// Style for section headers
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Bold(true)

	// Style for descriptive information
	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Italic(true)

	// Style for branch connectors in trees
	BranchStyle = lipgloss.NewStyle().
			Foreground(ColorDarkGray)

	// Style for components/sections
	ComponentStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)
)

// Tree returns a new tree with common styling applied
func Tree() *tree.Tree {
	return tree.New().
		EnumeratorStyle(BranchStyle)
}

// ConfigTree renders the effective configuration as a styled tree.
// The broker password is masked; the username is shown as is.
func ConfigTree(cfg *config.Config) *tree.Tree {
	t := Tree().Root(RootStyle.Render("integrator"))

	t.Child(
		tree.New().
			Root(ComponentStyle.Render("inventory")).
			Child(
				InfoStyle.Render(fmt.Sprintf("addr: %s", cfg.Inventory.Addr)),
				InfoStyle.Render(fmt.Sprintf("call timeout: %s", cfg.Inventory.CallTimeout)),
			),
		tree.New().
			Root(ComponentStyle.Render("payment")).
			Child(
				InfoStyle.Render(fmt.Sprintf("base url: %s", cfg.Payment.BaseURL)),
				InfoStyle.Render(fmt.Sprintf("connect timeout: %s", cfg.Payment.ConnectTimeout)),
				InfoStyle.Render(fmt.Sprintf("read timeout: %s", cfg.Payment.ReadTimeout)),
			),
		tree.New().
			Root(ComponentStyle.Render("broker")).
			Child(
				InfoStyle.Render(fmt.Sprintf("host: %s:%d", cfg.Broker.Host, cfg.Broker.Port)),
				InfoStyle.Render(fmt.Sprintf("username: %s", cfg.Broker.Username)),
				InfoStyle.Render(fmt.Sprintf("password: %s", maskSecret(cfg.Broker.Password))),
				InfoStyle.Render(fmt.Sprintf("shipment queue: %s", cfg.Broker.ShipmentQueue)),
				InfoStyle.Render(fmt.Sprintf("status queue: %s", cfg.Broker.StatusQueue)),
				InfoStyle.Render(fmt.Sprintf("heartbeat: %s", cfg.Broker.Heartbeat)),
				InfoStyle.Render(fmt.Sprintf("reconnect delay: %s", cfg.Broker.ReconnectDelay)),
			),
		tree.New().
			Root(ComponentStyle.Render("intake")).
			Child(
				InfoStyle.Render(fmt.Sprintf("listen: %s", cfg.Intake.ListenAddr)),
				InfoStyle.Render(fmt.Sprintf("queue depth: %d", cfg.Intake.QueueDepth)),
			),
	)

	return t
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	return strings.Repeat("*", len(s))
}
