package report

import (
	"fmt"

	"github.com/bnema/crosspost/internal/application"
	"github.com/bnema/crosspost/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderResults formats the outcome of a posting run.
func RenderResults(results []domain.PostResult) (string, error) {
	return run(func(s styles) string { return resultsView(results, s) })
}

// RenderSetup formats the outcome of the credential setup.
func RenderSetup(results []application.SetupResult) (string, error) {
	return run(func(s styles) string { return setupView(results, s) })
}

type AccountsOptions struct {
	ConfigPath string
}

// RenderAccounts lists every configured account, enabled or not.
func RenderAccounts(cfg domain.Config, opts AccountsOptions) (string, error) {
	return run(func(s styles) string { return accountsView(cfg, opts, s) })
}

func resultsView(results []domain.PostResult, s styles) string {
	lines := []string{
		s.title.Render("Crosspost"),
		s.header.Render(fmt.Sprintf("accounts: %d", len(results))),
	}

	if len(results) == 0 {
		lines = append(lines, s.empty.Render("No enabled accounts to post to."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	posted := 0
	for _, result := range results {
		if result.Succeeded() {
			posted++
		}
		lines = append(lines, resultLine(result, s))
	}

	summary := fmt.Sprintf("%d posted, %d failed", posted, len(results)-posted)
	if posted == len(results) {
		lines = append(lines, s.section.Render(s.success.Render(summary)))
	} else {
		lines = append(lines, s.section.Render(s.failure.Render(summary)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func resultLine(result domain.PostResult, s styles) string {
	head := resultHead(result, s)

	switch {
	case result.Succeeded() && result.URL != "":
		return lipgloss.JoinVertical(lipgloss.Left, head, "  "+s.link.Render(result.URL))
	case result.Kind == domain.FailureUserCancelled:
		return lipgloss.JoinVertical(lipgloss.Left, head, "  "+s.warning.Render(result.Detail))
	case !result.Succeeded():
		return lipgloss.JoinVertical(lipgloss.Left, head, "  "+s.detail.Render(result.Detail))
	default:
		return head
	}
}

func resultHead(result domain.PostResult, s styles) string {
	marker := s.success.Render("✓")
	if !result.Succeeded() {
		marker = s.failure.Render("✗")
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		marker,
		" ",
		s.account.Render(accountTitle(result.Platform, result.AccountName)),
	)
}

func setupView(results []application.SetupResult, s styles) string {
	lines := []string{s.title.Render("Credential setup")}
	if len(results) == 0 {
		lines = append(lines, s.empty.Render("No accounts configured."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, result := range results {
		action := s.detail
		switch result.Action {
		case application.SetupStored:
			action = s.success
		case application.SetupFailed:
			action = s.failure
		case application.SetupSkipped:
			action = s.warning
		}

		line := lipgloss.JoinHorizontal(
			lipgloss.Top,
			action.Render(fmt.Sprintf("%-7s", result.Action)),
			" ",
			s.account.Render(accountTitle(result.Platform, result.AccountName)),
		)
		if result.Detail != "" {
			line += " " + s.header.Render(result.Detail)
		}
		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func accountsView(cfg domain.Config, opts AccountsOptions, s styles) string {
	lines := []string{s.title.Render("Configured accounts")}
	if opts.ConfigPath != "" {
		lines = append(lines, s.header.Render("config: "+opts.ConfigPath))
	}
	lines = append(lines, s.header.Render(fmt.Sprintf("keychain service: %s  backend: %s", cfg.KeychainService, cfg.SecretBackend)))

	if len(cfg.Platforms) == 0 {
		lines = append(lines, s.empty.Render("No platforms configured."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, pc := range cfg.Platforms {
		lines = append(lines, s.section.Render(platformBlock(pc, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func platformBlock(pc domain.PlatformConfig, s styles) string {
	state := s.success.Render("enabled")
	if !pc.Enabled {
		state = s.disabled.Render("disabled")
	}

	parts := []string{s.title.Render(pc.Platform.DisplayName()) + " " + state}
	if len(pc.Accounts) == 0 {
		parts = append(parts, "  "+s.empty.Render("no accounts"))
	}
	for _, account := range pc.Accounts {
		line := fmt.Sprintf("  %s  %s  key %s", account.Name, account.Identifier, account.KeychainKey)
		if account.ServiceURL != "" {
			line += "  via " + account.ServiceURL
		}
		style := s.detail
		if !pc.Enabled {
			style = s.disabled
		}
		parts = append(parts, style.Render(line))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func accountTitle(platform domain.Platform, name string) string {
	return fmt.Sprintf("%s (%s)", platform.DisplayName(), name)
}
