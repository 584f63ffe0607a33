package cli

import (
	"fmt"
	"os"

	"github.com/sashimi-app/sashimi/internal/budget"
	"github.com/sashimi-app/sashimi/internal/config"
	"github.com/sashimi-app/sashimi/internal/credentials"
)

// RunStatus displays the current configuration status with styled output.
func RunStatus(cfg *config.Config) {
	cfgPath := config.ConfigPath()

	fmt.Println()
	fmt.Println(TitleStyle.Render(fmt.Sprintf("  %s sashimi Status", Logo)))
	fmt.Println()

	fmt.Printf("  %-12s %s  %s\n", "Config", StatusBadge(fileExists(cfgPath)), DimStyle.Render(cfgPath))
	fmt.Printf("  %-12s %s  %s\n", "Env file", StatusBadge(fileExists(config.EnvPath())), DimStyle.Render(config.EnvPath()))
	fmt.Println()

	fmt.Println("  " + BoldStyle.Render("Credentials"))
	creds, err := credentials.Load()
	if err != nil {
		fmt.Printf("    %s  %s\n", StatusBadge(false), DimStyle.Render(err.Error()))
	} else {
		fields := []struct {
			name  string
			value string
		}{
			{"API key", creds.APIKey},
			{"API secret", creds.APISecret},
			{"Access token", creds.AccessToken},
			{"Access secret", creds.AccessTokenSecret},
		}
		for _, f := range fields {
			fmt.Printf("    %s  %s\n", StatusBadge(f.value != ""), f.name)
		}
	}
	fmt.Println()

	fmt.Println("  " + BoldStyle.Render("Auto-reply"))
	fmt.Printf("    %-10s %s\n", "Mode", cfg.AutoReply.Mode)
	fmt.Printf("    %-10s every %d min\n", "Interval", cfg.AutoReply.IntervalMinutes)
	if cfg.AutoReply.Mode == "ai" {
		fmt.Printf("    %s  OpenAI key (%s)\n", StatusBadge(cfg.OpenAI.APIKey != ""), cfg.OpenAI.Model)
	}
	fmt.Println()

	fmt.Println("  " + BoldStyle.Render("Token budget"))
	store := budget.NewStore(config.TokensPath(), cfg.Budget.MonthlyLimit)
	if left, err := store.Get(); err != nil {
		fmt.Printf("    %s  %s\n", StatusBadge(false), DimStyle.Render(err.Error()))
	} else {
		fmt.Printf("    %d of %d left this month\n", left, store.Limit())
	}
	fmt.Println()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
