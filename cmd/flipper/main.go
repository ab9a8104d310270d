package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"ge-flip-tracker/internal/analysis"
	"ge-flip-tracker/internal/config"
	"ge-flip-tracker/internal/database"
	"ge-flip-tracker/internal/logger"
	"ge-flip-tracker/internal/market"
	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: flipper <item name>")
		os.Exit(1)
	}
	itemName := strings.Join(os.Args[1:], " ")

	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	log.Info("Configuration loaded")

	// Open the database so the schema is migrated and ready for the host
	// application; the one-shot analysis below is read-only.
	if _, err := database.NewDatabase(cfg.Database.DSN); err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	log.Info("Database ready", zap.String("dsn", cfg.Database.DSN))

	client := market.NewClient(&cfg.Market, log)
	ctx := context.Background()

	price, err := client.LatestPrice(ctx, itemName)
	if err != nil {
		log.Fatal("No price data for item", zap.String("item", itemName))
	}
	log.Info("Current price",
		zap.String("item", price.Name),
		zap.Int64("price", price.Price),
		zap.Int64("volume", price.Volume),
	)

	points, err := client.History(ctx, price.ID)
	if err != nil {
		log.Fatal("No price history for item", zap.String("item", price.Name))
	}

	trend, err := analysis.AnalyzeTrend(points)
	if err != nil {
		log.Fatal("Not enough history to analyze", zap.Error(err))
	}
	log.Info("Trend",
		zap.String("direction", string(trend.Direction)),
		zap.Float64("change_percent", trend.ChangePercent),
		zap.Int("streak_days", trend.StreakDays),
		zap.String("recommendation", string(trend.Recommendation)),
		zap.String("reason", trend.Reason),
	)

	suggestion, err := analysis.SuggestPrices(points)
	if err != nil {
		log.Fatal("Not enough history to suggest prices", zap.Error(err))
	}
	log.Info("Suggested prices",
		zap.Float64("buy", suggestion.SuggestedBuy),
		zap.Float64("sell", suggestion.SuggestedSell),
		zap.Float64("potential_roi", suggestion.PotentialROI),
		zap.Float64("volatility", suggestion.Volatility),
		zap.String("confidence", string(suggestion.Confidence)),
		zap.String("reason", suggestion.ConfidenceReason),
	)
}
