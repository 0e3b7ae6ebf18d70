package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	// Embedded tzdata keeps zone resolution working on hosts without a
	// system zoneinfo database.
	_ "time/tzdata"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/whenbot/whenbot/bot"
	"github.com/whenbot/whenbot/internal/profile"
	"github.com/whenbot/whenbot/plugin/timeparse"
	"github.com/whenbot/whenbot/plugin/zonematch"
	"github.com/whenbot/whenbot/server"
	"github.com/whenbot/whenbot/store"
	"github.com/whenbot/whenbot/store/db"
)

const greetingBanner = `
🕒 whenbot: timezone conversions for your server
`

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	instanceProfile *profile.Profile

	rootCmd = &cobra.Command{
		Use:   "whenbot",
		Short: "A Discord bot that converts human time expressions across timezones",
		Run: func(_ *cobra.Command, _ []string) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			dbDriver, err := db.NewDBDriver(instanceProfile)
			if err != nil {
				slog.Error("failed to create db driver", slog.String("error", err.Error()))
				return
			}

			storeInstance := store.New(dbDriver, instanceProfile)
			if err := storeInstance.Migrate(ctx); err != nil {
				slog.Error("failed to migrate database", slog.String("error", err.Error()))
				return
			}

			parserService := timeparse.NewService(instanceProfile.DefaultTimezone)
			zoneService := zonematch.NewService(zonematch.NewCatalog())

			botInstance, err := bot.New(instanceProfile, storeInstance, parserService, zoneService)
			if err != nil {
				slog.Error("failed to create bot", slog.String("error", err.Error()))
				return
			}

			healthServer, err := server.NewServer(ctx, instanceProfile, storeInstance)
			if err != nil {
				slog.Error("failed to create health server", slog.String("error", err.Error()))
				return
			}

			if err := botInstance.Start(ctx); err != nil {
				slog.Error("failed to start bot", slog.String("error", err.Error()))
				return
			}

			go func() {
				if err := healthServer.Start(ctx); err != nil {
					slog.Error("health server failed", slog.String("error", err.Error()))
					cancel()
				}
			}()

			printGreetings()

			c := make(chan os.Signal, 1)
			signal.Notify(c, os.Interrupt, syscall.SIGTERM)
			go func() {
				sig := <-c
				slog.Info("received signal, shutting down", slog.String("signal", sig.String()))
				cancel()
			}()

			<-ctx.Done()

			botInstance.Stop()
			healthServer.Shutdown(context.Background())
			if err := storeInstance.Close(); err != nil {
				slog.Error("failed to close store", slog.String("error", err.Error()))
			}
		},
	}
)

func init() {
	viper.SetDefault("mode", "dev")
	viper.SetDefault("driver", "sqlite")
	viper.SetDefault("addr", "")
	viper.SetDefault("port", 8230)
	viper.SetDefault("default-timezone", "UTC")

	rootCmd.PersistentFlags().String("mode", "dev", `mode of the bot, can be "prod" or "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of the health server")
	rootCmd.PersistentFlags().Int("port", 8230, "port of the health server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", "database driver")
	rootCmd.PersistentFlags().String("dsn", "", "database source name (aka. DSN)")
	rootCmd.PersistentFlags().String("token", "", "discord bot token")
	rootCmd.PersistentFlags().String("default-timezone", "UTC", "fallback timezone for users without a stored preference")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}
	viper.SetEnvPrefix("whenbot")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func initConfig() {
	instanceProfile = &profile.Profile{
		Mode:            viper.GetString("mode"),
		Addr:            viper.GetString("addr"),
		Port:            viper.GetInt("port"),
		Data:            viper.GetString("data"),
		Driver:          viper.GetString("driver"),
		DSN:             viper.GetString("dsn"),
		Token:           viper.GetString("token"),
		DefaultTimezone: viper.GetString("default-timezone"),
		Version:         version,
	}
	if err := instanceProfile.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if instanceProfile.Token == "" {
		slog.Error("discord token is required, set WHENBOT_TOKEN or --token")
		os.Exit(1)
	}
}

func printGreetings() {
	fmt.Print(greetingBanner)
	fmt.Printf("version %s has been started on port %d\n", instanceProfile.Version, instanceProfile.Port)
}

func main() {
	cobra.OnInitialize(initConfig)
	if err := rootCmd.Execute(); err != nil {
		slog.Error("failed to run command", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
