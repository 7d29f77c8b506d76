// Command setupsync mirrors racing-simulator car setups across tracks.
//
// It watches a setups folder laid out as <root>/<car>/<track>/<setup>
// and reproduces every setup change under one track folder across all
// other track folders for the same car. With --init it instead seeds an
// existing tree once, renaming setups with a track prefix and fanning
// them out.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pitwall/setupsync/internal/logging"
	"github.com/pitwall/setupsync/internal/mirror"
	"github.com/pitwall/setupsync/internal/ui"
	"github.com/pitwall/setupsync/internal/watch"
)

var rootCmd = &cobra.Command{
	Use:   "setupsync [flags] <setups-path>",
	Short: "Mirror car setup files across every track folder",
	Long: `setupsync watches a simulator setups folder for changes and reproduces
those changes across all tracks, so a setup saved at one track is
immediately available at every other track for the same car.

The watched layout is <setups-path>/<car>/<track>/<setup file>, with a
fixed set of known track folder names. Setup files are treated as
opaque bytes and never parsed.

Run with --init once on an existing tree before watching: it renames
every setup to carry its track name (avoiding collisions) and copies it
to every other track.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringP("verbosity", "v", "info", "log verbosity: debug, info, warn or error")
	rootCmd.Flags().BoolP("init", "i", false, "seed existing setups across all tracks instead of watching")
	rootCmd.Flags().Duration("drain-delay", watch.DefaultDrainDelay, "how long to wait after a sync before discarding self-caused events")
	rootCmd.Flags().String("log-file", "", "write logs to this rotating file instead of stderr")

	viper.SetEnvPrefix("SETUPSYNC")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.BindPFlag("verbosity", rootCmd.Flags().Lookup("verbosity"))
	viper.BindPFlag("init", rootCmd.Flags().Lookup("init"))
	viper.BindPFlag("drain-delay", rootCmd.Flags().Lookup("drain-delay"))
	viper.BindPFlag("log-file", rootCmd.Flags().Lookup("log-file"))

	viper.SetConfigName("setupsync")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
}

func run(cmd *cobra.Command, args []string) error {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	root, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("failed to resolve setups path: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("setups path %s is not accessible: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("setups path %s is not a directory", root)
	}

	logger, err := logging.New(viper.GetString("verbosity"), viper.GetString("log-file"))
	if err != nil {
		return err
	}

	if viper.GetBool("init") {
		fmt.Printf("%s Seeding existing setups under %s\n", ui.RenderAccent("»"), root)
		start := time.Now()
		if err := mirror.NewEngine(logger).Seed(root); err != nil {
			return err
		}
		fmt.Printf("%s Seeding complete in %v\n", ui.RenderPass("✓"), time.Since(start).Round(time.Millisecond))
		return nil
	}

	cfg := watch.DefaultConfig()
	cfg.Logger = logger
	cfg.DrainDelay = viper.GetDuration("drain-delay")

	loop, err := watch.NewLoop(root, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("%s Watching %s\n", ui.RenderAccent("»"), root)
	fmt.Println("Press Ctrl+C to stop")

	if err := loop.Run(ctx); err != nil {
		return err
	}
	fmt.Printf("%s Stopped\n", ui.RenderPass("✓"))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", ui.RenderError("✗"), err)
		os.Exit(1)
	}
}
