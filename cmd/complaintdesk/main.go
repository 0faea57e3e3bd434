package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/hrygo/complaintdesk/internal/profile"
	"github.com/hrygo/complaintdesk/internal/version"
	"github.com/hrygo/complaintdesk/server"
)

var (
	rootCmd = &cobra.Command{
		Use:   "complaintdesk",
		Short: `AI assistance for complaint handling: classification, description enhancement, reply drafting and quick questions.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Systemd units provide their environment through EnvironmentFile.
			if !isRunningAsSystemdService() {
				_ = godotenv.Load()
			}
			logger, err := newLogger(os.Stderr, viper.GetString("log-format"), viper.GetString("log-level"))
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
		SilenceUsage: true,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
)

func loadProfile() (*profile.Profile, error) {
	instanceProfile := &profile.Profile{
		Mode:    viper.GetString("mode"),
		Addr:    viper.GetString("addr"),
		Port:    viper.GetInt("port"),
		Version: version.String(),
	}
	instanceProfile.FromEnv()
	if err := instanceProfile.Validate(); err != nil {
		return nil, err
	}
	return instanceProfile, nil
}

func runServe(ctx context.Context) error {
	instanceProfile, err := loadProfile()
	if err != nil {
		return err
	}

	a, err := newApp(ctx, instanceProfile)
	if err != nil {
		return err
	}
	defer a.Close()

	s := server.NewServer(instanceProfile, a.Service, a.Exporter.Handler())
	if err := s.Start(ctx); err != nil {
		return err
	}
	printGreetings(instanceProfile)

	// SIGTERM is what process managers such as systemd and Kubernetes send.
	sigCtx, stop := signal.NotifyContext(ctx, terminationSignals...)
	defer stop()

	g, gctx := errgroup.WithContext(sigCtx)
	g.Go(s.Serve)
	g.Go(func() error {
		<-gctx.Done()
		return s.Shutdown(context.Background())
	})
	return g.Wait()
}

func init() {
	viper.SetDefault("mode", "dev")
	viper.SetDefault("port", 28090)
	viper.SetDefault("log-format", "text")
	viper.SetDefault("log-level", "info")

	rootCmd.PersistentFlags().String("mode", "dev", `mode of server, can be "prod" or "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of server")
	rootCmd.PersistentFlags().Int("port", 28090, "port of server")
	rootCmd.PersistentFlags().String("log-format", "text", `log output format, "text" or "json"`)
	rootCmd.PersistentFlags().String("log-level", "info", "minimum log level (debug, info, warn, error)")

	for _, name := range []string{"mode", "addr", "port", "log-format", "log-level"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("complaintdesk")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(serveCmd, classifyCmd, enhanceCmd, questionsCmd, versionCmd)
}

func printGreetings(profile *profile.Profile) {
	fmt.Printf("ComplaintDesk %s started successfully!\n", profile.Version)
	if profile.IsDev() {
		fmt.Fprint(os.Stderr, "Development mode is enabled\n")
	}
	if !profile.IsAIEnabled() {
		fmt.Fprint(os.Stderr, "No AI provider key found, answers will come from local rules\n")
	}
	fmt.Printf("Mode: %s\n", profile.Mode)
	if len(profile.Addr) == 0 {
		fmt.Printf("Server running on port %d\n", profile.Port)
	} else {
		fmt.Printf("Server running on %s:%d\n", profile.Addr, profile.Port)
	}
}

// isRunningAsSystemdService detects if the process is running under systemd
func isRunningAsSystemdService() bool {
	return os.Getenv("INVOCATION_ID") != "" || os.Getenv("WATCHDOG_USEC") != ""
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
