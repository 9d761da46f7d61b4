package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "arbor",
	Short: "Arbor is a compiled decision-graph engine for conversational flows",
	Long: `Arbor runs conversational flows as compiled graphs of handler nodes.
The bundled flows answer FAQ questions with a lookup-then-fallback
strategy and tutor practice questions with a bounded hint budget.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Optional .env for local development; env vars win over flag defaults.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("faq-corpus", "", "Path to a YAML FAQ corpus (question/answer entries)")
	rootCmd.PersistentFlags().String("redis-addr", os.Getenv("ARBOR_REDIS_ADDR"), "Redis address for session persistence (empty for in-memory)")
	rootCmd.PersistentFlags().String("redis-password", os.Getenv("ARBOR_REDIS_PASSWORD"), "Redis password")
	rootCmd.PersistentFlags().Int("redis-db", 0, "Redis database index")
	rootCmd.PersistentFlags().Duration("session-ttl", 0, "Session expiration in the store (0 for none)")
}
