package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/SO-Ctrix/Node-Packer/internal/api"
	"github.com/SO-Ctrix/Node-Packer/internal/auth"
	"github.com/SO-Ctrix/Node-Packer/internal/config"
	"github.com/SO-Ctrix/Node-Packer/internal/models"
	"github.com/SO-Ctrix/Node-Packer/internal/store"
)

func main() {
	var cfgFile string
	v := config.New()

	load := func() *config.Config {
		cfg, err := config.Load(v, cfgFile)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		return cfg
	}

	// open connects and migrates; every subcommand needs the schema.
	open := func(cfg *config.Config) *sqlx.DB {
		db, err := store.Open(cfg.DBDriver, cfg.DBDSN)
		if err != nil {
			log.Fatalf("failed to open db: %v", err)
		}
		if err := store.Migrate(context.Background(), db); err != nil {
			log.Fatalf("failed to migrate db: %v", err)
		}
		return db
	}

	newStore := func(cfg *config.Config, db *sqlx.DB) *store.Store {
		loc, err := cfg.Location()
		if err != nil {
			log.Fatalf("invalid timezone: %v", err)
		}
		st := store.New(db)
		st.Strict = cfg.Strict
		st.Location = loc
		return st
	}

	var rootCmd = &cobra.Command{
		Use:   "server",
		Short: "package.json record service",
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")

	var serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := load()
			db := open(cfg)
			defer db.Close()

			if cfg.SigningKey == "" {
				log.Println("no signing key configured, write routes are open")
			}
			r := api.SetupRouter(newStore(cfg, db), []byte(cfg.SigningKey))

			log.Printf("starting server on %s (%s %s)", cfg.Addr, cfg.DBDriver, cfg.DBDSN)
			if err := r.Run(cfg.Addr); err != nil {
				log.Fatalf("server stopped: %v", err)
			}
		},
	}
	serveCmd.Flags().String("addr", "", "listen address")
	if err := v.BindPFlag("addr", serveCmd.Flags().Lookup("addr")); err != nil {
		log.Fatalf("bind flag: %v", err)
	}

	var migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := load()
			db := open(cfg)
			db.Close()
			log.Printf("migrated %s", cfg.DBDSN)
		},
	}

	var statsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Print record statistics as JSON",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := load()
			db := open(cfg)
			defer db.Close()

			stats, err := newStore(cfg, db).Stats(cmd.Context())
			if err != nil {
				log.Fatalf("failed to fetch stats: %v", err)
			}
			out, err := models.EncodeJSON(stats)
			if err != nil {
				log.Fatalf("failed to encode stats: %v", err)
			}
			fmt.Println(string(out))
		},
	}

	var tokenCmd = &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the write routes",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := load()
			if cfg.SigningKey == "" {
				log.Fatalf("auth.signing_key is not set")
			}
			subject, _ := cmd.Flags().GetString("subject")
			ttl, _ := cmd.Flags().GetDuration("ttl")
			tok, err := auth.NewToken([]byte(cfg.SigningKey), subject, []string{auth.ScopeWrite}, ttl)
			if err != nil {
				log.Fatalf("failed to sign token: %v", err)
			}
			fmt.Println(tok)
		},
	}
	tokenCmd.Flags().String("subject", "cli", "token subject")
	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "token lifetime")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(tokenCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
