package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"opsdash/airtable"
	"opsdash/analytics"
	"opsdash/config"
	"opsdash/database"
	"opsdash/firebase"
	"opsdash/gateway"
	"opsdash/handlers"
	"opsdash/session"
	"opsdash/utilities"
)

type rootOptions struct {
	envFile string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "opsdash",
		Short:         "Painel de operações da equipe",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "arquivo .env com as variáveis de ambiente")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newTasksCommand(opts))
	return cmd
}

// loadConfig carrega a configuração e liga o logger no nível pedido.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return nil, err
	}
	utilities.InitLogger(cfg.LogLevel)
	return cfg, nil
}

func newGateway(ctx context.Context, cfg *config.Config) (*gateway.Gateway, error) {
	if !cfg.RecordsConfigured() {
		return nil, fmt.Errorf("AIRTABLE_API_KEY e AIRTABLE_BASE_ID são obrigatórios")
	}
	client := airtable.NewClient(ctx, cfg.AirtableURL, cfg.AirtableBaseID, cfg.AirtableAPIKey)
	return gateway.New(client), nil
}

// openStorage escolhe onde a sessão fica guardada. O cleanup fecha conexões.
func openStorage(ctx context.Context, cfg *config.Config) (session.Storage, func(), error) {
	noop := func() {}
	switch cfg.SessionBackend {
	case "memory":
		return session.NewMemoryStorage(), noop, nil
	case "postgres":
		db, err := database.ConnectPostgres(ctx)
		if err != nil {
			return nil, noop, err
		}
		storage, err := database.NewPostgresStorage(ctx, db)
		if err != nil {
			db.Close()
			return nil, noop, err
		}
		return storage, closer(db), nil
	case "firestore":
		client, err := firebase.GetFirestoreClient(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			return nil, noop, err
		}
		return firebase.NewFirestoreStorage(client), func() { client.Close() }, nil
	default:
		storage, err := session.NewFileStorage(cfg.SessionFile)
		if err != nil {
			return nil, noop, err
		}
		return storage, noop, nil
	}
}

func closer(db *sql.DB) func() {
	return func() {
		if err := db.Close(); err != nil {
			utilities.LogError(err, "Erro ao fechar conexão com o banco de dados")
		}
	}
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Sobe a API HTTP do painel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			defer utilities.Sync()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			gw, err := newGateway(ctx, cfg)
			if err != nil {
				return err
			}
			storage, cleanup, err := openStorage(ctx, cfg)
			if err != nil {
				return fmt.Errorf("erro ao abrir armazenamento de sessão: %w", err)
			}
			defer cleanup()

			if cfg.TeamPassword == "" {
				utilities.LogInfo("TEAM_PASSWORD não definida: nenhum login será aceito")
			}
			store := session.NewStore(cfg.TeamPassword, storage, gw)
			if err := store.Restore(ctx); err != nil {
				utilities.LogError(err, "Sessão persistida ignorada")
			}

			app := handlers.NewApp(handlers.Deps{
				Session:  store,
				Tasks:    gw,
				Meetings: gw,
				Projects: gw,
				Sales:    analytics.NewShopify(cfg.ShopifyStoreDomain, cfg.ShopifyAccessToken, cfg.DisplayLocation),
				Ads:      analytics.NewStubAds(),
				Social:   analytics.NewStubSocial(),
				Location: cfg.DisplayLocation,
			})
			return LoadRoutes(app, cfg)
		},
	}
}
