package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"

	"opsdash/utilities"
)

// ConnectPostgres abre a conexão a partir das variáveis DB_*.
func ConnectPostgres(ctx context.Context) (*sql.DB, error) {
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")
	sslmode := os.Getenv("DB_SSLMODE")
	if sslmode == "" {
		sslmode = "disable"
	}

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		utilities.LogError(err, "Erro ao abrir conexão com o banco de dados")
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		utilities.LogError(err, "Erro ao conectar ao banco de dados")
		return nil, err
	}

	utilities.LogInfo("Conectado ao PostgreSQL com sucesso!")
	return db, nil
}
