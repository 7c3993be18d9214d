package firebase

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"opsdash/utilities"
)

// InitializeFirebase cria o app a partir do arquivo de credenciais da conta de serviço.
func InitializeFirebase(ctx context.Context, credentialsPath string) (*firebase.App, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("FIREBASE_CREDENTIALS_PATH não está definido nas variáveis de ambiente")
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("erro ao inicializar Firebase: %w", err)
	}

	utilities.LogInfo("Firebase inicializado com sucesso!")
	return app, nil
}

// GetFirestoreClient devolve o cliente do Firestore do app.
func GetFirestoreClient(ctx context.Context, credentialsPath string) (*firestore.Client, error) {
	app, err := InitializeFirebase(ctx, credentialsPath)
	if err != nil {
		return nil, err
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao obter cliente do Firestore: %w", err)
	}
	return client, nil
}
