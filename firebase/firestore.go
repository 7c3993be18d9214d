package firebase

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// SessionCollection é a coleção onde cada chave de sessão vira um documento.
const SessionCollection = "session"

type sessionDoc struct {
	Value string `firestore:"value"`
}

// FirestoreStorage satisfaz session.Storage usando documentos do Firestore.
type FirestoreStorage struct {
	client     *firestore.Client
	collection string
}

func NewFirestoreStorage(client *firestore.Client) *FirestoreStorage {
	return &FirestoreStorage{client: client, collection: SessionCollection}
}

func (s *FirestoreStorage) Get(ctx context.Context, key string) (string, bool, error) {
	snap, err := s.client.Collection(s.collection).Doc(key).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("erro ao ler %s do Firestore: %w", key, err)
	}
	var doc sessionDoc
	if err := snap.DataTo(&doc); err != nil {
		return "", false, fmt.Errorf("erro ao decodificar %s: %w", key, err)
	}
	return doc.Value, true, nil
}

func (s *FirestoreStorage) Set(ctx context.Context, key, value string) error {
	if _, err := s.client.Collection(s.collection).Doc(key).Set(ctx, sessionDoc{Value: value}); err != nil {
		return fmt.Errorf("erro ao gravar %s no Firestore: %w", key, err)
	}
	return nil
}

// Delete remove as chaves num único batch.
func (s *FirestoreStorage) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	batch := s.client.Batch()
	for _, k := range keys {
		batch.Delete(s.client.Collection(s.collection).Doc(k))
	}
	if _, err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("erro ao remover chaves de sessão do Firestore: %w", err)
	}
	return nil
}
