// Package session controla quem está usando o painel.
//
// Um Store é criado uma vez no início do processo e injetado em quem precisa;
// não existe sessão global de pacote.
package session

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"sync"

	"opsdash/models"
	"opsdash/utilities"
)

type State int

const (
	StateLoading State = iota
	StateUnauthenticated
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Chaves persistidas.
const (
	keyAuth   = "auth"
	keyUser   = "user"
	keyRole   = "role"
	keyUserID = "user_id"
	keyDock   = "dock"
)

// DockItems são os atalhos que podem aparecer no dock compacto, na ordem padrão.
var DockItems = []string{"dashboard", "projects", "meetings", "tasks", "calendar", "orbit"}

var (
	ErrNotAuthenticated = errors.New("sessão não autenticada")
	ErrRoleSyncFailed   = errors.New("papel salvo localmente, mas não sincronizado com o backend")
	ErrUnknownDockItem  = errors.New("atalho desconhecido")
)

// UserDirectory é a tabela Users do backend. *gateway.Gateway satisfaz.
type UserDirectory interface {
	FindUserByName(ctx context.Context, name string) (*models.User, error)
	CreateUser(ctx context.Context, name, role string) (models.User, error)
	UpdateUserRole(ctx context.Context, id, role string) error
}

// Identity é uma cópia do estado da sessão.
type Identity struct {
	State       State  `json:"-"`
	DisplayName string `json:"user,omitempty"`
	Role        string `json:"role"`
	UserID      string `json:"userId,omitempty"`
}

type Store struct {
	mu         sync.RWMutex
	state      State
	name       string
	role       string
	userID     string
	dock       []string
	passphrase string
	storage    Storage
	users      UserDirectory
}

// NewStore começa em loading; chame Restore antes de servir requisições.
// users pode ser nil (sem sincronização com o backend).
func NewStore(passphrase string, storage Storage, users UserDirectory) *Store {
	return &Store{
		state:      StateLoading,
		passphrase: passphrase,
		storage:    storage,
		users:      users,
		dock:       append([]string(nil), DockItems...),
	}
}

// Restore lê a sessão persistida e sai de loading.
func (s *Store) Restore(ctx context.Context) error {
	values := map[string]string{}
	for _, k := range []string{keyAuth, keyUser, keyRole, keyUserID, keyDock} {
		v, ok, err := s.storage.Get(ctx, k)
		if err != nil {
			s.mu.Lock()
			s.state = StateUnauthenticated
			s.mu.Unlock()
			return fmt.Errorf("erro ao ler sessão persistida: %w", err)
		}
		if ok {
			values[k] = v
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if dock, ok := values[keyDock]; ok {
		if items, err := parseDock(dock); err == nil {
			s.dock = items
		}
	}
	if values[keyAuth] != "true" {
		s.state = StateUnauthenticated
		return nil
	}
	s.state = StateAuthenticated
	s.name = values[keyUser]
	s.role = values[keyRole]
	s.userID = values[keyUserID]
	utilities.LogInfo("Sessão restaurada para %s", s.name)
	return nil
}

// Login aceita só a senha compartilhada e um nome da lista da equipe.
// A sincronização com a tabela Users é best-effort: se falhar, o login vale
// mesmo assim e o papel fica sem sincronizar.
func (s *Store) Login(ctx context.Context, name, passphrase string) bool {
	if s.passphrase == "" || subtle.ConstantTimeCompare([]byte(passphrase), []byte(s.passphrase)) != 1 {
		utilities.LogDebug("Login recusado: senha incorreta")
		return false
	}
	if !IsAllowed(name) {
		utilities.LogDebug("Login recusado: nome fora da lista")
		return false
	}

	display := DisplayName(name)

	s.mu.Lock()
	s.state = StateAuthenticated
	s.name = display
	s.role = ""
	s.userID = ""
	s.mu.Unlock()

	s.persist(ctx, map[string]string{keyAuth: "true", keyUser: display})
	s.storageDelete(ctx, keyRole, keyUserID)
	utilities.LogInfo("Login realizado: %s", display)

	s.syncUser(ctx, display)
	return true
}

func (s *Store) syncUser(ctx context.Context, display string) {
	if s.users == nil {
		return
	}
	user, err := s.users.FindUserByName(ctx, display)
	if err != nil {
		utilities.LogWarn(err, "Falha ao sincronizar usuário com o backend")
		return
	}
	if user == nil {
		created, err := s.users.CreateUser(ctx, display, "")
		if err != nil {
			utilities.LogWarn(err, "Falha ao criar usuário no backend")
			return
		}
		user = &created
	}

	s.mu.Lock()
	if s.state != StateAuthenticated || s.name != display {
		// logout ou outro login aconteceu durante a sincronização
		s.mu.Unlock()
		return
	}
	s.role = user.Role
	s.userID = user.ID
	s.mu.Unlock()

	s.persist(ctx, map[string]string{keyRole: user.Role, keyUserID: user.ID})
}

// UpdateRole grava o papel localmente na hora e depois tenta o backend.
// O erro do backend é devolvido como ErrRoleSyncFailed; o estado local fica.
func (s *Store) UpdateRole(ctx context.Context, role string) error {
	s.mu.Lock()
	if s.state != StateAuthenticated {
		s.mu.Unlock()
		return ErrNotAuthenticated
	}
	s.role = role
	userID := s.userID
	s.mu.Unlock()

	s.persist(ctx, map[string]string{keyRole: role})

	if userID == "" || s.users == nil {
		return nil
	}
	if err := s.users.UpdateUserRole(ctx, userID, role); err != nil {
		utilities.LogError(err, "Erro ao sincronizar papel do usuário")
		return fmt.Errorf("%w: %v", ErrRoleSyncFailed, err)
	}
	return nil
}

// Logout limpa tudo; chamar de novo não tem efeito.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.state = StateUnauthenticated
	s.name = ""
	s.role = ""
	s.userID = ""
	s.mu.Unlock()

	if err := s.storage.Delete(ctx, keyAuth, keyUser, keyRole, keyUserID); err != nil {
		utilities.LogError(err, "Erro ao limpar sessão persistida")
		return err
	}
	return nil
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) IsAuthenticated() bool {
	return s.State() == StateAuthenticated
}

func (s *Store) Identity() Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Identity{State: s.state, DisplayName: s.name, Role: s.role, UserID: s.userID}
}

// DisplayName é o nome de quem está logado, "" se ninguém.
func (s *Store) DisplayName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

// Dock devolve os atalhos escolhidos para o dock compacto.
func (s *Store) Dock() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.dock...)
}

// SetDock valida e persiste a preferência do dock.
func (s *Store) SetDock(ctx context.Context, items []string) error {
	normalized, err := parseDock(strings.Join(items, ","))
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.dock = normalized
	s.mu.Unlock()
	return s.storage.Set(ctx, keyDock, strings.Join(normalized, ","))
}

func parseDock(raw string) ([]string, error) {
	items := []string{}
	seen := map[string]bool{}
	for _, item := range strings.Split(raw, ",") {
		item = strings.ToLower(strings.TrimSpace(item))
		if item == "" || seen[item] {
			continue
		}
		if !isDockItem(item) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownDockItem, item)
		}
		seen[item] = true
		items = append(items, item)
	}
	return items, nil
}

func isDockItem(item string) bool {
	for _, d := range DockItems {
		if d == item {
			return true
		}
	}
	return false
}

func (s *Store) persist(ctx context.Context, values map[string]string) {
	for k, v := range values {
		if err := s.storage.Set(ctx, k, v); err != nil {
			utilities.LogError(err, fmt.Sprintf("Erro ao persistir chave de sessão %s", k))
		}
	}
}

func (s *Store) storageDelete(ctx context.Context, keys ...string) {
	if err := s.storage.Delete(ctx, keys...); err != nil {
		utilities.LogError(err, "Erro ao remover chaves de sessão")
	}
}
