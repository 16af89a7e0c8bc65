package memory

import (
	"context"

	"github.com/jhoicas/apex-am/internal/domain/repository"
)

// TxRunner ejecuta fn sobre los repositorios del store. Sin rollback real:
// los casos de uso validan antes de escribir.
type TxRunner struct{ s *Store }

// NewTxRunner construye el runner.
func NewTxRunner(s *Store) *TxRunner { return &TxRunner{s: s} }

func (r *TxRunner) RunInTx(ctx context.Context, fn func(users repository.UserRepository, accountants repository.AccountantRepository) error) error {
	return fn(NewUserRepository(r.s), NewAccountantRepository(r.s))
}
