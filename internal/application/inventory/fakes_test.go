package inventory_test

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	"github.com/jhoicas/stock-tracker/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// memStore: almacén en memoria con transacciones todo-o-nada
// ──────────────────────────────────────────────────────────────────────────────

type memState struct {
	items   map[int64]entity.Item
	history []entity.StockHistoryEntry
	nextID  int64
}

func (s memState) clone() memState {
	c := memState{items: make(map[int64]entity.Item, len(s.items)), nextID: s.nextID}
	for k, v := range s.items {
		c.items[k] = v
	}
	c.history = append([]entity.StockHistoryEntry(nil), s.history...)
	return c
}

// memStore implementa TxRunner: cada Run trabaja sobre una copia que solo se publica si fn no falla.
type memStore struct {
	mu        sync.Mutex
	state     memState
	failAfter error // si no es nil, Append devuelve este error
	failList  error
}

func newMemStore(items ...entity.Item) *memStore {
	st := memState{items: map[int64]entity.Item{}, nextID: 1}
	for _, it := range items {
		st.items[it.ID] = it
	}
	return &memStore{state: st}
}

func (m *memStore) Run(ctx context.Context, fn func(repository.ItemRepository, repository.StockHistoryRepository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	work := m.state.clone()
	tx := &memTx{store: m, state: &work}
	if err := fn(tx, tx); err != nil {
		return err
	}
	m.state = work
	return nil
}

func (m *memStore) item(id int64) entity.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.items[id]
}

func (m *memStore) historyLen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.state.history)
}

func (m *memStore) historyEntries() []entity.StockHistoryEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entity.StockHistoryEntry(nil), m.state.history...)
}

// memTx repos atados a la copia de trabajo de una transacción.
type memTx struct {
	store *memStore
	state *memState
}

func (t *memTx) List(context.Context) ([]entity.Item, error) {
	if t.store.failList != nil {
		return nil, t.store.failList
	}
	out := make([]entity.Item, 0, len(t.state.items))
	for _, it := range t.state.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *memTx) GetByID(_ context.Context, id int64) (*entity.Item, error) {
	it, ok := t.state.items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (t *memTx) GetForUpdate(ctx context.Context, id int64) (*entity.Item, error) {
	return t.GetByID(ctx, id)
}

func (t *memTx) UpdateQuantity(_ context.Context, id int64, quantity int64) error {
	it, ok := t.state.items[id]
	if !ok {
		return errors.New("update: fila inexistente")
	}
	it.Quantity = quantity
	t.state.items[id] = it
	return nil
}

func (t *memTx) Append(_ context.Context, e *entity.StockHistoryEntry) error {
	if t.store.failAfter != nil {
		return t.store.failAfter
	}
	e.ID = t.state.nextID
	t.state.nextID++
	t.state.history = append(t.state.history, *e)
	return nil
}

func (t *memTx) ListByItem(_ context.Context, itemID int64) ([]entity.StockHistoryEntry, error) {
	var out []entity.StockHistoryEntry
	for i := len(t.state.history) - 1; i >= 0; i-- {
		if t.state.history[i].ItemID == itemID {
			out = append(out, t.state.history[i])
		}
	}
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Mocks testify de los puertos de lectura
// ──────────────────────────────────────────────────────────────────────────────

type mockItemRepo struct{ mock.Mock }

func (m *mockItemRepo) List(ctx context.Context) ([]entity.Item, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]entity.Item)
	return items, args.Error(1)
}

func (m *mockItemRepo) GetByID(ctx context.Context, id int64) (*entity.Item, error) {
	args := m.Called(ctx, id)
	item, _ := args.Get(0).(*entity.Item)
	return item, args.Error(1)
}

func (m *mockItemRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Item, error) {
	args := m.Called(ctx, id)
	item, _ := args.Get(0).(*entity.Item)
	return item, args.Error(1)
}

func (m *mockItemRepo) UpdateQuantity(ctx context.Context, id int64, quantity int64) error {
	return m.Called(ctx, id, quantity).Error(0)
}

type mockHistoryRepo struct{ mock.Mock }

func (m *mockHistoryRepo) Append(ctx context.Context, e *entity.StockHistoryEntry) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockHistoryRepo) ListByItem(ctx context.Context, itemID int64) ([]entity.StockHistoryEntry, error) {
	args := m.Called(ctx, itemID)
	entries, _ := args.Get(0).([]entity.StockHistoryEntry)
	return entries, args.Error(1)
}
