package repository

import (
	"context"
	"errors"
	"sync"

	"pentacore/internal/model"
)

var (
	// ErrNotFound - результат с таким ID не найден (или уже вытеснен).
	ErrNotFound = errors.New("result not found")
	// ErrDuplicateID - результат с таким ID уже добавлен.
	ErrDuplicateID = errors.New("result with this id already exists")
)

// ResultRepository хранит результаты генерации текущего процесса.
// Единственное изменение результата после создания - перевод в сохраненные.
type ResultRepository interface {
	// Add добавляет новый результат. Флаг Saved у добавляемого результата игнорируется.
	Add(ctx context.Context, result model.GenerationResult) error
	// Get возвращает копию результата по ID.
	Get(ctx context.Context, id string) (model.GenerationResult, error)
	// MarkSaved переводит результат в сохраненные и ставит его в начало списка сохраненных.
	// Повторный вызов ничего не меняет и возвращает уже сохраненную копию.
	MarkSaved(ctx context.Context, id string) (model.GenerationResult, error)
	// ListSaved возвращает сохраненные результаты, новые первыми.
	ListSaved(ctx context.Context) ([]model.GenerationResult, error)
	// ListRecent возвращает все хранимые результаты, новые первыми.
	ListRecent(ctx context.Context) ([]model.GenerationResult, error)
}

// memoryResultRepository - реализация ResultRepository в памяти процесса.
type memoryResultRepository struct {
	mu       sync.RWMutex
	capacity int
	results  map[string]model.GenerationResult
	order    []string // порядок добавления, старые первыми
	saved    []string // новые первыми
}

// NewMemoryResultRepository создает хранилище, которое держит не больше capacity
// несохраненных результатов. Сохраненные результаты не вытесняются.
func NewMemoryResultRepository(capacity int) ResultRepository {
	if capacity <= 0 {
		capacity = 1
	}
	return &memoryResultRepository{
		capacity: capacity,
		results:  make(map[string]model.GenerationResult),
	}
}

func (r *memoryResultRepository) Add(_ context.Context, result model.GenerationResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.results[result.ID]; exists {
		return ErrDuplicateID
	}
	result.Saved = false
	r.results[result.ID] = result
	r.order = append(r.order, result.ID)
	r.evictLocked()
	return nil
}

// evictLocked удаляет самые старые несохраненные результаты сверх лимита.
func (r *memoryResultRepository) evictLocked() {
	unsaved := len(r.results) - len(r.saved)
	if unsaved <= r.capacity {
		return
	}
	kept := r.order[:0]
	for _, id := range r.order {
		if unsaved > r.capacity && !r.results[id].Saved {
			delete(r.results, id)
			unsaved--
			continue
		}
		kept = append(kept, id)
	}
	r.order = kept
}

func (r *memoryResultRepository) Get(_ context.Context, id string) (model.GenerationResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result, ok := r.results[id]
	if !ok {
		return model.GenerationResult{}, ErrNotFound
	}
	return result, nil
}

func (r *memoryResultRepository) MarkSaved(_ context.Context, id string) (model.GenerationResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result, ok := r.results[id]
	if !ok {
		return model.GenerationResult{}, ErrNotFound
	}
	if result.Saved {
		return result, nil
	}

	result.Saved = true
	r.results[id] = result
	r.saved = append([]string{id}, r.saved...)
	return result, nil
}

func (r *memoryResultRepository) ListSaved(_ context.Context) ([]model.GenerationResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.GenerationResult, 0, len(r.saved))
	for _, id := range r.saved {
		out = append(out, r.results[id])
	}
	return out, nil
}

func (r *memoryResultRepository) ListRecent(_ context.Context) ([]model.GenerationResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.GenerationResult, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		out = append(out, r.results[r.order[i]])
	}
	return out, nil
}
