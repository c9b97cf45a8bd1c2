package memory

import (
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// receiptRepositoryInMemory хранит чеки в памяти процесса.
type receiptRepositoryInMemory struct {
	mu         sync.RWMutex
	byID       map[string]domain.Receipt
	byCustomer map[string][]string
}

// NewReceiptRepository возвращает in-memory репозиторий чеков.
func NewReceiptRepository() domain.ReceiptRepository {
	return &receiptRepositoryInMemory{
		byID:       make(map[string]domain.Receipt),
		byCustomer: make(map[string][]string),
	}
}

// Append сохраняет копию чека. Повторный ID перезаписывает запись.
func (r *receiptRepositoryInMemory) Append(receipt domain.Receipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	receipt.Lines = append([]domain.ReceiptLine(nil), receipt.Lines...)
	if _, exists := r.byID[receipt.ID]; !exists {
		r.byCustomer[receipt.CustomerID] = append(r.byCustomer[receipt.CustomerID], receipt.ID)
	}
	r.byID[receipt.ID] = receipt
	return nil
}

// Get возвращает чек или ErrReceiptNotFound.
func (r *receiptRepositoryInMemory) Get(id string) (domain.Receipt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	receipt, ok := r.byID[id]
	if !ok {
		return domain.Receipt{}, domain.ErrReceiptNotFound
	}
	return receipt, nil
}

// ListByCustomer возвращает чеки покупателя, новые первыми.
func (r *receiptRepositoryInMemory) ListByCustomer(customerID string, limit int) ([]domain.Receipt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byCustomer[customerID]
	result := make([]domain.Receipt, 0, len(ids))
	// Обратный порядок вставки: при равном CompletedAt новее тот, что добавлен позже.
	for i := len(ids) - 1; i >= 0; i-- {
		result = append(result, r.byID[ids[i]])
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CompletedAt.After(result[j].CompletedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

var _ domain.ReceiptRepository = (*receiptRepositoryInMemory)(nil)
