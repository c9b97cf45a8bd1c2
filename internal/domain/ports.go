package domain

// ReceiptRepository хранит чеки успешно оформленных заказов.
type ReceiptRepository interface {
	// Append сохраняет чек.
	Append(receipt Receipt) error
	// ListByCustomer возвращает чеки покупателя, новые первыми; limit<=0 снимает ограничение.
	ListByCustomer(customerID string, limit int) ([]Receipt, error)
	// Get возвращает чек по идентификатору или ErrReceiptNotFound.
	Get(id string) (Receipt, error)
}

// CheckoutStep задаёт константы шагов оформления для метрик/логов.
type CheckoutStep string

const (
	CheckoutStepCustomer   CheckoutStep = "customer"
	CheckoutStepCart       CheckoutStep = "cart"
	CheckoutStepLines      CheckoutStep = "lines"
	CheckoutStepCost       CheckoutStep = "cost"
	CheckoutStepSettlement CheckoutStep = "settlement"
)
