package domain

import "errors"

var (
	// ErrInvalidInput — некорректные входные данные: nil-товар или покупатель,
	// неположительное количество, пустое имя, неверный email/телефон и т.п.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound возвращается, если товара нет в корзине.
	ErrNotFound = errors.New("product not found in cart")
	// ErrCapacityExceeded — запрошено больше, чем есть на складе.
	ErrCapacityExceeded = errors.New("insufficient quantity available")
	// ErrEmptyCart — попытка оформить пустую корзину.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrOutOfStock — товара нет в наличии на момент оформления.
	ErrOutOfStock = errors.New("product is out of stock")
	// ErrInsufficientStock — остаток меньше зарезервированного в корзине.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrExpired — срок годности товара истёк.
	ErrExpired = errors.New("product is expired")
	// ErrInsufficientBalance — на балансе покупателя не хватает средств.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrReceiptNotFound возвращается, если чек не найден в репозитории.
	ErrReceiptNotFound = errors.New("receipt not found")
)

// ErrorKind — стабильное имя категории ошибки для метрик, событий и сценариев.
type ErrorKind string

const (
	KindNone                ErrorKind = ""
	KindInvalidInput        ErrorKind = "invalid_input"
	KindNotFound            ErrorKind = "not_found"
	KindCapacityExceeded    ErrorKind = "capacity_exceeded"
	KindEmptyCart           ErrorKind = "empty_cart"
	KindOutOfStock          ErrorKind = "out_of_stock"
	KindInsufficientStock   ErrorKind = "insufficient_stock"
	KindExpired             ErrorKind = "expired"
	KindInsufficientBalance ErrorKind = "insufficient_balance"
	KindUnknown             ErrorKind = "unknown"
)

var kinds = []struct {
	err  error
	kind ErrorKind
}{
	{ErrInvalidInput, KindInvalidInput},
	{ErrNotFound, KindNotFound},
	{ErrCapacityExceeded, KindCapacityExceeded},
	{ErrEmptyCart, KindEmptyCart},
	{ErrOutOfStock, KindOutOfStock},
	{ErrInsufficientStock, KindInsufficientStock},
	{ErrExpired, KindExpired},
	{ErrInsufficientBalance, KindInsufficientBalance},
}

// KindOf возвращает категорию ошибки: KindNone для nil,
// KindUnknown для ошибок вне таксономии.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindUnknown
}
