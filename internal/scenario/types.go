// Package scenario описывает и проигрывает сценарии работы магазина:
// каталог товаров, покупатели и упорядоченные шаги над корзиной и оформлением.
package scenario

import "github.com/vladislavdragonenkov/shop/internal/domain"

// Action — тип шага сценария.
type Action string

const (
	ActionCreateProduct  Action = "create_product"
	ActionCreateCustomer Action = "create_customer"
	ActionAdd            Action = "add"
	ActionRemove         Action = "remove"
	ActionUpdate         Action = "update"
	ActionClear          Action = "clear"
	ActionSetQuantity    Action = "set_quantity"
	ActionSetBalance     Action = "set_balance"
	ActionCheckout       Action = "checkout"
)

// File — корневая структура YAML-файла сценария.
type File struct {
	Version string `yaml:"version"`
	Name    string `yaml:"name,omitempty"`
	// Today фиксирует текущую дату (YYYY-MM-DD) для проверки сроков годности.
	Today     string        `yaml:"today,omitempty"`
	Products  []ProductDef  `yaml:"products,omitempty"`
	Customers []CustomerDef `yaml:"customers,omitempty"`
	Steps     []Step        `yaml:"steps"`
}

// ProductDef описывает товар каталога.
type ProductDef struct {
	Name      string `yaml:"name"`
	Price     string `yaml:"price"`
	Quantity  int    `yaml:"quantity"`
	WeightKg  string `yaml:"weight_kg,omitempty"`
	ExpiresOn string `yaml:"expires_on,omitempty"`
}

// CustomerDef описывает покупателя.
type CustomerDef struct {
	Name    string `yaml:"name"`
	Email   string `yaml:"email"`
	Phone   string `yaml:"phone"`
	Balance string `yaml:"balance"`
}

// Step — один шаг сценария.
//
// По умолчанию Customer равен первому покупателю из секции customers.
// Nil передаёт nil вместо товара (операции корзины) или покупателя (checkout).
type Step struct {
	Action      Action       `yaml:"action"`
	Note        string       `yaml:"note,omitempty"`
	Customer    string       `yaml:"customer,omitempty"`
	Product     string       `yaml:"product,omitempty"`
	Quantity    int          `yaml:"quantity,omitempty"`
	Balance     string       `yaml:"balance,omitempty"`
	Nil         bool         `yaml:"nil,omitempty"`
	NewProduct  *ProductDef  `yaml:"new_product,omitempty"`
	NewCustomer *CustomerDef `yaml:"new_customer,omitempty"`

	ExpectError   domain.ErrorKind `yaml:"expect_error,omitempty"`
	ExpectBalance string           `yaml:"expect_balance,omitempty"`
	ExpectStock   map[string]int   `yaml:"expect_stock,omitempty"`
}
