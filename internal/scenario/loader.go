package scenario

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultScenario []byte

// Default возвращает встроенный демонстрационный сценарий.
func Default() (*File, error) {
	return Parse(defaultScenario)
}

// LoadFile загружает и разбирает YAML-файл сценария.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse разбирает YAML-сценарий и проверяет его структуру.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse scenario YAML: %w", err)
	}

	applyDefaults(&f)

	if err := validate(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Marshal сериализует сценарий в YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}

func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = "1"
	}
	for i := range f.Steps {
		f.Steps[i].Action = Action(strings.ToLower(strings.TrimSpace(string(f.Steps[i].Action))))
	}
}

func validate(f *File) error {
	if len(f.Steps) == 0 {
		return fmt.Errorf("scenario %q has no steps", f.Name)
	}

	seen := make(map[string]struct{}, len(f.Products))
	for _, p := range f.Products {
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("duplicate product %q in catalog", p.Name)
		}
		seen[p.Name] = struct{}{}
	}

	for i, step := range f.Steps {
		switch step.Action {
		case ActionCreateProduct:
			if step.NewProduct == nil {
				return fmt.Errorf("step %d: %s requires new_product", i+1, step.Action)
			}
		case ActionCreateCustomer:
			if step.NewCustomer == nil {
				return fmt.Errorf("step %d: %s requires new_customer", i+1, step.Action)
			}
		case ActionAdd, ActionUpdate, ActionRemove:
			if step.Product == "" && !step.Nil {
				return fmt.Errorf("step %d: %s requires product or nil", i+1, step.Action)
			}
		case ActionSetQuantity:
			if step.Product == "" {
				return fmt.Errorf("step %d: %s requires product", i+1, step.Action)
			}
		case ActionSetBalance:
			if step.Balance == "" {
				return fmt.Errorf("step %d: %s requires balance", i+1, step.Action)
			}
		case ActionClear, ActionCheckout:
		default:
			return fmt.Errorf("step %d: unknown action %q", i+1, step.Action)
		}
	}
	return nil
}
