package scenario

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/domain"
	"github.com/vladislavdragonenkov/shop/internal/service/checkout"
)

const dateLayout = "2006-01-02"

// ErrUnknownReference — шаг ссылается на товар или покупателя, которых нет в сценарии.
var ErrUnknownReference = errors.New("unknown reference")

// StepResult — результат одного шага.
type StepResult struct {
	Index   int
	Action  Action
	Note    string
	Err     error
	Kind    domain.ErrorKind
	Receipt *domain.Receipt
	// Mismatch описывает невыполненное ожидание; пусто, если шаг прошёл.
	Mismatch string
}

// Passed сообщает, что исход шага совпал с ожиданием.
func (r StepResult) Passed() bool { return r.Mismatch == "" }

// Report — итог проигрывания сценария.
type Report struct {
	Name     string
	Steps    []StepResult
	Receipts []*domain.Receipt
}

// Failed возвращает число шагов с невыполненными ожиданиями.
func (r *Report) Failed() int {
	failed := 0
	for _, step := range r.Steps {
		if !step.Passed() {
			failed++
		}
	}
	return failed
}

// OK сообщает, что все шаги прошли.
func (r *Report) OK() bool { return r.Failed() == 0 }

// Runner проигрывает сценарии через сервис оформления.
type Runner struct {
	reporter checkout.Reporter
	options  []checkout.Option
	logger   *log.Entry
}

// NewRunner создаёт Runner. options передаются каждому создаваемому checkout.Service.
func NewRunner(reporter checkout.Reporter, logger *log.Entry, options ...checkout.Option) *Runner {
	if logger == nil {
		logger = log.WithField("component", "scenario")
	}
	return &Runner{reporter: reporter, options: options, logger: logger}
}

type session struct {
	logger          *log.Entry
	service         *checkout.Service
	products        map[string]*domain.Product
	customers       map[string]*domain.Customer
	defaultCustomer string
}

// Run проигрывает сценарий. Ошибка возвращается только для некорректного
// сценария или отменённого контекста; исходы шагов собираются в Report.
func (r *Runner) Run(ctx context.Context, f *File) (*Report, error) {
	if f == nil {
		return nil, errors.New("scenario cannot be nil")
	}

	s, err := r.newSession(f)
	if err != nil {
		return nil, err
	}

	logger := r.logger.WithField("scenario", f.Name)
	logger.WithFields(log.Fields{
		"products":  len(s.products),
		"customers": len(s.customers),
		"steps":     len(f.Steps),
	}).Info("scenario started")

	report := &Report{Name: f.Name, Steps: make([]StepResult, 0, len(f.Steps))}
	for i, step := range f.Steps {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		receipt, stepErr := s.exec(ctx, step)
		if errors.Is(stepErr, ErrUnknownReference) {
			return report, fmt.Errorf("step %d: %w", i+1, stepErr)
		}

		result := StepResult{
			Index:   i + 1,
			Action:  step.Action,
			Note:    step.Note,
			Err:     stepErr,
			Kind:    domain.KindOf(stepErr),
			Receipt: receipt,
		}
		result.Mismatch = s.check(step, result)
		if receipt != nil {
			report.Receipts = append(report.Receipts, receipt)
		}
		report.Steps = append(report.Steps, result)

		entry := logger.WithFields(log.Fields{
			"step":   result.Index,
			"action": step.Action,
		})
		if step.Note != "" {
			entry = entry.WithField("note", step.Note)
		}
		switch {
		case !result.Passed():
			entry.WithError(stepErr).WithField("mismatch", result.Mismatch).Error("step outcome deviates from expectation")
		case stepErr != nil:
			entry.WithField("kind", result.Kind).Infof("expected error: %v", stepErr)
		default:
			entry.Debug("step completed")
		}
	}

	logger.WithFields(log.Fields{
		"steps":     len(report.Steps),
		"failed":    report.Failed(),
		"checkouts": len(report.Receipts),
	}).Info("scenario finished")
	return report, nil
}

func (r *Runner) newSession(f *File) (*session, error) {
	options := append([]checkout.Option{}, r.options...)
	if f.Today != "" {
		today, err := time.Parse(dateLayout, f.Today)
		if err != nil {
			return nil, fmt.Errorf("invalid today %q: %w", f.Today, err)
		}
		noon := today.Add(12 * time.Hour)
		options = append(options, checkout.WithClock(func() time.Time { return noon }))
	}

	s := &session{
		logger:    r.logger,
		service:   checkout.NewService(r.reporter, options...),
		products:  make(map[string]*domain.Product, len(f.Products)),
		customers: make(map[string]*domain.Customer, len(f.Customers)),
	}

	for _, def := range f.Products {
		p, err := buildProduct(def)
		if err != nil {
			return nil, fmt.Errorf("catalog product %q: %w", def.Name, err)
		}
		s.products[def.Name] = p
	}
	for _, def := range f.Customers {
		if _, err := s.addCustomer(def); err != nil {
			return nil, fmt.Errorf("customer %q: %w", def.Name, err)
		}
	}
	return s, nil
}

func (s *session) addCustomer(def CustomerDef) (*domain.Customer, error) {
	balance, err := parseAmount("balance", def.Balance)
	if err != nil {
		return nil, err
	}
	c, err := domain.NewCustomer(def.Name, def.Email, def.Phone, balance)
	if err != nil {
		return nil, err
	}
	cart := domain.NewCartWithLogger(s.logger.WithFields(log.Fields{
		"component": "cart",
		"customer":  def.Name,
	}))
	if err := c.SetCart(cart); err != nil {
		return nil, err
	}

	s.customers[def.Name] = c
	if s.defaultCustomer == "" {
		s.defaultCustomer = def.Name
	}
	return c, nil
}

func (s *session) exec(ctx context.Context, step Step) (*domain.Receipt, error) {
	switch step.Action {
	case ActionCreateProduct:
		p, err := buildProduct(*step.NewProduct)
		if err != nil {
			return nil, err
		}
		s.products[step.NewProduct.Name] = p
		return nil, nil

	case ActionCreateCustomer:
		_, err := s.addCustomer(*step.NewCustomer)
		return nil, err

	case ActionSetQuantity:
		p, err := s.product(step.Product)
		if err != nil {
			return nil, err
		}
		return nil, p.SetQuantity(step.Quantity)

	case ActionCheckout:
		if step.Nil {
			return s.service.Checkout(ctx, nil)
		}
		c, err := s.customer(step.Customer)
		if err != nil {
			return nil, err
		}
		return s.service.Checkout(ctx, c)
	}

	c, err := s.customer(step.Customer)
	if err != nil {
		return nil, err
	}

	switch step.Action {
	case ActionSetBalance:
		balance, err := parseAmount("balance", step.Balance)
		if err != nil {
			return nil, err
		}
		return nil, c.SetBalance(balance)

	case ActionClear:
		c.Cart().Clear()
		return nil, nil
	}

	var p *domain.Product
	if !step.Nil {
		if p, err = s.product(step.Product); err != nil {
			return nil, err
		}
	}

	switch step.Action {
	case ActionAdd:
		return nil, c.Cart().Add(p, step.Quantity)
	case ActionRemove:
		return nil, c.Cart().Remove(p)
	case ActionUpdate:
		return nil, c.Cart().UpdateProductQuantity(p, step.Quantity)
	}
	return nil, fmt.Errorf("unsupported action %q", step.Action)
}

// check сравнивает исход шага с ожиданиями и возвращает описание расхождения.
func (s *session) check(step Step, result StepResult) string {
	if result.Kind != step.ExpectError {
		want := step.ExpectError
		if want == domain.KindNone {
			want = "success"
		}
		got := result.Kind
		if got == domain.KindNone {
			got = "success"
		}
		return fmt.Sprintf("expected %s, got %s", want, got)
	}

	if step.ExpectBalance != "" {
		want, err := decimal.NewFromString(step.ExpectBalance)
		if err != nil {
			return fmt.Sprintf("invalid expect_balance %q", step.ExpectBalance)
		}
		c, err := s.customer(step.Customer)
		if err != nil {
			return err.Error()
		}
		if !c.Balance().Equal(want) {
			return fmt.Sprintf("expected balance %s, got %s", want.StringFixed(2), c.Balance().StringFixed(2))
		}
	}

	for name, want := range step.ExpectStock {
		p, err := s.product(name)
		if err != nil {
			return err.Error()
		}
		if p.Quantity() != want {
			return fmt.Sprintf("expected stock of %s to be %d, got %d", name, want, p.Quantity())
		}
	}
	return ""
}

func (s *session) product(name string) (*domain.Product, error) {
	p, ok := s.products[name]
	if !ok {
		return nil, fmt.Errorf("%w: product %q", ErrUnknownReference, name)
	}
	return p, nil
}

func (s *session) customer(name string) (*domain.Customer, error) {
	if name == "" {
		name = s.defaultCustomer
	}
	c, ok := s.customers[name]
	if !ok {
		return nil, fmt.Errorf("%w: customer %q", ErrUnknownReference, name)
	}
	return c, nil
}

func buildProduct(def ProductDef) (*domain.Product, error) {
	price, err := parseAmount("price", def.Price)
	if err != nil {
		return nil, err
	}

	var opts []domain.ProductOption
	if def.WeightKg != "" {
		weight, err := parseAmount("weight", def.WeightKg)
		if err != nil {
			return nil, err
		}
		opts = append(opts, domain.WithWeight(weight))
	}
	if def.ExpiresOn != "" {
		expires, err := time.Parse(dateLayout, def.ExpiresOn)
		if err != nil {
			return nil, fmt.Errorf("%w: expiration date %q", domain.ErrInvalidInput, def.ExpiresOn)
		}
		opts = append(opts, domain.WithExpiration(expires))
	}
	return domain.NewProduct(def.Name, price, def.Quantity, opts...)
}

func parseAmount(field, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s %q is not a number", domain.ErrInvalidInput, field, value)
	}
	return d, nil
}
