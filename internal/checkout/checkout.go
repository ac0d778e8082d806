// Package checkout validates the payment form and produces an order
// receipt. It is a form validator only: nothing here ever contacts a
// payment network.
package checkout

import (
	"context"
	"errors"
	"math/rand"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/oklog/ulid/v2"

	"bookify/internal/session"
)

var ErrEmptyCart = errors.New("cart is empty")

// PaymentForm carries the card fields from the checkout dialog.
type PaymentForm struct {
	CardNumber string `json:"card_number" validate:"required,cardnumber"`
	Expiry     string `json:"expiry" validate:"required,expiry"`
	CVV        string `json:"cvv" validate:"required,cvv"`
}

// Order is the receipt for a completed (simulated) payment. ID is the
// stable identifier; Number is the 6-digit display number shown to the
// customer.
type Order struct {
	ID     string             `json:"id"`
	Number int                `json:"number"`
	Lines  []session.CartLine `json:"lines"`
	Totals session.Totals     `json:"totals"`
}

var (
	expiryPattern = regexp.MustCompile(`^\d{2}/\d{2}$`)
	cvvPattern    = regexp.MustCompile(`^\d{3,4}$`)
	digitsOnly    = regexp.MustCompile(`^\d+$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("cardnumber", validateCardNumber)
	_ = v.RegisterValidation("expiry", validateExpiry)
	_ = v.RegisterValidation("cvv", validateCVV)
	return v
}

// Card numbers may arrive space-grouped; at least 13 digits after
// stripping, digits only.
func validateCardNumber(fl validator.FieldLevel) bool {
	number := strings.ReplaceAll(fl.Field().String(), " ", "")
	return len(number) >= 13 && digitsOnly.MatchString(number)
}

func validateExpiry(fl validator.FieldLevel) bool {
	expiry := fl.Field().String()
	if !expiryPattern.MatchString(expiry) {
		return false
	}
	month := expiry[:2]
	return month >= "01" && month <= "12"
}

func validateCVV(fl validator.FieldLevel) bool {
	return cvvPattern.MatchString(fl.Field().String())
}

// FieldError is one rejected form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateForm checks the payment form and returns one message per bad
// field, or nil when the form is acceptable.
func ValidateForm(form PaymentForm) []FieldError {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var out []FieldError
	for _, fe := range err.(validator.ValidationErrors) {
		var message string
		switch fe.Field() {
		case "CardNumber":
			message = "please enter a valid card number"
		case "Expiry":
			message = "please enter expiry date in MM/YY format"
		case "CVV":
			message = "please enter a valid CVV"
		default:
			message = "invalid value"
		}
		out = append(out, FieldError{Field: strings.ToLower(fe.Field()), Message: message})
	}
	return out
}

// Service completes checkouts against the session cart.
type Service struct {
	sessions *session.Manager
}

func NewService(sessions *session.Manager) *Service {
	return &Service{sessions: sessions}
}

// Complete validates the form, snapshots the cart into an order, and
// clears the cart. Validation failures are reported per field and leave
// the cart untouched.
func (s *Service) Complete(ctx context.Context, owner string, form PaymentForm) (Order, []FieldError, error) {
	if fieldErrs := ValidateForm(form); fieldErrs != nil {
		return Order{}, fieldErrs, nil
	}
	lines, err := s.sessions.Cart(ctx, owner)
	if err != nil {
		return Order{}, nil, err
	}
	if len(lines) == 0 {
		return Order{}, nil, ErrEmptyCart
	}
	order := Order{
		ID:     ulid.Make().String(),
		Number: 100000 + rand.Intn(900000),
		Lines:  lines,
		Totals: session.CartTotals(lines),
	}
	if err := s.sessions.ClearCart(ctx, owner); err != nil {
		return Order{}, nil, err
	}
	return order, nil, nil
}
