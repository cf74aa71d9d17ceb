// Package validate checks inbound JSON payloads against the sign-up,
// sign-in and transaction schemas. Validation is exhaustive: every violated
// field contributes one message, in schema order.
package validate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gusgusz/projeto14-mywallet-back/internal/models"
	"github.com/shopspring/decimal"
)

// Error lists every field violation found in a payload.
type Error struct {
	Messages []string
}

func (e *Error) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// SignUp is the validated sign-up payload.
type SignUp struct {
	Name           string `json:"name" validate:"required,min=3"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=6,maxbytes=72"`
	RepeatPassword string `json:"repeatPassword" validate:"required,eqfield=Password"`
}

// SignIn is the validated sign-in payload.
type SignIn struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Transaction is the validated payload for a new ledger entry.
type Transaction struct {
	Value            *decimal.Decimal `json:"value" validate:"required"`
	TitleDescription string           `json:"titleDescription" validate:"required,min=1"`
	Description      string           `json:"description" validate:"required"`
	Type             string           `json:"type" validate:"required,oneof=in out"`
}

// Model converts the payload into a ledger entry without a date.
func (t Transaction) Model() models.Transaction {
	return models.Transaction{
		TitleDescription: t.TitleDescription,
		Description:      t.Description,
		Value:            *t.Value,
		Type:             models.TransactionType(t.Type),
	}
}

// TransactionUpdate is the validated payload for renaming an entry and
// changing its value.
type TransactionUpdate struct {
	TitleDescription string           `json:"titleDescription" validate:"required,min=1"`
	Value            *decimal.Decimal `json:"value" validate:"required"`
}

// Amounts must fit these bounds; the digit string of a decimal grows with
// its exponent.
const (
	maxValueExponent = 20
	maxValueDigits   = 30
)

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	// bcrypt hashes at most 72 bytes of input; "max" would count runes.
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		return err == nil && len(fl.Field().String()) <= limit
	})
	return v
}

// ParseSignUp decodes and validates a sign-up body.
func ParseSignUp(body []byte) (SignUp, error) {
	var out SignUp
	d, err := newDecoder(body)
	if err != nil {
		return out, err
	}
	d.str("name", &out.Name)
	d.str("email", &out.Email)
	d.str("password", &out.Password)
	d.str("repeatPassword", &out.RepeatPassword)
	return out, d.check(out)
}

// ParseSignIn decodes and validates a sign-in body.
func ParseSignIn(body []byte) (SignIn, error) {
	var out SignIn
	d, err := newDecoder(body)
	if err != nil {
		return out, err
	}
	d.str("email", &out.Email)
	d.str("password", &out.Password)
	return out, d.check(out)
}

// ParseTransaction decodes and validates a new transaction body. A non-empty
// forced type fills in a missing "type" and rejects any other value.
func ParseTransaction(body []byte, forced models.TransactionType) (Transaction, error) {
	var out Transaction
	d, err := newDecoder(body)
	if err != nil {
		return out, err
	}
	d.num("value", &out.Value)
	d.str("titleDescription", &out.TitleDescription)
	d.str("description", &out.Description)
	d.str("type", &out.Type)

	if forced != "" {
		switch {
		case !d.present["type"]:
			out.Type = string(forced)
		case d.msgs["type"] == "" && out.Type != string(forced):
			d.msgs["type"] = fmt.Sprintf("%q must be [%s]", "type", forced)
		}
	}
	return out, d.check(out)
}

// ParseTransactionUpdate decodes and validates an update body.
func ParseTransactionUpdate(body []byte) (TransactionUpdate, error) {
	var out TransactionUpdate
	d, err := newDecoder(body)
	if err != nil {
		return out, err
	}
	d.str("titleDescription", &out.TitleDescription)
	d.num("value", &out.Value)
	return out, d.check(out)
}

// decoder pulls schema fields out of a JSON object one at a time so a type
// mismatch in one field does not hide violations in the others.
type decoder struct {
	raw     map[string]json.RawMessage
	order   []string
	present map[string]bool
	msgs    map[string]string
}

func newDecoder(body []byte) (*decoder, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return nil, &Error{Messages: []string{`"value" must be of type object`}}
	}
	return &decoder{
		raw:     raw,
		present: make(map[string]bool),
		msgs:    make(map[string]string),
	}, nil
}

// field registers name in schema order and returns its raw value, or nil
// when the key is absent or null.
func (d *decoder) field(name string) json.RawMessage {
	d.order = append(d.order, name)
	r, ok := d.raw[name]
	if !ok || bytes.Equal(bytes.TrimSpace(r), []byte("null")) {
		return nil
	}
	d.present[name] = true
	return r
}

func (d *decoder) str(name string, dst *string) {
	r := d.field(name)
	if r == nil {
		return
	}
	if err := json.Unmarshal(r, dst); err != nil {
		d.msgs[name] = fmt.Sprintf("%q must be a string", name)
	}
}

// num accepts a JSON number or a string holding one.
func (d *decoder) num(name string, dst **decimal.Decimal) {
	r := d.field(name)
	if r == nil {
		return
	}
	text := string(bytes.TrimSpace(r))
	if strings.HasPrefix(text, `"`) {
		if err := json.Unmarshal(r, &text); err != nil {
			d.msgs[name] = fmt.Sprintf("%q must be a number", name)
			return
		}
		text = strings.TrimSpace(text)
	}
	v, err := decimal.NewFromString(text)
	if err != nil || !boundedDecimal(v) {
		d.msgs[name] = fmt.Sprintf("%q must be a number", name)
		return
	}
	*dst = &v
}

func boundedDecimal(v decimal.Decimal) bool {
	exp := v.Exponent()
	return exp >= -maxValueExponent && exp <= maxValueExponent && v.NumDigits() <= maxValueDigits
}

// check runs the struct rules and assembles the final error, if any.
func (d *decoder) check(payload any) error {
	if err := structValidator.Struct(payload); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return fmt.Errorf("validate: %w", err)
		}
		for _, fe := range fieldErrs {
			name := fe.Field()
			if _, seen := d.msgs[name]; seen {
				continue
			}
			d.msgs[name] = d.message(fe)
		}
	}

	var messages []string
	for _, name := range d.order {
		if m, ok := d.msgs[name]; ok {
			messages = append(messages, m)
		}
	}

	known := make(map[string]bool, len(d.order))
	for _, name := range d.order {
		known[name] = true
	}
	var unknown []string
	for key := range d.raw {
		if !known[key] {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		messages = append(messages, fmt.Sprintf("%q is not allowed", key))
	}

	if len(messages) > 0 {
		return &Error{Messages: messages}
	}
	return nil
}

func (d *decoder) message(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		if d.present[name] {
			return fmt.Sprintf("%q is not allowed to be empty", name)
		}
		return fmt.Sprintf("%q is required", name)
	case "min":
		return fmt.Sprintf("%q length must be at least %s characters long", name, fe.Param())
	case "max":
		return fmt.Sprintf("%q length must be less than or equal to %s characters long", name, fe.Param())
	case "maxbytes":
		return fmt.Sprintf("%q must be at most %s bytes long", name, fe.Param())
	case "email":
		return fmt.Sprintf("%q must be a valid email", name)
	case "eqfield":
		return fmt.Sprintf("%q must be [ref:%s]", name, lowerFirst(fe.Param()))
	case "oneof":
		return fmt.Sprintf("%q must be one of [%s]", name, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%q failed on %s", name, fe.Tag())
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
