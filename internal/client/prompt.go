package client

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gusgusz/projeto14-mywallet-back/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/term"
)

// Prompter asks for input line by line.
type Prompter struct {
	in      io.Reader
	scanner *bufio.Scanner
	out     io.Writer
}

// NewPrompter reads answers from in and writes questions to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: in, scanner: bufio.NewScanner(in), out: out}
}

// Ask prints label and returns the trimmed answer.
func (p *Prompter) Ask(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.scanner.Text()), nil
}

// AskSecret is Ask without echo when in is a terminal.
func (p *Prompter) AskSecret(label string) (string, error) {
	f, ok := p.in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return p.Ask(label)
	}
	fmt.Fprint(p.out, label)
	b, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (p *Prompter) askDecimal(label string) (decimal.Decimal, error) {
	for {
		s, err := p.Ask(label)
		if err != nil {
			return decimal.Zero, err
		}
		v, err := decimal.NewFromString(s)
		if err == nil {
			return v, nil
		}
		fmt.Fprintln(p.out, "Not a number, try again.")
	}
}

// Credentials asks for an email and a password.
func (p *Prompter) Credentials() (email, password string, err error) {
	if email, err = p.Ask("Email: "); err != nil {
		return "", "", err
	}
	if password, err = p.AskSecret("Password: "); err != nil {
		return "", "", err
	}
	return email, password, nil
}

// Transaction asks for a new ledger entry of type typ.
func (p *Prompter) Transaction(typ models.TransactionType) (NewTransaction, error) {
	tx := NewTransaction{Type: typ}
	var err error
	if tx.TitleDescription, err = p.Ask("Title: "); err != nil {
		return tx, err
	}
	if tx.Description, err = p.Ask("Description: "); err != nil {
		return tx, err
	}
	if tx.Value, err = p.askDecimal("Value: "); err != nil {
		return tx, err
	}
	return tx, nil
}

// Update asks for the new title and value of an entry.
func (p *Prompter) Update() (newTitle string, value decimal.Decimal, err error) {
	if newTitle, err = p.Ask("New title: "); err != nil {
		return "", decimal.Zero, err
	}
	if value, err = p.askDecimal("New value: "); err != nil {
		return "", decimal.Zero, err
	}
	return newTitle, value, nil
}
