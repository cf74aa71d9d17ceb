package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gusgusz/projeto14-mywallet-back/internal/models"
)

const helpText = "Available commands: help, sign-up, sign-in, sign-out, in, out, list, balance, edit <title>, delete <title>, exit"

// Shell is the interactive command loop of the client.
type Shell struct {
	API     *Client
	Session SessionFile
	prompt  *Prompter
	out     io.Writer
}

// NewShell wires a shell reading commands from in and printing to out.
func NewShell(api *Client, session SessionFile, in io.Reader, out io.Writer) *Shell {
	return &Shell{API: api, Session: session, prompt: NewPrompter(in, out), out: out}
}

// Run loops until "exit" or end of input.
func (s *Shell) Run(ctx context.Context) error {
	for {
		line, err := s.prompt.Ask("mywallet> ")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" {
			fmt.Fprintln(s.out, "Bye")
			return nil
		}
		if err := s.exec(ctx, args[0], strings.TrimSpace(strings.TrimPrefix(line, args[0]))); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			fmt.Fprintln(s.out, "Error:", err)
		}
	}
}

func (s *Shell) exec(ctx context.Context, cmd, arg string) error {
	switch cmd {
	case "help":
		fmt.Fprintln(s.out, helpText)
	case "sign-up":
		name, err := s.prompt.Ask("Name: ")
		if err != nil {
			return err
		}
		email, password, err := s.prompt.Credentials()
		if err != nil {
			return err
		}
		if err := s.API.SignUp(ctx, name, email, password); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Registration successful. You can sign in now.")
	case "sign-in":
		email, password, err := s.prompt.Credentials()
		if err != nil {
			return err
		}
		name, err := s.API.SignIn(ctx, email, password)
		if err != nil {
			return err
		}
		if err := s.Session.Save(Session{URL: s.API.BaseURL, Token: s.API.Token, Name: name}); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Hello, %s\n", name)
	case "sign-out":
		if err := s.API.SignOut(ctx); err != nil {
			return err
		}
		if err := s.Session.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Signed out")
	case "in", "out":
		tx, err := s.prompt.Transaction(models.TransactionType(cmd))
		if err != nil {
			return err
		}
		if err := s.API.Add(ctx, tx); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Transaction saved")
	case "list":
		txs, err := s.API.List(ctx)
		if err != nil {
			return err
		}
		if len(txs) == 0 {
			fmt.Fprintln(s.out, "No transactions yet")
			return nil
		}
		for _, tx := range txs {
			sign := "+"
			if tx.Type == models.TypeOut {
				sign = "-"
			}
			fmt.Fprintf(s.out, "%s  %-20s %s%s  %s\n", tx.Date, tx.TitleDescription, sign, tx.Value.StringFixed(2), tx.Description)
		}
	case "balance":
		total, err := s.API.Balance(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Balance: %s\n", total.StringFixed(2))
	case "edit":
		if arg == "" {
			fmt.Fprintln(s.out, "Usage: edit <title>")
			return nil
		}
		newTitle, value, err := s.prompt.Update()
		if err != nil {
			return err
		}
		if err := s.API.Update(ctx, arg, newTitle, value); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Transaction updated")
	case "delete":
		if arg == "" {
			fmt.Fprintln(s.out, "Usage: delete <title>")
			return nil
		}
		if err := s.API.Delete(ctx, arg); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Transaction deleted")
	default:
		fmt.Fprintln(s.out, "Unknown command. Type 'help' for a list of commands.")
	}
	return nil
}
