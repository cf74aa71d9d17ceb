package db_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gusgusz/projeto14-mywallet-back/internal/db"
)

func TestInitPostgres_ErrorPaths(t *testing.T) {
	cases := []struct {
		name       string
		dsn        string
		wantSubstr string
	}{
		{"invalid DSN", "some=random", "ping postgres"},
		{"empty DSN", "", "ping postgres"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := db.InitPostgres(tc.dsn)
			if err == nil {
				t.Fatalf("InitPostgres(%q) did not return error", tc.dsn)
			}
			if !strings.Contains(err.Error(), tc.wantSubstr) {
				t.Errorf("InitPostgres(%q) error = %q; want substring %q", tc.dsn, err.Error(), tc.wantSubstr)
			}
		})
	}
}

func TestInitMongo_BadURI(t *testing.T) {
	_, _, err := db.InitMongo(context.Background(), "mongodb://", "mywallet", 0)
	if err == nil {
		t.Fatal("InitMongo with empty host did not return error")
	}
	if !strings.Contains(err.Error(), "connect mongo") {
		t.Errorf("error = %q; want substring %q", err.Error(), "connect mongo")
	}
}

func TestInitMongo_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	_, _, err := db.InitMongo(ctx, "mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=200", "mywallet", 0)
	if err == nil {
		t.Fatal("InitMongo against a closed port did not return error")
	}
	if !strings.Contains(err.Error(), "ping mongo") {
		t.Errorf("error = %q; want substring %q", err.Error(), "ping mongo")
	}
}
