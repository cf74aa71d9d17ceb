package main

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/gusgusz/projeto14-mywallet-back/internal/client"
)

var (
	version   string
	buildDate string
)

// httpClient returns a client that trusts only caFile when it is set and the
// system roots otherwise.
func httpClient(caFile string) (*http.Client, error) {
	c := &http.Client{Timeout: 10 * time.Second}
	if caFile == "" {
		return c, nil
	}
	caCert, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA cert: %w", err)
	}
	caPool := x509.NewCertPool()
	if !caPool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("failed to parse CA cert %s", caFile)
	}
	c.Transport = &http.Transport{TLSClientConfig: &tls.Config{RootCAs: caPool, MinVersion: tls.VersionTLS12}}
	return c, nil
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".mywallet-session.json"
	}
	return filepath.Join(dir, "mywallet", "session.json")
}

// main parses command-line flags and starts the interactive shell.
func main() {
	var (
		baseURL     string
		caFile      string
		sessionPath string
		showVer     bool
	)

	flag.StringVar(&baseURL, "url", "http://localhost:5000", "server base URL")
	flag.StringVar(&caFile, "ca", "", "path to CA cert for a self-signed HTTPS server")
	flag.StringVar(&sessionPath, "session", defaultSessionPath(), "path to the saved session")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("MyWallet Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	hc, err := httpClient(caFile)
	if err != nil {
		log.Fatal(err)
	}

	if err := os.MkdirAll(filepath.Dir(sessionPath), 0o700); err != nil {
		log.Fatal(err)
	}
	session := client.SessionFile{Path: sessionPath}
	saved, err := session.Load()
	if err != nil {
		log.Fatal(err)
	}

	api := client.New(baseURL, hc)
	if saved.Token != "" && saved.URL == api.BaseURL {
		api.Token = saved.Token
		fmt.Printf("Signed in as %s\n", saved.Name)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := client.NewShell(api, session, os.Stdin, os.Stdout).Run(ctx); err != nil {
		log.Fatal(err)
	}
}
