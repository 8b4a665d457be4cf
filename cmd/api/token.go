package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hankyong/campus-chatbot/internal/middleware"
)

// runToken implements "token": it prints a signed JWT for the admin routes.
func runToken(args []string, jwtSecret string, out io.Writer) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	fs.SetOutput(out)
	subject := fs.String("subject", "operator", "Token subject")
	scopes := fs.String("scopes", middleware.ScopeAdmin, "Comma-separated scopes")
	ttl := fs.Duration("ttl", 24*time.Hour, "Token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if jwtSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	if *ttl <= 0 {
		return errors.New("ttl must be positive")
	}

	var list []string
	for _, s := range strings.Split(*scopes, ",") {
		if s = strings.TrimSpace(s); s != "" {
			list = append(list, s)
		}
	}

	token, err := middleware.IssueToken(jwtSecret, *subject, list, *ttl)
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}
	_, err = fmt.Fprintln(out, token)
	return err
}
