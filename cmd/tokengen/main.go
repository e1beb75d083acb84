// Package main generates caller tokens for local kycmint development.
// Keys and claims come from the same environment the server reads, so a
// token minted here is accepted by a server started in the same shell.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	jwttoken "kycmint/internal/jwt_token"
	"kycmint/internal/platform/config"
	id "kycmint/pkg/domain"
)

type tokenOutput struct {
	Token     string            `json:"token"`
	Account   string            `json:"account"`
	Role      string            `json:"role,omitempty"`
	ExpiresIn string            `json:"expires_in"`
	JTI       string            `json:"jti"`
	Usage     map[string]string `json:"usage"`
}

func main() {
	callerCmd := flag.NewFlagSet("caller", flag.ExitOnError)
	callerAccount := callerCmd.String("account", "", "Account the token acts as (required)")
	callerTTL := callerCmd.Duration("ttl", 0, "Token time-to-live (defaults to TOKEN_TTL)")
	callerJSON := callerCmd.Bool("json", false, "Output as JSON")

	rolesCmd := flag.NewFlagSet("roles", flag.ExitOnError)
	rolesTTL := rolesCmd.Duration("ttl", 0, "Token time-to-live (defaults to TOKEN_TTL)")
	rolesJSON := rolesCmd.Bool("json", false, "Output as JSON")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading configuration: %v\n", err)
		os.Exit(1)
	}
	if cfg.Server.IsProduction() {
		fmt.Fprintln(os.Stderr, "Refusing to mint tokens with KYCMINT_ENV=production")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "caller":
		_ = callerCmd.Parse(os.Args[2:])
		account, err := id.ParseAccountID(*callerAccount)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid -account: %v\n", err)
			os.Exit(1)
		}
		emit([]tokenOutput{issue(cfg, account, "", *callerTTL)}, *callerJSON)
	case "roles":
		_ = rolesCmd.Parse(os.Args[2:])
		emit([]tokenOutput{
			issue(cfg, cfg.Contract.Owner, "owner", *rolesTTL),
			issue(cfg, cfg.Contract.MintAuthorizer, "mint_authorizer", *rolesTTL),
		}, *rolesJSON)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tokengen - Generate caller tokens for the kycmint API

WARNING: Tokens are signed with JWT_SIGNING_KEY, or the dev key when it is
         unset. Do not use them outside local development.

Usage:
  tokengen <command> [flags]

Commands:
  caller    Generate a token for any account
  roles     Generate tokens for the genesis owner and mint authorizer

Examples:
  # Token for a recipient redeeming a code
  tokengen caller -account alice.near

  # Owner and authorizer tokens for CONTRACT_OWNER / MINT_AUTHORIZER
  tokengen roles -json

Use "tokengen <command> -h" for more information about a command.`)
}

func issue(cfg config.Config, account id.AccountID, role string, ttl time.Duration) tokenOutput {
	if ttl <= 0 {
		ttl = cfg.Auth.TokenTTL
	}
	svc := jwttoken.NewJWTService(cfg.Auth.SigningKey, cfg.Auth.Issuer, cfg.Auth.Audience, ttl)
	svc.SetEnv(cfg.Server.Environment)

	token, jti, err := svc.IssueCallerToken(context.Background(), account)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating token for %s: %v\n", account, err)
		os.Exit(1)
	}
	return tokenOutput{
		Token:     token,
		Account:   account.String(),
		Role:      role,
		ExpiresIn: ttl.String(),
		JTI:       jti,
		Usage: map[string]string{
			"header":   "Authorization: Bearer <token>",
			"audience": cfg.Auth.Audience,
		},
	}
}

func emit(tokens []tokenOutput, jsonOutput bool) {
	if jsonOutput {
		var v any = tokens
		if len(tokens) == 1 {
			v = tokens[0]
		}
		printJSON(v)
		return
	}
	for i, t := range tokens {
		if i > 0 {
			fmt.Println()
		}
		fmt.Println("Caller Token (JWT)")
		fmt.Println("==================")
		fmt.Printf("Account:    %s\n", t.Account)
		if t.Role != "" {
			fmt.Printf("Role:       %s\n", t.Role)
		}
		fmt.Printf("Expires In: %s\n", t.ExpiresIn)
		fmt.Printf("JTI:        %s\n", t.JTI)
		fmt.Println()
		fmt.Println("Token:")
		fmt.Println(t.Token)
	}
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  curl -H \"Authorization: Bearer <token>\" http://localhost:8080/v1/...")
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}
