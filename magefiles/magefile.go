//go:build mage

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/joho/godotenv"
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Build compiles both binaries into ./bin.
func Build() error {
	mg.Deps(Tidy)
	fmt.Println(">> Building panel and api...")
	if err := sh.Run("go", "build", "-o", "bin/usermanager-panel", "./cmd/panel"); err != nil {
		return err
	}
	return sh.Run("go", "build", "-o", "bin/usermanager-api", "./cmd/api")
}

// API runs the reference backend with go run.
func API() error {
	fmt.Println(">> go run ./cmd/api ...")
	return sh.RunV("go", "run", "./cmd/api")
}

// Panel runs the admin panel with go run. Start API first unless
// BACKEND_BASE_URL points somewhere else.
func Panel() error {
	fmt.Println(">> go run ./cmd/panel ...")
	return sh.RunV("go", "run", "./cmd/panel")
}

// Tidy runs go mod tidy.
func Tidy() error {
	fmt.Println(">> go mod tidy...")
	return sh.Run("go", "mod", "tidy")
}

// Test runs all unit tests. Postgres tests run only when TEST_DATABASE_URL is set.
func Test() error {
	fmt.Println(">> Running tests...")
	return sh.RunV("go", "test", "./...")
}

// Lint runs golangci-lint if available.
func Lint() error {
	if _, err := exec.LookPath("golangci-lint"); err != nil {
		fmt.Println(">> golangci-lint not found; skipping.")
		return nil
	}
	return sh.Run("golangci-lint", "run", "./...")
}

// Clean removes build artifacts and local uploads.
func Clean() error {
	fmt.Println(">> Cleaning...")
	if err := os.RemoveAll("bin"); err != nil {
		return err
	}
	uploads := os.Getenv("STORAGE_BASE_PATH")
	if uploads == "" {
		uploads = "uploads"
	}
	return os.RemoveAll(uploads)
}

func init() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("error loading .env file", "err", err)
	}
}
