package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/miru/channelpulse-go/pkg/errors"
	"go.uber.org/zap"
)

var errQuota = errors.New("quota exceeded for this key")

func quotaClassifier(err error) bool {
	return errors.Is(err, errQuota)
}

func TestIsKeyLevelFailure(t *testing.T) {
	cases := []struct {
		status  int
		message string
		want    bool
	}{
		{403, "Daily quota exceeded", true},
		{400, "API key not valid. Please pass a valid API key.", true},
		{429, "Rate limit exceeded", true},
		{403, "Access forbidden", true},
		{500, "quota exceeded", false},
		{403, "something unrelated", false},
		{404, "not found", false},
	}

	for _, tc := range cases {
		if got := IsKeyLevelFailure(tc.status, tc.message); got != tc.want {
			t.Errorf("IsKeyLevelFailure(%d, %q) = %v, want %v", tc.status, tc.message, got, tc.want)
		}
	}
}

func TestKeyPoolRequiresKeys(t *testing.T) {
	if _, err := NewKeyPool("empty", nil, nil, zap.NewNop()); err == nil {
		t.Fatal("expected error for empty key pool")
	}
}

func TestKeyPoolRotatesOnKeyLevelFailure(t *testing.T) {
	pool, err := NewKeyPool("test", []string{"key-a", "key-b", "key-c"}, quotaClassifier, zap.NewNop())
	if err != nil {
		t.Fatalf("NewKeyPool: %v", err)
	}

	var used []string
	err = pool.Execute(context.Background(), "fetch", func(_ context.Context, apiKey string) error {
		used = append(used, apiKey)
		if apiKey != "key-c" {
			return errQuota
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success on third key, got %v", err)
	}

	// A disqualified key is abandoned after a single attempt
	want := []string{"key-a", "key-b", "key-c"}
	if fmt.Sprint(used) != fmt.Sprint(want) {
		t.Fatalf("key order = %v, want %v", used, want)
	}
}

func TestKeyPoolExhaustionStartsCooldown(t *testing.T) {
	pool, err := NewKeyPool("test", []string{"key-a", "key-b"}, quotaClassifier, zap.NewNop())
	if err != nil {
		t.Fatalf("NewKeyPool: %v", err)
	}

	err = pool.Execute(context.Background(), "fetch", func(_ context.Context, _ string) error {
		return errQuota
	})

	var rotationErr *pkgerrors.KeyRotationError
	if !errors.As(err, &rotationErr) {
		t.Fatalf("expected KeyRotationError, got %v", err)
	}
	if !errors.Is(err, errQuota) {
		t.Fatalf("expected the underlying cause to be preserved, got %v", err)
	}

	// The pool refuses further work while cooling down
	err = pool.Execute(context.Background(), "fetch", func(_ context.Context, _ string) error {
		t.Fatal("call must not run during cooldown")
		return nil
	})
	if !errors.As(err, &rotationErr) {
		t.Fatalf("expected cooldown KeyRotationError, got %v", err)
	}
}

func TestKeyPoolHonorsContextCancellation(t *testing.T) {
	pool, err := NewKeyPool("test", []string{"key-a"}, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("NewKeyPool: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	err = pool.Execute(ctx, "fetch", func(_ context.Context, _ string) error {
		cancel()
		return errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
