package ledger

import (
	"context"
	"testing"
)

func TestHasBeforeAndAfterAdd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	led, err := Open(dir)
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	defer led.Close()

	ctx := context.Background()
	url := "https://www.themanufacturer.com/articles/first/"

	has, err := led.Has(ctx, url)
	if err != nil {
		t.Fatalf("has: %v", err)
	}
	if has {
		t.Fatalf("url should be unseen before add")
	}

	if err := led.Add(ctx, url); err != nil {
		t.Fatalf("add: %v", err)
	}

	has, err = led.Has(ctx, url)
	if err != nil {
		t.Fatalf("has after add: %v", err)
	}
	if !has {
		t.Fatalf("url should be seen after add")
	}
}

func TestAddIsIdempotent(t *testing.T) {
	t.Parallel()

	led, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	defer led.Close()

	ctx := context.Background()
	url := "https://www.themanufacturer.com/articles/dup/"

	for i := 0; i < 3; i++ {
		if err := led.Add(ctx, url); err != nil {
			t.Fatalf("add #%d: %v", i+1, err)
		}
	}

	has, err := led.Has(ctx, url)
	if err != nil {
		t.Fatalf("has: %v", err)
	}
	if !has {
		t.Fatalf("url should be seen")
	}
}

func TestSurvivesReopen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()
	url := "https://www.themanufacturer.com/articles/persisted/"

	led, err := Open(dir)
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	if err := led.Add(ctx, url); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := led.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen ledger: %v", err)
	}
	defer reopened.Close()

	has, err := reopened.Has(ctx, url)
	if err != nil {
		t.Fatalf("has after reopen: %v", err)
	}
	if !has {
		t.Fatalf("url should survive reopen")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	t.Parallel()

	led, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}

	if err := led.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := led.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
