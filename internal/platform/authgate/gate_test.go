package authgate

import (
	"context"
	"errors"
	"testing"
)

type fakeAuthorizer struct {
	authorizeErr error
	refreshed    int
}

func (f *fakeAuthorizer) Authorize(ctx context.Context, employeeID int64, token string) error {
	return f.authorizeErr
}

func (f *fakeAuthorizer) RefreshActivity(ctx context.Context, employeeID int64) error {
	f.refreshed++
	return nil
}

func TestRequire_Denied(t *testing.T) {
	denied := errors.New("no valid session")
	g := New(&fakeAuthorizer{authorizeErr: denied})

	done, err := g.Require(context.Background(), 1, "tok")
	if !errors.Is(err, denied) {
		t.Fatalf("Require = %v, want the authorize error", err)
	}
	if done != nil {
		t.Fatal("Require should not return a completion func on failure")
	}
}

func TestRequire_RefreshesExactlyOnce(t *testing.T) {
	auth := &fakeAuthorizer{}
	g := New(auth)

	done, err := g.Require(context.Background(), 1, "tok")
	if err != nil {
		t.Fatalf("Require: %v", err)
	}
	if auth.refreshed != 0 {
		t.Fatal("Require must not refresh before the operation completes")
	}
	done()
	done() // deferred and explicit calls must not double-refresh
	if auth.refreshed != 1 {
		t.Errorf("refresh count = %d, want 1", auth.refreshed)
	}
}
