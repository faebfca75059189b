package services_test

import (
	"errors"
	"testing"

	"craftmarket/internal/domain"
	"craftmarket/internal/repos"
	"craftmarket/internal/services"
)

func authFixture(t *testing.T) *services.AuthService {
	t.Helper()
	db := memdb(t)
	return services.NewAuthService(repos.NewUserRepo(db), "test-secret")
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	svc := authFixture(t)

	u, err := svc.Register("nina@craftmarket.test", "Nina", "Sunrise9x", "seller")
	if err != nil {
		t.Fatal(err)
	}
	if u.Role != "SELLER" {
		t.Fatalf("role not normalized: %q", u.Role)
	}

	logged, token, err := svc.Login("nina@craftmarket.test", "Sunrise9x")
	if err != nil {
		t.Fatal(err)
	}
	if token == "" || logged.ID != u.ID {
		t.Fatalf("bad login result: token=%q id=%q", token, logged.ID)
	}

	got, err := svc.CurrentUser(token)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != u.ID || got.Role != "SELLER" {
		t.Fatalf("token resolves wrong user: %+v", got)
	}
}

func TestRegisterDefaultsToBuyer(t *testing.T) {
	svc := authFixture(t)

	u, err := svc.Register("budi@craftmarket.test", "Budi", "Sunrise9x", "")
	if err != nil {
		t.Fatal(err)
	}
	if u.Role != "BUYER" {
		t.Fatalf("want BUYER, got %q", u.Role)
	}
}

func TestRegisterEmailTaken(t *testing.T) {
	svc := authFixture(t)

	// dewi@craftmarket.test is seeded.
	_, err := svc.Register("dewi@craftmarket.test", "Dewi Two", "Sunrise9x", "")
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("want ErrEmailTaken, got %v", err)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	svc := authFixture(t)

	if _, _, err := svc.Login("dewi@craftmarket.test", "wrong-password"); err == nil {
		t.Fatal("login with a wrong password must fail")
	}
	if _, _, err := svc.Login("nobody@craftmarket.test", "Passw0rd!"); err == nil {
		t.Fatal("login for an unknown account must fail")
	}
}

func TestCurrentUserRejectsGarbageToken(t *testing.T) {
	svc := authFixture(t)

	if _, err := svc.CurrentUser("not-a-jwt"); err == nil {
		t.Fatal("garbage token must be rejected")
	}
}
