package config

import "testing"

func TestGetDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("BCRYPT_COST", "")
	t.Setenv("CRON_ENABLED", "")
	t.Setenv("GO_ENV", "")

	env, err := Get()
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if env.PORT != 8080 {
		t.Errorf("PORT = %d, want 8080", env.PORT)
	}
	if env.DB_DRIVER != "postgres" {
		t.Errorf("DB_DRIVER = %q, want postgres", env.DB_DRIVER)
	}
	if env.BCRYPT_COST != 12 {
		t.Errorf("BCRYPT_COST = %d, want 12", env.BCRYPT_COST)
	}
	if !env.CRON_ENABLED {
		t.Error("CRON_ENABLED should default to true")
	}
	if env.IsProduction() {
		t.Error("empty GO_ENV is not production")
	}
}

func TestGetOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("CRON_ENABLED", "false")
	t.Setenv("GO_ENV", "production")

	env, _ := Get()
	if env.PORT != 9000 {
		t.Errorf("PORT = %d, want 9000", env.PORT)
	}
	if env.DB_DRIVER != "sqlite" {
		t.Errorf("DB_DRIVER = %q, want sqlite", env.DB_DRIVER)
	}
	if env.CRON_ENABLED {
		t.Error("CRON_ENABLED should be false")
	}
	if !env.IsProduction() {
		t.Error("expected production")
	}
}
