package store_test

import "testing"

func TestInitializeConfigSeedsDefaults(t *testing.T) {
	st := newTestStore(t)

	if err := st.InitializeConfig(); err != nil {
		t.Fatalf("InitializeConfig failed: %v", err)
	}

	config, err := st.AllConfig()
	if err != nil {
		t.Fatalf("AllConfig failed: %v", err)
	}
	want := map[string]string{
		"server":     "",
		"language":   "en",
		"direction":  "ltr",
		"pageMode":   "single",
		"resizeMode": "fit",
	}
	for key, value := range want {
		got, ok := config[key]
		if !ok {
			t.Errorf("Default key %q not seeded", key)
			continue
		}
		if got != value {
			t.Errorf("Default %q: expected %q, got %q", key, value, got)
		}
	}
}

func TestInitializeConfigPreservesExistingRows(t *testing.T) {
	st := newTestStore(t)

	if err := st.SetConfigValue("language", "ja"); err != nil {
		t.Fatalf("SetConfigValue failed: %v", err)
	}
	if err := st.InitializeConfig(); err != nil {
		t.Fatalf("InitializeConfig failed: %v", err)
	}

	value, err := st.GetConfigValue("language")
	if err != nil {
		t.Fatalf("GetConfigValue failed: %v", err)
	}
	if value != "ja" {
		t.Errorf("Seeding overwrote an existing row: got %q", value)
	}
}

func TestSetConfigValueUpserts(t *testing.T) {
	st := newTestStore(t)

	if err := st.SetConfigValue("server", "http://nas:8080"); err != nil {
		t.Fatalf("First set failed: %v", err)
	}
	if err := st.SetConfigValue("server", "http://nas:9090"); err != nil {
		t.Fatalf("Second set failed: %v", err)
	}

	value, err := st.GetConfigValue("server")
	if err != nil {
		t.Fatalf("GetConfigValue failed: %v", err)
	}
	if value != "http://nas:9090" {
		t.Errorf("Expected updated value, got %q", value)
	}
}

func TestGetConfigValueMissingKey(t *testing.T) {
	st := newTestStore(t)

	value, err := st.GetConfigValue("no-such-key")
	if err != nil {
		t.Fatalf("Expected no error for a missing key, got %v", err)
	}
	if value != "" {
		t.Errorf("Expected empty value for a missing key, got %q", value)
	}
}
