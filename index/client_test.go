package index

import (
	"os"
	"testing"
)

func TestEnvOrDefault(t *testing.T) {

	k := "SKOPE_TEST_ES_URL"

	defer os.Unsetenv(k)

	os.Unsetenv(k)

	if v := EnvOrDefault(k, "http://localhost:9200"); v != "http://localhost:9200" {
		t.Fatalf("Expected default for unset variable, got %s", v)
	}

	os.Setenv(k, "")

	if v := EnvOrDefault(k, "http://localhost:9200"); v != "http://localhost:9200" {
		t.Fatalf("Expected default for empty variable, got %s", v)
	}

	os.Setenv(k, "http://es.example.org:9200")

	if v := EnvOrDefault(k, "http://localhost:9200"); v != "http://es.example.org:9200" {
		t.Fatalf("Expected environment value, got %s", v)
	}
}
