package config

import "testing"

func TestDefaultConfigValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("unexpected error for default config: %v", err)
	}
}

func TestEdgeConfigRejectsDisabledETFFDoG(t *testing.T) {
	cfg := Default()
	cfg.Backend = BackendEdge
	cfg.Edge.EnableETFFDoG = false
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error when enable_etf_fdog is false")
	}
}

func TestEdgeConfigRejectsDisabledFlowTracing(t *testing.T) {
	cfg := Default()
	cfg.Backend = BackendEdge
	cfg.Edge.EnableFlowTracing = false
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error when enable_flow_tracing is false")
	}
}

func TestValidateDimensionsRejectsZero(t *testing.T) {
	if err := ValidateDimensions(0, 10); err == nil {
		t.Fatal("expected an error for a zero-width image")
	}
}
