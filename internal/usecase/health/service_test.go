package health

import (
	"context"
	"errors"
	"testing"
)

type mockChecker struct {
	err error
}

func (m *mockChecker) HealthCheck(_ context.Context) error { return m.err }

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockChecker{}, &mockChecker{})

	report := svc.Check(context.Background())
	if report.Status != Healthy {
		t.Fatalf("status = %q", report.Status)
	}
	if report.Checks["vectordb"] != CheckOK || report.Checks["embedding"] != CheckOK {
		t.Errorf("unexpected checks: %v", report.Checks)
	}
}

func TestCheck_DegradedOnAnyFailure(t *testing.T) {
	svc := New(&mockChecker{err: errors.New("down")}, &mockChecker{})

	report := svc.Check(context.Background())
	if report.Status != Degraded {
		t.Fatalf("status = %q", report.Status)
	}
	if report.Checks["vectordb"] != CheckError {
		t.Errorf("unexpected checks: %v", report.Checks)
	}
	if report.Checks["embedding"] != CheckOK {
		t.Errorf("healthy component marked failing: %v", report.Checks)
	}
}

func TestCheck_NilCheckersSkipped(t *testing.T) {
	svc := New(nil, nil)

	report := svc.Check(context.Background())
	if report.Status != Healthy || len(report.Checks) != 0 {
		t.Errorf("unexpected report: %+v", report)
	}
}
