package validator

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/thoreinstein/ccm/internal/mcp"
)

// MockProber is a testify mock for Prober.
type MockProber struct {
	mock.Mock
}

// NewMockProber returns a MockProber whose expectations are asserted when
// the test ends.
func NewMockProber(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockProber {
	m := &MockProber{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockProber) Probe(ctx context.Context, server *mcp.Server) error {
	args := m.Called(ctx, server)
	return args.Error(0)
}

// MockCheck is a testify mock for Check.
type MockCheck struct {
	mock.Mock
}

func NewMockCheck(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCheck {
	m := &MockCheck{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCheck) Name() string {
	return m.Called().String(0)
}

func (m *MockCheck) Run() *Result {
	args := m.Called()
	res, _ := args.Get(0).(*Result)
	return res
}
