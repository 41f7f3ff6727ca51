package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen/quotesboard/internal/ports"
)

// MockHealthRegistry is a testify mock of ports.HealthRegistry.
type MockHealthRegistry struct {
	mock.Mock
}

type MockHealthRegistry_Expecter struct {
	mock *mock.Mock
}

func (_m *MockHealthRegistry) EXPECT() *MockHealthRegistry_Expecter {
	return &MockHealthRegistry_Expecter{mock: &_m.Mock}
}

// NewMockHealthRegistry registers expectation assertions on t.Cleanup.
func NewMockHealthRegistry(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockHealthRegistry {
	m := &MockHealthRegistry{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// HealthResultCall is an expectation returning a readiness result.
type HealthResultCall struct {
	*mock.Call
}

func (c *HealthResultCall) Return(result *ports.HealthResult) *HealthResultCall {
	c.Call.Return(result)
	return c
}

func (c *HealthResultCall) Maybe() *HealthResultCall {
	c.Call.Maybe()
	return c
}

// ErrorCall is an expectation returning only an error.
type ErrorCall struct {
	*mock.Call
}

func (c *ErrorCall) Return(err error) *ErrorCall {
	c.Call.Return(err)
	return c
}

func (_m *MockHealthRegistry) Register(checker ports.HealthChecker) error {
	return _m.Called(checker).Error(0)
}

func (_e *MockHealthRegistry_Expecter) Register(checker any) *ErrorCall {
	return &ErrorCall{Call: _e.mock.On("Register", checker)}
}

func (_m *MockHealthRegistry) CheckAll(ctx context.Context) *ports.HealthResult {
	ret := _m.Called(ctx)

	result, _ := ret.Get(0).(*ports.HealthResult)

	return result
}

func (_e *MockHealthRegistry_Expecter) CheckAll(ctx any) *HealthResultCall {
	return &HealthResultCall{Call: _e.mock.On("CheckAll", ctx)}
}
