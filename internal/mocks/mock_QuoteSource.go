// Package mocks holds testify mocks of the ports interfaces, in the shape mockery's
// expecter template produces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen/quotesboard/internal/ports"
)

// MockQuoteSource is a testify mock of ports.QuoteSource.
type MockQuoteSource struct {
	mock.Mock
}

type MockQuoteSource_Expecter struct {
	mock *mock.Mock
}

func (_m *MockQuoteSource) EXPECT() *MockQuoteSource_Expecter {
	return &MockQuoteSource_Expecter{mock: &_m.Mock}
}

// NewMockQuoteSource registers expectation assertions on t.Cleanup.
func NewMockQuoteSource(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockQuoteSource {
	m := &MockQuoteSource{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// RemoteQuoteCall is an expectation returning a remote quote.
type RemoteQuoteCall struct {
	*mock.Call
}

func (c *RemoteQuoteCall) Return(q ports.RemoteQuote, err error) *RemoteQuoteCall {
	c.Call.Return(q, err)
	return c
}

func (c *RemoteQuoteCall) Once() *RemoteQuoteCall {
	c.Call.Once()
	return c
}

func (_m *MockQuoteSource) RandomQuote(ctx context.Context) (ports.RemoteQuote, error) {
	ret := _m.Called(ctx)
	return ret.Get(0).(ports.RemoteQuote), ret.Error(1)
}

func (_e *MockQuoteSource_Expecter) RandomQuote(ctx any) *RemoteQuoteCall {
	return &RemoteQuoteCall{Call: _e.mock.On("RandomQuote", ctx)}
}
