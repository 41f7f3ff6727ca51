package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen/quotesboard/internal/domain"
)

// MockQuoteRepository is a testify mock of ports.QuoteRepository.
type MockQuoteRepository struct {
	mock.Mock
}

type MockQuoteRepository_Expecter struct {
	mock *mock.Mock
}

func (_m *MockQuoteRepository) EXPECT() *MockQuoteRepository_Expecter {
	return &MockQuoteRepository_Expecter{mock: &_m.Mock}
}

// NewMockQuoteRepository registers expectation assertions on t.Cleanup.
func NewMockQuoteRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockQuoteRepository {
	m := &MockQuoteRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// QuoteCall is an expectation returning a single quote.
type QuoteCall struct {
	*mock.Call
}

func (c *QuoteCall) Return(quote domain.Quote, err error) *QuoteCall {
	c.Call.Return(quote, err)
	return c
}

func (c *QuoteCall) Times(n int) *QuoteCall {
	c.Call.Times(n)
	return c
}

// SingleQuoteCall is an expectation returning a single quote row.
type SingleQuoteCall struct {
	*mock.Call
}

func (c *SingleQuoteCall) Return(sq domain.SingleQuote, err error) *SingleQuoteCall {
	c.Call.Return(sq, err)
	return c
}

// CountCall is an expectation returning a row count.
type CountCall struct {
	*mock.Call
}

func (c *CountCall) Return(n int64, err error) *CountCall {
	c.Call.Return(n, err)
	return c
}

func (_m *MockQuoteRepository) CreateSingleQuote(ctx context.Context, line domain.LineDraft) (domain.SingleQuote, error) {
	ret := _m.Called(ctx, line)
	return ret.Get(0).(domain.SingleQuote), ret.Error(1)
}

func (_e *MockQuoteRepository_Expecter) CreateSingleQuote(ctx, line any) *SingleQuoteCall {
	return &SingleQuoteCall{Call: _e.mock.On("CreateSingleQuote", ctx, line)}
}

func (_m *MockQuoteRepository) GetSingleQuote(ctx context.Context, id uint) (domain.SingleQuote, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(domain.SingleQuote), ret.Error(1)
}

func (_e *MockQuoteRepository_Expecter) GetSingleQuote(ctx, id any) *SingleQuoteCall {
	return &SingleQuoteCall{Call: _e.mock.On("GetSingleQuote", ctx, id)}
}

func (_m *MockQuoteRepository) Create(ctx context.Context, draft domain.QuoteDraft) (domain.Quote, error) {
	ret := _m.Called(ctx, draft)
	return ret.Get(0).(domain.Quote), ret.Error(1)
}

func (_e *MockQuoteRepository_Expecter) Create(ctx, draft any) *QuoteCall {
	return &QuoteCall{Call: _e.mock.On("Create", ctx, draft)}
}

func (_m *MockQuoteRepository) GetByID(ctx context.Context, id uint) (domain.Quote, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(domain.Quote), ret.Error(1)
}

func (_e *MockQuoteRepository_Expecter) GetByID(ctx, id any) *QuoteCall {
	return &QuoteCall{Call: _e.mock.On("GetByID", ctx, id)}
}

func (_m *MockQuoteRepository) Random(ctx context.Context) (domain.Quote, error) {
	ret := _m.Called(ctx)
	return ret.Get(0).(domain.Quote), ret.Error(1)
}

func (_e *MockQuoteRepository_Expecter) Random(ctx any) *QuoteCall {
	return &QuoteCall{Call: _e.mock.On("Random", ctx)}
}

func (_m *MockQuoteRepository) RandomByTrailingAuthor(ctx context.Context, authorID uint) (domain.Quote, error) {
	ret := _m.Called(ctx, authorID)
	return ret.Get(0).(domain.Quote), ret.Error(1)
}

func (_e *MockQuoteRepository_Expecter) RandomByTrailingAuthor(ctx, authorID any) *QuoteCall {
	return &QuoteCall{Call: _e.mock.On("RandomByTrailingAuthor", ctx, authorID)}
}

func (_m *MockQuoteRepository) Count(ctx context.Context) (int64, error) {
	ret := _m.Called(ctx)
	return ret.Get(0).(int64), ret.Error(1)
}

func (_e *MockQuoteRepository_Expecter) Count(ctx any) *CountCall {
	return &CountCall{Call: _e.mock.On("Count", ctx)}
}
