package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen/quotesboard/internal/domain"
)

// MockAuthorRepository is a testify mock of ports.AuthorRepository.
type MockAuthorRepository struct {
	mock.Mock
}

type MockAuthorRepository_Expecter struct {
	mock *mock.Mock
}

func (_m *MockAuthorRepository) EXPECT() *MockAuthorRepository_Expecter {
	return &MockAuthorRepository_Expecter{mock: &_m.Mock}
}

// NewMockAuthorRepository registers expectation assertions on t.Cleanup.
func NewMockAuthorRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockAuthorRepository {
	m := &MockAuthorRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// AuthorCall is an expectation returning a single author.
type AuthorCall struct {
	*mock.Call
}

func (c *AuthorCall) Return(author domain.Author, err error) *AuthorCall {
	c.Call.Return(author, err)
	return c
}

func (c *AuthorCall) Once() *AuthorCall {
	c.Call.Once()
	return c
}

func (_m *MockAuthorRepository) Create(ctx context.Context, rawName string) (domain.Author, error) {
	ret := _m.Called(ctx, rawName)
	return ret.Get(0).(domain.Author), ret.Error(1)
}

func (_e *MockAuthorRepository_Expecter) Create(ctx, rawName any) *AuthorCall {
	return &AuthorCall{Call: _e.mock.On("Create", ctx, rawName)}
}

func (_m *MockAuthorRepository) GetByID(ctx context.Context, id uint) (domain.Author, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(domain.Author), ret.Error(1)
}

func (_e *MockAuthorRepository_Expecter) GetByID(ctx, id any) *AuthorCall {
	return &AuthorCall{Call: _e.mock.On("GetByID", ctx, id)}
}

func (_m *MockAuthorRepository) GetByRawName(ctx context.Context, rawName string) (domain.Author, error) {
	ret := _m.Called(ctx, rawName)
	return ret.Get(0).(domain.Author), ret.Error(1)
}

func (_e *MockAuthorRepository_Expecter) GetByRawName(ctx, rawName any) *AuthorCall {
	return &AuthorCall{Call: _e.mock.On("GetByRawName", ctx, rawName)}
}

// AuthorMapCall is an expectation returning authors keyed by id.
type AuthorMapCall struct {
	*mock.Call
}

func (c *AuthorMapCall) Return(authors map[uint]domain.Author, err error) *AuthorMapCall {
	c.Call.Return(authors, err)
	return c
}

func (_m *MockAuthorRepository) GetMany(ctx context.Context, ids []uint) (map[uint]domain.Author, error) {
	ret := _m.Called(ctx, ids)

	authors, _ := ret.Get(0).(map[uint]domain.Author)

	return authors, ret.Error(1)
}

func (_e *MockAuthorRepository_Expecter) GetMany(ctx, ids any) *AuthorMapCall {
	return &AuthorMapCall{Call: _e.mock.On("GetMany", ctx, ids)}
}
