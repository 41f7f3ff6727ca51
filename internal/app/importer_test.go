package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotesboard/internal/domain"
	"github.com/jsamuelsen/quotesboard/internal/mocks"
	"github.com/jsamuelsen/quotesboard/internal/ports"
)

func newImporter(t *testing.T) (*Importer, *mocks.MockQuoteSource, *mocks.MockAuthorRepository, *mocks.MockQuoteRepository) {
	t.Helper()

	source := mocks.NewMockQuoteSource(t)
	authors := mocks.NewMockAuthorRepository(t)
	quotes := mocks.NewMockQuoteRepository(t)

	im := NewImporter(ImporterConfig{
		Source:      source,
		Authors:     NewAuthorService(AuthorServiceConfig{Authors: authors, Quotes: quotes, Logger: discardLogger()}),
		Quotes:      NewQuoteService(QuoteServiceConfig{Quotes: quotes, Authors: authors, Logger: discardLogger()}),
		Concurrency: 2,
		Logger:      discardLogger(),
	})

	return im, source, authors, quotes
}

func TestNewImporter_PanicsWithoutSource(t *testing.T) {
	assert.Panics(t, func() { NewImporter(ImporterConfig{}) })
}

func TestImporter_Import(t *testing.T) {
	im, source, authors, quotes := newImporter(t)

	source.EXPECT().RandomQuote(mock.Anything).
		Return(ports.RemoteQuote{Text: "Imagination is more important than knowledge.", Author: "Albert Einstein"}, nil).Once()
	source.EXPECT().RandomQuote(mock.Anything).
		Return(ports.RemoteQuote{}, domain.NewUnavailableError("quotable", "timeout")).Once()
	source.EXPECT().RandomQuote(mock.Anything).
		Return(ports.RemoteQuote{Text: "Leeeroy Jenkins!", Author: "Leroy Jenkins"}, nil).Once()

	einstein := domain.Author{ID: 5, RawName: "albert_einstein"}

	authors.EXPECT().GetByRawName(mock.Anything, "albert_einstein").
		Return(domain.Author{}, domain.NewNotFoundErrorByKey("author", "albert_einstein"))
	authors.EXPECT().Create(mock.Anything, "albert_einstein").Return(einstein, nil)
	authors.EXPECT().GetByRawName(mock.Anything, "leroy_jenkins").Return(leroy, nil)

	quotes.EXPECT().Create(mock.Anything, mock.Anything).Return(domain.Quote{ID: 1}, nil).Times(2)

	report := im.Import(context.Background(), 3)

	assert.Equal(t, 3, report.Requested)
	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 1, report.Failed())
	require.Error(t, report.Err())
	assert.True(t, domain.IsUnavailable(report.Err()))
}

func TestImporter_StoreFailureIsReported(t *testing.T) {
	im, source, authors, quotes := newImporter(t)
	boom := errors.New("database is locked")

	source.EXPECT().RandomQuote(mock.Anything).Return(ports.RemoteQuote{Text: "hi", Author: "Leroy Jenkins"}, nil)
	authors.EXPECT().GetByRawName(mock.Anything, "leroy_jenkins").Return(leroy, nil)
	quotes.EXPECT().Create(mock.Anything, mock.Anything).Return(domain.Quote{}, boom)

	report := im.Import(context.Background(), 1)

	assert.Zero(t, report.Imported)
	assert.ErrorIs(t, report.Err(), boom)
}

func TestParallelPartialLimit(t *testing.T) {
	fail := errors.New("fail")

	fns := []func(context.Context) (int, error){
		func(context.Context) (int, error) { return 1, nil },
		func(context.Context) (int, error) { return 0, fail },
		func(context.Context) (int, error) { return 3, nil },
	}

	results := ParallelPartialLimit(context.Background(), 2, fns...)

	require.Len(t, results, 3)
	assert.Equal(t, 1, results[0].Value)
	assert.ErrorIs(t, results[1].Err, fail)
	assert.Equal(t, 3, results[2].Value)
}

func TestParallelPartialLimit_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	results := ParallelPartialLimit(ctx, 1, func(context.Context) (int, error) {
		called = true
		return 1, nil
	})

	assert.False(t, called)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
}
